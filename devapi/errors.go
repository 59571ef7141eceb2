package devapi

// apiError is rendered into the GraphQL errors list with its code as an extension
type apiError struct {
	code    string
	message string
}

func (e *apiError) Error() string {
	return e.message
}

func (e *apiError) Extensions() map[string]interface{} {
	return map[string]interface{}{"code": e.code}
}

var (
	errAuthenticationFailed = &apiError{code: "authentication failed", message: "The document was not found or provided password was incorrect."}
	errUnauthorized         = &apiError{code: "unauthorized", message: "Invalid database secret."}
	errPermissionDenied     = &apiError{code: "permission denied", message: "Insufficient privileges to perform the action."}
	errInstanceNotFound     = &apiError{code: "instance not found", message: "Set not found."}
	errInstanceNotUnique    = &apiError{code: "instance not unique", message: "Document is not unique."}
)

func errInvalidArgument(message string) error {
	return &apiError{code: "invalid argument", message: message}
}
