package storefront

import (
	"github.com/jrsteele09/go-storefront/graphql"
	apperrors "github.com/jrsteele09/go-storefront/internal/errors"
)

// FailureKind groups errors by how they are shown to the user
type FailureKind string

const (
	FailureNone               FailureKind = ""
	FailureInvalidCredentials FailureKind = "invalid_credentials"
	FailureNotOwner           FailureKind = "not_owner"
	FailureSession            FailureKind = "session"
	FailureNotFound           FailureKind = "not_found"
	FailureInvalidRequest     FailureKind = "invalid_request"
	FailureUnavailable        FailureKind = "unavailable"
	FailureAPI                FailureKind = "api"
	FailureInternal           FailureKind = "internal"
)

// Failure is an error reduced to something a page can display
type Failure struct {
	Kind    FailureKind
	Message string
}

func (f Failure) Error() string {
	return f.Message
}

// Classify maps any error from this package to a Failure. A nil error classifies as FailureNone.
func Classify(err error) Failure {
	if err == nil {
		return Failure{Kind: FailureNone}
	}

	switch {
	case apperrors.Is(err, apperrors.ErrInvalidCredentials):
		return Failure{Kind: FailureInvalidCredentials, Message: "Incorrect email and password"}
	case apperrors.Is(err, apperrors.ErrNotOwner):
		return Failure{Kind: FailureNotOwner, Message: "This store does not belong to you"}
	case apperrors.Is(err, apperrors.ErrNoSession), apperrors.Is(err, apperrors.ErrMalformedSession):
		return Failure{Kind: FailureSession, Message: "Your session has ended, please log in again"}
	case apperrors.Is(err, apperrors.ErrStoreNotFound):
		return Failure{Kind: FailureNotFound, Message: "Store not found"}
	case apperrors.Is(err, apperrors.ErrOwnerNotFound):
		return Failure{Kind: FailureNotFound, Message: "Not found"}
	case apperrors.Is(err, apperrors.ErrInvalidRequest):
		return Failure{Kind: FailureInvalidRequest, Message: "Please check the form and try again"}
	}

	switch graphql.KindOf(err) {
	case graphql.KindUnauthorized:
		return Failure{Kind: FailureSession, Message: "Your session has ended, please log in again"}
	case graphql.KindEncode:
		return Failure{Kind: FailureInvalidRequest, Message: "Please check the form and try again"}
	case graphql.KindNetwork, graphql.KindHTTP:
		return Failure{Kind: FailureUnavailable, Message: "The store API is unavailable, please try again later"}
	case graphql.KindGraphQL:
		if messages := graphql.MessagesOf(err); len(messages) > 0 {
			return Failure{Kind: FailureAPI, Message: messages[0].Message}
		}
		return Failure{Kind: FailureAPI, Message: "The store API rejected the request"}
	}

	return Failure{Kind: FailureInternal, Message: "Something went wrong, please try again"}
}
