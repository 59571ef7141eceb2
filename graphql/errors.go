package graphql

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why an operation failed
type Kind int

const (
	KindNone         Kind = iota // no failure
	KindNetwork                  // the request never produced a response
	KindUnauthorized             // the API refused the credential (HTTP 401/403)
	KindHTTP                     // any other non-2xx status
	KindGraphQL                  // the response carried GraphQL errors
	KindDecode                   // the response body could not be decoded
	KindProvider                 // the auth-context provider failed to produce a header
	KindEncode                   // the request could not be encoded, nothing was sent
)

// ErrResponseTooLarge is wrapped by the KindDecode error returned for a body over the client's size limit
var ErrResponseTooLarge = errors.New("response exceeds size limit")

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "ok"
	case KindNetwork:
		return "network"
	case KindUnauthorized:
		return "unauthorized"
	case KindHTTP:
		return "http"
	case KindGraphQL:
		return "graphql"
	case KindDecode:
		return "decode"
	case KindProvider:
		return "provider"
	case KindEncode:
		return "encode"
	default:
		return "unknown"
	}
}

// ErrorMessage is one entry of a GraphQL response's errors list
type ErrorMessage struct {
	Message    string                 `json:"message"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

type ErrorList []ErrorMessage

func (l ErrorList) Error() string {
	messages := make([]string, 0, len(l))
	for _, e := range l {
		messages = append(messages, e.Message)
	}
	return strings.Join(messages, "; ")
}

// Error is returned by every failed operation
type Error struct {
	Kind       Kind
	Operation  string
	StatusCode int
	Messages   ErrorList
	Err        error
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "graphql %s", e.Kind)
	if e.Operation != "" {
		fmt.Fprintf(&b, " [%s]", e.Operation)
	}
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " status %d", e.StatusCode)
	}
	if len(e.Messages) > 0 {
		fmt.Fprintf(&b, ": %s", e.Messages.Error())
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the Kind of err, KindNone for nil and for errors not produced by this package
func KindOf(err error) Kind {
	var gqlErr *Error
	if errors.As(err, &gqlErr) {
		return gqlErr.Kind
	}
	return KindNone
}

// MessagesOf returns the GraphQL error messages carried by err
func MessagesOf(err error) ErrorList {
	var gqlErr *Error
	if errors.As(err, &gqlErr) {
		return gqlErr.Messages
	}
	return nil
}
