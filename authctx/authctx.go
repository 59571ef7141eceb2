// Package authctx decides which credential an outgoing GraphQL request carries.
//
// The rule is the same wherever a request originates: an explicit override
// credential (a storefront's public key, the guest key) wins, otherwise the
// secret of the stored session is used, otherwise the request goes out with an
// empty authorization header and the API scopes or rejects it.
package authctx

import (
	"context"
	"net/http"

	"github.com/jrsteele09/go-storefront/sessions"
)

// HeaderAuthorization is the only header a Provider sets
const HeaderAuthorization = "authorization"

// Bearer formats a credential as an authorization header value
func Bearer(credential string) string {
	return "Bearer " + credential
}

// Resolve computes the authorization header from an optional session and an optional override.
// A nil session or an empty override means "absent"; absence is never an error.
func Resolve(session *sessions.Session, override string) http.Header {
	header := http.Header{}
	switch {
	case override != "":
		header.Set(HeaderAuthorization, Bearer(override))
	case session != nil && session.Secret != "":
		header.Set(HeaderAuthorization, Bearer(session.Secret))
	default:
		header.Set(HeaderAuthorization, "")
	}
	return header
}

type contextKey string

const (
	contextKeySession  contextKey = "session"
	contextKeyOverride contextKey = "override"
)

// WithSession attaches the caller's session to ctx
func WithSession(ctx context.Context, session sessions.Session) context.Context {
	return context.WithValue(ctx, contextKeySession, session)
}

// SessionFromContext returns the session attached with WithSession
func SessionFromContext(ctx context.Context) (sessions.Session, bool) {
	session, ok := ctx.Value(contextKeySession).(sessions.Session)
	return session, ok
}

// WithOverride attaches an override credential to ctx. An empty key leaves ctx unchanged.
func WithOverride(ctx context.Context, key string) context.Context {
	if key == "" {
		return ctx
	}
	return context.WithValue(ctx, contextKeyOverride, key)
}

// OverrideFromContext returns the override credential attached with WithOverride
func OverrideFromContext(ctx context.Context) (string, bool) {
	key, ok := ctx.Value(contextKeyOverride).(string)
	return key, ok && key != ""
}
