package server

import (
	"net/http"

	"github.com/jrsteele09/go-storefront/authctx"
	"github.com/jrsteele09/go-storefront/sessions"
	"github.com/rs/zerolog/log"
)

// LoadSession attaches the stored session, if any, to the request context.
// Outgoing GraphQL requests made with that context carry the session secret.
func (s *Server) LoadSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session, ok := s.sessions.Load(r); ok {
			r = r.WithContext(authctx.WithSession(r.Context(), session))
		}
		next(w, r)
	}
}

// RequireSession is middleware for owner pages. Without a session the request
// is redirected to the login page before the handler, and any API call it would make, runs.
func (s *Server) RequireSession() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			if _, ok := authctx.SessionFromContext(r.Context()); !ok {
				s.metrics.CounterGuardRedirects.Inc()
				log.Debug().Str("path", r.URL.Path).Msg("No session, redirecting to login")
				redirectSuccess(w, r, RouteLogin)
				return
			}
			next(w, r)
		}
	}
}

// currentSession returns the session attached by LoadSession
func currentSession(r *http.Request) (sessions.Session, bool) {
	return authctx.SessionFromContext(r.Context())
}
