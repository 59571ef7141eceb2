package server

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/jrsteele09/go-storefront/graphql"
	"github.com/jrsteele09/go-storefront/storefront"
	"github.com/rs/zerolog/log"
)

const contentTypeHTML = "text/html; charset=utf-8"

// redirectSuccess helper for htmx-aware success redirects
func redirectSuccess(w http.ResponseWriter, r *http.Request, path string) {
	if isHTMXRequest(r) {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusNoContent) // 204 - no content, just redirect instruction
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// redirectWithError helper for htmx-aware error redirects
func redirectWithError(w http.ResponseWriter, r *http.Request, path, errorMsg string) {
	separator := "?"
	if strings.Contains(path, "?") {
		separator = "&"
	}
	redirectSuccess(w, r, path+separator+"error="+url.QueryEscape(errorMsg))
}

// redirectWithFailure logs err and redirects to path with its user-facing message.
// A rejected credential ends the session and goes to the login page; a foreign store goes back to the dashboard.
func (s *Server) redirectWithFailure(w http.ResponseWriter, r *http.Request, path string, err error) {
	failure := storefront.Classify(err)
	log.Err(err).Str("path", r.URL.Path).Str("failure", string(failure.Kind)).Msg("Request failed")

	switch {
	case graphql.KindOf(err) == graphql.KindUnauthorized:
		s.sessions.Clear(w, r)
		path = RouteLogin
	case failure.Kind == storefront.FailureNotOwner:
		path = RouteDashboard
	}
	redirectWithError(w, r, path, failure.Message)
}

// isHTMXRequest checks if the request was initiated by HTMX
func isHTMXRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
