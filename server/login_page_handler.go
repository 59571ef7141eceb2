package server

import (
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-storefront/storefront"
	"github.com/rs/zerolog/log"
)

// LoginPageUIHandler displays the login page (GET /login)
func (s *Server) LoginPageUIHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("login.html")

	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := currentSession(r); ok {
			redirectSuccess(w, r, RouteDashboard)
			return
		}

		data := s.page(r, "Log in")
		data.Email = r.URL.Query().Get("email")
		render(w, tmpl, http.StatusOK, data)
	}
}

// LoginSubmissionHandler processes the login form submission
func (s *Server) LoginSubmissionHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		email := r.FormValue("email")
		password := r.FormValue("password")
		if email == "" || password == "" {
			s.renderLoginError(w, r, "Email and password are required", email)
			return
		}

		session, err := s.storefront.SignIn(r.Context(), email, password)
		if err != nil {
			log.Err(err).Str("email", email).Msg("Login failed")
			s.renderLoginError(w, r, storefront.Classify(err).Message, email)
			return
		}

		if err := s.sessions.Save(w, r, session); err != nil {
			log.Err(err).Msg("Failed to save session")
			s.renderLoginError(w, r, "Something went wrong, please try again", email)
			return
		}

		redirectSuccess(w, r, RouteDashboard)
	}
}

// LogoutHandler forgets the session and returns to the shop list
func (s *Server) LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.sessions.Clear(w, r)
		redirectSuccess(w, r, RouteHome)
	}
}

// renderLoginError redirects to login page with an error message
func (s *Server) renderLoginError(w http.ResponseWriter, r *http.Request, errorMsg, email string) {
	redirectURL := RouteLogin + "?error=" + url.QueryEscape(errorMsg)
	if email != "" {
		redirectURL += "&email=" + url.QueryEscape(email)
	}

	redirectSuccess(w, r, redirectURL)
}
