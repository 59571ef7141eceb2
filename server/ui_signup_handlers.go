package server

import (
	"fmt"
	"html"
	"net/http"
	"net/url"

	"github.com/jrsteele09/go-storefront/owners"
	"github.com/jrsteele09/go-storefront/storefront"
	"github.com/rs/zerolog/log"
)

// ValidatePasswordHandler validates password strength for the signup form via htmx
func (s *Server) ValidatePasswordHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		password := r.FormValue("password")

		if password == "" {
			w.Header().Set("Content-Type", "text/html")
			w.WriteHeader(http.StatusOK)
			return
		}

		if err := owners.ValidatePasswordStrength(password); err != nil {
			w.Header().Set("Content-Type", "text/html")
			w.Header().Set("HX-Trigger", fmt.Sprintf(`{"passwordInvalid": %q}`, err.Error()))
			w.WriteHeader(http.StatusOK)
			fmt.Fprintf(w, `<span class="text-danger">%s</span>`, html.EscapeString(err.Error()))
			return
		}

		w.Header().Set("Content-Type", "text/html")
		w.Header().Set("HX-Trigger", `{"passwordValid": ""}`)
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `<span class="text-success">Strong password</span>`)
	}
}

// SignupGetHandler renders the signup page
func (s *Server) SignupGetHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("signup.html")

	return func(w http.ResponseWriter, r *http.Request) {
		data := s.page(r, "Sign up")
		data.Email = r.URL.Query().Get("email")
		render(w, tmpl, http.StatusOK, data)
	}
}

// SignupPostHandler registers an owner and signs them straight in
func (s *Server) SignupPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}

		name := r.FormValue("name")
		email := r.FormValue("email")
		password := r.FormValue("password")
		back := RouteSignup + "?email=" + url.QueryEscape(email)

		if password != r.FormValue("confirm_password") {
			redirectWithError(w, r, back, "Passwords do not match")
			return
		}

		if _, err := s.storefront.RegisterOwner(r.Context(), email, name, password); err != nil {
			s.redirectWithFailure(w, r, back, err)
			return
		}

		session, err := s.storefront.SignIn(r.Context(), email, password)
		if err != nil {
			log.Err(err).Str("email", email).Msg("Sign in after sign up failed")
			s.renderLoginError(w, r, storefront.Classify(err).Message, email)
			return
		}
		if err := s.sessions.Save(w, r, session); err != nil {
			log.Err(err).Msg("Failed to save session")
			s.renderLoginError(w, r, "Something went wrong, please try again", email)
			return
		}

		log.Info().Str("email", email).Msg("Owner signed up")
		redirectSuccess(w, r, RouteDashboard)
	}
}
