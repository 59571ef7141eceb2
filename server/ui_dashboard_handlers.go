package server

import (
	"net/http"

	"github.com/jrsteele09/go-storefront/graphql"
	"github.com/jrsteele09/go-storefront/storefront"
	"github.com/rs/zerolog/log"
)

// DashboardHandler lists the stores of the logged in owner
func (s *Server) DashboardHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("dashboard.html")

	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := currentSession(r)
		data := s.page(r, "Dashboard")

		owner, err := s.storefront.FindOwnerByEmail(r.Context(), session.Email)
		if err != nil {
			if graphql.KindOf(err) == graphql.KindUnauthorized {
				s.redirectWithFailure(w, r, RouteLogin, err)
				return
			}
			log.Err(err).Str("email", session.Email).Msg("Failed to load owner")
			data.Error = storefront.Classify(err).Message
		} else {
			data.Owner = &owner
		}

		render(w, tmpl, http.StatusOK, data)
	}
}
