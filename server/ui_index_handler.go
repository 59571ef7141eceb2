package server

import (
	"net/http"

	"github.com/jrsteele09/go-storefront/authctx"
	"github.com/jrsteele09/go-storefront/storefront"
	"github.com/rs/zerolog/log"
)

// IndexHandler renders the shop list. Shops are listed with the guest key, whether or not an owner is logged in.
func (s *Server) IndexHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("index.html")

	return func(w http.ResponseWriter, r *http.Request) {
		data := s.page(r, "Shops")

		shops, err := s.guest.AllShops(r.Context())
		if err != nil {
			log.Err(err).Msg("Failed to list shops")
			data.Error = storefront.Classify(err).Message
		}
		data.Shops = shops

		render(w, tmpl, http.StatusOK, data)
	}
}

// ShopPageHandler renders a store's products for visitors, using the store's public key
func (s *Server) ShopPageHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("shop.html")

	return func(w http.ResponseWriter, r *http.Request) {
		publicKey := r.URL.Query().Get("publicKey")
		if publicKey == "" {
			redirectWithError(w, r, RouteHome, "This shop link is missing its key")
			return
		}

		data := s.page(r, "Shop")
		ctx := authctx.WithOverride(r.Context(), publicKey)

		if store, err := s.storefront.FindStoreByID(ctx, r.PathValue("id")); err == nil {
			data.Store = &store
			data.Title = store.Name
		} else {
			log.Debug().Err(err).Str("store_id", r.PathValue("id")).Msg("Shop details unavailable")
		}

		products, err := s.storefront.AllProducts(ctx)
		if err != nil {
			log.Err(err).Str("store_id", r.PathValue("id")).Msg("Failed to list products")
			data.Error = storefront.Classify(err).Message
		}
		data.Products = products

		render(w, tmpl, http.StatusOK, data)
	}
}

// NotFoundHandler renders the 404 page
func (s *Server) NotFoundHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("not_found.html")

	return func(w http.ResponseWriter, r *http.Request) {
		render(w, tmpl, http.StatusNotFound, s.page(r, "Not found"))
	}
}
