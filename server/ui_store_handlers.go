package server

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-storefront/authctx"
	"github.com/jrsteele09/go-storefront/sessions"
	"github.com/jrsteele09/go-storefront/storefront"
	"github.com/rs/zerolog/log"
)

func storeFormFromRequest(r *http.Request) StoreForm {
	return StoreForm{
		Name:           strings.TrimSpace(r.FormValue("name")),
		Email:          strings.TrimSpace(r.FormValue("email")),
		Categories:     r.FormValue("categories"),
		PaymentMethods: r.FormValue("paymentMethods"),
	}
}

// StoreNewGetHandler renders an empty store form
func (s *Server) StoreNewGetHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("store_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		render(w, tmpl, http.StatusOK, s.page(r, "New store"))
	}
}

// StoreNewPostHandler creates a store owned by the logged in owner
func (s *Server) StoreNewPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		session, _ := currentSession(r)

		store, err := s.storefront.CreateStore(r.Context(), session, storeFormFromRequest(r).input())
		if err != nil {
			s.redirectWithFailure(w, r, RouteStoreNew, err)
			return
		}

		log.Info().Str("store_id", store.ID).Msg("Store created")
		redirectSuccess(w, r, RouteDashboard)
	}
}

// loadOwnedStore loads the {id} store and checks it belongs to the session owner.
// On failure it has already redirected and reports false.
func (s *Server) loadOwnedStore(w http.ResponseWriter, r *http.Request) (sessions.Session, storefront.Store, bool) {
	session, _ := currentSession(r)

	store, err := s.storefront.FindStoreByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.redirectWithFailure(w, r, RouteDashboard, err)
		return session, storefront.Store{}, false
	}
	if err := storefront.CheckOwnership(session, store); err != nil {
		s.redirectWithFailure(w, r, RouteDashboard, err)
		return session, storefront.Store{}, false
	}
	return session, store, true
}

// StoreEditGetHandler renders the store form with the store's products
func (s *Server) StoreEditGetHandler() http.HandlerFunc {
	tmpl := mustParseTemplate("store_form.html")

	return func(w http.ResponseWriter, r *http.Request) {
		_, store, ok := s.loadOwnedStore(w, r)
		if !ok {
			return
		}

		data := s.page(r, "Edit "+store.Name)
		data.Store = &store
		data.Form = storeFormFrom(store)

		// Products are only readable with the store's public key
		products, err := s.storefront.AllProducts(authctx.WithOverride(r.Context(), store.PublicKey))
		if err != nil {
			log.Err(err).Str("store_id", store.ID).Msg("Failed to list products")
		}
		data.Products = products

		render(w, tmpl, http.StatusOK, data)
	}
}

// StoreEditPostHandler saves the store form
func (s *Server) StoreEditPostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		session, _ := currentSession(r)
		editPath := storeRoute(RouteStoreEdit, r.PathValue("id"))

		current, err := s.storefront.FindStoreByID(r.Context(), r.PathValue("id"))
		if err != nil {
			s.redirectWithFailure(w, r, RouteDashboard, err)
			return
		}

		if _, err := s.storefront.UpdateStore(r.Context(), session, current, storeFormFromRequest(r).input()); err != nil {
			s.redirectWithFailure(w, r, editPath, err)
			return
		}
		redirectSuccess(w, r, editPath)
	}
}

// StoreDeletePostHandler deletes the store
func (s *Server) StoreDeletePostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := currentSession(r)

		current, err := s.storefront.FindStoreByID(r.Context(), r.PathValue("id"))
		if err != nil {
			s.redirectWithFailure(w, r, RouteDashboard, err)
			return
		}

		if err := s.storefront.DeleteStore(r.Context(), session, current); err != nil {
			s.redirectWithFailure(w, r, RouteDashboard, err)
			return
		}

		log.Info().Str("store_id", current.ID).Msg("Store deleted")
		redirectSuccess(w, r, RouteDashboard)
	}
}

// ProductCreatePostHandler adds a product to the store
func (s *Server) ProductCreatePostHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form data", http.StatusBadRequest)
			return
		}
		session, _ := currentSession(r)
		editPath := storeRoute(RouteStoreEdit, r.PathValue("id"))

		price, err := strconv.ParseFloat(strings.TrimSpace(r.FormValue("price")), 64)
		if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
			redirectWithError(w, r, editPath, "Price must be a number")
			return
		}

		current, err := s.storefront.FindStoreByID(r.Context(), r.PathValue("id"))
		if err != nil {
			s.redirectWithFailure(w, r, RouteDashboard, err)
			return
		}

		_, err = s.storefront.CreateProduct(r.Context(), session, current, storefront.ProductInput{
			Name:        strings.TrimSpace(r.FormValue("name")),
			Description: strings.TrimSpace(r.FormValue("description")),
			Price:       price,
			Image:       strings.TrimSpace(r.FormValue("image")),
		})
		if err != nil {
			s.redirectWithFailure(w, r, editPath, err)
			return
		}
		redirectSuccess(w, r, editPath)
	}
}
