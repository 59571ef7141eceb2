package server

import (
	"net/url"
	"strings"
)

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Public Routes
	RouteHome = "/"
	RouteShop = "/store/{id}"

	// Auth Routes
	RouteLogin  = "/login"
	RouteSignup = "/signup"
	RouteLogout = "/logout"

	// Owner Routes
	RouteDashboard     = "/dashboard"
	RouteStoreNew      = "/stores/new"
	RouteStoreEdit     = "/stores/{id}/edit"
	RouteStoreDelete   = "/stores/{id}/delete"
	RouteStoreProducts = "/stores/{id}/products"

	// API Routes
	RouteAPIValidatePassword = "/api/validate-password"

	// Operational Routes
	RouteMetrics = "/metrics"
	RouteHealth  = "/healthz"

	// Static Asset Routes (patterns)
	RouteStaticCSS = "/css/{file}"
)

// storeRoute fills the {id} of a store route pattern
func storeRoute(pattern, storeID string) string {
	return strings.Replace(pattern, "{id}", url.PathEscape(storeID), 1)
}

// shopURL is the visitor page of a store, carrying the key that scopes its product listing
func shopURL(storeID, publicKey string) string {
	return storeRoute(RouteShop, storeID) + "?publicKey=" + url.QueryEscape(publicKey)
}
