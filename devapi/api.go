// Package devapi is an in-memory GraphQL API with the same schema and
// authorization model as the hosted storefront database, for local
// development and tests.
//
// Requests authenticate with a bearer token: the guest key, an owner secret
// issued by login, or a store's public key. Requests without a token may only
// log in or register.
package devapi

import (
	_ "embed"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/relay"
	"github.com/jrsteele09/go-storefront/owners"
	"github.com/jrsteele09/go-storefront/stores"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

//go:embed schema.graphql
var schemaSource string

const DefaultSecretTTL = 30 * time.Minute

// API serves the GraphQL schema over HTTP
type API struct {
	schema   *graphql.Schema
	keys     *Keyring
	handler  http.Handler
	guestKey string
	ttl      time.Duration
	nowTime  func() time.Time
}

// Option defines a function type to modify the API instance.
type Option func(*API)

// WithGuestKey sets the key that may list shops
func WithGuestKey(key string) Option {
	return func(a *API) {
		a.guestKey = key
	}
}

// WithSecretTTL sets how long secrets issued by login stay valid
func WithSecretTTL(ttl time.Duration) Option {
	return func(a *API) {
		a.ttl = ttl
	}
}

// WithNowTime sets the clock used for secret expiry
func WithNowTime(nowFunc func() time.Time) Option {
	return func(a *API) {
		a.nowTime = nowFunc
	}
}

func New(ownerRepo owners.Repo, storeRepo stores.Repo, options ...Option) (*API, error) {
	if ownerRepo == nil || storeRepo == nil {
		return nil, errors.New("[devapi New] owner and store repositories are required")
	}

	a := &API{ttl: DefaultSecretTTL, nowTime: time.Now}
	for _, opt := range options {
		opt(a)
	}

	a.keys = NewKeyring(a.guestKey, storeRepo, a.ttl, a.nowTime)
	resolver := &Resolver{owners: ownerRepo, stores: storeRepo, keys: a.keys}

	schema, err := graphql.ParseSchema(schemaSource, resolver, graphql.MaxParallelism(10))
	if err != nil {
		return nil, errors.Wrap(err, "[devapi New] parse schema")
	}
	a.schema = schema
	a.handler = a.authenticate(&relay.Handler{Schema: schema})
	return a, nil
}

// Schema exposes the parsed schema for in-process execution
func (a *API) Schema() *graphql.Schema {
	return a.schema
}

// Keys exposes the keyring, mostly for seeding
func (a *API) Keys() *Keyring {
	return a.keys
}

func (a *API) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	a.handler.ServeHTTP(w, r)
}

// authenticate resolves the bearer token into a principal. Unknown tokens are rejected with 401.
func (a *API) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal := Principal{Role: RoleAnonymous}
		if token := bearerToken(r.Header.Get("Authorization")); token != "" {
			p, ok := a.keys.Lookup(token)
			if !ok {
				log.Debug().Str("path", r.URL.Path).Msg("Unknown bearer token")
				writeUnauthorized(w)
				return
			}
			principal = p
		}

		log.Debug().Str("role", principal.Role.String()).Msg("GraphQL request")
		next.ServeHTTP(w, r.WithContext(withPrincipal(r.Context(), principal)))
	})
}

func bearerToken(header string) string {
	header = strings.TrimSpace(header)
	if len(header) >= 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"errors": []map[string]interface{}{{
			"message":    errUnauthorized.Error(),
			"extensions": errUnauthorized.Extensions(),
		}},
	})
}
