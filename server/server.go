package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/jrsteele09/go-storefront/authctx"
	"github.com/jrsteele09/go-storefront/internal/config"
	"github.com/jrsteele09/go-storefront/internal/metrics"
	"github.com/jrsteele09/go-storefront/sessions"
	"github.com/jrsteele09/go-storefront/storefront"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
)

type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	storefront *storefront.Service
	guest      *storefront.Service // lists shops with the configured guest key
	sessions   sessions.Store
	metrics    *metrics.Manager
	gatherer   prometheus.Gatherer
}

// Option defines a function type to modify the Server instance.
type Option func(*Server)

// WithSessionStore replaces the cookie store built from config
func WithSessionStore(store sessions.Store) Option {
	return func(s *Server) {
		s.sessions = store
	}
}

// WithMetrics records request metrics on m and serves g on the metrics route
func WithMetrics(m *metrics.Manager, g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.metrics = m
		s.gatherer = g
	}
}

func New(config config.Config, service *storefront.Service, options ...Option) (*Server, error) {
	if service == nil {
		return nil, errors.New("[Server New] storefront service is required")
	}

	s := &Server{
		mux:        http.NewServeMux(),
		config:     config,
		storefront: service,
	}
	for _, opt := range options {
		opt(s)
	}
	s.env = config.GetEnv()
	s.guest = service.WithProvider(authctx.StaticKey(config.GetGuestKey()))

	if s.sessions == nil {
		store, err := newSessionStore(config)
		if err != nil {
			return nil, errors.Wrap(err, "[Server New] session store")
		}
		s.sessions = store
	}
	if s.metrics == nil {
		reg := prometheus.NewRegistry()
		s.metrics = metrics.NewManager("storefront", "server", reg)
		s.gatherer = reg
	}

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

// newSessionStore signs the session cookie when a signing key is configured
func newSessionStore(config config.SessionConfig) (sessions.Store, error) {
	var codec sessions.Codec = sessions.JSONCodec{}
	if key := config.GetSessionSigningKey(); key != "" {
		signed, err := sessions.NewSignedCodec(key)
		if err != nil {
			return nil, err
		}
		codec = signed
	}
	return sessions.NewCookieStore(config.GetSessionCookieName(), codec), nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	log.Info().Msgf("[%-19s] %s", colourMethod(method), path)
}

func colourMethod(method string) string {
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		return color + paddedMethod + ResetColor
	}
	return Gray + paddedMethod + ResetColor
}
