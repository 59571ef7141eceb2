package authctx

import (
	"context"
	"net/http"
	"sync/atomic"

	"github.com/jrsteele09/go-storefront/sessions"
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// Provider produces the authorization header for one outgoing request.
// It is called at send time, never at client construction.
type Provider interface {
	Header(ctx context.Context) (http.Header, error)
}

// ProviderFunc adapts a function to a Provider
type ProviderFunc func(ctx context.Context) (http.Header, error)

func (f ProviderFunc) Header(ctx context.Context) (http.Header, error) {
	return f(ctx)
}

// SessionLoader returns the current session, reporting false when there is none
type SessionLoader func(ctx context.Context) (sessions.Session, bool)

var (
	_ Provider = ProviderFunc(nil)
	_ Provider = (*Swappable)(nil)
)

// Anonymous sends every request without a credential
func Anonymous() Provider {
	return ProviderFunc(func(context.Context) (http.Header, error) {
		return Resolve(nil, ""), nil
	})
}

// Override always sends key
func Override(key string) Provider {
	return ProviderFunc(func(context.Context) (http.Header, error) {
		return Resolve(nil, key), nil
	})
}

// Session reads the session through load on every request
func Session(load SessionLoader) Provider {
	return ProviderFunc(func(ctx context.Context) (http.Header, error) {
		session, ok := load(ctx)
		if !ok {
			return Resolve(nil, ""), nil
		}
		return Resolve(&session, ""), nil
	})
}

// FromContext applies Resolve to the session and override carried by the request context
func FromContext() Provider {
	return ProviderFunc(func(ctx context.Context) (http.Header, error) {
		override, _ := OverrideFromContext(ctx)
		if session, ok := SessionFromContext(ctx); ok {
			return Resolve(&session, override), nil
		}
		return Resolve(nil, override), nil
	})
}

// TokenSource sends the access token of ts, for keys held in an oauth2.TokenSource.
// An empty access token resolves to an empty header.
func TokenSource(ts oauth2.TokenSource) Provider {
	return ProviderFunc(func(context.Context) (http.Header, error) {
		token, err := ts.Token()
		if err != nil {
			return nil, errors.Wrap(err, "[authctx TokenSource] token")
		}
		if token == nil || token.AccessToken == "" {
			return Resolve(nil, ""), nil
		}
		return Resolve(nil, token.AccessToken), nil
	})
}

// StaticKey wraps a fixed key as a token source; an empty key yields anonymous requests
func StaticKey(key string) Provider {
	return TokenSource(oauth2.StaticTokenSource(&oauth2.Token{AccessToken: key, TokenType: "Bearer"}))
}

// Swappable forwards to a provider that can be replaced while requests are in flight.
// A request resolves its header once, so swapping only affects requests resolved afterwards.
type Swappable struct {
	current atomic.Pointer[Provider]
}

func NewSwappable(initial Provider) *Swappable {
	s := &Swappable{}
	s.Swap(initial)
	return s
}

// Swap installs p and returns the provider it replaced. A nil p installs Anonymous.
func (s *Swappable) Swap(p Provider) Provider {
	if p == nil {
		p = Anonymous()
	}
	previous := s.current.Swap(&p)
	if previous == nil {
		return nil
	}
	return *previous
}

func (s *Swappable) Header(ctx context.Context) (http.Header, error) {
	p := s.current.Load()
	if p == nil {
		return Resolve(nil, ""), nil
	}
	return (*p).Header(ctx)
}
