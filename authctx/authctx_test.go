package authctx_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jrsteele09/go-storefront/authctx"
	"github.com/jrsteele09/go-storefront/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

func session(secret string) sessions.Session {
	return sessions.New("owner@example.com", "owner-1", secret, sessions.Seconds(3600))
}

func authorization(t *testing.T, p authctx.Provider, ctx context.Context) string {
	t.Helper()
	header, err := p.Header(ctx)
	require.NoError(t, err)
	require.Len(t, header, 1)
	return header.Get(authctx.HeaderAuthorization)
}

func TestResolve_SessionSecret(t *testing.T) {
	for i := 0; i < 20; i++ {
		secret := fmt.Sprintf("fnsecret-%d", i)
		s := session(secret)
		header := authctx.Resolve(&s, "")
		require.Len(t, header, 1)
		assert.Equal(t, "Bearer "+secret, header.Get("authorization"))
	}
}

func TestResolve_NoSessionNoOverride(t *testing.T) {
	header := authctx.Resolve(nil, "")
	require.Len(t, header, 1)
	values, ok := header["Authorization"]
	require.True(t, ok)
	assert.Equal(t, []string{""}, values)
}

func TestResolve_OverrideWins(t *testing.T) {
	s := session("owner-secret")
	assert.Equal(t, "Bearer public-key", authctx.Resolve(&s, "public-key").Get("authorization"))
	assert.Equal(t, "Bearer public-key", authctx.Resolve(nil, "public-key").Get("authorization"))
}

func TestResolve_EmptySecretIsAbsent(t *testing.T) {
	s := sessions.Session{Email: "owner@example.com"}
	assert.Equal(t, "", authctx.Resolve(&s, "").Get("authorization"))
}

func TestResolve_Idempotent(t *testing.T) {
	s := session("s1")
	first := authctx.Resolve(&s, "").Get("authorization")
	second := authctx.Resolve(&s, "").Get("authorization")
	assert.Equal(t, first, second)
}

func TestFromContext(t *testing.T) {
	p := authctx.FromContext()
	ctx := context.Background()

	assert.Equal(t, "", authorization(t, p, ctx))

	ctx = authctx.WithSession(ctx, session("s1"))
	assert.Equal(t, "Bearer s1", authorization(t, p, ctx))
	assert.Equal(t, "Bearer s1", authorization(t, p, ctx))

	assert.Equal(t, "Bearer pk", authorization(t, p, authctx.WithOverride(ctx, "pk")))
	assert.Equal(t, "Bearer s1", authorization(t, p, authctx.WithOverride(ctx, "")))
}

func TestSessionProvider_ReadsAtCallTime(t *testing.T) {
	var current *sessions.Session
	p := authctx.Session(func(context.Context) (sessions.Session, bool) {
		if current == nil {
			return sessions.Session{}, false
		}
		return *current, true
	})

	assert.Equal(t, "", authorization(t, p, context.Background()))

	s := session("after-login")
	current = &s
	assert.Equal(t, "Bearer after-login", authorization(t, p, context.Background()))
}

func TestOverrideAndAnonymous(t *testing.T) {
	assert.Equal(t, "Bearer pk", authorization(t, authctx.Override("pk"), context.Background()))
	assert.Equal(t, "", authorization(t, authctx.Override(""), context.Background()))
	assert.Equal(t, "", authorization(t, authctx.Anonymous(), context.Background()))
}

type failingSource struct{}

func (failingSource) Token() (*oauth2.Token, error) {
	return nil, errors.New("vault unavailable")
}

func TestTokenSource(t *testing.T) {
	assert.Equal(t, "Bearer guest", authorization(t, authctx.StaticKey("guest"), context.Background()))
	assert.Equal(t, "", authorization(t, authctx.StaticKey(""), context.Background()))

	_, err := authctx.TokenSource(failingSource{}).Header(context.Background())
	require.Error(t, err)
}

func TestSwappable(t *testing.T) {
	s := authctx.NewSwappable(nil)
	assert.Equal(t, "", authorization(t, s, context.Background()))

	previous := s.Swap(authctx.Override("pk-1"))
	require.NotNil(t, previous)
	assert.Equal(t, "Bearer pk-1", authorization(t, s, context.Background()))

	s.Swap(authctx.Override("pk-2"))
	assert.Equal(t, "Bearer pk-2", authorization(t, s, context.Background()))

	var zero authctx.Swappable
	assert.Equal(t, "", authorization(t, &zero, context.Background()))
}
