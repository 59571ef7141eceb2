package config_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-storefront/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGraphQLEndpoint(t *testing.T) {
	t.Setenv("FAUNA_GRAPHQL_URL", "")

	t.Setenv("FAUNA_REGION", "")
	assert.Equal(t, "https://graphql.fauna.com/graphql", config.New().GetGraphQLEndpoint())

	t.Setenv("FAUNA_REGION", "EU")
	assert.Equal(t, "https://graphql.eu.fauna.com/graphql", config.New().GetGraphQLEndpoint())

	t.Setenv("FAUNA_REGION", "us")
	assert.Equal(t, "https://graphql.us.fauna.com/graphql", config.New().GetGraphQLEndpoint())

	t.Setenv("FAUNA_REGION", "mars")
	assert.Equal(t, "https://graphql.fauna.com/graphql", config.New().GetGraphQLEndpoint())

	t.Setenv("FAUNA_GRAPHQL_URL", "http://localhost:8084/graphql")
	assert.Equal(t, "http://localhost:8084/graphql", config.New().GetGraphQLEndpoint())
}

func TestDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SESSION_COOKIE_NAME", "")
	t.Setenv("REQUEST_TIMEOUT", "")
	t.Setenv("ENV", "")

	c := config.New()
	assert.Equal(t, ":8080", c.GetPort())
	assert.Equal(t, "fauna-session", c.GetSessionCookieName())
	assert.Equal(t, 10*time.Second, c.GetRequestTimeout())
	assert.Equal(t, "DEV", c.GetEnv())
	assert.Empty(t, c.GetSessionSigningKey())
}

func TestPortAndTimeoutOverrides(t *testing.T) {
	t.Setenv("PORT", ":9000")
	t.Setenv("REQUEST_TIMEOUT", "250ms")
	c := config.New()
	assert.Equal(t, ":9000", c.GetPort())
	assert.Equal(t, 250*time.Millisecond, c.GetRequestTimeout())

	t.Setenv("REQUEST_TIMEOUT", "nonsense")
	assert.Equal(t, 10*time.Second, config.New().GetRequestTimeout())
}

func TestAllowedOrigins(t *testing.T) {
	origins := config.ParseAllowedOrigins(" https://a.example.com, ,https://b.example.com")
	require.Len(t, origins, 2)
	assert.True(t, origins.IsAllowedOrigin("https://a.example.com"))
	assert.False(t, origins.IsAllowedOrigin("https://c.example.com"))
	assert.Equal(t, "https://a.example.com, https://b.example.com", origins.String())
}
