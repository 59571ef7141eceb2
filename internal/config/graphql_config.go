package config

import (
	"strings"
	"time"
)

const (
	regionVar         = "FAUNA_REGION"
	graphqlURLVar     = "FAUNA_GRAPHQL_URL"
	guestKeyVar       = "FAUNA_GUEST_KEY"
	requestTimeoutVar = "REQUEST_TIMEOUT"
)

// Region group endpoints of the hosted GraphQL API
var regionEndpoints = map[string]string{
	"classic": "https://graphql.fauna.com/graphql",
	"us":      "https://graphql.us.fauna.com/graphql",
	"eu":      "https://graphql.eu.fauna.com/graphql",
}

type GraphQL struct{}

var _ GraphQLConfig = GraphQL{}

func (GraphQL) GetRegion() string {
	return strings.ToLower(GetEnv(regionVar, "classic"))
}

// GetGraphQLEndpoint returns FAUNA_GRAPHQL_URL when set, otherwise the endpoint of the configured region.
// Unknown regions fall back to the classic endpoint.
func (g GraphQL) GetGraphQLEndpoint() string {
	if url := GetEnv(graphqlURLVar, ""); url != "" {
		return url
	}
	return EndpointForRegion(g.GetRegion())
}

func EndpointForRegion(region string) string {
	if endpoint, ok := regionEndpoints[strings.ToLower(region)]; ok {
		return endpoint
	}
	return regionEndpoints["classic"]
}

// GetGuestKey is the ownerless key used to list shops on the home page
func (GraphQL) GetGuestKey() string {
	return GetEnv(guestKeyVar, "")
}

func (GraphQL) GetRequestTimeout() time.Duration {
	timeout, err := time.ParseDuration(GetEnv(requestTimeoutVar, "10s"))
	if err != nil || timeout <= 0 {
		return 10 * time.Second
	}
	return timeout
}
