package config

import "time"

type Config interface {
	EnvConfig
	CorsConfig
	GraphQLConfig
	SessionConfig
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
	GetBaseURL() string
	GetLogLevel() string
	GetDevAPIPort() string
	GetDevAPIGuestKey() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
}

type GraphQLConfig interface {
	GetRegion() string
	GetGraphQLEndpoint() string
	GetGuestKey() string
	GetRequestTimeout() time.Duration
}

type SessionConfig interface {
	GetSessionCookieName() string
	GetSessionSigningKey() string
}

type mainConfig struct {
	EnvVars
	Cors
	GraphQL
	Session
}

func New() Config {
	return mainConfig{}
}
