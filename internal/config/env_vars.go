package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	portEnvVar        = "PORT"
	appNameVar        = "APP_NAME"
	baseURLVar        = "BASE_URL"
	logLevelVar       = "LOG_LEVEL"
	devAPIPortVar     = "DEVAPI_PORT"
	devAPIGuestKeyVar = "DEVAPI_GUEST_KEY"
)

type EnvVars struct{}

var _ EnvConfig = EnvVars{}

func (EnvVars) GetPort() string {
	return toListenAddr(GetEnv(portEnvVar, "8080"))
}

func (EnvVars) GetAppName() string {
	return GetEnv(appNameVar, "Storefront")
}

func (EnvVars) GetEnv() string {
	env := os.Getenv("ENV")
	if env == "" {
		return "DEV"
	}
	return env
}

// GetBaseURL returns the externally visible URL of the storefront (e.g., "https://shop.example.com")
func (EnvVars) GetBaseURL() string {
	return GetEnv(baseURLVar, "http://localhost:8080")
}

func (EnvVars) GetLogLevel() string {
	return GetEnv(logLevelVar, "info")
}

func (EnvVars) GetDevAPIPort() string {
	return toListenAddr(GetEnv(devAPIPortVar, "8084"))
}

// GetDevAPIGuestKey is the key the development API accepts for the public shop listing
func (EnvVars) GetDevAPIGuestKey() string {
	return GetEnv(devAPIGuestKeyVar, "")
}

func toListenAddr(port string) string {
	if port != "" && !strings.HasPrefix(port, ":") {
		port = fmt.Sprintf(":%s", port)
	}
	return port
}

func GetEnv(envVar, defaultValue string) string {
	value := os.Getenv(envVar)
	if value == "" {
		return defaultValue
	}
	return value
}
