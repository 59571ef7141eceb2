package config

const (
	sessionCookieNameVar = "SESSION_COOKIE_NAME"
	sessionSigningKeyVar = "SESSION_SIGNING_KEY"
)

type Session struct{}

var _ SessionConfig = Session{}

func (Session) GetSessionCookieName() string {
	return GetEnv(sessionCookieNameVar, "fauna-session")
}

// GetSessionSigningKey enables signed session cookies when non-empty
func (Session) GetSessionSigningKey() string {
	return GetEnv(sessionSigningKeyVar, "")
}
