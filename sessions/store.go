package sessions

import (
	"net/http"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// DefaultCookieName is the cookie the session record is kept in
const DefaultCookieName = "fauna-session"

// Store loads, saves and clears the session for a single request
type Store interface {
	Load(r *http.Request) (Session, bool)
	Save(w http.ResponseWriter, r *http.Request, session Session) error
	Clear(w http.ResponseWriter, r *http.Request)
}

var _ Store = (*CookieStore)(nil)

// CookieStore keeps the session record in a browser cookie
type CookieStore struct {
	name  string
	codec Codec
}

func NewCookieStore(name string, codec Codec) *CookieStore {
	if name == "" {
		name = DefaultCookieName
	}
	if codec == nil {
		codec = JSONCodec{}
	}
	return &CookieStore{name: name, codec: codec}
}

func (cs *CookieStore) Name() string {
	return cs.name
}

// Load returns the stored session. A missing, undecodable or incomplete record reports false.
func (cs *CookieStore) Load(r *http.Request) (Session, bool) {
	cookie, err := r.Cookie(cs.name)
	if err != nil || cookie.Value == "" {
		return Session{}, false
	}

	session, err := cs.codec.Decode(cookie.Value)
	if err != nil {
		log.Debug().Err(err).Str("cookie", cs.name).Msg("Discarding malformed session cookie")
		return Session{}, false
	}
	if !session.Complete() {
		log.Debug().Str("cookie", cs.name).Msg("Discarding incomplete session cookie")
		return Session{}, false
	}
	return session, true
}

func (cs *CookieStore) Save(w http.ResponseWriter, r *http.Request, session Session) error {
	if !session.Complete() {
		return errors.New("[CookieStore Save] session is incomplete")
	}
	value, err := cs.codec.Encode(session)
	if err != nil {
		return errors.Wrap(err, "[CookieStore Save] encode session")
	}
	cs.setCookie(w, r, value, 0)
	return nil
}

func (cs *CookieStore) Clear(w http.ResponseWriter, r *http.Request) {
	cs.setCookie(w, r, "", -1)
}

func (cs *CookieStore) setCookie(w http.ResponseWriter, r *http.Request, value string, maxAge int) {
	http.SetCookie(w, &http.Cookie{
		Name:     cs.name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   isSecure(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   maxAge,
	})
}

func isSecure(r *http.Request) bool {
	return r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https"
}
