package sessions_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	neturl "net/url"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/jrsteele09/go-storefront/sessions"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testEmail   = "owner@example.com"
	testOwnerID = "owner-1"
	testSecret  = "fnAEs3cr3t"
)

func testSession() sessions.Session {
	return sessions.New(testEmail, testOwnerID, testSecret, sessions.Seconds(3600))
}

// requestWithCookies replays the cookies written to a recorder on a fresh request
func requestWithCookies(t *testing.T, rec *httptest.ResponseRecorder) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	for _, c := range rec.Result().Cookies() {
		r.AddCookie(c)
	}
	return r
}

func TestTTL(t *testing.T) {
	t.Run("numeric", func(t *testing.T) {
		var ttl sessions.TTL
		require.NoError(t, json.Unmarshal([]byte("3600"), &ttl))
		assert.True(t, ttl.IsNumeric())
		assert.Equal(t, "3600", ttl.String())

		b, err := json.Marshal(ttl)
		require.NoError(t, err)
		assert.Equal(t, "3600", string(b))
	})

	t.Run("timestamp", func(t *testing.T) {
		var ttl sessions.TTL
		require.NoError(t, json.Unmarshal([]byte(`"2026-10-19T12:00:00Z"`), &ttl))
		assert.False(t, ttl.IsNumeric())

		b, err := json.Marshal(ttl)
		require.NoError(t, err)
		assert.Equal(t, `"2026-10-19T12:00:00Z"`, string(b))
	})

	t.Run("null", func(t *testing.T) {
		ttl := sessions.Seconds(5)
		require.NoError(t, json.Unmarshal([]byte("null"), &ttl))
		assert.True(t, ttl.IsZero())
	})

	t.Run("invalid", func(t *testing.T) {
		var ttl sessions.TTL
		require.Error(t, json.Unmarshal([]byte("true"), &ttl))
	})
}

func TestSessionComplete(t *testing.T) {
	assert.True(t, testSession().Complete())
	assert.False(t, sessions.New(testEmail, "", testSecret, sessions.Seconds(1)).Complete())
	assert.False(t, sessions.New(testEmail, testOwnerID, "", sessions.Seconds(1)).Complete())
	assert.False(t, sessions.Session{}.Complete())
}

func TestJSONCodec(t *testing.T) {
	codec := sessions.JSONCodec{}

	value, err := codec.Encode(testSession())
	require.NoError(t, err)
	assert.NotContains(t, value, `"`)

	decoded, err := codec.Decode(value)
	require.NoError(t, err)
	assert.Equal(t, testSession(), decoded)

	_, err = codec.Decode("%7Bnot-json")
	assert.ErrorIs(t, err, apperrors.ErrMalformedSession)

	_, err = codec.Decode("%zz")
	assert.ErrorIs(t, err, apperrors.ErrMalformedSession)
}

func TestCookieStore_SaveLoad(t *testing.T) {
	store := sessions.NewCookieStore("", nil)
	assert.Equal(t, sessions.DefaultCookieName, store.Name())

	rec := httptest.NewRecorder()
	require.NoError(t, store.Save(rec, httptest.NewRequest(http.MethodPost, "/login", nil), testSession()))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "fauna-session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	loaded, ok := store.Load(requestWithCookies(t, rec))
	require.True(t, ok)
	assert.Equal(t, testSession(), loaded)

	// reading twice without an intervening write yields the same record
	again, ok := store.Load(requestWithCookies(t, rec))
	require.True(t, ok)
	assert.Equal(t, loaded, again)
}

func TestCookieStore_LoadMissingOrMalformed(t *testing.T) {
	store := sessions.NewCookieStore("fauna-session", sessions.JSONCodec{})

	_, ok := store.Load(httptest.NewRequest(http.MethodGet, "/", nil))
	assert.False(t, ok)

	for _, value := range []string{"garbage", "%7B%22email%22%3A", neturl.QueryEscape("{}"), neturl.QueryEscape(`{"email":"a@b.c","secret":"s"}`)} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.AddCookie(&http.Cookie{Name: "fauna-session", Value: value})
		_, ok := store.Load(r)
		assert.False(t, ok, "value %q should be treated as absent", value)
	}
}

func TestCookieStore_SaveIncomplete(t *testing.T) {
	store := sessions.NewCookieStore("fauna-session", nil)
	rec := httptest.NewRecorder()
	err := store.Save(rec, httptest.NewRequest(http.MethodPost, "/", nil), sessions.Session{Secret: "s"})
	require.Error(t, err)
	assert.Empty(t, rec.Result().Cookies())
}

func TestCookieStore_Clear(t *testing.T) {
	store := sessions.NewCookieStore("fauna-session", nil)
	rec := httptest.NewRecorder()
	store.Clear(rec, httptest.NewRequest(http.MethodGet, "/logout", nil))

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "fauna-session", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.Equal(t, -1, cookies[0].MaxAge)
}

func TestCookieStore_SecureBehindTLSProxy(t *testing.T) {
	store := sessions.NewCookieStore("fauna-session", nil)
	r := httptest.NewRequest(http.MethodPost, "/login", nil)
	r.Header.Set("X-Forwarded-Proto", "https")
	rec := httptest.NewRecorder()
	require.NoError(t, store.Save(rec, r, testSession()))
	assert.True(t, rec.Result().Cookies()[0].Secure)
}

func TestSignedCodec(t *testing.T) {
	now := time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)
	codec, err := sessions.NewSignedCodec("signing-key", sessions.WithIssuer("storefront"), sessions.WithNowTime(func() time.Time { return now }))
	require.NoError(t, err)

	value, err := codec.Encode(testSession())
	require.NoError(t, err)

	decoded, err := codec.Decode(value)
	require.NoError(t, err)
	assert.Equal(t, testSession(), decoded)

	other, err := sessions.NewSignedCodec("another-key", sessions.WithIssuer("storefront"))
	require.NoError(t, err)
	_, err = other.Decode(value)
	assert.ErrorIs(t, err, apperrors.ErrMalformedSession)

	_, err = codec.Decode(value + "x")
	assert.ErrorIs(t, err, apperrors.ErrMalformedSession)

	_, err = sessions.NewSignedCodec("")
	require.Error(t, err)
}

func TestCookieStore_SignedRejectsForeignCookie(t *testing.T) {
	signer, err := sessions.NewSignedCodec("key-a")
	require.NoError(t, err)
	verifier, err := sessions.NewSignedCodec("key-b")
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	require.NoError(t, sessions.NewCookieStore("fauna-session", signer).Save(rec, httptest.NewRequest(http.MethodPost, "/", nil), testSession()))

	_, ok := sessions.NewCookieStore("fauna-session", verifier).Load(requestWithCookies(t, rec))
	assert.False(t, ok)

	loaded, ok := sessions.NewCookieStore("fauna-session", signer).Load(requestWithCookies(t, rec))
	require.True(t, ok)
	assert.Equal(t, testOwnerID, loaded.OwnerID)
}
