package sessions

import (
	"encoding/json"
	"fmt"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
	apperrors "github.com/jrsteele09/go-storefront/internal/errors"
	"github.com/pkg/errors"
)

// Codec converts a Session to and from a cookie value
type Codec interface {
	Encode(session Session) (string, error)
	Decode(value string) (Session, error)
}

var (
	_ Codec = JSONCodec{}
	_ Codec = (*SignedCodec)(nil)
)

// JSONCodec stores the session as URL-escaped JSON, the same shape browser cookie libraries write
type JSONCodec struct{}

func (JSONCodec) Encode(session Session) (string, error) {
	b, err := json.Marshal(session)
	if err != nil {
		return "", errors.Wrap(err, "[JSONCodec Encode] marshal session")
	}
	return url.QueryEscape(string(b)), nil
}

func (JSONCodec) Decode(value string) (Session, error) {
	unescaped, err := url.QueryUnescape(value)
	if err != nil {
		return Session{}, fmt.Errorf("[JSONCodec Decode] unescape %w: %w", apperrors.ErrMalformedSession, err)
	}
	var session Session
	if err := json.Unmarshal([]byte(unescaped), &session); err != nil {
		return Session{}, fmt.Errorf("[JSONCodec Decode] unmarshal %w: %w", apperrors.ErrMalformedSession, err)
	}
	return session, nil
}

type sessionClaims struct {
	Session
	jwt.RegisteredClaims
}

// SignedCodec stores the session as an HS256 JWT so a tampered cookie never decodes
type SignedCodec struct {
	key     []byte
	issuer  string
	nowTime func() time.Time
}

// SignedCodecOption configures a SignedCodec
type SignedCodecOption func(*SignedCodec)

// WithIssuer sets the iss claim written and required on decode
func WithIssuer(issuer string) SignedCodecOption {
	return func(c *SignedCodec) {
		c.issuer = issuer
	}
}

// WithNowTime sets the clock (primarily for testing)
func WithNowTime(nowFunc func() time.Time) SignedCodecOption {
	return func(c *SignedCodec) {
		c.nowTime = nowFunc
	}
}

func NewSignedCodec(key string, options ...SignedCodecOption) (*SignedCodec, error) {
	if key == "" {
		return nil, errors.New("[NewSignedCodec] signing key is required")
	}
	c := &SignedCodec{
		key:     []byte(key),
		nowTime: time.Now,
	}
	for _, opt := range options {
		opt(c)
	}
	return c, nil
}

func (c *SignedCodec) Encode(session Session) (string, error) {
	claims := sessionClaims{
		Session: session,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   c.issuer,
			Subject:  session.OwnerID,
			IssuedAt: jwt.NewNumericDate(c.nowTime()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.key)
	if err != nil {
		return "", errors.Wrap(err, "[SignedCodec Encode] sign session")
	}
	return signed, nil
}

func (c *SignedCodec) Decode(value string) (Session, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.nowTime),
	}
	if c.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(c.issuer))
	}

	var claims sessionClaims
	_, err := jwt.ParseWithClaims(value, &claims, func(*jwt.Token) (interface{}, error) {
		return c.key, nil
	}, parserOptions...)
	if err != nil {
		return Session{}, fmt.Errorf("[SignedCodec Decode] %w: %w", apperrors.ErrMalformedSession, err)
	}
	return claims.Session, nil
}
