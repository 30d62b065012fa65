package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// token verification failures. All of them map to the same outward 401;
// the distinction exists for logs only.
var (
	ErrMissingToken   = errors.New("missing bearer token")
	ErrMalformedToken = errors.New("malformed authorization header")
	ErrTokenInvalid   = errors.New("token expired or signature invalid")
	ErrUnknownSubject = errors.New("token subject no longer exists")
)

// Issuer mints and validates signed, time-bounded identity assertions.
// The signing algorithm is pinned to HS256: a token declaring any other
// algorithm is rejected regardless of its signature.
type Issuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewIssuer(secret []byte, ttl time.Duration) *Issuer {
	return &Issuer{secret: secret, ttl: ttl, now: time.Now}
}

// WithClock overrides the time source. Tests use this to verify expiry.
func (i *Issuer) WithClock(now func() time.Time) *Issuer {
	i.now = now
	return i
}

// Issue produces a signed assertion for the subject with
// iat = now, exp = now + ttl.
func (i *Issuer) Issue(subjectID string) (string, error) {
	now := i.now()
	claims := jwt.RegisteredClaims{
		Subject:   subjectID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(i.secret)
}

// Verify checks signature, shape and expiry and returns the subject id.
// It is a pure function of (token, secret, current time).
func (i *Issuer) Verify(tokenString string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (any, error) { return i.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !token.Valid {
		return "", ErrTokenInvalid
	}
	if claims.Subject == "" {
		return "", ErrTokenInvalid
	}
	return claims.Subject, nil
}
