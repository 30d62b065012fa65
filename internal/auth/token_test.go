package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestIssuer_RoundTrip(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, time.Hour)
	tok, err := issuer.Issue("user-123")
	require.NoError(t, err)

	sub, err := issuer.Verify(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-123", sub)
}

func TestIssuer_Expiry(t *testing.T) {
	t.Parallel()

	base := time.Now()
	ttl := time.Hour
	issuer := NewIssuer(testSecret, ttl).WithClock(func() time.Time { return base })

	tok, err := issuer.Issue("user-123")
	require.NoError(t, err)

	// still valid just before expiry
	issuer.WithClock(func() time.Time { return base.Add(ttl - time.Second) })
	_, err = issuer.Verify(tok)
	assert.NoError(t, err)

	// rejected one second past expiry
	issuer.WithClock(func() time.Time { return base.Add(ttl + time.Second) })
	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssuer_TamperedToken(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, time.Hour)
	tok, err := issuer.Issue("user-123")
	require.NoError(t, err)

	// flip one byte of the signature
	b := []byte(tok)
	last := len(b) - 1
	if b[last] == 'A' {
		b[last] = 'B'
	} else {
		b[last] = 'A'
	}
	_, err = issuer.Verify(string(b))
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssuer_WrongKey(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, time.Hour)
	other := NewIssuer([]byte("another-secret-another-secret-xx"), time.Hour)

	tok, err := other.Issue("user-123")
	require.NoError(t, err)

	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssuer_RejectsUnpinnedAlgorithm(t *testing.T) {
	t.Parallel()

	// token signed with HS512 using the verification secret itself:
	// the verifier must reject it because the method is not HS256
	claims := jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(testSecret)
	require.NoError(t, err)

	issuer := NewIssuer(testSecret, time.Hour)
	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssuer_RejectsTokenWithoutExpiry(t *testing.T) {
	t.Parallel()

	claims := jwt.RegisteredClaims{Subject: "user-123"}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	issuer := NewIssuer(testSecret, time.Hour)
	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssuer_RejectsEmptySubject(t *testing.T) {
	t.Parallel()

	claims := jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	issuer := NewIssuer(testSecret, time.Hour)
	_, err = issuer.Verify(tok)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestIssuer_Malformed(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, time.Hour)
	for _, tok := range []string{"", "not.a.jwt", strings.Repeat("x", 64)} {
		_, err := issuer.Verify(tok)
		assert.ErrorIs(t, err, ErrTokenInvalid, "token %q", tok)
	}
}
