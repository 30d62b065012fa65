package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/appforge/service-builder-go-stdlib/internal/auth"
	"github.com/appforge/service-builder-go-stdlib/internal/user/repo"
)

func newTestHandler() (*Handler, *auth.Issuer) {
	svc := NewService(repo.NewMemoryRepo(), auth.BcryptHasher{Cost: bcrypt.MinCost})
	issuer := auth.NewIssuer([]byte("0123456789abcdef0123456789abcdef"), time.Hour)
	return NewHandler(svc, issuer, zap.NewNop().Sugar()), issuer
}

func postJSON(t *testing.T, h http.HandlerFunc, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader(raw))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestHandler_Register(t *testing.T) {
	t.Parallel()

	h, _ := newTestHandler()

	rec := postJSON(t, h.Register, RegisterRequest{Email: "alice@example.com", Password: "pw123"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "alice@example.com", body["email"])
	assert.NotEmpty(t, body["id"])
	// the password hash must never appear in a response
	assert.NotContains(t, rec.Body.String(), "password")

	// duplicate
	rec = postJSON(t, h.Register, RegisterRequest{Email: "alice@example.com", Password: "pw456"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	// invalid payloads
	rec = postJSON(t, h.Register, RegisterRequest{Email: "nope", Password: "pw123"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_Login(t *testing.T) {
	t.Parallel()

	h, issuer := newTestHandler()
	rec := postJSON(t, h.Register, RegisterRequest{Email: "alice@example.com", Password: "pw123"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(t, h.Login, LoginRequest{Email: "alice@example.com", Password: "pw123"})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.NotNil(t, resp.User)

	sub, err := issuer.Verify(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, sub)

	// wrong password
	rec = postJSON(t, h.Login, LoginRequest{Email: "alice@example.com", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// unknown account shares the same outcome
	rec2 := postJSON(t, h.Login, LoginRequest{Email: "bob@example.com", Password: "pw123"})
	assert.Equal(t, http.StatusUnauthorized, rec2.Code)
	assert.Equal(t, rec.Body.String(), rec2.Body.String())
}
