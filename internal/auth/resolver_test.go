package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubStore struct {
	identities map[string]*Identity
}

func (s *stubStore) FindIdentity(_ context.Context, id string) (*Identity, error) {
	if u, ok := s.identities[id]; ok {
		return u, nil
	}
	return nil, errors.New("no rows")
}

func newStubStore(ids ...string) *stubStore {
	s := &stubStore{identities: map[string]*Identity{}}
	for _, id := range ids {
		s.identities[id] = &Identity{ID: id, Email: id + "@example.com", Role: "beginner"}
	}
	return s
}

func TestResolve(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, time.Hour)
	store := newStubStore("alice")

	valid, err := issuer.Issue("alice")
	require.NoError(t, err)
	orphan, err := issuer.Issue("ghost")
	require.NoError(t, err)

	tests := []struct {
		name    string
		header  string
		wantErr error
		wantID  string
	}{
		{"missing header", "", ErrMissingToken, ""},
		{"wrong scheme", "Basic abc123", ErrMalformedToken, ""},
		{"bare token", valid, ErrMalformedToken, ""},
		{"empty token", "Bearer ", ErrMalformedToken, ""},
		{"garbage token", "Bearer not.a.jwt", ErrTokenInvalid, ""},
		{"deleted subject", "Bearer " + orphan, ErrUnknownSubject, ""},
		{"valid", "Bearer " + valid, nil, "alice"},
		{"lowercase scheme", "bearer " + valid, nil, "alice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := Resolve(context.Background(), issuer, store, tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, id.ID)
		})
	}
}

func TestRequireIdentity_UniformUnauthorizedBody(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, time.Hour)
	store := newStubStore("alice")
	logger := zap.NewNop().Sugar()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run for unauthenticated requests")
	})
	mw := RequireIdentity(issuer, store, logger)(next)

	orphan, err := issuer.Issue("ghost")
	require.NoError(t, err)

	// every failure mode returns the exact same status and body so a caller
	// cannot probe which identities exist
	var bodies []string
	for _, header := range []string{"", "Basic abc", "Bearer junk", "Bearer " + orphan} {
		req := httptest.NewRequest(http.MethodGet, "/builder-api/projects", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		rec := httptest.NewRecorder()
		mw.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		bodies = append(bodies, rec.Body.String())
	}
	for _, b := range bodies[1:] {
		assert.Equal(t, bodies[0], b)
	}

	var payload map[string]string
	require.NoError(t, json.Unmarshal([]byte(bodies[0]), &payload))
	assert.Equal(t, "unauthenticated", payload["error"])
}

func TestRequireIdentity_HappyPath(t *testing.T) {
	t.Parallel()

	issuer := NewIssuer(testSecret, time.Hour)
	store := newStubStore("alice")
	logger := zap.NewNop().Sugar()

	tok, err := issuer.Issue("alice")
	require.NoError(t, err)

	var seen *Identity
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := MustIdentity(r)
		require.NoError(t, err)
		seen = id
		w.WriteHeader(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/builder-api/projects", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	RequireIdentity(issuer, store, logger)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, "alice", seen.ID)
	assert.Equal(t, "alice@example.com", seen.Email)
}

func TestRequireIdentity_ExpiredToken(t *testing.T) {
	t.Parallel()

	base := time.Now()
	issuer := NewIssuer(testSecret, time.Minute).WithClock(func() time.Time { return base })
	store := newStubStore("alice")

	tok, err := issuer.Issue("alice")
	require.NoError(t, err)

	issuer.WithClock(func() time.Time { return base.Add(2 * time.Minute) })

	req := httptest.NewRequest(http.MethodGet, "/builder-api/projects", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("expired token must not reach the handler")
	})
	RequireIdentity(issuer, store, zap.NewNop().Sugar())(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
