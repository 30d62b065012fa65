package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/appforge/service-builder-go-stdlib/internal/metrics"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
)

// Identity is the authenticated principal resolved from a bearer token.
// It carries the role for downstream quota decisions but no credentials.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// IdentityStore looks up the subject of a verified token. Satisfied by the
// user service.
type IdentityStore interface {
	FindIdentity(ctx context.Context, id string) (*Identity, error)
}

type ctxKey int

const identityKey ctxKey = 1

func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

func IdentityFrom(ctx context.Context) (*Identity, bool) {
	id, ok := ctx.Value(identityKey).(*Identity)
	return id, ok
}

// Resolve turns a raw Authorization header value into an Identity.
// Failure modes: ErrMissingToken, ErrMalformedToken, ErrTokenInvalid,
// ErrUnknownSubject. Callers must collapse all of them into the same
// client-visible response.
func Resolve(ctx context.Context, issuer *Issuer, store IdentityStore, rawHeader string) (*Identity, error) {
	if rawHeader == "" {
		return nil, ErrMissingToken
	}
	parts := strings.SplitN(rawHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || parts[1] == "" {
		return nil, ErrMalformedToken
	}
	sub, err := issuer.Verify(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil, err
	}
	identity, err := store.FindIdentity(ctx, sub)
	if err != nil {
		// covers identities removed after the token was issued
		return nil, ErrUnknownSubject
	}
	return identity, nil
}

// RequireIdentity is middleware that resolves the bearer token and puts the
// Identity on the request context. Every failure yields an identical 401
// body so callers cannot distinguish unknown subjects from bad signatures.
func RequireIdentity(issuer *Issuer, store IdentityStore, logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity, err := Resolve(r.Context(), issuer, store, r.Header.Get("Authorization"))
			if err != nil {
				logger.Debugw("authentication failed",
					"reason", err,
					"path", r.URL.Path,
				)
				metrics.RecordAuthFailure(failureReason(err))
				writeUnauthenticated(w)
				return
			}
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
		})
	}
}

// MustIdentity fetches the resolved identity or fails; handlers behind
// RequireIdentity use it instead of re-parsing headers.
func MustIdentity(r *http.Request) (*Identity, error) {
	if id, ok := IdentityFrom(r.Context()); ok {
		return id, nil
	}
	return nil, errors.New("no identity in context")
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingToken):
		return "missing"
	case errors.Is(err, ErrMalformedToken):
		return "malformed"
	case errors.Is(err, ErrUnknownSubject):
		return "unknown_subject"
	default:
		return "invalid"
	}
}

func writeUnauthenticated(w http.ResponseWriter) {
	shared.WriteError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
}
