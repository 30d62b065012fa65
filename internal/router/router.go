package router

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/appforge/service-builder-go-stdlib/internal/asset"
	"github.com/appforge/service-builder-go-stdlib/internal/auth"
	"github.com/appforge/service-builder-go-stdlib/internal/collab"
	"github.com/appforge/service-builder-go-stdlib/internal/component"
	"github.com/appforge/service-builder-go-stdlib/internal/metrics"
	"github.com/appforge/service-builder-go-stdlib/internal/project"
	"github.com/appforge/service-builder-go-stdlib/internal/shared"
	"github.com/appforge/service-builder-go-stdlib/internal/template"
	"github.com/appforge/service-builder-go-stdlib/internal/user"
)

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware returns a middleware that logs requests at debug level using the provided sugared logger.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			dur := time.Since(start)
			// ensure status is set
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"remote", r.RemoteAddr,
				"status", status,
				"duration_ms", float64(dur.Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// SecurityHeadersMiddleware returns a middleware that sets common HTTP security headers.
// It is intentionally simple and conservative so it works with most setups.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// Prevent MIME sniffing
			w.Header().Set("X-Content-Type-Options", "nosniff")

			// Clickjacking protection
			w.Header().Set("X-Frame-Options", "DENY")

			// Referrer policy
			w.Header().Set("Referrer-Policy", "no-referrer-when-downgrade")

			// Permissions policy (formerly Feature-Policy) - tighten common features
			// allow none for camera, microphone, geolocation by default
			w.Header().Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")

			// Basic Content-Security-Policy - block mixed content and restrict sources to self by default
			// Keep this conservative; callers may opt to override with more specific policy downstream.
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'self'; object-src 'none'; base-uri 'self';")
			}

			// HSTS - instruct browsers to use HTTPS for future requests. Only set if request is over TLS.
			if r.TLS != nil {
				// 30 days by default
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}

			next.ServeHTTP(w, r)
		})
	}
}

// Handlers bundles the feature handlers and the auth middleware the router
// mounts. All fields are required except static asset serving, which is
// derived from the asset upload directory.
type Handlers struct {
	Users      *user.Handler
	Projects   *project.Handler
	Components *component.Handler
	Assets     *asset.Handler
	Templates  *template.Handler
	Collabs    *collab.Handler

	// RequireIdentity protects every route that needs an authenticated
	// caller; public routes bypass it.
	RequireIdentity func(http.Handler) http.Handler

	// UploadDir, when set, is served read-only under /assets/.
	UploadDir string
}

// RegisterRoutes mounts HTTP handlers using the standard library's http.ServeMux.
// This keeps routing stdlib-only while keeping wiring simple and testable.
func RegisterRoutes(logger *zap.SugaredLogger, h Handlers) http.Handler {
	mux := http.NewServeMux()

	// health
	mux.HandleFunc("GET /builder-api/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.Handle("GET /metrics", metrics.Handler())

	// public routes
	mux.HandleFunc("POST /builder-api/register", h.Users.Register)
	mux.HandleFunc("POST /builder-api/login", h.Users.Login)
	mux.HandleFunc("GET /builder-api/templates", h.Templates.List)
	mux.HandleFunc("GET /builder-api/templates/{id}", h.Templates.Get)

	// authenticated routes
	authed := func(fn http.HandlerFunc) http.Handler {
		return h.RequireIdentity(fn)
	}

	mux.Handle("GET /builder-api/me", authed(me))

	mux.Handle("POST /builder-api/projects", authed(h.Projects.Create))
	mux.Handle("GET /builder-api/projects", authed(h.Projects.List))
	mux.Handle("GET /builder-api/projects/{id}", authed(h.Projects.Get))
	mux.Handle("PUT /builder-api/projects/{id}", authed(h.Projects.Update))
	mux.Handle("DELETE /builder-api/projects/{id}", authed(h.Projects.Delete))

	mux.Handle("GET /builder-api/projects/{id}/components", authed(h.Components.ListByProject))
	mux.Handle("POST /builder-api/projects/{id}/components", authed(h.Components.Create))
	mux.Handle("POST /builder-api/projects/{id}/components/generate", authed(h.Components.Generate))
	mux.Handle("PUT /builder-api/components/{id}", authed(h.Components.Update))
	mux.Handle("DELETE /builder-api/components/{id}", authed(h.Components.Delete))

	mux.Handle("POST /builder-api/projects/{id}/assets", authed(h.Assets.Upload))
	mux.Handle("GET /builder-api/projects/{id}/assets", authed(h.Assets.ListByProject))
	mux.Handle("GET /builder-api/assets/{id}", authed(h.Assets.Get))
	mux.Handle("DELETE /builder-api/assets/{id}", authed(h.Assets.Delete))

	mux.Handle("POST /builder-api/templates", authed(h.Templates.Create))
	mux.Handle("PUT /builder-api/templates/{id}", authed(h.Templates.Update))
	mux.Handle("DELETE /builder-api/templates/{id}", authed(h.Templates.Delete))

	mux.Handle("GET /builder-api/projects/{id}/collaborators", authed(h.Collabs.List))
	mux.Handle("POST /builder-api/projects/{id}/collaborators", authed(h.Collabs.Add))
	mux.Handle("DELETE /builder-api/projects/{id}/collaborators/{userID}", authed(h.Collabs.Remove))

	// uploaded files
	if h.UploadDir != "" {
		mux.Handle("GET /assets/", http.StripPrefix("/assets/", http.FileServer(http.Dir(h.UploadDir))))
	}

	// wrap with metrics, security headers, then logging, outermost first
	handler := LoggingMiddleware(logger)(SecurityHeadersMiddleware()(metrics.InstrumentHandler(mux)))
	return handler
}

// me echoes the resolved identity so clients can validate a stored token.
func me(w http.ResponseWriter, r *http.Request) {
	identity, err := auth.MustIdentity(r)
	if err != nil {
		shared.WriteError(w, http.StatusUnauthorized, "unauthenticated", "authentication required")
		return
	}
	shared.WriteJSON(w, http.StatusOK, identity)
}
