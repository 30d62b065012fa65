package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanonicalPathCollapsesIDs(t *testing.T) {
	cases := map[string]string{
		"/":                                   "/",
		"/healthz":                            "/healthz",
		"/builder-api/register":               "/builder-api/register",
		"/builder-api/projects":               "/builder-api/projects",
		"/builder-api/projects/abc123":        "/builder-api/projects/:id",
		"/builder-api/projects/abc123/assets": "/builder-api/projects/:id/assets",
		"/builder-api/assets/xyz":             "/builder-api/assets/:id",
	}
	for in, want := range cases {
		assert.Equal(t, want, canonicalPath(in), in)
	}
}

func TestInstrumentHandlerPreservesStatus(t *testing.T) {
	h := InstrumentHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/builder-api/projects/p1", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestMetricsHandlerServesRegistry(t *testing.T) {
	rec := httptest.NewRecorder()
	Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Body.String())
}
