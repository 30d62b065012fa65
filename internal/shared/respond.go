package shared

import (
	"encoding/json"
	"net/http"
)

// WriteJSON writes v as a JSON response body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError writes the uniform error body {"error": kind, "message": msg}.
func WriteError(w http.ResponseWriter, status int, kind, msg string) {
	WriteJSON(w, status, map[string]string{"error": kind, "message": msg})
}
