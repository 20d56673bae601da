// Package api provides shared HTTP helpers and the health endpoint.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ashureev/despacho-chat/internal/domain"
)

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}

// Timestamp formats t the way every response timestamp is formatted.
func Timestamp(t time.Time) string {
	return t.Format(domain.TimestampLayout)
}
