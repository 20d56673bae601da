// Package middleware provides HTTP middleware for the chat API.
package middleware

import (
	"net/http"
	"slices"
	"strings"
)

// CORSOptions configures the cross-origin policy.
type CORSOptions struct {
	AllowedOrigins []string
	AllowedHeaders []string
}

var defaultAllowedHeaders = []string{"Content-Type", "Authorization"}

// CORS returns middleware that handles CORS headers for the given origins.
func CORS(allowedOrigins []string, extraHeaders ...string) func(http.Handler) http.Handler {
	return CORSWithOptions(CORSOptions{
		AllowedOrigins: allowedOrigins,
		AllowedHeaders: append(slices.Clone(defaultAllowedHeaders), extraHeaders...),
	})
}

// CORSWithOptions returns middleware that handles CORS headers.
func CORSWithOptions(opts CORSOptions) func(http.Handler) http.Handler {
	headers := strings.Join(opts.AllowedHeaders, ", ")
	if headers == "" {
		headers = strings.Join(defaultAllowedHeaders, ", ")
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")

			explicit := origin != "" && slices.Contains(opts.AllowedOrigins, origin)
			if origin != "" && (explicit || slices.Contains(opts.AllowedOrigins, "*")) {
				w.Header().Set("Access-Control-Allow-Origin", origin)
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", headers)
				// Only allow credentials for explicit origins, not wildcard matches.
				// Setting Allow-Credentials with a wildcard-echoed origin enables CSRF.
				if explicit {
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
