package middleware

import (
	"net/http"
	"strings"
)

// Methods and headers the API serves to browser clients. Uploads are
// multipart, everything else is JSON.
const (
	corsAllowMethods = "GET, POST, PATCH, DELETE, OPTIONS"
	corsAllowHeaders = "Content-Type, Accept"
	corsMaxAge       = "86400"
)

type originSet map[string]struct{}

func newOriginSet(origins []string) originSet {
	set := make(originSet, len(origins))
	for _, o := range origins {
		o = strings.TrimSuffix(strings.TrimSpace(o), "/")
		if o != "" {
			set[o] = struct{}{}
		}
	}
	return set
}

func (s originSet) allows(origin string) bool {
	_, ok := s[origin]
	return origin != "" && ok
}

// CORS echoes allowed origins back to the browser and answers preflight
// requests with 204. Requests from other origins pass through without CORS
// headers. Allow-Credentials is never sent.
func CORS(allowedOrigins []string, next http.Handler) http.Handler {
	origins := newOriginSet(allowedOrigins)

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Origin")
		origin := r.Header.Get("Origin")
		if origins.allows(origin) {
			w.Header().Set("Access-Control-Allow-Origin", origin)
		}

		if r.Method != http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		if origins.allows(origin) {
			w.Header().Set("Access-Control-Allow-Methods", corsAllowMethods)
			w.Header().Set("Access-Control-Allow-Headers", corsAllowHeaders)
			w.Header().Set("Access-Control-Max-Age", corsMaxAge)
		}
		w.WriteHeader(http.StatusNoContent)
	})
}
