package auth

import "net/http"

const (
	sessionCookieName = "codecd-session"
	apiKeyQueryParam  = "api-key"
	apiKeyHeader      = "api-key"
)

// Middleware returns an http.Handler middleware that enforces authentication.
// In open mode (no passwords configured), all requests pass through.
// Otherwise, checks the session cookie, the api-key header, and the api-key
// query parameter.
func (s *Service) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.IsOpenMode() {
			next.ServeHTTP(w, r)
			return
		}

		if cookie, err := r.Cookie(sessionCookieName); err == nil {
			if s.VerifyKey(cookie.Value) {
				next.ServeHTTP(w, r)
				return
			}
		}

		if key := r.Header.Get(apiKeyHeader); key != "" {
			if s.VerifyKey(key) {
				next.ServeHTTP(w, r)
				return
			}
		}

		if key := r.URL.Query().Get(apiKeyQueryParam); key != "" {
			if s.VerifyKey(key) {
				next.ServeHTTP(w, r)
				return
			}
		}

		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}
