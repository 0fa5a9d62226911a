package middleware

import (
	"net/http"
	"strings"
)

const (
	apiCSP   = "default-src 'none'; frame-ancestors 'none'"
	imageCSP = "default-src 'none'; img-src 'self'; frame-ancestors 'none'"
)

// SecurityHeaders adds hardening headers. Product photos under imagePrefix
// may be cached and embedded by a chat frontend on another origin. Every
// other response carries session data and is marked no-store.
func SecurityHeaders(imagePrefix string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "DENY")
			h.Set("Referrer-Policy", "no-referrer")

			if imagePrefix != "" && strings.HasPrefix(r.URL.Path, imagePrefix) {
				h.Set("Content-Security-Policy", imageCSP)
				h.Set("Cross-Origin-Resource-Policy", "cross-origin")
				h.Set("Cache-Control", "public, max-age=86400")
			} else {
				h.Set("Content-Security-Policy", apiCSP)
				h.Set("Cache-Control", "no-store")
			}
			next.ServeHTTP(w, r)
		})
	}
}
