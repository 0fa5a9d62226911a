package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// chatMethods are the verbs the /api/v1 surface registers.
var chatMethods = []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions}

// CORS returns cors.Options for browser chat clients on allowedOrigins.
// Sessions travel in the URL, never in cookies, so credentials stay off.
func CORS(allowedOrigins []string) cors.Options {
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000"}
	}

	return cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   chatMethods,
		AllowedHeaders:   []string{"Accept", "Content-Type", RequestIDHeader},
		ExposedHeaders:   []string{RequestIDHeader, "Retry-After"},
		AllowCredentials: false,
		MaxAge:           600,
	}
}
