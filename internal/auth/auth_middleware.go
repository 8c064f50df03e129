package auth

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// Middleware authenticates the bearer credential once at the boundary and
// places the userID in the request context; everything downstream takes the
// identity as an explicit value and never re-derives it.
func (j *JWTManager) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				log.Printf("Authorization header is missing")
				writeJSONError(w, http.StatusUnauthorized, "Token is missing")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				log.Printf("Authorization header is not a bearer token")
				writeJSONError(w, http.StatusUnauthorized, "Invalid token format")
				return
			}

			userID, err := j.ValidateAccessToken(tokenString)
			if err != nil {
				log.Printf("Token validation error: %v", err)
				writeJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), "userID", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
