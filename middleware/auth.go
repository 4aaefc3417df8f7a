package middleware

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
)

// RequireOrganizer guards mutating tournament endpoints. The bearer token
// issued at creation carries a tournament_id claim which must match the
// {tournamentID} URL parameter, so a token for one bracket cannot touch
// another.
func RequireOrganizer(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "organizer token required", http.StatusUnauthorized)
				return
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				http.Error(w, "invalid or expired organizer token", http.StatusUnauthorized)
				return
			}

			tournamentID, _ := claims["tournament_id"].(string)
			if tournamentID == "" || tournamentID != chi.URLParam(r, "tournamentID") {
				http.Error(w, "token does not grant access to this tournament", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
