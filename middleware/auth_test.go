package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret []byte, tournamentID string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"tournament_id": tournamentID,
		"exp":           time.Now().Add(time.Hour).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func TestRequireOrganizer(t *testing.T) {
	secret := []byte("test-secret")

	router := chi.NewRouter()
	router.With(RequireOrganizer(secret)).Post("/tournaments/{tournamentID}/results", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	testCases := []struct {
		name           string
		authorization  string
		expectedStatus int
	}{
		{
			name:           "no header",
			authorization:  "",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "not a bearer token",
			authorization:  "Basic abc",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "garbage token",
			authorization:  "Bearer not.a.token",
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "wrong signing key",
			authorization:  "Bearer " + signToken(t, []byte("other-secret"), "abc"),
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "token for another tournament",
			authorization:  "Bearer " + signToken(t, secret, "someone-elses"),
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "valid token",
			authorization:  "Bearer " + signToken(t, secret, "abc"),
			expectedStatus: http.StatusNoContent,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/tournaments/abc/results", nil)
			if tc.authorization != "" {
				req.Header.Set("Authorization", tc.authorization)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tc.expectedStatus, rec.Code)
		})
	}
}
