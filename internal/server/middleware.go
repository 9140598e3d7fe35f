package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"lineage/internal/oauth"
	"lineage/pkg/logging"
)

// apiAuthHeader is the fallback authorization header for clients whose
// infrastructure strips or repurposes the standard Authorization header.
const apiAuthHeader = "X-Api-Authorization"

// requestLogger logs each request with credentials redacted.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logging.Debug("Server", "%s %s headers=%v", r.Method, r.URL.Path, logging.RedactHeaders(r.Header))
		next.ServeHTTP(w, r)
	})
}

// bearerToken extracts the bearer token from the Authorization header,
// falling back to the X-Api-Authorization header.
func bearerToken(r *http.Request) string {
	for _, header := range []string{"Authorization", apiAuthHeader} {
		value := r.Header.Get(header)
		if strings.HasPrefix(value, "Bearer ") {
			return strings.TrimPrefix(value, "Bearer ")
		}
	}
	return ""
}

// authenticate resolves the caller's access token, writing the HTTP
// error response itself when authentication fails.
func (s *Server) authenticate(w http.ResponseWriter, r *http.Request) (*oauth.AccessToken, bool) {
	bearer := bearerToken(r)
	if bearer == "" {
		writeError(w, http.StatusUnauthorized, "Missing authorization header or bearer token")
		return nil, false
	}

	token, err := s.auth.Authenticate(bearer)
	if err != nil {
		if errors.Is(err, oauth.ErrTokenRevoked) {
			writeError(w, http.StatusUnauthorized, "Access token has been revoked")
		} else {
			writeError(w, http.StatusUnauthorized, "Access token is invalid or expired")
		}
		return nil, false
	}
	return token, true
}

// errorBody is the REST error response shape.
type errorBody struct {
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Message: message})
}
