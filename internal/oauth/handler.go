package oauth

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"lineage/pkg/logging"
)

// TokenHandler serves the OAuth2 token endpoint for the
// client-credentials grant.
type TokenHandler struct {
	clients *ClientStore
	tokens  *TokenStore
	issuer  *Issuer
	ttl     time.Duration
}

// NewTokenHandler creates the token endpoint handler. Protocol-issued
// tokens use the given expiration interval; empty or unknown intervals
// fall back to the default.
func NewTokenHandler(clients *ClientStore, tokens *TokenStore, issuer *Issuer, interval string) *TokenHandler {
	ttl, err := ExpirationInterval(interval)
	if err != nil {
		if interval != "" {
			logging.Warn("OAuth", "Unknown expiration interval %q, using %s", interval, DefaultExpirationInterval)
		}
		ttl, _ = ExpirationInterval(DefaultExpirationInterval)
	}
	return &TokenHandler{clients: clients, tokens: tokens, issuer: issuer, ttl: ttl}
}

// tokenResponse is the successful token endpoint response body.
type tokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope,omitempty"`
}

// tokenError is the OAuth2 error response body.
type tokenError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}

func (h *TokenHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		writeTokenError(w, http.StatusBadRequest, "invalid_request", "malformed request body")
		return
	}
	logging.Debug("OAuth", "Token request body=%s", logging.RedactBody(r.PostForm.Encode()))

	clientID, clientSecret, ok := r.BasicAuth()
	if !ok {
		clientID = r.PostFormValue("client_id")
		clientSecret = r.PostFormValue("client_secret")
	}
	grantType := r.PostFormValue("grant_type")

	if grantType != GrantClientCredentials {
		writeTokenError(w, http.StatusBadRequest, "unsupported_grant_type", "only client_credentials is supported")
		return
	}
	if !h.clients.Validate(clientID, clientSecret, grantType) {
		logging.Warn("OAuth", "Rejected token request for client %q", clientID)
		writeTokenError(w, http.StatusUnauthorized, "invalid_client", "client authentication failed")
		return
	}

	client := h.clients.Lookup(clientID)
	requested := ScopesFromStrings(strings.Fields(r.PostFormValue("scope")))
	if len(requested) == 0 {
		// No explicit scope request means the client's full grant.
		requested = client.Scopes
	}

	token, signed, err := h.issuer.Issue(client, requested, client.TechnicalUserID, h.ttl)
	if err != nil {
		writeTokenError(w, http.StatusInternalServerError, "server_error", "failed to issue token")
		return
	}
	if err := h.tokens.Persist(token); err != nil {
		logging.Error("OAuth", err, "Failed to persist issued token")
		writeTokenError(w, http.StatusInternalServerError, "server_error", "failed to persist token")
		return
	}

	logging.Info("OAuth", "Issued token %s for client %s (scopes: %s)",
		token.ShortToken, client.ID, strings.Join(ScopeStrings(token.Scopes), " "))

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	json.NewEncoder(w).Encode(tokenResponse{
		AccessToken: signed,
		TokenType:   "Bearer",
		ExpiresIn:   int64(time.Until(token.ExpiresAt).Seconds()),
		Scope:       strings.Join(ScopeStrings(token.Scopes), " "),
	})
}

func writeTokenError(w http.ResponseWriter, status int, code, description string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(tokenError{Error: code, ErrorDescription: description})
}
