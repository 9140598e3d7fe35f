package oauth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GrantClientCredentials is the only supported OAuth2 grant type.
const GrantClientCredentials = "client_credentials"

// Client is a registered OAuth2 client. Clients are never mutated in
// place; edits replace a client by remove-then-add.
type Client struct {
	// ID is the externally chosen, unique client identifier.
	ID string `json:"identifier"`

	// Name is the unique display name.
	Name string `json:"name"`

	// SecretHash is the bcrypt hash of the client secret. The plaintext
	// secret is never stored.
	SecretHash string `json:"secret_hash"`

	// Scopes is the granted scope set.
	Scopes []Scope `json:"scopes"`

	// GrantTypes lists the supported grant types.
	GrantTypes []string `json:"grant_types"`

	// TechnicalUserID is the opaque identity attributed to record
	// operations performed on behalf of this client.
	TechnicalUserID string `json:"technical_user_id,omitempty"`

	// Confidential marks the client as able to keep its secret. Only
	// confidential clients pass validation.
	Confidential bool `json:"confidential"`
}

// NewClient creates a confidential client-credentials client with a
// hashed secret.
func NewClient(id, name, secret string, scopes []Scope, technicalUserID string) (*Client, error) {
	if id == "" || name == "" {
		return nil, fmt.Errorf("client identifier and name must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash client secret: %w", err)
	}
	return &Client{
		ID:              id,
		Name:            name,
		SecretHash:      string(hash),
		Scopes:          scopes,
		GrantTypes:      []string{GrantClientCredentials},
		TechnicalUserID: technicalUserID,
		Confidential:    true,
	}, nil
}

// HasScope reports whether the client holds the given scope.
func (c *Client) HasScope(s Scope) bool {
	for _, have := range c.Scopes {
		if have == s {
			return true
		}
	}
	return false
}


// SupportsGrantType reports whether the client supports the grant type.
func (c *Client) SupportsGrantType(grantType string) bool {
	for _, g := range c.GrantTypes {
		if g == grantType {
			return true
		}
	}
	return false
}

// ValidateSecret checks the plaintext secret against the stored hash.
// bcrypt's comparison is constant-time.
func (c *Client) ValidateSecret(secret string) bool {
	return bcrypt.CompareHashAndPassword([]byte(c.SecretHash), []byte(secret)) == nil
}
