package dto

import "github.com/golang-jwt/jwt/v5"

// AuthClaims are the claims read from identity-provider access tokens.
// UserID falls back to the registered subject when absent.
type AuthClaims struct {
	UserID string `json:"user_id,omitempty"`
	jwt.RegisteredClaims
}

// ResolveUserID returns the user the token was issued for.
func (c *AuthClaims) ResolveUserID() string {
	if c.UserID != "" {
		return c.UserID
	}
	return c.RegisteredClaims.Subject
}
