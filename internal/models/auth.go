package models

import "github.com/golang-jwt/jwt/v5"

// UserRole represents the roles carried in identity provider tokens.
type UserRole string

const (
	RoleAdmin   UserRole = "ADMIN"
	RoleStudent UserRole = "STUDENT"
)

// JWTClaims represents the payload of bearer tokens issued by the identity
// provider. The token subject is the user identifier.
type JWTClaims struct {
	Role UserRole `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// UserID returns the authenticated user's identifier.
func (c *JWTClaims) UserID() string {
	if c == nil {
		return ""
	}
	return c.Subject
}
