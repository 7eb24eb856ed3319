package models

import "github.com/golang-jwt/jwt/v5"

// JWTClaims are the claims this API reads from verified bearer tokens. The
// identity provider stamps the stable subject id in both `uid` and `sub`.
type JWTClaims struct {
	UID   string `json:"uid"`
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// SubjectID returns the stable caller identity, preferring the uid claim.
func (c *JWTClaims) SubjectID() string {
	if c == nil {
		return ""
	}
	if c.UID != "" {
		return c.UID
	}
	return c.Subject
}
