package service

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"

	"github.com/campushq/enroll-api/internal/models"
	"github.com/campushq/enroll-api/pkg/config"
	appErrors "github.com/campushq/enroll-api/pkg/errors"
)

// AuthService verifies bearer tokens issued by the external identity
// provider. Token issuance, refresh and revocation all live there; this
// service only answers "who is the caller".
type AuthService struct {
	config config.AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(cfg config.AuthConfig) *AuthService {
	return &AuthService{config: cfg}
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	options := []jwt.ParserOption{jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()})}
	if s.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(s.config.Issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.TokenSecret), nil
	}, options...)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	if claims.SubjectID() == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "token carries no subject")
	}

	return claims, nil
}
