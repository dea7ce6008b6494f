package jwtauth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"chancery/internal/platform/middleware"
	dErrors "chancery/pkg/domain-errors"
)

// claims are the token claims minted by the diocese identity provider for
// chancery and parish office users.
type claims struct {
	Parish string `json:"parish"`
	jwt.RegisteredClaims
}

// Validator verifies HS256 bearer tokens. The chancery never mints tokens;
// it only checks signatures against the shared signing key.
type Validator struct {
	signingKey []byte
}

func NewValidator(signingKey string) *Validator {
	return &Validator{signingKey: []byte(signingKey)}
}

// ValidateToken implements middleware.JWTValidator.
func (v *Validator) ValidateToken(tokenString string) (*middleware.Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return v.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	c, ok := parsed.Claims.(*claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}

	return &middleware.Claims{
		Subject: c.Subject,
		Parish:  c.Parish,
	}, nil
}
