// Package auth validates the HS256 bearer tokens protecting mutating
// API endpoints.
package auth

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Validator validates HS256 JWT tokens against a shared secret.
type Validator struct {
	secret []byte
	parser *jwt.Parser
}

// NewValidator creates a validator for the given secret. An issuer
// claim is enforced when non-empty.
func NewValidator(secret, issuer string) (*Validator, error) {
	if secret == "" {
		return nil, fmt.Errorf("auth secret must not be empty")
	}

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
	}
	if issuer != "" {
		parserOpts = append(parserOpts, jwt.WithIssuer(issuer))
	}

	return &Validator{
		secret: []byte(secret),
		parser: jwt.NewParser(parserOpts...),
	}, nil
}

// ValidateToken verifies the token's signature, expiry and issuer and
// returns the authenticated principal.
func (v *Validator) ValidateToken(tokenString string) (*Principal, error) {
	token, err := v.parser.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parsing token: %w", err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &Principal{Subject: claims.Subject}, nil
}
