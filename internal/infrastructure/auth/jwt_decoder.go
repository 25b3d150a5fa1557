package auth

import (
	"strconv"

	"github.com/golang-jwt/jwt/v5"
	"github.com/you/adminconsole/domain"
)

// JWTDecoder implements domain.TokenDecoder.
//
// The signature is never checked: the backend is the authority and the console only
// reads the payload to show who is signed in and when the session ends.
type JWTDecoder struct {
	parser *jwt.Parser
}

// NewJWTDecoder creates a new token decoder
func NewJWTDecoder() domain.TokenDecoder {
	return &JWTDecoder{parser: jwt.NewParser()}
}

// Decode implements domain.TokenDecoder
func (d *JWTDecoder) Decode(tokenString string) (*domain.TokenClaims, error) {
	if tokenString == "" {
		return nil, &domain.DecodeError{Reason: "empty token"}
	}

	claims := jwt.MapClaims{}
	if _, _, err := d.parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, &domain.DecodeError{Reason: "malformed token", Err: err}
	}

	exp, ok := claims["exp"].(float64)
	if !ok {
		return nil, &domain.DecodeError{Reason: "missing exp claim"}
	}

	email, ok := claims["email"].(string)
	if !ok || email == "" {
		return nil, &domain.DecodeError{Reason: "missing email claim"}
	}

	tokenClaims := &domain.TokenClaims{
		Identity: domain.Identity{
			UserID:            stringClaim(claims, "id"),
			Name:              stringClaim(claims, "name"),
			Email:             email,
			Role:              stringClaim(claims, "role"),
			ProfilePictureURL: stringClaim(claims, "profilePicture"),
		},
		ExpiresAt: int64(exp),
	}

	return tokenClaims, nil
}

// stringClaim reads an optional claim; numeric ids are rendered without a fraction
func stringClaim(claims jwt.MapClaims, name string) string {
	switch v := claims[name].(type) {
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return ""
	}
}
