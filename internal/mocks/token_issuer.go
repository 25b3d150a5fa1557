package mocks

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/you/adminconsole/domain"
)

var testSigningKey = []byte("backend-test-secret")

// IssueToken signs a session token the way the backend does, for tests
func IssueToken(identity domain.Identity, exp time.Time) string {
	claims := jwt.MapClaims{
		"id":    identity.UserID,
		"name":  identity.Name,
		"email": identity.Email,
		"role":  identity.Role,
		"iat":   time.Now().Unix(),
		"exp":   exp.Unix(),
	}
	if identity.ProfilePictureURL != "" {
		claims["profilePicture"] = identity.ProfilePictureURL
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSigningKey)
	if err != nil {
		panic(err)
	}
	return token
}
