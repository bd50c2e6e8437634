// Package auth contains handler relate to log in and create user account
package auth

import (
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	// Load env file into environments.
	_ "github.com/joho/godotenv/autoload"
)

// JwtIssuer is the issuer claim stamped on every token this service signs.
const JwtIssuer = "HireDesk"

// SECRET_KEY signs every access token. Must be set in the environment.
var SECRET_KEY = os.Getenv("SECRET_KEY")

// GenerateStandardToken issues a one-hour access token for the given user id.
// The second return value is reserved for a refresh token.
func GenerateStandardToken(userID uuid.UUID) (string, string, error) {
	return GenerateTokenWithDuration(userID, time.Hour, JwtIssuer)
}

// GenerateTokenWithDuration issues a token with a caller-chosen lifetime and
// issuer. Tests use it to mint expired or foreign tokens.
func GenerateTokenWithDuration(userID uuid.UUID, lifetime time.Duration, issuer string) (string, string, error) {
	accessToken := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Issuer:    issuer,
		Subject:   userID.String(),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(lifetime)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	})

	signedToken, err := accessToken.SignedString([]byte(SECRET_KEY))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}

	return signedToken, "", nil
}

// ValidatedToken parses and verifies an encoded token, returning the parsed
// token with registered claims.
func ValidatedToken(encodedToken string) (*jwt.Token, error) {
	return jwt.ParseWithClaims(encodedToken, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, isValid := token.Method.(*jwt.SigningMethodHMAC); !isValid {
			return nil, fmt.Errorf("invalid signing method")
		}
		return []byte(SECRET_KEY), nil
	})
}
