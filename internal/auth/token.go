package auth

import (
	"crypto/subtle"
	"errors"
	"os"
	"strings"
)

// TokenEnvVar names the environment variable holding the API token
const TokenEnvVar = "REVMIG_API_TOKEN"

// ValidateToken validates an API token against REVMIG_API_TOKEN
func ValidateToken(token string) error {
	expectedToken := os.Getenv(TokenEnvVar)
	if expectedToken == "" {
		return errors.New(TokenEnvVar + " not configured")
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(expectedToken)) != 1 {
		return errors.New("invalid API token")
	}

	return nil
}

// ExtractToken extracts the token from an Authorization header
func ExtractToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", errors.New("missing Authorization header")
	}

	// Support "Bearer {token}" format
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return "", errors.New("invalid Authorization header format")
	}

	if !strings.EqualFold(parts[0], "bearer") {
		return "", errors.New("authorization header must use Bearer scheme")
	}

	return parts[1], nil
}

// Authenticate extracts and validates the bearer token of an Authorization header
func Authenticate(authHeader string) error {
	token, err := ExtractToken(authHeader)
	if err != nil {
		return err
	}
	return ValidateToken(token)
}
