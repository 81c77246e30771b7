package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued token stays valid. There is no revocation:
// a token remains usable until it expires.
const TokenTTL = 24 * time.Hour

var jwtSecret string

// InitJWTSecret installs the signing secret for the life of the process.
// Rotating it invalidates every outstanding token.
func InitJWTSecret(secret string) error {
	if secret == "" {
		return fmt.Errorf("JWT secret must not be empty")
	}
	jwtSecret = secret
	return nil
}

func GenerateJWT(userID uint) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"iat":     now.Unix(),
		"exp":     now.Add(TokenTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(jwtSecret))
}

// VerifyJWT returns the user ID embedded in a valid token. Malformed,
// tampered and expired tokens all fail the same way; callers treat any
// failure as an unauthenticated request.
func VerifyJWT(tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(jwtSecret), nil
	})

	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)

	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	userIDFloat, ok := claims["user_id"].(float64)

	if !ok {
		return 0, fmt.Errorf("invalid user ID in token claims")
	}

	return uint(userIDFloat), nil
}
