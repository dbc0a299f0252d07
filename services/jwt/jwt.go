package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

const (
	AccessTokenValidity  = time.Hour * 24
	RefreshTokenValidity = time.Hour * 24 * 7
	ResetTokenValidity   = time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// GenerateTokenPair returns an access token and a refresh token for the user.
func GenerateTokenPair(email string, secret string, isAdmin bool, id uint, role string) (string, string, error) {
	if secret == "" {
		return "", "", errors.New("jwt secret is missing")
	}

	accessClaims := jwt.MapClaims{
		"email":    email,
		"id":       id,
		"role":     role,
		"is_admin": isAdmin,
		"type":     "access",
		"exp":      time.Now().Add(AccessTokenValidity).Unix(),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}

	refreshClaims := jwt.MapClaims{
		"email": email,
		"id":    id,
		"type":  "refresh",
		"exp":   time.Now().Add(RefreshTokenValidity).Unix(),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString([]byte(secret))
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

// ValidateAndGetClaims parses the token, checks the signing method and expiry,
// and returns its claims.
func ValidateAndGetClaims(tokenString string, secret string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if exp, ok := claims["exp"].(float64); ok && int64(exp) < time.Now().Unix() {
		return nil, ErrTokenExpired
	}
	return claims, nil
}

// GeneratePasswordResetToken issues a short-lived token embedding the user id.
func GeneratePasswordResetToken(userID uint, secret string) (string, error) {
	if secret == "" {
		return "", errors.New("jwt secret is missing")
	}
	claims := jwt.MapClaims{
		"id":   userID,
		"type": "password_reset_token",
		"exp":  time.Now().Add(ResetTokenValidity).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// VerifyPasswordResetToken checks a reset token and returns the user id it
// was issued for.
func VerifyPasswordResetToken(tokenString string, secret string) (uint, error) {
	claims, err := ValidateAndGetClaims(tokenString, secret)
	if err != nil {
		return 0, err
	}
	if t, ok := claims["type"].(string); !ok || t != "password_reset_token" {
		return 0, ErrInvalidToken
	}
	id, ok := claims["id"].(float64)
	if !ok {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}
