package utils

import (
	"errors"
	"fmt"
	"time"

	"slotify/config"

	"github.com/golang-jwt/jwt"
)

func secretKey() []byte {
	secret := config.AppConfig.JWTSecret
	if secret == "" {
		secret = "slotify-dev"
	}
	return []byte(secret)
}

// GenerateToken creates a signed JWT for the given customer within a tenant.
// The token expires after the specified duration.
func GenerateToken(customerID, tenantID, role string, duration time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"sub":  customerID,
		"tid":  tenantID,
		"role": role,
		"iat":  time.Now().Unix(),
		"exp":  time.Now().Add(duration).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secretKey())
}

// ExtractPrincipal parses a bearer token and returns the acting customer id,
// tenant scope, and role.
func ExtractPrincipal(tokenString string) (customerID, tenantID, role string, err error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return secretKey(), nil
	})
	if err != nil {
		return "", "", "", fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", "", "", errors.New("invalid token claims")
	}
	customerID, _ = claims["sub"].(string)
	tenantID, _ = claims["tid"].(string)
	role, _ = claims["role"].(string)
	if customerID == "" || tenantID == "" {
		return "", "", "", errors.New("token missing subject or tenant")
	}
	return customerID, tenantID, role, nil
}
