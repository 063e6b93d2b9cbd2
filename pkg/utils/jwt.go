package utils

import (
	"errors"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/maheshrc27/ghostwriter/internal/transfer"
)

const stateIssuer = "ghostwriter"

// GenerateStateToken signs an OAuth state bound to platform.
func GenerateStateToken(secretKey, platform string, ttl time.Duration) (string, error) {
	nonce, err := GenerateRandomKey(16)
	if err != nil {
		return "", err
	}

	now := time.Now()
	claims := transfer.OAuthStateClaims{
		Platform: platform,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        nonce,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    stateIssuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secretKey))
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	return signed, nil
}

func ValidateStateToken(secretKey, tokenString string) (*transfer.OAuthStateClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &transfer.OAuthStateClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid token signing method")
		}
		return []byte(secretKey), nil
	}, jwt.WithIssuer(stateIssuer))
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	if claims, ok := token.Claims.(*transfer.OAuthStateClaims); ok && token.Valid {
		return claims, nil
	}
	return nil, errors.New("invalid token")
}
