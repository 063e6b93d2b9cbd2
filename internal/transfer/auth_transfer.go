package transfer

import "github.com/golang-jwt/jwt/v5"

// OAuthStateClaims travel through the provider as the OAuth state parameter.
type OAuthStateClaims struct {
	Platform string `json:"platform"`
	jwt.RegisteredClaims
}
