package auth

import "github.com/golang-jwt/jwt/v5"

// SessionTokenPayload captures the data available when minting a session token.
type SessionTokenPayload struct {
	AccountID uint
	JTI       string
}

// SessionClaims represents the typed JWT stored in the session cookie.
type SessionClaims struct {
	AccountID uint `json:"account_id"`
	jwt.RegisteredClaims
}
