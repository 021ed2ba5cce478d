package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest exchanges a role and its shared secret for an access token.
type LoginRequest struct {
	Role   Role   `json:"role" validate:"required"`
	Secret string `json:"secret" validate:"required"`
}

// LoginResponse returns the issued token.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	Role        Role      `json:"role"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Role Role `json:"role"`
	jwt.RegisteredClaims
}
