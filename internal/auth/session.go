// internal/auth/session.go
package auth

import (
	"crypto/ed25519"
	"fmt"
	"os"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sessions mints and verifies the bearer tokens that tie a socket frame to a
// player id. Keys are generated at startup; tokens do not survive a restart,
// which is fine because rooms expire with their Redis TTL anyway.
type Sessions struct {
	privateKey ed25519.PrivateKey
	publicKey  ed25519.PublicKey
	expiry     time.Duration
}

// NewSessions generates a fresh ed25519 key pair. Token lifetime comes from
// the TOKEN_EXPIRE_TIME env var ("never", "0" or empty disables expiry).
func NewSessions() (*Sessions, error) {
	pub, priv, err := ed25519.GenerateKey(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to generate ed25519 key pair: %w", err)
	}

	expiry := time.Duration(0)
	if raw := os.Getenv("TOKEN_EXPIRE_TIME"); raw != "" && raw != "never" && raw != "0" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("failed to parse token expire time: %w", err)
		}
		expiry = d
	}

	return &Sessions{privateKey: priv, publicKey: pub, expiry: expiry}, nil
}

// CreateToken signs a token with "sub" = playerID.
func (s *Sessions) CreateToken(playerID string) (string, error) {
	claims := jwt.MapClaims{
		"sub": playerID,
	}
	if s.expiry != 0 {
		claims["exp"] = time.Now().Add(s.expiry).Unix()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodEdDSA, claims)
	return token.SignedString(s.privateKey)
}

// VerifyToken checks the signature and returns the player id from "sub".
func (s *Sessions) VerifyToken(tokenString string) (string, error) {
	t, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodEd25519); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.publicKey, nil
	})
	if err != nil {
		return "", fmt.Errorf("jwt parse error: %w", err)
	}
	if !t.Valid {
		return "", fmt.Errorf("invalid token")
	}

	claims, ok := t.Claims.(jwt.MapClaims)
	if !ok {
		return "", fmt.Errorf("invalid jwt claims")
	}
	playerID, ok := claims["sub"].(string)
	if !ok {
		return "", fmt.Errorf("missing sub in jwt")
	}
	return playerID, nil
}
