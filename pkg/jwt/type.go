package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims carried by dispatch-srv tokens.
type Claims struct {
	Role string `json:"role,omitempty"`
	RtRw string `json:"rt_rw,omitempty"`
	jwt.RegisteredClaims
}

// Config holds JWT manager configuration.
type Config struct {
	SecretKey string
	Issuer    string
	TTL       time.Duration
}

type managerImpl struct {
	secretKey []byte
	issuer    string
	ttl       time.Duration
}
