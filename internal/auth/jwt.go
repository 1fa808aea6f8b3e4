// Package auth issues and checks the bearer tokens that guard the status API.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	// Issuer is the issuer claim of status API tokens
	Issuer = "vigenere-search"
	// ScopeStatus grants read access to scan progress, candidates and runs
	ScopeStatus = "status:read"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrWrongScope   = errors.New("token scope does not grant status access")
)

// Claims identifies the operator a status token was issued to
type Claims struct {
	Operator string `json:"operator"`
	Scope    string `json:"scope"`
	jwt.RegisteredClaims
}

// JWTAuth signs status tokens with an HMAC secret
type JWTAuth struct {
	secret     []byte
	expiration time.Duration
	parser     *jwt.Parser
}

// NewJWTAuth creates a token issuer whose tokens live for expiration
func NewJWTAuth(secret string, expiration time.Duration) *JWTAuth {
	return &JWTAuth{
		secret:     []byte(secret),
		expiration: expiration,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(Issuer),
			jwt.WithExpirationRequired(),
		),
	}
}

// GenerateToken issues a status token for operator
func (j *JWTAuth) GenerateToken(operator string) (string, error) {
	now := time.Now()
	claims := Claims{
		Operator: operator,
		Scope:    ScopeStatus,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    Issuer,
			Subject:   operator,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.expiration)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
}

// ValidateToken checks signature, issuer, expiry and scope of a status token
func (j *JWTAuth) ValidateToken(tokenString string) (*Claims, error) {
	claims := &Claims{}
	_, err := j.parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (interface{}, error) {
		return j.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrExpiredToken
	case err != nil:
		return nil, ErrInvalidToken
	case claims.Scope != ScopeStatus:
		return nil, ErrWrongScope
	}
	return claims, nil
}
