// ABOUTME: JWT token verification for authenticating consultation requests
// ABOUTME: Uses HS256 signing with configurable secret

package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token errors
var (
	ErrInvalidToken = errors.New("invalid token")
	ErrExpiredToken = errors.New("token expired")
	ErrMissingClaim = errors.New("missing required claim")
)

// Claims holds the identity information carried by a verified token.
type Claims struct {
	Subject     string
	Roles       []string
	Permissions []string
	ServiceID   string
	ServiceType string
}

// TokenVerifier defines the interface for token verification
type TokenVerifier interface {
	Verify(tokenString string) (*Claims, error)
}

// JWTVerifier implements TokenVerifier using HS256 signed JWTs
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a new JWT verifier with the given secret
func NewJWTVerifier(secret []byte) *JWTVerifier {
	return &JWTVerifier{secret: secret}
}

// Verify validates the token and extracts the identity claims.
// The "sub" claim is required; roles, permissions, service_id and
// service_type are optional.
func (v *JWTVerifier) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Validate the signing method is HS256
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	})

	if err != nil {
		// Check if it's specifically an expiration error
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	if !token.Valid {
		return nil, ErrInvalidToken
	}

	mapClaims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}

	sub, ok := mapClaims["sub"].(string)
	if !ok || sub == "" {
		return nil, fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	claims := &Claims{
		Subject:     sub,
		Roles:       stringSlice(mapClaims["roles"]),
		Permissions: stringSlice(mapClaims["permissions"]),
	}
	if sid, ok := mapClaims["service_id"].(string); ok {
		claims.ServiceID = sid
	}
	if st, ok := mapClaims["service_type"].(string); ok {
		claims.ServiceType = st
	}

	return claims, nil
}

// Generate creates a new JWT token carrying the given claims with expiration
func (v *JWTVerifier) Generate(claims *Claims, expiresIn time.Duration) (string, error) {
	if claims == nil || claims.Subject == "" {
		return "", fmt.Errorf("%w: sub", ErrMissingClaim)
	}

	now := time.Now()
	mapClaims := jwt.MapClaims{
		"sub": claims.Subject,
		"iat": now.Unix(),
		"exp": now.Add(expiresIn).Unix(),
	}
	if len(claims.Roles) > 0 {
		mapClaims["roles"] = claims.Roles
	}
	if len(claims.Permissions) > 0 {
		mapClaims["permissions"] = claims.Permissions
	}
	if claims.ServiceID != "" {
		mapClaims["service_id"] = claims.ServiceID
	}
	if claims.ServiceType != "" {
		mapClaims["service_type"] = claims.ServiceType
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, mapClaims)
	return token.SignedString(v.secret)
}

// stringSlice converts a decoded JWT claim value into a string slice.
// JSON arrays decode as []interface{}; anything else yields nil.
func stringSlice(val interface{}) []string {
	items, ok := val.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
