// ABOUTME: Unit tests for JWT token verification and generation
// ABOUTME: Tests valid tokens, invalid tokens, expired tokens, and claims handling

package auth

import (
	"errors"
	"testing"
	"time"
)

func TestJWTVerifier_ValidToken(t *testing.T) {
	secret := []byte("test-secret-key-for-jwt-signing")
	verifier := NewJWTVerifier(secret)

	token, err := verifier.Generate(&Claims{Subject: "user-123"}, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	claims, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if claims.Subject != "user-123" {
		t.Errorf("Subject = %q, want %q", claims.Subject, "user-123")
	}
}

func TestJWTVerifier_FullClaims(t *testing.T) {
	secret := []byte("test-secret-key-for-jwt-signing")
	verifier := NewJWTVerifier(secret)

	in := &Claims{
		Subject:     "service-account-7",
		Roles:       []string{"developer", "admin"},
		Permissions: []string{"consult", "audit_read"},
		ServiceID:   "pos-catalog",
		ServiceType: "microservice",
	}

	token, err := verifier.Generate(in, time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	got, err := verifier.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}

	if got.Subject != in.Subject {
		t.Errorf("Subject = %q, want %q", got.Subject, in.Subject)
	}
	if len(got.Roles) != 2 || got.Roles[0] != "developer" || got.Roles[1] != "admin" {
		t.Errorf("Roles = %v, want %v", got.Roles, in.Roles)
	}
	if len(got.Permissions) != 2 {
		t.Errorf("Permissions = %v, want %v", got.Permissions, in.Permissions)
	}
	if got.ServiceID != "pos-catalog" {
		t.Errorf("ServiceID = %q, want %q", got.ServiceID, "pos-catalog")
	}
	if got.ServiceType != "microservice" {
		t.Errorf("ServiceType = %q, want %q", got.ServiceType, "microservice")
	}
}

func TestJWTVerifier_InvalidToken(t *testing.T) {
	secret := []byte("test-secret-key-for-jwt-signing")
	verifier := NewJWTVerifier(secret)

	tests := []struct {
		name  string
		token string
	}{
		{
			name:  "empty token",
			token: "",
		},
		{
			name:  "garbage token",
			token: "not-a-jwt-token",
		},
		{
			name:  "malformed JWT",
			token: "header.payload.signature",
		},
		{
			name: "wrong secret",
			token: func() string {
				// Generate with different secret
				otherVerifier := NewJWTVerifier([]byte("different-secret"))
				token, _ := otherVerifier.Generate(&Claims{Subject: "user-123"}, time.Hour)
				return token
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := verifier.Verify(tt.token)
			if err == nil {
				t.Error("Verify() should have returned an error")
			}
		})
	}
}

func TestJWTVerifier_ExpiredToken(t *testing.T) {
	secret := []byte("test-secret-key-for-jwt-signing")
	verifier := NewJWTVerifier(secret)

	token, err := verifier.Generate(&Claims{Subject: "user-123"}, -time.Hour)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	_, err = verifier.Verify(token)
	if !errors.Is(err, ErrExpiredToken) {
		t.Errorf("Verify() error = %v, want ErrExpiredToken", err)
	}
}

func TestJWTVerifier_GenerateMissingSubject(t *testing.T) {
	verifier := NewJWTVerifier([]byte("test-secret-key-for-jwt-signing"))

	if _, err := verifier.Generate(&Claims{}, time.Hour); !errors.Is(err, ErrMissingClaim) {
		t.Errorf("Generate() error = %v, want ErrMissingClaim", err)
	}
	if _, err := verifier.Generate(nil, time.Hour); !errors.Is(err, ErrMissingClaim) {
		t.Errorf("Generate(nil) error = %v, want ErrMissingClaim", err)
	}
}
