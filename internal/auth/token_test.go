package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/atomconnect/atom-connect-api/internal/core/domain"
)

func TestCodec_IssueAndVerify(t *testing.T) {
	codec, err := NewCodec("test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	token, err := codec.Issue("user-1", domain.RoleFreelancer)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	claims, err := codec.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.IdentityID != "user-1" {
		t.Fatalf("identity id = %q, want user-1", claims.IdentityID)
	}
	if claims.Role != domain.RoleFreelancer {
		t.Fatalf("role = %q, want FREELANCER", claims.Role)
	}
	if claims.ID == "" {
		t.Fatalf("expected a token id")
	}
}

func TestNewCodec_EmptySecret(t *testing.T) {
	if _, err := NewCodec("", time.Hour); err == nil {
		t.Fatalf("expected error for empty secret")
	}
}

func TestCodec_Issue_InvalidInput(t *testing.T) {
	codec, _ := NewCodec("test-secret", time.Hour)

	if _, err := codec.Issue("", domain.RoleAdmin); err == nil {
		t.Fatalf("expected error for empty identity")
	}
	if _, err := codec.Issue("user-1", domain.Role("SUPERUSER")); err == nil {
		t.Fatalf("expected error for unknown role")
	}
}

func TestCodec_Verify_Expired(t *testing.T) {
	codec, _ := NewCodec("test-secret", time.Hour)

	now := time.Now().UTC().Add(-2 * time.Hour)
	claims := Claims{
		IdentityID: "user-1",
		Role:       domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Minute)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := codec.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodec_Verify_WrongSecret(t *testing.T) {
	issuing, _ := NewCodec("secret-a", time.Hour)
	verifying, _ := NewCodec("secret-b", time.Hour)

	token, err := issuing.Issue("user-1", domain.RoleAdmin)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifying.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestCodec_Verify_Malformed(t *testing.T) {
	codec, _ := NewCodec("test-secret", time.Hour)

	for _, token := range []string{"", "garbage", "a.b.c"} {
		if _, err := codec.Verify(token); err != ErrInvalidToken {
			t.Fatalf("token %q: expected ErrInvalidToken, got %v", token, err)
		}
	}
}

func TestCodec_Verify_RejectsUnsignedAlg(t *testing.T) {
	codec, _ := NewCodec("test-secret", time.Hour)

	now := time.Now().UTC()
	claims := Claims{
		IdentityID: "user-1",
		Role:       domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := codec.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for alg=none, got %v", err)
	}
}

func TestCodec_Verify_MissingExpiry(t *testing.T) {
	codec, _ := NewCodec("test-secret", time.Hour)

	claims := Claims{
		IdentityID: "user-1",
		Role:       domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:   issuer,
			IssuedAt: jwt.NewNumericDate(time.Now().UTC()),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := codec.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for missing exp, got %v", err)
	}
}

func TestCodec_Verify_WrongIssuer(t *testing.T) {
	codec, _ := NewCodec("test-secret", time.Hour)

	now := time.Now().UTC()
	claims := Claims{
		IdentityID: "user-1",
		Role:       domain.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "someone-else",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := codec.Verify(token); err != ErrInvalidToken {
		t.Fatalf("expected ErrInvalidToken for wrong issuer, got %v", err)
	}
}
