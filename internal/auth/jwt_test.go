package auth

import (
	"errors"
	"testing"
	"time"
)

func TestJWTManagerRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	token, err := m.Generate(42)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if token == "" {
		t.Fatal("Generate() returned an empty token")
	}

	userID, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != 42 {
		t.Errorf("Validate() userID = %d, want 42", userID)
	}
}

func TestJWTManagerRejectsExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)

	token, err := m.Generate(7)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := m.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTManagerRejectsWrongSecret(t *testing.T) {
	signer := NewJWTManager("secret-a", time.Hour)
	verifier := NewJWTManager("secret-b", time.Hour)

	token, err := signer.Generate(7)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := verifier.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
	}
}

func TestJWTManagerRejectsGarbage(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	if _, err := m.Validate("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
	}
}

func TestPasswordHashAndCheck(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("HashPassword() returned the plaintext")
	}

	if err := CheckPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("CheckPassword() with correct password: %v", err)
	}
	if err := CheckPassword(hash, "wrong password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("CheckPassword() with wrong password = %v, want ErrInvalidCredentials", err)
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); !errors.Is(err, ErrWeakPassword) {
		t.Errorf("ValidatePassword(short) = %v, want ErrWeakPassword", err)
	}
	if err := ValidatePassword("long enough password"); err != nil {
		t.Errorf("ValidatePassword(valid) = %v, want nil", err)
	}
}
