package services

import (
	"testing"
)

func TestRegisterAndLogin(t *testing.T) {
	db := setupTestDB(t)
	svc := NewAuthService(db)

	user, err := svc.Register("Host@Example.com", "correct horse battery", "Host")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.Email != "host@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.PasswordHash == "correct horse battery" {
		t.Error("password stored in plaintext")
	}

	// Same email, any casing, is rejected
	if _, err := svc.Register("host@example.com", "another password", ""); err != ErrEmailTaken {
		t.Errorf("expected ErrEmailTaken, got %v", err)
	}

	logged, err := svc.Login("host@example.com", "correct horse battery")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if logged.ID != user.ID {
		t.Errorf("login returned user %d, want %d", logged.ID, user.ID)
	}

	if _, err := svc.Login("host@example.com", "wrong password"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Login("nobody@example.com", "whatever"); err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}
}
