package session

import (
	"testing"
	"time"
)

func TestCreateAndValidate(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	token, err := m.Create("sess-123", "user@example.com")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if claims.SessionID != "sess-123" {
		t.Errorf("SessionID = %q, want sess-123", claims.SessionID)
	}
	if claims.Email != "user@example.com" {
		t.Errorf("Email = %q", claims.Email)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewManager("secret-a", time.Hour).Create("sess-1", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := NewManager("secret-b", time.Hour).Validate(token); err == nil {
		t.Error("expected validation to fail with a different secret")
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	m := NewManager("test-secret", -time.Minute)

	token, err := m.Create("sess-1", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := m.Validate(token); err == nil {
		t.Error("expected validation to fail for expired token")
	}
}

func TestEmptySecretStillSigns(t *testing.T) {
	m := NewManager("", time.Hour)

	token, err := m.Create("sess-1", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := m.Validate(token); err != nil {
		t.Errorf("Validate: %v", err)
	}
}
