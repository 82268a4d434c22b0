package auth

import (
	"testing"
	"time"

	"servis-backend/internal/models"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestGenerateAndParseToken(t *testing.T) {
	user := &models.User{
		ID:          7,
		Username:    "usta",
		Role:        models.RoleEmployee,
		Permissions: models.PermissionList{models.PermissionPrice},
		IsBlocked:   true,
	}

	token, err := GenerateToken(testSecret, user)
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}

	claims, err := ParseToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseToken() error = %v", err)
	}

	if claims.UserID != 7 {
		t.Errorf("UserID = %d, want 7", claims.UserID)
	}
	if claims.Username != "usta" {
		t.Errorf("Username = %q, want usta", claims.Username)
	}
	if claims.Role != models.RoleEmployee {
		t.Errorf("Role = %q, want %q", claims.Role, models.RoleEmployee)
	}
	if !claims.IsBlocked {
		t.Error("IsBlocked = false, want true")
	}
	if !claims.Permissions.Has(models.PermissionPrice) {
		t.Errorf("Permissions = %v, want price", claims.Permissions)
	}

	ttl := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	if ttl != SessionMaxAge {
		t.Errorf("token lifetime = %v, want %v", ttl, SessionMaxAge)
	}
}

func TestParseTokenWrongSecret(t *testing.T) {
	token, err := GenerateToken(testSecret, &models.User{ID: 1, Role: models.RoleAdmin})
	if err != nil {
		t.Fatalf("GenerateToken() error = %v", err)
	}
	if _, err := ParseToken("another-secret-another-secret-xx", token); err == nil {
		t.Error("ParseToken() with wrong secret error = nil, want error")
	}
}

func TestSessionMaxAge(t *testing.T) {
	if SessionMaxAge != 30*24*time.Hour {
		t.Errorf("SessionMaxAge = %v, want 720h", SessionMaxAge)
	}
}
