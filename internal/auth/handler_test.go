package auth

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"servis-backend/internal/config"
	"servis-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(cfg *config.Config) *fiber.App {
	app := fiber.New()
	app.Post("/auth/init", InitFirstUserHandler())
	app.Post("/auth/login", LoginHandler(cfg))
	app.Get("/auth/me", JWTMiddleware(cfg), MeHandler())
	return app
}

func postJSON(t *testing.T, app *fiber.App, path string, body any) (int, map[string]any) {
	t.Helper()
	b, _ := json.Marshal(body)
	req := httptest.NewRequest("POST", path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test(%s) error = %v", path, err)
	}
	defer resp.Body.Close()
	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp.StatusCode, out
}

func TestInitLoginMe(t *testing.T) {
	testutil.UseGlobal(t, testutil.NewDB(t))
	cfg := &config.Config{JWTSecret: testSecret}
	app := newTestApp(cfg)

	initBody := map[string]string{"username": "admin", "firstname": "Yönetici", "password": "gizli123"}

	status, _ := postJSON(t, app, "/auth/init", initBody)
	if status != fiber.StatusCreated {
		t.Fatalf("first init status = %d, want %d", status, fiber.StatusCreated)
	}

	status, _ = postJSON(t, app, "/auth/init", initBody)
	if status != fiber.StatusForbidden {
		t.Errorf("second init status = %d, want %d", status, fiber.StatusForbidden)
	}

	status, _ = postJSON(t, app, "/auth/login", map[string]string{"username": "admin", "password": "yanlis"})
	if status != fiber.StatusUnauthorized {
		t.Errorf("bad password status = %d, want %d", status, fiber.StatusUnauthorized)
	}

	status, body := postJSON(t, app, "/auth/login", map[string]string{"username": "admin", "password": "gizli123"})
	if status != fiber.StatusOK {
		t.Fatalf("login status = %d, want %d", status, fiber.StatusOK)
	}
	token, _ := body["token"].(string)
	if token == "" {
		t.Fatal("login returned empty token")
	}

	req := httptest.NewRequest("GET", "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("me error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("me status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}
	var me UserResponse
	if err := json.NewDecoder(resp.Body).Decode(&me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Username != "admin" || me.Role != "admin" {
		t.Errorf("me = %+v, want admin/admin", me)
	}
}

func TestInitRejectsShortPassword(t *testing.T) {
	testutil.UseGlobal(t, testutil.NewDB(t))
	app := newTestApp(&config.Config{JWTSecret: testSecret})

	status, _ := postJSON(t, app, "/auth/init", map[string]string{"username": "a", "firstname": "A", "password": "123"})
	if status != fiber.StatusBadRequest {
		t.Errorf("status = %d, want %d", status, fiber.StatusBadRequest)
	}
}
