package admin

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"servis-backend/internal/auth"
	"servis-backend/internal/models"
	"servis-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
)

func newTestApp(s *auth.Session) *fiber.App {
	access := auth.Access{Strict: true}
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals(auth.CtxSessionKey, s)
		return c.Next()
	})
	app.Post("/users", CreateUserHandler(access))
	app.Put("/users/:id", UpdateUserHandler(access))
	app.Delete("/users/:id", DeleteUserHandler())
	return app
}

func send(t *testing.T, app *fiber.App, method, path string, body any) int {
	t.Helper()
	b, _ := json.Marshal(body)
	req := httptest.NewRequest(method, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test(%s %s) error = %v", method, path, err)
	}
	resp.Body.Close()
	return resp.StatusCode
}

func TestCreateUserRoleRequiresAdmin(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.UseGlobal(t, db)

	manager := &auth.Session{UserID: 99, Username: "mudur", Role: models.RoleManager}
	app := newTestApp(manager)

	status := send(t, app, "POST", "/users", map[string]any{
		"username": "usta", "firstname": "Usta", "password": "gizli123", "role": "employee",
	})
	if status != fiber.StatusForbidden {
		t.Errorf("manager assigning role = %d, want 403", status)
	}

	status = send(t, app, "POST", "/users", map[string]any{"username": "musteri", "firstname": "Ali"})
	if status != fiber.StatusCreated {
		t.Fatalf("manager creating customer = %d, want 201", status)
	}

	var u models.User
	db.First(&u, "username = ?", "musteri")
	if u.Role != models.RoleCustomer {
		t.Errorf("default role = %q, want customer", u.Role)
	}

	status = send(t, app, "PUT", fmt.Sprintf("/users/%d", u.ID), map[string]any{"role": "admin"})
	if status != fiber.StatusForbidden {
		t.Errorf("manager changing role = %d, want 403", status)
	}
}

func TestAdminManagesUsers(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.UseGlobal(t, db)

	admin := &auth.Session{UserID: 1000, Username: "admin", Role: models.RoleAdmin}
	app := newTestApp(admin)

	body := map[string]any{
		"username": "usta", "firstname": "Usta", "email": "USTA@Servis.test",
		"password": "gizli123", "role": "employee", "permissions": []string{"warranty"},
	}
	if status := send(t, app, "POST", "/users", body); status != fiber.StatusCreated {
		t.Fatalf("create = %d, want 201", status)
	}
	if status := send(t, app, "POST", "/users", body); status != fiber.StatusConflict {
		t.Errorf("duplicate = %d, want 409", status)
	}

	var u models.User
	db.First(&u, "username = ?", "usta")
	if u.Email == nil || *u.Email != "usta@servis.test" {
		t.Errorf("email = %v, want normalized", u.Email)
	}
	if !u.Permissions.Has(models.PermissionWarranty) {
		t.Errorf("permissions = %v, want warranty", u.Permissions)
	}

	if status := send(t, app, "PUT", fmt.Sprintf("/users/%d", u.ID), map[string]any{"is_blocked": true}); status != fiber.StatusOK {
		t.Fatalf("block = %d, want 200", status)
	}
	db.First(&u, u.ID)
	if !u.IsBlocked {
		t.Error("user not blocked")
	}

	if status := send(t, app, "POST", "/users", map[string]any{"username": "x", "firstname": "X", "password": "gizli123", "role": "root"}); status != fiber.StatusBadRequest {
		t.Errorf("invalid role = %d, want 400", status)
	}

	if status := send(t, app, "DELETE", fmt.Sprintf("/users/%d", u.ID), nil); status != fiber.StatusNoContent {
		t.Errorf("delete = %d, want 204", status)
	}
}

func TestDeleteUserWithReferencesConflicts(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.UseGlobal(t, db)

	customer := models.User{Username: "musteri", Firstname: "Ali", Role: models.RoleCustomer}
	db.Create(&customer)
	wo := models.WorkOrder{Number: "WO-1", CustomerID: &customer.ID}
	if err := db.Create(&wo).Error; err != nil {
		t.Fatalf("create work order: %v", err)
	}

	app := newTestApp(&auth.Session{UserID: 1000, Role: models.RoleAdmin})
	if status := send(t, app, "DELETE", fmt.Sprintf("/users/%d", customer.ID), nil); status != fiber.StatusConflict {
		t.Errorf("delete referenced user = %d, want 409", status)
	}
}
