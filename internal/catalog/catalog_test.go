package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"servis-backend/internal/auth"
	"servis-backend/internal/models"
	"servis-backend/internal/testutil"

	"github.com/gofiber/fiber/v2"
)

func pass(auth.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error { return c.Next() }
}

func newTestApp() *fiber.App {
	app := fiber.New()
	Storages.Register(app.Group("/storages"), pass)
	ProductBrands.Register(app.Group("/product-brands"), pass)
	app.Post("/cars", CreateCarHandler())
	return app
}

func do(t *testing.T, app *fiber.App, method, path string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test(%s %s) error = %v", method, path, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func TestNamedCRUD(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.UseGlobal(t, db)
	app := newTestApp()

	status, body := do(t, app, "POST", "/product-brands", map[string]string{"name": "  3M  "})
	if status != fiber.StatusCreated {
		t.Fatalf("create status = %d, want 201 (%s)", status, body)
	}
	var brand models.ProductBrand
	if err := json.Unmarshal(body, &brand); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if brand.Name != "3M" || brand.ID == 0 {
		t.Fatalf("brand = %+v, want trimmed name and id", brand)
	}

	if status, _ := do(t, app, "POST", "/product-brands", map[string]string{"name": ""}); status != fiber.StatusBadRequest {
		t.Errorf("empty name status = %d, want 400", status)
	}

	status, body = do(t, app, "PUT", fmt.Sprintf("/product-brands/%d", brand.ID), map[string]string{"name": "Llumar"})
	if status != fiber.StatusOK {
		t.Fatalf("update status = %d (%s)", status, body)
	}

	status, body = do(t, app, "GET", "/product-brands?q=llu", nil)
	var list []models.ProductBrand
	_ = json.Unmarshal(body, &list)
	if status != fiber.StatusOK || len(list) != 1 || list[0].Name != "Llumar" {
		t.Fatalf("list = %d %+v, want one Llumar", status, list)
	}

	if status, _ := do(t, app, "DELETE", fmt.Sprintf("/product-brands/%d", brand.ID), nil); status != fiber.StatusNoContent {
		t.Errorf("delete status = %d, want 204", status)
	}
	if status, _ := do(t, app, "GET", fmt.Sprintf("/product-brands/%d", brand.ID), nil); status != fiber.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", status)
	}

	var logs int64
	db.Model(&models.AuditLog{}).Where("entity_type = ?", "product_brand").Count(&logs)
	if logs != 3 {
		t.Errorf("audit logs = %d, want 3", logs)
	}
}

func TestStorageInUseCannotBeDeleted(t *testing.T) {
	db := testutil.NewDB(t)
	testutil.UseGlobal(t, db)
	app := newTestApp()

	var storage models.Storage
	db.First(&storage, "name = ?", testutil.DefaultStorage)

	product := models.Product{Name: "PPF", Status: models.ProductStatusActive, PricedBy: models.PricedByLength}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	m := models.StockMovement{ProductID: product.ID, StorageID: storage.ID, Amount: 5, MovementType: models.MovementIn, Date: time.Now()}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("create movement: %v", err)
	}

	path := fmt.Sprintf("/storages/%d", storage.ID)
	if status, _ := do(t, app, "DELETE", path, nil); status != fiber.StatusConflict {
		t.Errorf("delete in-use storage = %d, want 409", status)
	}
}

func TestCreateCarNormalizesPlate(t *testing.T) {
	testutil.UseGlobal(t, testutil.NewDB(t))
	app := newTestApp()

	status, body := do(t, app, "POST", "/cars", map[string]string{"license_plate": " 34  abc 123 ", "vin": "wvw1"})
	if status != fiber.StatusCreated {
		t.Fatalf("status = %d (%s)", status, body)
	}
	var car models.Car
	_ = json.Unmarshal(body, &car)
	if car.LicensePlate != "34 ABC 123" || car.VIN != "WVW1" {
		t.Errorf("car = %+v", car)
	}

	missing := uint(99)
	status, _ = do(t, app, "POST", "/cars", map[string]any{"license_plate": "06 A 1", "car_model_id": missing})
	if status != fiber.StatusBadRequest {
		t.Errorf("unknown model status = %d, want 400", status)
	}
}
