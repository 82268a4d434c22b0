package workorder

import (
	"context"
	"errors"
	"testing"
	"time"

	"servis-backend/internal/auth"
	"servis-backend/internal/inventory"
	"servis-backend/internal/models"
	"servis-backend/internal/testutil"

	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	svc     *ApplicationService
	ledger  *inventory.Ledger
	product models.Product
	order   models.WorkOrder
	worker  models.User
	session *auth.Session
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	ledger := inventory.NewLedger(testutil.DefaultStorage, testutil.WasteStorage)

	product := models.Product{Name: "Şeffaf koruma filmi", Status: models.ProductStatusActive, PricedBy: models.PricedByLength}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("create product: %v", err)
	}
	order := models.WorkOrder{Number: "WO-1", Status: models.WorkOrderActive}
	if err := db.Create(&order).Error; err != nil {
		t.Fatalf("create work order: %v", err)
	}

	worker := models.User{Username: "usta", Firstname: "Usta", Role: models.RoleEmployee, PasswordHash: "x"}
	if err := db.Create(&worker).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	// başlangıç stoğu: ana depoya 100 giriş
	generalID, err := ledger.StorageID(db, testutil.DefaultStorage)
	if err != nil {
		t.Fatalf("StorageID: %v", err)
	}
	if err := ledger.Append(db, &models.StockMovement{ProductID: product.ID, StorageID: generalID, Amount: 100, MovementType: models.MovementIn}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	svc := NewApplicationService(db, ledger, nil, nil)
	return &fixture{db: db, svc: svc, ledger: ledger, product: product, order: order, worker: worker, session: &auth.Session{UserID: 1, Username: "admin", Role: models.RoleAdmin}}
}

func (f *fixture) stock(t *testing.T) float64 {
	t.Helper()
	got, err := f.ledger.CurrentStock(f.db, f.product.ID)
	if err != nil {
		t.Fatalf("CurrentStock() error = %v", err)
	}
	return got
}

// recompute defteri bağımsız olarak ham SQL ile toplar.
func (f *fixture) recompute(t *testing.T, storage string) float64 {
	t.Helper()
	var rows []struct {
		Amount       float64
		MovementType string
	}
	err := f.db.Raw(`SELECT sm.amount, sm.movement_type FROM stock_movements sm
		JOIN storages s ON s.id = sm.storage_id
		WHERE sm.product_id = ? AND s.name = ?`, f.product.ID, storage).Scan(&rows).Error
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	var total float64
	for _, r := range rows {
		if r.MovementType == "in" {
			total += r.Amount
		} else {
			total -= r.Amount
		}
	}
	return total
}

func (f *fixture) create(t *testing.T, amount, wastage float64) *models.Application {
	t.Helper()
	app, err := f.svc.Create(context.Background(), f.session, CreateApplicationInput{
		WorkOrderID: f.order.ID,
		ProductID:   f.product.ID,
		Name:        "Kaput kaplama",
		Amount:      &amount,
		Wastage:     wastage,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	return app
}

func (f *fixture) setWastage(t *testing.T, id uint, w float64) {
	t.Helper()
	if _, err := f.svc.Update(context.Background(), f.session, id, ApplicationPatch{Wastage: &w}); err != nil {
		t.Fatalf("Update(wastage=%v) error = %v", w, err)
	}
}

func TestLedgerMatchesRecomputation(t *testing.T) {
	f := newFixture(t)

	a := f.create(t, 10, 0)
	b := f.create(t, 4, 1)
	f.setWastage(t, a.ID, 3)
	f.setWastage(t, a.ID, 5)
	f.setWastage(t, b.ID, 0)
	f.setWastage(t, a.ID, 2)
	if err := f.svc.Delete(context.Background(), f.session, b.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	if got, want := f.stock(t), f.recompute(t, testutil.DefaultStorage); got != want {
		t.Errorf("CurrentStock = %v, recomputed %v", got, want)
	}
	// 100 - 10 (a) - 2 (a fire)
	if got := f.stock(t); got != 88 {
		t.Errorf("CurrentStock = %v, want 88", got)
	}
	if got := f.recompute(t, testutil.WasteStorage); got != 2 {
		t.Errorf("waste stock = %v, want 2", got)
	}
}

func TestCreateThenDeleteRestoresStock(t *testing.T) {
	f := newFixture(t)
	before := f.stock(t)

	app := f.create(t, 12.5, 0)
	if got := f.stock(t); got != before-12.5 {
		t.Errorf("after create = %v, want %v", got, before-12.5)
	}
	f.setWastage(t, app.ID, 2)

	if err := f.svc.Delete(context.Background(), f.session, app.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var count int64
	f.db.Model(&models.StockMovement{}).Where("application_id = ?", app.ID).Count(&count)
	if count != 0 {
		t.Errorf("movements left for application = %d, want 0", count)
	}
	if got := f.stock(t); got != before {
		t.Errorf("after delete = %v, want %v", got, before)
	}
}

func TestWastageRoundTripNetsZero(t *testing.T) {
	f := newFixture(t)
	app := f.create(t, 0, 0)

	f.setWastage(t, app.ID, 7)
	f.setWastage(t, app.ID, 0)

	var movements []models.StockMovement
	f.db.Where("application_id = ?", app.ID).Find(&movements)
	if len(movements) != 4 {
		t.Fatalf("movements = %d, want 4", len(movements))
	}
	if got := inventory.SignedSum(movements); got != 0 {
		t.Errorf("net movement = %v, want 0", got)
	}
	if got := f.stock(t); got != 100 {
		t.Errorf("CurrentStock = %v, want 100", got)
	}
}

func TestUpdateNoopWritesNothing(t *testing.T) {
	f := newFixture(t)
	app := f.create(t, 3, 2)

	var before int64
	f.db.Model(&models.StockMovement{}).Count(&before)
	f.setWastage(t, app.ID, 2)

	var after int64
	f.db.Model(&models.StockMovement{}).Count(&after)
	if after != before {
		t.Errorf("movement count = %d, want %d", after, before)
	}
}

func TestMissingWasteStorageRollsBack(t *testing.T) {
	f := newFixture(t)
	app := f.create(t, 5, 0)

	f.svc.Ledger = inventory.NewLedger(testutil.DefaultStorage, "Tanımsız")

	w := 3.0
	_, err := f.svc.Update(context.Background(), f.session, app.ID, ApplicationPatch{Wastage: &w})
	if !errors.Is(err, inventory.ErrStorageNotFound) {
		t.Fatalf("Update() error = %v, want ErrStorageNotFound", err)
	}

	var got models.Application
	f.db.First(&got, app.ID)
	if got.Wastage != 0 {
		t.Errorf("wastage after failed update = %v, want 0", got.Wastage)
	}
	var count int64
	f.db.Model(&models.StockMovement{}).Where("application_id = ?", app.ID).Count(&count)
	if count != 1 {
		t.Errorf("movements = %d, want 1", count)
	}
}

func TestMissingDefaultStorageRejectsCreate(t *testing.T) {
	f := newFixture(t)
	f.svc.Ledger = inventory.NewLedger("Tanımsız", testutil.WasteStorage)

	amount := 1.0
	_, err := f.svc.Create(context.Background(), f.session, CreateApplicationInput{
		WorkOrderID: f.order.ID, ProductID: f.product.ID, Name: "x", Amount: &amount,
	})
	if !errors.Is(err, inventory.ErrStorageNotFound) {
		t.Fatalf("Create() error = %v, want ErrStorageNotFound", err)
	}
	var count int64
	f.db.Model(&models.Application{}).Count(&count)
	if count != 0 {
		t.Errorf("applications = %d, want 0", count)
	}
	if got, _ := f.svc.Ledger.CurrentStock(f.db, f.product.ID); got != 0 {
		t.Errorf("CurrentStock without default storage = %v, want 0", got)
	}
}

func TestLifecycleGuardsOnUpdate(t *testing.T) {
	f := newFixture(t)
	app := f.create(t, 1, 0)
	ctx := context.Background()
	now := time.Now()

	if _, err := f.svc.Update(ctx, f.session, app.ID, ApplicationPatch{FinishedAt: &now, ApplicantID: &f.session.UserID}); !errors.Is(err, ErrRejected) {
		t.Errorf("finish unstarted error = %v, want ErrRejected", err)
	}

	applicant := f.worker.ID
	if _, err := f.svc.Update(ctx, f.session, app.ID, ApplicationPatch{StartedAt: &now, ApplicantID: &applicant}); err != nil {
		t.Fatalf("start error = %v", err)
	}

	other := f.worker.ID + 1
	if _, err := f.svc.Update(ctx, f.session, app.ID, ApplicationPatch{ApplicantID: &other}); !errors.Is(err, ErrRejected) {
		t.Errorf("change applicant error = %v, want ErrRejected", err)
	}

	later := now.Add(time.Hour)
	updated, err := f.svc.Update(ctx, f.session, app.ID, ApplicationPatch{FinishedAt: &later, ApplicantID: &applicant})
	if err != nil {
		t.Fatalf("finish error = %v", err)
	}
	if updated.FinishedAt == nil {
		t.Error("FinishedAt = nil after finish")
	}
}

func TestLifecycleGuardsOnCreate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	amount := 2.0
	start := time.Now()
	finish := start.Add(time.Hour)
	applicant := f.worker.ID

	tests := []struct {
		name      string
		in        CreateApplicationInput
		wantError bool
	}{
		{name: "finish without start", in: CreateApplicationInput{FinishedAt: &finish, ApplicantID: &applicant}, wantError: true},
		{name: "start without applicant", in: CreateApplicationInput{StartedAt: &start}, wantError: true},
		{name: "finish before start", in: CreateApplicationInput{StartedAt: &finish, FinishedAt: &start, ApplicantID: &applicant}, wantError: true},
		{name: "start with applicant", in: CreateApplicationInput{StartedAt: &start, ApplicantID: &applicant}},
		{name: "start and finish with applicant", in: CreateApplicationInput{StartedAt: &start, FinishedAt: &finish, ApplicantID: &applicant}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var before int64
			f.db.Model(&models.StockMovement{}).Count(&before)

			in := tt.in
			in.WorkOrderID = f.order.ID
			in.ProductID = f.product.ID
			in.Name = "Tavan kaplama"
			in.Amount = &amount
			app, err := f.svc.Create(ctx, f.session, in)

			if !tt.wantError {
				if err != nil {
					t.Fatalf("Create() error = %v", err)
				}
				if app.StartedAt == nil {
					t.Error("StartedAt = nil, want set")
				}
				return
			}
			if !errors.Is(err, ErrRejected) {
				t.Fatalf("Create() error = %v, want ErrRejected", err)
			}
			if app != nil {
				t.Errorf("Create() app = %+v, want nil", app)
			}
			var after int64
			f.db.Model(&models.StockMovement{}).Count(&after)
			if after != before {
				t.Errorf("movements = %d, want %d (nothing written)", after, before)
			}
		})
	}
}

func TestLifecycleUsesStoredApplicant(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	amount := 1.0
	applicant := f.worker.ID

	app, err := f.svc.Create(ctx, f.session, CreateApplicationInput{
		WorkOrderID: f.order.ID,
		ProductID:   f.product.ID,
		Name:        "Kapı kaplama",
		Amount:      &amount,
		ApplicantID: &applicant,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	start := time.Now()
	if _, err := f.svc.Update(ctx, f.session, app.ID, ApplicationPatch{StartedAt: &start}); err != nil {
		t.Fatalf("start without applicant in patch error = %v", err)
	}
	finish := start.Add(time.Hour)
	updated, err := f.svc.Update(ctx, f.session, app.ID, ApplicationPatch{FinishedAt: &finish})
	if err != nil {
		t.Fatalf("finish without applicant in patch error = %v", err)
	}
	if updated.FinishedAt == nil || updated.ApplicantID == nil || *updated.ApplicantID != applicant {
		t.Errorf("updated = finished %v applicant %v, want finished with applicant %d", updated.FinishedAt, updated.ApplicantID, applicant)
	}
}

func TestWorkOrderDeleteCascades(t *testing.T) {
	f := newFixture(t)
	f.create(t, 10, 2)
	f.create(t, 5, 0)

	if err := f.db.Create(&models.Note{Note: "müşteri aradı", WorkOrderID: &f.order.ID}).Error; err != nil {
		t.Fatalf("create note: %v", err)
	}

	wos := NewWorkOrderService(f.db, f.svc, auth.Access{Strict: true})
	if err := wos.Delete(context.Background(), f.session, f.order.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var apps, notes, movements int64
	f.db.Model(&models.Application{}).Count(&apps)
	f.db.Model(&models.Note{}).Count(&notes)
	f.db.Model(&models.StockMovement{}).Where("application_id IS NOT NULL").Count(&movements)
	if apps != 0 || notes != 0 || movements != 0 {
		t.Errorf("left apps=%d notes=%d movements=%d, want all 0", apps, notes, movements)
	}
	if got := f.stock(t); got != 100 {
		t.Errorf("CurrentStock = %v, want 100", got)
	}
}

func TestWorkOrderStatusNeedsManager(t *testing.T) {
	f := newFixture(t)
	wos := NewWorkOrderService(f.db, f.svc, auth.Access{Strict: true})
	completed := models.WorkOrderCompleted

	employee := &auth.Session{UserID: 2, Role: models.RoleEmployee}
	if _, err := wos.Update(context.Background(), employee, f.order.ID, WorkOrderPatch{Status: &completed}); !errors.Is(err, ErrStatusForbidden) {
		t.Errorf("employee status update error = %v, want ErrStatusForbidden", err)
	}

	manager := &auth.Session{UserID: 3, Role: models.RoleManager}
	wo, err := wos.Update(context.Background(), manager, f.order.ID, WorkOrderPatch{Status: &completed})
	if err != nil {
		t.Fatalf("manager status update error = %v", err)
	}
	if wo.Status != models.WorkOrderCompleted {
		t.Errorf("Status = %q, want completed", wo.Status)
	}
}
