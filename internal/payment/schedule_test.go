package payment

import (
	"context"
	"testing"
	"time"

	"servis-backend/internal/models"
	"servis-backend/internal/testutil"
)

func TestPeriodDates(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		periods  int
		duration int
		want     []time.Time
	}{
		{name: "single period", periods: 1, duration: 30},
		{
			name:     "three periods",
			periods:  3,
			duration: 30,
			want:     []time.Time{now.AddDate(0, 0, 30), now.AddDate(0, 0, 60)},
		},
		{
			name:     "weekly",
			periods:  2,
			duration: 7,
			want:     []time.Time{now.AddDate(0, 0, 7)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PeriodDates(now, tt.periods, tt.duration)
			if len(got) != len(tt.want) {
				t.Fatalf("len = %d, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if !got[i].Equal(tt.want[i]) {
					t.Errorf("dates[%d] = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPlanNotificationsFollowPeriods(t *testing.T) {
	db := testutil.NewDB(t)
	now := time.Date(2024, 4, 1, 10, 0, 0, 0, time.UTC)
	svc := NewPlanService(db, nil)
	svc.Now = func() time.Time { return now }
	ctx := context.Background()

	plan, err := svc.Create(ctx, nil, CreatePlanInput{Name: "Taksitli", Periods: 3, PeriodDuration: 30})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	var notifications []models.Notification
	db.Where("payment_plan_id = ?", plan.ID).Order("date asc").Find(&notifications)
	if len(notifications) != 2 {
		t.Fatalf("notifications = %d, want 2", len(notifications))
	}
	for i, n := range notifications {
		want := now.AddDate(0, 0, 30*(i+1))
		if !n.Date.Equal(want) {
			t.Errorf("notification[%d].Date = %v, want %v", i, n.Date, want)
		}
		if n.Message != DueMessage {
			t.Errorf("Message = %q, want %q", n.Message, DueMessage)
		}
		if n.Handled {
			t.Error("Handled = true, want false")
		}
		if len(n.NotifyRoles) != 1 || n.NotifyRoles[0] != models.RoleAdmin {
			t.Errorf("NotifyRoles = %v, want [admin]", n.NotifyRoles)
		}
	}

	one := 1
	if _, err := svc.Update(ctx, nil, plan.ID, PlanPatch{Periods: &one}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	var count int64
	db.Model(&models.Notification{}).Where("payment_plan_id = ?", plan.ID).Count(&count)
	if count != 0 {
		t.Errorf("notifications after periods=1 = %d, want 0", count)
	}

	four := 4
	if _, err := svc.Update(ctx, nil, plan.ID, PlanPatch{Periods: &four}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	db.Model(&models.Notification{}).Where("payment_plan_id = ?", plan.ID).Count(&count)
	if count != 3 {
		t.Errorf("notifications after periods=4 = %d, want 3", count)
	}
}

func TestPlanAccrualFromWorkOrder(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewPlanService(db, nil)
	ctx := context.Background()

	product := models.Product{Name: "Kaplama", Status: models.ProductStatusActive, PricedBy: models.PricedByAmount}
	db.Create(&product)
	wo := models.WorkOrder{Number: "WO-9", Status: models.WorkOrderActive}
	db.Create(&wo)
	for _, price := range []float64{100, 250} {
		app := models.Application{WorkOrderID: wo.ID, ProductID: product.ID, Name: "iş", Price: price}
		if err := db.Create(&app).Error; err != nil {
			t.Fatalf("create application: %v", err)
		}
	}

	plan, err := svc.Create(ctx, nil, CreatePlanInput{Name: "Plan", WorkOrderID: &wo.ID, Periods: 4, PeriodDuration: 30})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	db.Create(&models.Payment{Amount: 150, PaymentPlanID: &plan.ID, Type: models.PaymentCash, Date: time.Now()})

	view, err := svc.Get(ctx, plan.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if *view.ToPay != 200 || *view.NextPayment != 50 || view.Completed {
		t.Errorf("accrual = {%v %v %v}, want {200 50 false}", *view.ToPay, *view.NextPayment, view.Completed)
	}

	db.Create(&models.Payment{Amount: 200, PaymentPlanID: &plan.ID, Type: models.PaymentTransfer, Date: time.Now()})
	view, _ = svc.Get(ctx, plan.ID)
	if !view.Completed {
		t.Error("Completed = false after paying 350, want true")
	}

	if _, err := svc.Create(ctx, nil, CreatePlanInput{Name: "İkinci", WorkOrderID: &wo.ID, Periods: 1, PeriodDuration: 1}); err != ErrWorkOrderHasPlan {
		t.Errorf("second plan error = %v, want ErrWorkOrderHasPlan", err)
	}
}

func TestPlanDeleteDetachesPayments(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewPlanService(db, nil)
	ctx := context.Background()

	plan, err := svc.Create(ctx, nil, CreatePlanInput{Name: "Plan", Periods: 3, PeriodDuration: 10})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	p := models.Payment{Amount: 10, PaymentPlanID: &plan.ID, Type: models.PaymentCash, Date: time.Now()}
	db.Create(&p)

	if err := svc.Delete(ctx, nil, plan.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var n int64
	db.Model(&models.Notification{}).Count(&n)
	if n != 0 {
		t.Errorf("notifications = %d, want 0", n)
	}
	var got models.Payment
	db.First(&got, p.ID)
	if got.PaymentPlanID != nil {
		t.Errorf("PaymentPlanID = %v, want nil", *got.PaymentPlanID)
	}
}
