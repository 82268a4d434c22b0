package dashboard

import (
	"testing"
	"time"

	"servis-backend/internal/models"
)

func TestChartRange(t *testing.T) {
	// 2026-03-11 çarşamba
	now := time.Date(2026, 3, 11, 15, 30, 0, 0, time.UTC)

	tests := []struct {
		period    string
		count     int
		wantStart string
		wantEnd   string
	}{
		{"daily", 7, "2026-03-05", "2026-03-12"},
		{"weekly", 2, "2026-03-02", "2026-03-12"},
		{"monthly", 3, "2026-01-01", "2026-04-01"},
	}
	for _, tt := range tests {
		t.Run(tt.period, func(t *testing.T) {
			start, end := ChartRange(now, tt.period, tt.count)
			if got := start.Format("2006-01-02"); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := end.Format("2006-01-02"); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
		})
	}
}

func TestBucketPaymentsWeekly(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 3, d, 10, 0, 0, 0, time.UTC) }
	payments := []models.Payment{
		{Amount: 100, Type: models.PaymentCash, Date: day(10)},       // salı
		{Amount: 50.5, Type: models.PaymentCreditCard, Date: day(8)}, // pazar, önceki hafta
		{Amount: 25, Type: models.PaymentCash, Date: day(15)},        // pazar
	}

	points, grand := BucketPayments(payments, "weekly")
	if len(points) != 2 {
		t.Fatalf("len(points) = %d, want 2", len(points))
	}
	if points[0].Label != "2026-03-02" || points[0].Total != 50.5 {
		t.Errorf("points[0] = %+v, want 2026-03-02 total 50.5", points[0])
	}
	if points[1].Label != "2026-03-09" || points[1].ByType[models.PaymentCash] != 125 {
		t.Errorf("points[1] = %+v, want 2026-03-09 nakit 125", points[1])
	}
	if grand != 175.5 {
		t.Errorf("grand = %v, want 175.5", grand)
	}
}
