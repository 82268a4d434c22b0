package payment

import (
	"errors"
	"testing"
)

func TestComputeAccrual(t *testing.T) {
	tests := []struct {
		name          string
		prices        []float64
		payments      []float64
		periods       int
		wantToPay     float64
		wantNext      float64
		wantCompleted bool
	}{
		{
			name:      "partially paid",
			prices:    []float64{100, 250},
			payments:  []float64{150},
			periods:   4,
			wantToPay: 200,
			wantNext:  50,
		},
		{
			name:          "overpaid",
			prices:        []float64{100, 250},
			payments:      []float64{150, 200},
			periods:       4,
			wantToPay:     0,
			wantNext:      0,
			wantCompleted: true,
		},
		{
			name:          "no work order",
			periods:       2,
			wantCompleted: true,
		},
		{
			name:      "float noise",
			prices:    []float64{0.1, 0.2},
			periods:   1,
			wantToPay: 0.3,
			wantNext:  0.3,
		},
		{
			name:      "thirds",
			prices:    []float64{100},
			periods:   3,
			wantToPay: 100,
			wantNext:  33.33,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeAccrual(tt.prices, tt.payments, tt.periods)
			if got.Error != "" {
				t.Fatalf("Error = %q, want empty", got.Error)
			}
			if got.ToPay == nil || *got.ToPay != tt.wantToPay {
				t.Errorf("ToPay = %v, want %v", got.ToPay, tt.wantToPay)
			}
			if got.NextPayment == nil || *got.NextPayment != tt.wantNext {
				t.Errorf("NextPayment = %v, want %v", got.NextPayment, tt.wantNext)
			}
			if got.Completed != tt.wantCompleted {
				t.Errorf("Completed = %v, want %v", got.Completed, tt.wantCompleted)
			}
		})
	}
}

func TestComputeAccrualOverpaidToPayNegative(t *testing.T) {
	got := ComputeAccrual([]float64{100, 250}, []float64{350, 50}, 4)
	if *got.ToPay != -50 {
		t.Errorf("ToPay = %v, want -50", *got.ToPay)
	}
	if !got.Completed {
		t.Error("Completed = false, want true")
	}
}

func TestComputeAccrualInvalidPeriods(t *testing.T) {
	got := ComputeAccrual([]float64{100}, nil, 0)
	if got.ToPay != nil || got.NextPayment != nil {
		t.Errorf("got %+v, want nil amounts", got)
	}
	if got.Completed {
		t.Error("Completed = true, want false")
	}
	if got.Error == "" {
		t.Error("Error empty, want message")
	}
}

func TestFailedAccrual(t *testing.T) {
	got := FailedAccrual(errors.New("bağlantı koptu"))
	if got.ToPay != nil || got.NextPayment != nil || got.Completed {
		t.Errorf("got %+v, want empty accrual", got)
	}
	if got.Error != "bağlantı koptu" {
		t.Errorf("Error = %q, want bağlantı koptu", got.Error)
	}
}
