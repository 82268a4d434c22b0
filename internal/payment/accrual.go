package payment

import (
	"github.com/shopspring/decimal"
)

// Accrual ödeme planının okuma anında hesaplanan tutarları.
// Hesaplanamadığında tutarlar null, Error dolu ve Completed false olur.
type Accrual struct {
	ToPay       *float64 `json:"to_pay"`
	NextPayment *float64 `json:"next_payment"`
	Completed   bool     `json:"completed"`
	Error       string   `json:"accrual_error,omitempty"`
}

func sum(values []float64) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total
}

// ComputeAccrual uygulama fiyatları ve ödemelerden kalan borcu, taksit tutarını
// ve planın tamamlanıp tamamlanmadığını hesaplar.
func ComputeAccrual(prices, payments []float64, periods int) Accrual {
	if periods < 1 {
		return Accrual{Error: "taksit sayısı en az 1 olmalı"}
	}

	total := sum(prices)
	paid := sum(payments)
	remaining := total.Sub(paid)

	toPay, _ := remaining.Round(2).Float64()
	next, _ := remaining.Div(decimal.NewFromInt(int64(periods))).Round(2).Float64()

	return Accrual{
		ToPay:       &toPay,
		NextPayment: &next,
		Completed:   total.LessThanOrEqual(paid),
	}
}

// FailedAccrual arama hatası durumunda dönen değer.
func FailedAccrual(err error) Accrual {
	return Accrual{Error: err.Error()}
}
