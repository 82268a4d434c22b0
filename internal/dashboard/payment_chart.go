package dashboard

import (
	"sort"
	"time"

	"servis-backend/internal/database"
	"servis-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type PaymentChartPoint struct {
	Label  string                         `json:"label"` // tarih / hafta başlangıcı / ay başlangıcı
	ByType map[models.PaymentType]float64 `json:"by_type"`
	Total  float64                        `json:"total"`
}

type PaymentChartResponse struct {
	Period     string              `json:"period"` // daily | weekly | monthly
	From       string              `json:"from"`
	To         string              `json:"to"`
	Points     []PaymentChartPoint `json:"points"`
	GrandTotal float64             `json:"grand_total"`
}

// ChartRange period ve count için [start, end) aralığını döner.
func ChartRange(now time.Time, period string, count int) (time.Time, time.Time) {
	loc := now.Location()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)

	switch period {
	case "weekly":
		start := bucketStart(today, "weekly").AddDate(0, 0, -7*(count-1))
		return start, today.AddDate(0, 0, 1)
	case "monthly":
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
		return first.AddDate(0, -(count - 1), 0), first.AddDate(0, 1, 0)
	default:
		return today.AddDate(0, 0, -(count - 1)), today.AddDate(0, 0, 1)
	}
}

// bucketStart tarihin ait olduğu gün, hafta (pazartesi) veya ay başlangıcı.
func bucketStart(t time.Time, period string) time.Time {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	switch period {
	case "weekly":
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset)
	case "monthly":
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	default:
		return day
	}
}

// BucketPayments ödemeleri periyoda göre gruplar; boş periyotlar dönmez.
func BucketPayments(payments []models.Payment, period string) ([]PaymentChartPoint, float64) {
	type agg struct {
		byType map[models.PaymentType]decimal.Decimal
		total  decimal.Decimal
	}
	buckets := make(map[time.Time]*agg)
	grand := decimal.Zero

	for _, p := range payments {
		key := bucketStart(p.Date, period)
		b, ok := buckets[key]
		if !ok {
			b = &agg{byType: map[models.PaymentType]decimal.Decimal{}}
			buckets[key] = b
		}
		amount := decimal.NewFromFloat(p.Amount)
		b.byType[p.Type] = b.byType[p.Type].Add(amount)
		b.total = b.total.Add(amount)
		grand = grand.Add(amount)
	}

	keys := make([]time.Time, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	points := make([]PaymentChartPoint, 0, len(keys))
	for _, k := range keys {
		b := buckets[k]
		byType := make(map[models.PaymentType]float64, len(b.byType))
		for t, v := range b.byType {
			byType[t] = v.InexactFloat64()
		}
		points = append(points, PaymentChartPoint{
			Label:  k.Format("2006-01-02"),
			ByType: byType,
			Total:  b.total.InexactFloat64(),
		})
	}
	return points, grand.InexactFloat64()
}

// GET /api/dashboard/payment-chart?period=daily&count=7
func PaymentChartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		period := c.Query("period", "daily")
		count := c.QueryInt("count", 0)

		switch period {
		case "daily", "weekly", "monthly":
		default:
			return fiber.NewError(fiber.StatusBadRequest, "period daily, weekly veya monthly olmalı")
		}
		if count == 0 {
			switch period {
			case "weekly":
				count = 8
			case "monthly":
				count = 12
			default:
				count = 7
			}
		}
		if count < 0 || count > 366 {
			return fiber.NewError(fiber.StatusBadRequest, "count geçersiz")
		}

		start, end := ChartRange(time.Now(), period, count)

		var payments []models.Payment
		if err := database.DB.Where("date >= ? AND date < ?", start, end).Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Veri toplanırken hata oluştu")
		}

		points, grand := BucketPayments(payments, period)
		return c.JSON(PaymentChartResponse{
			Period:     period,
			From:       start.Format("2006-01-02"),
			To:         end.AddDate(0, 0, -1).Format("2006-01-02"),
			Points:     points,
			GrandTotal: grand,
		})
	}
}
