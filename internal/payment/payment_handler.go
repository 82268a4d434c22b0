package payment

import (
	"errors"
	"fmt"
	"time"

	"servis-backend/internal/audit"
	"servis-backend/internal/database"
	"servis-backend/internal/models"
	"servis-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var ErrPaymentNotFound = errors.New("ödeme bulunamadı")

type CreatePaymentRequest struct {
	Amount        *float64           `json:"amount" validate:"required,gte=0"`
	PaymentPlanID *uint              `json:"payment_plan_id"`
	Reference     string             `json:"reference"`
	Type          models.PaymentType `json:"type"`
	Date          *time.Time         `json:"date"`
}

type UpdatePaymentRequest struct {
	Amount        *float64            `json:"amount" validate:"omitempty,gte=0"`
	PaymentPlanID *uint               `json:"payment_plan_id"`
	Reference     *string             `json:"reference"`
	Type          *models.PaymentType `json:"type"`
	Date          *time.Time          `json:"date"`
}

// GET /api/payments?payment_plan_id=1&type=nakit
func ListPaymentsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Payment{})
		if id := c.QueryInt("payment_plan_id"); id > 0 {
			dbq = dbq.Where("payment_plan_id = ?", id)
		}
		if t := c.Query("type"); t != "" {
			dbq = dbq.Where("type = ?", t)
		}
		if from := c.Query("from"); from != "" {
			t, err := time.Parse("2006-01-02", from)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "from tarihi YYYY-MM-DD olmalı")
			}
			dbq = dbq.Where("date >= ?", t)
		}
		if to := c.Query("to"); to != "" {
			t, err := time.Parse("2006-01-02", to)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "to tarihi YYYY-MM-DD olmalı")
			}
			dbq = dbq.Where("date < ?", t.AddDate(0, 0, 1))
		}
		var payments []models.Payment
		if err := dbq.Order("date desc").Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödemeler listelenemedi")
		}
		return c.JSON(payments)
	}
}

// POST /api/payments
func CreatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePaymentRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		if body.Type == "" {
			body.Type = models.PaymentCash
		}
		if !body.Type.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ödeme tipi (nakit|kredi kartı|havale|çek|senet|banka kartı)")
		}

		p := models.Payment{
			Amount:        *body.Amount,
			PaymentPlanID: body.PaymentPlanID,
			Reference:     body.Reference,
			Type:          body.Type,
			Date:          time.Now(),
		}
		if body.Date != nil {
			p.Date = *body.Date
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if p.PaymentPlanID != nil {
				var count int64
				tx.Model(&models.PaymentPlan{}).Where("id = ?", *p.PaymentPlanID).Count(&count)
				if count == 0 {
					return ErrPlanNotFound
				}
			}
			if err := tx.Create(&p).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "payment", p.ID, models.AuditActionCreate,
				fmt.Sprintf("Ödeme alındı: %.2f (%s)", p.Amount, p.Type), nil, p))
		})
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(p)
	}
}

// PUT /api/payments/:id
func UpdatePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdatePaymentRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		if body.Type != nil && !body.Type.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ödeme tipi")
		}

		var p models.Payment
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.First(&p, "id = ?", c.Params("id")).Error; err != nil {
				return ErrPaymentNotFound
			}
			before := p

			updates := map[string]interface{}{}
			if body.Amount != nil {
				updates["amount"] = *body.Amount
			}
			if body.PaymentPlanID != nil {
				updates["payment_plan_id"] = *body.PaymentPlanID
			}
			if body.Reference != nil {
				updates["reference"] = *body.Reference
			}
			if body.Type != nil {
				updates["type"] = *body.Type
			}
			if body.Date != nil {
				updates["date"] = *body.Date
			}
			if len(updates) == 0 {
				return nil
			}
			if err := tx.Model(&p).Updates(updates).Error; err != nil {
				return err
			}
			if err := tx.First(&p, p.ID).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "payment", p.ID, models.AuditActionUpdate, "Ödeme güncellendi", before, p))
		})
		if err != nil {
			return httpError(err)
		}
		return c.JSON(p)
	}
}

// DELETE /api/payments/:id
func DeletePaymentHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			var p models.Payment
			if err := tx.First(&p, "id = ?", c.Params("id")).Error; err != nil {
				return ErrPaymentNotFound
			}
			if err := tx.Delete(&p).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "payment", p.ID, models.AuditActionDelete,
				fmt.Sprintf("Ödeme silindi: %.2f", p.Amount), p, nil))
		})
		if err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

type MonthlySummaryItem struct {
	Type  models.PaymentType `json:"type"`
	Total float64            `json:"total"`
	Count int                `json:"count"`
}

type MonthlySummaryResponse struct {
	Year       int                  `json:"year"`
	Month      int                  `json:"month"`
	Items      []MonthlySummaryItem `json:"items"`
	GrandTotal float64              `json:"grand_total"`
}

// SummarizeByType ödemeleri tipe göre toplar; sıra ilk görülme sırasıdır.
func SummarizeByType(payments []models.Payment) ([]MonthlySummaryItem, float64) {
	totals := map[models.PaymentType]decimal.Decimal{}
	counts := map[models.PaymentType]int{}
	order := []models.PaymentType{}
	grand := decimal.Zero

	for _, p := range payments {
		if _, ok := totals[p.Type]; !ok {
			order = append(order, p.Type)
			totals[p.Type] = decimal.Zero
		}
		amount := decimal.NewFromFloat(p.Amount)
		totals[p.Type] = totals[p.Type].Add(amount)
		counts[p.Type]++
		grand = grand.Add(amount)
	}

	items := make([]MonthlySummaryItem, 0, len(order))
	for _, t := range order {
		total, _ := totals[t].Float64()
		items = append(items, MonthlySummaryItem{Type: t, Total: total, Count: counts[t]})
	}
	g, _ := grand.Float64()
	return items, g
}

// GET /api/payments/summary/monthly?year=2025&month=12
func MonthlySummaryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		year := c.QueryInt("year")
		month := c.QueryInt("month")
		if year < 2000 {
			return fiber.NewError(fiber.StatusBadRequest, "year geçersiz")
		}
		if month < 1 || month > 12 {
			return fiber.NewError(fiber.StatusBadRequest, "month geçersiz")
		}

		loc := time.Now().Location()
		start := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, loc)
		end := start.AddDate(0, 1, 0)

		var payments []models.Payment
		if err := database.DB.Where("date >= ? AND date < ?", start, end).Order("type asc").Find(&payments).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Özet hesaplanamadı")
		}

		items, grand := SummarizeByType(payments)
		return c.JSON(MonthlySummaryResponse{Year: year, Month: month, Items: items, GrandTotal: grand})
	}
}
