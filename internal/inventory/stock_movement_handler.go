package inventory

import (
	"fmt"
	"time"

	"servis-backend/internal/audit"
	"servis-backend/internal/database"
	"servis-backend/internal/models"
	"servis-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateStockMovementRequest struct {
	ProductID      uint                `json:"product_id" validate:"required"`
	StorageID      uint                `json:"storage_id" validate:"required"`
	Amount         *float64            `json:"amount" validate:"required,gte=0"`
	MovementType   models.MovementType `json:"movement_type" validate:"omitempty,oneof=in out"`
	DocumentTypeID *uint               `json:"document_type_id"`
	Note           string              `json:"note"`
	CustomerID     *uint               `json:"customer_id"`
	Date           *time.Time          `json:"date"`
}

// movementQuery liste ve dışa aktarım için ortak filtreler.
func movementQuery(c *fiber.Ctx) (*gorm.DB, error) {
	dbq := database.DB.Model(&models.StockMovement{})
	for _, key := range []string{"product_id", "storage_id", "application_id", "document_type_id", "customer_id"} {
		if id := c.QueryInt(key); id > 0 {
			dbq = dbq.Where(key+" = ?", id)
		}
	}
	if t := c.Query("movement_type"); t != "" {
		dbq = dbq.Where("movement_type = ?", t)
	}
	if from := c.Query("from"); from != "" {
		d, err := time.Parse("2006-01-02", from)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Geçersiz başlangıç tarihi (YYYY-MM-DD)")
		}
		dbq = dbq.Where("date >= ?", d)
	}
	if to := c.Query("to"); to != "" {
		d, err := time.Parse("2006-01-02", to)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "Geçersiz bitiş tarihi (YYYY-MM-DD)")
		}
		dbq = dbq.Where("date < ?", d.AddDate(0, 0, 1))
	}
	return dbq, nil
}

// GET /api/stock-movements?product_id=1&storage_id=2&from=2024-01-01&to=2024-01-31
func ListStockMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq, err := movementQuery(c)
		if err != nil {
			return err
		}

		var movements []models.StockMovement
		if err := dbq.Preload("Product").Preload("Storage").Preload("DocumentType").
			Order("date desc").Order("id desc").Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Depo hareketleri listelenemedi")
		}
		return c.JSON(movements)
	}
}

// POST /api/stock-movements
// Manuel giriş/çıkış (ör: fatura ile mal kabulü). Uygulamaya bağlanamaz.
func CreateStockMovementHandler(ledger *Ledger, stock *StockReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateStockMovementRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}

		m := models.StockMovement{
			ProductID:      body.ProductID,
			StorageID:      body.StorageID,
			Amount:         *body.Amount,
			MovementType:   body.MovementType,
			DocumentTypeID: body.DocumentTypeID,
			Note:           body.Note,
			CustomerID:     body.CustomerID,
		}
		if m.MovementType == "" {
			m.MovementType = models.MovementIn
		}
		if body.Date != nil {
			m.Date = *body.Date
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Product{}).Where("id = ?", m.ProductID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Ürün bulunamadı")
			}
			if err := tx.Model(&models.Storage{}).Where("id = ?", m.StorageID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Depo bulunamadı")
			}

			if err := ledger.Append(tx, &m); err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "stock_movement", m.ID, models.AuditActionCreate,
				fmt.Sprintf("Depo hareketi: %s %.2f", m.MovementType, m.Amount), nil, m))
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Depo hareketi kaydedilemedi")
		}

		stock.Invalidate(c.UserContext(), m.ProductID)
		return c.Status(fiber.StatusCreated).JSON(m)
	}
}

// DELETE /api/stock-movements/:id (admin)
// Defter düzeltmesi içindir; uygulamaya bağlı hareketler uygulama silinerek kaldırılır.
func DeleteStockMovementHandler(stock *StockReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var m models.StockMovement
		if err := database.DB.First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Depo hareketi bulunamadı")
		}
		if m.ApplicationID != nil {
			return fiber.NewError(fiber.StatusConflict, "Uygulamaya bağlı depo hareketi tek başına silinemez")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&m).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "stock_movement", m.ID, models.AuditActionDelete,
				fmt.Sprintf("Depo hareketi silindi: %s %.2f", m.MovementType, m.Amount), m, nil))
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Depo hareketi silinemedi")
		}

		stock.Invalidate(c.UserContext(), m.ProductID)
		return c.SendStatus(fiber.StatusNoContent)
	}
}
