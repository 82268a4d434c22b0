package inventory

import (
	"fmt"
	"time"

	"servis-backend/internal/database"
	"servis-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func movementTypeLabel(t models.MovementType) string {
	if t == models.MovementIn {
		return "Giriş"
	}
	return "Çıkış"
}

// WriteMovementsSheet hareketleri tek sayfalık bir çalışma kitabına yazar.
func WriteMovementsSheet(movements []models.StockMovement) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Hareketler"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []any{"ID", "Tarih", "Ürün", "Depo", "Tip", "Miktar", "Belge Türü", "Uygulama", "Not"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, err
	}

	for i, m := range movements {
		var product, storage, docType, appID string
		if m.Product != nil {
			product = m.Product.Name
		}
		if m.Storage != nil {
			storage = m.Storage.Name
		}
		if m.DocumentType != nil {
			docType = m.DocumentType.Name
		}
		if m.ApplicationID != nil {
			appID = fmt.Sprint(*m.ApplicationID)
		}
		row := []any{m.ID, m.Date.Format("2006-01-02 15:04"), product, storage, movementTypeLabel(m.MovementType), m.Amount, docType, appID, m.Note}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

// WriteStockSheet ürünlerin ana depo stoklarını yazar.
func WriteStockSheet(products []models.Product, stocks map[uint]float64) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := "Stok"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []any{"ID", "Ürün", "Kod", "EAN", "Durum", "Birim", "Stok"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return nil, err
	}
	for i, p := range products {
		row := []any{p.ID, p.Name, p.Code, p.EAN, string(p.Status), string(p.PricedBy), stocks[p.ID]}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func sendWorkbook(c *fiber.Ctx, f *excelize.File, prefix string) error {
	defer f.Close()
	buf, err := f.WriteToBuffer()
	if err != nil {
		zap.L().Error("excel dosyası yazılamadı", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
	}
	name := fmt.Sprintf("%s-%s.xlsx", prefix, time.Now().Format("20060102-1504"))
	c.Set(fiber.HeaderContentType, xlsxContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, name))
	return c.Send(buf.Bytes())
}

// GET /api/stock-movements/export?product_id=1&storage_id=2
func ExportStockMovementsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq, err := movementQuery(c)
		if err != nil {
			return err
		}
		var movements []models.StockMovement
		if err := dbq.Preload("Product").Preload("Storage").Preload("DocumentType").
			Order("date asc").Order("id asc").Find(&movements).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Depo hareketleri okunamadı")
		}

		f, err := WriteMovementsSheet(movements)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}
		return sendWorkbook(c, f, "depo-hareketleri")
	}
}

// GET /api/products/stock/export
func ExportStockHandler(stock *StockReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler okunamadı")
		}
		ids := make([]uint, 0, len(products))
		for _, p := range products {
			ids = append(ids, p.ID)
		}
		stocks, err := stock.CurrentStocks(c.UserContext(), database.DB, ids)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stoklar hesaplanamadı")
		}

		f, err := WriteStockSheet(products, stocks)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Excel dosyası oluşturulamadı")
		}
		return sendWorkbook(c, f, "stok")
	}
}
