package inventory

import (
	"strings"

	"servis-backend/internal/audit"
	"servis-backend/internal/database"
	"servis-backend/internal/models"
	"servis-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type ProductResponse struct {
	models.Product
	CurrentStock float64 `json:"current_stock"`
}

type CreateProductRequest struct {
	Name              string               `json:"name" validate:"required"`
	Description       string               `json:"description"`
	Price             float64              `json:"price" validate:"gte=0"`
	Status            models.ProductStatus `json:"status" validate:"omitempty,oneof=aktif pasif iptal"`
	Code              string               `json:"code"`
	EAN               string               `json:"ean"`
	PricedBy          models.PricedBy      `json:"priced_by" validate:"omitempty,oneof=amount length"`
	WarrantyTime      *float64             `json:"warranty_time" validate:"omitempty,gte=0"`
	Color             string               `json:"color"`
	Width             *float64             `json:"width" validate:"omitempty,gte=0"`
	Length            *float64             `json:"length" validate:"omitempty,gte=0"`
	ProductBrandID    *uint                `json:"product_brand_id"`
	ApplicationTypeID *uint                `json:"application_type_id"`
}

type UpdateProductRequest struct {
	Name              *string               `json:"name" validate:"omitempty,min=1"`
	Description       *string               `json:"description"`
	Price             *float64              `json:"price" validate:"omitempty,gte=0"`
	Status            *models.ProductStatus `json:"status" validate:"omitempty,oneof=aktif pasif iptal"`
	Code              *string               `json:"code"`
	EAN               *string               `json:"ean"`
	PricedBy          *models.PricedBy      `json:"priced_by" validate:"omitempty,oneof=amount length"`
	WarrantyTime      *float64              `json:"warranty_time" validate:"omitempty,gte=0"`
	Color             *string               `json:"color"`
	Width             *float64              `json:"width" validate:"omitempty,gte=0"`
	Length            *float64              `json:"length" validate:"omitempty,gte=0"`
	ProductBrandID    *uint                 `json:"product_brand_id"`
	ApplicationTypeID *uint                 `json:"application_type_id"`
}

// GET /api/products?status=aktif&q=film
func ListProductsHandler(stock *StockReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Product{})
		if status := c.Query("status"); status != "" {
			dbq = dbq.Where("status = ?", status)
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			dbq = dbq.Where("LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR ean = ?", like, like, q)
		}
		if id := c.QueryInt("product_brand_id"); id > 0 {
			dbq = dbq.Where("product_brand_id = ?", id)
		}

		var products []models.Product
		if err := dbq.Preload("ProductBrand").Order("name asc").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürünler listelenemedi")
		}

		ids := make([]uint, 0, len(products))
		for _, p := range products {
			ids = append(ids, p.ID)
		}
		stocks, err := stock.CurrentStocks(c.UserContext(), database.DB, ids)
		if err != nil {
			zap.L().Error("stoklar hesaplanamadı", zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Stoklar hesaplanamadı")
		}

		res := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			res = append(res, ProductResponse{Product: p, CurrentStock: stocks[p.ID]})
		}
		return c.JSON(res)
	}
}

// GET /api/products/:id
func GetProductHandler(stock *StockReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Product
		if err := database.DB.Preload("ProductBrand").Preload("ApplicationType").First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}
		current, err := stock.CurrentStock(c.UserContext(), database.DB, p.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok hesaplanamadı")
		}
		return c.JSON(ProductResponse{Product: p, CurrentStock: current})
	}
}

// GET /api/products/:id/stock
// Ürünün depo bazında stok dağılımı
func ProductStockHandler(ledger *Ledger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz ürün ID")
		}
		stocks, err := ledger.StockByStorage(database.DB, uint(id))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok hesaplanamadı")
		}
		return c.JSON(stocks)
	}
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}

		p := models.Product{
			Name:              strings.TrimSpace(body.Name),
			Description:       body.Description,
			Price:             body.Price,
			Status:            body.Status,
			Code:              strings.TrimSpace(body.Code),
			EAN:               strings.TrimSpace(body.EAN),
			PricedBy:          body.PricedBy,
			WarrantyTime:      body.WarrantyTime,
			Color:             body.Color,
			Width:             body.Width,
			Length:            body.Length,
			ProductBrandID:    body.ProductBrandID,
			ApplicationTypeID: body.ApplicationTypeID,
		}
		if p.Status == "" {
			p.Status = models.ProductStatusActive
		}
		if p.PricedBy == "" {
			p.PricedBy = models.PricedByAmount
		}

		if p.Code != "" {
			var count int64
			database.DB.Model(&models.Product{}).Where("code = ?", p.Code).Count(&count)
			if count > 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Bu ürün kodu zaten kullanılıyor")
			}
		}

		if err := database.DB.Create(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün oluşturulamadı")
		}
		_ = audit.WriteLog(database.DB, audit.Entry(c, "product", p.ID, models.AuditActionCreate, "Ürün eklendi: "+p.Name, nil, p))

		return c.Status(fiber.StatusCreated).JSON(ProductResponse{Product: p})
	}
}

// PUT /api/products/:id
func UpdateProductHandler(stock *StockReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Product
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var body UpdateProductRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		before := p

		updates := map[string]interface{}{}
		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "name boş olamaz")
			}
			updates["name"] = name
		}
		if body.Description != nil {
			updates["description"] = *body.Description
		}
		if body.Price != nil {
			updates["price"] = *body.Price
		}
		if body.Status != nil {
			updates["status"] = *body.Status
		}
		if body.Code != nil {
			updates["code"] = strings.TrimSpace(*body.Code)
		}
		if body.EAN != nil {
			updates["ean"] = strings.TrimSpace(*body.EAN)
		}
		if body.PricedBy != nil {
			updates["priced_by"] = *body.PricedBy
		}
		if body.WarrantyTime != nil {
			updates["warranty_time"] = *body.WarrantyTime
		}
		if body.Color != nil {
			updates["color"] = *body.Color
		}
		if body.Width != nil {
			updates["width"] = *body.Width
		}
		if body.Length != nil {
			updates["length"] = *body.Length
		}
		if body.ProductBrandID != nil {
			updates["product_brand_id"] = *body.ProductBrandID
		}
		if body.ApplicationTypeID != nil {
			updates["application_type_id"] = *body.ApplicationTypeID
		}

		if len(updates) > 0 {
			if err := database.DB.Model(&p).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Ürün güncellenemedi")
			}
		}
		database.DB.First(&p, p.ID)
		_ = audit.WriteLog(database.DB, audit.Entry(c, "product", p.ID, models.AuditActionUpdate, "Ürün güncellendi: "+p.Name, before, p))

		current, err := stock.CurrentStock(c.UserContext(), database.DB, p.ID)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Stok hesaplanamadı")
		}
		return c.JSON(ProductResponse{Product: p, CurrentStock: current})
	}
}

// DELETE /api/products/:id
// Depo hareketi veya uygulaması olan ürün silinemez.
func DeleteProductHandler(stock *StockReader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var p models.Product
		if err := database.DB.First(&p, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Ürün bulunamadı")
		}

		var used int64
		database.DB.Model(&models.StockMovement{}).Where("product_id = ?", p.ID).Count(&used)
		if used == 0 {
			database.DB.Model(&models.Application{}).Where("product_id = ?", p.ID).Count(&used)
		}
		if used > 0 {
			return fiber.NewError(fiber.StatusConflict, "Ürünün depo hareketi veya uygulaması var, silinemez. Durumunu 'iptal' yapabilirsiniz")
		}

		if err := database.DB.Delete(&p).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ürün silinemedi")
		}
		stock.Invalidate(c.UserContext(), p.ID)
		_ = audit.WriteLog(database.DB, audit.Entry(c, "product", p.ID, models.AuditActionDelete, "Ürün silindi: "+p.Name, p, nil))

		return c.SendStatus(fiber.StatusNoContent)
	}
}
