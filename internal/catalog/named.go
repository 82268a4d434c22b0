// Package catalog ad alanıyla yönetilen basit listeleri (depo, belge türü,
// marka, uygulama türü) ve araç bilgilerini sunar.
package catalog

import (
	"fmt"
	"strings"

	"servis-backend/internal/audit"
	"servis-backend/internal/auth"
	"servis-backend/internal/database"
	"servis-backend/internal/models"
	"servis-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type namedModel[T any] interface {
	*T
	SetName(string)
	GetID() uint
}

// Ref silme öncesi kontrol edilen bağlı tablo ve kolonu.
type Ref struct {
	Table  string
	Column string
}

// Named tek bir ad listesi için CRUD handler'ları üretir.
type Named[T any, PT namedModel[T]] struct {
	Entity string // audit entity_type
	Label  string // hata mesajlarında kullanılan Türkçe ad
	Refs   []Ref
}

type NameRequest struct {
	Name string `json:"name" validate:"required"`
}

// inUse kaydı referans veren ilk tabloyu döner.
func (n Named[T, PT]) inUse(tx *gorm.DB, id uint) (string, error) {
	for _, ref := range n.Refs {
		var count int64
		if err := tx.Table(ref.Table).Where(ref.Column+" = ?", id).Count(&count).Error; err != nil {
			return "", err
		}
		if count > 0 {
			return ref.Table, nil
		}
	}
	return "", nil
}

// GET /api/<liste>?q=...
func (n Named[T, PT]) List() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(new(T))
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			dbq = dbq.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(q)+"%")
		}
		var items []T
		if err := dbq.Order("name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, n.Label+" listesi alınamadı")
		}
		return c.JSON(items)
	}
}

func (n Named[T, PT]) Get() fiber.Handler {
	return func(c *fiber.Ctx) error {
		item := PT(new(T))
		if err := database.DB.First(item, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, n.Label+" bulunamadı")
		}
		return c.JSON(item)
	}
}

func (n Named[T, PT]) Create() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body NameRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		name := strings.TrimSpace(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, n.Label+" adı boş olamaz")
		}

		item := PT(new(T))
		item.SetName(name)
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(item).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, n.Entity, item.GetID(), models.AuditActionCreate,
				fmt.Sprintf("%s eklendi: %s", n.Label, name), nil, item))
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, n.Label+" oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	}
}

func (n Named[T, PT]) Update() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body NameRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		name := strings.TrimSpace(body.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, n.Label+" adı boş olamaz")
		}

		item := PT(new(T))
		if err := database.DB.First(item, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, n.Label+" bulunamadı")
		}
		before := *item

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(item).Update("name", name).Error; err != nil {
				return err
			}
			item.SetName(name)
			return audit.WriteLog(tx, audit.Entry(c, n.Entity, item.GetID(), models.AuditActionUpdate,
				fmt.Sprintf("%s güncellendi: %s", n.Label, name), before, item))
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, n.Label+" güncellenemedi")
		}
		return c.JSON(item)
	}
}

// Delete bağlı kayıt varsa 409 döner.
func (n Named[T, PT]) Delete() fiber.Handler {
	return func(c *fiber.Ctx) error {
		item := PT(new(T))
		if err := database.DB.First(item, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, n.Label+" bulunamadı")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			table, err := n.inUse(tx, item.GetID())
			if err != nil {
				return err
			}
			if table != "" {
				return fiber.NewError(fiber.StatusConflict,
					fmt.Sprintf("%s kullanımda (%s), silinemez", n.Label, table))
			}
			if err := tx.Delete(item).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, n.Entity, item.GetID(), models.AuditActionDelete,
				n.Label+" silindi", item, nil))
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, n.Label+" silinemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Register standart CRUD rotalarını gruba ekler. guard her işlem için
// yetki middleware'ini döner.
func (n Named[T, PT]) Register(r fiber.Router, guard func(op auth.Operation) fiber.Handler) {
	r.Get("/", guard(auth.OpQuery), n.List())
	r.Get("/:id", guard(auth.OpQuery), n.Get())
	r.Post("/", guard(auth.OpCreate), n.Create())
	r.Put("/:id", guard(auth.OpUpdate), n.Update())
	r.Delete("/:id", guard(auth.OpDelete), n.Delete())
}

var (
	Storages = Named[models.Storage, *models.Storage]{
		Entity: "storage", Label: "Depo",
		Refs: []Ref{{"stock_movements", "storage_id"}},
	}
	DocumentTypes = Named[models.DocumentType, *models.DocumentType]{
		Entity: "document_type", Label: "Belge türü",
		Refs: []Ref{{"stock_movements", "document_type_id"}},
	}
	CarBrands = Named[models.CarBrand, *models.CarBrand]{
		Entity: "car_brand", Label: "Araç markası",
		Refs: []Ref{{"car_models", "car_brand_id"}},
	}
	ProductBrands = Named[models.ProductBrand, *models.ProductBrand]{
		Entity: "product_brand", Label: "Ürün markası",
		Refs: []Ref{{"products", "product_brand_id"}},
	}
	ApplicationTypes = Named[models.ApplicationType, *models.ApplicationType]{
		Entity: "application_type", Label: "Uygulama türü",
		Refs: []Ref{
			{"products", "application_type_id"},
			{"applications", "application_type_id"},
			{"application_location_types", "application_type_id"},
		},
	}
)
