package catalog

import (
	"strings"

	"servis-backend/internal/audit"
	"servis-backend/internal/database"
	"servis-backend/internal/models"
	"servis-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type LocationRequest struct {
	Name               string `json:"name" validate:"required"`
	ApplicationTypeIDs []uint `json:"application_type_ids"`
}

func loadTypes(tx *gorm.DB, ids []uint) ([]models.ApplicationType, error) {
	types := []models.ApplicationType{}
	if len(ids) == 0 {
		return types, nil
	}
	if err := tx.Where("id IN ?", ids).Find(&types).Error; err != nil {
		return nil, err
	}
	if len(types) != len(ids) {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Uygulama türlerinden biri bulunamadı")
	}
	return types, nil
}

func locationError(err error, msg string) error {
	if fe, ok := err.(*fiber.Error); ok {
		return fe
	}
	return fiber.NewError(fiber.StatusInternalServerError, msg)
}

// GET /api/application-locations?application_type_id=1
func ListLocationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Preload("ApplicationTypes")
		if id := c.QueryInt("application_type_id"); id > 0 {
			dbq = dbq.Where("id IN (?)", database.DB.Table("application_location_types").
				Select("application_location_id").Where("application_type_id = ?", id))
		}
		var list []models.ApplicationLocation
		if err := dbq.Order("name asc").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Uygulama yerleri listelenemedi")
		}
		return c.JSON(list)
	}
}

// POST /api/application-locations
func CreateLocationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LocationRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		loc := models.ApplicationLocation{Name: strings.TrimSpace(body.Name)}
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			types, err := loadTypes(tx, body.ApplicationTypeIDs)
			if err != nil {
				return err
			}
			loc.ApplicationTypes = types
			if err := tx.Create(&loc).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "application_location", loc.ID, models.AuditActionCreate, "Uygulama yeri eklendi: "+loc.Name, nil, loc))
		})
		if err != nil {
			return locationError(err, "Uygulama yeri oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(loc)
	}
}

// PUT /api/application-locations/:id
func UpdateLocationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LocationRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		var loc models.ApplicationLocation
		if err := database.DB.Preload("ApplicationTypes").First(&loc, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Uygulama yeri bulunamadı")
		}
		before := loc
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			types, err := loadTypes(tx, body.ApplicationTypeIDs)
			if err != nil {
				return err
			}
			if err := tx.Model(&loc).Update("name", strings.TrimSpace(body.Name)).Error; err != nil {
				return err
			}
			if err := tx.Model(&loc).Association("ApplicationTypes").Replace(types); err != nil {
				return err
			}
			if err := tx.Preload("ApplicationTypes").First(&loc, loc.ID).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "application_location", loc.ID, models.AuditActionUpdate, "Uygulama yeri güncellendi", before, loc))
		})
		if err != nil {
			return locationError(err, "Uygulama yeri güncellenemedi")
		}
		return c.JSON(loc)
	}
}

// DELETE /api/application-locations/:id
func DeleteLocationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var loc models.ApplicationLocation
		if err := database.DB.First(&loc, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Uygulama yeri bulunamadı")
		}
		var count int64
		database.DB.Model(&models.Application{}).Where("application_location_id = ?", loc.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Uygulama yeri kullanımda, silinemez")
		}
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&loc).Association("ApplicationTypes").Clear(); err != nil {
				return err
			}
			if err := tx.Delete(&loc).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "application_location", loc.ID, models.AuditActionDelete, "Uygulama yeri silindi", loc, nil))
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Uygulama yeri silinemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
