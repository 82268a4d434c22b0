package catalog

import (
	"fmt"
	"strings"

	"servis-backend/internal/audit"
	"servis-backend/internal/database"
	"servis-backend/internal/models"
	"servis-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CarRequest struct {
	VIN          string `json:"vin"`
	LicensePlate string `json:"license_plate" validate:"required"`
	CarModelID   *uint  `json:"car_model_id"`
}

type CarModelRequest struct {
	Name       string `json:"name" validate:"required"`
	CarBrandID *uint  `json:"car_brand_id"`
}

// NormalizePlate plakayı büyük harfe çevirip boşlukları tekilleştirir.
func NormalizePlate(plate string) string {
	return strings.Join(strings.Fields(strings.ToUpper(plate)), " ")
}

func exists(tx *gorm.DB, model interface{}, id *uint) bool {
	if id == nil {
		return true
	}
	var count int64
	tx.Model(model).Where("id = ?", *id).Count(&count)
	return count > 0
}

// ----------------------------------------
// ARAÇ MODELLERİ
// ----------------------------------------

// GET /api/car-models?car_brand_id=1
func ListCarModelsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Preload("CarBrand")
		if id := c.QueryInt("car_brand_id"); id > 0 {
			dbq = dbq.Where("car_brand_id = ?", id)
		}
		var list []models.CarModel
		if err := dbq.Order("name asc").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Araç modelleri listelenemedi")
		}
		return c.JSON(list)
	}
}

// POST /api/car-models
func CreateCarModelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CarModelRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		if !exists(database.DB, &models.CarBrand{}, body.CarBrandID) {
			return fiber.NewError(fiber.StatusBadRequest, "Araç markası bulunamadı")
		}
		m := models.CarModel{Name: strings.TrimSpace(body.Name), CarBrandID: body.CarBrandID}
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&m).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "car_model", m.ID, models.AuditActionCreate, "Araç modeli eklendi: "+m.Name, nil, m))
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Araç modeli oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	}
}

// PUT /api/car-models/:id
func UpdateCarModelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CarModelRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		var m models.CarModel
		if err := database.DB.First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Araç modeli bulunamadı")
		}
		if !exists(database.DB, &models.CarBrand{}, body.CarBrandID) {
			return fiber.NewError(fiber.StatusBadRequest, "Araç markası bulunamadı")
		}
		before := m
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&m).Updates(map[string]interface{}{
				"name":         strings.TrimSpace(body.Name),
				"car_brand_id": body.CarBrandID,
			}).Error; err != nil {
				return err
			}
			if err := tx.First(&m, m.ID).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "car_model", m.ID, models.AuditActionUpdate, "Araç modeli güncellendi", before, m))
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Araç modeli güncellenemedi")
		}
		return c.JSON(m)
	}
}

// DELETE /api/car-models/:id
func DeleteCarModelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var m models.CarModel
		if err := database.DB.First(&m, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Araç modeli bulunamadı")
		}
		var count int64
		database.DB.Model(&models.Car{}).Where("car_model_id = ?", m.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, fmt.Sprintf("Bu modele bağlı %d araç var, silinemez", count))
		}
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&m).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "car_model", m.ID, models.AuditActionDelete, "Araç modeli silindi", m, nil))
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Araç modeli silinemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ----------------------------------------
// ARAÇLAR
// ----------------------------------------

// GET /api/cars?q=34ABC
func ListCarsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Preload("CarModel.CarBrand")
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + strings.ToUpper(q) + "%"
			dbq = dbq.Where("license_plate LIKE ? OR UPPER(vin) LIKE ?", like, like)
		}
		if id := c.QueryInt("car_model_id"); id > 0 {
			dbq = dbq.Where("car_model_id = ?", id)
		}
		var cars []models.Car
		if err := dbq.Order("license_plate asc").Find(&cars).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Araçlar listelenemedi")
		}
		return c.JSON(cars)
	}
}

// GET /api/cars/:id
func GetCarHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var car models.Car
		if err := database.DB.Preload("CarModel.CarBrand").First(&car, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Araç bulunamadı")
		}
		return c.JSON(car)
	}
}

// POST /api/cars
func CreateCarHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CarRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		plate := NormalizePlate(body.LicensePlate)
		if plate == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Plaka boş olamaz")
		}
		if !exists(database.DB, &models.CarModel{}, body.CarModelID) {
			return fiber.NewError(fiber.StatusBadRequest, "Araç modeli bulunamadı")
		}
		car := models.Car{
			VIN:          strings.ToUpper(strings.TrimSpace(body.VIN)),
			LicensePlate: plate,
			CarModelID:   body.CarModelID,
		}
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&car).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "car", car.ID, models.AuditActionCreate, "Araç eklendi: "+car.LicensePlate, nil, car))
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Araç oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(car)
	}
}

// PUT /api/cars/:id
func UpdateCarHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CarRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		var car models.Car
		if err := database.DB.First(&car, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Araç bulunamadı")
		}
		if !exists(database.DB, &models.CarModel{}, body.CarModelID) {
			return fiber.NewError(fiber.StatusBadRequest, "Araç modeli bulunamadı")
		}
		before := car
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&car).Updates(map[string]interface{}{
				"vin":           strings.ToUpper(strings.TrimSpace(body.VIN)),
				"license_plate": NormalizePlate(body.LicensePlate),
				"car_model_id":  body.CarModelID,
			}).Error; err != nil {
				return err
			}
			if err := tx.First(&car, car.ID).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "car", car.ID, models.AuditActionUpdate, "Araç güncellendi", before, car))
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Araç güncellenemedi")
		}
		return c.JSON(car)
	}
}

// DELETE /api/cars/:id
func DeleteCarHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var car models.Car
		if err := database.DB.First(&car, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Araç bulunamadı")
		}
		var count int64
		database.DB.Model(&models.WorkOrder{}).Where("car_id = ?", car.ID).Count(&count)
		if count > 0 {
			return fiber.NewError(fiber.StatusConflict, "Araca bağlı iş emri var, silinemez")
		}
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&car).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "car", car.ID, models.AuditActionDelete, "Araç silindi: "+car.LicensePlate, car, nil))
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Araç silinemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
