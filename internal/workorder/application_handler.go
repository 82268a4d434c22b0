package workorder

import (
	"servis-backend/internal/auth"
	"servis-backend/internal/database"
	"servis-backend/internal/models"
	"servis-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GET /api/applications?work_order_id=1&product_id=2
func ListApplicationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Application{})
		if id := c.QueryInt("work_order_id"); id > 0 {
			dbq = dbq.Where("work_order_id = ?", id)
		}
		if id := c.QueryInt("product_id"); id > 0 {
			dbq = dbq.Where("product_id = ?", id)
		}
		if id := c.QueryInt("applicant_id"); id > 0 {
			dbq = dbq.Where("applicant_id = ?", id)
		}

		var apps []models.Application
		if err := dbq.Preload("Product").Preload("Applicant").Order("id asc").Find(&apps).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Uygulamalar listelenemedi")
		}
		return c.JSON(apps)
	}
}

// GET /api/applications/:id
func GetApplicationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var app models.Application
		if err := database.DB.Preload("Product").Preload("Applicant").
			Preload("ApplicationType").Preload("ApplicationLocation").
			First(&app, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Uygulama bulunamadı")
		}
		return c.JSON(app)
	}
}

// POST /api/applications
func CreateApplicationHandler(svc *ApplicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateApplicationInput
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}

		app, err := svc.Create(c.UserContext(), auth.CurrentSession(c), body)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(app)
	}
}

// PUT /api/applications/:id
// amount alanı gönderilse de yok sayılır.
func UpdateApplicationHandler(svc *ApplicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz uygulama ID")
		}

		var body ApplicationPatch
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}

		app, err := svc.Update(c.UserContext(), auth.CurrentSession(c), uint(id), body)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(app)
	}
}

// DELETE /api/applications/:id
func DeleteApplicationHandler(svc *ApplicationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz uygulama ID")
		}

		if err := svc.Delete(c.UserContext(), auth.CurrentSession(c), uint(id)); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
