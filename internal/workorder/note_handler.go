package workorder

import (
	"strings"

	"servis-backend/internal/audit"
	"servis-backend/internal/auth"
	"servis-backend/internal/database"
	"servis-backend/internal/models"
	"servis-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type CreateNoteRequest struct {
	Note        string `json:"note" validate:"required"`
	WorkOrderID *uint  `json:"work_order_id"`
}

type UpdateNoteRequest struct {
	Note string `json:"note" validate:"required"`
}

// GET /api/notes?work_order_id=1
func ListNotesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Note{})
		if id := c.QueryInt("work_order_id"); id > 0 {
			dbq = dbq.Where("work_order_id = ?", id)
		}
		var notes []models.Note
		if err := dbq.Order("created_at desc").Find(&notes).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Notlar listelenemedi")
		}
		return c.JSON(notes)
	}
}

// POST /api/notes
func CreateNoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateNoteRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		note := models.Note{
			Note:        strings.TrimSpace(body.Note),
			WorkOrderID: body.WorkOrderID,
			CreatorID:   auth.CurrentUserID(c),
		}
		if err := database.DB.Create(&note).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Not oluşturulamadı")
		}
		_ = audit.WriteLog(database.DB, audit.Entry(c, "note", note.ID, models.AuditActionCreate, "Not eklendi", nil, note))
		return c.Status(fiber.StatusCreated).JSON(note)
	}
}

// PUT /api/notes/:id
func UpdateNoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var note models.Note
		if err := database.DB.First(&note, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Not bulunamadı")
		}
		var body UpdateNoteRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		before := note
		note.Note = strings.TrimSpace(body.Note)
		if err := database.DB.Model(&note).Update("note", note.Note).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Not güncellenemedi")
		}
		_ = audit.WriteLog(database.DB, audit.Entry(c, "note", note.ID, models.AuditActionUpdate, "Not güncellendi", before, note))
		return c.JSON(note)
	}
}

// DELETE /api/notes/:id
func DeleteNoteHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var note models.Note
		if err := database.DB.First(&note, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Not bulunamadı")
		}
		if err := database.DB.Delete(&note).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Not silinemedi")
		}
		_ = audit.WriteLog(database.DB, audit.Entry(c, "note", note.ID, models.AuditActionDelete, "Not silindi", note, nil))
		return c.SendStatus(fiber.StatusNoContent)
	}
}
