package workorder

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"servis-backend/internal/database"
	"servis-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

func optionalID(c *fiber.Ctx, key string) *uint {
	var id uint
	if _, err := fmt.Sscan(c.FormValue(key), &id); err != nil || id == 0 {
		return nil
	}
	return &id
}

// GET /api/files?work_order_id=1&application_id=2&product_id=3
func ListFilesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.File{})
		for _, key := range []string{"work_order_id", "application_id", "product_id"} {
			if id := c.QueryInt(key); id > 0 {
				dbq = dbq.Where(key+" = ?", id)
			}
		}
		var files []models.File
		if err := dbq.Order("id desc").Find(&files).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosyalar listelenemedi")
		}
		return c.JSON(files)
	}
}

// POST /api/files (multipart: file, work_order_id, application_id, product_id)
func UploadFileHandler(uploadPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fh, err := c.FormFile("file")
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Dosya bulunamadı")
		}

		if err := os.MkdirAll(uploadPath, 0o755); err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Yükleme klasörü oluşturulamadı")
		}

		ext := strings.ToLower(filepath.Ext(fh.Filename))
		stored := uuid.New().String() + ext
		if err := c.SaveFile(fh, filepath.Join(uploadPath, stored)); err != nil {
			zap.L().Error("dosya kaydedilemedi", zap.String("name", fh.Filename), zap.Error(err))
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya kaydedilemedi")
		}

		name := strings.TrimSpace(c.FormValue("name"))
		if name == "" {
			name = fh.Filename
		}
		file := models.File{
			Name:          name,
			URL:           "/uploads/" + stored,
			WorkOrderID:   optionalID(c, "work_order_id"),
			ApplicationID: optionalID(c, "application_id"),
			ProductID:     optionalID(c, "product_id"),
		}
		if err := database.DB.Create(&file).Error; err != nil {
			_ = os.Remove(filepath.Join(uploadPath, stored))
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya kaydı oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(file)
	}
}

type UpdateFileRequest struct {
	Name          *string `json:"name"`
	WorkOrderID   *uint   `json:"work_order_id"`
	ApplicationID *uint   `json:"application_id"`
	ProductID     *uint   `json:"product_id"`
}

// PUT /api/files/:id
func UpdateFileHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var file models.File
		if err := database.DB.First(&file, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dosya bulunamadı")
		}
		var body UpdateFileRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz veri")
		}

		updates := map[string]interface{}{}
		if body.Name != nil {
			updates["name"] = strings.TrimSpace(*body.Name)
		}
		if body.WorkOrderID != nil {
			updates["work_order_id"] = *body.WorkOrderID
		}
		if body.ApplicationID != nil {
			updates["application_id"] = *body.ApplicationID
		}
		if body.ProductID != nil {
			updates["product_id"] = *body.ProductID
		}
		if len(updates) > 0 {
			if err := database.DB.Model(&file).Updates(updates).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Dosya güncellenemedi")
			}
		}
		database.DB.First(&file, file.ID)
		return c.JSON(file)
	}
}

// DELETE /api/files/:id
func DeleteFileHandler(uploadPath string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var file models.File
		if err := database.DB.First(&file, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Dosya bulunamadı")
		}
		if err := database.DB.Delete(&file).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Dosya silinemedi")
		}
		if stored := strings.TrimPrefix(file.URL, "/uploads/"); stored != "" && stored != file.URL {
			if err := os.Remove(filepath.Join(uploadPath, filepath.Base(stored))); err != nil && !os.IsNotExist(err) {
				zap.L().Warn("dosya diskten silinemedi", zap.Uint("file_id", file.ID), zap.Error(err))
			}
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
