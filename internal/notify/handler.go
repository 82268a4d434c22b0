package notify

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

type CreateNotificationRequest struct {
	Date          time.Time         `json:"date" validate:"required"`
	Message       string            `json:"message" validate:"required"`
	PaymentPlanID *uint             `json:"payment_plan_id"`
	WorkOrderID   *uint             `json:"work_order_id"`
	Link          string            `json:"link"`
	NotifyRoles   []models.UserRole `json:"notify_roles"`
}

type UpdateNotificationRequest struct {
	Date        *time.Time        `json:"date"`
	Message     *string           `json:"message" validate:"omitempty,min=1"`
	Link        *string           `json:"link"`
	Handled     *bool             `json:"handled"`
	NotifyRoles []models.UserRole `json:"notify_roles"`
}

func validRoles(roles []models.UserRole) bool {
	for _, r := range roles {
		if !r.Valid() {
			return false
		}
	}
	return true
}

// GET /api/notifications?handled=false&work_order_id=1
func ListNotificationsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.Notification{})
		switch c.Query("handled") {
		case "true":
			dbq = dbq.Where("handled = ?", true)
		case "false":
			dbq = dbq.Where("handled = ?", false)
		}
		if id := c.QueryInt("payment_plan_id"); id > 0 {
			dbq = dbq.Where("payment_plan_id = ?", id)
		}
		if id := c.QueryInt("work_order_id"); id > 0 {
			dbq = dbq.Where("work_order_id = ?", id)
		}
		var list []models.Notification
		if err := dbq.Order("date asc").Find(&list).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bildirimler listelenemedi")
		}
		return c.JSON(list)
	}
}

// POST /api/notifications
func CreateNotificationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateNotificationRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		if !validRoles(body.NotifyRoles) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz rol")
		}
		roles := models.RoleList(body.NotifyRoles)
		if len(roles) == 0 {
			roles = models.RoleList{models.RoleAdmin}
		}
		n := models.Notification{
			Date:          body.Date,
			Message:       body.Message,
			PaymentPlanID: body.PaymentPlanID,
			WorkOrderID:   body.WorkOrderID,
			Link:          body.Link,
			NotifyRoles:   roles,
		}
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&n).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "notification", n.ID, models.AuditActionCreate,
				fmt.Sprintf("Bildirim oluşturuldu: %s", n.Message), nil, n))
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bildirim oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(n)
	}
}

func updateNotification(c *fiber.Ctx, updates map[string]interface{}, desc string) error {
	var n models.Notification
	if err := database.DB.First(&n, "id = ?", c.Params("id")).Error; err != nil {
		return fiber.NewError(fiber.StatusNotFound, "Bildirim bulunamadı")
	}
	before := n
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&n).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.First(&n, n.ID).Error; err != nil {
			return err
		}
		return audit.WriteLog(tx, audit.Entry(c, "notification", n.ID, models.AuditActionUpdate, desc, before, n))
	})
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "Bildirim güncellenemedi")
	}
	return c.JSON(n)
}

// POST /api/notifications/:id/handle
func HandleNotificationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return updateNotification(c, map[string]interface{}{"handled": true}, "Bildirim onaylandı")
	}
}

// PUT /api/notifications/:id
func UpdateNotificationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateNotificationRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		if !validRoles(body.NotifyRoles) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz rol")
		}
		updates := map[string]interface{}{}
		if body.Date != nil {
			updates["date"] = *body.Date
			// yeni tarih için tekrar gönderilsin
			updates["dispatched_at"] = nil
		}
		if body.Message != nil {
			updates["message"] = *body.Message
		}
		if body.Link != nil {
			updates["link"] = *body.Link
		}
		if body.Handled != nil {
			updates["handled"] = *body.Handled
		}
		if body.NotifyRoles != nil {
			updates["notify_roles"] = models.RoleList(body.NotifyRoles)
		}
		if len(updates) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Güncellenecek alan yok")
		}
		return updateNotification(c, updates, "Bildirim güncellendi")
	}
}

// DELETE /api/notifications/:id
func DeleteNotificationHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var n models.Notification
		if err := database.DB.First(&n, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Bildirim bulunamadı")
		}
		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&n).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "notification", n.ID, models.AuditActionDelete, "Bildirim silindi", n, nil))
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Bildirim silinemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
