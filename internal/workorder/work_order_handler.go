package workorder

import (
	"servis-backend/internal/auth"
	"servis-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GET /api/work-orders?status=active&customer_id=1&car_id=2
func ListWorkOrdersHandler(svc *WorkOrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		orders, err := svc.List(c.UserContext(), WorkOrderFilter{
			Status:     c.Query("status"),
			CustomerID: uint(c.QueryInt("customer_id")),
			CarID:      uint(c.QueryInt("car_id")),
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "İş emirleri listelenemedi")
		}
		return c.JSON(orders)
	}
}

// GET /api/work-orders/:id
func GetWorkOrderHandler(svc *WorkOrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz iş emri ID")
		}
		wo, err := svc.Get(c.UserContext(), uint(id))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(wo)
	}
}

// POST /api/work-orders
func CreateWorkOrderHandler(svc *WorkOrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateWorkOrderInput
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		wo, err := svc.Create(c.UserContext(), auth.CurrentSession(c), body)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(wo)
	}
}

// PUT /api/work-orders/:id
// status alanı yalnızca yönetici yetkisiyle değiştirilebilir.
func UpdateWorkOrderHandler(svc *WorkOrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz iş emri ID")
		}
		var body WorkOrderPatch
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		wo, err := svc.Update(c.UserContext(), auth.CurrentSession(c), uint(id), body)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(wo)
	}
}

// DELETE /api/work-orders/:id
func DeleteWorkOrderHandler(svc *WorkOrderService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz iş emri ID")
		}
		if err := svc.Delete(c.UserContext(), auth.CurrentSession(c), uint(id)); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
