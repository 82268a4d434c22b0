package payment

import (
	"servis-backend/internal/auth"
	"servis-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// GET /api/payment-plans?work_order_id=1
func ListPlansHandler(svc *PlanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		plans, err := svc.List(c.UserContext(), uint(c.QueryInt("work_order_id")))
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Ödeme planları listelenemedi")
		}
		return c.JSON(plans)
	}
}

// GET /api/payment-plans/:id
func GetPlanHandler(svc *PlanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz plan ID")
		}
		view, err := svc.Get(c.UserContext(), uint(id))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(view)
	}
}

// POST /api/payment-plans
func CreatePlanHandler(svc *PlanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreatePlanInput
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		plan, err := svc.Create(c.UserContext(), auth.CurrentSession(c), body)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(PlanView{PaymentPlan: *plan, Accrual: svc.Accrual(c.UserContext(), plan)})
	}
}

// PUT /api/payment-plans/:id
func UpdatePlanHandler(svc *PlanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz plan ID")
		}
		var body PlanPatch
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		plan, err := svc.Update(c.UserContext(), auth.CurrentSession(c), uint(id), body)
		if err != nil {
			return httpError(err)
		}
		return c.JSON(PlanView{PaymentPlan: *plan, Accrual: svc.Accrual(c.UserContext(), plan)})
	}
}

// DELETE /api/payment-plans/:id
func DeletePlanHandler(svc *PlanService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil || id <= 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz plan ID")
		}
		if err := svc.Delete(c.UserContext(), auth.CurrentSession(c), uint(id)); err != nil {
			return httpError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
