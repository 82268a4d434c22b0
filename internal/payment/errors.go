package payment

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func httpError(err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe
	case errors.Is(err, ErrPlanNotFound), errors.Is(err, ErrPaymentNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrWorkOrderNotFound):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrWorkOrderHasPlan):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	default:
		zap.L().Error("ödeme işlemi başarısız", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Beklenmeyen sunucu hatası")
	}
}
