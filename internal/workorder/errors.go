package workorder

import (
	"errors"
	"strings"

	"servis-backend/internal/inventory"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// httpError servis hatalarını HTTP durum kodlarına çevirir.
func httpError(err error) error {
	var fe *fiber.Error
	switch {
	case errors.As(err, &fe):
		return fe
	case errors.Is(err, ErrRejected):
		return fiber.NewError(fiber.StatusBadRequest, strings.TrimPrefix(err.Error(), ErrRejected.Error()+": "))
	case errors.Is(err, inventory.ErrStorageNotFound):
		return fiber.NewError(fiber.StatusConflict, "Depo tanımlı değil, işlem geri alındı: "+err.Error())
	case errors.Is(err, inventory.ErrInvalidAmount):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrApplicationNotFound), errors.Is(err, ErrWorkOrderNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrProductNotFound):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrStatusForbidden):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	default:
		zap.L().Error("iş emri işlemi başarısız", zap.Error(err))
		return fiber.NewError(fiber.StatusInternalServerError, "Beklenmeyen sunucu hatası")
	}
}
