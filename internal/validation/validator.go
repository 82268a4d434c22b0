package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// hata mesajlarında json alan adları kullanılsın
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Struct isteği doğrular, hata varsa 400 döner.
func Struct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek")
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, message(fe))
	}
	return fiber.NewError(fiber.StatusBadRequest, strings.Join(msgs, "; "))
}

// ParseBody gövdeyi çözer ve doğrular.
func ParseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Geçersiz istek gövdesi")
	}
	return Struct(out)
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s zorunlu", fe.Field())
	case "min":
		return fmt.Sprintf("%s en az %s olmalı", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s %s veya daha büyük olmalı", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s şu değerlerden biri olmalı: %s", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%s geçerli bir email olmalı", fe.Field())
	default:
		return fmt.Sprintf("%s geçersiz (%s)", fe.Field(), fe.Tag())
	}
}
