package auth

import (
	"strings"

	"servis-backend/internal/config"
	"servis-backend/internal/database"
	"servis-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

// JWTMiddleware token'ı doğrular ve kullanıcının güncel rol/engel bilgisini
// veritabanından okuyarak oturumu locals'a koyar.
func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization header eksik")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization formatı 'Bearer <token>' olmalı")
		}

		claims, err := ParseToken(cfg.JWTSecret, parts[1])
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Geçersiz veya süresi dolmuş token")
		}

		var user models.User
		if err := database.DB.First(&user, claims.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı bulunamadı")
		}

		session := SessionFromUser(&user)
		c.Locals(CtxSessionKey, session)
		c.Locals(CtxUserIDKey, session.UserID)
		c.Locals(CtxUserRoleKey, session.Role)

		return c.Next()
	}
}

// Authorize entity/işlem politikasını uygular; handler'dan önce çalışır.
func Authorize(access Access, entity Entity, op Operation) fiber.Handler {
	pred := access.Policy(entity, op)
	return func(c *fiber.Ctx) error {
		if !pred(CurrentSession(c)) {
			return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
		}
		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := CurrentSession(c)
		if s == nil {
			return fiber.NewError(fiber.StatusForbidden, "Rol bilgisi alınamadı")
		}

		for _, r := range allowedRoles {
			if r == s.Role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "Bu işlem için yetkiniz yok")
	}
}
