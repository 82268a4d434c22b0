package auth

import (
	"servis-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	CtxUserIDKey   = "user_id"
	CtxUserRoleKey = "user_role"
	CtxSessionKey  = "session"
)

// Session isteği yapan kullanıcının yetki kontrolünde kullanılan bilgileri.
type Session struct {
	UserID      uint
	Username    string
	Role        models.UserRole
	Permissions models.PermissionList
	IsBlocked   bool
}

func SessionFromUser(u *models.User) *Session {
	return &Session{
		UserID:      u.ID,
		Username:    u.Username,
		Role:        u.Role,
		Permissions: u.Permissions,
		IsBlocked:   u.IsBlocked,
	}
}

// CurrentSession JWTMiddleware'in yerleştirdiği oturumu döner, yoksa nil.
func CurrentSession(c *fiber.Ctx) *Session {
	s, _ := c.Locals(CtxSessionKey).(*Session)
	return s
}

// CurrentUserID oturumdaki kullanıcı id'si; oturum yoksa nil.
func CurrentUserID(c *fiber.Ctx) *uint {
	s := CurrentSession(c)
	if s == nil {
		return nil
	}
	id := s.UserID
	return &id
}
