package auth

import (
	"strings"

	"servis-backend/internal/config"
	"servis-backend/internal/database"
	"servis-backend/internal/models"
	"servis-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type InitFirstUserRequest struct {
	Username  string `json:"username" validate:"required"`
	Firstname string `json:"firstname" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID          uint                  `json:"id"`
	Username    string                `json:"username"`
	Firstname   string                `json:"firstname"`
	Lastname    string                `json:"lastname"`
	Email       *string               `json:"email"`
	Role        models.UserRole       `json:"role"`
	Permissions models.PermissionList `json:"permissions"`
	IsBlocked   bool                  `json:"is_blocked"`
}

func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		Firstname:   u.Firstname,
		Lastname:    u.Lastname,
		Email:       u.Email,
		Role:        u.Role,
		Permissions: u.Permissions,
		IsBlocked:   u.IsBlocked,
	}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CreateFirstAdmin hiç kullanıcı yoksa ilk admin'i oluşturur.
func CreateFirstAdmin(req InitFirstUserRequest) (*models.User, error) {
	var count int64
	if err := database.DB.Model(&models.User{}).Count(&count).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Kullanıcılar sayılamadı")
	}
	if count > 0 {
		return nil, fiber.NewError(fiber.StatusForbidden, "Sistemde zaten kullanıcı var")
	}

	hash, err := HashPassword(req.Password)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
	}

	user := models.User{
		Username:     strings.TrimSpace(req.Username),
		Firstname:    req.Firstname,
		Role:         models.RoleAdmin,
		PasswordHash: hash,
	}
	if email := strings.TrimSpace(strings.ToLower(req.Email)); email != "" {
		user.Email = &email
	}

	if err := database.DB.Create(&user).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
	}
	return &user, nil
}

// POST /api/auth/init
func InitFirstUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body InitFirstUserRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}

		user, err := CreateFirstAdmin(body)
		if err != nil {
			return err
		}

		zap.L().Info("ilk admin oluşturuldu", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
		return c.Status(fiber.StatusCreated).JSON(NewUserResponse(user))
	}
}

// POST /api/auth/login
func LoginHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}

		var user models.User
		if err := database.DB.Where("username = ?", strings.TrimSpace(body.Username)).First(&user).Error; err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı adı veya şifre hatalı")
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(body.Password)); err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Kullanıcı adı veya şifre hatalı")
		}

		token, err := GenerateToken(cfg.JWTSecret, &user)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		return c.JSON(fiber.Map{
			"token": token,
			"user":  NewUserResponse(&user),
		})
	}
}

// GET /api/auth/me
func MeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		s := CurrentSession(c)
		if s == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Oturum bulunamadı")
		}

		var user models.User
		if err := database.DB.First(&user, s.UserID).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}
		return c.JSON(NewUserResponse(&user))
	}
}
