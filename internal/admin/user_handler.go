package admin

import (
	"fmt"
	"strings"

	"servis-backend/internal/audit"
	"servis-backend/internal/auth"
	"servis-backend/internal/database"
	"servis-backend/internal/models"
	"servis-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateUserRequest struct {
	Username    string              `json:"username" validate:"required"`
	Email       string              `json:"email" validate:"omitempty,email"`
	Phone       string              `json:"phone"`
	Firstname   string              `json:"firstname" validate:"required"`
	Lastname    string              `json:"lastname"`
	SSID        string              `json:"ssid"`
	Password    string              `json:"password" validate:"omitempty,min=6"`
	Role        models.UserRole     `json:"role"`
	Permissions []models.Permission `json:"permissions"`
}

type UpdateUserRequest struct {
	Email       *string             `json:"email" validate:"omitempty,email"`
	Phone       *string             `json:"phone"`
	Firstname   *string             `json:"firstname" validate:"omitempty,min=1"`
	Lastname    *string             `json:"lastname"`
	SSID        *string             `json:"ssid"`
	Password    *string             `json:"password" validate:"omitempty,min=6"`
	Role        *models.UserRole    `json:"role"`
	Permissions []models.Permission `json:"permissions"`
	IsBlocked   *bool               `json:"is_blocked"`
}

func validPermissions(perms []models.Permission) bool {
	for _, p := range perms {
		if p != models.PermissionWarranty && p != models.PermissionPrice {
			return false
		}
	}
	return true
}

func normalizeEmail(email string) *string {
	e := strings.ToLower(strings.TrimSpace(email))
	if e == "" {
		return nil
	}
	return &e
}

// ----------------------------------------
// KULLANICI CRUD
// ----------------------------------------

// GET /api/users?role=employee&q=ali
func ListUsersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		dbq := database.DB.Model(&models.User{})
		if role := c.Query("role"); role != "" {
			dbq = dbq.Where("role = ?", role)
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			like := "%" + strings.ToLower(q) + "%"
			dbq = dbq.Where("LOWER(username) LIKE ? OR LOWER(firstname) LIKE ? OR LOWER(lastname) LIKE ?", like, like, like)
		}
		var users []models.User
		if err := dbq.Order("username asc").Find(&users).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcılar listelenemedi")
		}
		res := make([]auth.UserResponse, 0, len(users))
		for i := range users {
			res = append(res, auth.NewUserResponse(&users[i]))
		}
		return c.JSON(res)
	}
}

// GET /api/users/:id
func GetUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var user models.User
		if err := database.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}
		return c.JSON(auth.NewUserResponse(&user))
	}
}

// POST /api/users
func CreateUserHandler(access auth.Access) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateUserRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}
		if body.Role == "" {
			body.Role = models.RoleCustomer
		}
		if !body.Role.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz rol (admin|manager|employee|customer)")
		}
		if !validPermissions(body.Permissions) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz yetki (warranty|price)")
		}
		s := auth.CurrentSession(c)
		if (body.Role != models.RoleCustomer || len(body.Permissions) > 0) && !access.CanChangeUserRole(s) {
			return fiber.NewError(fiber.StatusForbidden, "Rol ve yetki atamak için admin olmalısınız")
		}
		if body.Role != models.RoleCustomer && body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Personel için şifre zorunlu")
		}

		user := models.User{
			Username:    strings.TrimSpace(body.Username),
			Email:       normalizeEmail(body.Email),
			Phone:       strings.TrimSpace(body.Phone),
			Firstname:   strings.TrimSpace(body.Firstname),
			Lastname:    strings.TrimSpace(body.Lastname),
			SSID:        strings.TrimSpace(body.SSID),
			Role:        body.Role,
			Permissions: models.PermissionList(body.Permissions),
		}
		if body.Password != "" {
			hash, err := auth.HashPassword(body.Password)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
			}
			user.PasswordHash = hash
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			var exist int64
			q := tx.Model(&models.User{}).Where("username = ?", user.Username)
			if user.Email != nil {
				q = q.Or("email = ?", *user.Email)
			}
			if err := q.Count(&exist).Error; err != nil {
				return err
			}
			if exist > 0 {
				return fiber.NewError(fiber.StatusConflict, "Bu kullanıcı adı veya e-posta zaten kayıtlı")
			}
			if err := tx.Create(&user).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "user", user.ID, models.AuditActionCreate,
				fmt.Sprintf("Kullanıcı oluşturuldu: %s (%s)", user.Username, user.Role), nil, auth.NewUserResponse(&user)))
		})
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				return fe
			}
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı oluşturulamadı")
		}
		return c.Status(fiber.StatusCreated).JSON(auth.NewUserResponse(&user))
	}
}

// PUT /api/users/:id
func UpdateUserHandler(access auth.Access) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body UpdateUserRequest
		if err := validation.ParseBody(c, &body); err != nil {
			return err
		}

		var user models.User
		if err := database.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}

		s := auth.CurrentSession(c)
		if (body.Role != nil || body.Permissions != nil || body.IsBlocked != nil) && !access.CanChangeUserRole(s) {
			return fiber.NewError(fiber.StatusForbidden, "Rol ve yetkileri sadece admin değiştirebilir")
		}
		if body.Role != nil && !body.Role.Valid() {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz rol (admin|manager|employee|customer)")
		}
		if !validPermissions(body.Permissions) {
			return fiber.NewError(fiber.StatusBadRequest, "Geçersiz yetki (warranty|price)")
		}
		if s != nil && s.UserID == user.ID && body.IsBlocked != nil && *body.IsBlocked {
			return fiber.NewError(fiber.StatusBadRequest, "Kendinizi engelleyemezsiniz")
		}

		before := auth.NewUserResponse(&user)
		updates := map[string]interface{}{}
		if body.Email != nil {
			updates["email"] = normalizeEmail(*body.Email)
		}
		if body.Phone != nil {
			updates["phone"] = strings.TrimSpace(*body.Phone)
		}
		if body.Firstname != nil {
			updates["firstname"] = strings.TrimSpace(*body.Firstname)
		}
		if body.Lastname != nil {
			updates["lastname"] = strings.TrimSpace(*body.Lastname)
		}
		if body.SSID != nil {
			updates["ssid"] = strings.TrimSpace(*body.SSID)
		}
		if body.Role != nil {
			updates["role"] = *body.Role
		}
		if body.Permissions != nil {
			updates["permissions"] = models.PermissionList(body.Permissions)
		}
		if body.IsBlocked != nil {
			updates["is_blocked"] = *body.IsBlocked
		}
		if body.Password != nil {
			hash, err := auth.HashPassword(*body.Password)
			if err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "Şifre hashlenemedi")
			}
			updates["password_hash"] = hash
		}
		if len(updates) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Güncellenecek alan yok")
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(&user).Updates(updates).Error; err != nil {
				return err
			}
			if err := tx.First(&user, user.ID).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "user", user.ID, models.AuditActionUpdate,
				"Kullanıcı güncellendi: "+user.Username, before, auth.NewUserResponse(&user)))
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı güncellenemedi")
		}
		return c.JSON(auth.NewUserResponse(&user))
	}
}

// DELETE /api/users/:id
// Başka kayıtlarda geçen kullanıcı silinmez, engellenmesi gerekir.
func DeleteUserHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var user models.User
		if err := database.DB.First(&user, "id = ?", c.Params("id")).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Kullanıcı bulunamadı")
		}
		if s := auth.CurrentSession(c); s != nil && s.UserID == user.ID {
			return fiber.NewError(fiber.StatusBadRequest, "Kendinizi silemezsiniz")
		}

		refs := []struct {
			model  interface{}
			clause string
		}{
			{&models.WorkOrder{}, "customer_id = ? OR creator_id = ? OR qc_user_id = ?"},
			{&models.Application{}, "applicant_id = ? OR creator_id = ?"},
			{&models.StockMovement{}, "customer_id = ?"},
			{&models.Note{}, "creator_id = ?"},
		}
		for _, r := range refs {
			args := make([]interface{}, strings.Count(r.clause, "?"))
			for i := range args {
				args[i] = user.ID
			}
			var count int64
			database.DB.Model(r.model).Where(r.clause, args...).Count(&count)
			if count > 0 {
				return fiber.NewError(fiber.StatusConflict, "Kullanıcının bağlı kayıtları var, silmek yerine engelleyin")
			}
		}

		err := database.DB.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(&user).Error; err != nil {
				return err
			}
			return audit.WriteLog(tx, audit.Entry(c, "user", user.ID, models.AuditActionDelete,
				"Kullanıcı silindi: "+user.Username, auth.NewUserResponse(&user), nil))
		})
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Kullanıcı silinemedi")
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
