package auth

import (
	"fmt"
	"time"

	"servis-backend/internal/models"

	"github.com/golang-jwt/jwt/v5"
)

// SessionMaxAge oturum süresi: 30 gün
const SessionMaxAge = 30 * 24 * time.Hour

type JWTCustomClaims struct {
	UserID      uint                  `json:"user_id"`
	Username    string                `json:"username"`
	Role        models.UserRole       `json:"role"`
	Permissions models.PermissionList `json:"permissions"`
	IsBlocked   bool                  `json:"is_blocked"`
	jwt.RegisteredClaims
}

func GenerateToken(secret string, user *models.User) (string, error) {
	now := time.Now()
	claims := &JWTCustomClaims{
		UserID:      user.ID,
		Username:    user.Username,
		Role:        user.Role,
		Permissions: user.Permissions,
		IsBlocked:   user.IsBlocked,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionMaxAge)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ParseToken(secret, tokenStr string) (*JWTCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("geçersiz imzalama yöntemi")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*JWTCustomClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("token çözümlenemedi")
	}
	return claims, nil
}
