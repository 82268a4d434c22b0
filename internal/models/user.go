package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"
	RoleManager  UserRole = "manager"
	RoleEmployee UserRole = "employee"
	RoleCustomer UserRole = "customer"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleEmployee, RoleCustomer:
		return true
	}
	return false
}

type Permission string

const (
	PermissionWarranty Permission = "warranty" // garanti
	PermissionPrice    Permission = "price"    // fiyat
)

type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	Username     string         `gorm:"size:100;uniqueIndex;not null" json:"username"`
	Email        *string        `gorm:"size:100;uniqueIndex" json:"email"`
	Phone        string         `gorm:"size:30" json:"phone"`
	Firstname    string         `gorm:"size:100;not null" json:"firstname"`
	Lastname     string         `gorm:"size:100" json:"lastname"`
	Role         UserRole       `gorm:"size:20;not null;default:customer;index" json:"role"`
	Permissions  PermissionList `gorm:"size:100" json:"permissions"`
	IsBlocked    bool           `gorm:"not null;default:false" json:"is_blocked"`
	SSID         string         `gorm:"size:30" json:"ssid"` // TC kimlik no
	PasswordHash string         `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
}
