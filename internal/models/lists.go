package models

import (
	"database/sql/driver"
	"fmt"
	"strings"
)

// RoleList ve PermissionList veritabanında virgülle ayrılmış metin olarak tutulur.

type RoleList []UserRole

func (l RoleList) Value() (driver.Value, error) {
	parts := make([]string, 0, len(l))
	for _, r := range l {
		parts = append(parts, string(r))
	}
	return strings.Join(parts, ","), nil
}

func (l *RoleList) Scan(value interface{}) error {
	parts, err := splitList(value)
	if err != nil {
		return err
	}
	out := make(RoleList, 0, len(parts))
	for _, p := range parts {
		out = append(out, UserRole(p))
	}
	*l = out
	return nil
}

func (RoleList) GormDataType() string { return "string" }

func (l RoleList) Contains(role UserRole) bool {
	for _, r := range l {
		if r == role {
			return true
		}
	}
	return false
}

func (l RoleList) Strings() []string {
	out := make([]string, 0, len(l))
	for _, r := range l {
		out = append(out, string(r))
	}
	return out
}

type PermissionList []Permission

func (l PermissionList) Value() (driver.Value, error) {
	parts := make([]string, 0, len(l))
	for _, p := range l {
		parts = append(parts, string(p))
	}
	return strings.Join(parts, ","), nil
}

func (l *PermissionList) Scan(value interface{}) error {
	parts, err := splitList(value)
	if err != nil {
		return err
	}
	out := make(PermissionList, 0, len(parts))
	for _, p := range parts {
		out = append(out, Permission(p))
	}
	*l = out
	return nil
}

func (PermissionList) GormDataType() string { return "string" }

func (l PermissionList) Has(p Permission) bool {
	for _, x := range l {
		if x == p {
			return true
		}
	}
	return false
}

func splitList(value interface{}) ([]string, error) {
	var raw string
	switch v := value.(type) {
	case nil:
		return nil, nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return nil, fmt.Errorf("liste değeri çözümlenemedi: %T", value)
	}

	out := make([]string, 0)
	for _, p := range strings.Split(raw, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out, nil
}
