// Package testutil paket testleri için bellek içi sqlite veritabanı sağlar.
package testutil

import (
	"fmt"
	"strings"
	"testing"

	"servis-backend/internal/database"

	"gorm.io/gorm"
)

const (
	DefaultStorage = "Genel"
	WasteStorage   = "Fire"
)

// NewDB migrate edilmiş ve ana/fire depoları oluşturulmuş bir veritabanı döner.
func NewDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)

	db, err := database.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.Seed(db, DefaultStorage, WasteStorage); err != nil {
		t.Fatalf("seed: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// UseGlobal database.DB'yi test süresince verilen bağlantıya çevirir.
func UseGlobal(t *testing.T, db *gorm.DB) {
	t.Helper()
	prev := database.DB
	database.DB = db
	t.Cleanup(func() { database.DB = prev })
}
