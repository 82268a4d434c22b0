package cli

import (
	"fmt"

	"servis-backend/internal/config"
	"servis-backend/internal/database"

	"gorm.io/gorm"
)

// openDB ayarlardaki veritabanına bağlanır ve global bağlantıyı ayarlar.
func openDB() (*config.Config, *gorm.DB, error) {
	cfg := config.LoadBase()
	db, err := database.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}
	database.DB = db
	return cfg, db, nil
}
