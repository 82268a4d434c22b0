package database

import (
	"fmt"

	"servis-backend/internal/config"
	"servis-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/driver/sqlserver"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Open DB_DRIVER değerine göre uygun GORM dialector'u ile bağlantı açar.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case "", "postgres":
		dialector = postgres.Open(dsn)
	case "mysql":
		dialector = mysql.Open(dsn)
	case "sqlserver":
		dialector = sqlserver.Open(dsn)
	case "sqlite":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("desteklenmeyen veritabanı sürücüsü: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("veritabanına bağlanılamadı: %w", err)
	}

	// sqlite tek yazar ile çalışır
	if driver == "sqlite" {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, err
		}
		sqlDB.SetMaxOpenConns(1)
	}

	return db, nil
}

func Init(cfg *config.Config) {
	db, err := Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		zap.L().Fatal("Veritabanına bağlanılamadı", zap.Error(err))
	}

	if err := Migrate(db); err != nil {
		zap.L().Fatal("AutoMigrate hatası", zap.Error(err))
	}
	if err := Seed(db, cfg.DefaultStorageName, cfg.WasteStorageName); err != nil {
		zap.L().Fatal("Başlangıç verisi oluşturulamadı", zap.Error(err))
	}

	DB = db
	zap.L().Info("Veritabanı bağlantısı başarılı. Migration tamamlandı.", zap.String("driver", cfg.DBDriver))
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.CarBrand{},
		&models.CarModel{},
		&models.Car{},
		&models.ProductBrand{},
		&models.ApplicationType{},
		&models.ApplicationLocation{},
		&models.Product{},
		&models.Storage{},
		&models.DocumentType{},
		&models.WorkOrder{},
		&models.Application{},
		&models.StockMovement{},
		&models.Note{},
		&models.File{},
		&models.PaymentPlan{},
		&models.Payment{},
		&models.Notification{},
		&models.AuditLog{},
	)
}

var defaultDocumentTypes = []string{"Fatura", "İrsaliye", "Sayım"}

// Seed ana depo ile fire deposunu ve temel belge türlerini yoksa oluşturur.
func Seed(db *gorm.DB, defaultStorage, wasteStorage string) error {
	for _, name := range []string{defaultStorage, wasteStorage} {
		s := models.Storage{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&s).Error; err != nil {
			return fmt.Errorf("depo oluşturulamadı (%s): %w", name, err)
		}
	}
	for _, name := range defaultDocumentTypes {
		d := models.DocumentType{Name: name}
		if err := db.Where("name = ?", name).FirstOrCreate(&d).Error; err != nil {
			return fmt.Errorf("belge türü oluşturulamadı (%s): %w", name, err)
		}
	}
	return nil
}
