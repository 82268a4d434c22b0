package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DBDriver    string // postgres, mysql, sqlserver, sqlite
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string
	UploadPath  string // Yüklenen dosyaların kaydedileceği klasör

	LogLevel  string
	LogFormat string // json / console

	RedisAddr     string // boşsa stok önbelleği kapalı
	RedisPassword string
	RedisDB       int
	StockCacheTTL time.Duration

	// Depo hareketlerinde kullanılan sabit depo isimleri
	DefaultStorageName string
	WasteStorageName   string

	// true ise rolü yetmeyen engellenmemiş kullanıcılara varsayılan izin verilmez
	AccessStrict bool

	SnowflakeNode    int64
	NotificationCron string

	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	SMTPFrom string
}

const defaultDSN = "host=localhost user=postgres password=postgres dbname=servis port=5432 sslmode=disable"

// Load ayarları okur ve production güvenlik kontrollerini yapar.
func Load() *Config {
	cfg := LoadBase()

	// Production güvenlik kontrolleri
	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET environment değişkeni tanımlanmamış! Production için zorunludur.")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET en az 32 karakter olmalıdır! Güvenlik riski.")
	}
	if cfg.DBDriver == "postgres" && cfg.DatabaseDSN == defaultDSN {
		log.Println("[WARN] DATABASE_DSN varsayılan değer kullanılıyor, production için mutlaka kendi Postgres bağlantı bilgisini tanımla.")
	}
	if cfg.CORSOrigins == "http://localhost:5173" {
		log.Println("[WARN] CORS_ALLOWED_ORIGINS varsayılan değer kullanılıyor, production için mutlaka kendi domain'ini tanımla.")
	}

	return cfg
}

// LoadBase kontrol yapmadan ayarları okur; CLI komutları bunu kullanır.
func LoadBase() *Config {
	// .env yoksa sadece ortam değişkenleri kullanılır
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:    getEnv("HTTP_PORT", "8080"),
		DBDriver:    getEnv("DB_DRIVER", "postgres"),
		DatabaseDSN: getEnv("DATABASE_DSN", defaultDSN),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		CORSOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		StockCacheTTL: getEnvAsDuration("STOCK_CACHE_TTL", 5*time.Minute),

		DefaultStorageName: getEnv("DEFAULT_STORAGE_NAME", "Genel"),
		WasteStorageName:   getEnv("WASTE_STORAGE_NAME", "Fire"),

		AccessStrict: getEnvAsBool("ACCESS_STRICT", false),

		SnowflakeNode:    int64(getEnvAsInt("SNOWFLAKE_NODE", 1)),
		NotificationCron: getEnv("NOTIFICATION_CRON", "*/15 * * * *"),

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: getEnvAsInt("SMTP_PORT", 587),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASS", ""),
		SMTPFrom: getEnv("SMTP_FROM", "servis@localhost"),
	}
	return cfg
}

// MailEnabled SMTP ayarları yapılmışsa true döner.
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvAsInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getEnvAsBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvAsDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
