package config

import (
	"testing"
	"time"
)

func TestGetEnvHelpers(t *testing.T) {
	t.Setenv("CFG_STR", "deger")
	t.Setenv("CFG_INT", "42")
	t.Setenv("CFG_BAD_INT", "kırk")
	t.Setenv("CFG_BOOL", "true")
	t.Setenv("CFG_DUR", "90s")

	if got := getEnv("CFG_STR", "x"); got != "deger" {
		t.Errorf("getEnv = %q, want deger", got)
	}
	if got := getEnv("CFG_MISSING", "x"); got != "x" {
		t.Errorf("getEnv default = %q, want x", got)
	}
	if got := getEnvAsInt("CFG_INT", 0); got != 42 {
		t.Errorf("getEnvAsInt = %d, want 42", got)
	}
	if got := getEnvAsInt("CFG_BAD_INT", 7); got != 7 {
		t.Errorf("getEnvAsInt invalid = %d, want default 7", got)
	}
	if got := getEnvAsBool("CFG_BOOL", false); !got {
		t.Error("getEnvAsBool = false, want true")
	}
	if got := getEnvAsDuration("CFG_DUR", time.Second); got != 90*time.Second {
		t.Errorf("getEnvAsDuration = %v, want 90s", got)
	}
}

func TestLoadBase(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("DATABASE_DSN", "file::memory:")
	t.Setenv("ACCESS_STRICT", "1")
	t.Setenv("WASTE_STORAGE_NAME", "Hurda")
	t.Setenv("SMTP_HOST", "")

	cfg := LoadBase()
	if cfg.DBDriver != "sqlite" || cfg.DatabaseDSN != "file::memory:" {
		t.Errorf("db = %s %s", cfg.DBDriver, cfg.DatabaseDSN)
	}
	if !cfg.AccessStrict {
		t.Error("AccessStrict = false, want true")
	}
	if cfg.DefaultStorageName != "Genel" || cfg.WasteStorageName != "Hurda" {
		t.Errorf("storages = %s/%s, want Genel/Hurda", cfg.DefaultStorageName, cfg.WasteStorageName)
	}
	if cfg.NotificationCron != "*/15 * * * *" {
		t.Errorf("NotificationCron = %q", cfg.NotificationCron)
	}
	if cfg.MailEnabled() {
		t.Error("MailEnabled() = true without SMTP_HOST")
	}
}
