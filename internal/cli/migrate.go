package cli

import (
	"fmt"

	"servis-backend/internal/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// MigrateCmd tabloları oluşturur veya günceller.
func MigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Veritabanı tablolarını oluştur / güncelle",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDB()
			if err != nil {
				return err
			}
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migration başarısız: %w", err)
			}
			fmt.Println(color.New(color.FgGreen).Sprint("✓"), "migration tamamlandı")
			return nil
		},
	}
}

// SeedCmd varsayılan depoları ve belge türlerini ekler.
func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Ana depo, fire deposu ve temel belge türlerini ekle",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDB()
			if err != nil {
				return err
			}
			if err := database.Seed(db, cfg.DefaultStorageName, cfg.WasteStorageName); err != nil {
				return fmt.Errorf("seed başarısız: %w", err)
			}
			fmt.Printf("%s depolar hazır: %s, %s\n", color.New(color.FgGreen).Sprint("✓"), cfg.DefaultStorageName, cfg.WasteStorageName)
			return nil
		},
	}
}
