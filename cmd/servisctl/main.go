package main

import (
	"fmt"
	"os"

	"servis-backend/internal/cli"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "servisctl",
		Short: "Servis backend yönetim aracı",
		Long: `servisctl veritabanı kurulumu, ilk admin oluşturma ve
stok sorgulama gibi yönetim işlerini API'yi açmadan yapar.`,
	}

	rootCmd.AddCommand(cli.MigrateCmd())
	rootCmd.AddCommand(cli.SeedCmd())
	rootCmd.AddCommand(cli.CreateAdminCmd())
	rootCmd.AddCommand(cli.StockCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
