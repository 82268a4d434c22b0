package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"servis-backend/internal/inventory"
	"servis-backend/internal/models"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// StockCmd bir ürünün depo bazında stok durumunu hareketlerden hesaplar.
func StockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stock <product-id>",
		Short: "Ürünün depo bazında stok durumunu göster",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("geçersiz ürün id: %s", args[0])
			}
			cfg, db, err := openDB()
			if err != nil {
				return err
			}

			var product models.Product
			if err := db.First(&product, id).Error; err != nil {
				return fmt.Errorf("ürün bulunamadı: %d", id)
			}

			ledger := inventory.NewLedger(cfg.DefaultStorageName, cfg.WasteStorageName)
			rows, err := ledger.StockByStorage(db, product.ID)
			if err != nil {
				return err
			}
			current, err := ledger.CurrentStock(db, product.ID)
			if err != nil {
				return err
			}

			printStock(cmd.OutOrStdout(), product, rows, current)
			return nil
		},
	}
}

func printStock(out io.Writer, product models.Product, rows []inventory.StorageStock, current float64) {
	fmt.Fprintf(out, "%s [%s]\n\n", product.Name, product.Code)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DEPO\tMİKTAR")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%.2f\n", r.StorageName, r.Stock)
	}
	w.Flush()

	total := color.New(color.FgGreen).Sprintf("%.2f", current)
	if current < 0 {
		total = color.New(color.FgRed).Sprintf("%.2f", current)
	}
	fmt.Fprintf(out, "\nKullanılabilir stok: %s\n", total)
}
