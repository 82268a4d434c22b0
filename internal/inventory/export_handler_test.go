package inventory

import (
	"testing"
	"time"

	"servis-backend/internal/models"
)

func TestWriteMovementsSheet(t *testing.T) {
	appID := uint(12)
	movements := []models.StockMovement{
		{
			ID:            1,
			Date:          time.Date(2024, 2, 1, 10, 30, 0, 0, time.UTC),
			Product:       &models.Product{Name: "Seramik kaplama"},
			Storage:       &models.Storage{Name: "Genel"},
			Amount:        2.5,
			MovementType:  models.MovementOut,
			ApplicationID: &appID,
		},
	}

	f, err := WriteMovementsSheet(movements)
	if err != nil {
		t.Fatalf("WriteMovementsSheet() error = %v", err)
	}
	defer f.Close()

	tests := []struct {
		cell string
		want string
	}{
		{"A1", "ID"},
		{"B2", "2024-02-01 10:30"},
		{"C2", "Seramik kaplama"},
		{"D2", "Genel"},
		{"E2", "Çıkış"},
		{"F2", "2.5"},
		{"H2", "12"},
	}
	for _, tt := range tests {
		got, err := f.GetCellValue("Hareketler", tt.cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s) error = %v", tt.cell, err)
		}
		if got != tt.want {
			t.Errorf("%s = %q, want %q", tt.cell, got, tt.want)
		}
	}
}

func TestWriteStockSheet(t *testing.T) {
	products := []models.Product{{ID: 4, Name: "Cam filmi", Status: models.ProductStatusActive, PricedBy: models.PricedByLength}}
	f, err := WriteStockSheet(products, map[uint]float64{4: 31})
	if err != nil {
		t.Fatalf("WriteStockSheet() error = %v", err)
	}
	defer f.Close()

	got, _ := f.GetCellValue("Stok", "G2")
	if got != "31" {
		t.Errorf("G2 = %q, want 31", got)
	}
}
