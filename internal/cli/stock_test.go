package cli

import (
	"bytes"
	"strings"
	"testing"

	"servis-backend/internal/inventory"
	"servis-backend/internal/models"

	"github.com/fatih/color"
)

func TestPrintStock(t *testing.T) {
	color.NoColor = true

	var buf bytes.Buffer
	rows := []inventory.StorageStock{
		{StorageID: 1, StorageName: "Genel", Stock: 12},
		{StorageID: 2, StorageName: "Fire", Stock: 3.5},
	}
	printStock(&buf, models.Product{Name: "PPF Folyo", Code: "PPF-1"}, rows, 12)

	out := buf.String()
	for _, want := range []string{"PPF Folyo [PPF-1]", "Genel", "12.00", "Fire", "3.50", "Kullanılabilir stok: 12.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
