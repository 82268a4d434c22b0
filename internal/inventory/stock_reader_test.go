package inventory

import (
	"context"
	"testing"

	"servis-backend/internal/models"
	"servis-backend/internal/testutil"
)

type memCache struct {
	values map[uint]float64
	gens   map[uint]int64
	gets   int

	// beforeSet hesaplama ile yazma arasına giren bir yazarı taklit eder
	beforeSet func()
}

func newMemCache() *memCache {
	return &memCache{values: map[uint]float64{}, gens: map[uint]int64{}}
}

func (m *memCache) Get(_ context.Context, id uint) (float64, bool) {
	m.gets++
	v, ok := m.values[id]
	return v, ok
}

func (m *memCache) Generation(_ context.Context, id uint) int64 { return m.gens[id] }

func (m *memCache) Set(_ context.Context, id uint, gen int64, v float64) {
	if m.beforeSet != nil {
		hook := m.beforeSet
		m.beforeSet = nil
		hook()
	}
	if m.gens[id] != gen {
		return
	}
	m.values[id] = v
}

func (m *memCache) Invalidate(_ context.Context, ids ...uint) {
	for _, id := range ids {
		m.gens[id]++
		delete(m.values, id)
	}
}

func TestStockReaderCachesAndInvalidates(t *testing.T) {
	db := testutil.NewDB(t)
	l := NewLedger(testutil.DefaultStorage, testutil.WasteStorage)
	generalID, _ := l.StorageID(db, testutil.DefaultStorage)
	c := newMemCache()
	r := NewStockReader(l, c)
	ctx := context.Background()
	productID := newProduct(t, db, "Pasta")

	if err := l.Append(db, &models.StockMovement{ProductID: productID, StorageID: generalID, Amount: 10, MovementType: models.MovementIn}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	got, err := r.CurrentStock(ctx, db, productID)
	if err != nil || got != 10 {
		t.Fatalf("CurrentStock() = %v, %v, want 10", got, err)
	}
	if c.values[productID] != 10 {
		t.Errorf("cached = %v, want 10", c.values[productID])
	}

	if err := l.Append(db, &models.StockMovement{ProductID: productID, StorageID: generalID, Amount: 3, MovementType: models.MovementOut}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if got, _ := r.CurrentStock(ctx, db, productID); got != 10 {
		t.Errorf("stale read = %v, want cached 10", got)
	}

	r.Invalidate(ctx, productID)
	if got, _ := r.CurrentStock(ctx, db, productID); got != 7 {
		t.Errorf("after invalidate = %v, want 7", got)
	}
}

func TestStockReaderDropsSetAfterInvalidate(t *testing.T) {
	db := testutil.NewDB(t)
	l := NewLedger(testutil.DefaultStorage, testutil.WasteStorage)
	generalID, _ := l.StorageID(db, testutil.DefaultStorage)
	c := newMemCache()
	r := NewStockReader(l, c)
	ctx := context.Background()
	productID := newProduct(t, db, "Cila")

	if err := l.Append(db, &models.StockMovement{ProductID: productID, StorageID: generalID, Amount: 10, MovementType: models.MovementIn}); err != nil {
		t.Fatalf("Append: %v", err)
	}

	// okuyucu 10 hesapladıktan sonra yazar commit edip temizler
	c.beforeSet = func() {
		if err := l.Append(db, &models.StockMovement{ProductID: productID, StorageID: generalID, Amount: 4, MovementType: models.MovementOut}); err != nil {
			t.Fatalf("Append: %v", err)
		}
		r.Invalidate(ctx, productID)
	}

	got, err := r.CurrentStock(ctx, db, productID)
	if err != nil || got != 10 {
		t.Fatalf("CurrentStock() = %v, %v, want 10", got, err)
	}
	if v, ok := c.values[productID]; ok {
		t.Fatalf("stale value %v cached after invalidate", v)
	}

	if got, _ := r.CurrentStock(ctx, db, productID); got != 6 {
		t.Errorf("CurrentStock() = %v, want 6", got)
	}
	if c.values[productID] != 6 {
		t.Errorf("cached = %v, want 6", c.values[productID])
	}
}
