package inventory

import (
	"context"

	"servis-backend/internal/cache"

	"gorm.io/gorm"
)

// StockReader ana depo stoğunu önbellek üzerinden okur; önbellekte yoksa defterden hesaplar.
type StockReader struct {
	Ledger *Ledger
	Cache  cache.StockCache
}

func NewStockReader(ledger *Ledger, c cache.StockCache) *StockReader {
	if c == nil {
		c = cache.NopCache{}
	}
	return &StockReader{Ledger: ledger, Cache: c}
}

func (r *StockReader) CurrentStock(ctx context.Context, db *gorm.DB, productID uint) (float64, error) {
	stocks, err := r.CurrentStocks(ctx, db, []uint{productID})
	if err != nil {
		return 0, err
	}
	return stocks[productID], nil
}

func (r *StockReader) CurrentStocks(ctx context.Context, db *gorm.DB, productIDs []uint) (map[uint]float64, error) {
	out := make(map[uint]float64, len(productIDs))
	missing := make([]uint, 0, len(productIDs))
	for _, id := range productIDs {
		if v, ok := r.Cache.Get(ctx, id); ok {
			out[id] = v
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out, nil
	}

	// nesil hesaplamadan önce okunur; arada temizlenirse Set yazmaz
	gens := make(map[uint]int64, len(missing))
	for _, id := range missing {
		gens[id] = r.Cache.Generation(ctx, id)
	}

	computed, err := r.Ledger.CurrentStocks(db.WithContext(ctx), missing)
	if err != nil {
		return nil, err
	}
	for _, id := range missing {
		v := computed[id]
		out[id] = v
		r.Cache.Set(ctx, id, gens[id], v)
	}
	return out, nil
}

func (r *StockReader) Invalidate(ctx context.Context, productIDs ...uint) {
	r.Cache.Invalidate(ctx, productIDs...)
}
