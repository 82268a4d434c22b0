package inventory

import (
	"errors"
	"fmt"
	"time"

	"servis-backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrStorageNotFound = errors.New("depo bulunamadı")
	ErrInvalidAmount   = errors.New("miktar negatif olamaz")
)

// Ledger uygulama yaşam döngüsünü depo hareketlerine çevirir.
// Bütün yazma metotları çağıranın transaction'ı (tx) içinde çalışır.
type Ledger struct {
	DefaultStorage string
	WasteStorage   string
}

func NewLedger(defaultStorage, wasteStorage string) *Ledger {
	return &Ledger{DefaultStorage: defaultStorage, WasteStorage: wasteStorage}
}

// StorageID isme göre depo id'si döner; yoksa ErrStorageNotFound.
func (l *Ledger) StorageID(db *gorm.DB, name string) (uint, error) {
	var s models.Storage
	err := db.Where("name = ?", name).Order("id asc").Limit(1).Find(&s).Error
	if err != nil {
		return 0, fmt.Errorf("depo aranamadı (%s): %w", name, err)
	}
	if s.ID == 0 {
		return 0, fmt.Errorf("%w: %s", ErrStorageNotFound, name)
	}
	return s.ID, nil
}

// Append tek bir hareket kaydı ekler.
func (l *Ledger) Append(tx *gorm.DB, m *models.StockMovement) error {
	if m.Amount < 0 {
		return ErrInvalidAmount
	}
	if !m.MovementType.Valid() {
		return fmt.Errorf("geçersiz hareket tipi: %q", m.MovementType)
	}
	if m.Date.IsZero() {
		m.Date = time.Now()
	}
	if err := tx.Omit("Product", "Storage", "DocumentType", "Customer").Create(m).Error; err != nil {
		return fmt.Errorf("depo hareketi kaydedilemedi: %w", err)
	}
	return nil
}

func (l *Ledger) appendFor(tx *gorm.DB, app *models.Application, storageID uint, amount float64, t models.MovementType, now time.Time) error {
	appID := app.ID
	return l.Append(tx, &models.StockMovement{
		ProductID:     app.ProductID,
		StorageID:     storageID,
		Amount:        amount,
		MovementType:  t,
		Date:          now,
		ApplicationID: &appID,
	})
}

// RecordConsumption yeni oluşturulan uygulamanın miktarını ana depodan düşer.
func (l *Ledger) RecordConsumption(tx *gorm.DB, app *models.Application, now time.Time) error {
	if app.Amount == 0 {
		return nil
	}
	if app.Amount < 0 {
		return ErrInvalidAmount
	}
	storageID, err := l.StorageID(tx, l.DefaultStorage)
	if err != nil {
		return err
	}
	return l.appendFor(tx, app, storageID, app.Amount, models.MovementOut, now)
}

// ReconcileWastage fire değişimini iki hareketle deftere yansıtır.
// Artış: fireye giriş, ana depodan çıkış. Azalış: fireden çıkış, ana depoya giriş.
func (l *Ledger) ReconcileWastage(tx *gorm.DB, app *models.Application, previous, next float64, now time.Time) error {
	if next < 0 {
		return ErrInvalidAmount
	}
	if next == previous {
		return nil
	}

	defaultID, err := l.StorageID(tx, l.DefaultStorage)
	if err != nil {
		return err
	}
	wasteID, err := l.StorageID(tx, l.WasteStorage)
	if err != nil {
		return err
	}

	if next > previous {
		delta := next - previous
		if err := l.appendFor(tx, app, wasteID, delta, models.MovementIn, now); err != nil {
			return err
		}
		return l.appendFor(tx, app, defaultID, delta, models.MovementOut, now)
	}

	delta := previous - next
	if err := l.appendFor(tx, app, wasteID, delta, models.MovementOut, now); err != nil {
		return err
	}
	return l.appendFor(tx, app, defaultID, delta, models.MovementIn, now)
}

// ReverseApplication uygulamaya ait bütün hareketleri siler.
func (l *Ledger) ReverseApplication(tx *gorm.DB, applicationID uint) (int64, error) {
	res := tx.Where("application_id = ?", applicationID).Delete(&models.StockMovement{})
	if res.Error != nil {
		return 0, fmt.Errorf("depo hareketleri silinemedi: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// SignedSum girişleri toplar, çıkışları düşer.
func SignedSum(movements []models.StockMovement) float64 {
	var total float64
	for _, m := range movements {
		switch m.MovementType {
		case models.MovementIn:
			total += m.Amount
		case models.MovementOut:
			total -= m.Amount
		}
	}
	return total
}

func (l *Ledger) movements(db *gorm.DB, productIDs []uint, storageID uint) ([]models.StockMovement, error) {
	var ms []models.StockMovement
	q := db.Model(&models.StockMovement{}).Select("product_id", "storage_id", "amount", "movement_type")
	if productIDs != nil {
		q = q.Where("product_id IN ?", productIDs)
	}
	if storageID != 0 {
		q = q.Where("storage_id = ?", storageID)
	}
	if err := q.Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("depo hareketleri okunamadı: %w", err)
	}
	return ms, nil
}

// CurrentStock ürünün ana depodaki stoğu. Ana depo yoksa 0 döner.
func (l *Ledger) CurrentStock(db *gorm.DB, productID uint) (float64, error) {
	stocks, err := l.CurrentStocks(db, []uint{productID})
	if err != nil {
		return 0, err
	}
	return stocks[productID], nil
}

// CurrentStocks birden çok ürün için ana depo stoğu. productIDs nil ise tüm ürünler.
func (l *Ledger) CurrentStocks(db *gorm.DB, productIDs []uint) (map[uint]float64, error) {
	out := make(map[uint]float64)
	storageID, err := l.StorageID(db, l.DefaultStorage)
	if errors.Is(err, ErrStorageNotFound) {
		return out, nil
	}
	if err != nil {
		return nil, err
	}

	ms, err := l.movements(db, productIDs, storageID)
	if err != nil {
		return nil, err
	}
	byProduct := make(map[uint][]models.StockMovement)
	for _, m := range ms {
		byProduct[m.ProductID] = append(byProduct[m.ProductID], m)
	}
	for id, list := range byProduct {
		out[id] = SignedSum(list)
	}
	return out, nil
}

type StorageStock struct {
	StorageID   uint    `json:"storage_id"`
	StorageName string  `json:"storage_name"`
	Stock       float64 `json:"stock"`
}

// StockByStorage ürünün her depodaki stoğu, depo id sırasıyla.
func (l *Ledger) StockByStorage(db *gorm.DB, productID uint) ([]StorageStock, error) {
	var storages []models.Storage
	if err := db.Order("id asc").Find(&storages).Error; err != nil {
		return nil, fmt.Errorf("depolar okunamadı: %w", err)
	}
	ms, err := l.movements(db, []uint{productID}, 0)
	if err != nil {
		return nil, err
	}
	byStorage := make(map[uint][]models.StockMovement)
	for _, m := range ms {
		byStorage[m.StorageID] = append(byStorage[m.StorageID], m)
	}

	out := make([]StorageStock, 0, len(storages))
	for _, s := range storages {
		out = append(out, StorageStock{
			StorageID:   s.ID,
			StorageName: s.Name,
			Stock:       SignedSum(byStorage[s.ID]),
		})
	}
	return out, nil
}
