package models

import "time"

type MovementType string

const (
	MovementIn  MovementType = "in"  // giriş
	MovementOut MovementType = "out" // çıkış
)

func (t MovementType) Valid() bool {
	return t == MovementIn || t == MovementOut
}

// StockMovement: değiştirilemez depo hareketi kaydı. Bir ürünün bir depodaki
// stoğu yalnızca bu kayıtlardan hesaplanır (giriş toplamı - çıkış toplamı).
type StockMovement struct {
	ID             uint          `gorm:"primaryKey" json:"id"`
	ProductID      uint          `gorm:"index:idx_stock_movement_product_storage;not null" json:"product_id"`
	Product        *Product      `json:"product,omitempty"`
	StorageID      uint          `gorm:"index:idx_stock_movement_product_storage;not null" json:"storage_id"`
	Storage        *Storage      `json:"storage,omitempty"`
	Amount         float64       `gorm:"not null" json:"amount"` // her zaman >= 0, yön MovementType ile
	MovementType   MovementType  `gorm:"size:10;not null;default:in" json:"movement_type"`
	DocumentTypeID *uint         `gorm:"index" json:"document_type_id"`
	DocumentType   *DocumentType `json:"document_type,omitempty"`
	Note           string        `gorm:"size:500" json:"note"`
	CustomerID     *uint         `gorm:"index" json:"customer_id"`
	Customer       *User         `json:"customer,omitempty"`
	Date           time.Time     `gorm:"index;not null" json:"date"`
	ApplicationID  *uint         `gorm:"index" json:"application_id"`
	CreatedAt      time.Time     `json:"created_at"`
}
