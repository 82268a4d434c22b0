package models

import "time"

type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "aktif"
	ProductStatusPassive  ProductStatus = "pasif"
	ProductStatusCanceled ProductStatus = "iptal"
)

type PricedBy string

const (
	PricedByAmount PricedBy = "amount" // adet
	PricedByLength PricedBy = "length" // uzunluk (metre)
)

// Product: currentStock burada tutulmaz, depo hareketlerinden hesaplanır.
type Product struct {
	ID                uint             `gorm:"primaryKey" json:"id"`
	Name              string           `gorm:"size:150;not null" json:"name"`
	Description       string           `gorm:"size:500" json:"description"`
	Price             float64          `gorm:"not null;default:0" json:"price"`
	Status            ProductStatus    `gorm:"size:20;not null;default:aktif" json:"status"`
	Code              string           `gorm:"size:50;index" json:"code"`
	EAN               string           `gorm:"size:20;index" json:"ean"`
	PricedBy          PricedBy         `gorm:"size:20;not null;default:amount" json:"priced_by"`
	WarrantyTime      *float64         `json:"warranty_time"` // ay
	Color             string           `gorm:"size:50" json:"color"`
	Width             *float64         `json:"width"`
	Length            *float64         `json:"length"`
	ProductBrandID    *uint            `gorm:"index" json:"product_brand_id"`
	ProductBrand      *ProductBrand    `json:"product_brand,omitempty"`
	ApplicationTypeID *uint            `gorm:"index" json:"application_type_id"`
	ApplicationType   *ApplicationType `json:"application_type,omitempty"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}
