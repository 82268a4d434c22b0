package models

import "time"

type CarBrand struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Name      string     `gorm:"size:100;not null" json:"name"`
	CarModels []CarModel `json:"car_models,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type CarModel struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"size:100;not null" json:"name"`
	CarBrandID *uint     `gorm:"index" json:"car_brand_id"`
	CarBrand   *CarBrand `json:"car_brand,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Car struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	VIN          string    `gorm:"size:50" json:"vin"`
	LicensePlate string    `gorm:"size:20;not null;index" json:"license_plate"`
	CarModelID   *uint     `gorm:"index" json:"car_model_id"`
	CarModel     *CarModel `json:"car_model,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type ProductBrand struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ApplicationType struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ApplicationLocation: uygulamanın araç üzerindeki yeri (ör: ön cam, kaput)
type ApplicationLocation struct {
	ID               uint              `gorm:"primaryKey" json:"id"`
	Name             string            `gorm:"size:100;not null" json:"name"`
	ApplicationTypes []ApplicationType `gorm:"many2many:application_location_types" json:"application_types,omitempty"`
	CreatedAt        time.Time         `json:"created_at"`
	UpdatedAt        time.Time         `json:"updated_at"`
}

// Ad alanı üzerinden yönetilen basit listeler için yardımcılar
func (b *CarBrand) SetName(name string)        { b.Name = name }
func (b *ProductBrand) SetName(name string)    { b.Name = name }
func (t *ApplicationType) SetName(name string) { t.Name = name }

func (b *CarBrand) GetID() uint        { return b.ID }
func (b *ProductBrand) GetID() uint    { return b.ID }
func (t *ApplicationType) GetID() uint { return t.ID }
