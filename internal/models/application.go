package models

import "time"

// Application: iş emri içindeki tek bir hizmet kalemi.
// Amount oluşturulduktan sonra değişmez; Wastage (fire) sonradan düzeltilebilir.
type Application struct {
	ID                    uint                 `gorm:"primaryKey" json:"id"`
	WorkOrderID           uint                 `gorm:"index;not null" json:"work_order_id"`
	ProductID             uint                 `gorm:"index;not null" json:"product_id"`
	Product               *Product             `json:"product,omitempty"`
	Name                  string               `gorm:"size:150;not null" json:"name"`
	Description           string               `gorm:"size:500" json:"description"`
	Price                 float64              `gorm:"not null;default:0" json:"price"`
	Amount                float64              `gorm:"not null;default:0" json:"amount"`
	Wastage               float64              `gorm:"not null;default:0" json:"wastage"`
	StartedAt             *time.Time           `json:"started_at"`
	FinishedAt            *time.Time           `json:"finished_at"`
	ApplicantID           *uint                `gorm:"index" json:"applicant_id"`
	Applicant             *User                `json:"applicant,omitempty"`
	CreatorID             *uint                `gorm:"index" json:"creator_id"`
	ApplicationTypeID     *uint                `gorm:"index" json:"application_type_id"`
	ApplicationType       *ApplicationType     `json:"application_type,omitempty"`
	ApplicationLocationID *uint                `gorm:"index" json:"application_location_id"`
	ApplicationLocation   *ApplicationLocation `json:"application_location,omitempty"`
	CreatedAt             time.Time            `json:"created_at"`
	UpdatedAt             time.Time            `json:"updated_at"`
}
