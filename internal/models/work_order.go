package models

import "time"

type WorkOrderStatus string

const (
	WorkOrderActive    WorkOrderStatus = "active"
	WorkOrderInactive  WorkOrderStatus = "inactive"
	WorkOrderCompleted WorkOrderStatus = "completed"
	WorkOrderCanceled  WorkOrderStatus = "canceled"
	WorkOrderOffer     WorkOrderStatus = "offer" // teklif
)

func (s WorkOrderStatus) Valid() bool {
	switch s {
	case WorkOrderActive, WorkOrderInactive, WorkOrderCompleted, WorkOrderCanceled, WorkOrderOffer:
		return true
	}
	return false
}

// WorkOrder: iş emri. startedAt/finishedAt alanları uygulamalardan hesaplanır, saklanmaz.
type WorkOrder struct {
	ID           uint            `gorm:"primaryKey" json:"id"`
	Number       string          `gorm:"size:30;uniqueIndex;not null" json:"number"`
	Status       WorkOrderStatus `gorm:"size:20;not null;default:inactive;index" json:"status"`
	CreatorID    *uint           `gorm:"index" json:"creator_id"`
	CustomerID   *uint           `gorm:"index" json:"customer_id"`
	Customer     *User           `json:"customer,omitempty"`
	CarID        *uint           `gorm:"index" json:"car_id"`
	Car          *Car            `json:"car,omitempty"`
	Reduction    float64         `gorm:"not null;default:0" json:"reduction"` // indirim
	QCDone       bool            `gorm:"column:qc_done;not null;default:false" json:"qc_done"`
	QCUserID     *uint           `gorm:"column:qc_user_id;index" json:"qc_user_id"`
	CheckDate    *time.Time      `json:"check_date"`
	CheckDone    bool            `gorm:"not null;default:false" json:"check_done"`
	Applications []Application   `json:"applications,omitempty"`
	Notes        []Note          `json:"notes,omitempty"`
	CreatedAt    time.Time       `gorm:"index" json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

type Note struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Note        string    `gorm:"type:text;not null" json:"note"`
	WorkOrderID *uint     `gorm:"index" json:"work_order_id"`
	CreatorID   *uint     `gorm:"index" json:"creator_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// File: iş emri, uygulama veya ürüne bağlı yüklenmiş dosya
type File struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	URL           string    `gorm:"size:500" json:"url"`
	ApplicationID *uint     `gorm:"index" json:"application_id"`
	WorkOrderID   *uint     `gorm:"index" json:"work_order_id"`
	ProductID     *uint     `gorm:"index" json:"product_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
