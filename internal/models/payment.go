package models

import "time"

// PaymentPlan: iş emrine bağlı taksit planı. toPay/nextPayment/completed hesaplanır.
type PaymentPlan struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Name           string     `gorm:"size:150;not null" json:"name"`
	WorkOrderID    *uint      `gorm:"uniqueIndex" json:"work_order_id"`
	WorkOrder      *WorkOrder `json:"work_order,omitempty"`
	Periods        int        `gorm:"not null;default:1" json:"periods"`          // taksit sayısı
	PeriodDuration int        `gorm:"not null;default:30" json:"period_duration"` // taksitler arası gün
	Payments       []Payment  `json:"payments,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

type PaymentType string

const (
	PaymentCash       PaymentType = "nakit"
	PaymentCreditCard PaymentType = "kredi kartı"
	PaymentTransfer   PaymentType = "havale"
	PaymentCheque     PaymentType = "çek"
	PaymentBond       PaymentType = "senet"
	PaymentDebitCard  PaymentType = "banka kartı"
)

func (t PaymentType) Valid() bool {
	switch t {
	case PaymentCash, PaymentCreditCard, PaymentTransfer, PaymentCheque, PaymentBond, PaymentDebitCard:
		return true
	}
	return false
}

type Payment struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	Amount        float64     `gorm:"not null" json:"amount"`
	PaymentPlanID *uint       `gorm:"index" json:"payment_plan_id"`
	Reference     string      `gorm:"size:100" json:"reference"`
	Type          PaymentType `gorm:"size:20;not null;default:nakit" json:"type"`
	Date          time.Time   `gorm:"index;not null" json:"date"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// Notification: planlanmış hatırlatma. Handled kullanıcı onayıdır,
// DispatchedAt ise hatırlatmanın e-posta ile gönderildiği an.
type Notification struct {
	ID            uint       `gorm:"primaryKey" json:"id"`
	Date          time.Time  `gorm:"index;not null" json:"date"`
	Message       string     `gorm:"size:500;not null" json:"message"`
	PaymentPlanID *uint      `gorm:"index" json:"payment_plan_id"`
	WorkOrderID   *uint      `gorm:"index" json:"work_order_id"`
	Link          string     `gorm:"size:500" json:"link"`
	Handled       bool       `gorm:"not null;default:false;index" json:"handled"`
	NotifyRoles   RoleList   `gorm:"size:100" json:"notify_roles"`
	DispatchedAt  *time.Time `json:"dispatched_at"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}
