package payment

import (
	"time"

	"servis-backend/internal/models"

	"gorm.io/gorm"
)

const DueMessage = "Ödeme tarihi"

var dueNotifyRoles = models.RoleList{models.RoleAdmin}

// PeriodDates ilk taksit hariç, her periyot için hatırlatma tarihini döner:
// i = 1..periods-1 için now + i*periodDuration gün.
func PeriodDates(now time.Time, periods, periodDuration int) []time.Time {
	if periods <= 1 {
		return nil
	}
	step := time.Duration(periodDuration) * 24 * time.Hour
	dates := make([]time.Time, 0, periods-1)
	for i := 1; i < periods; i++ {
		dates = append(dates, now.Add(time.Duration(i)*step))
	}
	return dates
}

// regenerateNotifications planın bütün hatırlatmalarını silip yeniden oluşturur.
func regenerateNotifications(tx *gorm.DB, plan *models.PaymentPlan, now time.Time) ([]models.Notification, error) {
	if err := tx.Where("payment_plan_id = ?", plan.ID).Delete(&models.Notification{}).Error; err != nil {
		return nil, err
	}

	dates := PeriodDates(now, plan.Periods, plan.PeriodDuration)
	if len(dates) == 0 {
		return nil, nil
	}

	planID := plan.ID
	notifications := make([]models.Notification, 0, len(dates))
	for _, d := range dates {
		notifications = append(notifications, models.Notification{
			Date:          d,
			Message:       DueMessage,
			PaymentPlanID: &planID,
			WorkOrderID:   plan.WorkOrderID,
			NotifyRoles:   dueNotifyRoles,
		})
	}
	if err := tx.Create(&notifications).Error; err != nil {
		return nil, err
	}
	return notifications, nil
}
