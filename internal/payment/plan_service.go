package payment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servis-backend/internal/audit"
	"servis-backend/internal/auth"
	"servis-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrPlanNotFound      = errors.New("ödeme planı bulunamadı")
	ErrWorkOrderHasPlan  = errors.New("iş emrinin zaten bir ödeme planı var")
	ErrWorkOrderNotFound = errors.New("iş emri bulunamadı")
)

type CreatePlanInput struct {
	Name           string `json:"name" validate:"required"`
	WorkOrderID    *uint  `json:"work_order_id"`
	Periods        int    `json:"periods" validate:"required,min=1"`
	PeriodDuration int    `json:"period_duration" validate:"required,min=1"`
}

type PlanPatch struct {
	Name           *string `json:"name" validate:"omitempty,min=1"`
	WorkOrderID    *uint   `json:"work_order_id"`
	Periods        *int    `json:"periods" validate:"omitempty,min=1"`
	PeriodDuration *int    `json:"period_duration" validate:"omitempty,min=1"`
}

// PlanView plan ve hesaplanan tutarları.
type PlanView struct {
	models.PaymentPlan
	Accrual
}

type PlanService struct {
	DB     *gorm.DB
	Logger *zap.Logger
	Now    func() time.Time
}

func NewPlanService(db *gorm.DB, logger *zap.Logger) *PlanService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanService{DB: db, Logger: logger.Named("payment_plan"), Now: time.Now}
}

func actorLog(s *auth.Session, opts audit.LogOptions) audit.LogOptions {
	if s != nil {
		opts.UserID = s.UserID
		opts.UserName = s.Username
	}
	return opts
}

func checkWorkOrder(tx *gorm.DB, workOrderID *uint, exceptPlanID uint) error {
	if workOrderID == nil {
		return nil
	}
	var count int64
	if err := tx.Model(&models.WorkOrder{}).Where("id = ?", *workOrderID).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return ErrWorkOrderNotFound
	}
	if err := tx.Model(&models.PaymentPlan{}).Where("work_order_id = ? AND id <> ?", *workOrderID, exceptPlanID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrWorkOrderHasPlan
	}
	return nil
}

// Create planı ve periyot hatırlatmalarını aynı transaction içinde oluşturur.
func (svc *PlanService) Create(ctx context.Context, s *auth.Session, in CreatePlanInput) (*models.PaymentPlan, error) {
	plan := models.PaymentPlan{
		Name:           in.Name,
		WorkOrderID:    in.WorkOrderID,
		Periods:        in.Periods,
		PeriodDuration: in.PeriodDuration,
	}
	now := svc.Now()

	var created int
	err := svc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkWorkOrder(tx, plan.WorkOrderID, 0); err != nil {
			return err
		}
		if err := tx.Omit(clause.Associations).Create(&plan).Error; err != nil {
			return fmt.Errorf("ödeme planı oluşturulamadı: %w", err)
		}
		notifications, err := regenerateNotifications(tx, &plan, now)
		if err != nil {
			return fmt.Errorf("hatırlatmalar oluşturulamadı: %w", err)
		}
		created = len(notifications)
		return audit.WriteLog(tx, actorLog(s, audit.LogOptions{
			EntityType:  "payment_plan",
			EntityID:    plan.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Ödeme planı oluşturuldu: %s", plan.Name),
			After:       plan,
		}))
	})
	if err != nil {
		return nil, err
	}

	svc.Logger.Info("ödeme planı oluşturuldu", zap.Uint("plan_id", plan.ID), zap.Int("notifications", created))
	return &plan, nil
}

// Update planı günceller ve hatırlatmaları yeni periyotlara göre baştan üretir.
func (svc *PlanService) Update(ctx context.Context, s *auth.Session, id uint, patch PlanPatch) (*models.PaymentPlan, error) {
	var plan models.PaymentPlan
	now := svc.Now()

	err := svc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&plan, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlanNotFound
			}
			return err
		}
		before := plan

		updates := map[string]interface{}{}
		if patch.Name != nil {
			updates["name"] = *patch.Name
			plan.Name = *patch.Name
		}
		if patch.WorkOrderID != nil {
			if err := checkWorkOrder(tx, patch.WorkOrderID, plan.ID); err != nil {
				return err
			}
			updates["work_order_id"] = *patch.WorkOrderID
			plan.WorkOrderID = patch.WorkOrderID
		}
		if patch.Periods != nil {
			updates["periods"] = *patch.Periods
			plan.Periods = *patch.Periods
		}
		if patch.PeriodDuration != nil {
			updates["period_duration"] = *patch.PeriodDuration
			plan.PeriodDuration = *patch.PeriodDuration
		}
		if len(updates) > 0 {
			if err := tx.Model(&models.PaymentPlan{}).Where("id = ?", plan.ID).Updates(updates).Error; err != nil {
				return fmt.Errorf("ödeme planı güncellenemedi: %w", err)
			}
		}

		if _, err := regenerateNotifications(tx, &plan, now); err != nil {
			return fmt.Errorf("hatırlatmalar yenilenemedi: %w", err)
		}
		return audit.WriteLog(tx, actorLog(s, audit.LogOptions{
			EntityType:  "payment_plan",
			EntityID:    plan.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Ödeme planı güncellendi: %s", plan.Name),
			Before:      before,
			After:       plan,
		}))
	})
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// Delete planı ve hatırlatmalarını siler; ödemeler plandan ayrılır.
func (svc *PlanService) Delete(ctx context.Context, s *auth.Session, id uint) error {
	return svc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var plan models.PaymentPlan
		if err := tx.First(&plan, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPlanNotFound
			}
			return err
		}
		if err := tx.Where("payment_plan_id = ?", plan.ID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Payment{}).Where("payment_plan_id = ?", plan.ID).Update("payment_plan_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Delete(&plan).Error; err != nil {
			return fmt.Errorf("ödeme planı silinemedi: %w", err)
		}
		return audit.WriteLog(tx, actorLog(s, audit.LogOptions{
			EntityType:  "payment_plan",
			EntityID:    plan.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Ödeme planı silindi: %s", plan.Name),
			Before:      plan,
		}))
	})
}

// Accrual planın iş emrindeki uygulama fiyatları ve ödemelerinden tutarları hesaplar.
func (svc *PlanService) Accrual(ctx context.Context, plan *models.PaymentPlan) Accrual {
	db := svc.DB.WithContext(ctx)

	prices := []float64{}
	if plan.WorkOrderID != nil {
		if err := db.Model(&models.Application{}).Where("work_order_id = ?", *plan.WorkOrderID).Pluck("price", &prices).Error; err != nil {
			svc.Logger.Warn("ödeme planı tutarı hesaplanamadı", zap.Uint("plan_id", plan.ID), zap.Error(err))
			return FailedAccrual(err)
		}
	}
	paid := []float64{}
	if err := db.Model(&models.Payment{}).Where("payment_plan_id = ?", plan.ID).Pluck("amount", &paid).Error; err != nil {
		svc.Logger.Warn("ödemeler okunamadı", zap.Uint("plan_id", plan.ID), zap.Error(err))
		return FailedAccrual(err)
	}
	return ComputeAccrual(prices, paid, plan.Periods)
}

func (svc *PlanService) Get(ctx context.Context, id uint) (*PlanView, error) {
	var plan models.PaymentPlan
	if err := svc.DB.WithContext(ctx).Preload("Payments", func(db *gorm.DB) *gorm.DB {
		return db.Order("date asc")
	}).First(&plan, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}
	return &PlanView{PaymentPlan: plan, Accrual: svc.Accrual(ctx, &plan)}, nil
}

func (svc *PlanService) List(ctx context.Context, workOrderID uint) ([]PlanView, error) {
	q := svc.DB.WithContext(ctx).Model(&models.PaymentPlan{})
	if workOrderID > 0 {
		q = q.Where("work_order_id = ?", workOrderID)
	}
	var plans []models.PaymentPlan
	if err := q.Order("id desc").Find(&plans).Error; err != nil {
		return nil, err
	}
	out := make([]PlanView, 0, len(plans))
	for i := range plans {
		out = append(out, PlanView{PaymentPlan: plans[i], Accrual: svc.Accrual(ctx, &plans[i])})
	}
	return out, nil
}
