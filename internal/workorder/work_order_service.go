package workorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servis-backend/internal/audit"
	"servis-backend/internal/auth"
	"servis-backend/internal/idgen"
	"servis-backend/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrStatusForbidden = errors.New("iş emri durumunu değiştirme yetkiniz yok")

type CreateWorkOrderInput struct {
	CustomerID *uint                  `json:"customer_id"`
	CarID      *uint                  `json:"car_id"`
	Status     models.WorkOrderStatus `json:"status" validate:"omitempty,oneof=active inactive completed canceled offer"`
	Reduction  float64                `json:"reduction" validate:"gte=0"`
	CheckDate  *time.Time             `json:"check_date"`
}

type WorkOrderPatch struct {
	CustomerID *uint                   `json:"customer_id"`
	CarID      *uint                   `json:"car_id"`
	Status     *models.WorkOrderStatus `json:"status" validate:"omitempty,oneof=active inactive completed canceled offer"`
	Reduction  *float64                `json:"reduction" validate:"omitempty,gte=0"`
	QCDone     *bool                   `json:"qc_done"`
	QCUserID   *uint                   `json:"qc_user_id"`
	CheckDate  *time.Time              `json:"check_date"`
	CheckDone  *bool                   `json:"check_done"`
}

// WorkOrderDetail iş emri ve türetilen zaman çizelgesi.
type WorkOrderDetail struct {
	models.WorkOrder
	Timeline
}

type WorkOrderFilter struct {
	Status     string
	CustomerID uint
	CarID      uint
}

type WorkOrderService struct {
	DB           *gorm.DB
	Applications *ApplicationService
	Access       auth.Access
}

func NewWorkOrderService(db *gorm.DB, apps *ApplicationService, access auth.Access) *WorkOrderService {
	return &WorkOrderService{DB: db, Applications: apps, Access: access}
}

func (svc *WorkOrderService) Create(ctx context.Context, s *auth.Session, in CreateWorkOrderInput) (*models.WorkOrder, error) {
	wo := models.WorkOrder{
		Number:     idgen.WorkOrderNumber(),
		Status:     models.WorkOrderInactive,
		CustomerID: in.CustomerID,
		CarID:      in.CarID,
		Reduction:  in.Reduction,
		CheckDate:  in.CheckDate,
	}
	if in.Status != "" {
		if in.Status != models.WorkOrderInactive && !svc.Access.CanChangeWorkOrderStatus(s) {
			return nil, ErrStatusForbidden
		}
		wo.Status = in.Status
	}
	if s != nil {
		uid := s.UserID
		wo.CreatorID = &uid
	}

	err := svc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&wo).Error; err != nil {
			return fmt.Errorf("iş emri oluşturulamadı: %w", err)
		}
		return audit.WriteLog(tx, actorLog(s, audit.LogOptions{
			EntityType:  "work_order",
			EntityID:    wo.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("İş emri oluşturuldu: %s", wo.Number),
			After:       wo,
		}))
	})
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

func (svc *WorkOrderService) Get(ctx context.Context, id uint) (*WorkOrderDetail, error) {
	var wo models.WorkOrder
	err := svc.DB.WithContext(ctx).
		Preload("Customer").
		Preload("Car").
		Preload("Car.CarModel").
		Preload("Applications", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at desc") }).
		First(&wo, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkOrderNotFound
		}
		return nil, err
	}
	return &WorkOrderDetail{WorkOrder: wo, Timeline: DeriveTimeline(wo.Applications)}, nil
}

func (svc *WorkOrderService) List(ctx context.Context, f WorkOrderFilter) ([]WorkOrderDetail, error) {
	q := svc.DB.WithContext(ctx).Model(&models.WorkOrder{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.CustomerID > 0 {
		q = q.Where("customer_id = ?", f.CustomerID)
	}
	if f.CarID > 0 {
		q = q.Where("car_id = ?", f.CarID)
	}

	var orders []models.WorkOrder
	if err := q.Preload("Customer").Preload("Car").Preload("Applications").Order("created_at desc").Find(&orders).Error; err != nil {
		return nil, err
	}

	out := make([]WorkOrderDetail, 0, len(orders))
	for _, wo := range orders {
		out = append(out, WorkOrderDetail{WorkOrder: wo, Timeline: DeriveTimeline(wo.Applications)})
	}
	return out, nil
}

func (svc *WorkOrderService) Update(ctx context.Context, s *auth.Session, id uint, patch WorkOrderPatch) (*models.WorkOrder, error) {
	if patch.Status != nil && !svc.Access.CanChangeWorkOrderStatus(s) {
		return nil, ErrStatusForbidden
	}

	var wo models.WorkOrder
	err := svc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&wo, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWorkOrderNotFound
			}
			return err
		}
		before := wo

		updates := map[string]interface{}{}
		if patch.CustomerID != nil {
			updates["customer_id"] = *patch.CustomerID
			wo.CustomerID = patch.CustomerID
		}
		if patch.CarID != nil {
			updates["car_id"] = *patch.CarID
			wo.CarID = patch.CarID
		}
		if patch.Status != nil {
			updates["status"] = *patch.Status
			wo.Status = *patch.Status
		}
		if patch.Reduction != nil {
			updates["reduction"] = *patch.Reduction
			wo.Reduction = *patch.Reduction
		}
		if patch.QCDone != nil {
			updates["qc_done"] = *patch.QCDone
			wo.QCDone = *patch.QCDone
		}
		if patch.QCUserID != nil {
			updates["qc_user_id"] = *patch.QCUserID
			wo.QCUserID = patch.QCUserID
		}
		if patch.CheckDate != nil {
			updates["check_date"] = *patch.CheckDate
			wo.CheckDate = patch.CheckDate
		}
		if patch.CheckDone != nil {
			updates["check_done"] = *patch.CheckDone
			wo.CheckDone = *patch.CheckDone
		}
		if len(updates) == 0 {
			return nil
		}

		if err := tx.Model(&models.WorkOrder{}).Where("id = ?", wo.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("iş emri güncellenemedi: %w", err)
		}
		return audit.WriteLog(tx, actorLog(s, audit.LogOptions{
			EntityType:  "work_order",
			EntityID:    wo.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("İş emri güncellendi: %s", wo.Number),
			Before:      before,
			After:       wo,
		}))
	})
	if err != nil {
		return nil, err
	}
	return &wo, nil
}

// Delete iş emrini uygulamaları (ve depo hareketleri), notları ve hatırlatmalarıyla
// birlikte siler. Dosyalar ve ödeme planı iş emrinden ayrılır.
func (svc *WorkOrderService) Delete(ctx context.Context, s *auth.Session, id uint) error {
	var (
		wo         models.WorkOrder
		productIDs []uint
	)
	err := svc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&wo, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWorkOrderNotFound
			}
			return err
		}

		var apps []models.Application
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).Where("work_order_id = ?", wo.ID).Find(&apps).Error; err != nil {
			return err
		}
		for i := range apps {
			if err := svc.Applications.deleteInTx(tx, &apps[i]); err != nil {
				return err
			}
			productIDs = append(productIDs, apps[i].ProductID)
		}

		if err := tx.Where("work_order_id = ?", wo.ID).Delete(&models.Note{}).Error; err != nil {
			return fmt.Errorf("notlar silinemedi: %w", err)
		}
		if err := tx.Where("work_order_id = ?", wo.ID).Delete(&models.Notification{}).Error; err != nil {
			return fmt.Errorf("hatırlatmalar silinemedi: %w", err)
		}
		if err := tx.Model(&models.File{}).Where("work_order_id = ?", wo.ID).Update("work_order_id", nil).Error; err != nil {
			return fmt.Errorf("dosya bağlantıları kaldırılamadı: %w", err)
		}
		if err := tx.Model(&models.PaymentPlan{}).Where("work_order_id = ?", wo.ID).Update("work_order_id", nil).Error; err != nil {
			return fmt.Errorf("ödeme planı ayrılamadı: %w", err)
		}
		if err := tx.Delete(&models.WorkOrder{}, wo.ID).Error; err != nil {
			return fmt.Errorf("iş emri silinemedi: %w", err)
		}

		return audit.WriteLog(tx, actorLog(s, audit.LogOptions{
			EntityType:  "work_order",
			EntityID:    wo.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("İş emri silindi: %s (%d uygulama)", wo.Number, len(apps)),
			Before:      wo,
		}))
	})
	if err != nil {
		return err
	}

	svc.Applications.Cache.Invalidate(ctx, productIDs...)
	return nil
}
