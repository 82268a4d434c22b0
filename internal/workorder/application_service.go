package workorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"servis-backend/internal/audit"
	"servis-backend/internal/auth"
	"servis-backend/internal/cache"
	"servis-backend/internal/inventory"
	"servis-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrApplicationNotFound = errors.New("uygulama bulunamadı")
	ErrWorkOrderNotFound   = errors.New("iş emri bulunamadı")
	ErrProductNotFound     = errors.New("ürün bulunamadı")
)

type CreateApplicationInput struct {
	WorkOrderID           uint       `json:"work_order_id" validate:"required"`
	ProductID             uint       `json:"product_id" validate:"required"`
	Name                  string     `json:"name" validate:"required"`
	Description           string     `json:"description"`
	Price                 float64    `json:"price" validate:"gte=0"`
	Amount                *float64   `json:"amount" validate:"required,gte=0"`
	Wastage               float64    `json:"wastage" validate:"gte=0"`
	StartedAt             *time.Time `json:"started_at"`
	FinishedAt            *time.Time `json:"finished_at"`
	ApplicantID           *uint      `json:"applicant_id"`
	ApplicationTypeID     *uint      `json:"application_type_id"`
	ApplicationLocationID *uint      `json:"application_location_id"`
}

// ApplicationPatch güncellenebilir alanlar. Miktar ve ürün oluşturulduktan sonra değişmez.
type ApplicationPatch struct {
	Name                  *string    `json:"name" validate:"omitempty,min=1"`
	Description           *string    `json:"description"`
	Price                 *float64   `json:"price" validate:"omitempty,gte=0"`
	Wastage               *float64   `json:"wastage" validate:"omitempty,gte=0"`
	StartedAt             *time.Time `json:"started_at"`
	FinishedAt            *time.Time `json:"finished_at"`
	ApplicantID           *uint      `json:"applicant_id"`
	ApplicationTypeID     *uint      `json:"application_type_id"`
	ApplicationLocationID *uint      `json:"application_location_id"`
}

// ApplicationService uygulama yazma işlemlerini ve depo defteri mutabakatını
// tek transaction içinde yürütür.
type ApplicationService struct {
	DB     *gorm.DB
	Ledger *inventory.Ledger
	Cache  cache.StockCache
	Logger *zap.Logger
	Now    func() time.Time
}

func NewApplicationService(db *gorm.DB, ledger *inventory.Ledger, stockCache cache.StockCache, logger *zap.Logger) *ApplicationService {
	if stockCache == nil {
		stockCache = cache.NopCache{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ApplicationService{
		DB:     db,
		Ledger: ledger,
		Cache:  stockCache,
		Logger: logger.Named("application"),
		Now:    time.Now,
	}
}

func actorLog(s *auth.Session, opts audit.LogOptions) audit.LogOptions {
	if s != nil {
		opts.UserID = s.UserID
		opts.UserName = s.Username
	}
	return opts
}

func (svc *ApplicationService) Create(ctx context.Context, s *auth.Session, in CreateApplicationInput) (*models.Application, error) {
	app := models.Application{
		WorkOrderID:           in.WorkOrderID,
		ProductID:             in.ProductID,
		Name:                  in.Name,
		Description:           in.Description,
		Price:                 in.Price,
		Wastage:               in.Wastage,
		StartedAt:             in.StartedAt,
		FinishedAt:            in.FinishedAt,
		ApplicantID:           in.ApplicantID,
		ApplicationTypeID:     in.ApplicationTypeID,
		ApplicationLocationID: in.ApplicationLocationID,
	}
	if in.Amount != nil {
		app.Amount = *in.Amount
	}
	if s != nil {
		uid := s.UserID
		app.CreatorID = &uid
	}
	guard := CanUpdateApplication(ApplicationUpdateContext{
		NewStartedAt:   in.StartedAt,
		NewFinishedAt:  in.FinishedAt,
		NewApplicantID: in.ApplicantID,
	})
	if err := guard.Error(); err != nil {
		return nil, err
	}

	now := svc.Now()
	err := svc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var woCount int64
		if err := tx.Model(&models.WorkOrder{}).Where("id = ?", app.WorkOrderID).Count(&woCount).Error; err != nil {
			return err
		}
		if woCount == 0 {
			return ErrWorkOrderNotFound
		}
		var productCount int64
		if err := tx.Model(&models.Product{}).Where("id = ?", app.ProductID).Count(&productCount).Error; err != nil {
			return err
		}
		if productCount == 0 {
			return ErrProductNotFound
		}

		if err := tx.Omit(clause.Associations).Create(&app).Error; err != nil {
			return fmt.Errorf("uygulama oluşturulamadı: %w", err)
		}
		if err := svc.Ledger.RecordConsumption(tx, &app, now); err != nil {
			return err
		}
		if err := svc.Ledger.ReconcileWastage(tx, &app, 0, app.Wastage, now); err != nil {
			return err
		}

		return audit.WriteLog(tx, actorLog(s, audit.LogOptions{
			EntityType:  "application",
			EntityID:    app.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("Uygulama eklendi: %s", app.Name),
			After:       app,
		}))
	})
	if err != nil {
		return nil, err
	}

	svc.Cache.Invalidate(ctx, app.ProductID)
	svc.Logger.Info("uygulama oluşturuldu",
		zap.Uint("application_id", app.ID),
		zap.Uint("work_order_id", app.WorkOrderID),
		zap.Uint("product_id", app.ProductID),
		zap.Float64("amount", app.Amount),
	)
	return &app, nil
}

func (svc *ApplicationService) Update(ctx context.Context, s *auth.Session, id uint, patch ApplicationPatch) (*models.Application, error) {
	var app models.Application
	now := svc.Now()

	err := svc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Fire farkı satır kilidi altında hesaplanır
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&app, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}
		before := app

		guard := CanUpdateApplication(ApplicationUpdateContext{
			StartedAt:      app.StartedAt,
			FinishedAt:     app.FinishedAt,
			ApplicantID:    app.ApplicantID,
			NewStartedAt:   patch.StartedAt,
			NewFinishedAt:  patch.FinishedAt,
			NewApplicantID: patch.ApplicantID,
		})
		if err := guard.Error(); err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if patch.Name != nil {
			updates["name"] = *patch.Name
			app.Name = *patch.Name
		}
		if patch.Description != nil {
			updates["description"] = *patch.Description
			app.Description = *patch.Description
		}
		if patch.Price != nil {
			updates["price"] = *patch.Price
			app.Price = *patch.Price
		}
		if patch.StartedAt != nil {
			updates["started_at"] = *patch.StartedAt
			app.StartedAt = patch.StartedAt
		}
		if patch.FinishedAt != nil {
			updates["finished_at"] = *patch.FinishedAt
			app.FinishedAt = patch.FinishedAt
		}
		if patch.ApplicantID != nil {
			updates["applicant_id"] = *patch.ApplicantID
			app.ApplicantID = patch.ApplicantID
		}
		if patch.ApplicationTypeID != nil {
			updates["application_type_id"] = *patch.ApplicationTypeID
			app.ApplicationTypeID = patch.ApplicationTypeID
		}
		if patch.ApplicationLocationID != nil {
			updates["application_location_id"] = *patch.ApplicationLocationID
			app.ApplicationLocationID = patch.ApplicationLocationID
		}
		if patch.Wastage != nil && *patch.Wastage != app.Wastage {
			if err := svc.Ledger.ReconcileWastage(tx, &app, app.Wastage, *patch.Wastage, now); err != nil {
				return err
			}
			updates["wastage"] = *patch.Wastage
			app.Wastage = *patch.Wastage
		}

		if len(updates) == 0 {
			return nil
		}
		if err := tx.Model(&models.Application{}).Where("id = ?", app.ID).Updates(updates).Error; err != nil {
			return fmt.Errorf("uygulama güncellenemedi: %w", err)
		}

		return audit.WriteLog(tx, actorLog(s, audit.LogOptions{
			EntityType:  "application",
			EntityID:    app.ID,
			Action:      models.AuditActionUpdate,
			Description: fmt.Sprintf("Uygulama güncellendi: %s", app.Name),
			Before:      before,
			After:       app,
		}))
	})
	if err != nil {
		return nil, err
	}

	svc.Cache.Invalidate(ctx, app.ProductID)
	return &app, nil
}

// Delete uygulamayı, depo hareketlerini ve dosya bağlantılarını birlikte kaldırır.
func (svc *ApplicationService) Delete(ctx context.Context, s *auth.Session, id uint) error {
	var app models.Application
	err := svc.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&app, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrApplicationNotFound
			}
			return err
		}
		if err := svc.deleteInTx(tx, &app); err != nil {
			return err
		}
		return audit.WriteLog(tx, actorLog(s, audit.LogOptions{
			EntityType:  "application",
			EntityID:    app.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("Uygulama silindi: %s", app.Name),
			Before:      app,
		}))
	})
	if err != nil {
		return err
	}

	svc.Cache.Invalidate(ctx, app.ProductID)
	return nil
}

func (svc *ApplicationService) deleteInTx(tx *gorm.DB, app *models.Application) error {
	removed, err := svc.Ledger.ReverseApplication(tx, app.ID)
	if err != nil {
		return err
	}
	if err := tx.Model(&models.File{}).Where("application_id = ?", app.ID).Update("application_id", nil).Error; err != nil {
		return fmt.Errorf("dosya bağlantıları kaldırılamadı: %w", err)
	}
	if err := tx.Delete(&models.Application{}, app.ID).Error; err != nil {
		return fmt.Errorf("uygulama silinemedi: %w", err)
	}
	svc.Logger.Info("uygulama silindi",
		zap.Uint("application_id", app.ID),
		zap.Int64("removed_movements", removed),
	)
	return nil
}
