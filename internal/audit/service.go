package audit

import (
	"encoding/json"
	"fmt"
	"time"

	"servis-backend/internal/models"

	"gorm.io/gorm"
)

type LogOptions struct {
	UserID      uint
	UserName    string
	EntityType  string
	EntityID    uint
	Action      models.AuditAction
	Description string
	Before      any
	After       any
}

// WriteLog verilen bağlantı veya transaction üzerinden audit kaydı yazar.
func WriteLog(db *gorm.DB, opts LogOptions) error {
	beforeStr := "null"
	afterStr := "null"

	if opts.Before != nil {
		if b, err := json.Marshal(opts.Before); err == nil {
			beforeStr = string(b)
		}
	}
	if opts.After != nil {
		if b, err := json.Marshal(opts.After); err == nil {
			afterStr = string(b)
		}
	}

	log := models.AuditLog{
		UserID:      opts.UserID,
		UserName:    opts.UserName,
		EntityType:  opts.EntityType,
		EntityID:    opts.EntityID,
		Action:      opts.Action,
		Description: opts.Description,
		BeforeData:  beforeStr,
		AfterData:   afterStr,
	}

	if err := db.Create(&log).Error; err != nil {
		return fmt.Errorf("audit log kaydedilemedi: %w", err)
	}
	return nil
}

// Geri alınabilen entity tipleri. Depo hareketi üreten kayıtlar (uygulama,
// stok hareketi) defter tutarlılığı için bu listede yok.
var undoable = map[string]func() any{
	"payment": func() any { return &models.Payment{} },
	"note":    func() any { return &models.Note{} },
	"car":     func() any { return &models.Car{} },
}

func IsUndoable(entityType string) bool {
	_, ok := undoable[entityType]
	return ok
}

// UndoLog bir audit log'u geri alır.
func UndoLog(db *gorm.DB, logID uint, userID uint, userName string) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var log models.AuditLog
		if err := tx.First(&log, "id = ?", logID).Error; err != nil {
			return fmt.Errorf("log bulunamadı: %w", err)
		}

		if log.IsUndone {
			return fmt.Errorf("bu işlem zaten geri alınmış")
		}
		newEntity, ok := undoable[log.EntityType]
		if !ok {
			return fmt.Errorf("bu kayıt türü geri alınamaz: %s", log.EntityType)
		}

		switch log.Action {
		case models.AuditActionCreate:
			if err := tx.Delete(newEntity(), "id = ?", log.EntityID).Error; err != nil {
				return fmt.Errorf("entity silinemedi: %w", err)
			}

		case models.AuditActionUpdate:
			if err := restore(tx, newEntity(), log.EntityID, log.BeforeData); err != nil {
				return fmt.Errorf("entity geri yüklenemedi: %w", err)
			}

		case models.AuditActionDelete:
			// silinen kayıt Before alanında tutulur
			entity := newEntity()
			if err := json.Unmarshal([]byte(log.BeforeData), entity); err != nil {
				return fmt.Errorf("entity çözümlenemedi: %w", err)
			}
			if err := tx.Create(entity).Error; err != nil {
				return fmt.Errorf("entity geri oluşturulamadı: %w", err)
			}

		default:
			return fmt.Errorf("bu işlem türü geri alınamaz")
		}

		now := time.Now()
		if err := tx.Model(&log).Updates(map[string]interface{}{
			"is_undone": true,
			"undone_by": userID,
			"undone_at": now,
		}).Error; err != nil {
			return fmt.Errorf("log güncellenemedi: %w", err)
		}

		undoLog := models.AuditLog{
			UserID:      userID,
			UserName:    userName,
			EntityType:  log.EntityType,
			EntityID:    log.EntityID,
			Action:      models.AuditActionUndo,
			Description: fmt.Sprintf("Geri alındı: %s", log.Description),
			BeforeData:  log.AfterData,
			AfterData:   log.BeforeData,
			Undone:      true,
		}
		if err := tx.Create(&undoLog).Error; err != nil {
			return fmt.Errorf("undo log kaydedilemedi: %w", err)
		}
		return nil
	})
}

// restore JSON'daki alanları id'si verilen kayda geri yazar.
func restore(tx *gorm.DB, entity any, id uint, dataJSON string) error {
	if err := json.Unmarshal([]byte(dataJSON), entity); err != nil {
		return err
	}
	return tx.Model(entity).Where("id = ?", id).Omit("id", "created_at").Select("*").Updates(entity).Error
}
