package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"servis-backend/internal/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Dispatcher struct {
	DB     *gorm.DB
	Mailer Mailer
	Logger *zap.Logger
	Now    func() time.Time
}

func NewDispatcher(db *gorm.DB, mailer Mailer, logger *zap.Logger) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dispatcher{DB: db, Mailer: mailer, Logger: logger.Named("notify"), Now: time.Now}
}

// recipients rolü listede olan, engellenmemiş ve e-postası olan kullanıcılar.
func (d *Dispatcher) recipients(ctx context.Context, roles models.RoleList) ([]string, error) {
	if len(roles) == 0 {
		return nil, nil
	}
	var emails []string
	err := d.DB.WithContext(ctx).Model(&models.User{}).
		Where("role IN ? AND is_blocked = ? AND email IS NOT NULL AND email <> ''", roles.Strings(), false).
		Order("id asc").
		Pluck("email", &emails).Error
	return emails, err
}

func renderBody(n models.Notification) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<p>%s: %s</p>", n.Message, n.Date.Format("02.01.2006"))
	if n.WorkOrderID != nil {
		fmt.Fprintf(&b, "<p>İş emri #%d</p>", *n.WorkOrderID)
	}
	if n.Link != "" {
		fmt.Fprintf(&b, `<p><a href="%s">%s</a></p>`, n.Link, n.Link)
	}
	return b.String()
}

// DispatchDue zamanı gelmiş, onaylanmamış ve henüz gönderilmemiş bildirimleri
// e-posta ile gönderir. Gönderilen bildirim sayısını döner.
func (d *Dispatcher) DispatchDue(ctx context.Context) (int, error) {
	now := d.Now()

	var due []models.Notification
	err := d.DB.WithContext(ctx).
		Where("date <= ? AND handled = ? AND dispatched_at IS NULL", now, false).
		Order("date asc").
		Find(&due).Error
	if err != nil {
		return 0, err
	}

	sent := 0
	for _, n := range due {
		to, err := d.recipients(ctx, n.NotifyRoles)
		if err != nil {
			return sent, err
		}
		if len(to) == 0 {
			d.Logger.Warn("bildirim için alıcı yok", zap.Uint("notification_id", n.ID))
			continue
		}
		if err := d.Mailer.Send(ctx, to, n.Message, renderBody(n)); err != nil {
			d.Logger.Error("bildirim gönderilemedi", zap.Uint("notification_id", n.ID), zap.Error(err))
			continue
		}
		if err := d.DB.WithContext(ctx).Model(&models.Notification{}).
			Where("id = ?", n.ID).
			Update("dispatched_at", now).Error; err != nil {
			return sent, err
		}
		sent++
	}

	if sent > 0 {
		d.Logger.Info("bildirimler gönderildi", zap.Int("count", sent))
	}
	return sent, nil
}
