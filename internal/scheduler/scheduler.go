package scheduler

import (
	"context"
	"time"

	"servis-backend/internal/notify"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler periyodik işleri (ödeme hatırlatmaları) çalıştırır.
type Scheduler struct {
	cron       *cron.Cron
	dispatcher *notify.Dispatcher
	spec       string
	logger     *zap.Logger
}

func New(spec string, dispatcher *notify.Dispatcher, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Scheduler{
		cron:       cron.New(),
		dispatcher: dispatcher,
		spec:       spec,
		logger:     logger.Named("scheduler"),
	}
}

// Start cron ifadesi geçersizse hata döner, zamanlayıcı başlatılmaz.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.dispatchNotifications); err != nil {
		return err
	}
	s.logger.Info("zamanlayıcı başlatıldı", zap.String("spec", s.spec))
	s.cron.Start()
	return nil
}

// Stop çalışan işlerin bitmesini bekler.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("zamanlayıcı durduruldu")
}

func (s *Scheduler) dispatchNotifications() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if _, err := s.dispatcher.DispatchDue(ctx); err != nil {
		s.logger.Error("bildirim gönderimi başarısız", zap.Error(err))
	}
}
