package workorder

import (
	"time"

	"servis-backend/internal/models"
)

// Timeline iş emrinin uygulamalardan türetilen başlangıç ve bitişi.
type Timeline struct {
	StartedAt  *time.Time `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at"`
}

// DeriveTimeline en erken başlangıcı ve, bütün uygulamalar bitmişse, en geç bitişi döner.
func DeriveTimeline(apps []models.Application) Timeline {
	var tl Timeline
	if len(apps) == 0 {
		return tl
	}

	allFinished := true
	for _, a := range apps {
		if a.StartedAt != nil && (tl.StartedAt == nil || a.StartedAt.Before(*tl.StartedAt)) {
			s := *a.StartedAt
			tl.StartedAt = &s
		}
		if a.FinishedAt == nil {
			allFinished = false
			continue
		}
		if tl.FinishedAt == nil || a.FinishedAt.After(*tl.FinishedAt) {
			f := *a.FinishedAt
			tl.FinishedAt = &f
		}
	}
	if !allFinished {
		tl.FinishedAt = nil
	}
	return tl
}
