// Package workorder iş emri, uygulama, not ve dosya işlemlerini içerir.
// Guard fonksiyonları yan etkisizdir, yazmadan önce değerlendirilir.
package workorder

import (
	"errors"
	"fmt"
	"time"
)

// ErrRejected guard tarafından reddedilen isteklerin ortak hatası.
var ErrRejected = errors.New("istek reddedildi")

type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error izin yoksa ErrRejected'i saran bir hata döner.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrRejected, r.Reason)
}

// ApplicationUpdateContext mevcut kayıt ve istenen değişiklik.
type ApplicationUpdateContext struct {
	StartedAt   *time.Time
	FinishedAt  *time.Time
	ApplicantID *uint

	NewStartedAt   *time.Time
	NewFinishedAt  *time.Time
	NewApplicantID *uint
}

func sameID(a, b *uint) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// CanUpdateApplication uygulama güncellemesinin yaşam döngüsü kurallarını kontrol eder.
// Yeni kayıtta önceki durum boş verilir.
// Kurallar:
//   - başlatma: daha önce başlatılmamış olmalı, kayıtta ya da istekte uygulayıcı olmalı
//   - bitirme: başlatılmış (aynı istekte de olabilir) ve bitmemiş olmalı, uygulayıcı olmalı,
//     bitiş başlangıçtan önce olamaz
//   - başlatılmış uygulamanın uygulayıcısı değiştirilemez
func CanUpdateApplication(ctx ApplicationUpdateContext) GuardResult {
	applicant := ctx.NewApplicantID
	if applicant == nil {
		applicant = ctx.ApplicantID
	}

	if ctx.NewStartedAt != nil {
		if ctx.StartedAt != nil {
			return GuardResult{Reason: "Uygulama zaten başlatılmış"}
		}
		if applicant == nil {
			return GuardResult{Reason: "Uygulayıcı zorunlu"}
		}
	}

	if ctx.NewFinishedAt != nil {
		started := ctx.StartedAt
		if started == nil {
			started = ctx.NewStartedAt
		}
		if started == nil {
			return GuardResult{Reason: "Uygulama başlatılmamış"}
		}
		if applicant == nil {
			return GuardResult{Reason: "Uygulayıcı zorunlu"}
		}
		if ctx.FinishedAt != nil {
			return GuardResult{Reason: "Uygulama zaten bitirilmiş"}
		}
		if ctx.NewFinishedAt.Before(*started) {
			return GuardResult{Reason: "Bitiş tarihi başlangıç tarihinden önce olamaz"}
		}
	}

	if ctx.StartedAt != nil && ctx.NewApplicantID != nil && !sameID(ctx.NewApplicantID, ctx.ApplicantID) {
		return GuardResult{Reason: "Uygulayıcı değiştirilemez"}
	}

	return GuardResult{Allowed: true}
}
