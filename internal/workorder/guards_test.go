package workorder

import (
	"errors"
	"testing"
	"time"
)

func uintPtr(v uint) *uint { return &v }

func TestCanUpdateApplication(t *testing.T) {
	start := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	before := start.Add(-time.Hour)
	after := start.Add(2 * time.Hour)

	tests := []struct {
		name       string
		ctx        ApplicationUpdateContext
		wantAllow  bool
		wantReason string
	}{
		{
			name:      "start with applicant",
			ctx:       ApplicationUpdateContext{NewStartedAt: &start, NewApplicantID: uintPtr(3)},
			wantAllow: true,
		},
		{
			name:       "start without applicant",
			ctx:        ApplicationUpdateContext{NewStartedAt: &start},
			wantReason: "Uygulayıcı zorunlu",
		},
		{
			name:       "start twice",
			ctx:        ApplicationUpdateContext{StartedAt: &start, ApplicantID: uintPtr(3), NewStartedAt: &after, NewApplicantID: uintPtr(3)},
			wantReason: "Uygulama zaten başlatılmış",
		},
		{
			name:       "finish unstarted",
			ctx:        ApplicationUpdateContext{NewFinishedAt: &after, NewApplicantID: uintPtr(3)},
			wantReason: "Uygulama başlatılmamış",
		},
		{
			name:      "start with stored applicant",
			ctx:       ApplicationUpdateContext{ApplicantID: uintPtr(3), NewStartedAt: &start},
			wantAllow: true,
		},
		{
			name:      "finish without applicant in patch",
			ctx:       ApplicationUpdateContext{StartedAt: &start, ApplicantID: uintPtr(3), NewFinishedAt: &after},
			wantAllow: true,
		},
		{
			name:       "finish without any applicant",
			ctx:        ApplicationUpdateContext{StartedAt: &start, NewFinishedAt: &after},
			wantReason: "Uygulayıcı zorunlu",
		},
		{
			name:      "start and finish together",
			ctx:       ApplicationUpdateContext{NewStartedAt: &start, NewFinishedAt: &after, NewApplicantID: uintPtr(3)},
			wantAllow: true,
		},
		{
			name:       "start and finish together reversed",
			ctx:        ApplicationUpdateContext{NewStartedAt: &start, NewFinishedAt: &before, NewApplicantID: uintPtr(3)},
			wantReason: "Bitiş tarihi başlangıç tarihinden önce olamaz",
		},
		{
			name:       "finish twice",
			ctx:        ApplicationUpdateContext{StartedAt: &start, FinishedAt: &after, ApplicantID: uintPtr(3), NewFinishedAt: &after, NewApplicantID: uintPtr(3)},
			wantReason: "Uygulama zaten bitirilmiş",
		},
		{
			name:       "finish before start",
			ctx:        ApplicationUpdateContext{StartedAt: &start, ApplicantID: uintPtr(3), NewFinishedAt: &before, NewApplicantID: uintPtr(3)},
			wantReason: "Bitiş tarihi başlangıç tarihinden önce olamaz",
		},
		{
			name:       "finish with other applicant",
			ctx:        ApplicationUpdateContext{StartedAt: &start, ApplicantID: uintPtr(3), NewFinishedAt: &after, NewApplicantID: uintPtr(4)},
			wantReason: "Uygulayıcı değiştirilemez",
		},
		{
			name:      "finish with same applicant",
			ctx:       ApplicationUpdateContext{StartedAt: &start, ApplicantID: uintPtr(3), NewFinishedAt: &after, NewApplicantID: uintPtr(3)},
			wantAllow: true,
		},
		{
			name:       "change applicant after start",
			ctx:        ApplicationUpdateContext{StartedAt: &start, ApplicantID: uintPtr(3), NewApplicantID: uintPtr(5)},
			wantReason: "Uygulayıcı değiştirilemez",
		},
		{
			name:      "change applicant before start",
			ctx:       ApplicationUpdateContext{ApplicantID: uintPtr(3), NewApplicantID: uintPtr(5)},
			wantAllow: true,
		},
		{
			name:      "no lifecycle change",
			ctx:       ApplicationUpdateContext{StartedAt: &start, ApplicantID: uintPtr(3)},
			wantAllow: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CanUpdateApplication(tt.ctx)
			if got.Allowed != tt.wantAllow {
				t.Fatalf("Allowed = %v, want %v (reason %q)", got.Allowed, tt.wantAllow, got.Reason)
			}
			if tt.wantAllow {
				if err := got.Error(); err != nil {
					t.Errorf("Error() = %v, want nil", err)
				}
				return
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
			if !errors.Is(got.Error(), ErrRejected) {
				t.Errorf("Error() = %v, want ErrRejected", got.Error())
			}
		})
	}
}
