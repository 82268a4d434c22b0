package validation

import (
	"errors"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type sampleRequest struct {
	Name   string   `json:"name" validate:"required"`
	Amount *float64 `json:"amount" validate:"required,gte=0"`
	Type   string   `json:"type" validate:"omitempty,oneof=in out"`
}

func TestStruct(t *testing.T) {
	neg := -1.0
	zero := 0.0

	tests := []struct {
		name    string
		req     sampleRequest
		wantErr string
	}{
		{name: "valid", req: sampleRequest{Name: "Cam filmi", Amount: &zero}},
		{name: "missing name", req: sampleRequest{Amount: &zero}, wantErr: "name zorunlu"},
		{name: "missing amount", req: sampleRequest{Name: "x"}, wantErr: "amount zorunlu"},
		{name: "negative amount", req: sampleRequest{Name: "x", Amount: &neg}, wantErr: "amount 0 veya daha büyük olmalı"},
		{name: "bad type", req: sampleRequest{Name: "x", Amount: &zero, Type: "sideways"}, wantErr: "type şu değerlerden biri olmalı"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.req)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Struct() error = %v, want nil", err)
				}
				return
			}
			var fe *fiber.Error
			if !errors.As(err, &fe) {
				t.Fatalf("Struct() error = %v, want *fiber.Error", err)
			}
			if fe.Code != fiber.StatusBadRequest {
				t.Errorf("code = %d, want %d", fe.Code, fiber.StatusBadRequest)
			}
			if !strings.Contains(fe.Message, tt.wantErr) {
				t.Errorf("message = %q, want it to contain %q", fe.Message, tt.wantErr)
			}
		})
	}
}
