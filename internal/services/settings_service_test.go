package services

import (
	"context"
	"errors"
	"testing"

	"incassi/internal/core"
	"incassi/internal/store"
)

func TestSettingsService_Get_Defaults(t *testing.T) {
	svc := NewSettingsService(store.NewMemory(nil))

	got, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != core.DefaultSettings() {
		t.Errorf("Get() = %+v, want defaults %+v", got, core.DefaultSettings())
	}
}

func TestSettingsService_Save(t *testing.T) {
	tests := []struct {
		name    string
		target  int64
		bonus   int64
		title   string
		want    core.Settings
		wantErr error
	}{
		{
			name:   "valid settings persisted",
			target: 700000,
			bonus:  8000,
			title:  "Premio trimestrale",
			want:   core.Settings{TargetMonthly: 700000, BonusAmount: 8000, BonusTitle: "Premio trimestrale"},
		},
		{
			name:   "blank title falls back to default",
			target: 500000,
			bonus:  1000,
			title:  "   ",
			want:   core.Settings{TargetMonthly: 500000, BonusAmount: 1000, BonusTitle: core.DefaultBonusTitle},
		},
		{
			name:    "negative target rejected",
			target:  -1,
			bonus:   1000,
			title:   "x",
			wantErr: core.ErrNegativeTarget,
		},
		{
			name:    "negative bonus rejected",
			target:  600000,
			bonus:   -5,
			title:   "x",
			wantErr: core.ErrNegativeBonus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := store.NewMemory(nil)
			svc := NewSettingsService(mem)

			got, err := svc.Save(context.Background(), tt.target, tt.bonus, tt.title)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Save() error = %v, want %v", err, tt.wantErr)
				}
				// a failed save must not change the stored settings
				stored, _ := mem.GetSettings(context.Background())
				if stored != core.DefaultSettings() {
					t.Errorf("store changed after failed save: %+v", stored)
				}
				return
			}
			if err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Save() = %+v, want %+v", got, tt.want)
			}
			stored, _ := mem.GetSettings(context.Background())
			if stored != tt.want {
				t.Errorf("stored settings = %+v, want %+v", stored, tt.want)
			}
		})
	}
}
