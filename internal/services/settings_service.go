package services

import (
	"context"
	"fmt"
	"log/slog"

	"incassi/internal/core"
	"incassi/internal/store"
)

// SettingsService is the validating wrapper around the store's settings
// calls. It holds no state of its own.
type SettingsService struct {
	store store.Store
}

func NewSettingsService(s store.Store) *SettingsService {
	return &SettingsService{store: s}
}

// Get returns the current settings, created with defaults when unset.
func (s *SettingsService) Get(ctx context.Context) (core.Settings, error) {
	settings, err := s.store.GetSettings(ctx)
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return settings, nil
}

// Save validates and persists the target/bonus configuration. Negative
// numbers fail validation and leave the store untouched; a blank title falls
// back to the default label.
func (s *SettingsService) Save(ctx context.Context, targetMonthly, bonusAmount int64, bonusTitle string) (core.Settings, error) {
	settings, err := core.NewSettings(targetMonthly, bonusAmount, bonusTitle)
	if err != nil {
		return core.Settings{}, err
	}
	if err := s.store.SaveSettings(ctx, settings); err != nil {
		return core.Settings{}, fmt.Errorf("save settings: %w", err)
	}
	slog.InfoContext(ctx, "Settings saved",
		"target_monthly", settings.TargetMonthly,
		"bonus_amount", settings.BonusAmount,
		"bonus_title", settings.BonusTitle)
	return settings, nil
}
