package core

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"iso", "2025-11-03", "2025-11-03", false},
		{"iso with spaces", "  2025-11-03 ", "2025-11-03", false},
		{"slashes", "2025/11/03", "2025-11-03", false},
		{"slashes no padding", "2025/1/3", "2025-01-03", false},
		{"compact", "20251103", "2025-11-03", false},
		{"empty", "", "", true},
		{"garbage", "yesterday", "", true},
		{"impossible day", "2025-02-30", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := ParseDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrValidation) {
					t.Errorf("error %v is not a validation error", err)
				}
				return
			}
			if got := d.ISO(); got != tt.want {
				t.Errorf("ParseDate(%q).ISO() = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewRevenueRecord(t *testing.T) {
	date := NewDate(2025, time.November, 1)

	if _, err := NewRevenueRecord(date, decimal.NewFromInt(-1)); !errors.Is(err, ErrNegativeAmount) {
		t.Errorf("negative amount error = %v, want ErrNegativeAmount", err)
	}
	if _, err := NewRevenueRecord(Date{}, decimal.NewFromInt(100)); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("zero date error = %v, want ErrInvalidDate", err)
	}

	rec, err := NewRevenueRecord(date, decimal.Zero)
	if err != nil {
		t.Fatalf("zero amount should be valid, got %v", err)
	}
	if !rec.Amount.IsZero() || rec.Date != date {
		t.Errorf("unexpected record: %+v", rec)
	}
}

func TestNewSettings(t *testing.T) {
	tests := []struct {
		name      string
		target    int64
		bonus     int64
		title     string
		wantErr   error
		wantTitle string
	}{
		{"valid", 500000, 5000, "Premio estivo", nil, "Premio estivo"},
		{"blank title falls back", 500000, 5000, "   ", nil, DefaultBonusTitle},
		{"zero values allowed", 0, 0, "x", nil, "x"},
		{"negative target", -1, 5000, "x", ErrNegativeTarget, ""},
		{"negative bonus", 500000, -1, "x", ErrNegativeBonus, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSettings(tt.target, tt.bonus, tt.title)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				if !errors.Is(err, ErrValidation) {
					t.Errorf("error %v is not a validation error", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if s.BonusTitle != tt.wantTitle {
				t.Errorf("title = %q, want %q", s.BonusTitle, tt.wantTitle)
			}
		})
	}
}

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()
	if s.TargetMonthly != 600000 || s.BonusAmount != 6000 || s.BonusTitle != DefaultBonusTitle {
		t.Errorf("unexpected defaults: %+v", s)
	}
}
