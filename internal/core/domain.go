package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Settings defaults, applied when no settings document exists yet.
const (
	DefaultTargetMonthly int64 = 600000
	DefaultBonusAmount   int64 = 6000
	DefaultBonusTitle          = "Premio squadra"
)

var (
	// ErrValidation is the root of all input validation failures.
	ErrValidation = errors.New("validation failed")

	ErrNegativeAmount = fmt.Errorf("%w: amount cannot be negative", ErrValidation)
	ErrInvalidAmount  = fmt.Errorf("%w: amount is not a number", ErrValidation)
	ErrInvalidDate    = fmt.Errorf("%w: invalid date", ErrValidation)
	ErrNegativeTarget = fmt.Errorf("%w: monthly target cannot be negative", ErrValidation)
	ErrNegativeBonus  = fmt.Errorf("%w: bonus amount cannot be negative", ErrValidation)

	// ErrStorageUnavailable marks a storage backend that cannot be reached.
	// Fatal to the current operation, never silently swallowed.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

type (
	// Date is a calendar date with no time component. The zero value is invalid.
	Date struct {
		time.Time
	}

	// RevenueRecord is one day's takings. At most one record exists per date;
	// writes to an existing date overwrite the amount (last write wins).
	RevenueRecord struct {
		Date      Date
		Amount    decimal.Decimal
		UpdatedAt time.Time
	}

	// Settings is the process-wide singleton target/bonus configuration.
	Settings struct {
		TargetMonthly int64
		BonusAmount   int64
		BonusTitle    string
	}
)

// NewDate creates a Date from year, month and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's own location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// dateLayouts are the accepted textual date formats, ISO first.
var dateLayouts = []string{"2006-01-02", "2006/01/02", "2006/1/2", "20060102"}

// ParseDate parses a calendar date string. ISO (YYYY-MM-DD) is the canonical
// form; a few common variants are tolerated for bulk input.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return DateOf(t), nil
		}
	}
	return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

// ISO returns the date formatted as YYYY-MM-DD, the storage key format.
func (d Date) ISO() string {
	return d.Format("2006-01-02")
}

// InMonth reports whether the date falls in the given year and month.
func (d Date) InMonth(year int, month time.Month) bool {
	return d.Year() == year && d.Month() == month
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// NewRevenueRecord builds a validated record. The amount must be non-negative;
// UpdatedAt is stamped by the store on write, not here.
func NewRevenueRecord(date Date, amount decimal.Decimal) (RevenueRecord, error) {
	if err := date.Validate(); err != nil {
		return RevenueRecord{}, err
	}
	if amount.IsNegative() {
		return RevenueRecord{}, ErrNegativeAmount
	}
	return RevenueRecord{Date: date, Amount: amount}, nil
}

// DefaultSettings returns the settings used when none have been saved yet.
func DefaultSettings() Settings {
	return Settings{
		TargetMonthly: DefaultTargetMonthly,
		BonusAmount:   DefaultBonusAmount,
		BonusTitle:    DefaultBonusTitle,
	}
}

// NewSettings validates target and bonus and substitutes the default title
// when the given one is blank.
func NewSettings(targetMonthly, bonusAmount int64, bonusTitle string) (Settings, error) {
	if targetMonthly < 0 {
		return Settings{}, ErrNegativeTarget
	}
	if bonusAmount < 0 {
		return Settings{}, ErrNegativeBonus
	}
	bonusTitle = strings.TrimSpace(bonusTitle)
	if bonusTitle == "" {
		bonusTitle = DefaultBonusTitle
	}
	return Settings{
		TargetMonthly: targetMonthly,
		BonusAmount:   bonusAmount,
		BonusTitle:    bonusTitle,
	}, nil
}

// Normalized returns a copy with the default title substituted for a blank
// one. Used when reading documents written by older clients.
func (s Settings) Normalized() Settings {
	if strings.TrimSpace(s.BonusTitle) == "" {
		s.BonusTitle = DefaultBonusTitle
	}
	return s
}
