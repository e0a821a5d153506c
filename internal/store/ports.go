// Package store persists revenue records and the settings singleton.
//
// Records are keyed by ISO date (YYYY-MM-DD), one per calendar day; writes to
// an existing date overwrite it. Settings are a single document created with
// defaults on first read. Three backends implement the same port (memory,
// MongoDB, SQLite); Cached decorates any of them with TTL read caches.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"incassi/internal/core"
)

// Store is the record store port shared by all backends.
type Store interface {
	// GetSettings returns the settings singleton, creating and persisting
	// defaults when none exist. Never returns partial state.
	GetSettings(ctx context.Context) (core.Settings, error)

	// SaveSettings persists the settings singleton.
	SaveSettings(ctx context.Context, s core.Settings) error

	// MonthRecords returns all records of the given month sorted by date
	// ascending. An empty month yields an empty slice, not an error.
	MonthRecords(ctx context.Context, year int, month time.Month) ([]core.RevenueRecord, error)

	// UpsertRecord writes or overwrites the record for date, stamping the
	// write time. Negative amounts fail validation and write nothing.
	UpsertRecord(ctx context.Context, date core.Date, amount decimal.Decimal) error
}

// monthKey is the cache/query key for one calendar month.
func monthKey(year int, month time.Month) string {
	return fmt.Sprintf("%04d-%02d", year, month)
}

// monthBounds returns the inclusive ISO date range covering a month. The
// upper bound uses day 31 unconditionally: ISO strings order lexicographically
// and no month has a 32nd day, so the range is always tight.
func monthBounds(year int, month time.Month) (string, string) {
	prefix := monthKey(year, month)
	return prefix + "-01", prefix + "-31"
}
