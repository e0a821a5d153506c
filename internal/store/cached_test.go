package store

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"incassi/internal/core"
)

// countingStore wraps Memory and counts backend reads.
type countingStore struct {
	*Memory
	settingsReads atomic.Int64
	monthReads    atomic.Int64
}

func (c *countingStore) GetSettings(ctx context.Context) (core.Settings, error) {
	c.settingsReads.Add(1)
	return c.Memory.GetSettings(ctx)
}

func (c *countingStore) MonthRecords(ctx context.Context, year int, month time.Month) ([]core.RevenueRecord, error) {
	c.monthReads.Add(1)
	return c.Memory.MonthRecords(ctx, year, month)
}

func TestCachedServesFromCache(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{Memory: NewMemory(nil)}
	now := time.Date(2025, time.November, 10, 9, 0, 0, 0, time.UTC)
	cached := NewCached(backend, time.Minute, func() time.Time { return now })

	for i := 0; i < 3; i++ {
		if _, err := cached.GetSettings(ctx); err != nil {
			t.Fatal(err)
		}
		if _, err := cached.MonthRecords(ctx, 2025, time.November); err != nil {
			t.Fatal(err)
		}
	}

	if got := backend.settingsReads.Load(); got != 1 {
		t.Errorf("settings backend reads = %d, want 1", got)
	}
	if got := backend.monthReads.Load(); got != 1 {
		t.Errorf("month backend reads = %d, want 1", got)
	}
}

func TestCachedExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{Memory: NewMemory(nil)}
	now := time.Date(2025, time.November, 10, 9, 0, 0, 0, time.UTC)
	cached := NewCached(backend, time.Minute, func() time.Time { return now })

	if _, err := cached.MonthRecords(ctx, 2025, time.November); err != nil {
		t.Fatal(err)
	}
	now = now.Add(61 * time.Second)
	if _, err := cached.MonthRecords(ctx, 2025, time.November); err != nil {
		t.Fatal(err)
	}

	if got := backend.monthReads.Load(); got != 2 {
		t.Errorf("month backend reads = %d, want 2 after TTL expiry", got)
	}
}

func TestCachedReadAfterWrite(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{Memory: NewMemory(nil)}
	cached := NewCached(backend, time.Hour, nil)
	d, _ := core.ParseDate("2025-11-10")

	// Warm the month cache, then write through and read again.
	if _, err := cached.MonthRecords(ctx, 2025, time.November); err != nil {
		t.Fatal(err)
	}
	if err := cached.UpsertRecord(ctx, d, decimal.NewFromInt(4200)); err != nil {
		t.Fatal(err)
	}

	records, err := cached.MonthRecords(ctx, 2025, time.November)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 || !records[0].Amount.Equal(decimal.NewFromInt(4200)) {
		t.Fatalf("read after write = %v, want the new record", records)
	}

	// A write in another month must not invalidate this one.
	other, _ := core.ParseDate("2025-12-01")
	reads := backend.monthReads.Load()
	if err := cached.UpsertRecord(ctx, other, decimal.NewFromInt(1)); err != nil {
		t.Fatal(err)
	}
	if _, err := cached.MonthRecords(ctx, 2025, time.November); err != nil {
		t.Fatal(err)
	}
	if backend.monthReads.Load() != reads {
		t.Error("write to a different month invalidated the cached view")
	}
}

func TestCachedSettingsInvalidation(t *testing.T) {
	ctx := context.Background()
	backend := &countingStore{Memory: NewMemory(nil)}
	cached := NewCached(backend, time.Hour, nil)

	if _, err := cached.GetSettings(ctx); err != nil {
		t.Fatal(err)
	}

	updated, err := core.NewSettings(700000, 7000, "Premio invernale")
	if err != nil {
		t.Fatal(err)
	}
	if err := cached.SaveSettings(ctx, updated); err != nil {
		t.Fatal(err)
	}

	s, err := cached.GetSettings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s != updated {
		t.Errorf("settings after save = %+v, want %+v", s, updated)
	}
}
