package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"incassi/internal/core"
)

func TestMemoryUpsertAndMonthRecords(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)

	dates := []string{"2025-11-03", "2025-11-01", "2025-10-31", "2025-12-01"}
	for i, iso := range dates {
		d, err := core.ParseDate(iso)
		if err != nil {
			t.Fatal(err)
		}
		if err := m.UpsertRecord(ctx, d, decimal.NewFromInt(int64(100*(i+1)))); err != nil {
			t.Fatalf("UpsertRecord(%s): %v", iso, err)
		}
	}

	records, err := m.MonthRecords(ctx, 2025, time.November)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}
	if records[0].Date.ISO() != "2025-11-01" || records[1].Date.ISO() != "2025-11-03" {
		t.Errorf("records not sorted ascending: %s, %s", records[0].Date.ISO(), records[1].Date.ISO())
	}

	empty, err := m.MonthRecords(ctx, 2024, time.June)
	if err != nil {
		t.Fatal(err)
	}
	if len(empty) != 0 {
		t.Errorf("empty month returned %d records", len(empty))
	}
}

func TestMemoryUpsertOverwrites(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)
	d, _ := core.ParseDate("2025-11-05")

	if err := m.UpsertRecord(ctx, d, decimal.NewFromInt(1000)); err != nil {
		t.Fatal(err)
	}
	if err := m.UpsertRecord(ctx, d, decimal.NewFromInt(2500)); err != nil {
		t.Fatal(err)
	}

	records, err := m.MonthRecords(ctx, 2025, time.November)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("got %d records after double write, want 1", len(records))
	}
	if !records[0].Amount.Equal(decimal.NewFromInt(2500)) {
		t.Errorf("amount = %s, want 2500 (last write wins)", records[0].Amount)
	}
}

func TestMemoryUpsertRejectsNegative(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)
	d, _ := core.ParseDate("2025-11-05")

	err := m.UpsertRecord(ctx, d, decimal.NewFromInt(-1))
	if !errors.Is(err, core.ErrNegativeAmount) {
		t.Fatalf("error = %v, want ErrNegativeAmount", err)
	}

	records, _ := m.MonthRecords(ctx, 2025, time.November)
	if len(records) != 0 {
		t.Error("failed write left a record behind")
	}
}

func TestMemorySettingsDefaults(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)

	first, err := m.GetSettings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if first != core.DefaultSettings() {
		t.Errorf("first read = %+v, want defaults", first)
	}

	second, err := m.GetSettings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if second != first {
		t.Errorf("second read = %+v, differs from first %+v", second, first)
	}
}

func TestMemorySaveSettingsNormalizesTitle(t *testing.T) {
	ctx := context.Background()
	m := NewMemory(nil)

	if err := m.SaveSettings(ctx, core.Settings{TargetMonthly: 100, BonusAmount: 10}); err != nil {
		t.Fatal(err)
	}
	s, err := m.GetSettings(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if s.BonusTitle != core.DefaultBonusTitle {
		t.Errorf("title = %q, want default", s.BonusTitle)
	}
}
