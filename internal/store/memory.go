package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"incassi/internal/core"
)

// Memory is the in-process backend used for development and tests.
type Memory struct {
	mu       sync.Mutex
	records  map[string]core.RevenueRecord
	settings *core.Settings
	now      func() time.Time
}

// NewMemory creates an empty in-memory store. A nil now falls back to
// time.Now.
func NewMemory(now func() time.Time) *Memory {
	if now == nil {
		now = time.Now
	}
	return &Memory{
		records: make(map[string]core.RevenueRecord),
		now:     now,
	}
}

func (m *Memory) GetSettings(_ context.Context) (core.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.settings == nil {
		s := core.DefaultSettings()
		m.settings = &s
	}
	return *m.settings, nil
}

func (m *Memory) SaveSettings(_ context.Context, s core.Settings) error {
	s = s.Normalized()
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = &s
	return nil
}

func (m *Memory) MonthRecords(_ context.Context, year int, month time.Month) ([]core.RevenueRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := make([]core.RevenueRecord, 0)
	for _, rec := range m.records {
		if rec.Date.InMonth(year, month) {
			records = append(records, rec)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date.Time)
	})
	return records, nil
}

func (m *Memory) UpsertRecord(_ context.Context, date core.Date, amount decimal.Decimal) error {
	rec, err := core.NewRevenueRecord(date, amount)
	if err != nil {
		return err
	}
	rec.UpdatedAt = m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[date.ISO()] = rec
	return nil
}
