package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"incassi/internal/cache"
	"incassi/internal/core"
)

const settingsKey = "global"

// Cached decorates a backend with TTL read caches for settings and month
// views. Writes invalidate synchronously before returning, so the writer's
// subsequent reads observe the write; other sessions converge within the TTL.
type Cached struct {
	backend Store

	settings *cache.LRUCache[core.Settings]
	months   *cache.LRUCache[[]core.RevenueRecord]
	group    singleflight.Group
}

// NewCached wraps backend with caches expiring after ttl, judged against the
// injected now func.
func NewCached(backend Store, ttl time.Duration, now func() time.Time) *Cached {
	return &Cached{
		backend:  backend,
		settings: cache.NewLRUCache[core.Settings](1, ttl, now),
		months:   cache.NewLRUCache[[]core.RevenueRecord](24, ttl, now),
	}
}

// RegisterWith hooks both caches into a cleanup manager.
func (c *Cached) RegisterWith(m *cache.Manager) {
	m.Register(c.settings)
	m.Register(c.months)
}

func (c *Cached) GetSettings(ctx context.Context) (core.Settings, error) {
	if s, ok := c.settings.Get(settingsKey); ok {
		return s, nil
	}

	v, err, _ := c.group.Do("settings:"+settingsKey, func() (any, error) {
		s, err := c.backend.GetSettings(ctx)
		if err != nil {
			return core.Settings{}, err
		}
		c.settings.Set(settingsKey, s)
		return s, nil
	})
	if err != nil {
		return core.Settings{}, err
	}
	return v.(core.Settings), nil
}

func (c *Cached) SaveSettings(ctx context.Context, s core.Settings) error {
	if err := c.backend.SaveSettings(ctx, s); err != nil {
		return err
	}
	c.settings.Delete(settingsKey)
	slog.DebugContext(ctx, "Settings cache invalidated")
	return nil
}

func (c *Cached) MonthRecords(ctx context.Context, year int, month time.Month) ([]core.RevenueRecord, error) {
	key := monthKey(year, month)
	if records, ok := c.months.Get(key); ok {
		// Copy to keep cached slices safe from caller mutation.
		out := make([]core.RevenueRecord, len(records))
		copy(out, records)
		return out, nil
	}

	v, err, _ := c.group.Do("month:"+key, func() (any, error) {
		records, err := c.backend.MonthRecords(ctx, year, month)
		if err != nil {
			return nil, err
		}
		c.months.Set(key, records)
		return records, nil
	})
	if err != nil {
		return nil, err
	}

	records := v.([]core.RevenueRecord)
	out := make([]core.RevenueRecord, len(records))
	copy(out, records)
	return out, nil
}

func (c *Cached) UpsertRecord(ctx context.Context, date core.Date, amount decimal.Decimal) error {
	if err := c.backend.UpsertRecord(ctx, date, amount); err != nil {
		return err
	}
	key := monthKey(date.Year(), date.Month())
	c.months.Delete(key)
	slog.DebugContext(ctx, "Month cache invalidated", "month", key)
	return nil
}
