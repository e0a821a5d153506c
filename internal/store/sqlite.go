package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"incassi/internal/core"
)

// SQLite is the embedded-database backend for single-host deployments
// without a MongoDB around.
type SQLite struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLite opens (creating directories as needed) and migrates the database.
func NewSQLite(dbPath string, now func() time.Time) (*SQLite, error) {
	if now == nil {
		now = time.Now
	}
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %v", core.ErrStorageUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %v", core.ErrStorageUnavailable, err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db, now: now}, nil
}

// Close closes the database handle.
func (s *SQLite) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLite) GetSettings(ctx context.Context) (core.Settings, error) {
	var out core.Settings
	row := s.db.QueryRowContext(ctx,
		`SELECT target_monthly, bonus_amount, bonus_title FROM settings WHERE id = 'global'`)
	err := row.Scan(&out.TargetMonthly, &out.BonusAmount, &out.BonusTitle)
	if errors.Is(err, sql.ErrNoRows) {
		defaults := core.DefaultSettings()
		if err := s.SaveSettings(ctx, defaults); err != nil {
			return core.Settings{}, fmt.Errorf("initialize settings: %w", err)
		}
		return defaults, nil
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}
	return out.Normalized(), nil
}

func (s *SQLite) SaveSettings(ctx context.Context, in core.Settings) error {
	in = in.Normalized()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (id, target_monthly, bonus_amount, bonus_title)
		 VALUES ('global', ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   target_monthly = excluded.target_monthly,
		   bonus_amount   = excluded.bonus_amount,
		   bonus_title    = excluded.bonus_title`,
		in.TargetMonthly, in.BonusAmount, in.BonusTitle)
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *SQLite) MonthRecords(ctx context.Context, year int, month time.Month) ([]core.RevenueRecord, error) {
	lo, hi := monthBounds(year, month)
	rows, err := s.db.QueryContext(ctx,
		`SELECT date, amount, updated_at FROM revenue_records
		 WHERE date >= ? AND date <= ? ORDER BY date ASC`, lo, hi)
	if err != nil {
		return nil, fmt.Errorf("query month records: %w", err)
	}
	defer rows.Close()

	records := make([]core.RevenueRecord, 0)
	for rows.Next() {
		var (
			iso       string
			amountStr string
			updatedAt time.Time
		)
		if err := rows.Scan(&iso, &amountStr, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		date, err := core.ParseDate(iso)
		if err != nil {
			return nil, fmt.Errorf("stored record has bad date %q: %w", iso, err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("stored record %s has bad amount %q: %w", iso, amountStr, err)
		}
		records = append(records, core.RevenueRecord{
			Date:      date,
			Amount:    amount,
			UpdatedAt: updatedAt,
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate month records: %w", err)
	}
	return records, nil
}

func (s *SQLite) UpsertRecord(ctx context.Context, date core.Date, amount decimal.Decimal) error {
	rec, err := core.NewRevenueRecord(date, amount)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO revenue_records (date, amount, updated_at)
		 VALUES (?, ?, ?)
		 ON CONFLICT(date) DO UPDATE SET
		   amount     = excluded.amount,
		   updated_at = excluded.updated_at`,
		date.ISO(), rec.Amount.String(), s.now())
	if err != nil {
		return fmt.Errorf("upsert record %s: %w", date.ISO(), err)
	}
	return nil
}
