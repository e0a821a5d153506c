package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"incassi/internal/core"
	"incassi/internal/store"
)

type (
	// RawRow is one unparsed (date, amount) pair from a tabular source.
	RawRow struct {
		Date   string
		Amount string
	}

	// SkippedRow records why a bulk row was not written. Index is 1-based
	// over the data rows, header excluded.
	SkippedRow struct {
		Index  int
		Reason string
	}

	// BulkResult is the outcome of one bulk ingestion. Partial success is
	// expected: there is no atomicity across rows.
	BulkResult struct {
		Written int
		Skipped []SkippedRow
	}
)

// Ingestor normalizes external input into validated records and forwards
// them to the store.
type Ingestor struct {
	store store.Store
}

func NewIngestor(s store.Store) *Ingestor {
	return &Ingestor{store: s}
}

// ParseRow turns a raw pair into a validated date and amount without
// touching storage. A blank amount is coerced to zero, matching what the
// bulk upload has always done with empty cells.
func ParseRow(row RawRow) (core.Date, decimal.Decimal, error) {
	date, err := core.ParseDate(row.Date)
	if err != nil {
		return core.Date{}, decimal.Decimal{}, err
	}

	raw := strings.TrimSpace(row.Amount)
	if raw == "" {
		return date, decimal.Zero, nil
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return core.Date{}, decimal.Decimal{}, fmt.Errorf("%w: %q", core.ErrInvalidAmount, raw)
	}
	if amount.IsNegative() {
		return core.Date{}, decimal.Decimal{}, core.ErrNegativeAmount
	}
	return date, amount, nil
}

// RecordEntry validates and writes a single manual entry. Invalid input
// fails with a validation error and writes nothing.
func (i *Ingestor) RecordEntry(ctx context.Context, date core.Date, amount decimal.Decimal) error {
	if err := i.store.UpsertRecord(ctx, date, amount); err != nil {
		return fmt.Errorf("record entry %s: %w", date.ISO(), err)
	}
	slog.InfoContext(ctx, "Revenue recorded", "date", date.ISO(), "amount", amount.String())
	return nil
}

// IngestRows writes rows one by one. Rows failing to parse or validate are
// skipped with a reason; a storage failure aborts the batch since every
// following write would fail the same way.
func (i *Ingestor) IngestRows(ctx context.Context, rows []RawRow) (BulkResult, error) {
	var result BulkResult
	for idx, row := range rows {
		date, amount, err := ParseRow(row)
		if err != nil {
			result.Skipped = append(result.Skipped, SkippedRow{Index: idx + 1, Reason: err.Error()})
			continue
		}
		if err := i.store.UpsertRecord(ctx, date, amount); err != nil {
			if errors.Is(err, core.ErrValidation) {
				result.Skipped = append(result.Skipped, SkippedRow{Index: idx + 1, Reason: err.Error()})
				continue
			}
			return result, fmt.Errorf("write row %d (%s): %w", idx+1, date.ISO(), err)
		}
		result.Written++
	}

	slog.InfoContext(ctx, "Bulk ingestion finished",
		"written", result.Written,
		"skipped", len(result.Skipped))
	return result, nil
}

// ReadCSVRows extracts raw (date, amount) pairs from CSV data. Header names
// are matched case-insensitively after trimming; columns beyond date and
// amount are ignored. Rows shorter than the header produce empty fields and
// are dealt with during parsing, row by row.
func ReadCSVRows(r io.Reader) ([]RawRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: missing CSV header", core.ErrValidation)
	}

	dateCol, amountCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "date":
			dateCol = i
		case "amount":
			amountCol = i
		}
	}
	if dateCol < 0 || amountCol < 0 {
		return nil, fmt.Errorf("%w: CSV must have date and amount columns", core.ErrValidation)
	}

	var rows []RawRow
	for {
		fields, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV: %w", err)
		}
		rows = append(rows, RawRow{
			Date:   field(fields, dateCol),
			Amount: field(fields, amountCol),
		})
	}
	return rows, nil
}

func field(fields []string, i int) string {
	if i < len(fields) {
		return strings.TrimSpace(fields[i])
	}
	return ""
}
