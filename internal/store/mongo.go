package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"incassi/internal/core"
)

const (
	salesCollection    = "sales"
	settingsCollection = "settings"
	settingsDocID      = "global"
)

// Mongo is the document-store backend. Sales documents are keyed by ISO date,
// settings live in a single well-known document, mirroring the collections
// the dashboard has always used.
type Mongo struct {
	client   *mongo.Client
	sales    *mongo.Collection
	settings *mongo.Collection
	now      func() time.Time
}

type salesDoc struct {
	ID        string    `bson:"_id"`
	Amount    string    `bson:"amount"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type settingsDoc struct {
	ID            string `bson:"_id"`
	TargetMonthly int64  `bson:"target_monthly"`
	BonusAmount   int64  `bson:"bonus_amount"`
	BonusTitle    string `bson:"bonus_title"`
}

// NewMongo connects and pings the deployment. Connection failures are
// reported as storage-unavailable: callers must treat them as fatal, not fall
// back silently.
func NewMongo(ctx context.Context, uri, dbName string, now func() time.Time) (*Mongo, error) {
	if now == nil {
		now = time.Now
	}

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: connect: %v", core.ErrStorageUnavailable, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: ping: %v", core.ErrStorageUnavailable, err)
	}

	db := client.Database(dbName)
	return &Mongo{
		client:   client,
		sales:    db.Collection(salesCollection),
		settings: db.Collection(settingsCollection),
		now:      now,
	}, nil
}

// Close disconnects the underlying client.
func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

func (m *Mongo) GetSettings(ctx context.Context) (core.Settings, error) {
	var doc settingsDoc
	err := m.settings.FindOne(ctx, bson.M{"_id": settingsDocID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// First read creates the singleton so later reads see one document.
		defaults := core.DefaultSettings()
		if err := m.SaveSettings(ctx, defaults); err != nil {
			return core.Settings{}, fmt.Errorf("initialize settings: %w", err)
		}
		slog.InfoContext(ctx, "Settings document created with defaults")
		return defaults, nil
	}
	if err != nil {
		return core.Settings{}, fmt.Errorf("get settings: %w", err)
	}

	return core.Settings{
		TargetMonthly: doc.TargetMonthly,
		BonusAmount:   doc.BonusAmount,
		BonusTitle:    doc.BonusTitle,
	}.Normalized(), nil
}

func (m *Mongo) SaveSettings(ctx context.Context, s core.Settings) error {
	s = s.Normalized()
	update := bson.M{"$set": bson.M{
		"target_monthly": s.TargetMonthly,
		"bonus_amount":   s.BonusAmount,
		"bonus_title":    s.BonusTitle,
	}}
	opts := options.Update().SetUpsert(true)
	if _, err := m.settings.UpdateOne(ctx, bson.M{"_id": settingsDocID}, update, opts); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (m *Mongo) MonthRecords(ctx context.Context, year int, month time.Month) ([]core.RevenueRecord, error) {
	lo, hi := monthBounds(year, month)
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	cursor, err := m.sales.Find(ctx, bson.M{"_id": bson.M{"$gte": lo, "$lte": hi}}, opts)
	if err != nil {
		return nil, fmt.Errorf("find month records: %w", err)
	}
	defer cursor.Close(ctx)

	records := make([]core.RevenueRecord, 0)
	for cursor.Next(ctx) {
		var doc salesDoc
		if err := cursor.Decode(&doc); err != nil {
			slog.WarnContext(ctx, "Skipping undecodable sales document", "error", err)
			continue
		}
		date, err := core.ParseDate(doc.ID)
		if err != nil {
			slog.WarnContext(ctx, "Skipping sales document with bad id", "id", doc.ID)
			continue
		}
		amount, err := decimal.NewFromString(doc.Amount)
		if err != nil {
			slog.WarnContext(ctx, "Skipping sales document with bad amount", "id", doc.ID, "amount", doc.Amount)
			continue
		}
		records = append(records, core.RevenueRecord{
			Date:      date,
			Amount:    amount,
			UpdatedAt: doc.UpdatedAt,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate month records: %w", err)
	}
	return records, nil
}

func (m *Mongo) UpsertRecord(ctx context.Context, date core.Date, amount decimal.Decimal) error {
	rec, err := core.NewRevenueRecord(date, amount)
	if err != nil {
		return err
	}

	update := bson.M{"$set": bson.M{
		"amount":     rec.Amount.String(),
		"updated_at": m.now(),
	}}
	opts := options.Update().SetUpsert(true)
	if _, err := m.sales.UpdateOne(ctx, bson.M{"_id": date.ISO()}, update, opts); err != nil {
		return fmt.Errorf("upsert record %s: %w", date.ISO(), err)
	}
	return nil
}
