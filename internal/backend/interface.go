// Package backend selects and assembles the record-store backend.
package backend

import (
	"context"
	"time"

	"incassi/internal/store"
)

// CleanupFunc represents a cleanup function for resources.
type CleanupFunc func(ctx context.Context) error

// Result contains the assembled store and optional cleanup function.
type Result struct {
	Store   store.Store
	Cleanup CleanupFunc
}

// Factory creates record stores based on configuration.
type Factory interface {
	CreateStore(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for store creation.
type Config struct {
	Type Type

	// Mongo specific
	MongoURI string
	MongoDB  string

	// SQLite specific
	SQLiteDBPath string

	// Read cache
	CacheTTL time.Duration
	Now      func() time.Time
}

// Type represents the kind of storage backend.
type Type string

const (
	MemoryBackend Type = "memory"
	MongoBackend  Type = "mongo"
	SQLiteBackend Type = "sqlite"
)

// String implements fmt.Stringer.
func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is valid.
func (t Type) IsValid() bool {
	switch t {
	case MemoryBackend, MongoBackend, SQLiteBackend:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{MemoryBackend, MongoBackend, SQLiteBackend}
}
