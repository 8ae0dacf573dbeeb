// Package persist provides the durable key-value backends the entity stores
// write their snapshots to. Every backend has read-whole/write-whole
// semantics: a key maps to one opaque blob.
package persist

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound is returned by Load when a key has never been saved.
var ErrNotFound = errors.New("persist: key not found")

// Storage is a durable key-value store.
type Storage interface {
	Load(ctx context.Context, key string) ([]byte, error)
	Save(ctx context.Context, key string, value []byte) error
	Close() error
}

const (
	DriverMemory   = "memory"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Options selects and configures a backend.
type Options struct {
	Driver      string
	SQLitePath  string
	PostgresDSN string
	Table       string
}

// Open returns the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemory(), nil
	case DriverSQLite, "":
		return OpenSQLite(ctx, opts.SQLitePath)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.PostgresDSN, opts.Table)
	default:
		return nil, fmt.Errorf("persist: unknown driver %q", opts.Driver)
	}
}
