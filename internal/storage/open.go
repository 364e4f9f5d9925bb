package storage

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Driver names accepted by Open.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverSQLite = "sqlite"
	DriverRedis  = "redis"
)

// Options selects and configures a backend for Open.
type Options struct {
	Driver     string
	FilePath   string
	SQLitePath string
	Redis      RedisOptions
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Open builds the Store named by opts.Driver. The returned Closer releases
// backend resources and is never nil.
func Open(ctx context.Context, opts Options) (Store, io.Closer, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemoryStore(), nopCloser{}, nil
	case DriverFile, "":
		s, err := NewFileStore(opts.FilePath)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[storage] using file store at %s", opts.FilePath)
		return s, nopCloser{}, nil
	case DriverSQLite:
		if opts.SQLitePath != ":memory:" && !strings.HasPrefix(opts.SQLitePath, "file:") {
			if err := os.MkdirAll(filepath.Dir(opts.SQLitePath), 0o700); err != nil {
				return nil, nil, fmt.Errorf("create sqlite directory: %w", err)
			}
		}
		s, err := NewSQLiteStore(opts.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[storage] using sqlite store at %s", opts.SQLitePath)
		return s, s, nil
	case DriverRedis:
		s, err := NewRedisStore(ctx, opts.Redis)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[storage] using redis store at %s", opts.Redis.Addr)
		return s, s, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
	}
}
