// Package storage provides the key-value persistence used for scoring
// weights and cached AI responses.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"

	DefaultPath = ".skillmatch.json"
)

// ErrNotFound is returned by Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// Store is a generic key-value store. Concurrent writes are last-writer-wins.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

type Config struct {
	Driver      string
	Path        string
	DatabaseURL string
}

// Open creates the store selected by cfg.Driver. An empty driver means file.
func Open(ctx context.Context, cfg Config) (Store, error) {
	driver := strings.ToLower(strings.TrimSpace(cfg.Driver))
	switch driver {
	case "", DriverFile:
		path := strings.TrimSpace(cfg.Path)
		if path == "" {
			path = DefaultPath
		}
		return NewFile(path), nil
	case DriverMemory:
		return NewMemory(), nil
	case DriverPostgres:
		store, err := NewPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Driver)
	}
}
