// Package storage remembers the last published amount of each price series.
package storage

import (
	"fmt"
	"strings"
	"time"
)

// Store tracks the last published amount per series key. Entries expire after
// the configured TTL and then read as absent.
type Store interface {
	Close() error
	LastAmount(key string) (string, bool, error)
	RecordAmount(key, amount string) error
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	QuoteTTL        time.Duration
	CleanupInterval time.Duration
}

const (
	defaultQuoteTTL        = time.Hour
	defaultCleanupInterval = 15 * time.Minute
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.QuoteTTL <= 0 {
		opts.QuoteTTL = defaultQuoteTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                              { return nil }
func (noopStore) LastAmount(string) (string, bool, error) { return "", false, nil }
func (noopStore) RecordAmount(string, string) error       { return nil }
