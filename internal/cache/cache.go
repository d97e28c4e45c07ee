// Package cache keeps expensive AI responses in a storage.Store for a limited
// time.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"
	"unicode/utf16"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/storage"
)

const (
	KeyPrefix  = "skillmatch_ai_cache_"
	DefaultTTL = time.Hour
)

// Entry is the persisted form of a cached value. Expiry is in epoch
// milliseconds.
type Entry struct {
	Data   json.RawMessage `json:"data"`
	Expiry int64           `json:"expiry"`
}

type Cache struct {
	store  storage.Store
	logger *zap.Logger
	now    func() time.Time
}

type Option func(*Cache)

// WithClock replaces the wall clock.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

func New(store storage.Store, logger *zap.Logger, opts ...Option) *Cache {
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Cache{
		store:  store,
		logger: logger,
		now:    time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns the decoded value stored under key. Expired entries are
// removed and reported as absent. Store and decoding errors are reported as
// absent too.
func (c *Cache) Get(ctx context.Context, key string) (any, bool) {
	if c == nil || c.store == nil {
		return nil, false
	}

	raw, err := c.store.Get(ctx, KeyPrefix+key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			c.logger.Debug("cache read failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.logger.Debug("cache entry is malformed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	if c.now().UnixMilli() >= entry.Expiry {
		if err := c.store.Delete(ctx, KeyPrefix+key); err != nil {
			c.logger.Debug("removing expired cache entry failed", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var value any
	if err := json.Unmarshal(entry.Data, &value); err != nil {
		c.logger.Debug("cache entry data is malformed", zap.String("key", key), zap.Error(err))
		return nil, false
	}

	c.logger.Debug("cache hit", zap.String("key", key))
	return value, true
}

// Set stores value under key until now+ttl. A non-positive ttl produces an
// entry that is already expired.
func (c *Cache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c == nil || c.store == nil {
		return errors.New("cache is not initialized")
	}

	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode cache value: %w", err)
	}

	payload, err := json.Marshal(Entry{
		Data:   data,
		Expiry: c.now().Add(max(ttl, 0)).UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	if err := c.store.Set(ctx, KeyPrefix+key, payload); err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}

	return nil
}

// Hash is the 32-bit h*31+c rolling hash over the UTF-16 code units of s,
// rendered as a signed decimal. It is not collision resistant.
func Hash(s string) string {
	var h int32
	for _, unit := range utf16.Encode([]rune(s)) {
		h = h*31 + int32(unit)
	}
	return strconv.FormatInt(int64(h), 10)
}
