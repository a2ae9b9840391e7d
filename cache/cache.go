// Package cache is a TTL and size bounded response cache over a local Store.
// Values are JSON documents kept zstd-compressed under a fixed key prefix.
package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hamidzr/stylefind/constant"
	"github.com/hamidzr/stylefind/internal/debounce"
	"github.com/hamidzr/stylefind/internal/metrics"
	"github.com/hamidzr/stylefind/store"
)

const (
	cleanupKey     = "cleanup"
	persistTimeout = 10 * time.Second
)

// Options configures a Cache. Zero Prefix, TTL, MaxBytes and Now take the
// package defaults; zero delays mean "as soon as possible".
type Options struct {
	Prefix       string
	TTL          time.Duration
	MaxBytes     int64
	WriteDelay   time.Duration
	CleanupDelay time.Duration
	Now          func() time.Time
}

// DefaultOptions returns the stock cache settings.
func DefaultOptions() Options {
	return Options{
		Prefix:       constant.CachePrefix,
		TTL:          constant.CacheDuration,
		MaxBytes:     constant.CacheSize,
		WriteDelay:   constant.CacheWriteDelay,
		CleanupDelay: constant.CacheCleanupThrottle,
		Now:          time.Now,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Prefix == "" {
		o.Prefix = d.Prefix
	}
	if o.TTL <= 0 {
		o.TTL = d.TTL
	}
	if o.MaxBytes <= 0 {
		o.MaxBytes = d.MaxBytes
	}
	if o.Now == nil {
		o.Now = d.Now
	}
	return o
}

// entry is the stored envelope.
type entry struct {
	Payload []byte `json:"payload"`
	// Date is the unix millisecond timestamp of the write.
	Date int64 `json:"date"`
}

// Stats describes the cache's share of the store.
type Stats struct {
	Entries int
	Bytes   int64
}

// Cache is safe for concurrent use.
type Cache struct {
	store   store.Store
	opts    Options
	writes  *debounce.Debouncer[string]
	cleanup *debounce.Debouncer[string]
	encoder *zstd.Encoder
	decoder *zstd.Decoder
	evictMu sync.Mutex
	log     *logrus.Entry
}

// New creates a Cache over st.
func New(st store.Store, opts Options) (*Cache, error) {
	opts = opts.withDefaults()
	encoder, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating encoder")
	}
	decoder, err := zstd.NewReader(nil)
	if err != nil {
		return nil, errors.Wrap(err, "creating decoder")
	}
	return &Cache{
		store:   st,
		opts:    opts,
		writes:  debounce.New[string](opts.WriteDelay),
		cleanup: debounce.New[string](opts.CleanupDelay),
		encoder: encoder,
		decoder: decoder,
		log:     logrus.WithField("component", "cache"),
	}, nil
}

func (c *Cache) storeKey(key string) string {
	return c.opts.Prefix + key
}

func (c *Cache) expired(date int64) bool {
	return date == 0 || c.opts.Now().Sub(time.UnixMilli(date)) > c.opts.TTL
}

// Read returns the cached document for key. Missing, expired and undecodable
// entries all read as absent; expired entries are removed on the way.
func (c *Cache) Read(ctx context.Context, key string) (json.RawMessage, bool) {
	storeKey := c.storeKey(key)
	raw, ok, err := c.store.Get(ctx, storeKey)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache read failed")
		metrics.CacheMisses.Inc()
		return nil, false
	}
	if !ok {
		metrics.CacheMisses.Inc()
		return nil, false
	}

	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		c.corrupt(key, err)
		return nil, false
	}
	if c.expired(e.Date) {
		if err := c.store.Remove(ctx, storeKey); err != nil {
			c.log.WithError(err).WithField("key", key).Warn("removing expired entry failed")
		}
		metrics.CacheMisses.Inc()
		return nil, false
	}
	payload, err := c.decoder.DecodeAll(e.Payload, nil)
	if err != nil {
		c.corrupt(key, err)
		return nil, false
	}
	if !json.Valid(payload) {
		c.corrupt(key, errors.New("payload is not json"))
		return nil, false
	}
	metrics.CacheHits.Inc()
	return payload, true
}

func (c *Cache) corrupt(key string, err error) {
	metrics.CacheCorrupt.Inc()
	metrics.CacheMisses.Inc()
	c.log.WithError(errors.Wrap(err, "cache entry corrupt")).WithField("key", key).Debug("treating as miss")
}

// Write stores v under key. Writes are debounced per key so a burst keeps only
// the last value; every persisted write schedules a capacity check.
func (c *Cache) Write(key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		c.log.WithError(err).WithField("key", key).Error("cache value not serializable")
		return
	}
	c.writes.Call(key, func() { c.persist(key, payload) })
}

func (c *Cache) persist(key string, payload []byte) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	raw, err := json.Marshal(entry{
		Payload: c.encoder.EncodeAll(payload, nil),
		Date:    c.opts.Now().UnixMilli(),
	})
	if err != nil {
		c.log.WithError(err).WithField("key", key).Error("encoding cache entry failed")
		return
	}
	if err := c.store.Set(ctx, c.storeKey(key), raw); err != nil {
		c.log.WithError(err).WithField("key", key).Warn("cache write failed")
		return
	}
	c.cleanup.Call(cleanupKey, c.cleanupInBackground)
}

func (c *Cache) cleanupInBackground() {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if _, err := c.EvictIfOverCapacity(ctx); err != nil {
		c.log.WithError(err).Warn("cache cleanup failed")
	}
}

// Flush persists pending writes immediately.
func (c *Cache) Flush() {
	c.writes.Flush()
}

// Stats reports the number of cached entries and their size.
func (c *Cache) Stats(ctx context.Context) (Stats, error) {
	entries, err := c.store.Scan(ctx, c.opts.Prefix)
	if err != nil {
		return Stats{}, err
	}
	stats := Stats{Entries: len(entries)}
	for key, value := range entries {
		stats.Bytes += int64(len(key) + len(value))
	}
	return stats, nil
}

// Clear removes every cached entry.
func (c *Cache) Clear(ctx context.Context) (int, error) {
	entries, err := c.store.Scan(ctx, c.opts.Prefix)
	if err != nil {
		return 0, err
	}
	keys := make([]string, 0, len(entries))
	for key := range entries {
		keys = append(keys, key)
	}
	return len(keys), c.store.Remove(ctx, keys...)
}

// Close flushes pending writes and stops background cleanup.
func (c *Cache) Close() error {
	c.writes.Flush()
	c.writes.Stop()
	c.cleanup.Stop()
	// wait for a cleanup that is already running.
	c.evictMu.Lock()
	defer c.evictMu.Unlock()
	c.decoder.Close()
	return c.encoder.Close()
}
