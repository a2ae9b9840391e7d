package cache

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hamidzr/stylefind/internal/metrics"
)

type stamped struct {
	key  string
	date int64
}

// EvictIfOverCapacity trims the cache when the store is over budget: all
// expired entries go first; when none are expired the oldest half goes.
// It returns the number of removed entries.
func (c *Cache) EvictIfOverCapacity(ctx context.Context) (int, error) {
	c.evictMu.Lock()
	defer c.evictMu.Unlock()

	size, err := c.store.BytesInUse(ctx)
	if err != nil {
		return 0, errors.Wrap(err, "measuring cache")
	}
	if size <= c.opts.MaxBytes {
		return 0, nil
	}

	all, err := c.store.Scan(ctx, c.opts.Prefix)
	if err != nil {
		return 0, errors.Wrap(err, "listing cache")
	}
	items := make([]stamped, 0, len(all))
	for key, raw := range all {
		var e entry
		// undecodable envelopes keep date 0 and count as expired.
		_ = json.Unmarshal(raw, &e)
		items = append(items, stamped{key: key, date: e.Date})
	}

	victims := c.selectVictims(items)
	if len(victims) == 0 {
		return 0, nil
	}
	if err := c.store.Remove(ctx, victims...); err != nil {
		return 0, errors.Wrap(err, "evicting")
	}
	metrics.CacheEvictions.Add(float64(len(victims)))
	c.log.WithFields(logrus.Fields{
		"removed": len(victims),
		"entries": len(items),
		"bytes":   size,
	}).Debug("cache evicted")
	return len(victims), nil
}

// selectVictims orders entries oldest first, ties broken by key.
func (c *Cache) selectVictims(items []stamped) []string {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].date != items[j].date {
			return items[i].date < items[j].date
		}
		return items[i].key < items[j].key
	})

	victims := make([]string, 0)
	for _, item := range items {
		if c.expired(item.date) {
			victims = append(victims, item.key)
		}
	}
	if len(victims) == 0 {
		for _, item := range items[:len(items)/2] {
			victims = append(victims, item.key)
		}
	}
	if len(victims) == 0 {
		// a single oversized entry
		for _, item := range items {
			victims = append(victims, item.key)
		}
	}
	return victims
}
