package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/hamidzr/stylefind/model"
)

// fakeSearcher serves canned pages per category, empty pages otherwise.
type fakeSearcher struct {
	mu    sync.Mutex
	pages map[string][]model.SearchPageResponse
	err   error
	calls []string
	// gate, when set, blocks every search until it is closed.
	gate chan struct{}
}

func newFakeSearcher() *fakeSearcher {
	return &fakeSearcher{pages: make(map[string][]model.SearchPageResponse)}
}

func (f *fakeSearcher) Search(ctx context.Context, category string, page int) (*model.SearchPageResponse, error) {
	f.mu.Lock()
	f.calls = append(f.calls, fmt.Sprintf("%s/%d", category, page))
	gate := f.gate
	err := f.err
	pages := f.pages[category]
	f.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	if page-1 < len(pages) {
		res := pages[page-1]
		res.Data = append([]model.SearchResult(nil), res.Data...)
		return &res, nil
	}
	return &model.SearchPageResponse{CurrentPage: page, TotalPages: len(pages)}, nil
}

func (f *fakeSearcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

// setPages builds pages of results with sequential ids starting at firstID.
// sizes gives the length of each page; subcategory is set on every result.
func (f *fakeSearcher) setPages(category, subcategory string, firstID int64, sizes ...int) {
	total := 0
	for _, n := range sizes {
		total += n
	}
	id := firstID
	pages := make([]model.SearchPageResponse, len(sizes))
	for i, n := range sizes {
		data := make([]model.SearchResult, n)
		for j := range data {
			data[j] = model.SearchResult{ID: id, Name: fmt.Sprintf("style %d", id), Subcategory: subcategory}
			id++
		}
		pages[i] = model.SearchPageResponse{
			Data:         data,
			CurrentPage:  i + 1,
			TotalPages:   len(sizes),
			TotalEntries: total,
		}
	}
	f.mu.Lock()
	f.pages[category] = pages
	f.mu.Unlock()
}

// mapCache is an in-memory ResponseCache.
type mapCache struct {
	mu      sync.Mutex
	entries map[string]json.RawMessage
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]json.RawMessage)}
}

func (c *mapCache) Read(_ context.Context, key string) (json.RawMessage, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	return raw, ok
}

func (c *mapCache) Write(key string, v any) {
	raw, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = raw
}

func (c *mapCache) Keys() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	return keys
}

// fakeLookup reports the catalog ids in installed as installed.
type fakeLookup struct {
	mu        sync.Mutex
	installed map[int64]bool
	err       error
	calls     int
}

func newFakeLookup(ids ...int64) *fakeLookup {
	l := &fakeLookup{installed: make(map[int64]bool)}
	for _, id := range ids {
		l.installed[id] = true
	}
	return l
}

func (l *fakeLookup) FindByUpdateURL(_ context.Context, updateURL string) (*model.Style, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.err != nil {
		return nil, l.err
	}
	id := model.USOIDFromUpdateURL(updateURL)
	if !l.installed[id] {
		return nil, nil
	}
	return &model.Style{ID: fmt.Sprintf("local-%d", id), USOID: id, UpdateURL: updateURL}, nil
}

// countingTotals records DecrementTotal calls.
type countingTotals struct {
	mu    sync.Mutex
	total int
}

func (c *countingTotals) DecrementTotal(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total = max(0, c.total-n)
}

func (c *countingTotals) Total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}
