package core

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/hamidzr/stylefind/model"
)

// InstalledLookup finds a locally installed style by its catalog fingerprint.
type InstalledLookup interface {
	FindByUpdateURL(ctx context.Context, updateURL string) (*model.Style, error)
}

// TotalCounter owns the running total of displayable results.
type TotalCounter interface {
	DecrementTotal(n int)
}

// DuplicateFilter drops results that are already installed. Every excluded
// result lowers the running total exactly once.
type DuplicateFilter struct {
	lookup InstalledLookup
	totals TotalCounter

	mu       sync.Mutex
	excluded map[int64]struct{}
}

func NewDuplicateFilter(lookup InstalledLookup, totals TotalCounter) *DuplicateFilter {
	return &DuplicateFilter{
		lookup:   lookup,
		totals:   totals,
		excluded: make(map[int64]struct{}),
	}
}

// IsInstalled reports whether r is installed locally. A failed lookup reports
// false together with an error wrapping model.ErrDuplicateLookup.
func (f *DuplicateFilter) IsInstalled(ctx context.Context, r *model.SearchResult) (bool, error) {
	f.mu.Lock()
	_, done := f.excluded[r.ID]
	f.mu.Unlock()
	if done {
		return true, nil
	}

	style, err := f.lookup.FindByUpdateURL(ctx, model.Fingerprint(r.ID))
	if err != nil {
		return false, errors.Wrapf(&model.DuplicateLookupError{Err: err}, "result %d", r.ID)
	}
	if style == nil {
		return false, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, done := f.excluded[r.ID]; done {
		return true, nil
	}
	f.excluded[r.ID] = struct{}{}
	f.totals.DecrementTotal(1)
	return true, nil
}

// Reset forgets excluded results.
func (f *DuplicateFilter) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.excluded = make(map[int64]struct{})
}

// Discard lowers the running total for a result dropped as a repeat.
func (f *DuplicateFilter) Discard() {
	f.totals.DecrementTotal(1)
}
