package core

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/hamidzr/stylefind/model"
)

// StepResult is what one Aggregator step did.
type StepResult int

const (
	// StepIdle means the queue was empty.
	StepIdle StepResult = iota
	// StepAppended means a result was added.
	StepAppended
	// StepSkipped means the item was installed or a repeat of an aggregated
	// result. Repeats lower the running total.
	StepSkipped
)

// Aggregator grows the append-only list of displayable results one queued
// item at a time.
type Aggregator struct {
	filter *DuplicateFilter

	mu      sync.Mutex
	queue   []model.SearchResult
	results []*model.SearchResult
	seen    map[int64]struct{}
	log     *logrus.Entry
}

func NewAggregator(filter *DuplicateFilter) *Aggregator {
	return &Aggregator{
		filter: filter,
		seen:   make(map[int64]struct{}),
		log:    logrus.WithField("component", "aggregator"),
	}
}

// Enqueue queues freshly loaded results for processing.
func (a *Aggregator) Enqueue(items ...model.SearchResult) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queue = append(a.queue, items...)
}

// Step processes exactly one queued item.
func (a *Aggregator) Step(ctx context.Context) StepResult {
	a.mu.Lock()
	if len(a.queue) == 0 {
		a.mu.Unlock()
		return StepIdle
	}
	item := a.queue[0]
	a.queue = a.queue[1:]
	_, dup := a.seen[item.ID]
	a.mu.Unlock()
	if dup {
		a.filter.Discard()
		return StepSkipped
	}

	installed, err := a.filter.IsInstalled(ctx, &item)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			a.log.WithError(err).Warn("duplicate check failed, keeping result")
		}
		installed = false
	}
	if installed {
		return StepSkipped
	}

	a.mu.Lock()
	if _, dup := a.seen[item.ID]; dup {
		a.mu.Unlock()
		a.filter.Discard()
		return StepSkipped
	}
	a.seen[item.ID] = struct{}{}
	a.results = append(a.results, &item)
	a.mu.Unlock()
	return StepAppended
}

// Pending is the number of queued items.
func (a *Aggregator) Pending() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.queue)
}

// Len is the number of aggregated results.
func (a *Aggregator) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.results)
}

// Results returns the aggregated results in arrival order. The slice is a
// copy; the pointed-to results are shared.
func (a *Aggregator) Results() []*model.SearchResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]*model.SearchResult, len(a.results))
	copy(out, a.results)
	return out
}

// At returns the result at position i, nil when out of range.
func (a *Aggregator) At(i int) *model.SearchResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	if i < 0 || i >= len(a.results) {
		return nil
	}
	return a.results[i]
}

// NeedsMore reports whether fewer results are aggregated than the page after
// page would show.
func (a *Aggregator) NeedsMore(page, perPage int) bool {
	return a.Len() < (page+1)*perPage
}

// MarkInstalled flags the result with catalog id usoID as installed and
// returns its position, -1 if it is not aggregated.
func (a *Aggregator) MarkInstalled(usoID int64, localID string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, r := range a.results {
		if r.ID == usoID {
			r.Installed = true
			r.InstalledLocalID = localID
			return i
		}
	}
	return -1
}

// MarkUninstalled clears the install flag of the result installed as localID
// and returns its position, -1 if none matches.
func (a *Aggregator) MarkUninstalled(localID string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	for i, r := range a.results {
		if r.InstalledLocalID == localID {
			r.Installed = false
			r.InstalledLocalID = ""
			return i
		}
	}
	return -1
}

// Reset drops everything, queued and aggregated.
func (a *Aggregator) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queue = nil
	a.results = nil
	a.seen = make(map[int64]struct{})
	a.filter.Reset()
}
