package render

import (
	"time"

	"github.com/hamidzr/stylefind/model"
)

// DisplayWindow is the page of the aggregated results being shown.
type DisplayWindow struct {
	Page    int
	PerPage int
}

// Range is the [start, end) index range of the window.
func (w DisplayWindow) Range() (int, int) {
	return (w.Page - 1) * w.PerPage, w.Page * w.PerPage
}

// TotalPages is the number of pages needed for total results.
func TotalPages(total, perPage int) int {
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// SlotState is what an on-screen slot currently shows.
type SlotState struct {
	// Key identifies the result in the slot; empty for placeholders.
	Key string
	// PlantedAt is when a placeholder was put on screen.
	PlantedAt time.Time
}

func (s SlotState) Placeholder() bool {
	return s.Key == ""
}

type OpKind int

const (
	OpKeep OpKind = iota
	OpReplace
	OpAppend
	OpRemove
)

func (k OpKind) String() string {
	return [...]string{"keep", "replace", "append", "remove"}[k]
}

// Op is one edit against the current slot list.
type Op struct {
	Kind OpKind
	// Index is the slot position the op applies to.
	Index int
	Entry Entry
}

// Plan is the edit turning the current slots into the desired ones.
type Plan struct {
	Ops []Op
	// MaxSlots is the most slots the window may hold.
	MaxSlots int
	// Slots is the slot list after the plan is applied.
	Slots []SlotState
}

// Entry is the content of one slot.
type Entry struct {
	// Result is nil for a placeholder.
	Result *model.SearchResult
	// Position is the zero-based index in the aggregated results.
	Position int
	// Entering asks the surface to fade the entry in.
	Entering bool
}

func (e Entry) Placeholder() bool {
	return e.Result == nil
}

// maxSlots is a full page unless the window reaches past the known total,
// in which case it holds the remainder.
func maxSlots(window DisplayWindow, totalResults int) int {
	_, end := window.Range()
	if end > totalResults && window.PerPage > 0 {
		if rem := totalResults % window.PerPage; rem != 0 {
			return rem
		}
	}
	return window.PerPage
}

// NewPlan computes the edit needed to show window over results. Matching
// leading slots are kept, the rest is replaced or appended, gaps are padded
// with placeholders (existing placeholders are reused) and surplus slots trimmed.
func NewPlan(
	current []SlotState,
	window DisplayWindow,
	results []*model.SearchResult,
	totalResults int,
	now time.Time,
	fadeIn time.Duration,
) Plan {
	start, end := window.Range()
	limit := maxSlots(window, totalResults)
	plan := Plan{MaxSlots: limit}

	slot := 0
	planted := 0
	for planted < window.PerPage &&
		slot < len(current) &&
		start < len(results) &&
		current[slot].Key == results[start].Key() {
		plan.Ops = append(plan.Ops, Op{Kind: OpKeep, Index: slot, Entry: Entry{Result: results[start], Position: start}})
		plan.Slots = append(plan.Slots, current[slot])
		slot++
		planted++
		start++
	}

	plant := func(e Entry, state SlotState) {
		if slot < len(current) {
			old := current[slot]
			e.Entering = old.Placeholder() && !old.PlantedAt.IsZero() && now.Sub(old.PlantedAt) > fadeIn
			plan.Ops = append(plan.Ops, Op{Kind: OpReplace, Index: slot, Entry: e})
			slot++
		} else {
			e.Entering = true
			plan.Ops = append(plan.Ops, Op{Kind: OpAppend, Index: len(plan.Slots), Entry: e})
		}
		plan.Slots = append(plan.Slots, state)
	}

	for start < end && start < len(results) {
		plant(Entry{Result: results[start], Position: start}, SlotState{Key: results[start].Key()})
		start++
		planted++
	}

	for planted < limit {
		if slot < len(current) && current[slot].Placeholder() {
			plan.Ops = append(plan.Ops, Op{Kind: OpKeep, Index: slot, Entry: Entry{Position: start}})
			plan.Slots = append(plan.Slots, current[slot])
			slot++
		} else {
			plant(Entry{Position: start}, SlotState{PlantedAt: now})
		}
		start++
		planted++
		if len(results) == 0 {
			break
		}
	}

	// trailing slots that were never reached are surplus, as is anything past limit.
	for i := len(current) - 1; i >= slot; i-- {
		plan.Ops = append(plan.Ops, Op{Kind: OpRemove, Index: i})
	}
	for len(plan.Slots) > limit {
		last := len(plan.Slots) - 1
		plan.Slots = plan.Slots[:last]
		plan.Ops = append(plan.Ops, Op{Kind: OpRemove, Index: last})
	}
	return plan
}
