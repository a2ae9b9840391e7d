package render

import (
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hamidzr/stylefind/constant"
	"github.com/hamidzr/stylefind/model"
)

// Reconciler keeps a Surface in sync with a window over the aggregated
// results. It is not safe for concurrent use.
type Reconciler struct {
	surface Surface
	window  DisplayWindow
	slots   []SlotState
	fadeIn  time.Duration
	now     func() time.Time
	log     *logrus.Entry
}

// NewReconciler creates a Reconciler showing page 1.
func NewReconciler(surface Surface, perPage int, fadeIn time.Duration) *Reconciler {
	if perPage <= 0 {
		perPage = constant.DisplayPerPage
	}
	return &Reconciler{
		surface: surface,
		window:  DisplayWindow{Page: 1, PerPage: perPage},
		fadeIn:  fadeIn,
		now:     time.Now,
		log:     logrus.WithField("component", "reconciler"),
	}
}

func (r *Reconciler) Window() DisplayWindow {
	return r.window
}

// SetPage moves the window, never below page 1.
func (r *Reconciler) SetPage(page int) {
	r.window.Page = max(1, page)
}

// Slots returns a copy of the current slot list.
func (r *Reconciler) Slots() []SlotState {
	return append([]SlotState(nil), r.slots...)
}

// Render paints the window over results and updates the navigation.
func (r *Reconciler) Render(results []*model.SearchResult, totalResults int) Plan {
	plan := NewPlan(r.slots, r.window, results, totalResults, r.now(), r.fadeIn)
	for _, op := range plan.Ops {
		switch op.Kind {
		case OpReplace:
			r.surface.ReplaceSlot(op.Index, op.Entry)
		case OpAppend:
			r.surface.AppendSlot(op.Entry)
		case OpRemove:
			r.surface.RemoveSlot(op.Index)
		}
	}
	r.slots = plan.Slots

	totalPages := TotalPages(totalResults, r.window.PerPage)
	r.surface.SetNav(NavState{
		Page:         r.window.Page,
		TotalPages:   totalPages,
		PrevDisabled: r.window.Page <= 1,
		NextDisabled: r.window.Page >= totalPages,
	})
	if f, ok := r.surface.(Flusher); ok {
		f.Flush()
	}
	r.log.WithFields(logrus.Fields{
		"page":  r.window.Page,
		"slots": len(r.slots),
		"ops":   len(plan.Ops),
	}).Trace("rendered")
	return plan
}

// Refresh repaints the slot showing result, if it is on screen.
func (r *Reconciler) Refresh(result *model.SearchResult, position int) bool {
	key := result.Key()
	for i, s := range r.slots {
		if s.Key == key {
			r.surface.RefreshSlot(i, Entry{Result: result, Position: position})
			if f, ok := r.surface.(Flusher); ok {
				f.Flush()
			}
			return true
		}
	}
	return false
}

// Clear removes every slot and returns to page 1.
func (r *Reconciler) Clear() {
	for i := len(r.slots) - 1; i >= 0; i-- {
		r.surface.RemoveSlot(i)
	}
	r.slots = nil
	r.window.Page = 1
}
