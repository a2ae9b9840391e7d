package core

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/hamidzr/stylefind/constant"
	"github.com/hamidzr/stylefind/installed"
	"github.com/hamidzr/stylefind/internal/debounce"
	"github.com/hamidzr/stylefind/model"
	"github.com/hamidzr/stylefind/render"
)

// InstallEvents publishes install and uninstall events.
type InstallEvents interface {
	Subscribe() (<-chan installed.Event, func())
}

// Deps are the collaborators of a Session. Cache, Events and Installer may be nil.
type Deps struct {
	Searcher  Searcher
	Cache     ResponseCache
	Resolver  CategoryResolver
	Lookup    InstalledLookup
	Events    InstallEvents
	Installer *Installer
	Surface   render.Surface
}

// SessionOptions tune paging and timing.
type SessionOptions struct {
	PerPage int
	FadeIn  time.Duration
	// NavRetryDelay is how long Next and Prev wait while a page is loading.
	NavRetryDelay time.Duration
}

// DefaultSessionOptions returns the stock display settings.
func DefaultSessionOptions() SessionOptions {
	return SessionOptions{
		PerPage:       constant.DisplayPerPage,
		FadeIn:        constant.FadeInThreshold,
		NavRetryDelay: constant.NavRetryDelay,
	}
}

// SessionState is a snapshot of a Session taken on its event loop.
type SessionState struct {
	Controller ControllerState
	Page       int
	TotalPages int
	Results    []model.SearchResult
	Pending    int
	Loading    bool
	Slots      int
	Err        error
}

type task func(ctx context.Context)

// Session is one search-results view. All of its state is owned by the
// goroutine running Run; public methods post tasks to it.
type Session struct {
	ctrl      *Controller
	agg       *Aggregator
	rec       *render.Reconciler
	surface   render.Surface
	installer *Installer
	events    InstallEvents
	opts      SessionOptions

	tasks chan task
	done  chan struct{}
	nav   *debounce.Debouncer[string]

	// loop-owned
	gen           int
	loading       bool
	stepScheduled bool
	lastErr       error

	log *logrus.Entry
}

// NewSession wires a session for tabURL. Nothing happens until Run is called.
func NewSession(deps Deps, opts SessionOptions, tabURL string) *Session {
	defaults := DefaultSessionOptions()
	if opts.PerPage <= 0 {
		opts.PerPage = defaults.PerPage
	}
	if opts.NavRetryDelay <= 0 {
		opts.NavRetryDelay = defaults.NavRetryDelay
	}

	ctrl := NewController(deps.Searcher, deps.Cache, deps.Resolver, tabURL)
	return &Session{
		ctrl:      ctrl,
		agg:       NewAggregator(NewDuplicateFilter(deps.Lookup, ctrl)),
		rec:       render.NewReconciler(deps.Surface, opts.PerPage, opts.FadeIn),
		surface:   deps.Surface,
		installer: deps.Installer,
		events:    deps.Events,
		opts:      opts,
		tasks:     make(chan task, 64),
		done:      make(chan struct{}),
		nav:       debounce.New[string](opts.NavRetryDelay),
		log:       logrus.WithField("component", "session"),
	}
}

// Run processes tasks until ctx is canceled. Queued aggregation steps yield
// to every other pending task.
func (s *Session) Run(ctx context.Context) error {
	defer close(s.done)
	defer s.nav.Stop()

	var events <-chan installed.Event
	if s.events != nil {
		ch, unsubscribe := s.events.Subscribe()
		defer unsubscribe()
		events = ch
	}

	for {
		if s.stepScheduled {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case t := <-s.tasks:
				t(ctx)
				continue
			case ev, ok := <-events:
				if !ok {
					events = nil
				} else {
					s.handleInstallEvent(ev)
				}
				continue
			default:
			}
			s.stepScheduled = false
			s.step(ctx)
			continue
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case t := <-s.tasks:
			t(ctx)
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			s.handleInstallEvent(ev)
		}
	}
}

// post hands t to the loop. It returns false once the loop has stopped.
func (s *Session) post(t task) bool {
	select {
	case s.tasks <- t:
		return true
	case <-s.done:
		return false
	}
}

// Start shows the first page of results for the current tab.
func (s *Session) Start() {
	s.post(func(ctx context.Context) {
		s.restart(ctx, "")
	})
}

// Restart throws everything away and searches for tabURL.
func (s *Session) Restart(tabURL string) {
	s.post(func(ctx context.Context) {
		s.restart(ctx, tabURL)
	})
}

func (s *Session) restart(ctx context.Context, tabURL string) {
	s.gen++
	if tabURL == "" {
		tabURL = s.ctrl.TabURL()
	}
	s.ctrl.Reset(tabURL)
	s.agg.Reset()
	s.rec.Clear()
	s.loading = false
	s.stepScheduled = false
	s.lastErr = nil
	s.surface.SetStatus("")
	s.log.WithField("url", tabURL).Debug("search started")
	s.render()
	s.loadMore(ctx)
}

// Next shows the next page.
func (s *Session) Next() {
	s.post(func(ctx context.Context) {
		if s.loading {
			s.nav.Call("next", s.Next)
			return
		}
		page := s.rec.Window().Page
		if page >= s.totalPages() {
			return
		}
		s.rec.SetPage(page + 1)
		s.render()
		s.loadMoreIfNeeded(ctx)
	})
}

// Prev shows the previous page.
func (s *Session) Prev() {
	s.post(func(ctx context.Context) {
		if s.loading {
			s.nav.Call("prev", s.Prev)
			return
		}
		page := s.rec.Window().Page
		if page <= 1 {
			return
		}
		s.rec.SetPage(page - 1)
		s.render()
		s.loadMoreIfNeeded(ctx)
	})
}

// ToggleInstall installs the result at position, or removes it when it is
// installed already. The surface is updated by the resulting install event.
func (s *Session) ToggleInstall(position int) {
	s.post(func(ctx context.Context) {
		s.toggleInstall(ctx, position)
	})
}

// ToggleInstallSlot toggles the result in slot (0 based) of the visible page.
func (s *Session) ToggleInstallSlot(slot int) {
	s.post(func(ctx context.Context) {
		start, _ := s.rec.Window().Range()
		s.toggleInstall(ctx, start+slot)
	})
}

func (s *Session) toggleInstall(ctx context.Context, position int) {
	r := s.agg.At(position)
	if r == nil || s.installer == nil {
		return
	}
	snapshot := *r
	go func() {
		var err error
		if snapshot.Installed {
			err = s.installer.Uninstall(ctx, &snapshot)
		} else {
			_, err = s.installer.Install(ctx, &snapshot)
		}
		if err != nil && !errors.Is(err, context.Canceled) {
			s.log.WithError(err).WithField("uso_id", snapshot.ID).Warn("install toggle failed")
			s.post(func(context.Context) {
				s.surface.SetStatus(model.UserMessage(err))
				s.flush()
			})
		}
	}()
}

// State returns a snapshot taken on the event loop.
func (s *Session) State(ctx context.Context) (SessionState, error) {
	out := make(chan SessionState, 1)
	ok := s.post(func(context.Context) {
		results := s.agg.Results()
		copied := make([]model.SearchResult, len(results))
		for i, r := range results {
			copied[i] = *r
		}
		out <- SessionState{
			Controller: s.ctrl.Snapshot(),
			Page:       s.rec.Window().Page,
			TotalPages: s.totalPages(),
			Results:    copied,
			Pending:    s.agg.Pending(),
			Loading:    s.loading,
			Slots:      len(s.rec.Slots()),
			Err:        s.lastErr,
		}
	})
	if !ok {
		return SessionState{}, errors.New("session stopped")
	}
	select {
	case st := <-out:
		return st, nil
	case <-ctx.Done():
		return SessionState{}, ctx.Err()
	}
}

// Settled reports whether no load or aggregation work is outstanding.
func (st SessionState) Settled() bool {
	return !st.Loading && st.Pending == 0
}

func (s *Session) loadMore(ctx context.Context) {
	if s.loading {
		return
	}
	s.loading = true
	gen := s.gen
	epoch := s.ctrl.Epoch()
	aggregated := s.agg.Len()
	go func() {
		results, err := s.ctrl.load(ctx, epoch, aggregated)
		s.post(func(ctx context.Context) {
			if gen != s.gen {
				return
			}
			s.loading = false
			s.onLoaded(ctx, results, err)
		})
	}()
}

func (s *Session) onLoaded(ctx context.Context, results []model.SearchResult, err error) {
	switch {
	case errors.Is(err, errStale), errors.Is(err, context.Canceled):
		return
	case errors.Is(err, model.ErrNotFound):
		s.lastErr = err
		s.log.Debug("nothing (more) found")
		if s.agg.Len() == 0 {
			s.rec.Clear()
		} else {
			s.render()
		}
		s.surface.SetStatus(model.UserMessage(err))
		s.flush()
		return
	case err != nil:
		s.lastErr = err
		s.log.WithError(err).Warn("loading results failed")
		if s.agg.Len() == 0 {
			s.rec.Clear()
		} else {
			s.render()
		}
		s.surface.SetStatus(model.UserMessage(err))
		s.flush()
		return
	}

	if len(results) == 0 {
		s.render()
		return
	}
	s.agg.Enqueue(results...)
	s.stepScheduled = true
}

func (s *Session) step(ctx context.Context) {
	if s.agg.Step(ctx) == StepAppended {
		s.render()
	}
	if s.agg.Pending() > 0 {
		s.stepScheduled = true
		return
	}
	s.loadMoreIfNeeded(ctx)
}

func (s *Session) loadMoreIfNeeded(ctx context.Context) {
	if !s.agg.NeedsMore(s.rec.Window().Page, s.opts.PerPage) {
		return
	}
	if s.ctrl.Phase() == PhaseExhausted && s.agg.Len() > 0 {
		s.render()
		return
	}
	s.loadMore(ctx)
}

// displayTotal is the result count the window is drawn and clamped against.
// Once nothing more can arrive it is pinned to what was aggregated so no
// placeholders linger.
func (s *Session) displayTotal() int {
	if s.ctrl.Phase() == PhaseExhausted && !s.loading && s.agg.Pending() == 0 && s.agg.Len() > 0 {
		return s.agg.Len()
	}
	return s.ctrl.TotalResults()
}

func (s *Session) totalPages() int {
	total := s.displayTotal()
	if s.opts.PerPage <= 0 || total <= 0 {
		return 0
	}
	return (total + s.opts.PerPage - 1) / s.opts.PerPage
}

func (s *Session) render() {
	s.rec.Render(s.agg.Results(), s.displayTotal())
}

func (s *Session) flush() {
	if f, ok := s.surface.(render.Flusher); ok {
		f.Flush()
	}
}

func (s *Session) handleInstallEvent(ev installed.Event) {
	var pos int
	switch ev.Kind {
	case installed.Added:
		pos = s.agg.MarkInstalled(ev.Style.USOID, ev.Style.ID)
	case installed.Deleted:
		pos = s.agg.MarkUninstalled(ev.Style.ID)
	default:
		return
	}
	if pos < 0 {
		return
	}
	s.log.WithFields(logrus.Fields{"event": ev.Kind, "position": pos}).Debug("install state changed")
	s.rec.Refresh(s.agg.At(pos), pos)
}
