// Package installed keeps the set of locally installed styles.
package installed

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hamidzr/stylefind/model"
	"github.com/hamidzr/stylefind/store"
)

const (
	fileName      = "installed"
	subscriberBuf = 32
)

// ErrNotInstalled is returned when deleting an unknown style.
var ErrNotInstalled = errors.New("style not installed")

// Document is the persisted registry file.
type Document struct {
	Styles []model.Style `yaml:"styles"`
}

type EventKind int

const (
	Added EventKind = iota
	Deleted
)

func (k EventKind) String() string {
	if k == Added {
		return "added"
	}
	return "deleted"
}

// Event reports an install or uninstall.
type Event struct {
	Kind  EventKind
	Style model.Style
}

// Registry is safe for concurrent use.
type Registry struct {
	file *store.FileStore[Document]
	now  func() time.Time

	mu     sync.RWMutex
	styles map[string]model.Style

	subsMu sync.Mutex
	subs   map[chan Event]struct{}

	log *logrus.Entry
}

// Open loads the registry kept in dir.
func Open(dir string) (*Registry, error) {
	file, err := store.NewFileStore[Document](dir, fileName, "yaml")
	if err != nil {
		return nil, errors.Wrap(err, "opening installed styles")
	}
	r := &Registry{
		file:   file,
		now:    time.Now,
		styles: make(map[string]model.Style),
		subs:   make(map[chan Event]struct{}),
		log:    logrus.WithField("component", "installed"),
	}
	doc, err := file.Load()
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", file.Path())
	}
	for _, s := range doc.Styles {
		r.styles[s.ID] = s
	}
	return r, nil
}

// Path is the registry file location.
func (r *Registry) Path() string {
	return r.file.Path()
}

// Find returns the first style, in List order, matching pred.
func (r *Registry) Find(pred func(model.Style) bool) (model.Style, bool) {
	for _, s := range r.List() {
		if pred(s) {
			return s, true
		}
	}
	return model.Style{}, false
}

// FindByUpdateURL looks up a style by its catalog fingerprint. A trailing "?"
// (added for styles with settings) is ignored.
func (r *Registry) FindByUpdateURL(ctx context.Context, updateURL string) (*model.Style, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	want := strings.TrimSuffix(updateURL, "?")
	s, ok := r.Find(func(s model.Style) bool {
		return strings.TrimSuffix(s.UpdateURL, "?") == want
	})
	if !ok {
		return nil, nil
	}
	return &s, nil
}

// Get returns the style with the given local id.
func (r *Registry) Get(id string) (model.Style, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.styles[id]
	return s, ok
}

// List returns the installed styles, oldest first.
func (r *Registry) List() []model.Style {
	r.mu.RLock()
	list := make([]model.Style, 0, len(r.styles))
	for _, s := range r.styles {
		list = append(list, s)
	}
	r.mu.RUnlock()
	sortStyles(list)
	return list
}

func sortStyles(list []model.Style) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].InstalledAt.Equal(list[j].InstalledAt) {
			return list[i].InstalledAt.Before(list[j].InstalledAt)
		}
		return list[i].ID < list[j].ID
	})
}

// Save installs or updates a style and returns the stored copy.
func (r *Registry) Save(ctx context.Context, style model.Style) (model.Style, error) {
	if err := ctx.Err(); err != nil {
		return model.Style{}, err
	}
	if style.ID == "" {
		style.ID = uuid.New().String()
	}
	if style.InstalledAt.IsZero() {
		style.InstalledAt = r.now()
	}
	if style.USOID == 0 {
		style.USOID = model.USOIDFromUpdateURL(style.UpdateURL)
	}

	r.mu.Lock()
	prev, existed := r.styles[style.ID]
	r.styles[style.ID] = style
	if err := r.persistLocked(); err != nil {
		if existed {
			r.styles[style.ID] = prev
		} else {
			delete(r.styles, style.ID)
		}
		r.mu.Unlock()
		return model.Style{}, err
	}
	r.mu.Unlock()

	r.log.WithFields(logrus.Fields{"id": style.ID, "name": style.Name}).Debug("style saved")
	r.publish(Event{Kind: Added, Style: style})
	return style, nil
}

// Delete uninstalls the style with the given local id.
func (r *Registry) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	style, ok := r.styles[id]
	if !ok {
		r.mu.Unlock()
		return errors.Wrap(ErrNotInstalled, id)
	}
	delete(r.styles, id)
	if err := r.persistLocked(); err != nil {
		r.styles[id] = style
		r.mu.Unlock()
		return err
	}
	r.mu.Unlock()

	r.log.WithField("id", id).Debug("style deleted")
	r.publish(Event{Kind: Deleted, Style: style})
	return nil
}

func (r *Registry) persistLocked() error {
	doc := Document{Styles: make([]model.Style, 0, len(r.styles))}
	for _, s := range r.styles {
		doc.Styles = append(doc.Styles, s)
	}
	sortStyles(doc.Styles)
	return errors.Wrap(r.file.Save(doc), "saving installed styles")
}

// Reload re-reads the registry file and publishes the differences.
func (r *Registry) Reload() error {
	doc, err := r.file.Load()
	if err != nil {
		return errors.Wrapf(err, "reading %s", r.file.Path())
	}
	next := make(map[string]model.Style, len(doc.Styles))
	for _, s := range doc.Styles {
		next[s.ID] = s
	}

	r.mu.Lock()
	var events []Event
	for id, s := range r.styles {
		if _, ok := next[id]; !ok {
			events = append(events, Event{Kind: Deleted, Style: s})
		}
	}
	for id, s := range next {
		if old, ok := r.styles[id]; !ok || old.UpdateURL != s.UpdateURL {
			events = append(events, Event{Kind: Added, Style: s})
		}
	}
	r.styles = next
	r.mu.Unlock()

	for _, e := range events {
		r.publish(e)
	}
	return nil
}

// Subscribe returns a channel of install events and a function that ends the
// subscription. Slow subscribers miss events rather than block writers.
func (r *Registry) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuf)
	r.subsMu.Lock()
	r.subs[ch] = struct{}{}
	r.subsMu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			r.subsMu.Lock()
			delete(r.subs, ch)
			r.subsMu.Unlock()
			close(ch)
		})
	}
}

func (r *Registry) publish(e Event) {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()
	for ch := range r.subs {
		select {
		case ch <- e:
		default:
			r.log.WithField("event", e.Kind).Warn("subscriber is full, dropping install event")
		}
	}
}
