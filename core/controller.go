package core

import (
	"context"
	"encoding/json"
	"strconv"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/hamidzr/stylefind/category"
	"github.com/hamidzr/stylefind/constant"
	"github.com/hamidzr/stylefind/model"
)

// errStale is returned by loads that were overtaken by a Reset.
var errStale = errors.New("search was restarted")

// Searcher fetches one page of catalog search results.
type Searcher interface {
	Search(ctx context.Context, category string, page int) (*model.SearchPageResponse, error)
}

// ResponseCache stores catalog responses between runs.
type ResponseCache interface {
	Read(ctx context.Context, key string) (json.RawMessage, bool)
	Write(key string, v any)
}

// CategoryResolver maps page URLs to catalog categories.
type CategoryResolver interface {
	Resolve(rawURL string, opts category.ResolveOptions) string
	SameCategory(category, subcategory string) bool
}

// Controller drives paged category searches for one tab URL: it resolves the
// category, reads pages through the cache, falls back once to the
// TLD-keeping category and keeps the running result total.
type Controller struct {
	searcher Searcher
	cache    ResponseCache
	resolver CategoryResolver

	mu           sync.Mutex
	tabURL       string
	state        PaginationState
	totalResults int
	loading      bool
	// epoch changes on every Reset so late loads can tell they are stale.
	epoch int

	log *logrus.Entry
}

// NewController creates a Controller for tabURL. cache may be nil.
func NewController(searcher Searcher, cache ResponseCache, resolver CategoryResolver, tabURL string) *Controller {
	return &Controller{
		searcher: searcher,
		cache:    cache,
		resolver: resolver,
		tabURL:   tabURL,
		state:    newPaginationState(),
		log:      logrus.WithField("component", "controller"),
	}
}

// Reset starts over for tabURL.
func (c *Controller) Reset(tabURL string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tabURL = tabURL
	c.state = newPaginationState()
	c.totalResults = 0
	c.loading = false
	c.epoch++
}

// TabURL is the page the controller searches for.
func (c *Controller) TabURL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tabURL
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() ControllerState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return ControllerState{
		PaginationState: c.state,
		TotalResults:    c.totalResults,
		Phase:           c.phaseLocked(),
	}
}

// Phase reports idle, loading or exhausted.
func (c *Controller) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phaseLocked()
}

func (c *Controller) phaseLocked() Phase {
	switch {
	case c.loading:
		return PhaseLoading
	case c.state.Exhausted:
		return PhaseExhausted
	default:
		return PhaseIdle
	}
}

// TotalResults is the running count of displayable results.
func (c *Controller) TotalResults() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.totalResults
}

// TotalPages is the number of display pages of perPage results.
func (c *Controller) TotalPages(perPage int) int {
	total := c.TotalResults()
	if perPage <= 0 || total <= 0 {
		return 0
	}
	return (total + perPage - 1) / perPage
}

// DecrementTotal lowers the running total, never below zero.
func (c *Controller) DecrementTotal(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.totalResults = max(0, c.totalResults-n)
}

// Search fetches the next page for category, from the cache when possible.
// restart rewinds to page 1. Past the last page an empty page is returned
// without any fetch.
func (c *Controller) Search(ctx context.Context, category string, restart bool) (*model.SearchPageResponse, error) {
	return c.search(ctx, c.Epoch(), category, restart)
}

func (c *Controller) search(ctx context.Context, epoch int, category string, restart bool) (*model.SearchPageResponse, error) {
	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return nil, errStale
	}
	if restart {
		c.state.CurrentPage = 1
		c.state.TotalPages = constant.UnsetInt
	}
	if c.state.pastLastPage() {
		c.mu.Unlock()
		return &model.SearchPageResponse{}, nil
	}
	page := c.state.CurrentPage
	c.mu.Unlock()

	key := category + "/" + strconv.Itoa(page)
	log := c.log.WithFields(logrus.Fields{"category": category, "page": page})

	res, ok := c.readCache(ctx, key)
	if ok {
		log.Debug("search page from cache")
	} else {
		fetched, err := c.searcher.Search(ctx, category, page)
		if err != nil {
			c.mu.Lock()
			if c.epoch == epoch {
				c.state.Exhausted = true
			}
			c.mu.Unlock()
			log.WithError(err).Warn("search failed")
			return nil, err
		}
		res = fetched
		res.ID = key
		if c.cache != nil {
			c.cache.Write(key, res)
		}
		log.WithField("results", len(res.Data)).Debug("search page fetched")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return nil, errStale
	}
	c.state.CurrentPage = res.CurrentPage + 1
	c.state.TotalPages = res.TotalPages
	c.state.Exhausted = c.state.CurrentPage > c.state.TotalPages
	return res, nil
}

func (c *Controller) readCache(ctx context.Context, key string) (*model.SearchPageResponse, bool) {
	if c.cache == nil {
		return nil, false
	}
	raw, ok := c.cache.Read(ctx, key)
	if !ok {
		return nil, false
	}
	var res model.SearchPageResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		c.log.WithError(err).WithField("key", key).Debug("cached page unreadable")
		return nil, false
	}
	return &res, true
}

// Load fetches until it has in-category results for the aggregated set, which
// already holds aggregated items. It returns no results and no error when the
// search is exhausted but something was found earlier, and model.ErrNotFound
// when nothing was found at all.
func (c *Controller) Load(ctx context.Context, aggregated int) ([]model.SearchResult, error) {
	return c.load(ctx, c.Epoch(), aggregated)
}

// Epoch identifies the current search; it changes on every Reset.
func (c *Controller) Epoch() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch
}

// load is Load for the search identified by epoch.
func (c *Controller) load(ctx context.Context, epoch, aggregated int) ([]model.SearchResult, error) {
	c.mu.Lock()
	if c.epoch != epoch {
		c.mu.Unlock()
		return nil, errStale
	}
	if c.state.Exhausted {
		c.mu.Unlock()
		if aggregated == 0 {
			return nil, model.ErrNotFound
		}
		return nil, nil
	}
	c.loading = true
	pass := 1
	cat := c.state.Category
	if cat == "" {
		pass = 0
		cat = c.resolver.Resolve(c.tabURL, category.ResolveOptions{})
		c.state.Category = cat
	}
	tabURL := c.tabURL
	c.mu.Unlock()
	defer func() {
		c.mu.Lock()
		if c.epoch == epoch {
			c.loading = false
		}
		c.mu.Unlock()
	}()

	if cat == "" {
		c.markExhausted(epoch)
		return nil, errors.Wrapf(model.ErrNotFound, "no category for %q", tabURL)
	}

	restart := false
	for {
		res, err := c.search(ctx, epoch, cat, restart)
		if err != nil {
			return nil, err
		}
		restart = false

		relevant := make([]model.SearchResult, 0, len(res.Data))
		for _, r := range res.Data {
			if c.resolver.SameCategory(cat, r.Subcategory) {
				relevant = append(relevant, r)
			}
		}
		pass++
		if pass == 1 && len(relevant) == 0 {
			cat = c.resolver.Resolve(tabURL, category.ResolveOptions{KeepTLD: true})
			c.log.WithField("category", cat).Debug("no strict matches, retrying with tld")
			if !c.setCategory(epoch, cat) {
				return nil, errStale
			}
			restart = true
			continue
		}

		irrelevant := len(res.Data) - len(relevant)
		if !c.applyTotals(epoch, res, irrelevant) {
			return nil, errStale
		}

		switch {
		case len(relevant) > 0:
			return relevant, nil
		case irrelevant > 0:
			// only noise on this page, move on to the next one
			c.mu.Lock()
			exhausted := c.state.Exhausted
			c.mu.Unlock()
			if exhausted {
				if aggregated == 0 {
					return nil, model.ErrNotFound
				}
				return nil, nil
			}
		default:
			c.markExhausted(epoch)
			return nil, model.ErrNotFound
		}
	}
}

func (c *Controller) setCategory(epoch int, cat string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return false
	}
	c.state.Category = cat
	return true
}

// applyTotals takes the total from the first page and drops off-category items.
func (c *Controller) applyTotals(epoch int, res *model.SearchPageResponse, irrelevant int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return false
	}
	if res.CurrentPage == 1 {
		c.totalResults = res.TotalEntries
	}
	c.totalResults = max(0, c.totalResults-irrelevant)
	return true
}

func (c *Controller) markExhausted(epoch int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch == epoch {
		c.state.Exhausted = true
	}
}
