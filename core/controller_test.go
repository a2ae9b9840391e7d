package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamidzr/stylefind/category"
	"github.com/hamidzr/stylefind/constant"
	"github.com/hamidzr/stylefind/model"
)

const redditURL = "https://www.reddit.com/r/golang"

func newTestController(searcher *fakeSearcher, cache ResponseCache, tabURL string) *Controller {
	return NewController(searcher, cache, category.NewResolver(category.Options{}), tabURL)
}

// TestLoadFirstPage tests a plain first load with more pages to come.
func TestLoadFirstPage(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.setPages("reddit", "reddit", 1, 10, 10, 5)
	cache := newMapCache()
	c := newTestController(searcher, cache, redditURL)

	results, err := c.Load(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, results, 10)

	st := c.Snapshot()
	assert.Equal(t, "reddit", st.Category)
	assert.Equal(t, 2, st.CurrentPage)
	assert.Equal(t, 3, st.TotalPages)
	assert.False(t, st.Exhausted)
	assert.Equal(t, 25, st.TotalResults)
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, 3, c.TotalPages(10))
	assert.Equal(t, []string{"reddit/1"}, searcher.Calls())
	assert.Equal(t, []string{"reddit/1"}, cache.Keys())
}

// TestLoadUsesCache tests that cached pages never reach the network.
func TestLoadUsesCache(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.setPages("reddit", "reddit", 1, 10, 10)
	cache := newMapCache()

	first := newTestController(searcher, cache, redditURL)
	_, err := first.Load(context.Background(), 0)
	require.NoError(t, err)

	second := newTestController(searcher, cache, redditURL)
	results, err := second.Load(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, results, 10)
	assert.Equal(t, 2, second.Snapshot().CurrentPage)
	assert.Len(t, searcher.Calls(), 1)

	raw, ok := cache.Read(context.Background(), "reddit/1")
	require.True(t, ok)
	assert.Contains(t, string(raw), `"id":"reddit/1"`)
}

// TestLoadFallsBackToTLDOnce tests the single retry with the tld kept.
func TestLoadFallsBackToTLDOnce(t *testing.T) {
	searcher := newFakeSearcher()
	c := newTestController(searcher, nil, "https://obscure.example.org/page")

	results, err := c.Load(context.Background(), 0)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Empty(t, results)
	assert.Equal(t, []string{"example/1", "exampleorg/1"}, searcher.Calls())

	st := c.Snapshot()
	assert.True(t, st.Exhausted)
	assert.Equal(t, "exampleorg", st.Category)
	assert.Equal(t, PhaseExhausted, st.Phase)

	_, err = c.Load(context.Background(), 0)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Len(t, searcher.Calls(), 2, "exhausted loads must not fetch")
}

// TestLoadFallbackFindsResults tests a category only known with its tld.
func TestLoadFallbackFindsResults(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.setPages("exampleorg", "example.org", 1, 4)
	c := newTestController(searcher, nil, "https://obscure.example.org/page")

	results, err := c.Load(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, results, 4)
	assert.Equal(t, "exampleorg", c.Snapshot().Category)
	assert.True(t, c.Snapshot().Exhausted)

	results, err = c.Load(context.Background(), 4)
	assert.NoError(t, err, "exhausted with results is a no-op")
	assert.Empty(t, results)
}

// TestLoadNetworkError tests that a failed fetch ends the search.
func TestLoadNetworkError(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.err = &model.NetworkError{URL: "x", Status: 503}
	c := newTestController(searcher, nil, redditURL)

	_, err := c.Load(context.Background(), 0)
	require.Error(t, err)
	assert.True(t, model.IsNetworkError(err))
	assert.Equal(t, "HTTP 503", err.Error())
	assert.True(t, c.Snapshot().Exhausted)
	assert.Equal(t, PhaseExhausted, c.Phase())

	_, err = c.Load(context.Background(), 0)
	assert.ErrorIs(t, err, model.ErrNotFound)
}

// TestLoadSkipsIrrelevantPages tests off-category partitioning and paging past noise.
func TestLoadSkipsIrrelevantPages(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.setPages("reddit", "reddit", 1, 10, 10, 5)
	searcher.mu.Lock()
	for i := range searcher.pages["reddit"][1].Data {
		searcher.pages["reddit"][1].Data[i].Subcategory = "other"
	}
	searcher.pages["reddit"][2].Data[0].Subcategory = "Reddit"
	searcher.pages["reddit"][2].Data[1].Subcategory = "elsewhere"
	searcher.mu.Unlock()
	c := newTestController(searcher, nil, redditURL)

	results, err := c.Load(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, results, 10)

	results, err = c.Load(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, results, 4, "page 2 is skipped, one item of page 3 is off-category")
	assert.Equal(t, []string{"reddit/1", "reddit/2", "reddit/3"}, searcher.Calls())

	st := c.Snapshot()
	assert.Equal(t, 25-10-1, st.TotalResults)
	assert.True(t, st.Exhausted)
}

// TestLoadIrrelevantLastPage tests running out of pages while skipping noise.
func TestLoadIrrelevantLastPage(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.setPages("reddit", "reddit", 1, 10, 3)
	searcher.mu.Lock()
	for i := range searcher.pages["reddit"][1].Data {
		searcher.pages["reddit"][1].Data[i].Subcategory = "other"
	}
	searcher.mu.Unlock()
	c := newTestController(searcher, nil, redditURL)

	_, err := c.Load(context.Background(), 0)
	require.NoError(t, err)

	results, err := c.Load(context.Background(), 10)
	assert.NoError(t, err)
	assert.Empty(t, results)
	assert.True(t, c.Snapshot().Exhausted)
	assert.Equal(t, 10, c.TotalResults())
}

// TestLoadWithoutCategory tests urls that map to no category.
func TestLoadWithoutCategory(t *testing.T) {
	searcher := newFakeSearcher()
	c := newTestController(searcher, nil, "not a url")

	_, err := c.Load(context.Background(), 0)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.True(t, c.Snapshot().Exhausted)
	assert.Empty(t, searcher.Calls())
}

// TestSearchPastLastPage tests the exhaustion short-circuit of Search.
func TestSearchPastLastPage(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.setPages("reddit", "reddit", 1, 2)
	c := newTestController(searcher, nil, redditURL)

	res, err := c.Search(context.Background(), "reddit", false)
	require.NoError(t, err)
	assert.Len(t, res.Data, 2)

	res, err = c.Search(context.Background(), "reddit", false)
	require.NoError(t, err)
	assert.Empty(t, res.Data)
	assert.Len(t, searcher.Calls(), 1)

	res, err = c.Search(context.Background(), "reddit", true)
	require.NoError(t, err)
	assert.Len(t, res.Data, 2, "restart rewinds to page 1")
}

// TestResetDropsStaleSearch tests that a search overtaken by Reset leaves no trace.
func TestResetDropsStaleSearch(t *testing.T) {
	searcher := newFakeSearcher()
	searcher.setPages("reddit", "reddit", 1, 10, 10)
	searcher.gate = make(chan struct{})
	c := newTestController(searcher, nil, redditURL)

	done := make(chan error, 1)
	go func() {
		_, err := c.Load(context.Background(), 0)
		done <- err
	}()
	require.Eventually(t, func() bool { return len(searcher.Calls()) == 1 }, time.Second, time.Millisecond)
	assert.Equal(t, PhaseLoading, c.Phase())

	c.Reset("https://github.com/")
	close(searcher.gate)
	err := <-done
	assert.True(t, errors.Is(err, errStale))

	st := c.Snapshot()
	assert.Equal(t, "", st.Category)
	assert.Equal(t, 1, st.CurrentPage)
	assert.Equal(t, constant.UnsetInt, st.TotalPages)
	assert.Equal(t, 0, st.TotalResults)
	assert.Equal(t, PhaseIdle, st.Phase)
	assert.Equal(t, "https://github.com/", c.TabURL())
}

// TestDecrementTotalFloor tests that the total never goes negative.
func TestDecrementTotalFloor(t *testing.T) {
	c := newTestController(newFakeSearcher(), nil, redditURL)
	c.DecrementTotal(3)
	assert.Equal(t, 0, c.TotalResults())
	assert.Equal(t, 0, c.TotalPages(10))
}
