package model

import (
	"encoding/json"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSearchResultWireFormat tests decoding a catalog search item
func TestSearchResultWireFormat(t *testing.T) {
	raw := `{
		"id": 100835,
		"name": "Reddit Flat Dark",
		"screenshot_url": "19339_after.png",
		"description": "dark",
		"rating": 2.8,
		"weekly_install_count": 12,
		"total_install_count": 3400,
		"updated": "2017-08-21T10:00:00.000Z",
		"user": {"id": 48470, "name": "holloh"},
		"subcategory": "reddit",
		"style_settings": [{"id": 1}, {"id": 2}]
	}`

	var result SearchResult
	require.NoError(t, json.Unmarshal([]byte(raw), &result))

	assert.Equal(t, int64(100835), result.ID)
	assert.Equal(t, "holloh", result.User.Name)
	assert.Equal(t, "reddit", result.Subcategory)
	require.NotNil(t, result.Rating)
	assert.InDelta(t, 2.8, *result.Rating, 0.001)
	assert.Equal(t, 2, result.SettingsCount())
	assert.Equal(t, "search-result-100835", result.Key())
	assert.False(t, result.Installed)
}

// TestSearchResultLocalFieldsNotSerialized tests that install state stays local
func TestSearchResultLocalFieldsNotSerialized(t *testing.T) {
	result := SearchResult{ID: 1, Installed: true, InstalledLocalID: "abc"}
	data, err := json.Marshal(result)
	require.NoError(t, err)

	assert.NotContains(t, string(data), "abc")
	assert.NotContains(t, string(data), "Installed")
}

// TestSearchResultNullRating tests that a null rating stays nil
func TestSearchResultNullRating(t *testing.T) {
	var result SearchResult
	require.NoError(t, json.Unmarshal([]byte(`{"id": 5, "rating": null}`), &result))
	assert.Nil(t, result.Rating)
}

func TestFingerprint(t *testing.T) {
	assert.Equal(t, "https://update.userstyles.org/123.md5", Fingerprint(123))
	assert.Equal(t, int64(123), USOIDFromUpdateURL(Fingerprint(123)))
	assert.Equal(t, int64(77), USOIDFromUpdateURL("https://update.userstyles.org/77.md5?"))
	assert.Equal(t, int64(0), USOIDFromUpdateURL("https://example.com/style.css"))
	assert.Equal(t, int64(0), USOIDFromUpdateURL(""))
}

func TestUserMessage(t *testing.T) {
	assert.Equal(t, "", UserMessage(nil))
	assert.Equal(t, "No styles found for this site", UserMessage(ErrNotFound))
	assert.Equal(t, "No styles found for this site", UserMessage(errors.Wrap(ErrNotFound, "category reddit")))

	netErr := &NetworkError{URL: "https://x", Status: 503}
	assert.Equal(t, "An error occurred\nHTTP 503", UserMessage(netErr))
	assert.True(t, IsNetworkError(errors.Wrap(netErr, "search")))
	assert.False(t, IsNetworkError(ErrNotFound))
}

// TestDefaultConfig tests default configuration values
func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "https://userstyles.org", cfg.BaseURL)
	assert.Equal(t, "sqlite", cfg.CacheBackend)
	assert.Equal(t, int64(1_000_000), cfg.CacheMaxBytes)
	assert.Equal(t, 10, cfg.ItemsPerPage)
	assert.Equal(t, "Stylus", cfg.SelfName)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.TerminalMode)
}
