package model

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/hamidzr/stylefind/constant"
)

// User is the author of a catalog style.
type User struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// SearchResult is a single style as returned by the catalog search endpoint.
type SearchResult struct {
	ID             int64             `json:"id"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	URL            string            `json:"url"`
	ScreenshotURL  string            `json:"screenshot_url"`
	Rating         *float64          `json:"rating"`
	WeeklyInstalls int64             `json:"weekly_install_count"`
	TotalInstalls  int64             `json:"total_install_count"`
	UpdatedAt      string            `json:"updated"`
	User           User              `json:"user"`
	Subcategory    string            `json:"subcategory"`
	StyleSettings  []json.RawMessage `json:"style_settings,omitempty"`

	// local install state, updated by install/uninstall events.
	Installed        bool   `json:"-"`
	InstalledLocalID string `json:"-"`
}

// Key is the on-screen identity of the result.
func (r *SearchResult) Key() string {
	return constant.ResultIDPrefix + strconv.FormatInt(r.ID, 10)
}

// SettingsCount is the number of user-configurable settings of the style.
func (r *SearchResult) SettingsCount() int {
	return len(r.StyleSettings)
}

// SearchPageResponse is one page of catalog search results.
type SearchPageResponse struct {
	// ID is the cache key the page was stored under.
	ID           string         `json:"id,omitempty"`
	Data         []SearchResult `json:"data"`
	CurrentPage  int            `json:"current_page"`
	TotalPages   int            `json:"total_pages"`
	TotalEntries int            `json:"total_entries"`
}

var rxDigits = regexp.MustCompile(`\d+`)

// Fingerprint returns the update URL an installed copy of the catalog style carries.
func Fingerprint(usoID int64) string {
	return strings.Replace(constant.UpdateURLTemplate, "%", strconv.FormatInt(usoID, 10), 1)
}

// USOIDFromUpdateURL extracts the catalog id from an update URL, 0 if there is none.
func USOIDFromUpdateURL(updateURL string) int64 {
	match := rxDigits.FindString(updateURL)
	if match == "" {
		return 0
	}
	id, err := strconv.ParseInt(match, 10, 64)
	if err != nil {
		return 0
	}
	return id
}
