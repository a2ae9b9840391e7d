package constant

import "time"

const (
	ProjectName = "stylefind"
	UnsetInt    = -1
)

// catalog endpoints
const (
	BaseURL           = "https://userstyles.org"
	UpdateURLTemplate = "https://update.userstyles.org/%.md5"
)

// cache defaults
const (
	CacheSize            = 1_000_000
	CachePrefix          = "usoSearchCache/"
	CacheDuration        = 24 * time.Hour
	CacheWriteDelay      = 100 * time.Millisecond
	CacheCleanupThrottle = 60 * time.Second
)

// display defaults
const (
	DisplayPerPage  = 10
	FadeInThreshold = 50 * time.Millisecond
	// NavRetryDelay is how long a page change waits while a fetch is in flight.
	NavRetryDelay  = 100 * time.Millisecond
	ResultIDPrefix = "search-result-"
)
