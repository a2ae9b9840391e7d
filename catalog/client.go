// Package catalog talks to the remote style catalog.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/hamidzr/stylefind/constant"
	"github.com/hamidzr/stylefind/internal/metrics"
	"github.com/hamidzr/stylefind/model"
)

const (
	endpointSearch    = "search"
	endpointStyle     = "style"
	endpointStyleJSON = "style_json"

	maxBodySize = 16 << 20
)

// ResponseCache keeps decoded catalog documents between runs.
type ResponseCache interface {
	Read(ctx context.Context, key string) (json.RawMessage, bool)
	Write(key string, v any)
}

// StyleCacheKey is the response cache key of a style detail document. The
// colon keeps it apart from the category/page search keys.
func StyleCacheKey(id int64) string {
	return "style:" + strconv.FormatInt(id, 10)
}

// styleExceptProps are dropped from style details before they are returned.
var styleExceptProps = []string{"css", "discussions", "additional_info"}

// Options configures a Client.
type Options struct {
	BaseURL   string
	Timeout   time.Duration
	RateLimit float64 // requests per second, <= 0 disables limiting
	Burst     int
	UserAgent string
	// MemoSize and MemoTTL bound the in-process style document memo.
	MemoSize   int
	MemoTTL    time.Duration
	HTTPClient *http.Client
	// Cache, when set, stores style details.
	Cache ResponseCache
}

// DefaultOptions returns the stock client settings.
func DefaultOptions() Options {
	return Options{
		BaseURL:   constant.BaseURL,
		Timeout:   30 * time.Second,
		RateLimit: 5,
		Burst:     2,
		UserAgent: constant.ProjectName,
		MemoSize:  64,
		MemoTTL:   time.Hour,
	}
}

// Client is safe for concurrent use.
type Client struct {
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	flight    singleflight.Group
	memo      *expirable.LRU[int64, *model.StylePayload]
	cache     ResponseCache
	log       *logrus.Entry
}

// NewClient creates a Client, filling unset options with defaults.
func NewClient(opts Options) *Client {
	d := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = d.BaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = d.Timeout
	}
	if opts.Burst <= 0 {
		opts.Burst = d.Burst
	}
	if opts.UserAgent == "" {
		opts.UserAgent = d.UserAgent
	}
	if opts.MemoSize <= 0 {
		opts.MemoSize = d.MemoSize
	}
	if opts.MemoTTL <= 0 {
		opts.MemoTTL = d.MemoTTL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.Timeout}
	}
	limit := rate.Inf
	if opts.RateLimit > 0 {
		limit = rate.Limit(opts.RateLimit)
	}

	return &Client{
		baseURL:   strings.TrimRight(opts.BaseURL, "/"),
		userAgent: opts.UserAgent,
		http:      httpClient,
		limiter:   rate.NewLimiter(limit, opts.Burst),
		memo:      expirable.NewLRU[int64, *model.StylePayload](opts.MemoSize, nil, opts.MemoTTL),
		cache:     opts.Cache,
		log:       logrus.WithField("component", "catalog"),
	}
}

// BaseURL is the catalog origin the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// SearchURL is the subcategory search endpoint for category and page.
func (c *Client) SearchURL(category string, page int) string {
	return c.baseURL + "/api/v1/styles/subcategory" +
		"?search=" + url.QueryEscape(category) +
		"&page=" + strconv.Itoa(page) +
		"&country=NA"
}

// Search fetches one page of styles for category.
func (c *Client) Search(ctx context.Context, category string, page int) (*model.SearchPageResponse, error) {
	body, err := c.get(ctx, endpointSearch, c.SearchURL(category, page))
	if err != nil {
		return nil, err
	}
	var res model.SearchPageResponse
	if err := json.Unmarshal(body, &res); err != nil {
		return nil, errors.Wrapf(err, "decoding search page %d for %q", page, category)
	}
	return &res, nil
}

// Style fetches the detail document of a style, without its code and
// discussions. Details are served from the response cache when present.
func (c *Client) Style(ctx context.Context, id int64) (*model.StyleDetail, error) {
	key := StyleCacheKey(id)
	if c.cache != nil {
		if raw, ok := c.cache.Read(ctx, key); ok {
			var detail model.StyleDetail
			if err := json.Unmarshal(raw, &detail); err == nil {
				if detail.StyleSettings == nil {
					detail.StyleSettings = []json.RawMessage{}
				}
				return &detail, nil
			}
			c.log.WithField("key", key).Warn("undecodable cached style, refetching")
		}
	}

	body, err := c.get(ctx, endpointStyle, fmt.Sprintf("%s/api/v1/styles/%d", c.baseURL, id))
	if err != nil {
		return nil, err
	}
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, errors.Wrapf(err, "decoding style %d", id)
	}
	for _, prop := range styleExceptProps {
		delete(doc, prop)
	}
	trimmed, err := json.Marshal(doc)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding style %d", id)
	}
	var detail model.StyleDetail
	if err := json.Unmarshal(trimmed, &detail); err != nil {
		return nil, errors.Wrapf(err, "decoding style %d", id)
	}
	if detail.StyleSettings == nil {
		detail.StyleSettings = []json.RawMessage{}
	}
	if c.cache != nil {
		c.cache.Write(key, detail)
	}
	return &detail, nil
}

// StyleJSON fetches the installable document of a style.
func (c *Client) StyleJSON(ctx context.Context, id int64) (*model.StylePayload, error) {
	if payload, ok := c.memo.Get(id); ok {
		return payload, nil
	}
	body, err := c.get(ctx, endpointStyleJSON, fmt.Sprintf("%s/styles/chrome/%d.json", c.baseURL, id))
	if err != nil {
		return nil, err
	}
	var payload model.StylePayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, errors.Wrapf(err, "decoding style json %d", id)
	}
	payload.Raw = body
	c.memo.Add(id, &payload)
	return &payload, nil
}

// get issues a GET, sharing the response with identical in-flight requests.
func (c *Client) get(ctx context.Context, endpoint, rawURL string) ([]byte, error) {
	v, err, shared := c.flight.Do(rawURL, func() (interface{}, error) {
		return c.fetch(ctx, endpoint, rawURL)
	})
	if shared {
		c.log.WithField("url", rawURL).Trace("shared in-flight request")
	}
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

func (c *Client) fetch(ctx context.Context, endpoint, rawURL string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		metrics.CatalogRequests.WithLabelValues(endpoint, "canceled").Inc()
		return nil, &model.NetworkError{URL: rawURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, errors.Wrap(err, "building request")
	}
	req.Header.Set("Accept", "*/*")
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.CatalogRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, &model.NetworkError{URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	log := c.log.WithFields(logrus.Fields{
		"url":      rawURL,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.CatalogRequests.WithLabelValues(endpoint, "status").Inc()
		log.Debug("catalog request rejected")
		return nil, &model.NetworkError{URL: rawURL, Status: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		metrics.CatalogRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, &model.NetworkError{URL: rawURL, Status: resp.StatusCode, Err: err}
	}
	metrics.CatalogRequests.WithLabelValues(endpoint, "ok").Inc()
	log.Debug("catalog request done")
	return body, nil
}
