// Package category derives catalog search categories from page URLs.
package category

import (
	"net/url"
	"regexp"
	"strings"
)

const (
	// FileCategory is used for local file pages.
	FileCategory = "file:"

	DefaultSelfScheme = "chrome-extension"
	DefaultSelfName   = "Stylus"
)

// hostname is reduced to subdomain.name.tld; ".com"/".co" before the tld is dropped.
var (
	rxCategory      = regexp.MustCompile(`^(?:.*?)([^.]+)(?:\.com?)?\.(\w+)$`)
	rxExtensionPage = regexp.MustCompile(`^(chrome|moz)-extension$`)
)

// Override replaces the category computed for a name.tld pair.
type Override struct {
	// Category is used verbatim when FreeText is false.
	Category string
	// FreeText makes the caller search by text instead of by category.
	FreeText bool
}

// DefaultOverrides returns the stock override table.
func DefaultOverrides() map[string]Override {
	return map[string]Override{
		"userstyles.org": {Category: "userstyles.org"},
		"last.fm":        {FreeText: true},
		DefaultSelfName:  {FreeText: true},
	}
}

// Options configures a Resolver.
type Options struct {
	// SelfScheme is the URL scheme of the application's own pages.
	SelfScheme string
	// SelfName is the category reported for the application's own pages.
	SelfName  string
	Overrides map[string]Override
}

// ResolveOptions tunes a single resolution.
type ResolveOptions struct {
	// KeepTLD appends the tld (without a dot) when no override applies.
	KeepTLD bool
}

type Resolver struct {
	selfScheme string
	selfName   string
	overrides  map[string]Override
}

// NewResolver creates a Resolver, filling unset options with defaults.
func NewResolver(opts Options) *Resolver {
	if opts.SelfScheme == "" {
		opts.SelfScheme = DefaultSelfScheme
	}
	if opts.SelfName == "" {
		opts.SelfName = DefaultSelfName
	}
	if opts.Overrides == nil {
		opts.Overrides = DefaultOverrides()
	}
	return &Resolver{
		selfScheme: strings.ToLower(opts.SelfScheme),
		selfName:   opts.SelfName,
		overrides:  opts.Overrides,
	}
}

// SelfName is the category used for the application's own pages.
func (r *Resolver) SelfName() string {
	return r.selfName
}

// Resolve returns the category for rawURL, or "" when the URL is unusable.
func (r *Resolver) Resolve(rawURL string, opts ResolveOptions) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Scheme == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "file":
		return FileCategory
	case r.selfScheme:
		return r.selfName
	}

	host := strings.ToLower(u.Hostname())
	name, tld := host, ""
	if m := rxCategory.FindStringSubmatch(host); m != nil {
		name, tld = m[1], m[2]
	}
	withTLD := name + "." + tld
	if o, ok := r.overrides[withTLD]; ok {
		if o.FreeText {
			return withTLD
		}
		if o.Category != "" {
			return o.Category
		}
	}
	if opts.KeepTLD {
		return name + tld
	}
	return name
}

// IsFreeText reports whether category should be searched as text.
func (r *Resolver) IsFreeText(category string) bool {
	_, ok := r.overrides[category]
	return ok
}

// SearchPageURL is the catalog's browse page for rawURL.
func (r *Resolver) SearchPageURL(baseURL, rawURL string) string {
	c := r.Resolve(rawURL, ResolveOptions{})
	prefix := ""
	if r.IsFreeText(c) {
		prefix = "?search_terms="
	}
	return strings.TrimRight(baseURL, "/") + "/styles/browse/" + prefix + c
}

// SameCategory reports whether a result's subcategory belongs to category.
func (r *Resolver) SameCategory(category, subcategory string) bool {
	if subcategory == "" {
		return false
	}
	if category == subcategory {
		return true
	}
	if category == r.selfName && rxExtensionPage.MatchString(subcategory) {
		return true
	}
	return strings.EqualFold(
		strings.Replace(category, ".", "", 1),
		strings.Replace(subcategory, ".", "", 1),
	)
}
