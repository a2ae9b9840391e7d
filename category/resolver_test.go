package category

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestResolve tests category derivation from urls
func TestResolve(t *testing.T) {
	type TestCase struct {
		url      string
		keepTLD  bool
		expected string
	}

	testCases := []TestCase{
		{url: "https://www.reddit.com/r/golang", expected: "reddit"},
		{url: "https://www.reddit.com/r/golang", keepTLD: true, expected: "redditcom"},
		{url: "https://github.com", expected: "github"},
		{url: "https://GitHub.com/Org", expected: "github"},
		{url: "HTTPS://WWW.Reddit.COM", keepTLD: true, expected: "redditcom"},
		{url: "https://WWW.Last.FM/", expected: "last.fm"},
		{url: "https://news.bbc.co.uk/", expected: "bbc"},
		{url: "https://news.bbc.co.uk/", keepTLD: true, expected: "bbcuk"},
		{url: "https://example.org", keepTLD: true, expected: "exampleorg"},
		{url: "http://localhost:8080/x", expected: "localhost"},
		{url: "http://localhost:8080/x", keepTLD: true, expected: "localhost"},
		{url: "https://forum.userstyles.org/discussion", expected: "userstyles.org"},
		{url: "https://forum.userstyles.org/discussion", keepTLD: true, expected: "userstyles.org"},
		{url: "https://www.last.fm/music", expected: "last.fm"},
		{url: "file:///home/user/page.html", expected: "file:"},
		{url: "chrome-extension://abcdef/popup.html", expected: "Stylus"},
		{url: "not a url", expected: ""},
		{url: "", expected: ""},
		{url: "://missing-scheme", expected: ""},
	}

	r := NewResolver(Options{})
	for _, tc := range testCases {
		t.Run(tc.url, func(t *testing.T) {
			got := r.Resolve(tc.url, ResolveOptions{KeepTLD: tc.keepTLD})
			assert.Equal(t, tc.expected, got)
		})
	}
}

// TestResolveCustomSelf tests a different application scheme and name
func TestResolveCustomSelf(t *testing.T) {
	r := NewResolver(Options{SelfScheme: "moz-extension", SelfName: "Styler"})
	assert.Equal(t, "Styler", r.Resolve("moz-extension://id/manage.html", ResolveOptions{}))
	// other extension schemes fall through to hostname parsing
	assert.Equal(t, "id", r.Resolve("chrome-extension://id/x", ResolveOptions{}))
	assert.Equal(t, "Styler", r.SelfName())
}

// TestSameCategory tests the relevance check applied to search results
func TestSameCategory(t *testing.T) {
	type TestCase struct {
		category    string
		subcategory string
		expected    bool
	}

	testCases := []TestCase{
		{category: "reddit", subcategory: "reddit", expected: true},
		{category: "reddit", subcategory: "Reddit", expected: true},
		{category: "last.fm", subcategory: "lastfm", expected: true},
		{category: "lastfm", subcategory: "Last.fm", expected: true},
		{category: "redditcom", subcategory: "reddit.com", expected: true},
		{category: "Stylus", subcategory: "chrome-extension", expected: true},
		{category: "Stylus", subcategory: "moz-extension", expected: true},
		{category: "Stylus", subcategory: "ms-extension", expected: false},
		{category: "reddit", subcategory: "chrome-extension", expected: false},
		{category: "reddit", subcategory: "github", expected: false},
		{category: "reddit", subcategory: "", expected: false},
		{category: "a.b.c", subcategory: "abc", expected: false},
	}

	r := NewResolver(Options{})
	for _, tc := range testCases {
		t.Run(tc.category+"/"+tc.subcategory, func(t *testing.T) {
			assert.Equal(t, tc.expected, r.SameCategory(tc.category, tc.subcategory))
		})
	}
}

// TestSearchPageURL tests browse links for category and free text searches
func TestSearchPageURL(t *testing.T) {
	r := NewResolver(Options{})
	base := "https://userstyles.org/"

	assert.Equal(t, "https://userstyles.org/styles/browse/reddit",
		r.SearchPageURL(base, "https://www.reddit.com"))
	assert.Equal(t, "https://userstyles.org/styles/browse/?search_terms=last.fm",
		r.SearchPageURL(base, "https://www.last.fm/"))
	assert.Equal(t, "https://userstyles.org/styles/browse/?search_terms=Stylus",
		r.SearchPageURL(base, "chrome-extension://id/popup.html"))

	assert.True(t, r.IsFreeText("last.fm"))
	assert.False(t, r.IsFreeText("reddit"))
}
