package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"

	"github.com/hamidzr/stylefind/model"
)

func namesToStyles(names []string) []model.Style {
	styles := make([]model.Style, len(names))
	for i, name := range names {
		styles[i] = model.Style{ID: name, Name: name}
	}
	return styles
}

func stylesToNames(styles []model.Style) []string {
	names := make([]string, len(styles))
	for i, style := range styles {
		names[i] = style.Name
	}
	return names
}

func shuffle[T any](items []T, rng *rand.Rand) []T {
	out := append([]T(nil), items...)
	for i := len(out) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		out[i], out[j] = out[j], out[i]
	}
	return out
}

// TestWithSeparators tests that every subquery has to match.
func TestWithSeparators(t *testing.T) {
	inputs := []string{
		"abcd",
		"ab cd",
	}

	type TestCase struct {
		query         string
		expectedItems []string
		searchMethod  SearchMethod
	}

	testCases := []TestCase{
		{
			query:         "abc",
			searchMethod:  DirectSearch,
			expectedItems: []string{"abcd"},
		},
		{
			query:         "cd ab",
			searchMethod:  SearchWithSeparator(" ", DirectSearch),
			expectedItems: []string{"abcd", "ab cd"},
		},
		{
			query:         "abc",
			searchMethod:  SearchWithSeparator(" ", DirectSearch),
			expectedItems: []string{"abcd"},
		},
		{
			query:         "ab  cd",
			searchMethod:  SearchWithSeparator(" ", DirectSearch),
			expectedItems: []string{"abcd", "ab cd"},
		},
	}

	for _, tc := range testCases {
		res := tc.searchMethod(namesToStyles(inputs), tc.query, false, 3)
		assert.Equal(t, tc.expectedItems, stylesToNames(res), "query: %s", tc.query)
	}
}

// TestFuzzyBruteOrder tests that direct matches come first whatever the input order.
func TestFuzzyBruteOrder(t *testing.T) {
	inputs := []string{
		"whatsapp",
		"whaxtsapp",
		"whats app",
	}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 10; i++ {
		shuffled := shuffle(inputs, rng)
		res := stylesToNames(FuzzySearchBrute(namesToStyles(shuffled), "atsa", false, 3))
		require.Len(t, res, 3, "input: %v", shuffled)
		assert.Equal(t, "whatsapp", res[0], "input: %v", shuffled)
		assert.ElementsMatch(t, inputs, res)
	}
}

// TestFuzzySearchBrute tests direct and in-order character matches.
func TestFuzzySearchBrute(t *testing.T) {
	type TestCase struct {
		name          string
		items         []string
		query         string
		limit         int
		expectedItems []string
	}

	testCases := []TestCase{
		{
			name:          "direct before fuzzy",
			items:         []string{"whaxtsapp", "whatsapp"},
			query:         "atsa",
			limit:         10,
			expectedItems: []string{"whatsapp", "whaxtsapp"},
		},
		{
			name:          "nothing matches",
			items:         []string{"whatsapp", "whats app"},
			query:         "nonexistent",
			limit:         10,
			expectedItems: []string{},
		},
		{
			name:          "limit applies",
			items:         []string{"dark reddit", "reddit dark", "dark github"},
			query:         "dark",
			limit:         2,
			expectedItems: []string{"dark reddit", "reddit dark"},
		},
		{
			name:          "empty query keeps everything",
			items:         []string{"a", "b"},
			query:         "",
			limit:         0,
			expectedItems: []string{"a", "b"},
		},
		{
			name:          "unicode",
			items:         []string{"αβγ dark", "plain"},
			query:         "αγ",
			limit:         10,
			expectedItems: []string{"αβγ dark"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			results := FuzzySearchBrute(namesToStyles(tc.items), tc.query, false, tc.limit)
			assert.Equal(t, tc.expectedItems, stylesToNames(results))
		})
	}
}

// TestFuzzySearch tests the scored fuzzy search.
func TestFuzzySearch(t *testing.T) {
	styles := namesToStyles([]string{"apple", "banana", "apricot"})

	results := FuzzySearch(styles, "ap", false, 10)
	assert.Equal(t, []string{"apple", "apricot"}, stylesToNames(results))

	results = FuzzySearch(styles, "ap", true, 1)
	assert.Equal(t, []string{"apple"}, stylesToNames(results))

	assert.Len(t, FuzzySearch(styles, "", false, 0), 3)
}

// TestSmartCase tests that an upper case keyword matches case sensitively.
func TestSmartCase(t *testing.T) {
	assert.True(t, IsDirectMatch("Dark Reddit", "reddit", true))
	assert.True(t, IsDirectMatch("Dark Reddit", "Reddit", true))
	assert.False(t, IsDirectMatch("dark reddit", "Reddit", true))
	assert.True(t, IsDirectMatch("dark reddit", "Reddit", false))
}

// TestSearchMethodsRegistered tests that every named method is usable.
func TestSearchMethodsRegistered(t *testing.T) {
	styles := namesToStyles([]string{"Dark Reddit", "GitHub Dimmed"})
	for name, method := range SearchMethods {
		res := method(styles, "reddit", false, 0)
		assert.Equal(t, []string{"Dark Reddit"}, stylesToNames(res), name)
	}
}
