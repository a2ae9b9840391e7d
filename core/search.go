package core

import (
	"sort"
	"strings"

	"github.com/sahilm/fuzzy"

	"github.com/hamidzr/stylefind/model"
)

// SearchMethod filters installed styles by a query, matching on their names.
// A limit of 0 means no limit.
type SearchMethod func(styles []model.Style, query string,
	preserveOrder bool, limit int) []model.Style

// IsDirectMatch checks if a string contains a keyword. With smartMatch an
// upper case keyword matches case sensitively.
func IsDirectMatch(s, keyword string, smartMatch bool) bool {
	if smartMatch && strings.ToLower(keyword) != keyword {
		return strings.Contains(s, keyword)
	}
	return strings.Contains(strings.ToLower(s), strings.ToLower(keyword))
}

// fuzzyContains checks if all characters in the query exist in the string in order.
func fuzzyContains(s, query string, ignoreCase bool) bool {
	if query == "" {
		return true
	}
	if ignoreCase {
		s, query = strings.ToLower(s), strings.ToLower(query)
	}
	q := []rune(query)
	qi := 0
	for _, c := range s {
		if c == q[qi] {
			qi++
			if qi == len(q) {
				return true
			}
		}
	}
	return false
}

func applyLimit(matches []model.Style, limit int) []model.Style {
	if limit <= 0 {
		return matches
	}
	return matches[:min(limit, len(matches))]
}

// DirectSearch keeps styles whose name contains keyword.
func DirectSearch(styles []model.Style, keyword string, _ bool, limit int) []model.Style {
	matches := make([]model.Style, 0)
	for _, style := range styles {
		if IsDirectMatch(style.Name, keyword, true) {
			matches = append(matches, style)
		}
	}
	return applyLimit(matches, limit)
}

// FuzzySearchBrute is a brute force fuzzy search.
// Direct matches are prioritized over fuzzy matches.
func FuzzySearchBrute(styles []model.Style, keyword string, _ bool, limit int) []model.Style {
	if keyword == "" {
		return applyLimit(styles, limit)
	}
	direct := make([]model.Style, 0)
	fuzzyMatches := make([]model.Style, 0)
	for _, style := range styles {
		if IsDirectMatch(style.Name, keyword, true) {
			direct = append(direct, style)
		} else if fuzzyContains(style.Name, keyword, true) {
			fuzzyMatches = append(fuzzyMatches, style)
		}
	}
	return applyLimit(append(direct, fuzzyMatches...), limit)
}

// SearchWithSeparator breaks the keyword into subqueries that all have to match.
func SearchWithSeparator(separator string, searchMethod SearchMethod) SearchMethod {
	return func(styles []model.Style, keyword string, preserveOrder bool, limit int) []model.Style {
		subset := styles
		for _, subQ := range strings.Split(keyword, separator) {
			if subQ == "" {
				continue
			}
			subset = searchMethod(subset, subQ, preserveOrder, 0)
		}
		return applyLimit(subset, limit)
	}
}

// filterOutUnlikelyMatches takes in a sorted list of fuzzy matches and returns
// the matches with positive scores if there are any, otherwise the original list.
func filterOutUnlikelyMatches(matches []fuzzy.Match) []fuzzy.Match {
	if len(matches) == 0 || matches[0].Score <= 0 {
		return matches
	}
	positive := make([]fuzzy.Match, 0, len(matches))
	for _, match := range matches {
		if match.Score > 0 {
			positive = append(positive, match)
		}
	}
	return positive
}

// FuzzySearch fuzzy matches style names to a keyword and sorts them by score.
func FuzzySearch(styles []model.Style, keyword string, preserveOrder bool, limit int) []model.Style {
	if keyword == "" {
		return applyLimit(styles, limit)
	}
	names := make([]string, len(styles))
	for i, style := range styles {
		names[i] = style.Name
	}

	matches := fuzzy.Find(keyword, names)
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score == matches[j].Score {
			return matches[i].Index < matches[j].Index
		}
		return matches[i].Score > matches[j].Score
	})
	if limit > 0 {
		matches = matches[:min(limit, len(matches))]
	}
	matches = filterOutUnlikelyMatches(matches)

	indices := make([]int, len(matches))
	for i, match := range matches {
		indices[i] = match.Index
	}
	if preserveOrder {
		sort.Ints(indices)
	}
	results := make([]model.Style, 0, len(indices))
	for _, idx := range indices {
		results = append(results, styles[idx])
	}
	return results
}

// SearchMethods are the selectable search methods by name.
var SearchMethods = map[string]SearchMethod{
	"direct":  DirectSearch,
	"fuzzy":   SearchWithSeparator(" ", FuzzySearchBrute),
	"fuzzy1":  FuzzySearch,
	"fuzzy3":  FuzzySearchBrute,
	"default": SearchWithSeparator(" ", FuzzySearchBrute),
}
