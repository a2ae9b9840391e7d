package render

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/hamidzr/stylefind/model"
)

const (
	maxNameLength = 300

	RatingNone = "none"
	RatingGood = "good"
	RatingOkay = "okay"
	RatingBad  = "bad"
)

var (
	rxScreenshotFile = regexp.MustCompile(`(?i)^[0-9]*_after.(jpe?g|png|gif)$`)
	// break after sentence ends and inside long runs of text.
	rxSentenceBreak = regexp.MustCompile(`([^.][.。?!]|[\s,].{50,70})\s+`)
	rxBlankLines    = regexp.MustCompile(`([\r\n]\s*){3,}`)
	rxSpaces        = regexp.MustCompile(`[ \t]{2,}`)
)

// EntryView is a search result prepared for display.
type EntryView struct {
	Title         string
	URL           string
	Description   string
	Author        string
	AuthorURL     string
	ScreenshotURL string
	RatingClass   string
	Rating        string
	Updated       string
	Weekly        string
	Total         string
	Installed     bool
	Customizable  bool
}

// NewEntryView formats r for display against the catalog at baseURL.
func NewEntryView(r *model.SearchResult, baseURL string, now time.Time) EntryView {
	class, rating := RatingClass(r.Rating)
	screenshot, _ := ScreenshotURL(baseURL, r.ScreenshotURL)
	return EntryView{
		Title:         DisplayName(r.Name),
		URL:           baseURL + r.URL,
		Description:   CleanDescription(r.Description),
		Author:        r.User.Name,
		AuthorURL:     baseURL + "/users/" + strconv.FormatInt(r.User.ID, 10),
		ScreenshotURL: screenshot,
		RatingClass:   class,
		Rating:        rating,
		Updated:       FormatUpdated(r.UpdatedAt, now),
		Weekly:        FormatNumber(r.WeeklyInstalls),
		Total:         FormatNumber(r.TotalInstalls),
		Installed:     r.Installed,
		Customizable:  r.SettingsCount() > 0,
	}
}

// DisplayName truncates overly long style names.
func DisplayName(name string) string {
	runes := []rune(name)
	if len(runes) < maxNameLength {
		return name
	}
	return string(runes[:maxNameLength]) + "..."
}

// CleanDescription drops markup and rewraps the text at sentence ends.
func CleanDescription(description string) string {
	text := stripTags(description)
	text = rxSentenceBreak.ReplaceAllString(text, "$1\n")
	return rxBlankLines.ReplaceAllString(text, "\n\n")
}

func stripTags(content string) string {
	if !strings.ContainsAny(content, "<&") {
		return content
	}
	doc, err := html.Parse(strings.NewReader(content))
	if err != nil {
		return content
	}
	var text strings.Builder
	var extract func(*html.Node)
	extract = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
			text.WriteString(" ")
		case html.TextNode:
			text.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			extract(c)
		}
	}
	extract(doc)
	return strings.TrimSpace(rxSpaces.ReplaceAllString(text.String(), " "))
}

// RatingClass buckets a rating; a missing rating has no class text.
func RatingClass(rating *float64) (string, string) {
	if rating == nil {
		return RatingNone, ""
	}
	value := strconv.FormatFloat(*rating, 'f', 1, 64)
	switch {
	case *rating >= 2.5:
		return RatingGood, value
	case *rating >= 1.5:
		return RatingOkay, value
	default:
		return RatingBad, value
	}
}

// FormatNumber shortens install counts: 1.2k, 15k, 1.5M, 15M, 1.2B.
func FormatNumber(n int64) string {
	f := float64(n)
	switch {
	case f > 1e9:
		return strconv.FormatFloat(f/1e9, 'f', 1, 64) + "B"
	case f > 10e6:
		return strconv.FormatFloat(f/1e6, 'f', 0, 64) + "M"
	case f > 1e6:
		return strconv.FormatFloat(f/1e6, 'f', 1, 64) + "M"
	case f > 10e3:
		return strconv.FormatFloat(f/1e3, 'f', 0, 64) + "k"
	case f > 1e3:
		return strconv.FormatFloat(f/1e3, 'f', 1, 64) + "k"
	default:
		return strconv.FormatInt(n, 10)
	}
}

// ScreenshotURL resolves bare catalog screenshot names; ok is false when
// the result has no screenshot.
func ScreenshotURL(baseURL, raw string) (string, bool) {
	if raw == "" {
		return "", false
	}
	if rxScreenshotFile.MatchString(raw) {
		return baseURL + "/style_screenshot_thumbnails/" + raw, true
	}
	return raw, true
}

// FormatUpdated renders the update date, with the year only when it isn't
// the current one.
func FormatUpdated(updated string, now time.Time) string {
	t, err := time.Parse(time.RFC3339, updated)
	if err != nil {
		return ""
	}
	if t.Year() == now.Year() {
		return t.Format("Jan 02")
	}
	return t.Format("Jan 02, 06")
}
