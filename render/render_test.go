package render

import (
	"testing"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/test"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hamidzr/stylefind/model"
)

func sampleResult(id int64) *model.SearchResult {
	rating := 3.2
	return &model.SearchResult{
		ID:             id,
		Name:           "Style " + string(rune('A'+id%26)),
		Description:    "<p>A <b>dark</b> theme.</p>",
		URL:            "/styles/1/x",
		Rating:         &rating,
		WeeklyInstalls: 1234,
		TotalInstalls:  15_000_000,
		UpdatedAt:      "2020-03-04T05:06:07.000Z",
		User:           model.User{ID: 9, Name: "author"},
		Subcategory:    "reddit",
	}
}

// TestURLEntryKeyHandling tests key events reach the callback first
func TestURLEntryKeyHandling(t *testing.T) {
	entry := NewURLEntry("site")

	var lastKey *fyne.KeyEvent
	entry.OnKeyDown = func(key *fyne.KeyEvent) {
		lastKey = key
	}

	keyEvent := &fyne.KeyEvent{Name: fyne.KeyDown}
	entry.TypedKey(keyEvent)

	assert.Equal(t, keyEvent, lastKey)
	assert.True(t, entry.AcceptsTab())
	assert.Equal(t, "site", entry.PlaceHolder)
}

// TestURLEntrySwallow tests swallowed keys don't edit the text
func TestURLEntrySwallow(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	entry := NewURLEntry("")
	entry.Swallow = map[fyne.KeyName]bool{fyne.KeyBackspace: true}
	entry.SetText("reddit.com")
	entry.CursorColumn = len("reddit.com")

	entry.TypedKey(&fyne.KeyEvent{Name: fyne.KeyBackspace})
	assert.Equal(t, "reddit.com", entry.Text)
}

// TestURLEntryTyping tests actual typing simulation
func TestURLEntryTyping(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	entry := NewURLEntry("")
	test.Type(entry, "https://github.com")
	assert.Equal(t, "https://github.com", entry.Text)
}

// TestTrailingLayout tests the address bar layout split
func TestTrailingLayout(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	entry := NewURLEntry("")
	label := widget.NewLabel("1 / 3")
	bar := NewAddressBar(entry, label, 80)
	bar.Resize(fyne.NewSize(400, 40))

	assert.Equal(t, float32(320), entry.Size().Width)
	assert.Equal(t, float32(80), label.Size().Width)
	assert.Equal(t, float32(320), label.Position().X)
	assert.GreaterOrEqual(t, bar.MinSize().Width, float32(80))
}

// TestRenderEntry tests result rows build for varied content
func TestRenderEntry(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	testCases := []struct {
		name     string
		mutate   func(r *model.SearchResult)
		idx      int
		selected bool
	}{
		{name: "normal", mutate: func(r *model.SearchResult) {}},
		{name: "selected", mutate: func(r *model.SearchResult) {}, selected: true},
		{name: "no rating", mutate: func(r *model.SearchResult) { r.Rating = nil }},
		{name: "installed", mutate: func(r *model.SearchResult) { r.Installed = true }},
		{name: "high index", mutate: func(r *model.SearchResult) {}, idx: 12},
		{name: "unicode", mutate: func(r *model.SearchResult) { r.Name = "🚀 αβγ" }},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			r := sampleResult(1)
			tc.mutate(r)
			view := NewEntryView(r, "https://userstyles.org", r2020())
			row := RenderEntry(view, tc.idx, tc.selected, true, func() {}, func() {})
			require.NotNil(t, row)
			assert.Len(t, row.Objects, 3)
		})
	}
}

// TestFyneSurfaceSlots tests slot edits on the fyne container
func TestFyneSurfaceSlots(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	s := NewFyneSurface("")
	s.AppendSlot(Entry{})
	s.AppendSlot(Entry{Result: sampleResult(1)})
	s.AppendSlot(Entry{Result: sampleResult(2)})
	assert.Equal(t, 3, s.Len())
	assert.Len(t, s.Container.Objects, 3)

	s.ReplaceSlot(0, Entry{Result: sampleResult(3), Entering: true})
	e, ok := s.EntryAt(0)
	require.True(t, ok)
	assert.Equal(t, int64(3), e.Result.ID)

	s.RemoveSlot(1)
	assert.Equal(t, 2, s.Len())
	assert.Len(t, s.Container.Objects, 2)
	e, _ = s.EntryAt(1)
	assert.Equal(t, int64(2), e.Result.ID)

	// out of range edits are ignored
	s.ReplaceSlot(5, Entry{})
	s.RemoveSlot(-1)
	assert.Equal(t, 2, s.Len())

	s.Select(1)
	assert.Equal(t, 1, s.Selected())
}

// TestFyneSurfaceNavAndStatus tests the controls follow the nav state
func TestFyneSurfaceNavAndStatus(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	s := NewFyneSurface("")
	var prev, next int
	s.OnPrev = func() { prev++ }
	s.OnNext = func() { next++ }

	s.SetNav(NavState{Page: 1, TotalPages: 3, PrevDisabled: true})
	assert.Equal(t, "1 / 3", s.PageLabel.Text)
	assert.True(t, s.PrevButton.Disabled())
	assert.False(t, s.NextButton.Disabled())

	test.Tap(s.NextButton)
	test.Tap(s.PrevButton)
	assert.Equal(t, 1, next)
	assert.Equal(t, 0, prev, "disabled buttons don't fire")

	s.SetStatus("No styles found for this site")
	assert.True(t, s.Status.Visible())
	s.SetStatus("")
	assert.False(t, s.Status.Visible())
}

// TestFyneSurfaceToggleInstall tests the install button reports the result position
func TestFyneSurfaceToggleInstall(t *testing.T) {
	app := test.NewApp()
	defer app.Quit()

	s := NewFyneSurface("")
	got := -1
	s.OnToggleInstall = func(position int) { got = position }
	s.AppendSlot(Entry{Result: sampleResult(1), Position: 14})

	button := findButton(s.Container)
	require.NotNil(t, button)
	test.Tap(button)
	assert.Equal(t, 14, got)
}

func findButton(obj fyne.CanvasObject) *widget.Button {
	switch o := obj.(type) {
	case *widget.Button:
		if o.Text != "" {
			return o
		}
	case *fyne.Container:
		for _, child := range o.Objects {
			if b := findButton(child); b != nil {
				return b
			}
		}
	}
	return nil
}

// TestMainTheme tests the palette overrides and the fallback to the base theme.
func TestMainTheme(t *testing.T) {
	th := MainTheme{Theme: theme.DefaultTheme()}

	assert.Equal(t, gray(0x1a), th.Color(theme.ColorNameBackground, theme.VariantDark))
	assert.Equal(t, gray(0xf8), th.Color(theme.ColorNameBackground, theme.VariantLight))
	assert.Equal(t, theme.DefaultTheme().Color(theme.ColorNameError, theme.VariantDark),
		th.Color(theme.ColorNameError, theme.VariantDark))

	assert.Equal(t, float32(14), th.Size(theme.SizeNameText))
	assert.Equal(t, theme.DefaultTheme().Size(theme.SizeNameInputRadius), MainTheme{}.Size(theme.SizeNameInputRadius))
}
