package render

import (
	"fmt"
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/layout"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/hamidzr/stylefind/constant"
)

const fadeInDuration = 300 * time.Millisecond

// FyneSurface shows the slot list in a fyne container.
type FyneSurface struct {
	// Container holds one canvas object per slot.
	Container  *fyne.Container
	Status     *widget.Label
	PageLabel  *widget.Label
	PrevButton *widget.Button
	NextButton *widget.Button

	// OnPrev, OnNext, OnToggleInstall and OnOpen are wired by the window.
	OnPrev          func()
	OnNext          func()
	OnToggleInstall func(position int)
	OnOpen          func(url string)

	mu       sync.Mutex
	baseURL  string
	now      func() time.Time
	entries  []Entry
	selected int
}

// NewFyneSurface creates the widgets; nothing is shown until added to a window.
func NewFyneSurface(baseURL string) *FyneSurface {
	if baseURL == "" {
		baseURL = constant.BaseURL
	}
	s := &FyneSurface{
		Container: container.NewVBox(),
		Status:    widget.NewLabel(""),
		PageLabel: widget.NewLabel(""),
		baseURL:   baseURL,
		now:       time.Now,
		selected:  constant.UnsetInt,
	}
	s.Status.Wrapping = fyne.TextWrapWord
	s.Status.Hide()
	s.PrevButton = widget.NewButtonWithIcon("", theme.NavigateBackIcon(), func() {
		if s.OnPrev != nil {
			s.OnPrev()
		}
	})
	s.NextButton = widget.NewButtonWithIcon("", theme.NavigateNextIcon(), func() {
		if s.OnNext != nil {
			s.OnNext()
		}
	})
	return s
}

// NavBar is the prev / page / next row.
func (s *FyneSurface) NavBar() *fyne.Container {
	return container.NewHBox(s.PrevButton, layout.NewSpacer(), s.PageLabel, layout.NewSpacer(), s.NextButton)
}

func (s *FyneSurface) AppendSlot(e Entry) {
	s.mu.Lock()
	s.entries = append(s.entries, e)
	s.mu.Unlock()
	s.Container.Add(s.renderEntry(e, len(s.entries)-1))
}

func (s *FyneSurface) ReplaceSlot(index int, e Entry) {
	s.mu.Lock()
	if index < 0 || index >= len(s.entries) {
		s.mu.Unlock()
		return
	}
	s.entries[index] = e
	s.mu.Unlock()
	s.Container.Objects[index] = s.renderEntry(e, index)
	s.Container.Refresh()
}

func (s *FyneSurface) RemoveSlot(index int) {
	s.mu.Lock()
	if index < 0 || index >= len(s.entries) {
		s.mu.Unlock()
		return
	}
	s.entries = append(s.entries[:index], s.entries[index+1:]...)
	s.mu.Unlock()
	s.Container.Remove(s.Container.Objects[index])
}

func (s *FyneSurface) RefreshSlot(index int, e Entry) {
	e.Entering = false
	s.ReplaceSlot(index, e)
}

func (s *FyneSurface) SetNav(nav NavState) {
	s.PageLabel.SetText(fmt.Sprintf("%d / %d", nav.Page, nav.TotalPages))
	setEnabled(s.PrevButton, !nav.PrevDisabled)
	setEnabled(s.NextButton, !nav.NextDisabled)
}

func setEnabled(b *widget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

func (s *FyneSurface) SetStatus(msg string) {
	s.Status.SetText(msg)
	if msg == "" {
		s.Status.Hide()
	} else {
		s.Status.Show()
	}
}

// Len is the number of slots on the surface.
func (s *FyneSurface) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Select highlights the slot at index, or nothing when out of range.
func (s *FyneSurface) Select(index int) {
	s.mu.Lock()
	prev := s.selected
	s.selected = index
	entries := append([]Entry(nil), s.entries...)
	s.mu.Unlock()
	for _, i := range []int{prev, index} {
		if i >= 0 && i < len(entries) {
			e := entries[i]
			e.Entering = false
			s.Container.Objects[i] = s.renderEntry(e, i)
		}
	}
	s.Container.Refresh()
}

// Selected is the highlighted slot, constant.UnsetInt if none.
func (s *FyneSurface) Selected() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// EntryAt returns the content of a slot.
func (s *FyneSurface) EntryAt(index int) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index < 0 || index >= len(s.entries) {
		return Entry{}, false
	}
	return s.entries[index], true
}

func (s *FyneSurface) renderEntry(e Entry, index int) fyne.CanvasObject {
	s.mu.Lock()
	selected := index == s.selected
	s.mu.Unlock()
	if e.Placeholder() {
		return RenderPlaceholder()
	}
	view := NewEntryView(e.Result, s.baseURL, s.now())
	position := e.Position
	return RenderEntry(view, index, selected, e.Entering,
		func() {
			if s.OnOpen != nil {
				s.OnOpen(view.URL)
			}
		},
		func() {
			if s.OnToggleInstall != nil {
				s.OnToggleInstall(position)
			}
		},
	)
}

// RenderPlaceholder is a slot waiting for its result.
func RenderPlaceholder() *fyne.Container {
	spinner := widget.NewProgressBarInfinite()
	label := widget.NewLabel("Loading...")
	label.TextStyle = fyne.TextStyle{Italic: true}
	return container.NewBorder(nil, nil, nil, nil, container.NewVBox(label, spinner))
}

// RenderEntry draws one search result row.
func RenderEntry(view EntryView, idx int, selected, entering bool, onOpen, onToggleInstall func()) *fyne.Container {
	title := widget.NewLabel(view.Title)
	title.Truncation = fyne.TextTruncateEllipsis
	title.TextStyle = fyne.TextStyle{Bold: true}

	var textContent *fyne.Container
	if idx < 9 {
		numberHint := widget.NewLabel(fmt.Sprintf("%d", idx+1))
		numberHint.TextStyle = fyne.TextStyle{Italic: true}
		numberHint.Importance = widget.MediumImportance
		textContent = container.NewBorder(nil, nil, numberHint, nil, title)
	} else {
		textContent = container.NewStack(title)
	}

	meta := fmt.Sprintf("by %s · %s weekly · %s total", view.Author, view.Weekly, view.Total)
	if view.Updated != "" {
		meta += " · " + view.Updated
	}
	metaLabel := widget.NewLabel(meta)
	metaLabel.TextStyle = fyne.TextStyle{Italic: true}
	metaLabel.Truncation = fyne.TextTruncateEllipsis

	description := widget.NewLabel(view.Description)
	description.Wrapping = fyne.TextWrapWord
	description.Truncation = fyne.TextTruncateEllipsis

	rating := canvas.NewText(view.Rating, RatingColor(view.RatingClass))
	rating.TextStyle = fyne.TextStyle{Bold: true}

	label := "Install"
	if view.Installed {
		label = "Uninstall"
	}
	if view.Customizable {
		label += " ⚙"
	}
	installButton := widget.NewButton(label, onToggleInstall)
	if view.Installed {
		installButton.Importance = widget.DangerImportance
	} else {
		installButton.Importance = widget.HighImportance
	}

	background := canvas.NewRectangle(theme.BackgroundColor())
	background.StrokeColor = color.RGBA{R: 40, G: 40, B: 40, A: 255}
	background.StrokeWidth = 1
	if selected {
		background.FillColor = theme.PrimaryColor()
	}

	hover := newEntryHitArea(onOpen, onToggleInstall, func(in bool) {
		if selected {
			return
		}
		if in {
			background.FillColor = theme.HoverColor()
		} else {
			background.FillColor = theme.BackgroundColor()
		}
		background.Refresh()
	})

	body := container.NewBorder(
		textContent, nil, nil,
		container.NewVBox(rating, installButton),
		container.NewVBox(metaLabel, description),
	)
	row := container.NewStack(background, hover, body)
	if entering {
		fadeIn(background)
	}
	return row
}

func fadeIn(rect *canvas.Rectangle) {
	target := rect.FillColor
	start := theme.HoverColor()
	anim := canvas.NewColorRGBAAnimation(start, target, fadeInDuration, func(c color.Color) {
		rect.FillColor = c
		canvas.Refresh(rect)
	})
	anim.Start()
}
