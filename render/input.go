package render

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// URLEntry is the address field; it reports keys before the entry handles them.
type URLEntry struct {
	widget.Entry
	OnKeyDown func(key *fyne.KeyEvent)
	// Swallow lists keys that never reach the text field.
	Swallow map[fyne.KeyName]bool
}

// NewURLEntry creates an address field showing placeholder when empty.
func NewURLEntry(placeholder string) *URLEntry {
	e := &URLEntry{}
	e.ExtendBaseWidget(e)
	e.SetPlaceHolder(placeholder)
	return e
}

// AcceptsTab keeps tab inside the field so it can be used for navigation.
func (e *URLEntry) AcceptsTab() bool {
	return true
}

// TypedKey implements the fyne.TypedKeyReceiver interface.
func (e *URLEntry) TypedKey(key *fyne.KeyEvent) {
	if e.OnKeyDown != nil {
		e.OnKeyDown(key)
	}
	if e.Swallow[key.Name] {
		return
	}
	e.Entry.TypedKey(key)
}

// NewAddressBar lays out the address field next to a fixed width label.
func NewAddressBar(entry *URLEntry, label *widget.Label, labelWidth float32) *fyne.Container {
	cont := container.NewWithoutLayout(entry, label)
	cont.Layout = NewTrailingLayout(labelWidth)
	return cont
}
