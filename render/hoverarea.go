package render

import (
	"image/color"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/driver/desktop"
	"fyne.io/fyne/v2/widget"
)

// entryHitArea sits behind a result row. A tap opens the style page, a
// secondary tap toggles the install and hovering highlights the row.
type entryHitArea struct {
	widget.BaseWidget
	open   func()
	toggle func()
	hover  func(bool)
}

func newEntryHitArea(open, toggle func(), hover func(bool)) *entryHitArea {
	area := &entryHitArea{open: open, toggle: toggle, hover: hover}
	area.ExtendBaseWidget(area)
	return area
}

func (a *entryHitArea) Tapped(*fyne.PointEvent) {
	call(a.open)
}

func (a *entryHitArea) TappedSecondary(*fyne.PointEvent) {
	call(a.toggle)
}

func (a *entryHitArea) MouseIn(*desktop.MouseEvent) {
	if a.hover != nil {
		a.hover(true)
	}
}

func (a *entryHitArea) MouseOut() {
	if a.hover != nil {
		a.hover(false)
	}
}

func (a *entryHitArea) MouseMoved(*desktop.MouseEvent) {}

func (a *entryHitArea) CreateRenderer() fyne.WidgetRenderer {
	// transparent: the row's own background carries the highlight
	return widget.NewSimpleRenderer(canvas.NewRectangle(color.Transparent))
}

func call(fn func()) {
	if fn != nil {
		fn()
	}
}
