package render

import (
	"fyne.io/fyne/v2"
)

// TrailingLayout gives the second object a fixed width at the right edge and
// stretches the first over the rest.
type TrailingLayout struct {
	trailingWidth float32
}

func NewTrailingLayout(trailingWidth float32) *TrailingLayout {
	return &TrailingLayout{trailingWidth: trailingWidth}
}

// Layout positions exactly two objects; other counts are left alone.
func (l *TrailingLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	if len(objects) != 2 {
		return
	}
	leadWidth := max(0, size.Width-l.trailingWidth)
	objects[0].Resize(fyne.NewSize(leadWidth, size.Height))
	objects[0].Move(fyne.NewPos(0, 0))
	objects[1].Resize(fyne.NewSize(size.Width-leadWidth, size.Height))
	objects[1].Move(fyne.NewPos(leadWidth, 0))
}

// MinSize is the lead object's minimum plus the fixed trailing width.
func (l *TrailingLayout) MinSize(objects []fyne.CanvasObject) fyne.Size {
	var width, height float32
	for i, o := range objects {
		m := o.MinSize()
		if i == 0 {
			width += m.Width
		}
		height = max(height, m.Height)
	}
	return fyne.NewSize(width+l.trailingWidth, height)
}
