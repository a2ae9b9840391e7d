package render

// NavState is what the pagination controls show.
type NavState struct {
	Page         int
	TotalPages   int
	PrevDisabled bool
	NextDisabled bool
}

// Surface is an ordered list of slots the reconciler paints into.
type Surface interface {
	AppendSlot(e Entry)
	ReplaceSlot(index int, e Entry)
	RemoveSlot(index int)
	// RefreshSlot repaints a slot whose result changed in place.
	RefreshSlot(index int, e Entry)
	SetNav(nav NavState)
	// SetStatus shows msg in the status area; empty hides it.
	SetStatus(msg string)
}

// Flusher is implemented by surfaces that paint in batches.
type Flusher interface {
	Flush()
}
