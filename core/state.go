package core

import (
	"github.com/hamidzr/stylefind/constant"
)

// Phase is the fetch state of a Controller.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseLoading
	PhaseExhausted
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseExhausted:
		return "exhausted"
	default:
		return "idle"
	}
}

// PaginationState tracks how far the current search has been fetched.
type PaginationState struct {
	// CurrentPage is the next page to fetch.
	CurrentPage int
	// TotalPages is constant.UnsetInt until the first page arrives.
	TotalPages int
	// Exhausted stays set until an explicit restart.
	Exhausted bool
	Category  string
}

func newPaginationState() PaginationState {
	return PaginationState{CurrentPage: 1, TotalPages: constant.UnsetInt}
}

// pastLastPage is the exhaustion short-circuit.
func (p PaginationState) pastLastPage() bool {
	return p.TotalPages != constant.UnsetInt && p.CurrentPage > p.TotalPages
}

// ControllerState is a consistent copy of a Controller's state.
type ControllerState struct {
	PaginationState
	TotalResults int
	Phase        Phase
}
