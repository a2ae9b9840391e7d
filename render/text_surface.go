package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/hamidzr/stylefind/constant"
)

const defaultTextWidth = 80

// TextSurface paints the slot list as plain text, one frame per Flush.
type TextSurface struct {
	mu      sync.Mutex
	out     io.Writer
	width   int
	baseURL string
	now     func() time.Time
	entries []Entry
	nav     NavState
	status  string
	// ClearScreen erases the terminal before every frame.
	ClearScreen bool
}

// NewTextSurface writes frames to out, sized to the terminal when out is one.
func NewTextSurface(out io.Writer, baseURL string) *TextSurface {
	width := defaultTextWidth
	if f, ok := out.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		if w, _, err := term.GetSize(int(f.Fd())); err == nil && w > 20 {
			width = w
		}
	}
	if baseURL == "" {
		baseURL = constant.BaseURL
	}
	return &TextSurface{out: out, width: width, baseURL: baseURL, now: time.Now}
}

func (s *TextSurface) AppendSlot(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, e)
}

func (s *TextSurface) ReplaceSlot(index int, e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index >= 0 && index < len(s.entries) {
		s.entries[index] = e
	}
}

func (s *TextSurface) RemoveSlot(index int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if index >= 0 && index < len(s.entries) {
		s.entries = append(s.entries[:index], s.entries[index+1:]...)
	}
}

func (s *TextSurface) RefreshSlot(index int, e Entry) {
	s.ReplaceSlot(index, e)
}

func (s *TextSurface) SetNav(nav NavState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nav = nav
}

func (s *TextSurface) SetStatus(msg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.status = msg
}

// Status is the current status text.
func (s *TextSurface) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Len is the number of slots on the surface.
func (s *TextSurface) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Entries returns a copy of the slots.
func (s *TextSurface) Entries() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry(nil), s.entries...)
}

// Flush writes the current frame.
func (s *TextSurface) Flush() {
	s.mu.Lock()
	frame := s.frame()
	s.mu.Unlock()
	if s.ClearScreen {
		frame = "\x1b[H\x1b[2J" + frame
	}
	_, _ = io.WriteString(s.out, frame)
}

func (s *TextSurface) frame() string {
	var b strings.Builder
	rule := strings.Repeat("-", min(s.width, 60))
	fmt.Fprintf(&b, "%s\n", s.navLine())
	fmt.Fprintln(&b, rule)
	now := s.now()
	for i, e := range s.entries {
		if e.Placeholder() {
			fmt.Fprintf(&b, "%2d. ...\n", i+1)
			continue
		}
		v := NewEntryView(e.Result, s.baseURL, now)
		b.WriteString(s.fit(fmt.Sprintf("%2d. %s", i+1, v.Title)))
		b.WriteString("\n")
		meta := fmt.Sprintf("    by %s | %s weekly | %s total", v.Author, v.Weekly, v.Total)
		if v.Rating != "" {
			meta += " | rating " + v.Rating
		}
		if v.Updated != "" {
			meta += " | " + v.Updated
		}
		if v.Customizable {
			meta += " | customizable"
		}
		if v.Installed {
			meta += " | installed"
		}
		b.WriteString(s.fit(meta))
		b.WriteString("\n")
		if first, _, _ := strings.Cut(v.Description, "\n"); first != "" {
			b.WriteString(s.fit("    " + first))
			b.WriteString("\n")
		}
	}
	if s.status != "" {
		fmt.Fprintln(&b, rule)
		fmt.Fprintln(&b, s.status)
	}
	return b.String()
}

func (s *TextSurface) navLine() string {
	prev, next := "<prev", "next>"
	if s.nav.PrevDisabled {
		prev = "     "
	}
	if s.nav.NextDisabled {
		next = "     "
	}
	return fmt.Sprintf("%s  page %d/%d  %s", prev, s.nav.Page, s.nav.TotalPages, next)
}

func (s *TextSurface) fit(line string) string {
	runes := []rune(line)
	if len(runes) <= s.width {
		return line
	}
	if s.width <= 3 {
		return string(runes[:s.width])
	}
	return string(runes[:s.width-3]) + "..."
}
