package core

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Command is what a key press asks the terminal runner to do.
type Command int

const (
	CmdNone Command = iota
	CmdNext
	CmdPrev
	CmdRestart
	CmdToggle
	CmdQuit
)

// KeyCommand is a decoded key press. Slot is set for CmdToggle.
type KeyCommand struct {
	Command Command
	Slot    int
}

// ParseKey maps a raw key byte to a command: n/l/space next, p/h previous,
// 1-9 and 0 toggle the install state of that entry, r restarts and
// q, Ctrl+C or Ctrl+D quit.
func ParseKey(b byte) KeyCommand {
	switch {
	case b == 'n' || b == 'l' || b == ' ':
		return KeyCommand{Command: CmdNext}
	case b == 'p' || b == 'h':
		return KeyCommand{Command: CmdPrev}
	case b == 'r':
		return KeyCommand{Command: CmdRestart}
	case b == 'q' || b == 3 || b == 4:
		return KeyCommand{Command: CmdQuit}
	case b == '0':
		return KeyCommand{Command: CmdToggle, Slot: 9}
	case b >= '1' && b <= '9':
		return KeyCommand{Command: CmdToggle, Slot: int(b - '1')}
	default:
		return KeyCommand{Command: CmdNone}
	}
}

// RunTerminal feeds key presses from in to the session until quit, EOF or
// ctx is done. When in is a terminal it is switched to raw mode for the
// duration.
func RunTerminal(ctx context.Context, s *Session, in *os.File) error {
	fd := int(in.Fd())
	if term.IsTerminal(fd) {
		oldState, err := term.MakeRaw(fd)
		if err != nil {
			return errors.Wrap(err, "set raw terminal mode")
		}
		defer func() {
			if err := term.Restore(fd, oldState); err != nil {
				logrus.WithError(err).Error("failed to restore terminal")
			}
		}()
	}
	return readKeys(ctx, s, in)
}

func readKeys(ctx context.Context, s *Session, in io.Reader) error {
	keys := make(chan byte)
	readErr := make(chan error, 1)
	go func() {
		reader := bufio.NewReader(in)
		for {
			b, err := reader.ReadByte()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case keys <- b:
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if errors.Is(err, io.EOF) {
				return nil
			}
			return errors.Wrap(err, "read key")
		case b := <-keys:
			cmd := ParseKey(b)
			switch cmd.Command {
			case CmdNext:
				s.Next()
			case CmdPrev:
				s.Prev()
			case CmdRestart:
				s.Start()
			case CmdToggle:
				s.ToggleInstallSlot(cmd.Slot)
			case CmdQuit:
				return nil
			}
		}
	}
}
