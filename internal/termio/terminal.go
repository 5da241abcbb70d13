// Package termio is the terminal presenter and keyboard control plane: raw
// input mode, cursor hiding/homing, and writing pre-baked frame byte strings
// to stdout. Modeled on original_source/asciiplay/src/terminal_sink.cpp,
// using golang.org/x/term for the raw-mode syscalls the C++ version does
// directly with termios.
package termio

import (
	"bufio"
	"io"
	"os"

	"github.com/lzray-universe/asciiplay/internal/renderer"
	"github.com/pkg/errors"
	"golang.org/x/term"
)

// Sink presents baked AsciiFrame byte strings to stdout and owns the
// terminal's raw-mode / cursor-visibility lifecycle.
type Sink struct {
	out         *bufio.Writer
	fd          int
	state       *term.State
	initialized bool
}

// NewSink constructs a Sink writing to w (normally os.Stdout).
func NewSink(w io.Writer) *Sink {
	return &Sink{out: bufio.NewWriterSize(w, 1<<20)}
}

// Initialize enables raw input mode and hides the cursor. It is a no-op if
// called twice.
func (s *Sink) Initialize() error {
	if s.initialized {
		return nil
	}
	s.fd = int(os.Stdin.Fd())
	state, err := term.MakeRaw(s.fd)
	if err != nil {
		return errors.Wrap(ErrDeviceInit, err.Error())
	}
	s.state = state
	s.write("\x1b[?25l")
	s.initialized = true
	return nil
}

// Teardown restores the terminal's original mode, shows the cursor, and
// resets SGR state. Safe to call multiple times.
func (s *Sink) Teardown() {
	if !s.initialized {
		return
	}
	if s.state != nil {
		_ = term.Restore(s.fd, s.state)
	}
	s.write("\x1b[?25h\x1b[0m")
	s.initialized = false
}

// Present writes a frame's pre-baked terminal string and flushes.
func (s *Sink) Present(frame renderer.Frame) error {
	if !s.initialized {
		return nil
	}
	if _, err := s.out.Write(frame.TerminalString); err != nil {
		return errors.Wrap(err, "termio: write to stdout failed")
	}
	return s.out.Flush()
}

// PrintStats writes a single status line at the home position, saving and
// restoring the cursor so it doesn't disturb the next frame's output.
func (s *Sink) PrintStats(line string) {
	if !s.initialized {
		return
	}
	s.write("\x1b[s\x1b[H" + line + "\x1b[u")
	_ = s.out.Flush()
}

func (s *Sink) write(str string) {
	_, _ = s.out.WriteString(str)
	_ = s.out.Flush()
}
