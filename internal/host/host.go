// Package host implements the three-operation host I/O adapter contract
// the interpreter requires: a non-blocking character probe, a blocking
// character read, and a synchronous byte write to the console.
//
// This is external-collaborator territory (raw terminal mode, key
// polling) that the spec treats as host-provided, but a runnable binary
// still needs a concrete implementation -- built here on the same
// terminal-control libraries the corpus already pulls in through its TUI
// stack, rather than hand-rolled syscalls.
package host

import (
	"bufio"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/muesli/cancelreader"
	"golang.org/x/term"
)

// Adapter is the contract the interpreter's trap routines and memory-mapped
// keyboard poll depend on.
type Adapter interface {
	// TryReadChar is a non-blocking probe: it reports false immediately
	// (or after a bounded wait) if no character is ready.
	TryReadChar() (byte, bool)
	// ReadCharBlocking blocks until one byte is available.
	ReadCharBlocking() (byte, error)
	// WriteBytes synchronously appends bytes to the console output.
	WriteBytes(b []byte) error
}

// Terminal is an Adapter backed by the process's stdin/stdout. When stdin
// is a real TTY it is switched to raw mode (no line buffering, no local
// echo) for the duration of the interpreter run, matching the LC-3
// reference's "disable input buffering" behavior.
type Terminal struct {
	in     cancelreader.CancelReader
	out    io.Writer
	bytes  chan byte
	state  *term.State
	isTerm bool
}

// NewTerminal constructs a Terminal adapter over os.Stdin/os.Stdout and
// starts the background reader goroutine that feeds the non-blocking
// probe.
func NewTerminal() (*Terminal, error) {
	t := &Terminal{out: os.Stdout, bytes: make(chan byte, 256)}

	fd := int(os.Stdin.Fd())
	t.isTerm = isatty.IsTerminal(uintptr(fd))
	if t.isTerm {
		state, err := term.MakeRaw(fd)
		if err != nil {
			return nil, err
		}
		t.state = state
	}

	cr, err := cancelreader.NewReader(os.Stdin)
	if err != nil {
		t.Close()
		return nil, err
	}
	t.in = cr

	go t.pump()
	return t, nil
}

func (t *Terminal) pump() {
	r := bufio.NewReaderSize(t.in, 1)
	for {
		b, err := r.ReadByte()
		if err != nil {
			close(t.bytes)
			return
		}
		t.bytes <- b
	}
}

// TryReadChar performs a non-blocking channel receive.
func (t *Terminal) TryReadChar() (byte, bool) {
	select {
	case b, ok := <-t.bytes:
		return b, ok
	default:
		return 0, false
	}
}

// ReadCharBlocking performs a blocking channel receive. An EOF on the
// underlying reader (closed channel) is reported as io.EOF, letting the
// guest program's trap handler decide how to react.
func (t *Terminal) ReadCharBlocking() (byte, error) {
	b, ok := <-t.bytes
	if !ok {
		return 0, io.EOF
	}
	return b, nil
}

// WriteBytes writes b to stdout.
func (t *Terminal) WriteBytes(b []byte) error {
	_, err := t.out.Write(b)
	return err
}

// Close restores the terminal's original mode and cancels the background
// reader. The machine has no further cleanup obligations beyond this.
func (t *Terminal) Close() error {
	if t.in != nil {
		t.in.Cancel()
		_ = t.in.Close()
	}
	if t.isTerm && t.state != nil {
		return term.Restore(int(os.Stdin.Fd()), t.state)
	}
	return nil
}

// Null is a no-op Adapter: TryReadChar always reports no character
// available, ReadCharBlocking always returns io.EOF, and writes are
// discarded. Useful for headless tests of the interpreter core.
type Null struct{}

func (Null) TryReadChar() (byte, bool)       { return 0, false }
func (Null) ReadCharBlocking() (byte, error) { return 0, io.EOF }
func (Null) WriteBytes([]byte) error         { return nil }
