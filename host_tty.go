// host_tty.go - Host terminal bridge
//
// Adapted from terminal_host.go: puts the real stdin fd into raw mode with
// golang.org/x/term so the host OS doesn't echo or line-buffer, then reads
// bytes directly off the fd in a background goroutine. The original fed
// bytes straight into a TerminalMMIO device; here there is a real (simulated)
// keyboard controller in front of the terminal, so HostTTY goes through
// PushHostByte, which synthesizes the PS/2 scancode the byte would have come
// from and runs it through Keyboard.HandleScancode exactly as an interrupt
// handler would. Only wired in under the headless build tag - see
// vga_backend_headless.go's newInputBridge.
package main

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"time"

	"golang.org/x/term"
)

// HostTTY bridges a real terminal's stdin into the simulated keyboard
// controller. It handles input only; nothing is written to stdout.
type HostTTY struct {
	kb *Keyboard

	stopCh  chan struct{}
	done    chan struct{}
	stopped sync.Once

	fd           int
	nonblockSet  bool
	oldTermState *term.State
}

func NewHostTTY(kb *Keyboard) *HostTTY {
	return &HostTTY{
		kb:     kb,
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// Start puts stdin into raw, non-blocking mode and begins feeding bytes to
// the keyboard controller. Call Stop to restore the terminal.
func (h *HostTTY) Start() error {
	h.fd = int(os.Stdin.Fd())

	oldState, err := term.MakeRaw(h.fd)
	if err != nil {
		close(h.done)
		return fmt.Errorf("host_tty: failed to set raw mode: %w", err)
	}
	h.oldTermState = oldState

	if err := syscall.SetNonblock(h.fd, true); err != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
		close(h.done)
		return fmt.Errorf("host_tty: failed to set nonblocking stdin: %w", err)
	}
	h.nonblockSet = true

	go h.readLoop()
	return nil
}

func (h *HostTTY) readLoop() {
	defer close(h.done)
	buf := make([]byte, 1)

	for {
		select {
		case <-h.stopCh:
			return
		default:
		}

		n, err := syscall.Read(h.fd, buf)
		if n > 0 {
			b := buf[0]
			if b == '\r' {
				b = '\n'
			}
			if b == 0x7F {
				b = 0x08
			}
			h.kb.PushHostByte(b)
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return
		}
		if n == 0 {
			time.Sleep(5 * time.Millisecond)
		}
	}
}

// Stop terminates the reader goroutine and restores the original terminal
// state.
func (h *HostTTY) Stop() {
	h.stopped.Do(func() {
		close(h.stopCh)
	})
	<-h.done
	if h.nonblockSet {
		_ = syscall.SetNonblock(h.fd, false)
		h.nonblockSet = false
	}
	if h.oldTermState != nil {
		_ = term.Restore(h.fd, h.oldTermState)
		h.oldTermState = nil
	}
}
