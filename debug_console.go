// debug_console.go - Lua-scriptable debug console
//
// Grounded on the macro/scripting ambition of the teacher's dropped
// debug_monitor.go (a command-line debugger reading watch/breakpoint
// commands interactively): here the interactive surface is a small
// github.com/yuin/gopher-lua REPL exposing kernel state as Lua globals and
// functions, rather than a bespoke command grammar. `:copy` pulls the
// current visible terminal's text onto the host clipboard via
// golang.design/x/clipboard, reusing the same library the VGA backend uses
// for paste.
package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"golang.design/x/clipboard"
	lua "github.com/yuin/gopher-lua"
)

// DebugConsole is a line-oriented Lua REPL wired to the kernel's live state.
type DebugConsole struct {
	kernel *Kernel
	L      *lua.LState
}

func NewDebugConsole(k *Kernel) *DebugConsole {
	L := lua.NewState()
	c := &DebugConsole{kernel: k, L: L}
	c.registerGlobals()
	return c
}

func (c *DebugConsole) Close() {
	c.L.Close()
}

// registerGlobals exposes kernel introspection to Lua scripts - pids(),
// current_pid(), tick_count(), tlb_flushes() - plus switch_terminal(idx),
// which changes the visible terminal.
func (c *DebugConsole) registerGlobals() {
	k := c.kernel

	c.L.SetGlobal("pids", c.L.NewFunction(func(L *lua.LState) int {
		tbl := L.NewTable()
		for i := 0; i < MaxProcesses; i++ {
			if p := k.scheduler.pcb(i); p != nil {
				tbl.Append(lua.LNumber(p.PID))
			}
		}
		L.Push(tbl)
		return 1
	}))

	c.L.SetGlobal("current_pid", c.L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(k.scheduler.CurrentPID()))
		return 1
	}))

	c.L.SetGlobal("tick_count", c.L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(k.pit.TickCount()))
		return 1
	}))

	c.L.SetGlobal("tlb_flushes", c.L.NewFunction(func(L *lua.LState) int {
		L.Push(lua.LNumber(k.paging.TLBFlushes()))
		return 1
	}))

	c.L.SetGlobal("switch_terminal", c.L.NewFunction(func(L *lua.LState) int {
		idx := int(L.CheckNumber(1))
		k.scheduler.SwitchToTerminal(idx)
		return 0
	}))
}

// Run drains r line by line, evaluating each as a Lua chunk (or a handful
// of ':' meta-commands) and writing results to w. Intended to be attached
// to a pty or a debug socket, never to kernel-critical stdin.
func (c *DebugConsole) Run(r io.Reader, w io.Writer) {
	scanner := bufio.NewScanner(r)
	fmt.Fprint(w, "kernel391 debug console - :help for commands\n> ")
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case line == "":
		case line == ":help":
			fmt.Fprintln(w, "commands: :copy <term>, :quit, or any Lua expression")
		case line == ":quit":
			return
		case strings.HasPrefix(line, ":copy"):
			c.handleCopy(line, w)
		default:
			if err := c.L.DoString(line); err != nil {
				fmt.Fprintf(w, "error: %v\n", err)
			}
		}
		fmt.Fprint(w, "> ")
	}
}

// handleCopy renders the named terminal's visible text and pushes it to the
// host clipboard, e.g. ":copy 0" copies terminal 0's screen.
func (c *DebugConsole) handleCopy(line string, w io.Writer) {
	fields := strings.Fields(line)
	idx := c.kernel.scheduler.visibleTerm
	if len(fields) > 1 {
		fmt.Sscanf(fields[1], "%d", &idx)
	}
	if idx < 0 || idx >= len(c.kernel.terminals) {
		fmt.Fprintf(w, "error: no terminal %d\n", idx)
		return
	}
	cells, _, _, _, _ := c.kernel.terminals[idx].Snapshot()

	var sb strings.Builder
	for row := 0; row < TermRows; row++ {
		line := cells[row*TermCols : (row+1)*TermCols]
		sb.Write(line)
		sb.WriteByte('\n')
	}

	if err := clipboard.Init(); err != nil {
		fmt.Fprintf(w, "clipboard unavailable: %v\n", err)
		return
	}
	clipboard.Write(clipboard.FmtText, []byte(sb.String()))
	fmt.Fprintf(w, "copied terminal %d to clipboard\n", idx)
}
