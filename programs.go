// programs.go - Registry of simulated user-mode executables
//
// Real user programs are opaque ELF-like images per the filesystem's
// IsELFExecutable check; since loading and running an actual instruction
// stream is explicitly out of scope, each "executable" found in the
// filesystem image is backed here by a ProgramBody - a Go function that
// only ever touches the outside world through Process's syscall surface
// (Open/Read/Write/Close/Execute/Halt), the same restriction a real ring-3
// program would have. This mirrors the fixed set of demo programs shipped
// with the original distribution (shell, testprint, counter, ls, cat).
package main

import (
	"strings"
)

var programRegistry = map[string]ProgramBody{}

// RegisterProgram installs a named program body, overwriting any previous
// registration for that name.
func RegisterProgram(name string, body ProgramBody) {
	programRegistry[name] = body
}

// registerBuiltinPrograms installs the demo programs every filesystem image
// this kernel boots against is expected to carry dentries for.
func registerBuiltinPrograms() {
	RegisterProgram("shell", shellProgram)
	RegisterProgram("testprint", testprintProgram)
	RegisterProgram("counter", counterProgram)
	RegisterProgram("ls", lsProgram)
	RegisterProgram("cat", catProgram)
}

// shellProgram is the root shell every terminal boots: a read-eval-print
// loop that never exits, per the spec's "the root shell never exits."
func shellProgram(p *Process) {
	p.Write(1, []byte("391OS> "))
	buf := make([]byte, kbufSize)
	for {
		n, err := p.Read(0, buf)
		if err != nil {
			continue
		}
		line := strings.TrimRight(string(buf[:n]), "\n")
		line = strings.TrimSpace(line)
		if line == "" {
			p.Write(1, []byte("391OS> "))
			continue
		}
		status, err := p.kernel.scheduler.Execute(p, line)
		if err != nil {
			p.Write(1, []byte(err.Error()+"\n"))
		} else {
			p.Write(1, []byte{})
			_ = status
		}
		p.Write(1, []byte("391OS> "))
	}
}

// testprintProgram writes a line and halts with a fixed status, matching
// the execute-halt chain scenario: a shell runs it, halt(42) returns
// control to the shell's execute call.
func testprintProgram(p *Process) {
	p.Write(1, []byte("testprint: running\n"))
	p.Halt(42)
}

// counterProgram opens /dev/rtc, sets a slow virtualized rate, and prints
// one dot per virtualized tick, ten times, before halting - the canonical
// RTC virtualization demo.
func counterProgram(p *Process) {
	fd, err := p.Open("rtc")
	if err != nil {
		p.Write(1, []byte("counter: rtc unavailable\n"))
		p.Halt(1)
		return
	}
	defer p.Close(fd)

	rate := [4]byte{2, 0, 0, 0}
	p.Write(fd, rate[:])

	for i := 0; i < 10; i++ {
		p.Read(fd, nil)
		p.Write(1, []byte("."))
	}
	p.Write(1, []byte("\n"))
	p.Halt(0)
}

// lsProgram lists every entry in the root directory, per dir_read's
// sequential-filename iteration.
func lsProgram(p *Process) {
	fd, err := p.Open(".")
	if err != nil {
		p.Halt(1)
		return
	}
	defer p.Close(fd)

	buf := make([]byte, 33)
	for {
		n, _ := p.Read(fd, buf)
		if n == 0 {
			break
		}
		p.Write(1, buf[:n])
		p.Write(1, []byte("\n"))
	}
	p.Halt(0)
}

// catProgram prints the file named in its argument buffer to stdout.
func catProgram(p *Process) {
	name := strings.TrimSpace(p.Args)
	if name == "" {
		p.Write(1, []byte("cat: missing filename\n"))
		p.Halt(1)
		return
	}
	fd, err := p.Open(name)
	if err != nil {
		p.Write(1, []byte("cat: "+name+": not found\n"))
		p.Halt(1)
		return
	}
	defer p.Close(fd)

	buf := make([]byte, 256)
	for {
		n, err := p.Read(fd, buf)
		if n == 0 || err != nil {
			break
		}
		p.Write(1, buf[:n])
	}
	p.Halt(0)
}
