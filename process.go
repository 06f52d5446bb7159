// process.go - Process control blocks and the round-robin scheduler
//
// Grounded on original_source/student-distrib/syscall.c (pid_status[],
// get_pcb, process_switch, schedule[]) and pit.c (the boot sequence that
// starts one shell per terminal before round-robining). Since user programs
// are opaque images rather than real instruction streams here, "execution"
// is a registered Go function run on its own goroutine; Execute blocks its
// caller until the child halts, mirroring execute()'s synchronous C return
// after the IRET/leave-ret dance in the original.
package main

import (
	"fmt"
	"sync"
)

const (
	MaxProcesses  = 6
	NumTerminals  = 3
	ArgsBufSize   = 1024
)

// ProgramBody is the simulated "user-mode" entry point for an executable
// image: everything it does goes through the Process's syscall surface.
type ProgramBody func(p *Process)

// Process is this kernel's PCB equivalent.
type Process struct {
	PID       int
	ParentPID int // -1 for a terminal's root shell
	Args      string
	FDTable   [MaxOpenFiles]FileDescriptor

	terminal *VirtualTerminal
	kernel   *Kernel

	doneCh chan uint8 // halt() status delivered here; Execute() blocks on it
}

// Scheduler owns the PCB arena, the three terminals' foreground pids, and
// drives round-robin switches from the PIT. It implements both the PIT's
// Scheduler interface and the Keyboard's terminal-switch hotkeys.
type ProcessScheduler struct {
	mu        sync.Mutex
	kernel    *Kernel
	processes [MaxProcesses]*Process
	used      [MaxProcesses]bool

	// foreground[t] is the pid currently running in terminal t ("schedule"
	// in the original); -1 means the terminal hasn't booted a shell yet.
	foreground  [NumTerminals]int
	activeTerm  int // terminal currently receiving the CPU time slice
	visibleTerm int // terminal currently shown to the user
}

func NewProcessScheduler(k *Kernel) *ProcessScheduler {
	s := &ProcessScheduler{kernel: k}
	for i := range s.foreground {
		s.foreground[i] = -1
	}
	return s
}

// allocatePID claims the lowest unused PCB slot, marking it used at once.
// Execute calls it (through spawnBody) only after the program image has
// been validated, matching execute()'s "no pid is allocated until after
// validation" ordering.
func (s *ProcessScheduler) allocatePID() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := 0; i < MaxProcesses; i++ {
		if !s.used[i] {
			s.used[i] = true
			return i, nil
		}
	}
	return 0, fmt.Errorf("process: no free pid (max %d processes)", MaxProcesses)
}

func (s *ProcessScheduler) releasePID(pid int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.used[pid] = false
	s.processes[pid] = nil
}

func (s *ProcessScheduler) pcb(pid int) *Process {
	if pid < 0 || pid >= MaxProcesses {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.processes[pid]
}

func (s *ProcessScheduler) setPCB(pid int, p *Process) {
	s.mu.Lock()
	s.processes[pid] = p
	s.mu.Unlock()
}

// CurrentPID returns the pid occupying the CPU time slice right now.
func (s *ProcessScheduler) CurrentPID() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.foreground[s.activeTerm]
}

// Current returns the PCB for whichever process owns the active time slice.
func (s *ProcessScheduler) Current() *Process {
	return s.pcb(s.CurrentPID())
}

// ForegroundPID returns the pid currently running in terminal idx, or -1 if
// that terminal hasn't booted a shell yet.
func (s *ProcessScheduler) ForegroundPID(idx int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.foreground[idx]
}

// BootTerminal starts terminal idx's root shell. Called three times by the
// PIT during boot (one per terminal), per init_terminal in pit.c.
// A root shell never halts on its own, so spawn must run on its own
// goroutine here - the PIT's ticking goroutine calls BootTerminal directly
// and must return immediately to go on and boot the remaining terminals
// and service later ticks.
func (s *ProcessScheduler) BootTerminal(idx int) {
	klog.Printf("SCHED", "booting terminal %d", idx)
	go func() {
		if _, err := s.spawn(idx, -1, "shell", ""); err != nil {
			klog.Printf("SCHED", "failed to boot shell on terminal %d: %v", idx, err)
		}
	}()
}

// SwitchToNext advances the active terminal round-robin and installs the
// user mapping of whatever process is in the foreground there, per
// pit_handler's process_switch.
func (s *ProcessScheduler) SwitchToNext() {
	s.mu.Lock()
	s.activeTerm = (s.activeTerm + 1) % NumTerminals
	if pid := s.foreground[s.activeTerm]; pid >= 0 {
		s.kernel.paging.MapUserProcess(pid)
	}
	s.mu.Unlock()
}

// SwitchToTerminal changes which terminal is visible (Alt-F1/F2/F3), per
// switch_terminal in keyboard.c. The foreground process keeps running
// regardless of visibility; only vidmap()'s target page depends on it.
func (s *ProcessScheduler) SwitchToTerminal(idx int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if idx == s.visibleTerm {
		return
	}
	s.kernel.terminals[s.visibleTerm].Deactivate()
	s.visibleTerm = idx
	s.kernel.terminals[idx].Activate()
}

// PushInputByte forwards a decoded keystroke to whichever terminal is
// currently visible, satisfying KeyboardTarget; line buffering and echo
// happen inside the terminal itself.
func (s *ProcessScheduler) PushInputByte(b byte) {
	s.mu.Lock()
	term := s.visibleTerm
	s.mu.Unlock()
	s.kernel.terminals[term].PushInputByte(b)
}

func (s *ProcessScheduler) ClearAndRestartShell() {
	s.mu.Lock()
	term := s.visibleTerm
	s.mu.Unlock()
	s.kernel.terminals[term].ClearScreen()
}

func (s *ProcessScheduler) HaltForegroundProcess() {
	s.mu.Lock()
	term := s.visibleTerm
	pid := s.foreground[term]
	visible := s.visibleTerm == s.activeTerm
	s.mu.Unlock()
	if pid < 0 || !visible {
		return
	}
	if p := s.pcb(pid); p != nil {
		p.Halt(0)
	}
}

// Execute validates and launches a new program on behalf of the calling
// process. Mirrors execute() in syscall.c: filename and ELF-magic checks
// happen before a pid is ever allocated, then a new PCB is built and the
// child runs to completion (or its own nested execute calls) before this
// call returns the child's halt status.
func (s *ProcessScheduler) Execute(caller *Process, command string) (uint8, error) {
	name, args := splitCommand(command)
	if name == "" {
		return 0, fmt.Errorf("execute: empty command")
	}

	dentry, err := s.kernel.fs.ReadDentryByName(name)
	if err != nil {
		return 0, err
	}
	if !s.kernel.fs.IsELFExecutable(dentry.Inode) {
		return 0, fmt.Errorf("execute: %s is not executable", name)
	}
	body, ok := programRegistry[name]
	if !ok {
		return 0, fmt.Errorf("execute: no program body registered for %s", name)
	}

	term := caller.terminal
	parentPID := -1
	if caller != nil {
		parentPID = caller.PID
	}
	status, err := s.spawnBody(term, parentPID, name, args, body)
	return status, err
}

func (s *ProcessScheduler) spawn(termIdx int, parentPID int, name, args string) (uint8, error) {
	body, ok := programRegistry[name]
	if !ok {
		return 0, fmt.Errorf("execute: no program body registered for %s", name)
	}
	return s.spawnBody(s.kernel.terminals[termIdx], parentPID, name, args, body)
}

func (s *ProcessScheduler) spawnBody(term *VirtualTerminal, parentPID int, name, args string, body ProgramBody) (uint8, error) {
	pid, err := s.allocatePID()
	if err != nil {
		return 0, err
	}

	p := &Process{
		PID:       pid,
		ParentPID: parentPID,
		Args:      args,
		terminal:  term,
		kernel:    s.kernel,
		doneCh:    make(chan uint8, 1),
	}
	p.FDTable[0] = FileDescriptor{Ops: stdinOps{}, InUse: true}
	p.FDTable[1] = FileDescriptor{Ops: stdoutOps{}, InUse: true}
	s.setPCB(pid, p)

	s.mu.Lock()
	s.foreground[term.Index] = pid
	s.kernel.paging.MapUserProcess(pid)
	s.mu.Unlock()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				klog.Printf("PROC", "pid %d panicked: %v", pid, r)
				p.doneCh <- 1
			}
		}()
		body(p)
		// A program that returns instead of calling Halt exits with status 0.
		select {
		case p.doneCh <- 0:
		default:
		}
	}()

	status := <-p.doneCh

	s.mu.Lock()
	s.foreground[term.Index] = parentPID
	s.mu.Unlock()
	s.releasePID(pid)

	return status, nil
}

// Halt terminates the process and hands status back to whatever Execute
// call is blocked waiting for it, per halt() in syscall.c. For a terminal's
// root shell (ParentPID == -1) the original restarts the shell instead of
// returning to a parent; we do the same by respawning it after this
// goroutine unwinds.
func (p *Process) Halt(status uint8) {
	for i := range p.FDTable {
		if p.FDTable[i].InUse {
			p.FDTable[i].Ops.Close(p, &p.FDTable[i])
			p.FDTable[i] = FileDescriptor{}
		}
	}
	if p.ParentPID == -1 {
		term := p.terminal
		go func() {
			p.doneCh <- status
			p.kernel.scheduler.spawn(term.Index, -1, "shell", "")
		}()
		return
	}
	p.doneCh <- status
}

func splitCommand(command string) (name, args string) {
	i := 0
	for i < len(command) && command[i] != ' ' {
		i++
	}
	name = command[:i]
	if i+1 < len(command) {
		args = command[i+1:]
	}
	return name, args
}
