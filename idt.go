// idt.go - 256-entry interrupt/exception dispatch table
//
// Grounded on original_source/student-distrib/idt.c (init_idt/set_exceptions:
// vectors 0-19 are CPU exceptions, 0x20 is the PIT, 0x21 is the keyboard,
// 0x28 is the RTC, 0x80 is the syscall gate) and on the teacher's
// baseOps [256]func(*CPU_X86) dispatch-table idiom from cpu_x86.go. Since
// this kernel has no real opcode stream to fault out of, each slot holds a
// Go handler that Dispatch invokes for that vector. The PIT, keyboard, RTC
// and syscall paths do not go through Dispatch: they call their handlers
// directly (see kernel.go's Boot).

package main

import (
	"fmt"
	"sync"
)

const (
	VecDivideError = 0x00
	VecPageFault   = 0x0E
	VecPIT         = 0x20
	VecKeyboard    = 0x21
	VecRTC         = 0x28
	VecSyscall     = 0x80

	numVectors = 256
)

// InterruptDescriptor mirrors one idt_desc_t entry: which privilege level
// may invoke it (DPL 3 only for the syscall gate) and whether it is wired up.
type InterruptDescriptor struct {
	Present bool
	DPL     int
	Name    string
	Handler func(frame *InterruptFrame)
}

// InterruptFrame stands in for the registers IRET would restore: the vector
// taken, and for exceptions the faulting context. Populated by whichever
// device/syscall path is raising the vector.
type InterruptFrame struct {
	Vector uint8
	PID    int
	Err    error
}

// IDT is the 256-entry table. Entries are written by Install (NewIDT's
// exception sweep, then whatever Boot installs); Install and Dispatch both
// hold the mutex while touching the table.
type IDT struct {
	mu      sync.Mutex
	entries [numVectors]InterruptDescriptor
}

func NewIDT() *IDT {
	idt := &IDT{}
	idt.installExceptions()
	return idt
}

// installExceptions wires vectors 0-19 (minus the reserved 15) to a generic
// fault handler, matching set_exceptions's present-bit sweep.
func (t *IDT) installExceptions() {
	names := map[int]string{
		0: "divide-error", 1: "debug", 2: "nmi", 3: "breakpoint", 4: "overflow",
		5: "bound-range", 6: "invalid-opcode", 7: "device-not-available",
		8: "double-fault", 9: "coprocessor-segment-overrun", 10: "invalid-tss",
		11: "segment-not-present", 12: "stack-fault", 13: "general-protection",
		14: "page-fault", 16: "x87-fpu", 17: "alignment-check",
		18: "machine-check", 19: "simd-fp",
	}
	for vec, name := range names {
		t.Install(vec, 0, name, defaultExceptionHandler)
	}
}

func defaultExceptionHandler(f *InterruptFrame) {
	klog.Printf("IDT", "unhandled exception vector=%#02x pid=%d err=%v", f.Vector, f.PID, f.Err)
}

// Install wires a handler into the given vector. dpl must be 3 for the
// syscall gate and 0 for everything else, mirroring the original's DPL
// convention.
func (t *IDT) Install(vector int, dpl int, name string, handler func(*InterruptFrame)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[vector] = InterruptDescriptor{Present: true, DPL: dpl, Name: name, Handler: handler}
}

// Dispatch invokes the handler registered at vector, returning an error if
// the vector was never installed - the counterpart of taking a #GP on a
// not-present IDT entry.
func (t *IDT) Dispatch(vector int, frame *InterruptFrame) error {
	t.mu.Lock()
	d := t.entries[vector]
	t.mu.Unlock()
	if !d.Present {
		return fmt.Errorf("idt: vector %#02x not present", vector)
	}
	frame.Vector = uint8(vector)
	d.Handler(frame)
	return nil
}
