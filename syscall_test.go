package main

import "testing"

// newTestProcess builds a Process wired to a fresh test kernel, with stdin/
// stdout already installed the way spawnBody does.
func newTestProcess(t *testing.T) *Process {
	t.Helper()
	k := newTestKernel(t)
	p := &Process{
		PID:      0,
		terminal: k.terminals[0],
		kernel:   k,
	}
	p.FDTable[0] = FileDescriptor{Ops: stdinOps{}, InUse: true}
	p.FDTable[1] = FileDescriptor{Ops: stdoutOps{}, InUse: true}
	return p
}

// TestOpenAssignsFDOpsByFileType verifies Open binds fileOps to a regular
// file's dentry, in the first free slot after stdin/stdout, per open()'s
// dispatch in syscall.c.
func TestOpenAssignsFDOpsByFileType(t *testing.T) {
	p := newTestProcess(t)
	fd, err := p.Open("testprint")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if fd != 2 {
		t.Fatalf("fd = %d, want 2 (first free slot after stdin/stdout)", fd)
	}
	if p.FDTable[fd].Ops.Name() != "file" {
		t.Fatalf("Ops.Name() = %q, want %q", p.FDTable[fd].Ops.Name(), "file")
	}
}

// TestOpenMissingFileFails verifies Open propagates the filesystem's
// not-found error rather than installing a bogus descriptor.
func TestOpenMissingFileFails(t *testing.T) {
	p := newTestProcess(t)
	if _, err := p.Open("nope"); err == nil {
		t.Fatal("expected error opening a nonexistent file")
	}
}

// TestCloseRejectsStdinStdout mirrors close()'s refusal to close fd 0 or 1.
func TestCloseRejectsStdinStdout(t *testing.T) {
	p := newTestProcess(t)
	if err := p.Close(0); err == nil {
		t.Fatal("expected error closing stdin")
	}
	if err := p.Close(1); err == nil {
		t.Fatal("expected error closing stdout")
	}
}

// TestReadWriteBadFDRange verifies out-of-range fds are rejected before any
// FDOps dispatch, per read()/write()'s bounds checks.
func TestReadWriteBadFDRange(t *testing.T) {
	p := newTestProcess(t)
	if _, err := p.Read(99, make([]byte, 1)); err == nil {
		t.Fatal("expected error reading an out-of-range fd")
	}
	if _, err := p.Write(-1, make([]byte, 1)); err == nil {
		t.Fatal("expected error writing a negative fd")
	}
}

// TestGetArgsRequiresCapacityAndArgs mirrors getargs() failing both when
// there are no arguments and when the caller's buffer is undersized.
func TestGetArgsRequiresCapacityAndArgs(t *testing.T) {
	p := newTestProcess(t)
	big := make([]byte, ArgsBufSize)
	if err := p.GetArgs(big); err == nil {
		t.Fatal("expected error when process has no arguments")
	}

	p.Args = "hello"
	small := make([]byte, 4)
	if err := p.GetArgs(small); err == nil {
		t.Fatal("expected error for undersized buffer")
	}
	if err := p.GetArgs(big); err != nil {
		t.Fatalf("GetArgs failed with adequate buffer: %v", err)
	}
}

// TestVidmapReturnsFixedAddress verifies Vidmap always reports the fixed
// user-space virtual address regardless of which physical page backs it.
func TestVidmapReturnsFixedAddress(t *testing.T) {
	p := newTestProcess(t)
	addr, err := p.Vidmap()
	if err != nil {
		t.Fatalf("Vidmap failed: %v", err)
	}
	if addr != vidMapVir {
		t.Fatalf("Vidmap address = %#x, want %#x", addr, vidMapVir)
	}
}

// TestSetHandlerAndSigreturnAreStubs mirrors the spec's "set_handler and
// sigreturn are specified but return 0 without effect" - both must report
// success even though neither does anything.
func TestSetHandlerAndSigreturnAreStubs(t *testing.T) {
	p := newTestProcess(t)
	if err := p.SetHandler(0, 0); err != nil {
		t.Fatalf("SetHandler returned an error, want nil: %v", err)
	}
	if err := p.Sigreturn(); err != nil {
		t.Fatalf("Sigreturn returned an error, want nil: %v", err)
	}
}
