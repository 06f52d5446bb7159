package main

import "testing"

// TestStdoutOpsIsWriteOnly verifies stdout rejects reads, per the terminal
// file type's write-only contract.
func TestStdoutOpsIsWriteOnly(t *testing.T) {
	vt := NewVirtualTerminal(0)
	p := &Process{terminal: vt}
	fd := &FileDescriptor{}

	if _, err := stdoutOps{}.Read(p, fd, make([]byte, 1)); err == nil {
		t.Fatal("expected error reading from stdout")
	}
	n, err := stdoutOps{}.Write(p, fd, []byte("hi"))
	if err != nil || n != 2 {
		t.Fatalf("Write(hi) = (%d, %v), want (2, nil)", n, err)
	}
}

// TestStdinOpsIsReadOnly verifies stdin rejects writes.
func TestStdinOpsIsReadOnly(t *testing.T) {
	vt := NewVirtualTerminal(0)
	p := &Process{terminal: vt}
	fd := &FileDescriptor{}

	if _, err := stdinOps{}.Write(p, fd, []byte("x")); err == nil {
		t.Fatal("expected error writing to stdin")
	}
}

// TestDirOpsSequentialRead verifies repeated reads walk the directory in
// index order and signal EOF with a zero-length, error-free read.
func TestDirOpsSequentialRead(t *testing.T) {
	fs, err := ParseFilesystemImage(buildTestImage(t))
	if err != nil {
		t.Fatalf("ParseFilesystemImage failed: %v", err)
	}
	p := &Process{}
	fd := &FileDescriptor{}
	ops := dirOps{fs: fs}

	buf := make([]byte, 32)
	n, err := ops.Read(p, fd, buf)
	if err != nil || string(buf[:n]) != "testprint" {
		t.Fatalf("first dir read = (%q, %v), want (\"testprint\", nil)", buf[:n], err)
	}

	n, err = ops.Read(p, fd, buf)
	if err != nil || n != 0 {
		t.Fatalf("second dir read = (%d, %v), want (0, nil) at EOF", n, err)
	}
}

// TestRTCOpsWriteValidatesLength mirrors rtc_write requiring an exact
// 4-byte frequency buffer.
func TestRTCOpsWriteValidatesLength(t *testing.T) {
	r := NewRTC(NewPIC())
	r.Open(1)
	p := &Process{PID: 1}
	fd := &FileDescriptor{}
	ops := rtcOps{rtc: r}

	if _, err := ops.Write(p, fd, []byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for a non-4-byte rate buffer")
	}

	rate := [4]byte{64, 0, 0, 0}
	if _, err := ops.Write(p, fd, rate[:]); err != nil {
		t.Fatalf("valid rate write failed: %v", err)
	}
}
