// fd.go - Per-process file descriptor table
//
// original_source/student-distrib/syscall.c dispatches read/write/open/close
// through a file_operations_table_t of four function pointers, picked by
// file type at open() time (stdin/stdout always terminal_*, regular files
// file_*, directories dir_*, /dev/rtc rtc_*). Per the re-architecture notes,
// that vtable-of-function-pointers becomes a small tagged-variant interface
// here instead: each FDOps implementation is a distinct Go type rather than
// four raw function pointers sharing one struct.
package main

import "fmt"

const MaxOpenFiles = 8

// FDOps is implemented by each of the five file-descriptor variants
// (Stdin, Stdout, Dir, File, RTC) this kernel supports.
type FDOps interface {
	Read(p *Process, fd *FileDescriptor, buf []byte) (int, error)
	Write(p *Process, fd *FileDescriptor, buf []byte) (int, error)
	Close(p *Process, fd *FileDescriptor) error
	Name() string
}

// FileDescriptor is one entry in a process's fd table.
type FileDescriptor struct {
	Ops     FDOps
	Inode   int
	FilePos int
	InUse   bool
}

// --- stdin: read-only, routed through the owning terminal's line buffer ---

type stdinOps struct{}

func (stdinOps) Name() string { return "stdin" }
func (stdinOps) Read(p *Process, fd *FileDescriptor, buf []byte) (int, error) {
	return p.terminal.ReadLine(buf)
}
func (stdinOps) Write(p *Process, fd *FileDescriptor, buf []byte) (int, error) {
	return 0, fmt.Errorf("fd: stdin is read-only")
}
func (stdinOps) Close(p *Process, fd *FileDescriptor) error { return nil }

// --- stdout: write-only, routed through the owning terminal's screen ---

type stdoutOps struct{}

func (stdoutOps) Name() string { return "stdout" }
func (stdoutOps) Read(p *Process, fd *FileDescriptor, buf []byte) (int, error) {
	return 0, fmt.Errorf("fd: stdout is write-only")
}
func (stdoutOps) Write(p *Process, fd *FileDescriptor, buf []byte) (int, error) {
	return p.terminal.Write(buf)
}
func (stdoutOps) Close(p *Process, fd *FileDescriptor) error { return nil }

// --- directory: each read returns the next filename, per dir_read ---

type dirOps struct{ fs *Filesystem }

func (dirOps) Name() string { return "dir" }
func (d dirOps) Read(p *Process, fd *FileDescriptor, buf []byte) (int, error) {
	dentry, err := d.fs.ReadDentryByIndex(fd.FilePos)
	if err != nil {
		return 0, nil // past the end of the directory: read returns 0, not an error
	}
	fd.FilePos++
	return copy(buf, dentry.Name), nil
}
func (dirOps) Write(p *Process, fd *FileDescriptor, buf []byte) (int, error) {
	return 0, fmt.Errorf("fd: directory is read-only")
}
func (dirOps) Close(p *Process, fd *FileDescriptor) error { return nil }

// --- regular file: sequential read from the backing inode ---

type fileOps struct{ fs *Filesystem }

func (fileOps) Name() string { return "file" }
func (f fileOps) Read(p *Process, fd *FileDescriptor, buf []byte) (int, error) {
	n, err := f.fs.ReadData(fd.Inode, fd.FilePos, buf)
	fd.FilePos += n
	return n, err
}
func (fileOps) Write(p *Process, fd *FileDescriptor, buf []byte) (int, error) {
	return 0, fmt.Errorf("fd: filesystem is read-only")
}
func (fileOps) Close(p *Process, fd *FileDescriptor) error { return nil }

// --- RTC: read blocks for one virtualized tick, write sets the rate ---

type rtcOps struct{ rtc *RTC }

func (rtcOps) Name() string { return "rtc" }
func (r rtcOps) Read(p *Process, fd *FileDescriptor, buf []byte) (int, error) {
	if err := r.rtc.WaitForInterrupt(p.PID); err != nil {
		return 0, err
	}
	return 0, nil
}
func (r rtcOps) Write(p *Process, fd *FileDescriptor, buf []byte) (int, error) {
	if len(buf) != 4 {
		return 0, fmt.Errorf("rtc: write must be exactly 4 bytes")
	}
	freq := int(le32(buf))
	if err := r.rtc.SetRate(p.PID, freq); err != nil {
		return 0, err
	}
	return 4, nil
}
func (r rtcOps) Close(p *Process, fd *FileDescriptor) error {
	r.rtc.Close(p.PID)
	return nil
}
