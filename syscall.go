// syscall.go - The per-process syscall surface
//
// Open/Read/Write/Close/GetArgs/Vidmap/SetHandler/Sigreturn are ported from
// the matching functions in original_source/student-distrib/syscall.c. Each
// keeps the original's validation order (fd out of range, then unused fd)
// and its fd-to-FDOps assignment by file type from open().
// Execute/Halt themselves live in process.go alongside the PCB they operate
// on; this file is the syscalls a running ProgramBody calls against itself.
package main

import "fmt"

// Open finds the named file, picks its FDOps by file type exactly as
// open() does (RTC/dir/regular), and installs it in the first free slot.
func (p *Process) Open(filename string) (int, error) {
	dentry, err := p.kernel.fs.ReadDentryByName(filename)
	if err != nil {
		return -1, err
	}

	for i := 0; i < MaxOpenFiles; i++ {
		if p.FDTable[i].InUse {
			continue
		}
		var ops FDOps
		switch dentry.FileType {
		case FileTypeRTC:
			ops = rtcOps{rtc: p.kernel.rtc}
			p.kernel.rtc.Open(p.PID)
		case FileTypeDir:
			ops = dirOps{fs: p.kernel.fs}
		default:
			ops = fileOps{fs: p.kernel.fs}
		}
		p.FDTable[i] = FileDescriptor{Ops: ops, Inode: dentry.Inode, InUse: true}
		return i, nil
	}
	return -1, fmt.Errorf("open: no free file descriptor")
}

// Read dispatches to the fd's FDOps, per read()'s bounds checks
// (fd range, then in-use) before delegating.
func (p *Process) Read(fd int, buf []byte) (int, error) {
	if fd < 0 || fd >= MaxOpenFiles {
		return -1, fmt.Errorf("read: fd %d out of range", fd)
	}
	if !p.FDTable[fd].InUse {
		return -1, fmt.Errorf("read: fd %d not open", fd)
	}
	return p.FDTable[fd].Ops.Read(p, &p.FDTable[fd], buf)
}

// Write mirrors write()'s same bounds checks before delegating.
func (p *Process) Write(fd int, buf []byte) (int, error) {
	if fd < 0 || fd >= MaxOpenFiles {
		return -1, fmt.Errorf("write: fd %d out of range", fd)
	}
	if !p.FDTable[fd].InUse {
		return -1, fmt.Errorf("write: fd %d not open", fd)
	}
	return p.FDTable[fd].Ops.Write(p, &p.FDTable[fd], buf)
}

// Close mirrors close(): fd 0 and 1 (stdin/stdout) can never be closed.
func (p *Process) Close(fd int) error {
	if fd < 2 || fd >= MaxOpenFiles {
		return fmt.Errorf("close: fd %d cannot be closed", fd)
	}
	if !p.FDTable[fd].InUse {
		return fmt.Errorf("close: fd %d not open", fd)
	}
	err := p.FDTable[fd].Ops.Close(p, &p.FDTable[fd])
	p.FDTable[fd] = FileDescriptor{}
	return err
}

// GetArgs mirrors getargs(): fails if there were no arguments, or if buf is
// too small to hold the full ArgsBufSize-capacity argument buffer.
func (p *Process) GetArgs(buf []byte) error {
	if p.Args == "" {
		return fmt.Errorf("getargs: no arguments")
	}
	if len(buf) < ArgsBufSize {
		return fmt.Errorf("getargs: buffer smaller than %d bytes", ArgsBufSize)
	}
	copy(buf, p.Args)
	return nil
}

// Vidmap mirrors vidmap(): maps real VRAM when the calling process's
// terminal is the visible one, or that terminal's own backing page when it
// is hidden, into the calling process's user address space and returns the
// virtual address.
func (p *Process) Vidmap() (uint32, error) {
	visible := p.kernel.scheduler.visibleTerm == p.terminal.Index
	physPage := videoMemoryStart
	if !visible {
		physPage = videoMemoryStart + (p.terminal.Index+1)*pageSize4K
	}
	return p.kernel.paging.MapVidmap(uint32(physPage)), nil
}

// SetHandler and Sigreturn are specified but have no effect: signals were
// never wired up to the PIC/IDT, so both calls simply report success
// without installing a handler or restoring a signal context.
func (p *Process) SetHandler(signum int32, handlerAddr uint32) error {
	return nil
}

func (p *Process) Sigreturn() error {
	return nil
}
