// kernel.go - Boot wiring
//
// Assembles the port bus, PIC, PIT, keyboard, RTC, paging unit, IDT,
// filesystem, terminals, scheduler and VGA backend into one running kernel,
// the way the teacher's main.go wires together its SystemBus, CPU and
// peripherals before handing control to the GUI's event loop. Device
// bring-up that can happen concurrently (paging setup, filesystem parsing,
// backend construction) is done via golang.org/x/sync/errgroup rather than
// a sequential chain of error checks.
package main

import (
	"fmt"

	"golang.org/x/sync/errgroup"
)

// Kernel owns every subsystem and is the receiver interrupt dispatch
// ultimately calls into.
type Kernel struct {
	ports *PortBus
	pic   *PIC
	pit   *PIT
	kb    *Keyboard
	rtc   *RTC
	paging *PagingUnit
	idt   *IDT
	fs    *Filesystem

	terminals []*VirtualTerminal
	scheduler *ProcessScheduler

	vga     *VGA
	backend VideoOutput
	input   inputBridge
}

// inputBridge feeds decoded keystrokes into the keyboard controller. The
// Ebiten backend captures keys itself (see vga_backend_ebiten.go); a
// headless build has no window to do that, so it bridges the real host
// terminal instead (see vga_backend_headless.go and host_tty.go).
type inputBridge interface {
	Start() error
	Stop()
}

// BootConfig carries the parameters main.go gathers from flags/env before
// calling Boot.
type BootConfig struct {
	FilesystemImage []byte
	Backend         int // VideoBackendEbiten, see vga.go
}

// Boot constructs and wires every subsystem, grounded on the image-load and
// peripheral-registration sequence in the teacher's main().
func Boot(cfg BootConfig) (*Kernel, error) {
	k := &Kernel{}

	var g errgroup.Group
	g.Go(func() error {
		fs, err := ParseFilesystemImage(cfg.FilesystemImage)
		if err != nil {
			return fmt.Errorf("boot: filesystem: %w", err)
		}
		k.fs = fs
		return nil
	})
	g.Go(func() error {
		backend, err := NewVideoOutput(cfg.Backend)
		if err != nil {
			return fmt.Errorf("boot: video backend: %w", err)
		}
		k.backend = backend
		return nil
	})
	g.Go(func() error {
		k.paging = NewPagingUnit()
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	k.ports = NewPortBus()
	k.pic = NewPIC()
	k.idt = NewIDT()

	k.terminals = make([]*VirtualTerminal, NumTerminals)
	for i := range k.terminals {
		k.terminals[i] = NewVirtualTerminal(i)
		k.terminals[i].StartCursorBlink()
	}
	k.terminals[0].Activate()

	k.scheduler = NewProcessScheduler(k)
	k.rtc = NewRTC(k.pic)
	k.kb = NewKeyboard(k.pic, k.scheduler)
	k.pit = NewPIT(k.pic, k.scheduler)

	k.ports.Map(PortPIC1Cmd, PortPIC1Data, k.pic)
	k.ports.Map(PortPIC2Cmd, PortPIC2Data, k.pic)
	k.ports.Map(PortRTCIndex, PortRTCData, k.rtc)
	k.ports.Map(PortKBData, PortKBCmd, k.kb)

	// PIT/keyboard/RTC ticks are delivered as direct method calls rather than
	// through IDT.Dispatch, so VecPIT/VecKeyboard/VecRTC are never installed.
	// The syscall gate is likewise invoked directly via Process's methods in
	// syscall.go; its vector is installed below with a trace-only handler
	// for documentation parity with idt.c.
	k.idt.Install(VecSyscall, 3, "syscall", func(f *InterruptFrame) {
		klog.Tracef("SYSCALL", "int 0x80 from pid=%d", f.PID)
	})

	k.vga = NewVGA(k.terminals, k.backend)
	k.backend.SetKeyHandler(k.kb.PushHostByte)
	k.input = newInputBridge(k.kb)

	registerBuiltinPrograms()

	return k, nil
}

// Start brings up the PIT (which boots the three terminal shells), the VGA
// render loop, and whichever input bridge this build uses. Call Shutdown to
// stop all three.
func (k *Kernel) Start() error {
	if err := k.vga.Start(); err != nil {
		return fmt.Errorf("kernel: starting vga: %w", err)
	}
	if err := k.input.Start(); err != nil {
		return fmt.Errorf("kernel: starting input bridge: %w", err)
	}
	k.pit.Start()
	return nil
}

func (k *Kernel) Shutdown() {
	k.pit.Stop()
	k.input.Stop()
	k.vga.Stop()
	for _, t := range k.terminals {
		t.Stop()
	}
}
