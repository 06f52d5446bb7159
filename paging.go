// paging.go - Simulated x86 paging for kernel391
//
// Grounded on original_source/student-distrib/page.c: a single 4MB directory
// entry maps the kernel image, a 4KB-paged directory entry maps the first
// 4MB (video memory plus the three terminal backing pages), and execute(2)
// installs one 4MB user-program entry per pid at a fixed virtual address.
//
// Rather than packing present/read-write/user-supervisor/... bits into a
// raw uint32 the way page_dir_entry_kb/page_dir_entry_mb do in C, each
// mapping is a strongly-typed record. CR3 reloads and TLB flushes are
// simulated as no-ops with a log line, since there is no real MMU backing
// this process space - what matters for the spec's invariants is that the
// mapping table itself is correct and observable.
package main

import "sync"

const (
	pageSize4K = 0x1000
	pageSize4M = 0x400000

	userMemStartVir = 0x08048000 // where every user program's image is linked
	vidMapVir       = 0x08400000 // vidmap() target virtual address

	videoMemoryStart = 0xB8000 // real VGA text VRAM, identity-mapped
	kernelMemoryBase = 0x400000
)

// PageMapping is one entry in the simulated page directory: either a 4MB
// identity/user mapping or a reference to a 4KB page (video memory window).
type PageMapping struct {
	Present  bool
	Writable bool
	User     bool // ring3-accessible
	Is4MB    bool
	PhysAddr uint32
}

// PagingUnit owns the per-process virtual memory mappings. One instance is
// shared kernel-wide; setupIdentityMappings/MapUserProcess/MapVidmap mutate it under
// a single critical section the same way setup_paging/setup_process_memory
// run with interrupts disabled in the original.
type PagingUnit struct {
	mu           sync.Mutex
	directory    map[uint32]PageMapping // keyed by virtual 4MB-page index
	activePID    int
	tlbFlushes   uint64
}

func NewPagingUnit() *PagingUnit {
	p := &PagingUnit{directory: make(map[uint32]PageMapping)}
	p.setupIdentityMappings()
	return p
}

func (p *PagingUnit) setupIdentityMappings() {
	p.mu.Lock()
	defer p.mu.Unlock()
	// Directory entry 0: 4KB-paged, identity-mapping video memory.
	p.directory[0] = PageMapping{Present: true, Writable: true, Is4MB: false, PhysAddr: 0}
	// Directory entry 1: 4MB page covering the kernel image.
	p.directory[1] = PageMapping{Present: true, Writable: true, Is4MB: true, PhysAddr: kernelMemoryBase}
}

// MapUserProcess installs the 4MB directory entry that maps userMemStartVir
// to the physical region reserved for pid, then flushes the simulated TLB.
// Grounded on setup_process_memory in syscall.c.
func (p *PagingUnit) MapUserProcess(pid int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	phys := uint32(pid+2) * pageSize4M // leave slots 0,1 for identity+kernel
	idx := uint32(userMemStartVir / pageSize4M)
	p.directory[idx] = PageMapping{Present: true, Writable: true, User: true, Is4MB: true, PhysAddr: phys}
	p.activePID = pid
	p.flushTLBLocked()
}

// MapVidmap installs a 4KB user-accessible mapping from vidMapVir to the
// given physical video page (either real VRAM or a background terminal's
// backing page), per vidmap() in syscall.c.
func (p *PagingUnit) MapVidmap(physVideoPage uint32) uint32 {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := uint32(vidMapVir / pageSize4M)
	p.directory[idx] = PageMapping{Present: true, Writable: true, User: true, Is4MB: false, PhysAddr: physVideoPage}
	p.flushTLBLocked()
	return vidMapVir
}

func (p *PagingUnit) flushTLBLocked() {
	p.tlbFlushes++
	klog.Tracef("PAGING", "CR3 reload, TLB flush #%d (active pid=%d)", p.tlbFlushes, p.activePID)
}

// Translate resolves a virtual address through whichever directory entry
// covers it (identity, kernel, user or vidmap) to a simulated physical
// address, or ok=false if the address isn't mapped.
func (p *PagingUnit) Translate(vaddr uint32) (paddr uint32, ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := vaddr / pageSize4M
	m, present := p.directory[idx]
	if !present || !m.Present {
		return 0, false
	}
	offset := vaddr % pageSize4M
	return m.PhysAddr + offset, true
}

func (p *PagingUnit) TLBFlushes() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.tlbFlushes
}
