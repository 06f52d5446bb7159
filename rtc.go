// rtc.go - Virtualized Real-Time Clock
//
// Ported from original_source/student-distrib/rtc.c: the physical RTC
// always ticks at 1024Hz (RATE_1024_HZ); per-process "frequency" is
// virtualized by counting real ticks and only waking a process's blocked
// read every (1024/f) ticks (max_rtc_count), exactly as rtc_write/rtc_handler
// compute it. rtc_open resets the process to 1024Hz; rtc_read blocks until
// its tick counter rolls over; rtc_write validates 2 <= f <= 1024.
package main

import (
	"fmt"
	"sync"
)

const rtcBaseHz = 1024

// rtcSubscriber is the per-process state the handler advances every tick.
type rtcSubscriber struct {
	maxCount int
	counter  int
	wake     chan struct{}
}

type RTC struct {
	mu          sync.Mutex
	pic         *PIC
	subscribers map[int]*rtcSubscriber // keyed by pid
	indexReg    uint8
}

func NewRTC(pic *PIC) *RTC {
	pic.EnableIRQ(8)
	return &RTC{pic: pic, subscribers: make(map[int]*rtcSubscriber)}
}

// Tick represents one 1024Hz hardware RTC interrupt and must be called by
// whoever drives the clock; Kernel.Start starts no RTC tick source, so in a
// booted kernel nothing calls it and RTC reads block until a caller does.
// It mirrors rtc_handler: every subscribed process's counter advances, and
// whoever rolls over gets its wake channel signalled.
func (r *RTC) Tick() {
	defer r.pic.SendEOI(8)

	r.mu.Lock()
	defer r.mu.Unlock()
	for _, sub := range r.subscribers {
		sub.counter++
		if sub.counter >= sub.maxCount {
			sub.counter = 0
			select {
			case sub.wake <- struct{}{}:
			default:
			}
		}
	}
}

// Open resets the calling process to the default 1024Hz rate, per rtc_open.
func (r *RTC) Open(pid int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subscribers[pid] = &rtcSubscriber{maxCount: 1, wake: make(chan struct{}, 1)}
}

// Close drops the process's subscription, per rtc_close.
func (r *RTC) Close(pid int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subscribers, pid)
}

// SetRate validates and installs the requested frequency (2-1024Hz),
// converting it to the tick-count divisor the handler counts against.
// Mirrors rtc_write's bounds check and rtc_set_rate's rate semantics.
func (r *RTC) SetRate(pid int, freqHz int) error {
	if freqHz < 2 || freqHz > rtcBaseHz {
		return fmt.Errorf("rtc: frequency %d out of range [2,%d]", freqHz, rtcBaseHz)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	sub, ok := r.subscribers[pid]
	if !ok {
		return fmt.Errorf("rtc: pid %d has not opened /dev/rtc", pid)
	}
	sub.maxCount = rtcBaseHz / freqHz
	sub.counter = 0
	return nil
}

// WaitForInterrupt blocks the calling goroutine until the next virtualized
// tick for pid, per rtc_read's busy-wait-on-flag loop (modeled as a channel
// receive instead of a literal spin).
func (r *RTC) WaitForInterrupt(pid int) error {
	r.mu.Lock()
	sub, ok := r.subscribers[pid]
	r.mu.Unlock()
	if !ok {
		return fmt.Errorf("rtc: pid %d has not opened /dev/rtc", pid)
	}
	<-sub.wake
	return nil
}

func (r *RTC) In(port uint16) uint8 {
	if port == PortRTCData {
		return 0
	}
	return 0
}

func (r *RTC) Out(port uint16, value uint8) {
	if port == PortRTCIndex {
		r.indexReg = value
	}
}
