package main

import "testing"

type fakeScheduler struct {
	booted       []int
	switchCount  int
}

func (f *fakeScheduler) BootTerminal(idx int) { f.booted = append(f.booted, idx) }
func (f *fakeScheduler) SwitchToNext()        { f.switchCount++ }

// TestPITBootsThreeTerminalsThenRoundRobins mirrors pit_handler: the first
// three ticks boot terminals 0, 1, 2 in order; every tick after that calls
// SwitchToNext instead.
func TestPITBootsThreeTerminalsThenRoundRobins(t *testing.T) {
	sched := &fakeScheduler{}
	pit := NewPIT(NewPIC(), sched)

	for i := 0; i < 3; i++ {
		pit.handleTick()
	}
	if len(sched.booted) != 3 || sched.booted[0] != 0 || sched.booted[1] != 1 || sched.booted[2] != 2 {
		t.Fatalf("booted = %v, want [0 1 2]", sched.booted)
	}

	pit.handleTick()
	pit.handleTick()
	if sched.switchCount != 2 {
		t.Fatalf("switchCount = %d, want 2", sched.switchCount)
	}
}

// TestPITTickCount verifies the tick counter advances once per handleTick
// call regardless of boot/round-robin phase.
func TestPITTickCount(t *testing.T) {
	sched := &fakeScheduler{}
	pit := NewPIT(NewPIC(), sched)
	for i := 0; i < 5; i++ {
		pit.handleTick()
	}
	if got := pit.TickCount(); got != 5 {
		t.Fatalf("TickCount() = %d, want 5", got)
	}
}
