package main

import "testing"

type fakeKeyboardTarget struct {
	pushed       []byte
	cleared      int
	halted       int
	switchedTerm int
}

func (f *fakeKeyboardTarget) PushInputByte(b byte)      { f.pushed = append(f.pushed, b) }
func (f *fakeKeyboardTarget) ClearAndRestartShell()     { f.cleared++ }
func (f *fakeKeyboardTarget) HaltForegroundProcess()    { f.halted++ }
func (f *fakeKeyboardTarget) SwitchToTerminal(idx int)  { f.switchedTerm = idx }

// TestKeyboardDecodesPlainLetter verifies an unshifted make code decodes to
// its lowercase ASCII value.
func TestKeyboardDecodesPlainLetter(t *testing.T) {
	target := &fakeKeyboardTarget{}
	kb := NewKeyboard(NewPIC(), target)
	kb.HandleScancode(0x1E) // 'a'
	if len(target.pushed) != 1 || target.pushed[0] != 'a' {
		t.Fatalf("pushed = %v, want ['a']", target.pushed)
	}
}

// TestKeyboardShiftUppercasesLetters verifies holding shift uppercases the
// next letter key and reverts once shift is released.
func TestKeyboardShiftUppercasesLetters(t *testing.T) {
	target := &fakeKeyboardTarget{}
	kb := NewKeyboard(NewPIC(), target)

	kb.HandleScancode(scLeftShiftPressed)
	kb.HandleScancode(0x1E) // 'a' -> 'A'
	kb.HandleScancode(scLeftShiftReleased)
	kb.HandleScancode(0x1E) // 'a'

	if len(target.pushed) != 2 || target.pushed[0] != 'A' || target.pushed[1] != 'a' {
		t.Fatalf("pushed = %v, want ['A' 'a']", target.pushed)
	}
}

// TestKeyboardCapsLockTogglesLetterCase verifies caps lock is a toggle, not a
// momentary modifier.
func TestKeyboardCapsLockTogglesLetterCase(t *testing.T) {
	target := &fakeKeyboardTarget{}
	kb := NewKeyboard(NewPIC(), target)

	kb.HandleScancode(scCapsLockPressed)
	kb.HandleScancode(0x1E)
	kb.HandleScancode(scCapsLockPressed)
	kb.HandleScancode(0x1E)

	if len(target.pushed) != 2 || target.pushed[0] != 'A' || target.pushed[1] != 'a' {
		t.Fatalf("pushed = %v, want ['A' 'a']", target.pushed)
	}
}

// TestKeyboardCtrlLClearsShell mirrors the Ctrl-L hotkey dispatch.
func TestKeyboardCtrlLClearsShell(t *testing.T) {
	target := &fakeKeyboardTarget{}
	kb := NewKeyboard(NewPIC(), target)

	kb.HandleScancode(scLeftCtrlPressed)
	kb.HandleScancode(scLPressed)

	if target.cleared != 1 {
		t.Fatalf("cleared = %d, want 1", target.cleared)
	}
	if len(target.pushed) != 0 {
		t.Fatalf("expected no printable key pushed for Ctrl-L, got %v", target.pushed)
	}
}

// TestKeyboardCtrlCHaltsForeground mirrors the Ctrl-C hotkey dispatch.
func TestKeyboardCtrlCHaltsForeground(t *testing.T) {
	target := &fakeKeyboardTarget{}
	kb := NewKeyboard(NewPIC(), target)

	kb.HandleScancode(scLeftCtrlPressed)
	kb.HandleScancode(scCPressed)

	if target.halted != 1 {
		t.Fatalf("halted = %d, want 1", target.halted)
	}
}

// TestKeyboardAltFnSwitchesTerminal mirrors Alt-F1/F2/F3 terminal switching.
func TestKeyboardAltFnSwitchesTerminal(t *testing.T) {
	target := &fakeKeyboardTarget{}
	kb := NewKeyboard(NewPIC(), target)

	kb.HandleScancode(scAltPressed)
	kb.HandleScancode(scF3Pressed)

	if target.switchedTerm != 2 {
		t.Fatalf("switchedTerm = %d, want 2", target.switchedTerm)
	}
}

// TestKeyboardBackspaceProducesControlByte verifies backspace decodes to
// 0x08 regardless of the lookup table's zero entry for that scancode.
func TestKeyboardBackspaceProducesControlByte(t *testing.T) {
	target := &fakeKeyboardTarget{}
	kb := NewKeyboard(NewPIC(), target)
	kb.HandleScancode(scBackspacePressed)
	if len(target.pushed) != 1 || target.pushed[0] != 0x08 {
		t.Fatalf("pushed = %v, want [0x08]", target.pushed)
	}
}

// TestKeyboardPushHostByteTranslatesControlBytes verifies the host-TTY path
// recognizes raw Ctrl-L/Ctrl-C bytes directly, without scancode decoding.
func TestKeyboardPushHostByteTranslatesControlBytes(t *testing.T) {
	target := &fakeKeyboardTarget{}
	kb := NewKeyboard(NewPIC(), target)

	kb.PushHostByte(0x0C)
	kb.PushHostByte(0x03)
	kb.PushHostByte('z')

	if target.cleared != 1 || target.halted != 1 {
		t.Fatalf("cleared=%d halted=%d, want 1 and 1", target.cleared, target.halted)
	}
	if len(target.pushed) != 1 || target.pushed[0] != 'z' {
		t.Fatalf("pushed = %v, want ['z']", target.pushed)
	}
}
