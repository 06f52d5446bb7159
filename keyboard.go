// keyboard.go - PS/2 keyboard driver
//
// The scancode table and modifier-flag state machine are ported directly
// from original_source/student-distrib/keyboard.c's scancode_lookup array
// and update_flags/get_key logic (Set 1, IBM PC/AT make codes only - no
// break-code handling beyond release of shift/ctrl/alt). Decoded bytes are
// handed one at a time to the KeyboardTarget, which routes them into the
// visible terminal's line buffer.
package main

import "sync"

const scancodeTableSize = 0x60

// Set-1 make codes for keys this kernel cares about beyond plain ASCII.
const (
	scLeftShiftPressed   = 0x2A
	scLeftShiftReleased  = 0xAA
	scRightShiftPressed  = 0x36
	scRightShiftReleased = 0xB6
	scCapsLockPressed    = 0x3A
	scLeftCtrlPressed    = 0x1D
	scLeftCtrlReleased   = 0x9D
	scAltPressed         = 0x38
	scAltReleased        = 0xB8
	scBackspacePressed   = 0x0E
	scEnterPressed       = 0x1C
	scLPressed           = 0x26
	scCPressed           = 0x2E
	scF1Pressed          = 0x3B
	scF2Pressed          = 0x3C
	scF3Pressed          = 0x3D
)

// scancodeLookup mirrors scancode_lookup in keyboard.c: index by scancode,
// value is the unshifted lowercase ASCII character (0 if non-printable).
var scancodeLookup = [scancodeTableSize]byte{
	0x00: 0, 0x01: 0,
	0x02: '1', 0x03: '2', 0x04: '3', 0x05: '4', 0x06: '5',
	0x07: '6', 0x08: '7', 0x09: '8', 0x0A: '9', 0x0B: '0',
	0x0C: '-', 0x0D: '=', 0x0E: 0, 0x0F: '\t',
	0x10: 'q', 0x11: 'w', 0x12: 'e', 0x13: 'r', 0x14: 't',
	0x15: 'y', 0x16: 'u', 0x17: 'i', 0x18: 'o', 0x19: 'p',
	0x1A: '[', 0x1B: ']', 0x1C: '\n', 0x1D: 0,
	0x1E: 'a', 0x1F: 's', 0x20: 'd', 0x21: 'f', 0x22: 'g',
	0x23: 'h', 0x24: 'j', 0x25: 'k', 0x26: 'l', 0x27: ';',
	0x28: '\'', 0x29: '`', 0x2A: 0, 0x2B: '\\',
	0x2C: 'z', 0x2D: 'x', 0x2E: 'c', 0x2F: 'v', 0x30: 'b',
	0x31: 'n', 0x32: 'm', 0x33: ',', 0x34: '.', 0x35: '/',
	0x36: 0, 0x37: '*', 0x38: 0, 0x39: ' ',
}

var shiftedPunctuation = map[byte]byte{
	'`': '~', '1': '!', '2': '@', '3': '#', '4': '$', '5': '%',
	'6': '^', '7': '&', '8': '*', '9': '(', '0': ')', '-': '_',
	'=': '+', '[': '{', ']': '}', '\\': '|', ';': ':', '\'': '"',
	',': '<', '.': '>', '/': '?',
}

// KeyboardTarget receives decoded keystrokes and hotkey notifications.
// Implemented by the terminal subsystem (per visible terminal) and the
// scheduler (for Alt-F1/F2/F3 terminal switches and Ctrl-C halt).
type KeyboardTarget interface {
	PushInputByte(b byte)
	ClearAndRestartShell()
	HaltForegroundProcess()
	SwitchToTerminal(idx int)
}

type Keyboard struct {
	mu sync.Mutex

	pic    *PIC
	target KeyboardTarget

	shift    bool
	capsLock bool
	ctrl     bool
	alt      bool
}

func NewKeyboard(pic *PIC, target KeyboardTarget) *Keyboard {
	pic.EnableIRQ(1)
	return &Keyboard{pic: pic, target: target}
}

// HandleScancode processes one byte read from the PS/2 data port, exactly
// as keyboard_handler does: update modifier flags, fire Ctrl-L/Ctrl-C/Alt-Fn
// hotkeys, and otherwise print (enqueue) the decoded key. Returns after
// sending EOI on IRQ1.
func (k *Keyboard) HandleScancode(scancode byte) {
	defer k.pic.SendEOI(1)

	if k.updateFlags(scancode) {
		return
	}

	switch {
	case k.ctrl && scancode == scLPressed:
		k.target.ClearAndRestartShell()
		return
	case k.ctrl && scancode == scCPressed:
		k.target.HaltForegroundProcess()
		return
	case k.alt && scancode == scF1Pressed:
		k.target.SwitchToTerminal(0)
		return
	case k.alt && scancode == scF2Pressed:
		k.target.SwitchToTerminal(1)
		return
	case k.alt && scancode == scF3Pressed:
		k.target.SwitchToTerminal(2)
		return
	}

	if int(scancode) >= len(scancodeLookup) {
		return
	}
	key := k.decodeKey(scancode)
	if key == 0 {
		return
	}
	k.target.PushInputByte(key)
}

// updateFlags mirrors update_flags: returns true if the scancode only
// changed modifier state and carries no printable key of its own.
func (k *Keyboard) updateFlags(scancode byte) bool {
	k.mu.Lock()
	defer k.mu.Unlock()

	switch scancode {
	case scLeftShiftPressed, scRightShiftPressed:
		k.shift = true
		return true
	case scLeftShiftReleased, scRightShiftReleased:
		k.shift = false
		return true
	case scCapsLockPressed:
		k.capsLock = !k.capsLock
		return true
	case scLeftCtrlPressed:
		k.ctrl = true
		return true
	case scLeftCtrlReleased:
		k.ctrl = false
		return true
	case scAltPressed:
		k.alt = true
		return true
	case scAltReleased:
		k.alt = false
		return true
	}
	return false
}

// decodeKey mirrors get_key: apply caps-lock/shift to the base lookup table.
func (k *Keyboard) decodeKey(scancode byte) byte {
	k.mu.Lock()
	shift, caps := k.shift, k.capsLock
	k.mu.Unlock()

	if scancode == scBackspacePressed {
		return 0x08
	}

	key := scancodeLookup[scancode]
	if key == 0 {
		return 0
	}
	if key >= 'a' && key <= 'z' && (shift || caps) {
		key = key - 'a' + 'A'
	}
	if shift {
		if up, ok := shiftedPunctuation[key]; ok {
			key = up
		}
	}
	return key
}

func (k *Keyboard) In(port uint16) uint8      { return 0 }
func (k *Keyboard) Out(port uint16, v uint8) {}

// PushHostByte delivers an already-decoded byte from a real host terminal
// (see host_tty.go) as if it had arrived from the PS/2 controller. The host
// OS's raw mode collapses Ctrl+key into the corresponding control byte
// instead of separate make/break scancodes, so Ctrl-L/Ctrl-C are recognized
// directly here rather than through updateFlags.
func (k *Keyboard) PushHostByte(b byte) {
	switch b {
	case 0x0C: // Ctrl-L
		k.target.ClearAndRestartShell()
		return
	case 0x03: // Ctrl-C
		k.target.HaltForegroundProcess()
		return
	}
	k.target.PushInputByte(b)
}
