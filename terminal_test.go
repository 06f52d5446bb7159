package main

import "testing"

// TestPushInputByteEchoesAndBuffers verifies typed characters land both in
// the cell grid (echo) and kbuf (for the next ReadLine once Enter is hit).
func TestPushInputByteEchoesAndBuffers(t *testing.T) {
	vt := NewVirtualTerminal(0)
	for _, b := range []byte("hi\n") {
		vt.PushInputByte(b)
	}

	cells, _, _, _, _ := vt.Snapshot()
	if cells[0] != 'h' || cells[1] != 'i' {
		t.Fatalf("expected echoed 'hi', got %q%q", cells[0], cells[1])
	}

	buf := make([]byte, 16)
	n, err := vt.ReadLine(buf)
	if err != nil {
		t.Fatalf("ReadLine failed: %v", err)
	}
	if string(buf[:n]) != "hi\n" {
		t.Fatalf("ReadLine = %q, want %q", buf[:n], "hi\n")
	}
}

// TestBackspaceRemovesLastChar verifies backspace both erases the screen
// cell and drops the byte from the pending input line.
func TestBackspaceRemovesLastChar(t *testing.T) {
	vt := NewVirtualTerminal(0)
	for _, b := range []byte("ab") {
		vt.PushInputByte(b)
	}
	vt.PushInputByte(0x08) // backspace
	vt.PushInputByte('\n')

	buf := make([]byte, 16)
	n, _ := vt.ReadLine(buf)
	if string(buf[:n]) != "a\n" {
		t.Fatalf("ReadLine after backspace = %q, want %q", buf[:n], "a\n")
	}
}

// TestBackspaceOverTabErasesFourCells verifies deleting a literal tab byte
// backs the cursor up four cells instead of one, per print_key's rmc()
// called four times for a tab.
func TestBackspaceOverTabErasesFourCells(t *testing.T) {
	vt := NewVirtualTerminal(0)
	vt.PushInputByte('a')
	vt.PushInputByte('\t')
	_, _, cursorXBeforeBackspace, _, _ := vt.Snapshot()
	vt.PushInputByte(0x08)
	_, _, cursorXAfterBackspace, _, _ := vt.Snapshot()

	if cursorXBeforeBackspace-cursorXAfterBackspace != 4 {
		t.Fatalf("cursor moved back %d cells after deleting a tab, want 4",
			cursorXBeforeBackspace-cursorXAfterBackspace)
	}

	vt.PushInputByte('\n')
	buf := make([]byte, 16)
	n, _ := vt.ReadLine(buf)
	if string(buf[:n]) != "a\n" {
		t.Fatalf("ReadLine after tab+backspace = %q, want %q", buf[:n], "a\n")
	}
}

// TestKbufCapsAt127DataBytes verifies a typed line stops accepting data
// bytes once kbuf holds 127 of them, leaving room only for Enter's forced
// newline, per spec's "limit 127 data bytes + newline".
func TestKbufCapsAt127DataBytes(t *testing.T) {
	vt := NewVirtualTerminal(0)
	for i := 0; i < 200; i++ {
		vt.PushInputByte('x')
	}
	vt.PushInputByte('\n')

	buf := make([]byte, 256)
	n, _ := vt.ReadLine(buf)
	if n != 128 {
		t.Fatalf("ReadLine length = %d, want 128 (127 data bytes + newline)", n)
	}
	for i := 0; i < 127; i++ {
		if buf[i] != 'x' {
			t.Fatalf("buf[%d] = %q, want 'x'", i, buf[i])
		}
	}
	if buf[127] != '\n' {
		t.Fatalf("buf[127] = %q, want newline", buf[127])
	}
}

// TestWriteScrollsAtBottomRow verifies output past the last row scrolls the
// grid up by one line instead of writing out of bounds.
func TestWriteScrollsAtBottomRow(t *testing.T) {
	vt := NewVirtualTerminal(0)
	for i := 0; i < TermRows+1; i++ {
		vt.Write([]byte("line\n"))
	}
	cells, _, _, cursorY, _ := vt.Snapshot()
	if cursorY != TermRows-1 {
		t.Fatalf("cursorY = %d, want %d after scrolling", cursorY, TermRows-1)
	}
	if cells[0] == 0 {
		t.Fatal("top row should hold scrolled content, not be blank/uninitialized")
	}
}

// TestClearScreenResetsCursorAndInput verifies Ctrl-L's clear half wipes
// both the display and any partially typed line.
func TestClearScreenResetsCursorAndInput(t *testing.T) {
	vt := NewVirtualTerminal(0)
	vt.PushInputByte('x')
	vt.Write([]byte("hello"))
	vt.ClearScreen()

	cells, _, cursorX, cursorY, _ := vt.Snapshot()
	if cursorX != 0 || cursorY != 0 {
		t.Fatalf("cursor = (%d,%d), want (0,0) after ClearScreen", cursorX, cursorY)
	}
	if cells[0] != ' ' {
		t.Fatalf("cell (0,0) = %q, want space after ClearScreen", cells[0])
	}
}
