//go:build headless

// vga_backend_headless.go - No-op display backend for headless test/CI runs
//
// Adapted from video_backend_headless.go: same no-op Start/Stop/UpdateFrame
// bookkeeping, with SetKeyHandler added since VideoOutput now requires it.
package main

import "sync/atomic"

type vgaHeadlessBackend struct {
	started     bool
	config      DisplayConfig
	frameCount  uint64
	refreshRate int
	keyHandler  func(byte)
}

func newVGABackend() (VideoOutput, error) {
	return &vgaHeadlessBackend{refreshRate: 60}, nil
}

// newInputBridge wires the real host terminal into the simulated keyboard
// controller, since a headless build has no GUI window to capture keys for
// it.
func newInputBridge(kb *Keyboard) inputBridge {
	return NewHostTTY(kb)
}

func (h *vgaHeadlessBackend) Start() error {
	h.started = true
	return nil
}

func (h *vgaHeadlessBackend) Stop() error {
	h.started = false
	return nil
}

func (h *vgaHeadlessBackend) Close() error {
	h.started = false
	return nil
}

func (h *vgaHeadlessBackend) IsStarted() bool {
	return h.started
}

func (h *vgaHeadlessBackend) SetDisplayConfig(config DisplayConfig) error {
	h.config = config
	return nil
}

func (h *vgaHeadlessBackend) GetDisplayConfig() DisplayConfig {
	return h.config
}

func (h *vgaHeadlessBackend) UpdateFrame(buffer []byte) error {
	atomic.AddUint64(&h.frameCount, 1)
	return nil
}

func (h *vgaHeadlessBackend) WaitForVSync() error {
	return nil
}

func (h *vgaHeadlessBackend) GetFrameCount() uint64 {
	return atomic.LoadUint64(&h.frameCount)
}

func (h *vgaHeadlessBackend) GetRefreshRate() int {
	if h.refreshRate == 0 {
		return 60
	}
	return h.refreshRate
}

func (h *vgaHeadlessBackend) SetKeyHandler(fn func(byte)) {
	h.keyHandler = fn
}
