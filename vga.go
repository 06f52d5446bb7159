// vga.go - VGA text-mode composite device and backend abstraction
//
// The backend interface is trimmed from video_interface.go's VideoOutput:
// this kernel only ever emits whole RGBA frames of its own text-mode
// rendering, so the sprite/texture/palette/scanline-aware extension
// interfaces that the original multi-chip compositor needed are dropped.
// VGA composites whichever VirtualTerminal is visible into an RGBA
// framebuffer, the way video_terminal.go rendered glyph cells onto a
// VideoChip front buffer, then hands the frame to a VideoOutput backend.
// Glyph shapes come from golang.org/x/image/font/basicfont's built-in 7x13
// ASCII face rather than an embedded bitmap asset, since the Topaz font
// binary the teacher embeds never shipped in this retrieval pack.
package main

import (
	"fmt"
	"time"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	glyphWidth  = 8 // basicfont.Face7x13 advances 7px; pad one column for cell spacing
	glyphHeight = 13
)

// glyphBitmap renders ch's basicfont mask into an 8-bit-per-row bitmap
// (MSB = leftmost pixel), matching the bit layout the teacher's
// video_terminal.go glyph blitter expects. basicfont.Face7x13.Glyph
// allocates its own sub-image each call, so results are cached.
var glyphCache = map[byte][glyphHeight]byte{}

func glyphBitmap(ch byte) [glyphHeight]byte {
	if bmp, ok := glyphCache[ch]; ok {
		return bmp
	}
	var bmp [glyphHeight]byte
	dot := fixed.P(0, glyphHeight-3) // baseline near the bottom of the cell
	dr, mask, maskp, _, ok := basicfont.Face7x13.Glyph(dot, rune(ch))
	if ok {
		for y := dr.Min.Y; y < dr.Max.Y && y < glyphHeight; y++ {
			var row byte
			for x := dr.Min.X; x < dr.Max.X && x < 8; x++ {
				_, _, _, a := mask.At(maskp.X+(x-dr.Min.X), maskp.Y+(y-dr.Min.Y)).RGBA()
				if a != 0 {
					row |= 0x80 >> uint(x-dr.Min.X)
				}
			}
			if y >= 0 {
				bmp[y] = row
			}
		}
	}
	glyphCache[ch] = bmp
	return bmp
}

// VideoError mirrors video_interface.go's error type for backend failures.
type VideoError struct {
	Operation string
	Details   string
	Err       error
}

func (e *VideoError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("video %s failed: %s: %v", e.Operation, e.Details, e.Err)
	}
	return fmt.Sprintf("video %s failed: %s", e.Operation, e.Details)
}

type PixelFormat int

const PixelFormatRGBA PixelFormat = 0

// DisplayConfig is hardware-independent backend configuration.
type DisplayConfig struct {
	Width       int
	Height      int
	Scale       int
	RefreshRate int
	PixelFormat PixelFormat
	VSync       bool
	Fullscreen  bool
}

func ClampScale(s int) int {
	if s < 1 {
		return 1
	}
	if s > 4 {
		return 4
	}
	return s
}

// VideoOutput is the minimal surface a display backend must implement.
type VideoOutput interface {
	Start() error
	Stop() error
	Close() error
	IsStarted() bool

	SetDisplayConfig(config DisplayConfig) error
	GetDisplayConfig() DisplayConfig
	UpdateFrame(buffer []byte) error

	WaitForVSync() error
	GetFrameCount() uint64
	GetRefreshRate() int

	SetKeyHandler(func(byte))
}

const VideoBackendEbiten = iota

// NewVideoOutput resolves to the Ebiten backend by default, or the no-op
// headless backend when built with -tags headless (see
// vga_backend_ebiten.go / vga_backend_headless.go), matching the teacher's
// build-tag-selected backend swap.
func NewVideoOutput(backend int) (VideoOutput, error) {
	switch backend {
	case VideoBackendEbiten:
		return newVGABackend()
	}
	return nil, &VideoError{Operation: "backend creation", Details: fmt.Sprintf("unknown backend %d", backend)}
}

// VGA composites the visible terminal into an RGBA framebuffer at a fixed
// 80x25 text-mode resolution and pushes it to a VideoOutput backend, the
// way a real VGA adapter scans 0xB8000 out to the monitor every frame.
type VGA struct {
	terminals []*VirtualTerminal
	backend   VideoOutput

	fgColor uint32
	bgColor uint32

	frame []byte
	done  chan struct{}
}

func NewVGA(terminals []*VirtualTerminal, backend VideoOutput) *VGA {
	width := TermCols * glyphWidth
	height := TermRows * glyphHeight
	v := &VGA{
		terminals: terminals,
		backend:   backend,
		fgColor:   0xFFC0C0C0,
		bgColor:   0xFF000000,
		frame:     make([]byte, width*height*4),
		done:      make(chan struct{}),
	}
	backend.SetDisplayConfig(DisplayConfig{
		Width: width, Height: height, Scale: 2,
		RefreshRate: 60, PixelFormat: PixelFormatRGBA, VSync: true,
	})
	return v
}

// Start begins the render loop, redrawing whichever terminal is visible at
// a fixed 60Hz - the host-side analogue of the VGA's own scan timing.
func (v *VGA) Start() error {
	if err := v.backend.Start(); err != nil {
		return err
	}
	go func() {
		ticker := time.NewTicker(time.Second / 60)
		defer ticker.Stop()
		for {
			select {
			case <-v.done:
				return
			case <-ticker.C:
				v.renderFrame()
			}
		}
	}()
	return nil
}

func (v *VGA) Stop() error {
	close(v.done)
	return v.backend.Stop()
}

func (v *VGA) renderFrame() {
	var term *VirtualTerminal
	for _, t := range v.terminals {
		if t.IsVisible() {
			term = t
			break
		}
	}
	if term == nil {
		return
	}

	cells, _, cursorX, cursorY, cursorOn := term.Snapshot()
	width := TermCols * glyphWidth
	for row := 0; row < TermRows; row++ {
		for col := 0; col < TermCols; col++ {
			ch := cells[row*TermCols+col]
			if ch == 0 {
				ch = ' '
			}
			inverse := cursorOn && col == cursorX && row == cursorY
			v.blitGlyph(col*glyphWidth, row*glyphHeight, width, ch, inverse)
		}
	}
	v.backend.UpdateFrame(v.frame)
}

func (v *VGA) blitGlyph(x, y, stride int, ch byte, inverse bool) {
	bmp := glyphBitmap(ch)
	fg, bg := v.fgColor, v.bgColor
	if inverse {
		fg, bg = bg, fg
	}
	for gy := 0; gy < glyphHeight; gy++ {
		rowBits := bmp[gy]
		dst := ((y+gy)*stride + x) * 4
		for gx := 0; gx < glyphWidth; gx++ {
			color := bg
			if rowBits&(0x80>>uint(gx)) != 0 {
				color = fg
			}
			off := dst + gx*4
			if off < 0 || off+4 > len(v.frame) {
				continue
			}
			v.frame[off] = byte(color)
			v.frame[off+1] = byte(color >> 8)
			v.frame[off+2] = byte(color >> 16)
			v.frame[off+3] = byte(color >> 24)
		}
	}
}
