// Package compose blends a frame-height slice of the tall text layer
// over the static background. Alpha planes are precomputed once so the
// per-frame work is a single integer pass.
package compose

import (
	"fmt"
	"image"
)

// Compositor owns the two read-only buffers and the precomputed alpha
// and inverse-alpha planes of the text layer. Safe for concurrent use:
// nothing is mutated after New.
type Compositor struct {
	bg   *image.RGBA
	text *image.RGBA
	inv  []uint8 // 255 - alpha, per text-layer pixel

	frameW, frameH int
	totalH         int
}

// New validates buffer shapes and precomputes the inverse-alpha plane.
// The text layer is premultiplied (as drawn), so blending needs only
// out = text + bg * inv / 255 per channel.
func New(bg, textLayer *image.RGBA) (*Compositor, error) {
	bb := bg.Bounds()
	tb := textLayer.Bounds()
	if bb.Dx() != tb.Dx() {
		return nil, fmt.Errorf("background width %d != text layer width %d", bb.Dx(), tb.Dx())
	}
	if tb.Dy() < bb.Dy() {
		return nil, fmt.Errorf("text layer height %d shorter than frame height %d", tb.Dy(), bb.Dy())
	}

	c := &Compositor{
		bg:     bg,
		text:   textLayer,
		frameW: bb.Dx(),
		frameH: bb.Dy(),
		totalH: tb.Dy(),
	}

	c.inv = make([]uint8, tb.Dx()*tb.Dy())
	for y := 0; y < tb.Dy(); y++ {
		row := textLayer.Pix[y*textLayer.Stride:]
		for x := 0; x < tb.Dx(); x++ {
			c.inv[y*tb.Dx()+x] = 255 - row[x*4+3]
		}
	}
	return c, nil
}

// MaxOffset is the largest valid scroll offset.
func (c *Compositor) MaxOffset() int {
	return c.totalH - c.frameH
}

// Frame composites the slice starting at offsetPx over the background
// and returns a fresh opaque frame. Offsets are clamped to the valid
// range, so requests past the end repeat the final frame.
func (c *Compositor) Frame(offsetPx int) *image.RGBA {
	if offsetPx < 0 {
		offsetPx = 0
	}
	if max := c.MaxOffset(); offsetPx > max {
		offsetPx = max
	}

	out := image.NewRGBA(image.Rect(0, 0, c.frameW, c.frameH))
	for y := 0; y < c.frameH; y++ {
		bgRow := c.bg.Pix[y*c.bg.Stride : y*c.bg.Stride+c.frameW*4]
		txRow := c.text.Pix[(offsetPx+y)*c.text.Stride : (offsetPx+y)*c.text.Stride+c.frameW*4]
		invRow := c.inv[(offsetPx+y)*c.frameW : (offsetPx+y+1)*c.frameW]
		outRow := out.Pix[y*out.Stride : y*out.Stride+c.frameW*4]
		for x := 0; x < c.frameW; x++ {
			inv := uint32(invRow[x])
			i := x * 4
			outRow[i+0] = uint8(uint32(txRow[i+0]) + (uint32(bgRow[i+0])*inv+127)/255)
			outRow[i+1] = uint8(uint32(txRow[i+1]) + (uint32(bgRow[i+1])*inv+127)/255)
			outRow[i+2] = uint8(uint32(txRow[i+2]) + (uint32(bgRow[i+2])*inv+127)/255)
			outRow[i+3] = 0xff
		}
	}
	return out
}
