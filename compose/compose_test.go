package compose

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// newTestCompositor paints the layer before constructing the
// Compositor; New snapshots the alpha plane, so all painting must
// happen first.
func newTestCompositor(t *testing.T, bg color.RGBA, layerH int, paint func(*image.RGBA)) *Compositor {
	t.Helper()
	back := solid(64, 48, bg)
	layer := image.NewRGBA(image.Rect(0, 0, 64, layerH))
	if paint != nil {
		paint(layer)
	}
	c, err := New(back, layer)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestFrame_TransparentLayerShowsBackground(t *testing.T) {
	bg := color.RGBA{30, 60, 90, 255}
	c := newTestCompositor(t, bg, 200, nil)

	frame := c.Frame(0)
	got := frame.RGBAAt(10, 10)
	if got != bg {
		t.Errorf("transparent pixel composited to %v, want background %v", got, bg)
	}
}

func TestFrame_OpaquePixelShowsLayerColor(t *testing.T) {
	fg := color.RGBA{200, 10, 10, 255}
	c := newTestCompositor(t, color.RGBA{30, 60, 90, 255}, 200, func(layer *image.RGBA) {
		layer.SetRGBA(5, 100, fg)
	})

	frame := c.Frame(100) // row 100 of the layer is row 0 of the frame
	got := frame.RGBAAt(5, 0)
	if got != fg {
		t.Errorf("opaque pixel composited to %v, want foreground %v", got, fg)
	}
}

func TestFrame_SemiTransparentBlend(t *testing.T) {
	c := newTestCompositor(t, color.RGBA{100, 100, 100, 255}, 200, func(layer *image.RGBA) {
		// Premultiplied half-opacity white: color 128 at alpha 128.
		layer.SetRGBA(0, 0, color.RGBA{128, 128, 128, 128})
	})

	frame := c.Frame(0)
	got := frame.RGBAAt(0, 0)
	// 128 + 100*(127/255) ≈ 178
	if got.R < 176 || got.R > 180 {
		t.Errorf("blended value = %d, want ~178", got.R)
	}
	if got.A != 255 {
		t.Errorf("output alpha = %d, want opaque", got.A)
	}
}

func TestFrame_OffsetClamped(t *testing.T) {
	c := newTestCompositor(t, color.RGBA{0, 0, 0, 255}, 200, func(layer *image.RGBA) {
		layer.SetRGBA(3, 199, color.RGBA{255, 255, 255, 255})
	})

	max := c.MaxOffset()
	atMax := c.Frame(max)
	past := c.Frame(max + 1)
	farPast := c.Frame(max + 5000)

	if !bytes.Equal(atMax.Pix, past.Pix) {
		t.Error("Frame(max+1) differs from Frame(max); offset not clamped")
	}
	if !bytes.Equal(atMax.Pix, farPast.Pix) {
		t.Error("Frame(max+5000) differs from Frame(max); offset not clamped")
	}
	if neg := c.Frame(-10); !bytes.Equal(neg.Pix, c.Frame(0).Pix) {
		t.Error("negative offset not clamped to zero")
	}
}

func TestFrame_Deterministic(t *testing.T) {
	c := newTestCompositor(t, color.RGBA{40, 40, 40, 255}, 300, func(layer *image.RGBA) {
		layer.SetRGBA(8, 120, color.RGBA{90, 0, 0, 180})
	})

	a := c.Frame(77)
	b := c.Frame(77)
	if !bytes.Equal(a.Pix, b.Pix) {
		t.Error("identical offsets produced different frames")
	}
}

func TestNew_RejectsMismatchedWidth(t *testing.T) {
	back := solid(64, 48, color.RGBA{0, 0, 0, 255})
	layer := image.NewRGBA(image.Rect(0, 0, 32, 200))
	if _, err := New(back, layer); err == nil {
		t.Error("expected error for mismatched widths")
	}
}

func TestNew_RejectsShortLayer(t *testing.T) {
	back := solid(64, 48, color.RGBA{0, 0, 0, 255})
	layer := image.NewRGBA(image.Rect(0, 0, 64, 20))
	if _, err := New(back, layer); err == nil {
		t.Error("expected error for layer shorter than frame")
	}
}
