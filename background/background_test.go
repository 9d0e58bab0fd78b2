package background

import (
	"image"
	"image/color"
	"testing"
)

func solidImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

func TestPrepare_OutputDimensions(t *testing.T) {
	src := solidImage(2000, 3000, color.RGBA{100, 120, 140, 255})
	got, err := Prepare(src, Options{FrameWidth: 1080, FrameHeight: 1920, ScrimOpacity: 0})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	b := got.Bounds()
	if b.Dx() != 1080 || b.Dy() != 1920 {
		t.Errorf("prepared size = %dx%d, want 1080x1920", b.Dx(), b.Dy())
	}
}

func TestPrepare_CoversFromWideSource(t *testing.T) {
	// Landscape source must still fully cover the portrait frame.
	src := solidImage(4000, 2000, color.RGBA{80, 80, 80, 255})
	got, err := Prepare(src, Options{FrameWidth: 1080, FrameHeight: 1920, ScrimOpacity: 0})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	// Every output pixel must be opaque and carry the source color.
	for _, pt := range []image.Point{{0, 0}, {1079, 0}, {0, 1919}, {539, 960}} {
		c := got.RGBAAt(pt.X, pt.Y)
		if c.A != 255 {
			t.Errorf("pixel %v alpha = %d, want 255", pt, c.A)
		}
		if c.R < 70 || c.R > 90 {
			t.Errorf("pixel %v = %v, want close to source grey", pt, c)
		}
	}
}

func TestPrepare_ScrimDarkens(t *testing.T) {
	src := solidImage(1080, 1920, color.RGBA{200, 200, 200, 255})
	got, err := Prepare(src, Options{FrameWidth: 1080, FrameHeight: 1920, ScrimOpacity: 0.5})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	c := got.RGBAAt(540, 960)
	if c.R < 95 || c.R > 105 {
		t.Errorf("scrimmed value = %d, want ~100 (200 * 0.5)", c.R)
	}
	if c.A != 255 {
		t.Errorf("scrim changed alpha to %d, want opaque", c.A)
	}
}

func TestPrepare_WatermarkCrop(t *testing.T) {
	// Bottom strip is red; after cropping it must not appear in output.
	src := solidImage(1080, 2000, color.RGBA{50, 50, 50, 255})
	for y := 1900; y < 2000; y++ {
		for x := 0; x < 1080; x++ {
			src.SetRGBA(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	got, err := Prepare(src, Options{FrameWidth: 1080, FrameHeight: 1920, WatermarkCropPx: 100})
	if err != nil {
		t.Fatalf("Prepare: %v", err)
	}
	for y := 1900; y < 1920; y += 5 {
		c := got.RGBAAt(540, y)
		if c.R > 100 {
			t.Errorf("watermark strip leaked into output at y=%d: %v", y, c)
		}
	}
}

func TestPrepare_TooSmallAfterCrop(t *testing.T) {
	src := solidImage(100, 80, color.RGBA{0, 0, 0, 255})
	if _, err := Prepare(src, Options{FrameWidth: 1080, FrameHeight: 1920, WatermarkCropPx: 90}); err == nil {
		t.Error("expected error for source smaller than watermark crop")
	}
}
