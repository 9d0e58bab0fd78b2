// Package background prepares the static photograph every frame is
// composited over: watermark strip removed, scaled to cover, center
// cropped, and darkened with a uniform scrim for text legibility.
package background

import (
	"fmt"
	"image"

	"github.com/fogleman/gg"
	xdraw "golang.org/x/image/draw"
)

// Options control the deterministic photo preparation.
type Options struct {
	FrameWidth      int
	FrameHeight     int
	WatermarkCropPx int     // strip removed from the bottom of the source
	ScrimOpacity    float64 // 0 (no darkening) to 1 (black)
}

// Load reads the photograph from disk. A missing or undecodable file is
// a hard failure: no frame can be produced without a background.
func Load(path string) (image.Image, error) {
	img, err := gg.LoadImage(path)
	if err != nil {
		return nil, fmt.Errorf("load background %s: %w", path, err)
	}
	return img, nil
}

// Prepare produces the fixed-size opaque frame background, reused
// unchanged for every output frame.
func Prepare(src image.Image, opts Options) (*image.RGBA, error) {
	bounds := src.Bounds()
	srcW := bounds.Dx()
	srcH := bounds.Dy() - opts.WatermarkCropPx
	if srcW <= 0 || srcH <= 0 {
		return nil, fmt.Errorf("background %dx%d too small after %dpx watermark crop",
			bounds.Dx(), bounds.Dy(), opts.WatermarkCropPx)
	}

	// Scale to cover: the larger of the two ratios, then center-crop.
	// Both happen in one pass by scaling from a centered source window
	// with the frame's aspect ratio.
	frameW, frameH := opts.FrameWidth, opts.FrameHeight
	scale := maxf(float64(frameW)/float64(srcW), float64(frameH)/float64(srcH))
	winW := int(float64(frameW) / scale)
	winH := int(float64(frameH) / scale)
	if winW > srcW {
		winW = srcW
	}
	if winH > srcH {
		winH = srcH
	}
	x0 := bounds.Min.X + (srcW-winW)/2
	y0 := bounds.Min.Y + (srcH-winH)/2
	window := image.Rect(x0, y0, x0+winW, y0+winH)

	dst := image.NewRGBA(image.Rect(0, 0, frameW, frameH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, window, xdraw.Src, nil)

	applyScrim(dst, opts.ScrimOpacity)
	return dst, nil
}

// applyScrim composites a uniform black layer at the given opacity:
// out = c * (1 - opacity). Alpha stays fully opaque.
func applyScrim(img *image.RGBA, opacity float64) {
	if opacity <= 0 {
		return
	}
	keep := 1 - opacity
	if keep < 0 {
		keep = 0
	}
	// 16.16 fixed-point multiplier keeps the loop in integer math.
	mul := uint32(keep * 65536)
	pix := img.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i+0] = uint8(uint32(pix[i+0]) * mul >> 16)
		pix[i+1] = uint8(uint32(pix[i+1]) * mul >> 16)
		pix[i+2] = uint8(uint32(pix[i+2]) * mul >> 16)
		pix[i+3] = 0xff
	}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
