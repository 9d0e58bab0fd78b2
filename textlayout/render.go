package textlayout

import (
	"image"

	"github.com/fogleman/gg"
)

// Colors are hex strings ("#rrggbb") per text block.
type Colors struct {
	Title string
	Body  string
	CTA   string
}

// RenderLayer draws the document onto a transparent canvas of size
// (frameWidth, totalHeight). Only glyph pixels carry opacity; the rest
// stays fully transparent so the compositor can blend it over the
// background. Read-only after this call.
func RenderLayer(d *DocumentLayout, titleFonts, bodyFonts *FontSet, colors Colors) *image.RGBA {
	dc := gg.NewContext(d.FrameWidth, d.TotalHeight)

	dc.SetHexColor(colors.Title)
	drawBlock(dc, d.Title, titleFonts, d, d.TitleY, d.TitleLineH, true)

	dc.SetHexColor(colors.Body)
	drawBlock(dc, d.Author, bodyFonts, d, d.AuthorY, d.BodyLineH, true)

	y := d.BodyStartY
	for _, para := range d.Paragraphs {
		drawBlock(dc, para, bodyFonts, d, y, d.BodyLineH, false)
		y += len(para)*d.BodyLineH + d.ParagraphGap
	}

	dc.SetHexColor(colors.CTA)
	drawBlock(dc, d.CTA, bodyFonts, d, d.CTATopY, d.BodyLineH, true)

	return dc.Image().(*image.RGBA)
}

func drawBlock(dc *gg.Context, lines []Line, fs *FontSet, d *DocumentLayout, topY, lineH int, centered bool) {
	for i, line := range lines {
		baseline := float64(topY+i*lineH) + fs.Ascent()
		x := float64(d.PaddingX)
		if centered {
			x = (float64(d.FrameWidth) - line.Width) / 2
		}
		for _, w := range line.Words {
			dc.SetFontFace(fs.Face(w))
			dc.DrawString(w.Text, x, baseline)
			ww := fs.WordWidth(w)
			if w.Strikethrough {
				strikeY := baseline - fs.Size*0.27
				dc.SetLineWidth(maxf(1, fs.Size/14))
				dc.DrawLine(x, strikeY, x+ww, strikeY)
				dc.Stroke()
			}
			x += ww + fs.SpaceWidth()
		}
	}
}

func maxf(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
