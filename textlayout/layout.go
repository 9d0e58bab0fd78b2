package textlayout

import "storyscroll/markup"

// Params are the layout knobs, all in pixels except LineSpacing.
type Params struct {
	FrameWidth  int
	FrameHeight int
	PaddingX    int
	LineSpacing float64

	TitleAuthorGapPx int
	ParagraphGapPx   int
	CTAGapPx         int
	CTAText          string
}

// DocumentLayout is the full vertical plan for one story. Computed once,
// immutable afterward. The call-to-action center is the single source of
// truth for where scrolling stops.
type DocumentLayout struct {
	Title      []Line
	Author     []Line
	Paragraphs [][]Line
	CTA        []Line

	FrameWidth  int
	FrameHeight int
	PaddingX    int

	TitleLineH   int
	BodyLineH    int
	ParagraphGap int

	TitleY      int
	AuthorY     int
	BodyStartY  int
	CTATopY     int
	CTACenterY  int
	TotalHeight int
}

// Layout computes the document plan: title card centered in the first
// frame-height, body starting exactly one frame-height down so it
// scrolls in, paragraphs stacked with fixed gaps, the call-to-action
// after the last paragraph, and a trailing blank frame-height so the
// scroll can settle.
func Layout(title, author, body string, titleFonts, bodyFonts *FontSet, p Params) *DocumentLayout {
	drawWidth := float64(p.FrameWidth - 2*p.PaddingX)

	d := &DocumentLayout{
		FrameWidth:   p.FrameWidth,
		FrameHeight:  p.FrameHeight,
		PaddingX:     p.PaddingX,
		TitleLineH:   titleFonts.LineHeight(p.LineSpacing),
		BodyLineH:    bodyFonts.LineHeight(p.LineSpacing),
		ParagraphGap: p.ParagraphGapPx,
	}

	d.Title = WrapWords(markup.PlainWords(title), titleFonts, drawWidth)
	if author != "" {
		d.Author = WrapWords(markup.PlainWords("by "+author), bodyFonts, drawWidth)
	}
	for _, para := range markup.SplitParagraphs(body) {
		lines := WrapWords(markup.Parse(para), bodyFonts, drawWidth)
		if len(lines) > 0 {
			d.Paragraphs = append(d.Paragraphs, lines)
		}
	}
	d.CTA = WrapWords(markup.PlainWords(p.CTAText), bodyFonts, drawWidth)

	titleBlockH := len(d.Title) * d.TitleLineH
	headerH := titleBlockH
	if len(d.Author) > 0 {
		headerH += p.TitleAuthorGapPx + len(d.Author)*d.BodyLineH
	}

	d.TitleY = (p.FrameHeight - headerH) / 2
	if d.TitleY < 0 {
		d.TitleY = 0
	}
	d.AuthorY = d.TitleY + titleBlockH + p.TitleAuthorGapPx

	d.BodyStartY = p.FrameHeight

	bodyH := 0
	for i, para := range d.Paragraphs {
		if i > 0 {
			bodyH += p.ParagraphGapPx
		}
		bodyH += len(para) * d.BodyLineH
	}

	ctaBlockH := len(d.CTA) * d.BodyLineH
	d.CTATopY = d.BodyStartY + bodyH + p.CTAGapPx
	d.CTACenterY = d.CTATopY + ctaBlockH/2
	d.TotalHeight = d.CTATopY + ctaBlockH + p.FrameHeight

	return d
}

// MaxScrollPx is the scroll distance that centers the call-to-action
// in the viewport, clamped to zero for content shorter than the frame.
func (d *DocumentLayout) MaxScrollPx() int {
	m := d.CTACenterY - d.FrameHeight/2
	if m < 0 {
		return 0
	}
	return m
}
