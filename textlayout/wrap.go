package textlayout

import "storyscroll/markup"

// Line is an ordered run of styled words that fits the draw width.
// Width is the measured pixel width including inter-word spaces.
type Line struct {
	Words []markup.StyledWord
	Width float64
}

// WrapWords packs words greedily into lines no wider than maxWidth.
// The inter-word gap is always the regular face's space width. A single
// word wider than maxWidth gets its own line; words are never split.
// Empty input yields zero lines.
func WrapWords(words []markup.StyledWord, fs *FontSet, maxWidth float64) []Line {
	var lines []Line
	var cur Line

	for _, w := range words {
		ww := fs.WordWidth(w)
		candidate := ww
		if len(cur.Words) > 0 {
			candidate = cur.Width + fs.SpaceWidth() + ww
		}
		if len(cur.Words) > 0 && candidate > maxWidth {
			lines = append(lines, cur)
			cur = Line{}
			candidate = ww
		}
		cur.Words = append(cur.Words, w)
		cur.Width = candidate
	}
	if len(cur.Words) > 0 {
		lines = append(lines, cur)
	}
	return lines
}
