// Package markup tokenizes story text with reddit-style inline emphasis
// into style-tagged words. Parsing never fails: unpaired delimiters are
// kept as literal text.
package markup

import (
	"strings"
)

// StyledWord is one whitespace-delimited word with its resolved style.
// Immutable once parsed.
type StyledWord struct {
	Text          string
	Bold          bool
	Italic        bool
	Strikethrough bool
}

type style struct {
	bold, italic, strike bool
}

func (s style) union(o style) style {
	return style{
		bold:   s.bold || o.bold,
		italic: s.italic || o.italic,
		strike: s.strike || o.strike,
	}
}

type span struct {
	text string
	st   style
}

// Delimiters in longest-match order. Triple emphasis must be tried
// before double, double before single.
var delimiters = []struct {
	marker string
	st     style
}{
	{"***", style{bold: true, italic: true}},
	{"___", style{bold: true, italic: true}},
	{"**", style{bold: true}},
	{"__", style{bold: true}},
	{"~~", style{strike: true}},
	{"*", style{italic: true}},
	{"_", style{italic: true}},
}

// Parse tokenizes one paragraph into styled words. Whitespace is the
// sole word boundary; punctuation stays attached to its word.
func Parse(paragraph string) []StyledWord {
	cleaned := stripAnnotations(paragraph)
	spans := parseSpans(cleaned)
	return splitWords(spans)
}

// SplitParagraphs splits a story body on blank-line separators.
// Runs of whitespace-only lines count as one separator. Empty body
// yields zero paragraphs.
func SplitParagraphs(body string) []string {
	lines := strings.Split(strings.ReplaceAll(body, "\r\n", "\n"), "\n")
	var paras []string
	var current []string
	flush := func() {
		if len(current) > 0 {
			paras = append(paras, strings.Join(current, " "))
			current = nil
		}
	}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		current = append(current, strings.TrimSpace(line))
	}
	flush()
	return paras
}

// Flatten rejoins parsed words into plain text, dropping all styling.
// Used for narration text and round-trip checks.
func Flatten(words []StyledWord) string {
	parts := make([]string, len(words))
	for i, w := range words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// PlainWords splits plain text into unstyled words, for blocks that
// carry no markup (titles, author credit, call to action).
func PlainWords(text string) []StyledWord {
	fields := strings.Fields(text)
	words := make([]StyledWord, len(fields))
	for i, f := range fields {
		words[i] = StyledWord{Text: f}
	}
	return words
}

// stripAnnotations removes superscript markers (^word and ^(...)) and
// backtick span markers, keeping their content unstyled. Superscript
// parenthesized groups drop the parentheses as well.
func stripAnnotations(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c == '`' {
			continue
		}
		if c == '^' {
			if i+1 < len(s) && s[i+1] == '(' {
				if j := strings.IndexByte(s[i+2:], ')'); j >= 0 {
					b.WriteString(s[i+2 : i+2+j])
					i = i + 2 + j
					continue
				}
			}
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// parseSpans scans the paragraph once, tracking a stack of open
// delimiters. A marker closes the matching open delimiter, opens a new
// run when the same marker occurs again later in the text, and stays
// literal otherwise. The active style is the union of the open stack.
func parseSpans(text string) []span {
	var spans []span
	var lit strings.Builder
	var stack []string

	current := func() style {
		var st style
		for _, m := range stack {
			for _, d := range delimiters {
				if d.marker == m {
					st = st.union(d.st)
					break
				}
			}
		}
		return st
	}

	flush := func() {
		if lit.Len() > 0 {
			spans = append(spans, span{text: lit.String(), st: current()})
			lit.Reset()
		}
	}

	for i := 0; i < len(text); {
		var marker string
		for _, d := range delimiters {
			if strings.HasPrefix(text[i:], d.marker) {
				marker = d.marker
				break
			}
		}
		if marker == "" {
			lit.WriteByte(text[i])
			i++
			continue
		}

		rest := text[i+len(marker):]
		switch {
		case len(stack) > 0 && stack[len(stack)-1] == marker:
			flush()
			stack = stack[:len(stack)-1]
			i += len(marker)
		case strings.Contains(rest, marker):
			flush()
			stack = append(stack, marker)
			i += len(marker)
		default:
			// Unpaired delimiter: literal text.
			lit.WriteString(marker)
			i += len(marker)
		}
	}
	flush()
	return spans
}

// splitWords breaks styled spans into whitespace-delimited words. A word
// that crosses span boundaries (e.g. un*believ*able) takes the union of
// the styles it touches.
func splitWords(spans []span) []StyledWord {
	var words []StyledWord
	var cur strings.Builder
	var cst style
	open := false

	flush := func() {
		if open && cur.Len() > 0 {
			words = append(words, StyledWord{
				Text:          cur.String(),
				Bold:          cst.bold,
				Italic:        cst.italic,
				Strikethrough: cst.strike,
			})
		}
		cur.Reset()
		cst = style{}
		open = false
	}

	for _, sp := range spans {
		for _, r := range sp.text {
			if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
				flush()
				continue
			}
			cur.WriteRune(r)
			cst = cst.union(sp.st)
			open = true
		}
	}
	flush()
	return words
}
