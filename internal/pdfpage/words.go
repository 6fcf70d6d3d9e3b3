// internal/pdfpage/words.go
package pdfpage

import (
	"math"
	"strings"
	"unicode"

	"github.com/ledongthuc/pdf"

	"github.com/mwiater/cryptic/internal/layout"
)

// xTolerance is the largest horizontal gap, in points, between two glyphs of
// the same word. yTolerance bounds baseline drift within a word.
const (
	xTolerance = 3.0
	yTolerance = 3.0
)

type word struct {
	text  strings.Builder
	x0    float64
	end   float64
	y     float64
	top   float64
	empty bool
}

// Words groups glyph runs, in content-stream order, into whitespace
// separated words. pageHeight flips PDF's bottom-left origin so that Top
// grows downwards.
func Words(texts []pdf.Text, pageHeight float64) []layout.Token {
	var tokens []layout.Token
	cur := &word{empty: true}

	flush := func() {
		if !cur.empty {
			if s := strings.TrimSpace(cur.text.String()); s != "" {
				tokens = append(tokens, layout.Token{Text: s, X0: cur.x0, Top: cur.top})
			}
		}
		cur = &word{empty: true}
	}

	for _, t := range texts {
		if isSpace(t.S) {
			flush()
			continue
		}
		top := pageHeight - t.Y - t.FontSize
		if !cur.empty {
			sameBaseline := math.Abs(t.Y-cur.y) <= yTolerance
			gap := t.X - cur.end
			if !sameBaseline || gap > xTolerance || gap < -t.FontSize {
				flush()
			}
		}
		if cur.empty {
			cur.x0 = t.X
			cur.y = t.Y
			cur.top = top
			cur.empty = false
		}
		cur.text.WriteString(t.S)
		cur.end = t.X + t.W
		cur.top = math.Min(cur.top, top)
	}
	flush()
	if tokens == nil {
		return []layout.Token{}
	}
	return tokens
}

func isSpace(s string) bool {
	if s == "" {
		return true
	}
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
