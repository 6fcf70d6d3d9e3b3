// internal/layout/lines.go
package layout

import (
	"math"
	"sort"
	"strings"
)

// DefaultPrecision rounds token tops to one decimal digit before grouping.
const DefaultPrecision = 1

// Line is one reconstructed text line: the rounded vertical anchor it was
// clustered on and the space-joined text of its tokens in reading order.
type Line struct {
	Y      float64 `json:"y"`
	Text   string  `json:"text"`
	Tokens []Token `json:"-"`
}

// bucket gathers the tokens that share a rounded top.
type bucket struct {
	key    float64
	minTop float64
	maxTop float64
	tokens []Token
}

// Round rounds v to the given number of decimal digits.
func Round(v float64, precision int) float64 {
	if precision < 0 {
		precision = 0
	}
	scale := math.Pow(10, float64(precision))
	return math.Round(v*scale) / scale
}

// Reconstruct groups tokens into lines and returns them top to bottom.
//
// Tokens whose tops round to the same value at the given precision always
// share a line. Neighbouring rounded values are merged too while the merged
// line spans no more than one rounding step, so two glyphs that sit on
// the same printed line but straddle a rounding boundary (100.04 and 100.06
// at one decimal) are not split apart. Within a line tokens are ordered by
// their left edge; ties keep input order.
func Reconstruct(tokens []Token, precision int) []Line {
	if len(tokens) == 0 {
		return []Line{}
	}
	if precision < 0 {
		precision = DefaultPrecision
	}
	step := math.Pow(10, -float64(precision))

	index := make(map[float64]*bucket)
	for _, tok := range tokens {
		key := Round(tok.Top, precision)
		b, ok := index[key]
		if !ok {
			b = &bucket{key: key, minTop: tok.Top, maxTop: tok.Top}
			index[key] = b
		}
		b.tokens = append(b.tokens, tok)
		b.minTop = math.Min(b.minTop, tok.Top)
		b.maxTop = math.Max(b.maxTop, tok.Top)
	}

	buckets := make([]*bucket, 0, len(index))
	for _, b := range index {
		buckets = append(buckets, b)
	}
	sort.Slice(buckets, func(i, j int) bool { return buckets[i].key < buckets[j].key })

	var lines []Line
	current := buckets[0]
	group := append([]Token(nil), current.tokens...)
	anchor := current.key
	groupMin := current.minTop
	for _, b := range buckets[1:] {
		// The whole line spans at most one step; the epsilon absorbs float error.
		if b.maxTop-groupMin <= step+1e-9 {
			group = append(group, b.tokens...)
			continue
		}
		lines = append(lines, newLine(anchor, group))
		group = append([]Token(nil), b.tokens...)
		anchor = b.key
		groupMin = b.minTop
	}
	lines = append(lines, newLine(anchor, group))
	return lines
}

func newLine(y float64, tokens []Token) Line {
	sort.SliceStable(tokens, func(i, j int) bool { return tokens[i].X0 < tokens[j].X0 })
	words := make([]string, 0, len(tokens))
	for _, tok := range tokens {
		words = append(words, tok.Text)
	}
	return Line{Y: y, Text: strings.Join(words, " "), Tokens: tokens}
}

// JoinLines concatenates the text of lines with newline separators.
func JoinLines(lines []Line) string {
	texts := make([]string, 0, len(lines))
	for _, line := range lines {
		texts = append(texts, line.Text)
	}
	return strings.Join(texts, "\n")
}

// ColumnText reconstructs a column and returns its lines joined by newlines.
func ColumnText(tokens []Token, precision int) string {
	return JoinLines(Reconstruct(tokens, precision))
}
