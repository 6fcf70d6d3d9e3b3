// internal/layout/columns.go
package layout

// DefaultBoundaryRatio places the column boundary at the horizontal midpoint
// of the page, which is where the source puzzles print their gutter.
const DefaultBoundaryRatio = 0.5

// Columns holds the tokens of a page partitioned into its two clue columns.
// Across clues are printed in the left column and down clues in the right.
type Columns struct {
	Across []Token
	Down   []Token
}

// Split assigns every token whose left edge lies strictly left of boundary
// to the across column and every other token to the down column. Tokens keep
// their input order within a column. No token is dropped or duplicated.
func Split(tokens []Token, boundary float64) Columns {
	cols := Columns{
		Across: make([]Token, 0, len(tokens)/2),
		Down:   make([]Token, 0, len(tokens)/2),
	}
	for _, tok := range tokens {
		if tok.X0 < boundary {
			cols.Across = append(cols.Across, tok)
		} else {
			cols.Down = append(cols.Down, tok)
		}
	}
	return cols
}

// SplitPage splits tokens at ratio × pageWidth. A ratio outside (0, 1) falls
// back to DefaultBoundaryRatio.
func SplitPage(tokens []Token, pageWidth, ratio float64) Columns {
	if ratio <= 0 || ratio >= 1 {
		ratio = DefaultBoundaryRatio
	}
	return Split(tokens, pageWidth*ratio)
}

// Len returns the total number of tokens across both columns.
func (c Columns) Len() int {
	return len(c.Across) + len(c.Down)
}
