// internal/clues/extract.go
package clues

import "github.com/mwiater/cryptic/internal/layout"

// Options configures Extract. DefaultOptions matches the print layout of
// the source puzzles.
type Options struct {
	BoundaryRatio    float64
	Precision        int
	StrictLineStarts bool
	Metadata         MetadataOptions
}

// DefaultOptions returns the options used by the command line tools.
func DefaultOptions() Options {
	return Options{
		BoundaryRatio:    layout.DefaultBoundaryRatio,
		Precision:        layout.DefaultPrecision,
		StrictLineStarts: true,
		Metadata: MetadataOptions{
			Lines:    DefaultMetadataLines,
			Keywords: DefaultPuzzleKeywords,
		},
	}
}

// ColumnTexts is the reconstructed text of each column, kept for debugging.
type ColumnTexts struct {
	Across string
	Down   string
}

// Extract runs the column splitter, line reconstructor and clue tokenizer
// over one page and returns its ClueSet. A page without clues yields an
// empty ClueSet; deciding whether that is an error is up to the caller.
func Extract(page layout.Page, opts Options) ClueSet {
	set, _ := ExtractColumns(page, opts)
	return set
}

// ExtractColumns is Extract that also returns each column's text.
func ExtractColumns(page layout.Page, opts Options) (ClueSet, ColumnTexts) {
	cols := layout.SplitPage(page.Tokens, page.Width, opts.BoundaryRatio)
	texts := ColumnTexts{
		Across: layout.ColumnText(cols.Across, opts.Precision),
		Down:   layout.ColumnText(cols.Down, opts.Precision),
	}

	tok := Tokenizer{StrictLineStarts: opts.StrictLineStarts}
	set := ClueSet{
		Metadata: ScanMetadata(page.Text, opts.Metadata),
		Across:   tok.Tokenize(texts.Across),
		Down:     tok.Tokenize(texts.Down),
	}
	return set, texts
}
