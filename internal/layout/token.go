// internal/layout/token.go

// Package layout turns the positioned text tokens of a two-column clue page
// into ordered text lines. It splits the page into the across and down
// columns and rebuilds each column's lines in reading order. The package is
// a pure transformation over in-memory values: it performs no I/O and keeps
// no state between calls.
package layout

// Token is a single word of page text together with the position of its
// bounding box, in the page's native units with the origin at the top-left.
type Token struct {
	Text string  `json:"text"`
	X0   float64 `json:"x0"`
	Top  float64 `json:"top"`
}

// Page is everything the extractor needs from one document page: its width,
// its tokens and a linearized rendering of the whole page for metadata scans.
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height,omitempty"`
	Tokens []Token `json:"tokens"`
	Text   string  `json:"text"`
}
