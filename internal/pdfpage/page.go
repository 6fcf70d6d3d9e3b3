// internal/pdfpage/page.go

// Package pdfpage reads a PDF page and produces the positioned tokens the
// clue extractor works on. It is the only place that knows about PDF
// coordinates: everything it returns uses a top-left origin.
package pdfpage

import (
	"errors"
	"fmt"

	"github.com/ledongthuc/pdf"

	"github.com/mwiater/cryptic/internal/layout"
)

// Default page size (US Letter, points) used when a page has no MediaBox.
const (
	defaultPageWidth  = 612.0
	defaultPageHeight = 792.0
)

// ErrNoPages is returned for documents without any page.
var ErrNoPages = errors.New("pdf has no pages")

// Load opens the PDF at path and extracts page index (0-based).
func Load(path string, index int) (layout.Page, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return layout.Page{}, fmt.Errorf("open pdf %s: %w", path, err)
	}
	defer f.Close()

	n := r.NumPage()
	if n == 0 {
		return layout.Page{}, ErrNoPages
	}
	if index < 0 || index >= n {
		return layout.Page{}, fmt.Errorf("page %d out of range (document has %d pages)", index+1, n)
	}

	page := r.Page(index + 1)
	if page.V.IsNull() {
		return layout.Page{}, fmt.Errorf("page %d of %s is empty", index+1, path)
	}

	texts, err := content(page)
	if err != nil {
		return layout.Page{}, fmt.Errorf("read page %d of %s: %w", index+1, path, err)
	}
	width, height := mediaBox(page)
	return Build(texts, width, height), nil
}

// Build turns glyph runs into a layout.Page of the given size.
func Build(texts []pdf.Text, width, height float64) layout.Page {
	tokens := Words(texts, height)
	return layout.Page{
		Width:  width,
		Height: height,
		Tokens: tokens,
		Text:   layout.ColumnText(tokens, layout.DefaultPrecision),
	}
}

// content reads the page's text runs. The pdf package panics on some
// malformed content streams, so the panic is turned into an error.
func content(page pdf.Page) (texts []pdf.Text, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed content stream: %v", r)
		}
	}()
	return page.Content().Text, nil
}

// mediaBox returns the page size, following inherited MediaBox entries up
// the page tree.
func mediaBox(page pdf.Page) (float64, float64) {
	node := page.V
	for depth := 0; depth < 32 && !node.IsNull(); depth++ {
		box := node.Key("MediaBox")
		if box.Len() == 4 {
			w := box.Index(2).Float64() - box.Index(0).Float64()
			h := box.Index(3).Float64() - box.Index(1).Float64()
			if w > 0 && h > 0 {
				return w, h
			}
		}
		node = node.Key("Parent")
	}
	return defaultPageWidth, defaultPageHeight
}
