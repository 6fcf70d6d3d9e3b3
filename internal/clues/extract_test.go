package clues

import (
	"reflect"
	"testing"

	"github.com/mwiater/cryptic/internal/layout"
)

// words lays out a line of text as tokens starting at x, one per word.
func words(text string, x, top float64) []layout.Token {
	var out []layout.Token
	start := 0
	for i := 0; i <= len(text); i++ {
		if i == len(text) || text[i] == ' ' {
			if i > start {
				out = append(out, layout.Token{Text: text[start:i], X0: x + float64(start)*5, Top: top})
			}
			start = i + 1
		}
	}
	return out
}

func samplePage() layout.Page {
	var tokens []layout.Token
	tokens = append(tokens, words("ACROSS", 20, 80)...)
	tokens = append(tokens, words("1 Cheese dish needs", 20, 92.04)...)
	tokens = append(tokens, words("opener for starter (8)", 20, 104.01)...)
	tokens = append(tokens, words("12 Row about knight's old flame (4,4)", 20, 116)...)
	tokens = append(tokens, words("DOWN", 320, 80.03)...)
	tokens = append(tokens, words("1 Cat in hat (3)", 320, 92.06)...)
	return layout.Page{
		Width:  600,
		Tokens: tokens,
		Text:   "Times Cryptic No 1\n10 January 2026\nACROSS DOWN",
	}
}

func TestExtract(t *testing.T) {
	set, texts := ExtractColumns(samplePage(), DefaultOptions())

	if texts.Across != "ACROSS\n1 Cheese dish needs\nopener for starter (8)\n12 Row about knight's old flame (4,4)" {
		t.Fatalf("unexpected across text %q", texts.Across)
	}
	if len(set.Across) != 2 || len(set.Down) != 1 {
		t.Fatalf("expected 2 across and 1 down clue, got %d and %d", len(set.Across), len(set.Down))
	}

	want := Clue{Number: 1, Text: "Cheese dish needs opener for starter", AnswerLength: AnswerLength{8}}
	if !reflect.DeepEqual(set.Across[1], want) {
		t.Fatalf("unexpected across 1: %#v", set.Across[1])
	}
	if got := set.Across[12].AnswerLength; !reflect.DeepEqual(got, AnswerLength{4, 4}) {
		t.Fatalf("unexpected across 12 length %v", got)
	}
	if got := set.Down[1].Text; got != "Cat in hat" {
		t.Fatalf("unexpected down 1 text %q", got)
	}
	if set.Metadata.PuzzleName == nil || set.Metadata.Date == nil {
		t.Fatalf("expected metadata, got %+v", set.Metadata)
	}
}

func TestExtractEmptyColumn(t *testing.T) {
	page := layout.Page{Width: 600, Tokens: words("1 Only across here (4)", 10, 50)}
	set := Extract(page, DefaultOptions())
	if len(set.Across) != 1 {
		t.Fatalf("expected one across clue, got %d", len(set.Across))
	}
	if set.Down == nil || len(set.Down) != 0 {
		t.Fatalf("expected an empty down map, got %#v", set.Down)
	}

	empty := Extract(layout.Page{Width: 600}, DefaultOptions())
	if empty.Count() != 0 || empty.Across == nil || empty.Down == nil {
		t.Fatalf("expected an empty clue set, got %#v", empty)
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	page := samplePage()
	if !reflect.DeepEqual(Extract(page, DefaultOptions()), Extract(page, DefaultOptions())) {
		t.Fatal("extracting the same page twice gave different results")
	}
}
