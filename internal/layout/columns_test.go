package layout

import "testing"

func TestSplitPartitionsEveryToken(t *testing.T) {
	tokens := []Token{
		{Text: "1", X0: 20, Top: 100},
		{Text: "Across", X0: 35, Top: 100},
		{Text: "2", X0: 300, Top: 100},
		{Text: "Down", X0: 315, Top: 100},
		{Text: "edge", X0: 297.5, Top: 110},
		{Text: "left", X0: 297.49, Top: 110},
	}

	cols := SplitPage(tokens, 595, DefaultBoundaryRatio)
	if cols.Len() != len(tokens) {
		t.Fatalf("expected %d tokens after split, got %d", len(tokens), cols.Len())
	}

	seen := make(map[string]int)
	for _, tok := range cols.Across {
		if tok.X0 >= 297.5 {
			t.Fatalf("token %q at x0=%v should not be in the across column", tok.Text, tok.X0)
		}
		seen[tok.Text]++
	}
	for _, tok := range cols.Down {
		if tok.X0 < 297.5 {
			t.Fatalf("token %q at x0=%v should not be in the down column", tok.Text, tok.X0)
		}
		seen[tok.Text]++
	}
	for _, tok := range tokens {
		if seen[tok.Text] != 1 {
			t.Fatalf("token %q assigned %d times", tok.Text, seen[tok.Text])
		}
	}
	if got := cols.Down[len(cols.Down)-1].Text; got != "edge" {
		t.Fatalf("token on the boundary belongs to the down column, got %q last", got)
	}
}

func TestSplitEmptySide(t *testing.T) {
	cols := Split([]Token{{Text: "only", X0: 10, Top: 5}}, 100)
	if len(cols.Across) != 1 {
		t.Fatalf("expected one across token, got %d", len(cols.Across))
	}
	if cols.Down == nil || len(cols.Down) != 0 {
		t.Fatalf("expected an empty, non-nil down column, got %#v", cols.Down)
	}

	empty := Split(nil, 100)
	if empty.Len() != 0 {
		t.Fatalf("expected no tokens, got %d", empty.Len())
	}
}

func TestSplitPageFallsBackToMidpoint(t *testing.T) {
	tokens := []Token{{Text: "a", X0: 40}, {Text: "b", X0: 60}}
	for _, ratio := range []float64{0, -1, 1, 2} {
		cols := SplitPage(tokens, 100, ratio)
		if len(cols.Across) != 1 || cols.Across[0].Text != "a" {
			t.Fatalf("ratio %v: expected midpoint split, got %#v", ratio, cols)
		}
	}

	cols := SplitPage(tokens, 100, 0.7)
	if len(cols.Across) != 2 {
		t.Fatalf("expected both tokens left of a 0.7 boundary, got %#v", cols)
	}
}
