package clues

import (
	"reflect"
	"testing"
)

func TestTokenizeSingleClue(t *testing.T) {
	entries := Tokenizer{}.Tokenize("1 Cheese dish needs opener for starter (8)")
	clue, ok := entries[1]
	if !ok || len(entries) != 1 {
		t.Fatalf("expected exactly clue 1, got %#v", entries)
	}
	if clue.Text != "Cheese dish needs opener for starter" {
		t.Fatalf("unexpected clue text %q", clue.Text)
	}
	if !reflect.DeepEqual(clue.AnswerLength, AnswerLength{8}) {
		t.Fatalf("unexpected answer length %v", clue.AnswerLength)
	}
	if clue.Answer != nil {
		t.Fatalf("expected nil answer, got %q", *clue.Answer)
	}
}

func TestTokenizeMultiWordLength(t *testing.T) {
	entries := Tokenizer{}.Tokenize("12 Row about knight's old flame (4,4)")
	if got := entries[12].AnswerLength; !reflect.DeepEqual(got, AnswerLength{4, 4}) {
		t.Fatalf("expected [4 4], got %v", got)
	}
	if got := entries[12].Text; got != "Row about knight's old flame" {
		t.Fatalf("unexpected clue text %q", got)
	}
}

func TestTokenizeEmptyText(t *testing.T) {
	entries := Tokenizer{StrictLineStarts: true}.Tokenize("")
	if entries == nil || len(entries) != 0 {
		t.Fatalf("expected an empty map, got %#v", entries)
	}
	entries = Tokenizer{}.Tokenize("ACROSS\nno clues on this page")
	if len(entries) != 0 {
		t.Fatalf("expected no clues, got %#v", entries)
	}
}

func TestTokenizeDuplicateNumberLastWins(t *testing.T) {
	text := "5 First reading (5)\n7 Something else (3)\n5 Second reading (4,2)"
	entries := Tokenizer{}.Tokenize(text)
	if len(entries) != 2 {
		t.Fatalf("expected 2 clues, got %d", len(entries))
	}
	five := entries[5]
	if five.Text != "Second reading" || !reflect.DeepEqual(five.AnswerLength, AnswerLength{4, 2}) {
		t.Fatalf("expected the second occurrence of clue 5, got %#v", five)
	}
}

func TestTokenizeWrappedClue(t *testing.T) {
	text := "ACROSS\n1 Cheese dish needs\nopener for starter (8)\n5 Row about knight's old\nflame (4,4)"
	found, skipped := Tokenizer{StrictLineStarts: true}.Scan(text)
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped matches: %v", skipped)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 clues, got %#v", found)
	}
	if found[0].Number != 1 || found[0].Text != "Cheese dish needs opener for starter" {
		t.Fatalf("unexpected first clue %#v", found[0])
	}
	if found[1].Number != 5 || found[1].Text != "Row about knight's old flame" {
		t.Fatalf("unexpected second clue %#v", found[1])
	}
}

func TestTokenizeStrictLineStarts(t *testing.T) {
	text := "3 Clue whose length fell off\n4 Next clue is intact (6)"

	strict, skipped := Tokenizer{StrictLineStarts: true}.Scan(text)
	if len(strict) != 1 || strict[0].Number != 4 || strict[0].Text != "Next clue is intact" {
		t.Fatalf("strict scan: unexpected clues %#v", strict)
	}
	if len(skipped) != 1 || skipped[0].Offset != 0 {
		t.Fatalf("strict scan: expected one skipped candidate at offset 0, got %v", skipped)
	}

	lenient, _ := Tokenizer{}.Scan(text)
	if len(lenient) != 1 || lenient[0].Number != 3 {
		t.Fatalf("lenient scan: expected clue 3 to absorb the next line, got %#v", lenient)
	}
	if lenient[0].Text != "Clue whose length fell off 4 Next clue is intact" {
		t.Fatalf("lenient scan: unexpected text %q", lenient[0].Text)
	}
}

func TestTokenizeStrictLineStartsAfterTrailingNumber(t *testing.T) {
	text := "Crossword No 29154\n1 Cheese dish needs opener for starter (8)\n5 Cat in hat (3)"

	found, skipped := Tokenizer{StrictLineStarts: true}.Scan(text)
	if len(found) != 2 {
		t.Fatalf("expected two clues, got %#v", found)
	}
	if found[0].Number != 1 || found[0].Text != "Cheese dish needs opener for starter" {
		t.Fatalf("unexpected first clue %#v", found[0])
	}
	if found[1].Number != 5 || found[1].Text != "Cat in hat" {
		t.Fatalf("unexpected second clue %#v", found[1])
	}
	if len(skipped) != 1 || skipped[0].Offset != len("Crossword No ") {
		t.Fatalf("expected the header number to be skipped, got %v", skipped)
	}
}

func TestTokenizeStrictLineStartsNumberOnOwnLine(t *testing.T) {
	found, skipped := Tokenizer{StrictLineStarts: true}.Scan("12\nRow about knight's old flame (4,4)")
	if len(skipped) != 0 {
		t.Fatalf("unexpected skipped matches: %v", skipped)
	}
	if len(found) != 1 || found[0].Number != 12 || found[0].Text != "Row about knight's old flame" {
		t.Fatalf("unexpected clues %#v", found)
	}
}

func TestTokenizeSkipsInvalidLengthOnly(t *testing.T) {
	text := "2 Zero letters is no answer (0)\n6 Still parsed (5)"
	found, skipped := Tokenizer{}.Scan(text)
	if len(skipped) != 1 {
		t.Fatalf("expected one skipped match, got %v", skipped)
	}
	if len(found) != 1 || found[0].Number != 6 {
		t.Fatalf("expected clue 6 to survive, got %#v", found)
	}
}

func TestTokenizeIsIdempotent(t *testing.T) {
	text := "1 Cheese dish needs opener for starter (8)\n12 Row about knight's old flame (4,4)"
	tok := Tokenizer{StrictLineStarts: true}
	first := tok.Tokenize(text)
	second := tok.Tokenize(text)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("tokenizing twice differs:\n%#v\n%#v", first, second)
	}
}
