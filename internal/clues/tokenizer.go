// internal/clues/tokenizer.go
package clues

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// cluePattern matches "<number> <clue text> (<length spec>)". The clue text
// may wrap onto following lines, so "." also matches newlines.
var cluePattern = regexp.MustCompile(`(?s)(\d+)\s+(.+?)\s+(\(\d+(?:,\s*\d+)*\))`)

// lineStartNumber finds a wrapped line that begins like a new clue.
var lineStartNumber = regexp.MustCompile(`\n[ \t]*\d+\s`)

// leadingNumber matches clue text that itself opens with a clue number.
var leadingNumber = regexp.MustCompile(`^\d+\s`)

// Tokenizer scans a column's text for numbered clues.
//
// With StrictLineStarts set, a clue's text may not run across a line that
// itself starts with a number followed by whitespace: such a line is taken
// to be the start of the next clue, and the unfinished candidate before it
// is dropped. This keeps one clue whose length spec was lost from swallowing
// the clue printed after it, at the cost of misreading a wrapped line that
// genuinely begins with a numeral.
type Tokenizer struct {
	StrictLineStarts bool
}

// SkippedMatch records a candidate that looked like a clue but was rejected.
type SkippedMatch struct {
	Offset int
	Text   string
	Err    error
}

func (s SkippedMatch) Error() string {
	return fmt.Sprintf("offset %d: %v", s.Offset, s.Err)
}

// Scan returns the clues found in text in document order, together with the
// candidates that were rejected. Matches never overlap: after each match,
// accepted or not, scanning resumes at its end.
func (t Tokenizer) Scan(text string) ([]Clue, []SkippedMatch) {
	var found []Clue
	var skipped []SkippedMatch

	pos := 0
	for pos < len(text) {
		loc := cluePattern.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		number := text[pos+loc[2] : pos+loc[3]]
		body := text[pos+loc[4] : pos+loc[5]]
		spec := text[pos+loc[6] : pos+loc[7]]

		if t.StrictLineStarts {
			// A number ending the previous line ("Crossword No 29154") must not
			// claim the numbered line below it.
			sep := text[pos+loc[3] : pos+loc[4]]
			if strings.Contains(sep, "\n") && leadingNumber.MatchString(body) {
				skipped = append(skipped, SkippedMatch{
					Offset: start,
					Text:   text[start : pos+loc[4]],
					Err:    fmt.Errorf("number %s is followed by a numbered line", number),
				})
				pos = pos + loc[4]
				continue
			}
			if cut := lineStartNumber.FindStringIndex(body); cut != nil {
				skipped = append(skipped, SkippedMatch{
					Offset: start,
					Text:   text[start : pos+loc[4]+cut[0]],
					Err:    fmt.Errorf("clue %s has no length before the next numbered line", number),
				})
				// Resume on the line that starts with a number.
				pos = pos + loc[4] + cut[0] + 1
				continue
			}
		}
		pos = end

		clue, err := buildClue(number, body, spec)
		if err != nil {
			skipped = append(skipped, SkippedMatch{Offset: start, Text: text[start:end], Err: err})
			continue
		}
		found = append(found, clue)
	}
	return found, skipped
}

// Tokenize returns the clues in text keyed by number. When a number appears
// more than once the last occurrence wins. Text with no clues yields an
// empty, non-nil map.
func (t Tokenizer) Tokenize(text string) Entries {
	found, _ := t.Scan(text)
	entries := make(Entries, len(found))
	for _, clue := range found {
		entries[clue.Number] = clue
	}
	return entries
}

func buildClue(number, body, spec string) (Clue, error) {
	n, err := strconv.Atoi(number)
	if err != nil {
		return Clue{}, fmt.Errorf("clue number %q: %w", number, err)
	}
	length, err := ParseAnswerLength(spec)
	if err != nil {
		return Clue{}, fmt.Errorf("clue %d: %w", n, err)
	}
	return Clue{
		Number:       n,
		Text:         collapseSpace(body),
		AnswerLength: length,
	}, nil
}

// collapseSpace trims s and joins wrapped lines with single spaces.
func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
