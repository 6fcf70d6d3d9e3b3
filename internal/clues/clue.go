// internal/clues/clue.go

// Package clues extracts numbered cryptic-crossword clues from the
// reconstructed text of a clue page and models the resulting ClueSet.
package clues

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Direction identifies the across or down half of a puzzle.
type Direction string

const (
	Across Direction = "across"
	Down   Direction = "down"
)

// Directions lists both directions in their conventional order.
var Directions = []Direction{Across, Down}

// ParseDirection accepts "across"/"down" and their one-letter forms.
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "across", "Across", "ACROSS", "a", "A":
		return Across, nil
	case "down", "Down", "DOWN", "d", "D":
		return Down, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// Clue is a single numbered clue. Answer stays nil until an answer
// extraction step fills it in.
type Clue struct {
	Number       int          `json:"-"`
	Text         string       `json:"clue"`
	AnswerLength AnswerLength `json:"answer_length"`
	Answer       *string      `json:"answer"`
}

// Metadata holds best-effort puzzle information found near the top of a page.
type Metadata struct {
	PuzzleName *string `json:"puzzle_name,omitempty"`
	Date       *string `json:"date,omitempty"`
}

// Entries maps clue numbers to clues for one direction.
type Entries map[int]Clue

// ClueSet is the structured result of parsing one puzzle's clue page.
// A ClueSet is not mutated after it is built; WithAnswers returns a copy.
type ClueSet struct {
	Metadata Metadata
	Across   Entries
	Down     Entries
}

// NewClueSet returns an empty ClueSet with non-nil entry maps.
func NewClueSet() ClueSet {
	return ClueSet{Across: Entries{}, Down: Entries{}}
}

// Entries returns the clues for a direction.
func (s ClueSet) Entries(d Direction) Entries {
	if d == Down {
		return s.Down
	}
	return s.Across
}

// Count returns the total number of clues in both directions.
func (s ClueSet) Count() int {
	return len(s.Across) + len(s.Down)
}

// Numbers returns the clue numbers of a direction in ascending order.
func (s ClueSet) Numbers(d Direction) []int {
	return s.Entries(d).Numbers()
}

// Numbers returns the clue numbers in ascending order.
func (e Entries) Numbers() []int {
	nums := make([]int, 0, len(e))
	for n := range e {
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}

// Answers maps each direction to clue number -> answer string.
type Answers map[Direction]map[int]string

// WithAnswers returns a new ClueSet whose clues carry the answers found in
// answers. Clues without an answer keep a nil Answer. The receiver is not
// modified.
func (s ClueSet) WithAnswers(answers Answers) ClueSet {
	out := ClueSet{
		Metadata: s.Metadata.clone(),
		Across:   make(Entries, len(s.Across)),
		Down:     make(Entries, len(s.Down)),
	}
	for _, d := range Directions {
		dst := out.Entries(d)
		for n, clue := range s.Entries(d) {
			copied := Clue{
				Number:       clue.Number,
				Text:         clue.Text,
				AnswerLength: append(AnswerLength(nil), clue.AnswerLength...),
			}
			if answer, ok := answers[d][n]; ok {
				a := answer
				copied.Answer = &a
			}
			dst[n] = copied
		}
	}
	return out
}

func (m Metadata) clone() Metadata {
	var out Metadata
	if m.PuzzleName != nil {
		v := *m.PuzzleName
		out.PuzzleName = &v
	}
	if m.Date != nil {
		v := *m.Date
		out.Date = &v
	}
	return out
}

// MarshalJSON writes the nested form used on disk: top-level metadata,
// across and down keys, with clue numbers as string keys in numeric order.
func (s ClueSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"metadata":`)
	meta, err := json.Marshal(s.Metadata)
	if err != nil {
		return nil, err
	}
	buf.Write(meta)
	for _, d := range Directions {
		buf.WriteString(`,"` + string(d) + `":`)
		if err := s.Entries(d).writeJSON(&buf); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (e Entries) writeJSON(buf *bytes.Buffer) error {
	buf.WriteByte('{')
	for i, n := range e.Numbers() {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.Itoa(n)))
		buf.WriteByte(':')
		clue := e[n]
		if clue.AnswerLength == nil {
			clue.AnswerLength = AnswerLength{}
		}
		data, err := json.Marshal(clue)
		if err != nil {
			return err
		}
		buf.Write(data)
	}
	buf.WriteByte('}')
	return nil
}

// UnmarshalJSON reads the nested on-disk form written by MarshalJSON.
func (s *ClueSet) UnmarshalJSON(data []byte) error {
	var raw struct {
		Metadata Metadata        `json:"metadata"`
		Across   map[string]Clue `json:"across"`
		Down     map[string]Clue `json:"down"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := NewClueSet()
	out.Metadata = raw.Metadata
	for _, d := range Directions {
		src := raw.Across
		if d == Down {
			src = raw.Down
		}
		dst := out.Entries(d)
		for key, clue := range src {
			n, err := strconv.Atoi(key)
			if err != nil {
				return fmt.Errorf("%s clue key %q is not a number: %w", d, key, err)
			}
			clue.Number = n
			dst[n] = clue
		}
	}
	*s = out
	return nil
}
