// internal/clues/length.go
package clues

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidLength is returned when a length specification cannot be parsed
// into positive integers.
var ErrInvalidLength = errors.New("invalid answer length")

// AnswerLength is the letter count of each word of an answer, for example
// [4 3 5] for a three-word answer of twelve letters.
type AnswerLength []int

// ParseAnswerLength parses a specification such as "(8)" or "(4, 3,5)".
// Enclosing parentheses are optional. Every segment must be a positive integer.
func ParseAnswerLength(spec string) (AnswerLength, error) {
	trimmed := strings.TrimSpace(spec)
	trimmed = strings.TrimPrefix(trimmed, "(")
	trimmed = strings.TrimSuffix(trimmed, ")")
	if strings.TrimSpace(trimmed) == "" {
		return nil, fmt.Errorf("%w: empty specification %q", ErrInvalidLength, spec)
	}

	parts := strings.Split(trimmed, ",")
	out := make(AnswerLength, 0, len(parts))
	for _, part := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("%w: segment %q in %q", ErrInvalidLength, part, spec)
		}
		if n <= 0 {
			return nil, fmt.Errorf("%w: non-positive segment %d in %q", ErrInvalidLength, n, spec)
		}
		out = append(out, n)
	}
	return out, nil
}

// String formats the length the way it is printed after a clue: "(4,3,5)".
func (l AnswerLength) String() string {
	parts := make([]string, len(l))
	for i, n := range l {
		parts[i] = strconv.Itoa(n)
	}
	return "(" + strings.Join(parts, ",") + ")"
}

// Hint renders the length as a prompt hint, e.g. "4-3-5 letters".
func (l AnswerLength) Hint() string {
	parts := make([]string, len(l))
	for i, n := range l {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, "-") + " letters"
}

// Total returns the number of letters in the whole answer.
func (l AnswerLength) Total() int {
	total := 0
	for _, n := range l {
		total += n
	}
	return total
}

// Words returns the number of words in the answer.
func (l AnswerLength) Words() int {
	return len(l)
}
