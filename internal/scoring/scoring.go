// internal/scoring/scoring.go

// Package scoring grades model answers against benchmark targets by exact
// match after normalization and summarizes a run as accuracy with its
// standard error.
package scoring

import (
	"fmt"
	"math"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds accents, upper-cases and drops everything that is not a
// letter or digit, so "Rio Bravo!" and "RIOBRAVO" compare equal.
func Normalize(answer string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, answer)
	if err != nil {
		folded = answer
	}
	var b strings.Builder
	for _, r := range strings.ToUpper(folded) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Score is the verdict for one sample.
type Score struct {
	Value       bool   `json:"value"`
	Answer      string `json:"answer"`
	Explanation string `json:"explanation"`
}

// Grade compares a model completion with the expected answer.
func Grade(completion, target string) Score {
	correct := Normalize(completion) == Normalize(target)
	return Score{
		Value:       correct,
		Answer:      completion,
		Explanation: fmt.Sprintf("Model: %s | Expected: %s | Match: %t", completion, target, correct),
	}
}

// Accuracy is the share of correct scores; zero for an empty run.
func Accuracy(scores []Score) float64 {
	if len(scores) == 0 {
		return 0
	}
	correct := 0
	for _, s := range scores {
		if s.Value {
			correct++
		}
	}
	return float64(correct) / float64(len(scores))
}

// StdErr is the standard error of a proportion p over n samples.
func StdErr(p float64, n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Sqrt(p * (1 - p) / float64(n))
}

// Metrics summarises a set of scores.
type Metrics struct {
	Accuracy float64 `json:"accuracy"`
	StdErr   float64 `json:"stderr"`
}

// Summarize computes accuracy and standard error in one pass.
func Summarize(scores []Score) Metrics {
	acc := Accuracy(scores)
	return Metrics{Accuracy: acc, StdErr: StdErr(acc, len(scores))}
}
