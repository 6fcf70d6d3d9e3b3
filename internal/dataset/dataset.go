// internal/dataset/dataset.go

// Package dataset turns completed puzzle files into evaluation samples, one
// per clue that has a known answer.
package dataset

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zeebo/blake3"

	"github.com/mwiater/cryptic/internal/clues"
	"github.com/mwiater/cryptic/internal/util"
)

// ErrNoSamples is returned when none of the loaded files yields a sample.
var ErrNoSamples = errors.New("no samples found")

// unknown fills puzzle metadata the file does not carry.
const unknown = "Unknown"

// SystemMessage frames every solve request.
const SystemMessage = `You are an expert at solving cryptic crossword puzzles.
Cryptic crosswords contain clues that have both a definition and wordplay component.
Your task is to solve each clue and provide only the answer word(s).
Be concise - provide only the answer without explanation.`

// Sample is one clue to solve.
type Sample struct {
	ID       string         `json:"id"`
	Input    string         `json:"input"`
	Target   string         `json:"target"`
	Metadata SampleMetadata `json:"metadata"`
}

// SampleMetadata describes where a sample came from.
type SampleMetadata struct {
	ClueNumber   int    `json:"clue_number"`
	Direction    string `json:"direction"`
	PuzzleName   string `json:"puzzle_name"`
	PuzzleDate   string `json:"puzzle_date"`
	AnswerLength []int  `json:"answer_length"`
}

// File records a loaded benchmark file.
type File struct {
	Path    string `json:"path"`
	Hash    string `json:"hash"`
	Samples int    `json:"samples"`
}

// Dataset is the full sample list of a run and the files it came from.
type Dataset struct {
	Files   []File
	Samples []Sample
}

// Prompt builds the user message for a clue.
func Prompt(clueText string, length clues.AnswerLength) string {
	return fmt.Sprintf(`Solve this cryptic crossword clue:

Clue: %s
Answer length: %s

Provide only the answer word(s), with no explanation or additional text.`, clueText, length.Hint())
}

// LoadFile validates a benchmark file and returns its samples in direction
// then clue-number order. Clues without an answer are skipped.
func LoadFile(path string) ([]Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read benchmark %s: %w", path, err)
	}
	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	var set clues.ClueSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("decode benchmark %s: %w", path, err)
	}
	return Samples(util.Stem(path), set), nil
}

// Samples converts a ClueSet into samples whose IDs start with stem.
func Samples(stem string, set clues.ClueSet) []Sample {
	name := stringOr(set.Metadata.PuzzleName, unknown)
	date := stringOr(set.Metadata.Date, unknown)

	var samples []Sample
	for _, dir := range clues.Directions {
		entries := set.Entries(dir)
		for _, num := range entries.Numbers() {
			c := entries[num]
			if c.Answer == nil || strings.TrimSpace(*c.Answer) == "" {
				continue
			}
			samples = append(samples, Sample{
				ID:     fmt.Sprintf("%s_%s_%d", stem, dir, num),
				Input:  Prompt(c.Text, c.AnswerLength),
				Target: *c.Answer,
				Metadata: SampleMetadata{
					ClueNumber:   num,
					Direction:    string(dir),
					PuzzleName:   name,
					PuzzleDate:   date,
					AnswerLength: append([]int(nil), c.AnswerLength...),
				},
			})
		}
	}
	return samples
}

// Load reads every path in order.
func Load(paths ...string) (Dataset, error) {
	var ds Dataset
	for _, path := range paths {
		samples, err := LoadFile(path)
		if err != nil {
			return Dataset{}, err
		}
		hash, err := Fingerprint(path)
		if err != nil {
			return Dataset{}, err
		}
		ds.Files = append(ds.Files, File{Path: path, Hash: hash, Samples: len(samples)})
		ds.Samples = append(ds.Samples, samples...)
	}
	if len(ds.Samples) == 0 {
		return ds, ErrNoSamples
	}
	return ds, nil
}

// LoadDir loads every *.json file in dir, sorted by name.
func LoadDir(dir string) (Dataset, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return Dataset{}, fmt.Errorf("list benchmarks in %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return Dataset{}, fmt.Errorf("%w: no benchmark files in %s", ErrNoSamples, dir)
	}
	sort.Strings(paths)
	return Load(paths...)
}

// Limit returns the first n samples; n <= 0 keeps them all.
func (d Dataset) Limit(n int) Dataset {
	if n <= 0 || n >= len(d.Samples) {
		return d
	}
	d.Samples = d.Samples[:n]
	return d
}

// Fingerprint returns the hex BLAKE3 digest of the file at path.
func Fingerprint(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("fingerprint %s: %w", path, err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func stringOr(s *string, fallback string) string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return fallback
	}
	return *s
}
