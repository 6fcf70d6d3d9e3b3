// internal/clues/metadata.go
package clues

import (
	"regexp"
	"strings"
)

// DefaultMetadataLines is how many leading lines of page text are scanned.
const DefaultMetadataLines = 5

// DefaultPuzzleKeywords mark a line as the puzzle's name.
var DefaultPuzzleKeywords = []string{"Times", "Cryptic", "Quick"}

var (
	yearPattern  = regexp.MustCompile(`\b\d{4}\b`)
	monthPattern = regexp.MustCompile(`\b(January|February|March|April|May|June|July|August|September|October|November|December)\b`)
)

// MetadataOptions tunes the metadata heuristics.
type MetadataOptions struct {
	Lines    int
	Keywords []string
}

// ScanMetadata looks at the first few lines of the raw page text. A line
// with a four-digit year and a month name is the date; otherwise a line
// containing one of the keywords is the puzzle name. When several lines
// qualify the last one wins. Nothing found leaves the field nil.
func ScanMetadata(text string, opts MetadataOptions) Metadata {
	limit := opts.Lines
	if limit <= 0 {
		limit = DefaultMetadataLines
	}
	keywords := opts.Keywords
	if len(keywords) == 0 {
		keywords = DefaultPuzzleKeywords
	}

	var meta Metadata
	lines := strings.Split(text, "\n")
	if len(lines) > limit {
		lines = lines[:limit]
	}
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if yearPattern.MatchString(trimmed) && monthPattern.MatchString(trimmed) {
			v := trimmed
			meta.Date = &v
			continue
		}
		if containsAny(trimmed, keywords) {
			v := trimmed
			meta.PuzzleName = &v
		}
	}
	return meta
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
