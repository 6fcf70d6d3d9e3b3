// internal/results/jsonl.go
package results

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mwiater/cryptic/internal/logging"
)

// JSONLStore keeps one <model>.jsonl file per model under Dir.
type JSONLStore struct {
	Dir string
}

// NewJSONLStore returns a store rooted at dir.
func NewJSONLStore(dir string) *JSONLStore {
	return &JSONLStore{Dir: dir}
}

// Append adds r to its model's file.
func (s *JSONLStore) Append(r Result) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("error creating results directory: %w", err)
	}
	path := filepath.Join(s.Dir, ModelSlug(r.Model)+".jsonl")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("error opening results file: %w", err)
	}
	defer file.Close()

	if err := json.NewEncoder(file).Encode(r); err != nil {
		return fmt.Errorf("error writing results: %w", err)
	}
	return nil
}

// All reads every *.jsonl file in Dir. Lines that do not parse are logged
// and skipped. A missing directory holds no results.
func (s *JSONLStore) All() ([]Result, error) {
	paths, err := filepath.Glob(filepath.Join(s.Dir, "*.jsonl"))
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)

	var out []Result
	for _, path := range paths {
		results, err := readJSONL(path)
		if err != nil {
			return nil, err
		}
		out = append(out, results...)
	}
	return out, nil
}

func readJSONL(path string) ([]Result, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var out []Result
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var r Result
		if err := json.Unmarshal([]byte(line), &r); err != nil {
			logging.LogEvent("Warning: could not parse line %d in %s: %v", lineNo, path, err)
			continue
		}
		out = append(out, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading %s: %w", path, err)
	}
	return out, nil
}

// Close is a no-op.
func (s *JSONLStore) Close() error { return nil }
