// internal/results/result.go

// Package results turns eval logs into compact result records, keeps them in
// a store and builds the leaderboard data the dashboard renders.
package results

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mwiater/cryptic/internal/appconfig"
	"github.com/mwiater/cryptic/internal/eval"
	"github.com/mwiater/cryptic/internal/logging"
	"github.com/mwiater/cryptic/internal/scoring"
	"github.com/mwiater/cryptic/internal/util"
)

// EvalVersion is recorded in every result's metadata.
const EvalVersion = "0.1.0"

// defaultBenchmarkDir prefixes dataset files whose directory is unknown.
const defaultBenchmarkDir = "data/benchmark"

// ErrNotFound is returned when no stored result matches a run ID.
var ErrNotFound = errors.New("result not found")

// Result is the summary of one eval run.
type Result struct {
	RunID     string          `json:"run_id"`
	Timestamp time.Time       `json:"timestamp"`
	Model     string          `json:"model"`
	ModelArgs map[string]any  `json:"model_args,omitempty"`
	Task      string          `json:"task"`
	Samples   SampleCounts    `json:"samples"`
	Metrics   scoring.Metrics `json:"metrics"`
	Usage     *Usage          `json:"usage,omitempty"`
	Metadata  Metadata        `json:"metadata"`
}

// SampleCounts is how many samples a run had and how many were scored.
type SampleCounts struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
}

// Complete reports whether every sample was scored.
func (s SampleCounts) Complete() bool {
	return s.Total > 0 && s.Completed == s.Total
}

// Usage is the token usage of a run and its price, when known.
type Usage struct {
	InputTokens     int      `json:"input_tokens"`
	OutputTokens    int      `json:"output_tokens"`
	TotalTokens     int      `json:"total_tokens"`
	ReasoningTokens int      `json:"reasoning_tokens"`
	CostUSD         *float64 `json:"cost_usd"`
}

// Metadata links a result to its inputs.
type Metadata struct {
	DatasetFiles  []string          `json:"dataset_files"`
	DatasetHashes map[string]string `json:"dataset_hashes,omitempty"`
	EvalVersion   string            `json:"eval_version"`
	LogFile       string            `json:"log_file"`
}

// FromEvalLog summarises log. The standard error is recomputed from the
// accuracy and the completed sample count.
func FromEvalLog(log *eval.EvalLog, pricing map[string]appconfig.Price) Result {
	completed := log.Results.CompletedSamples
	acc := log.Results.Metrics.Accuracy
	usage := log.TotalUsage()

	r := Result{
		RunID:     log.Eval.RunID,
		Timestamp: log.Eval.Created,
		Model:     log.Eval.Model,
		ModelArgs: log.Eval.ModelArgs,
		Task:      log.Eval.Task,
		Samples:   SampleCounts{Total: len(log.Samples), Completed: completed},
		Metrics:   scoring.Metrics{Accuracy: acc, StdErr: scoring.StdErr(acc, completed)},
		Usage: &Usage{
			InputTokens:     usage.InputTokens,
			OutputTokens:    usage.OutputTokens,
			TotalTokens:     usage.TotalTokens,
			ReasoningTokens: usage.ReasoningTokens,
			CostUSD:         Cost(pricing, log.Eval.Model, usage.InputTokens, usage.OutputTokens),
		},
		Metadata: Metadata{
			EvalVersion: EvalVersion,
			LogFile:     log.Location,
		},
	}
	r.Metadata.DatasetFiles, r.Metadata.DatasetHashes = datasetFiles(log)
	return r
}

// datasetFiles recovers the benchmark files from sample IDs of the form
// <stem>_<direction>_<number>, keeping the recorded path and hash when the
// log has them.
func datasetFiles(log *eval.EvalLog) ([]string, map[string]string) {
	known := make(map[string]string, len(log.Eval.Dataset.Files))
	hashes := make(map[string]string)
	for _, f := range log.Eval.Dataset.Files {
		known[util.Stem(f.Path)] = f.Path
		if f.Hash != "" {
			hashes[f.Path] = f.Hash
		}
	}

	seen := make(map[string]bool)
	for _, s := range log.Samples {
		stem, ok := sampleStem(s.ID)
		if !ok {
			continue
		}
		path, ok := known[stem]
		if !ok {
			path = defaultBenchmarkDir + "/" + stem + ".json"
		}
		seen[path] = true
	}

	files := make([]string, 0, len(seen))
	for path := range seen {
		files = append(files, path)
	}
	sort.Strings(files)
	if len(hashes) == 0 {
		hashes = nil
	}
	return files, hashes
}

func sampleStem(id string) (string, bool) {
	for _, marker := range []string{"_across_", "_down_"} {
		if i := strings.Index(id, marker); i >= 0 {
			return id[:i], true
		}
	}
	return "", false
}

// ModelSlug makes a model name safe for file names.
func ModelSlug(model string) string {
	return strings.NewReplacer("/", "_", ":", "_").Replace(model)
}

// FileName is YYYY-MM-DD_HH-MM-SS_<model>_<run id prefix>.json.
func FileName(r Result) string {
	id := r.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s_%s_%s.json", r.Timestamp.Format("2006-01-02_15-04-05"), ModelSlug(r.Model), id)
}

// Save reads the eval log at logPath, writes its result file to outputDir
// and, when store is non-nil, appends the result to it.
func Save(logPath string, store Store, outputDir string, pricing map[string]appconfig.Price) (string, Result, error) {
	log, err := eval.ReadLog(logPath)
	if err != nil {
		return "", Result{}, err
	}
	r := FromEvalLog(log, pricing)

	path := filepath.Join(outputDir, FileName(r))
	if err := util.WriteJSON(path, r); err != nil {
		return "", r, fmt.Errorf("error writing result: %w", err)
	}
	if store != nil {
		if err := store.Append(r); err != nil {
			return path, r, fmt.Errorf("error storing result: %w", err)
		}
	}
	logging.LogStage("results", "saved %s accuracy=%.3f±%.3f samples=%d/%d to %s",
		r.Model, r.Metrics.Accuracy, r.Metrics.StdErr, r.Samples.Completed, r.Samples.Total, path)
	return path, r, nil
}

// Lookup finds the result whose run ID starts with prefix.
func Lookup(all []Result, prefix string) (Result, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return Result{}, ErrNotFound
	}
	for _, r := range all {
		if strings.HasPrefix(r.RunID, prefix) {
			return r, nil
		}
	}
	return Result{}, fmt.Errorf("%w: %s", ErrNotFound, prefix)
}
