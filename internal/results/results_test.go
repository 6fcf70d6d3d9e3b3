package results

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/mwiater/cryptic/internal/appconfig"
	"github.com/mwiater/cryptic/internal/dataset"
	"github.com/mwiater/cryptic/internal/eval"
	"github.com/mwiater/cryptic/internal/providers"
	"github.com/mwiater/cryptic/internal/scoring"
)

var created = time.Date(2026, 1, 10, 14, 30, 5, 0, time.UTC)

func sampleLog() *eval.EvalLog {
	right := scoring.Grade("TOM", "TOM")
	wrong := scoring.Grade("CAT", "RAREBITS")
	return &eval.EvalLog{
		Version: eval.LogVersion,
		Status:  eval.StatusSuccess,
		Eval: eval.Spec{
			RunID:   "a1b2c3d4-0000-4000-8000-000000000000",
			Task:    eval.DefaultTask,
			Model:   "openai/gpt-4o",
			Created: created,
			Dataset: eval.DatasetInfo{Files: []dataset.File{{Path: "puzzles/29001_complete.json", Hash: "abc"}}},
		},
		Results: eval.Results{TotalSamples: 2, CompletedSamples: 2, Metrics: scoring.Metrics{Accuracy: 0.5}},
		Stats: eval.Stats{ModelUsage: map[string]providers.Usage{
			"openai/gpt-4o": {InputTokens: 1_000_000, OutputTokens: 100_000, TotalTokens: 1_100_000},
		}},
		Samples: []eval.SampleResult{
			{ID: "29001_complete_across_1", Score: &wrong},
			{ID: "29001_complete_down_2", Score: &right},
			{ID: "30000_complete_down_4", Score: &right},
		},
	}
}

func TestFromEvalLog(t *testing.T) {
	r := FromEvalLog(sampleLog(), appconfig.DefaultPricing())

	if r.RunID != "a1b2c3d4-0000-4000-8000-000000000000" || r.Model != "openai/gpt-4o" || r.Task != "cryptic_crossword" {
		t.Fatalf("unexpected header %+v", r)
	}
	if r.Samples.Total != 3 || r.Samples.Completed != 2 {
		t.Fatalf("unexpected samples %+v", r.Samples)
	}
	if math.Abs(r.Metrics.StdErr-math.Sqrt(0.25/2)) > 1e-12 {
		t.Fatalf("unexpected stderr %v", r.Metrics.StdErr)
	}
	want := []string{"data/benchmark/30000_complete.json", "puzzles/29001_complete.json"}
	if strings.Join(r.Metadata.DatasetFiles, ",") != strings.Join(want, ",") {
		t.Fatalf("dataset files = %v, want %v", r.Metadata.DatasetFiles, want)
	}
	if r.Metadata.DatasetHashes["puzzles/29001_complete.json"] != "abc" || r.Metadata.EvalVersion != EvalVersion {
		t.Fatalf("unexpected metadata %+v", r.Metadata)
	}
	if r.Usage == nil || r.Usage.CostUSD == nil || math.Abs(*r.Usage.CostUSD-3.5) > 1e-9 {
		t.Fatalf("expected cost 3.5 (2.50 in + 1.00 out), got %+v", r.Usage)
	}
}

func TestFileName(t *testing.T) {
	r := Result{RunID: "a1b2c3d4-0000", Model: "llama.cpp/qwen3:8b", Timestamp: created}
	if got := FileName(r); got != "2026-01-10_14-30-05_llama.cpp_qwen3_8b_a1b2c3d4.json" {
		t.Fatalf("unexpected file name %q", got)
	}
}

func TestCost(t *testing.T) {
	pricing := map[string]appconfig.Price{
		"openai/gpt-4":  {Input: 1, Output: 1},
		"openai/gpt-4o": {Input: 2.5, Output: 10},
	}
	cost := Cost(pricing, "openai/gpt-4o-mini", 2_000_000, 0)
	if cost == nil || *cost != 5 {
		t.Fatalf("longest prefix should win, got %v", cost)
	}
	if Cost(pricing, "mockllm/model", 10, 10) != nil {
		t.Fatal("unpriced model should have nil cost")
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	log := sampleLog()
	logPath, err := eval.WriteLog(filepath.Join(dir, "logs"), log)
	if err != nil {
		t.Fatal(err)
	}

	store := NewJSONLStore(filepath.Join(dir, "results"))
	path, r, err := Save(logPath, store, filepath.Join(dir, "results"), appconfig.DefaultPricing())
	if err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if filepath.Base(path) != FileName(r) {
		t.Fatalf("unexpected result path %s", path)
	}
	if r.Metadata.LogFile != logPath {
		t.Fatalf("log file not recorded: %q", r.Metadata.LogFile)
	}
	all, err := store.All()
	if err != nil || len(all) != 1 || all[0].RunID != r.RunID {
		t.Fatalf("store contents %v, err %v", all, err)
	}
	if _, _, err := Save(filepath.Join(dir, "missing.json"), store, dir, nil); err == nil {
		t.Fatal("expected error for a missing log")
	}
}

func TestJSONLStoreSkipsBadLines(t *testing.T) {
	dir := t.TempDir()
	store := NewJSONLStore(dir)
	if err := store.Append(Result{RunID: "one", Model: "openai/gpt-4o", Timestamp: created}); err != nil {
		t.Fatal(err)
	}
	f, err := os.OpenFile(filepath.Join(dir, "openai_gpt-4o.jsonl"), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("{not json\n\n")
	f.Close()
	if err := store.Append(Result{RunID: "two", Model: "openai/gpt-4o", Timestamp: created}); err != nil {
		t.Fatal(err)
	}

	all, err := store.All()
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if len(all) != 2 || all[0].RunID != "one" || all[1].RunID != "two" {
		t.Fatalf("unexpected results %+v", all)
	}

	empty, err := NewJSONLStore(filepath.Join(dir, "none")).All()
	if err != nil || len(empty) != 0 {
		t.Fatalf("missing dir should be empty, got %v %v", empty, err)
	}
}

func TestSQLiteStoreUpserts(t *testing.T) {
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "db", "results.db"))
	if err != nil {
		t.Fatalf("OpenSQLite error: %v", err)
	}
	defer store.Close()

	first := Result{RunID: "run-1", Model: "openai/gpt-4o", Task: "cryptic_crossword", Timestamp: created}
	if err := store.Append(first); err != nil {
		t.Fatal(err)
	}
	first.Metrics.Accuracy = 0.75
	if err := store.Append(first); err != nil {
		t.Fatal(err)
	}
	if err := store.Append(Result{RunID: "run-2", Model: "mockllm/model", Task: "cryptic_crossword", Timestamp: created.Add(time.Hour)}); err != nil {
		t.Fatal(err)
	}

	all, err := store.All()
	if err != nil {
		t.Fatalf("All error: %v", err)
	}
	if len(all) != 2 || all[0].RunID != "run-1" || all[0].Metrics.Accuracy != 0.75 {
		t.Fatalf("unexpected rows %+v", all)
	}
	if _, err := store.Get("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestOpenStore(t *testing.T) {
	if _, err := OpenStore(appconfig.Config{ResultsStore: "csv"}); err == nil {
		t.Fatal("expected an error for an unknown store")
	}
	s, err := OpenStore(appconfig.Config{ResultsDir: t.TempDir()})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*JSONLStore); !ok {
		t.Fatalf("expected JSONL store by default, got %T", s)
	}
}

func result(id, model string, acc float64, completed, total int, ts time.Time, args map[string]any) Result {
	return Result{
		RunID:     id,
		Model:     model,
		ModelArgs: args,
		Timestamp: ts,
		Samples:   SampleCounts{Total: total, Completed: completed},
		Metrics:   scoring.Metrics{Accuracy: acc},
		Usage:     &Usage{InputTokens: 1, OutputTokens: 1, TotalTokens: 2},
	}
}

func TestBuildDashboard(t *testing.T) {
	hot := map[string]any{"temperature": 1.0}
	all := []Result{
		result("older-run-000", "openai/gpt-4o", 0.40, 10, 10, created, nil),
		result("newer-run-000", "openai/gpt-4o", 0.30, 10, 10, created.Add(time.Hour), nil),
		result("partial-00000", "openai/gpt-4o", 0.90, 5, 10, created.Add(2*time.Hour), nil),
		result("hot-run-00000", "openai/gpt-4o", 0.20, 10, 10, created, hot),
		result("gemini-run-00", "google/gemini-2.5-pro", 0.60, 10, 10, created, nil),
		result("empty-run-000", "mockllm/model", 0, 0, 0, created, nil),
	}

	d := BuildDashboard(all, appconfig.DefaultPricing(), t.TempDir(), created)
	if d.TotalResults != 3 || d.Skipped != 2 {
		t.Fatalf("expected 3 rows and 2 skipped, got %d rows %d skipped", d.TotalResults, d.Skipped)
	}
	got := []string{d.Results[0].RunID, d.Results[1].RunID, d.Results[2].RunID}
	if strings.Join(got, ",") != "gemini-r,newer-ru,hot-run-" {
		t.Fatalf("unexpected order %v", got)
	}
	if d.Results[0].ModelDisplay != "gemini-2.5-pro" || d.Results[0].ModelArgs == nil {
		t.Fatalf("unexpected first row %+v", d.Results[0])
	}
	if d.GeneratedAt != "2026-01-10T14:30:05Z" {
		t.Fatalf("unexpected generated_at %q", d.GeneratedAt)
	}
}

func TestBuildDashboardBackfillsUsageFromLog(t *testing.T) {
	logsDir := t.TempDir()
	log := sampleLog()
	path, err := eval.WriteLog(logsDir, log)
	if err != nil {
		t.Fatal(err)
	}

	r := result("a1b2c3d4-0000", "openai/gpt-4o", 0.5, 2, 2, created, nil)
	r.Usage = nil
	r.Metadata.LogFile = filepath.Join("elsewhere", filepath.Base(path))

	d := BuildDashboard([]Result{r}, appconfig.DefaultPricing(), logsDir, created)
	row := d.Results[0]
	if row.TotalTokens != 1_100_000 || row.CostUSD == nil || math.Abs(*row.CostUSD-3.5) > 1e-9 {
		t.Fatalf("usage not backfilled: %+v", row)
	}

	r.Metadata.LogFile = "missing.json"
	d = BuildDashboard([]Result{r}, appconfig.DefaultPricing(), logsDir, created)
	if d.Results[0].TotalTokens != 0 || d.Results[0].CostUSD != nil {
		t.Fatalf("missing log should give zero usage, got %+v", d.Results[0])
	}
}

func TestLookup(t *testing.T) {
	all := []Result{{RunID: "a1b2c3d4-1"}, {RunID: "ffff0000-2"}}
	r, err := Lookup(all, "ffff")
	if err != nil || r.RunID != "ffff0000-2" {
		t.Fatalf("unexpected lookup %v %v", r, err)
	}
	if _, err := Lookup(all, "zzz"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDisplayName(t *testing.T) {
	if DisplayName("anthropic/claude-sonnet-4") != "claude-sonnet-4" || DisplayName("local") != "local" {
		t.Fatal("unexpected display names")
	}
}
