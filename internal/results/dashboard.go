// internal/results/dashboard.go
package results

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/mwiater/cryptic/internal/appconfig"
	"github.com/mwiater/cryptic/internal/eval"
	"github.com/mwiater/cryptic/internal/logging"
)

// Dashboard is the leaderboard written for the web page.
type Dashboard struct {
	GeneratedAt  string      `json:"generated_at"`
	TotalResults int         `json:"total_results"`
	Results      []WebResult `json:"results"`
	// Skipped counts incomplete runs left out.
	Skipped int `json:"-"`
}

// WebResult is one leaderboard row.
type WebResult struct {
	Model            string         `json:"model"`
	ModelDisplay     string         `json:"model_display"`
	Accuracy         float64        `json:"accuracy"`
	StdErr           float64        `json:"stderr"`
	SamplesCompleted int            `json:"samples_completed"`
	SamplesTotal     int            `json:"samples_total"`
	ModelArgs        map[string]any `json:"model_args"`
	Timestamp        string         `json:"timestamp"`
	RunID            string         `json:"run_id"`
	InputTokens      int            `json:"input_tokens"`
	OutputTokens     int            `json:"output_tokens"`
	TotalTokens      int            `json:"total_tokens"`
	ReasoningTokens  int            `json:"reasoning_tokens"`
	CostUSD          *float64       `json:"cost_usd"`
}

// BuildDashboard keeps complete runs, picks the best run per model and
// argument set, and orders the rows by accuracy. Runs stored without usage
// have it read back from their eval log, looked up as recorded and then by
// name under logsDir.
func BuildDashboard(all []Result, pricing map[string]appconfig.Price, logsDir string, now time.Time) Dashboard {
	var order []string
	groups := make(map[string][]Result)
	skipped := 0
	for _, r := range all {
		if !r.Samples.Complete() {
			skipped++
			continue
		}
		key := resultKey(r)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], r)
	}

	best := make([]Result, 0, len(order))
	for _, key := range order {
		best = append(best, bestResult(groups[key]))
	}
	sort.SliceStable(best, func(i, j int) bool {
		return best[i].Metrics.Accuracy > best[j].Metrics.Accuracy
	})

	rows := make([]WebResult, 0, len(best))
	for _, r := range best {
		rows = append(rows, webResult(r, pricing, logsDir))
	}
	return Dashboard{
		GeneratedAt:  now.Format(time.RFC3339),
		TotalResults: len(rows),
		Results:      rows,
		Skipped:      skipped,
	}
}

// resultKey identifies a model and argument combination. encoding/json
// writes map keys sorted, so equal arguments give equal keys.
func resultKey(r Result) string {
	args := ""
	if len(r.ModelArgs) > 0 {
		if data, err := json.Marshal(r.ModelArgs); err == nil {
			args = string(data)
		}
	}
	return r.Model + "|" + args
}

// bestResult prefers more completed samples, then the later run.
func bestResult(rs []Result) Result {
	best := rs[0]
	for _, r := range rs[1:] {
		if r.Samples.Completed > best.Samples.Completed ||
			(r.Samples.Completed == best.Samples.Completed && r.Timestamp.After(best.Timestamp)) {
			best = r
		}
	}
	return best
}

func webResult(r Result, pricing map[string]appconfig.Price, logsDir string) WebResult {
	usage := Usage{}
	if r.Usage != nil {
		usage = *r.Usage
	}
	if r.Usage == nil || r.Usage.TotalTokens == 0 {
		usage = usageFromLog(r.Metadata.LogFile, logsDir)
		if usage.TotalTokens > 0 {
			usage.CostUSD = Cost(pricing, r.Model, usage.InputTokens, usage.OutputTokens)
		}
	}

	args := r.ModelArgs
	if args == nil {
		args = map[string]any{}
	}
	id := r.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	return WebResult{
		Model:            r.Model,
		ModelDisplay:     DisplayName(r.Model),
		Accuracy:         r.Metrics.Accuracy,
		StdErr:           r.Metrics.StdErr,
		SamplesCompleted: r.Samples.Completed,
		SamplesTotal:     r.Samples.Total,
		ModelArgs:        args,
		Timestamp:        r.Timestamp.Format(time.RFC3339),
		RunID:            id,
		InputTokens:      usage.InputTokens,
		OutputTokens:     usage.OutputTokens,
		TotalTokens:      usage.TotalTokens,
		ReasoningTokens:  usage.ReasoningTokens,
		CostUSD:          usage.CostUSD,
	}
}

// usageFromLog sums the token usage recorded in an eval log. A log that
// cannot be found or read yields zero usage.
func usageFromLog(logFile, logsDir string) Usage {
	if logFile == "" {
		return Usage{}
	}
	path := logFile
	if _, err := os.Stat(path); err != nil {
		path = filepath.Join(logsDir, filepath.Base(logFile))
	}
	if _, err := os.Stat(path); err != nil {
		return Usage{}
	}
	log, err := eval.ReadLog(path)
	if err != nil {
		logging.LogEvent("Warning: could not extract usage from %s: %v", path, err)
		return Usage{}
	}
	total := log.TotalUsage()
	return Usage{
		InputTokens:     total.InputTokens,
		OutputTokens:    total.OutputTokens,
		TotalTokens:     total.TotalTokens,
		ReasoningTokens: total.ReasoningTokens,
	}
}

// DisplayName drops the provider prefix from a model name.
func DisplayName(model string) string {
	if _, name, ok := strings.Cut(model, "/"); ok {
		return name
	}
	return model
}
