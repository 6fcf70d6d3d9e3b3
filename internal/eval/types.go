// internal/eval/types.go
package eval

import (
	"time"

	"github.com/mwiater/cryptic/internal/dataset"
	"github.com/mwiater/cryptic/internal/providers"
	"github.com/mwiater/cryptic/internal/scoring"
)

// LogVersion is written into every eval log.
const LogVersion = 1

// Run statuses.
const (
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusCancelled = "cancelled"
)

// EvalLog is the record of one model's run over a task's samples.
type EvalLog struct {
	Version  int            `json:"version"`
	Status   string         `json:"status"`
	Eval     Spec           `json:"eval"`
	Results  Results        `json:"results"`
	Stats    Stats          `json:"stats"`
	Samples  []SampleResult `json:"samples"`
	Error    string         `json:"error,omitempty"`
	Location string         `json:"-"`
}

// Spec identifies the run.
type Spec struct {
	RunID     string         `json:"run_id"`
	Task      string         `json:"task"`
	Model     string         `json:"model"`
	ModelArgs map[string]any `json:"model_args,omitempty"`
	Host      string         `json:"host"`
	Created   time.Time      `json:"created"`
	Dataset   DatasetInfo    `json:"dataset"`
}

// DatasetInfo records the benchmark files a run read.
type DatasetInfo struct {
	Files   []dataset.File `json:"files"`
	Samples int            `json:"samples"`
}

// Results summarises the scored samples.
type Results struct {
	TotalSamples     int             `json:"total_samples"`
	CompletedSamples int             `json:"completed_samples"`
	Metrics          scoring.Metrics `json:"metrics"`
}

// Stats holds timings and token usage keyed by model.
type Stats struct {
	StartedAt   time.Time                  `json:"started_at"`
	CompletedAt time.Time                  `json:"completed_at"`
	ModelUsage  map[string]providers.Usage `json:"model_usage"`
}

// SampleResult is one sample's output and verdict. Error is set, and Score
// is nil, when the model request failed.
type SampleResult struct {
	ID         string                 `json:"id"`
	Input      string                 `json:"input"`
	Target     string                 `json:"target"`
	Output     string                 `json:"output"`
	Score      *scoring.Score         `json:"score,omitempty"`
	Metadata   dataset.SampleMetadata `json:"metadata"`
	Usage      providers.Usage        `json:"usage"`
	DurationMs int64                  `json:"duration_ms"`
	Error      string                 `json:"error,omitempty"`
}

// TotalUsage sums usage over every model in the log.
func (l *EvalLog) TotalUsage() providers.Usage {
	var total providers.Usage
	for _, u := range l.Stats.ModelUsage {
		total.Add(u)
	}
	return total
}
