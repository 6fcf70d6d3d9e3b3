// internal/eval/eval.go

// Package eval runs the cryptic crossword task against one or more models
// and records each run as an EvalLog.
package eval

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/mwiater/cryptic/internal/appconfig"
	"github.com/mwiater/cryptic/internal/dataset"
	"github.com/mwiater/cryptic/internal/logging"
	"github.com/mwiater/cryptic/internal/providerfactory"
	"github.com/mwiater/cryptic/internal/providers"
	"github.com/mwiater/cryptic/internal/scoring"
	"github.com/mwiater/cryptic/internal/util"
)

var (
	correctResult   = color.New(color.FgGreen).SprintFunc()
	incorrectResult = color.New(color.FgRed).SprintFunc()
)

// Options selects what to run.
type Options struct {
	// Model is "provider/name"; empty runs every configured model.
	Model         string
	Limit         int
	BenchmarkFile string
	Task          string
	// NoSave skips writing logs to the logs directory.
	NoSave bool
	Out    io.Writer
	// NewProvider defaults to providerfactory.NewChatProvider.
	NewProvider func(*appconfig.Config) (providers.ChatProvider, error)
}

// Run evaluates every selected model concurrently, one goroutine per model,
// and returns their logs in selection order.
func Run(ctx context.Context, cfg *appconfig.Config, opts Options) ([]*EvalLog, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}
	out := opts.Out
	if out == nil {
		out = io.Discard
	}

	task, err := BuildTask(opts.Task, cfg.DataDir, opts.BenchmarkFile)
	if err != nil {
		return nil, err
	}
	task.Dataset = task.Dataset.Limit(opts.Limit)

	runners, err := selectRunners(cfg.Hosts, opts.Model)
	if err != nil {
		return nil, err
	}

	runCfg := *cfg
	runCfg.Hosts = make([]appconfig.Host, 0, len(runners))
	for _, r := range runners {
		runCfg.Hosts = append(runCfg.Hosts, r.host)
	}
	newProvider := opts.NewProvider
	if newProvider == nil {
		newProvider = providerfactory.NewChatProvider
	}
	provider, err := newProvider(&runCfg)
	if err != nil {
		return nil, fmt.Errorf("error creating provider: %w", err)
	}
	defer provider.Close()

	for _, r := range runners {
		logging.LogStage("eval", "ensuring model %s is ready on host %s", r.model, r.host.Name)
		if err := provider.EnsureModelReady(ctx, r.host, r.model); err != nil {
			return nil, fmt.Errorf("error ensuring model %s is ready on host %s: %w", r.model, r.host.Name, err)
		}
	}

	logs := make([]*EvalLog, len(runners))
	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)
	for i, r := range runners {
		wg.Add(1)
		go func(i int, r runner) {
			defer wg.Done()
			log := runOne(ctx, provider, cfg.RequestTimeout(), task, r, func(format string, args ...any) {
				mu.Lock()
				defer mu.Unlock()
				fmt.Fprintf(out, format, args...)
			})
			mu.Lock()
			logs[i] = log
			mu.Unlock()
		}(i, r)
	}
	wg.Wait()

	if !opts.NoSave {
		for _, log := range logs {
			path, err := WriteLog(cfg.LogsDir, log)
			if err != nil {
				return logs, err
			}
			log.Location = path
			logging.LogStage("eval", "log for %s written to %s", log.Eval.Model, path)
		}
	}
	return logs, ctx.Err()
}

func runOne(ctx context.Context, provider providers.ChatProvider, timeout time.Duration, task Task, r runner, printf func(string, ...any)) *EvalLog {
	log := &EvalLog{
		Version: LogVersion,
		Status:  StatusSuccess,
		Eval: Spec{
			RunID:     uuid.NewString(),
			Task:      task.Name,
			Model:     r.ID(),
			ModelArgs: modelArgs(r.host.Parameters),
			Host:      providers.HostIdentifier(r.host),
			Created:   time.Now(),
			Dataset:   DatasetInfo{Files: task.Dataset.Files, Samples: len(task.Dataset.Samples)},
		},
		Stats: Stats{StartedAt: time.Now(), ModelUsage: map[string]providers.Usage{}},
	}

	systemPrompt := task.SystemMessage
	if custom := strings.TrimSpace(r.host.SystemPrompt); custom != "" {
		systemPrompt = custom
	}

	total := len(task.Dataset.Samples)
	var scores []scoring.Score
	var usage providers.Usage
	for i, sample := range task.Dataset.Samples {
		if err := ctx.Err(); err != nil {
			log.Status = StatusCancelled
			log.Error = err.Error()
			break
		}
		res := runSample(ctx, provider, timeout, r, systemPrompt, sample)
		log.Samples = append(log.Samples, res)
		usage.Add(res.Usage)

		if res.Error != "" {
			log.Status = StatusError
			printf("[%d/%d] %s - %s error=%s\n", i+1, total, r.ID(), incorrectResult("✗"), res.Error)
			continue
		}
		scores = append(scores, *res.Score)
		verdict := correctResult("✓")
		if !res.Score.Value {
			verdict = incorrectResult("✗")
		}
		printf("[%d/%d] %s - %s response=%q expected=%q\n", i+1, total, r.ID(), verdict, util.TruncateRunes(res.Output, 60), sample.Target)
	}

	log.Stats.CompletedAt = time.Now()
	log.Stats.ModelUsage[r.ID()] = usage
	log.Results = Results{
		TotalSamples:     total,
		CompletedSamples: len(scores),
		Metrics:          scoring.Summarize(scores),
	}
	if log.Status == StatusError && log.Error == "" {
		log.Error = fmt.Sprintf("%d of %d samples failed", total-len(scores), total)
	}
	printf("%s - accuracy %.3f ± %.3f (%d/%d samples)\n", r.ID(), log.Results.Metrics.Accuracy, log.Results.Metrics.StdErr, len(scores), total)
	return log
}

func runSample(ctx context.Context, provider providers.ChatProvider, timeout time.Duration, r runner, systemPrompt string, sample dataset.Sample) SampleResult {
	res := SampleResult{
		ID:       sample.ID,
		Input:    sample.Input,
		Target:   sample.Target,
		Metadata: sample.Metadata,
	}

	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	started := time.Now()
	output, meta, err := providers.Complete(reqCtx, provider, providers.StreamRequest{
		Host:             r.host,
		Model:            r.model,
		SystemPrompt:     systemPrompt,
		Parameters:       r.host.Parameters,
		History:          []providers.ChatMessage{{Role: "user", Content: sample.Input}},
		DisableStreaming: true,
	})
	res.DurationMs = time.Since(started).Milliseconds()
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = fmt.Errorf("request exceeded %s: %w", timeout, err)
		}
		res.Error = err.Error()
		return res
	}

	res.Output = strings.TrimSpace(output)
	res.Usage = meta.Usage
	score := scoring.Grade(res.Output, sample.Target)
	res.Score = &score
	return res
}

// LogFileName names the log of a run after its start time, task and run ID.
func LogFileName(log *EvalLog) string {
	task := strings.ReplaceAll(log.Eval.Task, "_", "-")
	id := log.Eval.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("%s_%s_%s.json", log.Eval.Created.Format("2006-01-02T15-04-05"), task, id)
}

// WriteLog saves log under dir and returns its path.
func WriteLog(dir string, log *EvalLog) (string, error) {
	path := filepath.Join(dir, LogFileName(log))
	if err := util.WriteJSON(path, log); err != nil {
		return "", fmt.Errorf("error writing eval log: %w", err)
	}
	return path, nil
}

// ReadLog loads an eval log written by WriteLog.
func ReadLog(path string) (*EvalLog, error) {
	var log EvalLog
	if err := util.ReadJSON(path, &log); err != nil {
		return nil, fmt.Errorf("error reading eval log %s: %w", path, err)
	}
	log.Location = path
	return &log, nil
}
