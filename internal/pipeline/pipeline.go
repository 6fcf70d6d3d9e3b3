// internal/pipeline/pipeline.go

// Package pipeline turns the raw puzzle files under a data directory into
// benchmark files: clue pages (PDF) become data/extracted/<stem>_clues.json
// and, paired with a solved grid image, data/benchmark/<stem>_complete.json.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/fatih/color"

	"github.com/mwiater/cryptic/internal/clues"
	"github.com/mwiater/cryptic/internal/layout"
	"github.com/mwiater/cryptic/internal/logging"
	"github.com/mwiater/cryptic/internal/pdfpage"
	"github.com/mwiater/cryptic/internal/util"
	"github.com/mwiater/cryptic/internal/vision"
)

const (
	rawDir       = "raw"
	extractedDir = "extracted"
	benchmarkDir = "benchmark"

	completeSuffix = "-complete"
)

// ErrNoClues marks a puzzle page on which no clue was found.
var ErrNoClues = errors.New("no clues found")

var (
	ok   = color.New(color.FgGreen).SprintFunc()
	fail = color.New(color.FgRed).SprintFunc()
	warn = color.New(color.FgYellow).SprintFunc()
)

// AnswerReader fills a clue set from a solved grid image.
type AnswerReader interface {
	Complete(ctx context.Context, img vision.Image, set clues.ClueSet) (clues.ClueSet, clues.Answers, error)
}

// Pipeline holds the settings shared by both stages.
type Pipeline struct {
	DataDir  string
	Options  clues.Options
	LoadPage func(path string) (layout.Page, error)
	Answers  AnswerReader
	Out      io.Writer
}

// FileResult reports what happened to one input file.
type FileResult struct {
	Source string
	Output string
	Across int
	Down   int
	Err    error
}

// New returns a Pipeline reading PDFs with pdfpage.
func New(dataDir string, opts clues.Options) *Pipeline {
	return &Pipeline{
		DataDir:  dataDir,
		Options:  opts,
		LoadPage: func(path string) (layout.Page, error) { return pdfpage.Load(path, 0) },
		Out:      os.Stdout,
	}
}

func (p *Pipeline) dir(name string) string { return filepath.Join(p.DataDir, name) }

func (p *Pipeline) printf(format string, args ...any) {
	if p.Out != nil {
		fmt.Fprintf(p.Out, format, args...)
	}
}

// ExtractClues writes a clue file for every PDF in the raw directory. A
// file that fails is reported and skipped.
func (p *Pipeline) ExtractClues() ([]FileResult, error) {
	pdfs, err := filepath.Glob(filepath.Join(p.dir(rawDir), "*.pdf"))
	if err != nil {
		return nil, err
	}
	sort.Strings(pdfs)

	results := make([]FileResult, 0, len(pdfs))
	for _, path := range pdfs {
		p.printf("\nProcessing %s...\n", filepath.Base(path))
		res := p.extractOne(path)
		if res.Err != nil {
			logging.LogStage("extract", "%s: %v", path, res.Err)
			p.printf("  %s Error: %v\n", fail("✗"), res.Err)
		} else {
			p.printf("  %s Extracted %d across clues\n", ok("✓"), res.Across)
			p.printf("  %s Extracted %d down clues\n", ok("✓"), res.Down)
			p.printf("  %s Saved to %s\n", ok("✓"), res.Output)
		}
		results = append(results, res)
	}
	return results, nil
}

func (p *Pipeline) extractOne(path string) FileResult {
	res := FileResult{Source: path}
	page, err := p.LoadPage(path)
	if err != nil {
		res.Err = err
		return res
	}
	set := clues.Extract(page, p.Options)
	res.Across, res.Down = len(set.Across), len(set.Down)
	if set.Count() == 0 {
		res.Err = fmt.Errorf("%w in %s", ErrNoClues, filepath.Base(path))
		return res
	}
	res.Output = filepath.Join(p.dir(extractedDir), util.Stem(path)+"_clues.json")
	if err := util.WriteJSON(res.Output, set); err != nil {
		res.Err = err
		res.Output = ""
	}
	return res
}

// ExtractAnswers pairs every "<stem>-complete" image with its clue file and
// writes the completed benchmark file. Images without a clue file are
// skipped with a warning.
func (p *Pipeline) ExtractAnswers(ctx context.Context) ([]FileResult, error) {
	if p.Answers == nil {
		return nil, errors.New("no answer reader configured")
	}
	images, err := completedImages(p.dir(rawDir))
	if err != nil {
		return nil, err
	}

	var results []FileResult
	for _, imgPath := range images {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		p.printf("\nProcessing %s...\n", filepath.Base(imgPath))
		base := strings.TrimSuffix(util.Stem(imgPath), completeSuffix)
		cluesPath := filepath.Join(p.dir(extractedDir), base+"_clues.json")
		if _, err := os.Stat(cluesPath); err != nil {
			p.printf("  %s Warning: Clues file not found at %s\n", warn("✗"), cluesPath)
			logging.LogStage("answers", "skip %s: no clues file %s", imgPath, cluesPath)
			continue
		}

		res := p.answerOne(ctx, imgPath, cluesPath, base)
		if res.Err != nil {
			logging.LogStage("answers", "%s: %v", imgPath, res.Err)
			p.printf("  %s Error: %v\n", fail("✗"), res.Err)
		} else {
			p.printf("  %s Extracted %d across answers\n", ok("✓"), res.Across)
			p.printf("  %s Extracted %d down answers\n", ok("✓"), res.Down)
			p.printf("  %s Saved complete data to %s\n", ok("✓"), res.Output)
		}
		results = append(results, res)
	}
	return results, nil
}

func (p *Pipeline) answerOne(ctx context.Context, imgPath, cluesPath, base string) FileResult {
	res := FileResult{Source: imgPath}
	var set clues.ClueSet
	if err := util.ReadJSON(cluesPath, &set); err != nil {
		res.Err = err
		return res
	}
	p.printf("  → Loaded %d across and %d down clues\n", len(set.Across), len(set.Down))

	img, err := vision.LoadImage(imgPath)
	if err != nil {
		res.Err = err
		return res
	}
	complete, answers, err := p.Answers.Complete(ctx, img, set)
	if err != nil {
		res.Err = err
		return res
	}
	res.Across, res.Down = len(answers[clues.Across]), len(answers[clues.Down])
	res.Output = filepath.Join(p.dir(benchmarkDir), base+"_complete.json")
	if err := util.WriteJSON(res.Output, complete); err != nil {
		res.Err = err
		res.Output = ""
	}
	return res
}

// Run extracts clues, then answers.
func (p *Pipeline) Run(ctx context.Context) ([]FileResult, error) {
	rule := strings.Repeat("=", 70)
	p.printf("%s\nCryptic Crossword Extraction Pipeline\n%s\n", rule, rule)

	p.printf("\nStep 1: Extracting clues from PDFs...\n%s\n", strings.Repeat("-", 70))
	results, err := p.ExtractClues()
	if err != nil {
		return results, err
	}

	p.printf("\n\nStep 2: Extracting answers from images...\n%s\n", strings.Repeat("-", 70))
	answered, err := p.ExtractAnswers(ctx)
	return append(results, answered...), err
}

// Failed counts results that carry an error.
func Failed(results []FileResult) int {
	n := 0
	for _, r := range results {
		if r.Err != nil {
			n++
		}
	}
	return n
}

func completedImages(dir string) ([]string, error) {
	var out []string
	for _, ext := range vision.Extensions() {
		matches, err := filepath.Glob(filepath.Join(dir, "*"+completeSuffix+ext))
		if err != nil {
			return nil, err
		}
		out = append(out, matches...)
	}
	sort.Strings(out)
	return out, nil
}
