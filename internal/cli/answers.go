// internal/cli/answers.go
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/mwiater/cryptic/internal/appconfig"
	"github.com/mwiater/cryptic/internal/pipeline"
	"github.com/mwiater/cryptic/internal/vision"
)

// answersCmd reads answers off solved grid images.
var answersCmd = &cobra.Command{
	Use:   "answers",
	Short: "Extract answers from solved grid images",
	Long: `Answers pairs every <name>-complete.<png|jpg|jpeg|gif|webp> image under
<data-dir>/raw with <data-dir>/extracted/<name>_clues.json, asks the vision model
for the answers and writes <data-dir>/benchmark/<name>_complete.json.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		p, err := newPipeline(cmd.Context(), cmd, cfg)
		if err != nil {
			return err
		}
		results, err := p.ExtractAnswers(cmd.Context())
		if err != nil {
			return err
		}
		return summarize(cmd, results)
	},
}

// pipelineCmd runs both extraction stages.
var pipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Extract clues, then answers",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		p, err := newPipeline(cmd.Context(), cmd, cfg)
		if err != nil {
			return err
		}
		results, err := p.Run(cmd.Context())
		if err != nil {
			return err
		}
		return summarize(cmd, results)
	},
}

func newPipeline(ctx context.Context, cmd *cobra.Command, cfg *appconfig.Config) (*pipeline.Pipeline, error) {
	gen, err := vision.NewGeminiGenerator(ctx, cfg.Vision)
	if err != nil {
		return nil, err
	}
	p := pipeline.New(cfg.DataDir, cfg.ClueOptions())
	p.Out = cmd.OutOrStdout()
	p.Answers = vision.Extractor{Generator: gen}
	return p, nil
}

func init() {
	rootCmd.AddCommand(answersCmd)
	rootCmd.AddCommand(pipelineCmd)
}
