// internal/cli/eval.go
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mwiater/cryptic/internal/eval"
	"github.com/mwiater/cryptic/internal/results"
)

var evalOpts eval.Options

// evalCmd runs the benchmark against one model and saves the result.
var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Run the cryptic crossword benchmark against a model",
	Example: `  cryptic eval --model openai/gpt-4o
  cryptic eval --model google/gemini-2.5-pro --benchmark-file data/benchmark/29001_complete.json
  cryptic eval --model mockllm/model --limit 10`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		opts := evalOpts
		opts.Out = cmd.OutOrStdout()

		logs, runErr := eval.Run(cmd.Context(), cfg, opts)
		if opts.NoSave {
			return runErr
		}

		store, err := results.OpenStore(*cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		for _, log := range logs {
			if log == nil || log.Location == "" {
				continue
			}
			path, r, err := results.Save(log.Location, store, cfg.ResultsDir, cfg.PricingTable())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nLog saved to: %s\nResults saved to: %s\n", log.Location, path)
			fmt.Fprintf(cmd.OutOrStdout(), "  Accuracy: %.3f ± %.3f  Samples: %d/%d\n",
				r.Metrics.Accuracy, r.Metrics.StdErr, r.Samples.Completed, r.Samples.Total)
		}
		return runErr
	},
}

// saveResultsCmd turns an existing eval log into a result.
var saveResultsCmd = &cobra.Command{
	Use:   "save-results",
	Short: "Save the result of an eval log",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		logPath, _ := cmd.Flags().GetString("log")
		outputDir, _ := cmd.Flags().GetString("output-dir")
		if outputDir == "" {
			outputDir = cfg.ResultsDir
		}

		store, err := results.OpenStore(*cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		path, r, err := results.Save(logPath, store, outputDir, cfg.PricingTable())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Results saved to %s\n  Model: %s\n  Task: %s\n  Accuracy: %.3f ± %.3f\n  Samples: %d/%d\n",
			path, r.Model, r.Task, r.Metrics.Accuracy, r.Metrics.StdErr, r.Samples.Completed, r.Samples.Total)
		return nil
	},
}

func init() {
	evalCmd.Flags().StringVar(&evalOpts.Model, "model", "", "model as provider/name, e.g. openai/gpt-4o")
	evalCmd.Flags().StringVar(&evalOpts.Task, "task", eval.DefaultTask, "task name")
	evalCmd.Flags().IntVar(&evalOpts.Limit, "limit", 0, "limit the number of samples")
	evalCmd.Flags().StringVar(&evalOpts.BenchmarkFile, "benchmark-file", "", "evaluate a single benchmark file")
	evalCmd.Flags().BoolVar(&evalOpts.NoSave, "no-save", false, "do not write the eval log or result")
	_ = evalCmd.MarkFlagRequired("model")
	rootCmd.AddCommand(evalCmd)

	saveResultsCmd.Flags().String("log", "", "path to the eval log")
	saveResultsCmd.Flags().String("output-dir", "", "directory for the result file (default: resultsDir)")
	_ = saveResultsCmd.MarkFlagRequired("log")
	rootCmd.AddCommand(saveResultsCmd)
}
