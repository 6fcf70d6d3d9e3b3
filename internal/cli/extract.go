// internal/cli/extract.go
package cli

import (
	"fmt"

	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"

	"github.com/mwiater/cryptic/internal/clues"
	"github.com/mwiater/cryptic/internal/pdfpage"
	"github.com/mwiater/cryptic/internal/pipeline"
	"github.com/mwiater/cryptic/internal/util"
)

var (
	extractDump    bool
	extractColumns bool
)

// extractCmd turns clue PDFs into clue files. Given file arguments it
// prints their clues instead of writing anything.
var extractCmd = &cobra.Command{
	Use:   "extract [file.pdf...]",
	Short: "Extract clues from puzzle PDFs",
	Long: `Extract reads every PDF under <data-dir>/raw and writes the clues it finds to
<data-dir>/extracted/<name>_clues.json. With file arguments the clues of those
PDFs are printed and nothing is written.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		if len(args) > 0 {
			return printClues(cmd, args, cfg.ClueOptions())
		}

		p := pipeline.New(cfg.DataDir, cfg.ClueOptions())
		p.Out = cmd.OutOrStdout()
		results, err := p.ExtractClues()
		if err != nil {
			return err
		}
		if extractDump {
			for _, r := range results {
				if r.Err != nil {
					continue
				}
				var set clues.ClueSet
				if err := util.ReadJSON(r.Output, &set); err != nil {
					return err
				}
				pp.Println(set)
			}
		}
		return summarize(cmd, results)
	},
}

func printClues(cmd *cobra.Command, paths []string, opts clues.Options) error {
	for _, path := range paths {
		page, err := pdfpage.Load(path, 0)
		if err != nil {
			return err
		}
		set, texts := clues.ExtractColumns(page, opts)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d across, %d down\n", path, len(set.Across), len(set.Down))
		if extractColumns {
			fmt.Fprintf(cmd.OutOrStdout(), "--- across column ---\n%s\n--- down column ---\n%s\n", texts.Across, texts.Down)
		}
		pp.Println(set)
	}
	return nil
}

// summarize prints a one-line tally and fails when every file failed.
func summarize(cmd *cobra.Command, results []pipeline.FileResult) error {
	failed := pipeline.Failed(results)
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d processed, %d failed\n", len(results), failed)
	if len(results) > 0 && failed == len(results) {
		return fmt.Errorf("all %d files failed", failed)
	}
	return nil
}

func init() {
	extractCmd.Flags().BoolVar(&extractDump, "dump", false, "pretty-print each extracted clue set")
	extractCmd.Flags().BoolVar(&extractColumns, "columns", false, "with file arguments, also print the reconstructed column text")
	rootCmd.AddCommand(extractCmd)
}
