// internal/cli/models.go
package cli

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/cryptic/internal/models"
)

// modelsCmd lists the models eval can run and whether their hosts serve them.
var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List configured models and their availability",
	RunE: func(cmd *cobra.Command, args []string) error {
		return models.List(cmd.Context(), GetConfig(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(modelsCmd)
}
