// internal/cli/dashboard.go
package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mwiater/cryptic/internal/dashboard"
	"github.com/mwiater/cryptic/internal/results"
	"github.com/mwiater/cryptic/internal/util"
)

// dashboardCmd builds the leaderboard file and shows it.
var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Build the leaderboard from saved results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		output, _ := cmd.Flags().GetString("output")
		if output == "" {
			output = cfg.DashboardOutput
		}
		interactive, _ := cmd.Flags().GetBool("interactive")

		store, err := results.OpenStore(*cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		all, err := store.All()
		if err != nil {
			return err
		}
		data := results.BuildDashboard(all, cfg.PricingTable(), cfg.LogsDir, time.Now())
		if data.Skipped > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "Skipped %d incomplete run(s)\n", data.Skipped)
		}
		if err := util.WriteJSON(output, data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Found %d unique model configurations\nResults written to %s\n\n", data.TotalResults, output)

		if interactive {
			return dashboard.RunInteractive(data)
		}
		return dashboard.Render(cmd.OutOrStdout(), data)
	},
}

func init() {
	dashboardCmd.Flags().String("output", "", "leaderboard JSON file (default: dashboardOutput)")
	dashboardCmd.Flags().Bool("interactive", false, "browse the leaderboard interactively")
	rootCmd.AddCommand(dashboardCmd)
}
