// internal/cli/show.go
package cli

import (
	"github.com/k0kubun/pp"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/mwiater/cryptic/internal/appconfig"
	"github.com/mwiater/cryptic/internal/results"
)

// showCmd represents the 'show' command group for displaying resources.
var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Group commands for displaying resources",
}

var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON config is loaded and overridden by flags accordingly.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		appconfig.ShowConfig(cmd.OutOrStdout(), viper.ConfigFileUsed(), *cfg)
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			pp.Println(cfg)
		}
		return nil
	},
}

var showResultCmd = &cobra.Command{
	Use:   "result <run-id>",
	Short: "Show a saved result by run ID prefix",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := GetConfig()
		store, err := results.OpenStore(*cfg)
		if err != nil {
			return err
		}
		defer store.Close()

		all, err := store.All()
		if err != nil {
			return err
		}
		r, err := results.Lookup(all, args[0])
		if err != nil {
			return err
		}
		pp.Println(r)
		return nil
	},
}

func init() {
	showConfigCmd.Flags().Bool("raw", false, "also dump the merged config structure")
	showCmd.AddCommand(showConfigCmd)
	showCmd.AddCommand(showResultCmd)
	rootCmd.AddCommand(showCmd)
}
