package cmd

import (
	"github.com/spf13/cobra"

	"aria2ctl/internal/log"
)

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Clear finished downloads from the list",
	Long: `Drop completed, errored and removed downloads from the daemon's result
list. Active and paused downloads are untouched.

  aria2ctl clear`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettingsFn(cmd)
		if err != nil {
			return err
		}
		if err := newSessionFn(settings).PurgeResults(cmd.Context()); err != nil {
			return err
		}
		log.Info("cleared finished downloads")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(clearCmd)
}
