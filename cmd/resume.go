package cmd

import (
	"github.com/spf13/cobra"

	"aria2ctl/internal/log"
)

var resumeAll bool

var resumeCmd = &cobra.Command{
	Use:   "resume [gid]...",
	Short: "Resume paused downloads",
	Long: `Resume the given paused downloads, or every paused download with --all.

  aria2ctl resume 2089b05ecca3d829
  aria2ctl resume --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateGIDArgs(resumeAll, args, "resume"); err != nil {
			return err
		}
		settings, err := loadSettingsFn(cmd)
		if err != nil {
			return err
		}
		session := newSessionFn(settings)

		if resumeAll {
			if err := session.UnpauseAll(cmd.Context()); err != nil {
				return err
			}
			log.Info("resumed all downloads")
			return nil
		}
		return eachGID(cmd.Context(), args, "resume", session.Unpause)
	},
}

func init() {
	resumeCmd.Flags().BoolVar(&resumeAll, "all", false, "Resume every paused download")
	rootCmd.AddCommand(resumeCmd)
}
