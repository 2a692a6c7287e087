package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"aria2ctl/internal/log"
)

var pauseAll bool

var pauseCmd = &cobra.Command{
	Use:   "pause [gid]...",
	Short: "Pause downloads",
	Long: `Pause the given downloads, or every active download with --all.

  aria2ctl pause 2089b05ecca3d829
  aria2ctl pause --all`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := validateGIDArgs(pauseAll, args, "pause"); err != nil {
			return err
		}
		settings, err := loadSettingsFn(cmd)
		if err != nil {
			return err
		}
		session := newSessionFn(settings)

		if pauseAll {
			if err := session.PauseAll(cmd.Context()); err != nil {
				return err
			}
			log.Info("paused all downloads")
			return nil
		}
		return eachGID(cmd.Context(), args, "pause", session.Pause)
	},
}

// validateGIDArgs enforces the gids-or---all contract shared by pause
// and resume.
func validateGIDArgs(all bool, args []string, verb string) error {
	if !all && len(args) == 0 {
		return fmt.Errorf("nothing to %s: pass gids or --all", verb)
	}
	if all && len(args) > 0 {
		return errors.New("--all does not take gids")
	}
	return nil
}

// eachGID applies op to every gid, logging per-gid outcomes. It fails
// only when every call failed, mirroring add's partial-failure contract.
func eachGID(ctx context.Context, gids []string, verb string, op func(context.Context, string) error) error {
	failed := 0
	for _, gid := range gids {
		if err := op(ctx, gid); err != nil {
			failed++
			log.Error("%s %s: %v", verb, gid, err)
			continue
		}
		log.Info("%sd %s", verb, gid)
	}
	if failed == len(gids) {
		return fmt.Errorf("could not %s any of %d downloads", verb, len(gids))
	}
	return nil
}

func init() {
	pauseCmd.Flags().BoolVar(&pauseAll, "all", false, "Pause every active download")
	rootCmd.AddCommand(pauseCmd)
}
