package cmd

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"aria2ctl/internal/daemon"
	"aria2ctl/internal/log"
)

// shutdownWait bounds the RPC drain attempt; a wedged daemon falls
// through to process-level termination.
const shutdownWait = 3 * time.Second

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the aria2 daemon",
	Long: `Take the aria2 daemon down: ask it to shut down over RPC so active
downloads flush their control files, then terminate whatever is left.

  aria2ctl stop`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettingsFn(cmd)
		if err != nil {
			return err
		}

		sup := newSupervisorFn(daemonConfig(settings))
		if sup.Running() {
			ctx, cancel := context.WithTimeout(cmd.Context(), shutdownWait)
			if err := newSessionFn(settings).Shutdown(ctx); err != nil {
				log.Warn("rpc shutdown failed, terminating process: %v", err)
			}
			cancel()
		}

		state, err := sup.Stop()
		if err != nil {
			return err
		}
		if state == daemon.NotRunning {
			log.Info("aria2 daemon is not running")
			return nil
		}
		log.Info("aria2 daemon stopped")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stopCmd)
}
