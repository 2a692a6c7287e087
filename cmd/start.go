package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"aria2ctl/internal/daemon"
	"aria2ctl/internal/log"
)

// readyTimeout bounds the wait for a freshly spawned daemon to answer
// its first RPC call.
const readyTimeout = 10 * time.Second

var startConf string

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the aria2 daemon",
	Long: `Launch aria2c as a detached background daemon with RPC enabled, then
wait until it answers.

  aria2ctl start
  aria2ctl start --conf ~/.config/aria2/aria2.conf`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettingsFn(cmd)
		if err != nil {
			return err
		}

		cfg := daemonConfig(settings)
		cfg.ExtraConfPath = startConf

		sup := newSupervisorFn(cfg)
		state, err := sup.Start(cfg)
		if err != nil {
			if errors.Is(err, daemon.ErrExecutableNotFound) {
				return fmt.Errorf("aria2c not found; install it or point aria2ctl at it with 'aria2ctl config set aria2_path /path/to/aria2c'")
			}
			return err
		}
		if state == daemon.AlreadyRunning {
			log.Info("aria2 daemon already running on port %d", settings.RPCPort)
			return nil
		}

		version, err := newSessionFn(settings).WaitReady(cmd.Context(), readyTimeout)
		if err != nil {
			return fmt.Errorf("daemon started but rpc is not answering: %w", err)
		}
		log.Info("aria2 %s started on port %d", version, settings.RPCPort)
		return nil
	},
}

func init() {
	startCmd.Flags().StringVar(&startConf, "conf", "", "Extra aria2 config file to pass to the daemon")
	rootCmd.AddCommand(startCmd)
}
