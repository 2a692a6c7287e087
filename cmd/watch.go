package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"aria2ctl/internal/config"
	"aria2ctl/internal/daemon"
	"aria2ctl/internal/log"
	"aria2ctl/internal/poller"
	"aria2ctl/internal/task"
	"aria2ctl/internal/term"
)

var (
	watchInterval   time.Duration
	watchStopDaemon bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch downloads in a live-updating table",
	Long: `Poll the daemon and redraw the download table on every refresh.
Ctrl-C exits. The daemon keeps running unless --stop-daemon also takes
it down on exit.

  aria2ctl watch
  aria2ctl watch --interval 5s --stop-daemon`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettingsFn(cmd)
		if err != nil {
			return err
		}

		session := newSessionFn(settings)
		registry := task.NewRegistry()
		p := poller.New(session, registry, watchInterval)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		go p.Run(ctx)

		clearScreen := term.IsTerminal(os.Stdout)
		for {
			select {
			case <-ctx.Done():
				fmt.Println()
				if watchStopDaemon {
					return stopDaemonAfterWatch(settings)
				}
				return nil
			case snaps := <-p.Updates():
				drawWatchFrame(snaps, registry.UpdatedAt(), clearScreen)
			}
		}
	},
}

func drawWatchFrame(snaps []task.Snapshot, updatedAt time.Time, clearScreen bool) {
	if clearScreen {
		fmt.Print("\033[H\033[2J")
	}
	fmt.Printf("%s  %s\n\n", term.Magenta("aria2ctl watch"), term.Dim("updated "+updatedAt.Format("15:04:05")))

	if len(snaps) == 0 {
		fmt.Println("No downloads. Queue one with 'aria2ctl add <url>'.")
	} else {
		fmt.Println(renderTaskTable(snaps))
		var speed int64
		active := 0
		for _, s := range snaps {
			speed += s.DownloadSpeed
			if s.State == task.StateActive {
				active++
			}
		}
		fmt.Printf("\n%d downloads, %d active, ↓ %s\n", len(snaps), active, term.FormatRate(speed))
	}
	fmt.Println(term.Dim("ctrl-c to quit"))
}

func stopDaemonAfterWatch(settings *config.Settings) error {
	// the signal context is spent; teardown gets its own deadline
	ctx, cancel := context.WithTimeout(context.Background(), shutdownWait)
	defer cancel()
	if err := newSessionFn(settings).Shutdown(ctx); err != nil {
		log.Warn("rpc shutdown failed, terminating process: %v", err)
	}

	state, err := newSupervisorFn(daemonConfig(settings)).Stop()
	if err != nil {
		return err
	}
	if state == daemon.Stopped {
		log.Info("aria2 daemon stopped")
	}
	return nil
}

func init() {
	watchCmd.Flags().DurationVar(&watchInterval, "interval", poller.DefaultInterval, "Poll interval")
	watchCmd.Flags().BoolVar(&watchStopDaemon, "stop-daemon", false, "Stop the daemon when the watch exits")
	rootCmd.AddCommand(watchCmd)
}
