package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"aria2ctl/internal/aria2"
	"aria2ctl/internal/log"
)

var (
	addDir         string
	addConnections int
	addLimit       int
)

var addCmd = &cobra.Command{
	Use:   "add [target]...",
	Short: "Queue downloads",
	Long: `Queue one or more downloads. A target is an http/ftp URL, a magnet
link, or a path to a .torrent file. Targets are queued independently;
one failure does not abort the rest.

  aria2ctl add https://example.com/debian.iso
  aria2ctl add "magnet:?xt=urn:btih:..." --dir ~/torrents
  aria2ctl add ubuntu.torrent --connections 16 --limit 500`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettingsFn(cmd)
		if err != nil {
			return err
		}

		dir := settings.DefaultPath
		if cmd.Flags().Changed("dir") {
			dir = addDir
		}
		connections := settings.Threads
		if cmd.Flags().Changed("connections") {
			connections = addConnections
		}
		limit := settings.SpeedLimit
		if cmd.Flags().Changed("limit") {
			limit = addLimit
		}

		// flag values go through the same ranges the settings file does
		check := *settings
		check.Threads = connections
		check.SpeedLimit = limit
		if err := check.Validate(); err != nil {
			return err
		}

		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating download dir: %w", err)
		}

		opts := aria2.Options{Dir: dir, Connections: connections, SpeedLimitKB: limit}
		session := newSessionFn(settings)

		failed := 0
		for _, target := range args {
			gid, err := session.Enqueue(cmd.Context(), target, opts)
			if err != nil {
				failed++
				log.Error("add %s: %v", truncate(target, 60), err)
				continue
			}
			log.Info("queued %s (gid %s)", truncate(target, 60), gid)
		}
		if failed == len(args) {
			return fmt.Errorf("queued none of %d targets", len(args))
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVarP(&addDir, "dir", "d", "", "Download directory (default from settings)")
	addCmd.Flags().IntVarP(&addConnections, "connections", "c", 0, "Connections per download (default from settings)")
	addCmd.Flags().IntVarP(&addLimit, "limit", "l", 0, "Download speed limit in KB/s, 0 is unlimited (default from settings)")
	rootCmd.AddCommand(addCmd)
}
