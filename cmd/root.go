package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"aria2ctl/internal/config"
)

var Version = "0.0.1"

var (
	rootPort   int
	rootSecret string
)

var rootCmd = &cobra.Command{
	Use:   "aria2ctl",
	Short: "Supervise and control the aria2 download daemon",
	Long: `aria2ctl launches aria2c as a detached background daemon, talks to it
over its JSON-RPC endpoint, and keeps a live view of the download queue.

  aria2ctl start                         # bring the daemon up
  aria2ctl add https://example.com/f.iso # queue a download
  aria2ctl watch                         # live task table
  aria2ctl stop                          # take the daemon down`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("aria2ctl %s\n", Version)
		return nil
	},
}

func Execute() error {
	if err := config.Init(); err != nil {
		return err
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().IntVar(&rootPort, "port", config.DefaultPort, "RPC port, overrides the settings file")
	rootCmd.PersistentFlags().StringVar(&rootSecret, "secret", "", "RPC secret, overrides the settings file")
	rootCmd.AddCommand(versionCmd)
}
