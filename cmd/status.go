package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"aria2ctl/internal/aria2"
	"aria2ctl/internal/task"
	"aria2ctl/internal/term"
)

var statusJSON bool

type taskPayload struct {
	GID             string  `json:"gid"`
	Name            string  `json:"name"`
	State           string  `json:"state"`
	Progress        float64 `json:"progress"`
	CompletedLength int64   `json:"completed_length"`
	TotalLength     int64   `json:"total_length"`
	DownloadSpeed   int64   `json:"download_speed"`
}

type statusPayload struct {
	Running       bool          `json:"running"`
	Version       string        `json:"version"`
	Port          int           `json:"port"`
	DownloadSpeed int64         `json:"download_speed"`
	UploadSpeed   int64         `json:"upload_speed"`
	NumActive     int           `json:"num_active"`
	NumWaiting    int           `json:"num_waiting"`
	NumStopped    int           `json:"num_stopped"`
	Tasks         []taskPayload `json:"tasks"`
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the daemon state and download queue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettingsFn(cmd)
		if err != nil {
			return err
		}

		sup := newSupervisorFn(daemonConfig(settings))
		if !sup.Running() {
			if statusJSON {
				fmt.Println(`{"running": false}`)
			} else {
				fmt.Println("aria2 daemon is not running.")
			}
			return nil
		}

		session := newSessionFn(settings)
		ctx := cmd.Context()

		version, err := session.Version(ctx)
		if err != nil {
			return rpcFailure(err)
		}
		stat, err := session.GlobalStat(ctx)
		if err != nil {
			return rpcFailure(err)
		}
		snaps, err := session.ListAll(ctx)
		if err != nil {
			return rpcFailure(err)
		}

		if statusJSON {
			payload := statusPayload{
				Running:       true,
				Version:       version,
				Port:          settings.RPCPort,
				DownloadSpeed: stat.DownloadSpeed,
				UploadSpeed:   stat.UploadSpeed,
				NumActive:     stat.NumActive,
				NumWaiting:    stat.NumWaiting,
				NumStopped:    stat.NumStopped,
				Tasks:         taskPayloads(snaps),
			}
			data, err := json.MarshalIndent(payload, "", "  ")
			if err != nil {
				return err
			}
			fmt.Println(string(data))
			return nil
		}

		fmt.Printf("aria2 %s running on port %d\n", version, settings.RPCPort)
		fmt.Printf("↓ %s  ↑ %s  |  %d active, %d waiting, %d stopped\n\n",
			term.FormatRate(stat.DownloadSpeed), term.FormatRate(stat.UploadSpeed),
			stat.NumActive, stat.NumWaiting, stat.NumStopped)

		if len(snaps) == 0 {
			fmt.Println("No downloads.")
			return nil
		}
		fmt.Println(renderTaskTable(snaps))
		return nil
	},
}

// rpcFailure rewrites raw transport errors into something a user can act
// on; the process exists, so the usual cause is a secret or port mismatch.
func rpcFailure(err error) error {
	var connErr *aria2.ConnectionError
	if errors.As(err, &connErr) {
		return fmt.Errorf("daemon is running but rpc is not answering: %s", connErr.Hint())
	}
	var rpcErr *aria2.RPCError
	if errors.As(err, &rpcErr) {
		return fmt.Errorf("daemon rejected the call, check rpc_secret: %s", rpcErr.Message)
	}
	return err
}

func taskPayloads(snaps []task.Snapshot) []taskPayload {
	out := make([]taskPayload, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, taskPayload{
			GID:             s.GID,
			Name:            s.Name,
			State:           string(s.State),
			Progress:        s.Progress(),
			CompletedLength: s.CompletedLength,
			TotalLength:     s.TotalLength,
			DownloadSpeed:   s.DownloadSpeed,
		})
	}
	return out
}

func renderTaskTable(snaps []task.Snapshot) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"GID", "NAME", "STATE", "PROGRESS", "SIZE", "SPEED"})
	for _, s := range snaps {
		tw.AppendRow(table.Row{
			shortGID(s.GID),
			truncate(s.Name, 40),
			stateCell(s.State),
			term.FormatPercent(s.Progress()),
			term.FormatBytes(s.TotalLength),
			term.FormatRate(s.DownloadSpeed),
		})
	}
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 5, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

func stateCell(s task.State) string {
	switch s {
	case task.StateActive:
		return term.Green(string(s))
	case task.StatePaused:
		return term.Yellow(string(s))
	case task.StateError:
		return term.Red(string(s))
	case task.StateComplete:
		return term.Cyan(string(s))
	default:
		return term.Dim(string(s))
	}
}

// shortGID trims aria2's 16-hex-digit gids for table display; the full
// gid stays available via --json.
func shortGID(gid string) string {
	if len(gid) > 8 {
		return gid[:8]
	}
	return gid
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(statusCmd)
}
