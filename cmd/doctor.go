package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"aria2ctl/internal/doctor"
	"aria2ctl/internal/log"
	"aria2ctl/internal/term"
)

var doctorRunFn = doctor.Run

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose setup issues",
	Long: `Run diagnostic checks over the settings file, the aria2c executable
and the daemon's RPC endpoint, and print a pass/warn/fail checklist.

  aria2ctl doctor`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		settings, err := loadSettingsFn(cmd)
		if err != nil {
			return err
		}

		report := doctorRunFn(settings)
		printReport(report)
		if !report.Healthy() {
			log.Warn("some checks failed")
		}
		return nil
	},
}

func printReport(report doctor.Report) {
	for _, r := range report.Results {
		fmt.Printf("  %s  %-20s %s\n", statusIcon(r.Status), r.Name, r.Message)
	}
}

func statusIcon(s doctor.Status) string {
	switch s {
	case doctor.Pass:
		return term.CheckMark()
	case doctor.Warn:
		return term.WarnMark()
	case doctor.Fail:
		return term.CrossMark()
	default:
		return "?"
	}
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
