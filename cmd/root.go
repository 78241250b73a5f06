package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	incidentcmd "github.com/entnt/dentdesk/cmd/incident"
	patientcmd "github.com/entnt/dentdesk/cmd/patient"
	reportcmd "github.com/entnt/dentdesk/cmd/report"
	sessioncmd "github.com/entnt/dentdesk/cmd/session"
	systemcmd "github.com/entnt/dentdesk/cmd/system"
	watchcmd "github.com/entnt/dentdesk/cmd/watch"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "dentdesk",
	Short: "DentDesk patient and appointment management for a small dental practice.",
	Long: `DentDesk manages the patient roster, appointments and attachments of a
small dental practice. All data lives in a shared local store; every process
pointed at the same store observes the same state.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	// Attach top-level command trees.
	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(sessioncmd.NewSessionCommand())
	rootCmd.AddCommand(patientcmd.NewPatientCommand())
	rootCmd.AddCommand(incidentcmd.NewIncidentCommand())
	rootCmd.AddCommand(reportcmd.NewReportCommand())
	rootCmd.AddCommand(watchcmd.NewWatchCommand())
}
