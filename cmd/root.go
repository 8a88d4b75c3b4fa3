package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/loft-sh/log"
	"github.com/spf13/cobra"
	"github.com/userjam/userjam-go/cmd/flags"
	logpkg "github.com/userjam/userjam-go/pkg/log"
	"github.com/userjam/userjam-go/pkg/telemetry"
)

const telemetryFlushTimeout = 3 * time.Second

// collector is replaced once the executed command knows its config
var collector = telemetry.NewNoopCollector()

// NewRootCmd returns a new root command
func NewRootCmd() *cobra.Command {
	return &cobra.Command{
		Use:           "userjam",
		Short:         "Report events to Userjam",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
}

func preRun(globalFlags *flags.GlobalFlags) func(*cobra.Command, []string) error {
	return func(cobraCmd *cobra.Command, _ []string) error {
		err := logpkg.Configure(log.Default, globalFlags.LogOutput, globalFlags.Debug, globalFlags.Silent)
		if err != nil {
			return err
		}

		collector = telemetry.NewNoopCollector()

		// commands that need the config report load errors themselves, auth
		// and version have to work with a broken config
		userjamConfig, client, err := newClient(globalFlags)
		if err != nil {
			log.Default.Debugf("skip telemetry: %v", err)
			return nil
		}

		collector = telemetry.NewCLICollector(client, cobraCmd, telemetry.Options{
			Enabled: userjamConfig.EnableTelemetry,
			UserID:  userjamConfig.UserID,
		}, log.Default.WithPrefix("telemetry "))
		return nil
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	// build the root command
	rootCmd := BuildRoot()

	// execute command
	err := rootCmd.Execute()

	collector.RecordCLI(err)
	ctx, cancel := context.WithTimeout(context.Background(), telemetryFlushTimeout)
	collector.Flush(ctx)
	cancel()

	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

// BuildRoot creates the root command with all subcommands
func BuildRoot() *cobra.Command {
	rootCmd := NewRootCmd()
	persistentFlags := rootCmd.PersistentFlags()
	globalFlags := flags.SetGlobalFlags(persistentFlags)
	rootCmd.PersistentPreRunE = preRun(globalFlags)

	rootCmd.AddCommand(NewAuthCmd(globalFlags))
	rootCmd.AddCommand(NewTrackCmd(globalFlags))
	rootCmd.AddCommand(NewIdentifyCmd(globalFlags))
	rootCmd.AddCommand(NewExampleCmd(globalFlags))
	rootCmd.AddCommand(NewVersionCmd())
	return rootCmd
}
