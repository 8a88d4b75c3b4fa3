package cmd

import (
	"context"

	"github.com/loft-sh/log"
	"github.com/spf13/cobra"
	"github.com/userjam/userjam-go/cmd/flags"
)

// TrackCmd holds the track cmd flags
type TrackCmd struct {
	*flags.GlobalFlags

	Properties     []string
	PropertiesFile string
}

// NewTrackCmd creates a new command
func NewTrackCmd(flags *flags.GlobalFlags) *cobra.Command {
	cmd := &TrackCmd{
		GlobalFlags: flags,
	}
	trackCmd := &cobra.Command{
		Use:   "track <user-id> <event>",
		Short: "Reports that an event happened for a user",
		Args:  cobra.ExactArgs(2),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.Run(cobraCmd.Context(), args[0], args[1])
		},
	}

	trackCmd.Flags().StringArrayVarP(&cmd.Properties, "property", "p", []string{}, "Event property in the form KEY=VALUE")
	trackCmd.Flags().StringVar(&cmd.PropertiesFile, "properties-file", "", "A JSON file with event properties")
	return trackCmd
}

// Run runs the command logic
func (cmd *TrackCmd) Run(ctx context.Context, userID, event string) error {
	properties, err := parseKeyValues(cmd.Properties, cmd.PropertiesFile)
	if err != nil {
		return err
	}

	_, client, err := newClient(cmd.GlobalFlags)
	if err != nil {
		return err
	}

	future, err := client.Track(userID, event, properties)
	if err != nil {
		return err
	}

	return waitForResponse(ctx, "track", future, log.Default)
}
