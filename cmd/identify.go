package cmd

import (
	"context"

	"github.com/loft-sh/log"
	"github.com/spf13/cobra"
	"github.com/userjam/userjam-go/cmd/flags"
)

// IdentifyCmd holds the identify cmd flags
type IdentifyCmd struct {
	*flags.GlobalFlags

	Traits     []string
	TraitsFile string
}

// NewIdentifyCmd creates a new command
func NewIdentifyCmd(flags *flags.GlobalFlags) *cobra.Command {
	cmd := &IdentifyCmd{
		GlobalFlags: flags,
	}
	identifyCmd := &cobra.Command{
		Use:   "identify <user-id>",
		Short: "Reports traits of a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.Run(cobraCmd.Context(), args[0])
		},
	}

	identifyCmd.Flags().StringArrayVarP(&cmd.Traits, "trait", "t", []string{}, "User trait in the form KEY=VALUE")
	identifyCmd.Flags().StringVar(&cmd.TraitsFile, "traits-file", "", "A JSON file with user traits")
	return identifyCmd
}

// Run runs the command logic
func (cmd *IdentifyCmd) Run(ctx context.Context, userID string) error {
	traits, err := parseKeyValues(cmd.Traits, cmd.TraitsFile)
	if err != nil {
		return err
	}

	_, client, err := newClient(cmd.GlobalFlags)
	if err != nil {
		return err
	}

	future, err := client.Identify(userID, traits)
	if err != nil {
		return err
	}

	return waitForResponse(ctx, "identify", future, log.Default)
}
