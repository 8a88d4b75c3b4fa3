package cmd

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/loft-sh/log"
	"github.com/spf13/cobra"
	"github.com/userjam/userjam-go/cmd/flags"
	"github.com/userjam/userjam-go/pkg/userjam"
	"golang.org/x/sync/errgroup"
)

const exampleUserID = "user_12345"

// ExampleCmd holds the example cmd flags
type ExampleCmd struct {
	*flags.GlobalFlags
}

// NewExampleCmd creates a new command
func NewExampleCmd(flags *flags.GlobalFlags) *cobra.Command {
	cmd := &ExampleCmd{
		GlobalFlags: flags,
	}
	exampleCmd := &cobra.Command{
		Use:   "example [api-key]",
		Short: "Sends an example identify and track request",
		Long: `Sends an example identify and track request concurrently and waits for both.

If no key is given or configured, a random one is generated and the endpoint
will most likely reject both requests.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cobraCmd *cobra.Command, args []string) error {
			return cmd.Run(cobraCmd.Context(), args)
		},
	}

	return exampleCmd
}

// Run runs the command logic
func (cmd *ExampleCmd) Run(ctx context.Context, args []string) error {
	userjamConfig, client, err := newClient(cmd.GlobalFlags)
	if err != nil {
		return err
	}

	logger := log.Default
	if len(args) > 0 && args[0] != "" {
		client.Auth(args[0])
		logger.Info("Using provided tracking key")
	} else if client.Key() == "" {
		client.Auth(uuid.New().String())
		logger.Infof("No tracking key provided, using generated fake key %s", client.Key())
		logger.Info("Tip: You can pass your real key as argument or run 'userjam auth'")
	}

	userID := userjamConfig.UserID
	if userID == "" {
		userID = exampleUserID
	}

	logger.Info("Sending identify request...")
	identifyFuture, err := client.Identify(userID, userjam.Traits{
		"name":       "Jane Doe",
		"email":      "jane@example.com",
		"created_at": userjam.FormatTimestamp(time.Now()),
		"is_active":  true,
	})
	if err != nil {
		return err
	}

	logger.Info("Sending track request...")
	trackFuture, err := client.Track(userID, "Button Clicked", userjam.Properties{
		"button_id": "signup_header",
		"page":      "landing_page",
	})
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return waitForResponse(ctx, "identify", identifyFuture, logger)
	})
	g.Go(func() error {
		return waitForResponse(ctx, "track", trackFuture, logger)
	})
	err = g.Wait()
	if err != nil {
		return err
	}

	logger.Done("Example complete")
	return nil
}
