package cmd

import (
	"context"

	"github.com/loft-sh/log"
	"github.com/pkg/errors"
	"github.com/userjam/userjam-go/cmd/flags"
	"github.com/userjam/userjam-go/pkg/config"
	"github.com/userjam/userjam-go/pkg/userjam"
)

// newClient loads the config and creates a client from it. Flags win over the
// config and the environment.
func newClient(globalFlags *flags.GlobalFlags) (*config.Config, *userjam.Client, error) {
	userjamConfig, err := config.LoadConfig(globalFlags.Config)
	if err != nil {
		return nil, nil, err
	}
	if globalFlags.Key != "" {
		userjamConfig.Key = globalFlags.Key
	}
	if globalFlags.Endpoint != "" {
		userjamConfig.Endpoint = globalFlags.Endpoint
	}
	if globalFlags.Timeout > 0 {
		userjamConfig.Timeout = globalFlags.Timeout
	}
	if globalFlags.UserID != "" {
		userjamConfig.UserID = globalFlags.UserID
	}

	opts := []userjam.Option{
		userjam.WithKey(userjamConfig.Key),
		userjam.WithLogger(log.Default.WithPrefix("userjam ")),
	}
	if userjamConfig.Endpoint != "" {
		opts = append(opts, userjam.WithEndpoint(userjamConfig.Endpoint))
	}
	if userjamConfig.Timeout > 0 {
		opts = append(opts, userjam.WithTimeout(userjamConfig.Timeout))
	}

	return userjamConfig, userjam.New(opts...), nil
}

// waitForResponse waits for the request to finish and logs the outcome. A
// non-2xx status is reported as a warning, only transport and encoding
// failures are returned.
func waitForResponse(ctx context.Context, action string, future *userjam.Future, logger log.Logger) error {
	resp, err := future.Wait(ctx)
	if err != nil {
		return errors.Wrap(err, action)
	}

	if !resp.IsSuccess() {
		logger.Warnf("%s returned status %d: %s", action, resp.StatusCode, resp.Body)
		return nil
	}

	logger.Donef("%s sent (status %d)", action, resp.StatusCode)
	return nil
}
