package telemetry

import (
	"context"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/loft-sh/log"
	"github.com/moby/term"
	"github.com/spf13/cobra"
	"github.com/userjam/userjam-go/pkg/encoding"
	"github.com/userjam/userjam-go/pkg/userjam"
	"github.com/userjam/userjam-go/pkg/version"
)

const (
	// EventCLICommand is tracked once per CLI command run
	EventCLICommand = "cli_command"

	// DisableEnvVar turns telemetry off even if the config enables it
	DisableEnvVar = "USERJAM_DISABLE_TELEMETRY"
)

// commands that would only report themselves
var EventsExceptions = []string{
	"userjam version",
	"userjam completion",
}

type CLICollector interface {
	RecordCLI(err error)

	// Flush waits until all recorded events were sent or ctx is done
	Flush(ctx context.Context)
}

type Options struct {
	// Enabled is the user's opt-in from the config. Telemetry is off by default.
	Enabled bool

	// UserID to report under, an anonymous machine id is used if empty
	UserID string
}

// NewCLICollector returns a collector that reports the run of cmd through
// client. Events go to the project of the client's key, so a noop collector is
// returned unless the user opted in. It is also a noop on development builds,
// when DisableEnvVar is set or when the client has no key.
func NewCLICollector(client *userjam.Client, cmd *cobra.Command, options Options, logger log.Logger) CLICollector {
	if !options.Enabled || os.Getenv(DisableEnvVar) == "true" || version.IsDevVersion() || client == nil || client.Key() == "" {
		return &noopCollector{}
	}

	return newCLICollector(client, cmd, options.UserID, logger)
}

func newCLICollector(client *userjam.Client, cmd *cobra.Command, userID string, logger log.Logger) *cliCollector {
	if userID == "" {
		userID = encoding.AnonymousUserID(logger)
	}

	return &cliCollector{
		client:      client,
		cmd:         cmd,
		userID:      userID,
		executionID: encoding.NewExecutionID(),
		startTime:   time.Now(),
		log:         logger,
	}
}

type cliCollector struct {
	client      *userjam.Client
	cmd         *cobra.Command
	userID      string
	executionID string
	startTime   time.Time

	m       sync.Mutex
	futures []*userjam.Future

	log log.Logger
}

func (d *cliCollector) RecordCLI(err error) {
	if d.cmd == nil {
		d.log.Debug("no command found, skipping")
		return
	}
	cmd := d.cmd.CommandPath()
	if shouldSkipCommand(cmd) {
		return
	}

	timezone, _ := time.Now().Zone()
	properties := userjam.Properties{
		"command":        cmd,
		"execution_id":   d.executionID,
		"version":        version.GetVersion(),
		"version_major":  version.GetMajorVersion(),
		"prerelease":     version.GetPrerelease() != "",
		"is_ci":          isCIEnvironment(),
		"is_interactive": isInteractiveShell(),
		"set_flags":      getFlags(d.cmd),
		"os_name":        runtime.GOOS,
		"os_arch":        runtime.GOARCH,
		"timezone":       timezone,
		"duration_ms":    time.Since(d.startTime).Milliseconds(),
		"success":        err == nil,
	}
	if err != nil {
		properties["error"] = err.Error()
	}

	future, trackErr := d.client.Track(d.userID, EventCLICommand, properties)
	if trackErr != nil {
		d.log.Debugf("record cli command: %v", trackErr)
		return
	}

	d.m.Lock()
	d.futures = append(d.futures, future)
	d.m.Unlock()
}

func (d *cliCollector) Flush(ctx context.Context) {
	d.m.Lock()
	futures := d.futures
	d.futures = nil
	d.m.Unlock()

	for _, future := range futures {
		resp, err := future.Wait(ctx)
		if err != nil {
			d.log.Debugf("send telemetry: %v", err)
			continue
		}
		if !resp.IsSuccess() {
			d.log.Debugf("telemetry request returned status %d", resp.StatusCode)
		}
	}
}

// isCIEnvironment looks up a couple of well-known CI env vars
func isCIEnvironment() bool {
	ciIndicators := []string{
		"CI",                     // Generic CI variable
		"TRAVIS",                 // Travis CI
		"GITHUB_ACTIONS",         // GitHub Actions
		"GITLAB_CI",              // GitLab CI
		"CIRCLECI",               // CircleCI
		"TEAMCITY_VERSION",       // TeamCity
		"BITBUCKET_BUILD_NUMBER", // Bitbucket
	}

	for _, key := range ciIndicators {
		if _, exists := os.LookupEnv(key); exists {
			return true
		}
	}
	return false
}

// isInteractiveShell checks if the current shell is in interactive mode or not.
// Can be combined with `isCi` to narrow down usage
func isInteractiveShell() bool {
	return term.IsTerminal(os.Stdin.Fd())
}
