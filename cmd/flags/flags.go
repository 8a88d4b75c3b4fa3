package flags

import (
	"time"

	flag "github.com/spf13/pflag"
)

type GlobalFlags struct {
	Config    string
	Key       string
	Endpoint  string
	UserID    string
	LogOutput string

	Timeout time.Duration

	Debug  bool
	Silent bool
}

// SetGlobalFlags applies the global flags
func SetGlobalFlags(flags *flag.FlagSet) *GlobalFlags {
	globalFlags := &GlobalFlags{}

	flags.StringVar(&globalFlags.Config, "config", "", "The config file to use. You can also use USERJAM_CONFIG to set this")
	flags.StringVar(&globalFlags.Key, "key", "", "The tracking key to authenticate with. You can also use USERJAM_KEY to set this")
	flags.StringVar(&globalFlags.Endpoint, "endpoint", "", "Overrides the report endpoint")
	flags.StringVar(&globalFlags.UserID, "user-id", "", "The user id to use where none is given")
	flags.StringVar(&globalFlags.LogOutput, "log-output", "plain", "The log format to use. Can be either plain, raw, time or json")
	flags.DurationVar(&globalFlags.Timeout, "timeout", 0, "The timeout of a single report request")
	flags.BoolVar(&globalFlags.Debug, "debug", false, "Prints debug output, including every report request")
	flags.BoolVar(&globalFlags.Silent, "silent", false, "Run in silent mode and prevents any userjam log output except panics & fatals")

	_ = flags.MarkHidden("endpoint")
	return globalFlags
}
