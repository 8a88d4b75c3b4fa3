package telemetry

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func getFlags(command *cobra.Command) []string {
	setFlags := []string{}
	if command == nil {
		return setFlags
	}

	command.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed {
			setFlags = append(setFlags, f.Name)
		}
	})

	return setFlags
}

func shouldSkipCommand(cmd string) bool {
	for _, exception := range EventsExceptions {
		if cmd == exception {
			return true
		}
	}
	return false
}
