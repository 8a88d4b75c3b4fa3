package log

import (
	"io"
	"os"

	logLib "github.com/loft-sh/log"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	OutputPlain = "plain"
	OutputRaw   = "raw"
	OutputJSON  = "json"
	OutputTime  = "time"
)

// ParseFormat maps a --log-output value to a stream logger format. An empty
// value picks plain output on a terminal and timestamped output otherwise.
func ParseFormat(output string, out io.Writer) (logLib.Format, error) {
	switch output {
	case OutputPlain:
		return logLib.TextFormat, nil
	case OutputRaw:
		return logLib.RawFormat, nil
	case OutputJSON:
		return logLib.JSONFormat, nil
	case OutputTime:
		return logLib.TimeFormat, nil
	case "":
		if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
			return logLib.TextFormat, nil
		}
		return logLib.TimeFormat, nil
	}

	return logLib.TextFormat, errors.Errorf("unknown log output %q, expected one of plain, raw, json or time", output)
}

// Level returns the log level for the --debug and --silent flags.
func Level(debug, silent bool) logrus.Level {
	level := logrus.InfoLevel
	if silent {
		level = logrus.FatalLevel
	}
	if debug || os.Getenv("USERJAM_DEBUG") == "true" {
		level = logrus.DebugLevel
	}
	return level
}

// Configure applies the CLI flags to an existing stream logger, usually log.Default.
func Configure(logger *logLib.StreamLogger, output string, debug, silent bool) error {
	format, err := ParseFormat(output, os.Stdout)
	if err != nil {
		return err
	}

	logger.SetFormat(format)
	logger.SetLevel(Level(debug, silent))
	return nil
}
