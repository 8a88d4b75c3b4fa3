package log

import (
	"bytes"
	"strings"
	"testing"

	logLib "github.com/loft-sh/log"
	"github.com/sirupsen/logrus"
	"gotest.tools/assert"
)

func TestParseFormat(t *testing.T) {
	testCases := []struct {
		name     string
		in       string
		expected logLib.Format
		err      bool
	}{
		{name: "plain", in: OutputPlain, expected: logLib.TextFormat},
		{name: "raw", in: OutputRaw, expected: logLib.RawFormat},
		{name: "json", in: OutputJSON, expected: logLib.JSONFormat},
		{name: "time", in: OutputTime, expected: logLib.TimeFormat},
		{name: "auto without terminal", in: "", expected: logLib.TimeFormat},
		{name: "unknown", in: "xml", err: true},
	}

	for _, testCase := range testCases {
		format, err := ParseFormat(testCase.in, &bytes.Buffer{})
		if testCase.err {
			assert.Assert(t, err != nil, "expected error in %s", testCase.name)
			continue
		}
		assert.NilError(t, err, testCase.name)
		assert.Equal(t, format, testCase.expected, "unequal in %s", testCase.name)
	}
}

func TestLevel(t *testing.T) {
	t.Setenv("USERJAM_DEBUG", "")

	assert.Equal(t, Level(false, false), logrus.InfoLevel)
	assert.Equal(t, Level(true, false), logrus.DebugLevel)
	assert.Equal(t, Level(false, true), logrus.FatalLevel)
	assert.Equal(t, Level(true, true), logrus.DebugLevel)

	t.Setenv("USERJAM_DEBUG", "true")
	assert.Equal(t, Level(false, false), logrus.DebugLevel)
}

func TestConfigureWritesDebug(t *testing.T) {
	t.Setenv("USERJAM_DEBUG", "")

	stdout := &bytes.Buffer{}
	logger := logLib.NewStreamLogger(stdout, &bytes.Buffer{}, logrus.InfoLevel)
	assert.NilError(t, Configure(logger, OutputRaw, true, false))

	logger.Debugf("send %s", "track")
	assert.Assert(t, strings.Contains(stdout.String(), "send track"), stdout.String())
}

func TestConfigure(t *testing.T) {
	t.Setenv("USERJAM_DEBUG", "")

	logger := logLib.NewStreamLogger(&bytes.Buffer{}, &bytes.Buffer{}, logrus.InfoLevel)
	assert.NilError(t, Configure(logger, OutputJSON, true, false))
	assert.Equal(t, logger.GetFormat(), logLib.JSONFormat)
	assert.Equal(t, logger.GetLevel(), logrus.DebugLevel)

	assert.Assert(t, Configure(logger, "yaml", false, false) != nil)
}
