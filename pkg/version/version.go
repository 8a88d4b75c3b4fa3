package version

import (
	"strconv"
	"strings"

	"github.com/blang/semver/v4"
)

var DevVersion = "v0.0.0"

// overridden at build time with -ldflags "-X github.com/userjam/userjam-go/pkg/version.version=..."
var version = "v0.0.0"

func GetVersion() string {
	return version
}

func IsDevVersion() bool {
	return GetVersion() == DevVersion
}

func GetMajorVersion() string {
	parsed, err := semver.ParseTolerant(GetVersion())
	if err != nil {
		s := strings.Split(strings.TrimLeft(GetVersion(), "v"), ".")
		return s[0]
	}

	return strconv.FormatUint(parsed.Major, 10)
}

func GetPrerelease() string {
	parsed, err := semver.ParseTolerant(GetVersion())
	if err != nil {
		return ""
	}

	pre := make([]string, 0, len(parsed.Pre))
	for _, part := range parsed.Pre {
		pre = append(pre, part.String())
	}
	return strings.Join(pre, ".")
}

// UserAgent is sent with every report request.
func UserAgent() string {
	return "userjam-go/" + strings.TrimLeft(GetVersion(), "v")
}
