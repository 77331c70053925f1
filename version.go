package embedded

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// LibraryVersion is the version of this package.
var LibraryVersion = Version{Major: 0, Minor: 4, Patch: 0}

// Version represents a semantic version, of this package or of an engine.
type Version struct {
	Major      int
	Minor      int
	Patch      int
	VersionStr string
}

// String returns the version as a string
func (v Version) String() string {
	if v.VersionStr != "" {
		return v.VersionStr
	}
	return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// AtLeast checks if the version is at least the given major, minor, patch
func (v Version) AtLeast(major, minor, patch int) bool {
	if v.Major != major {
		return v.Major > major
	}
	if v.Minor != minor {
		return v.Minor > minor
	}
	return v.Patch >= patch
}

// ParseVersion parses strings such as "1.2.0", "v1.2.0" or
// "v0.8.0-1014-gf41c0e9a4e". The original text is kept in VersionStr.
func ParseVersion(s string) (Version, error) {
	v := Version{VersionStr: strings.TrimSpace(s)}
	core := strings.TrimPrefix(v.VersionStr, "v")
	if i := strings.IndexAny(core, "-+ "); i >= 0 {
		core = core[:i]
	}
	if n, err := fmt.Sscanf(core, "%d.%d.%d", &v.Major, &v.Minor, &v.Patch); err != nil || n != 3 {
		return v, errors.Errorf("invalid version %q", s)
	}
	return v, nil
}
