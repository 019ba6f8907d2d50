package manifest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arthur-debert/bg3compat/pkg/errors"
)

// DefaultVersion is used when neither the user nor an existing manifest supplies one
const DefaultVersion = "1.0.0.0"

// Version is a dotted four-part mod version
type Version struct {
	Major, Minor, Revision, Build int64
}

// field widths of the packed Version64 form
const (
	maxMajor    = 1<<8 - 1
	maxMinor    = 1<<8 - 1
	maxRevision = 1<<16 - 1
	maxBuild    = 1<<31 - 1
)

// ParseVersion parses "major.minor.revision.build"; missing trailing parts are zero
func ParseVersion(s string) (Version, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Version{}, errors.New(errors.ErrInvalidInput, "empty version")
	}
	parts := strings.Split(s, ".")
	if len(parts) > 4 {
		return Version{}, errors.Newf(errors.ErrInvalidInput, "version %q has more than four parts", s)
	}
	var nums [4]int64
	for i, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return Version{}, errors.Newf(errors.ErrInvalidInput, "version %q: part %q is not a non-negative number", s, p)
		}
		nums[i] = n
	}
	v := Version{Major: nums[0], Minor: nums[1], Revision: nums[2], Build: nums[3]}
	if v.Major > maxMajor || v.Minor > maxMinor || v.Revision > maxRevision || v.Build > maxBuild {
		return Version{}, errors.Newf(errors.ErrInvalidInput, "version %q is out of range", s)
	}
	return v, nil
}

// String renders the dotted form
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Revision, v.Build)
}

// Version64 packs v the way the game stores it
func (v Version) Version64() int64 {
	return v.Major<<55 | v.Minor<<47 | v.Revision<<31 | v.Build
}

// Version64 packs a dotted version string
func Version64(s string) (int64, error) {
	v, err := ParseVersion(s)
	if err != nil {
		return 0, err
	}
	return v.Version64(), nil
}

// FromVersion64 unpacks the game's int64 version
func FromVersion64(n int64) Version {
	return Version{
		Major:    (n >> 55) & maxMajor,
		Minor:    (n >> 47) & maxMinor,
		Revision: (n >> 31) & maxRevision,
		Build:    n & maxBuild,
	}
}
