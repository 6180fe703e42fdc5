package semver

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is a semantic version without prerelease or build metadata.
type Version struct {
	Major int
	Minor int
	Patch int
}

// Parse parses "v1.2.3" or "1.2.3". Trailing prerelease/build suffixes
// ("1.2.3-rc1", "1.2.3+abc") are cut before parsing.
func Parse(version string) (Version, error) {
	version = strings.TrimPrefix(version, "v")
	if i := strings.IndexAny(version, "-+"); i >= 0 {
		version = version[:i]
	}
	parts := strings.Split(version, ".")
	if len(parts) != 3 {
		return Version{}, fmt.Errorf("semver: malformed version %q", version)
	}
	var nums [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil || n < 0 {
			return Version{}, fmt.Errorf("semver: malformed version %q", version)
		}
		nums[i] = n
	}
	return Version{Major: nums[0], Minor: nums[1], Patch: nums[2]}, nil
}

// MustParse is Parse for trusted constants.
func MustParse(version string) Version {
	v, err := Parse(version)
	if err != nil {
		panic(err)
	}
	return v
}

// Compare returns -1, 0 or 1 comparing v against other.
func (v Version) Compare(other Version) int {
	for _, d := range [3]int{v.Major - other.Major, v.Minor - other.Minor, v.Patch - other.Patch} {
		if d < 0 {
			return -1
		}
		if d > 0 {
			return 1
		}
	}
	return 0
}

func (v Version) GreaterEqual(other Version) bool {
	return v.Compare(other) >= 0
}

func (v Version) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}
