package identity

import "fmt"

// Version is the 4-part assembly version tuple ECMA-335 and the CLR loader
// use for identity comparisons (major.minor.build.revision).
type Version struct {
	Major    uint16 `json:"major"`
	Minor    uint16 `json:"minor"`
	Build    uint16 `json:"build"`
	Revision uint16 `json:"revision"`
}

// String renders the version the way assembly display names do.
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Revision)
}

// Compare returns -1, 0 or 1 as v is less than, equal to, or greater than
// other, comparing major, then minor, then build, then revision in order.
func (v Version) Compare(other Version) int {
	for _, pair := range [][2]uint16{
		{v.Major, other.Major},
		{v.Minor, other.Minor},
		{v.Build, other.Build},
		{v.Revision, other.Revision},
	} {
		if pair[0] != pair[1] {
			if pair[0] < pair[1] {
				return -1
			}
			return 1
		}
	}
	return 0
}

// GreaterOrEqual reports whether v >= other, the test AllowNewerVersions
// comparisons use.
func (v Version) GreaterOrEqual(other Version) bool {
	return v.Compare(other) >= 0
}
