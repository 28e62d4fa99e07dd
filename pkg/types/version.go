package types

import "strings"

// Version is an opaque version string. Versions are compared by equality
// only; "2.0.0" and "v2.0.0" are different versions.
type Version string

// VersionUnset marks a deployment without a version marker. No real
// version is ever empty.
const VersionUnset Version = ""

// ParseVersion trims surrounding whitespace from marker content.
func ParseVersion(raw string) Version {
	return Version(strings.TrimSpace(raw))
}

// IsSet reports whether v is a real version.
func (v Version) IsSet() bool {
	return v != VersionUnset
}

func (v Version) String() string {
	if v == VersionUnset {
		return "(unset)"
	}
	return string(v)
}
