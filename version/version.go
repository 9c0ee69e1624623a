package version

import (
	"fmt"
)

const (
	VersionMajor = 0
	VersionMinor = 3
	VersionPatch = 1
	VersionMeta  = "" // version metadata to append to the version string
)

func AsString() string {
	s := ToString(uint16(VersionMajor), uint16(VersionMinor), uint16(VersionPatch))
	if VersionMeta != "" {
		s += "-" + VersionMeta
	}
	return s
}

func AsU64() uint64 {
	return ToU64(uint16(VersionMajor), uint16(VersionMinor), uint16(VersionPatch))
}

func ToU64(vMajor, vMinor, vPatch uint16) uint64 {
	return uint64(vMajor)*1e12 + uint64(vMinor)*1e6 + uint64(vPatch)
}

func ToString(major, minor, patch uint16) string {
	return fmt.Sprintf("%d.%d.%d", major, minor, patch)
}

func U64ToString(v uint64) string {
	return ToString(uint16((v/1e12)%1e6), uint16((v/1e6)%1e6), uint16(v%1e6))
}

// WithCommit returns the version string with a short commit hash and date, if known.
func WithCommit(gitCommit, gitDate string) string {
	vsn := AsString()
	if len(gitCommit) >= 8 {
		vsn += "-" + gitCommit[:8]
	}
	if gitDate != "" {
		vsn += "-" + gitDate
	}
	return vsn
}
