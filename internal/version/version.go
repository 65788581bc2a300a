// Package version models Firefox release version numbers and the bump rules
// of the three release trains relkit manages:
//
//   - Desktop / Application Services: N.0 with an optional a1 pre-release
//     marker; merge day advances the major and re-applies the marker.
//   - ESR and Release dot releases: X.Y or X.Y.Z; a dot release increments
//     the trailing component (or appends .1).
//   - iOS: X.Y with Y rolling 0 -> 1 -> 2 -> 3 before the major advances.
//
// Versions are small value types. Every operation returns a new Version;
// nothing is mutated in place.
package version

import (
	"fmt"
	"regexp"
	"strconv"
)

// Policy selects the version grammar and bump rule of one release train.
type Policy int

const (
	// Desktop is the Application Services / Desktop scheme: "143.0" or "143.0a1".
	Desktop Policy = iota
	// ESRDot is the ESR dot-release scheme: "140.1" or "140.1.2".
	ESRDot
	// ReleaseDot is the Release dot-release scheme, same grammar as ESRDot.
	ReleaseDot
	// IOSRolling is the iOS scheme: "142.3", minor limited to 0-3.
	IOSRolling
)

// String returns the policy name used in error messages and config values.
func (p Policy) String() string {
	switch p {
	case Desktop:
		return "desktop"
	case ESRDot:
		return "esr-dot"
	case ReleaseDot:
		return "release-dot"
	case IOSRolling:
		return "ios-rolling"
	default:
		return "unknown"
	}
}

// grammar returns the human-readable shape a policy expects, for FormatError.
func (p Policy) grammar() string {
	switch p {
	case Desktop:
		return "MAJOR.MINOR with optional a1 suffix (e.g. 143.0a1)"
	case ESRDot, ReleaseDot:
		return "MAJOR.MINOR or MAJOR.MINOR.PATCH (e.g. 140.1.2)"
	case IOSRolling:
		return "MAJOR.MINOR with MINOR between 0 and 3 (e.g. 142.3)"
	default:
		return "a version number"
	}
}

// FormatError reports a version string that does not match the active
// policy's grammar. It is always fatal to the workflow step that hit it.
type FormatError struct {
	Input  string
	Policy Policy
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("malformed version %q: expected %s", e.Input, e.Policy.grammar())
}

// Version is a parsed version number. The zero value is not meaningful;
// construct one with Parse or a bump operation.
type Version struct {
	Major int
	Minor int
	// Patch is only significant when HasPatch is true. A two-component
	// version ("140.1") and its explicit ".0" form are distinct renderings
	// of the same release.
	Patch    int
	HasPatch bool
	// PreRelease marks the trailing "a1" nightly suffix (Desktop only).
	PreRelease bool
}

var (
	desktopRe = regexp.MustCompile(`^(\d+)\.(\d+)(a1)?$`)
	dotRe     = regexp.MustCompile(`^(\d+)\.(\d+)(?:\.(\d+))?$`)
	iosRe     = regexp.MustCompile(`^(\d+)\.([0-3])$`)
)

// Parse parses text under the grammar of the given policy. Component counts
// outside the policy's shape are a FormatError, never silently coerced.
func Parse(text string, policy Policy) (Version, error) {
	switch policy {
	case Desktop:
		m := desktopRe.FindStringSubmatch(text)
		if m == nil {
			return Version{}, &FormatError{Input: text, Policy: policy}
		}
		return Version{
			Major:      mustInt(m[1]),
			Minor:      mustInt(m[2]),
			PreRelease: m[3] != "",
		}, nil

	case ESRDot, ReleaseDot:
		m := dotRe.FindStringSubmatch(text)
		if m == nil {
			return Version{}, &FormatError{Input: text, Policy: policy}
		}
		v := Version{Major: mustInt(m[1]), Minor: mustInt(m[2])}
		if m[3] != "" {
			v.Patch = mustInt(m[3])
			v.HasPatch = true
		}
		return v, nil

	case IOSRolling:
		m := iosRe.FindStringSubmatch(text)
		if m == nil {
			return Version{}, &FormatError{Input: text, Policy: policy}
		}
		return Version{Major: mustInt(m[1]), Minor: mustInt(m[2])}, nil

	default:
		return Version{}, &FormatError{Input: text, Policy: policy}
	}
}

// mustInt converts a digits-only regex capture. The patterns guarantee the
// input is numeric, so a failure here is a programming error.
func mustInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		panic(fmt.Sprintf("version: non-numeric capture %q", s))
	}
	return n
}

// String renders the version preserving its component count:
// "143.0a1", "140.1", "140.1.0", "142.3".
func (v Version) String() string {
	s := fmt.Sprintf("%d.%d", v.Major, v.Minor)
	if v.HasPatch {
		s = fmt.Sprintf("%s.%d", s, v.Patch)
	}
	if v.PreRelease {
		s += "a1"
	}
	return s
}

// StripPreRelease returns the version without its a1 marker. Calling it on a
// version that has no marker is a no-op, so the operation is idempotent.
func (v Version) StripPreRelease() Version {
	v.PreRelease = false
	return v
}

// Bump computes the next version under the given policy:
//
//	Desktop:    143.0a1 -> 144.0a1 (marker re-applied)
//	ESR/Release dot: 140.1 -> 140.1.1, 140.1.1 -> 140.1.2
//	iOS:        142.2 -> 142.3, 142.3 -> 143.0
func (v Version) Bump(policy Policy) Version {
	switch policy {
	case Desktop:
		return Version{Major: v.Major + 1, Minor: 0, PreRelease: true}
	case ESRDot, ReleaseDot:
		if v.HasPatch {
			return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1, HasPatch: true}
		}
		return Version{Major: v.Major, Minor: v.Minor, Patch: 1, HasPatch: true}
	case IOSRolling:
		if v.Minor < 3 {
			return Version{Major: v.Major, Minor: v.Minor + 1}
		}
		return Version{Major: v.Major + 1, Minor: 0}
	default:
		return v
	}
}

// BaseVersionForDotRelease derives the version of the last shipped dot
// release on a live ESR/Release branch from the branch's current version.
// The result names the build whose release tag the dot release branches from:
//
//	140.0, 140.0.0 -> 140.0   (nothing shipped past the initial release)
//	140.2          -> 140.1.0
//	140.1.0        -> 140.0.0
//	140.1.2        -> 140.1.1
//
// A two-component and a .0.0 current version both normalize to the bare
// "X.0" form so the derived tag matches the shipped tag name.
func BaseVersionForDotRelease(v Version) (Version, error) {
	if v.PreRelease {
		return Version{}, &FormatError{Input: v.String(), Policy: ESRDot}
	}

	switch {
	case v.Minor == 0 && (!v.HasPatch || v.Patch == 0):
		return Version{Major: v.Major, Minor: 0}, nil
	case !v.HasPatch || v.Patch == 0:
		// Minor > 0 here, so the decrement cannot go negative.
		return Version{Major: v.Major, Minor: v.Minor - 1, Patch: 0, HasPatch: true}, nil
	default:
		base := Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch - 1, HasPatch: true}
		if base.Minor == 0 && base.Patch == 0 {
			// X.0.0 and X.0 name the same shipped build; tags use the short form.
			return Version{Major: v.Major, Minor: 0}, nil
		}
		return base, nil
	}
}
