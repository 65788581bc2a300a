package changelog

import "fmt"

// DefaultCompareHost is the repository whose tags the compare links refer to.
// Overridable via the compare_host config key.
const DefaultCompareHost = "github.com/mozilla/application-services"

// CompareURL formats the comparison link between two consecutive release
// tags. Pure string formatting; whether the tags exist is the remote's
// concern, not ours.
func CompareURL(host string, prev, cur int) string {
	return fmt.Sprintf("https://%s/compare/v%d.0...v%d.0", host, prev, cur)
}
