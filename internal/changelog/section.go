package changelog

import (
	"fmt"
	"regexp"
)

// anyHeaderRe matches any top-level version header and marks a section
// boundary, whatever its status text.
var anyHeaderRe = regexp.MustCompile(`(?m)^#\s*v\d+\.\d+\s*\(.+?\)`)

// placeholderRe matches the unresolved compare-link placeholder. The status
// token is matched case-insensitively, mirroring hand-edited changelogs.
var placeholderRe = regexp.MustCompile(`(?i)\[Full Changelog\]\(In progress\)`)

// inProgressHeaderRe matches the in-progress header for one major version.
// The version number is exact; only "In progress" is case-insensitive.
func inProgressHeaderRe(major int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`(?im)^#\s*v%d\.0\s*\(In progress\)`, major))
}

// Span is a half-open [Start, End) byte range of one section, from the
// first byte of its header line to the next section header or end of
// document.
type Span struct {
	Start int
	End   int
}

// Locate finds the span of the in-progress section for major. The second
// return is false when no matching header exists; that is a normal outcome
// ("nothing to close out"), not an error, and the document is not examined
// beyond the failed search.
func Locate(doc string, major int) (Span, bool) {
	loc := inProgressHeaderRe(major).FindStringIndex(doc)
	if loc == nil {
		return Span{}, false
	}

	end := len(doc)
	if next := anyHeaderRe.FindStringIndex(doc[loc[1]:]); next != nil {
		end = loc[1] + next[0]
	}
	return Span{Start: loc[0], End: end}, true
}
