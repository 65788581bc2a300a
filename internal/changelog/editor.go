package changelog

import "fmt"

// CloseSection dates the in-progress section for major and resolves its
// compare-link placeholder against prev. Both substitutions are scoped to
// the located section and each replaces only the first occurrence, so a
// malformed section with a duplicate placeholder keeps its second copy
// untouched. When the header is missing entirely the document is returned
// unmodified with changed=false; the compare URL is computed regardless so
// callers can still report it.
//
// The operation is idempotent: a section that is already dated no longer
// matches the in-progress header, so a second call reports changed=false.
func CloseSection(doc string, major int, date string, prev int, host string) (out string, changed bool, url string) {
	url = CompareURL(host, prev, major)

	span, ok := Locate(doc, major)
	if !ok {
		return doc, false, url
	}

	section := doc[span.Start:span.End]

	if loc := inProgressHeaderRe(major).FindStringIndex(section); loc != nil {
		dated := fmt.Sprintf("# v%d.0 (_%s_)", major, date)
		section = section[:loc[0]] + dated + section[loc[1]:]
		changed = true
	}

	if loc := placeholderRe.FindStringIndex(section); loc != nil {
		resolved := fmt.Sprintf("[Full Changelog](%s)", url)
		section = section[:loc[0]] + resolved + section[loc[1]:]
		changed = true
	}

	if !changed {
		return doc, false, url
	}
	return doc[:span.Start] + section + doc[span.End:], true, url
}

// OpenNewSection prepends an in-progress section for major ahead of all
// existing content. The prepend is unconditional; this operation cannot
// fail and always mutates.
func OpenNewSection(doc string, major int) string {
	return fmt.Sprintf("# v%d.0 (In progress)\n\n[Full Changelog](In progress)\n\n", major) + doc
}

// StartNextCycle closes out the section for major and opens a new one for
// major+1. Both edits are computed from the same snapshot and applied as
// one rewrite, close-out first, so neither sees the other's intermediate
// offsets. A missing header for major degrades to prepend-only, matching
// CloseSection's behavior.
func StartNextCycle(doc string, major int, date string, host string) (out string, url string) {
	closed, _, url := CloseSection(doc, major, date, major-1, host)
	return OpenNewSection(closed, major+1), url
}
