// Package changelog edits the dated section stack of a CHANGELOG.md.
//
// A changelog is an ordered sequence of sections, newest first. Each section
// opens with a header of the form
//
//	# v143.0 (In progress)
//	# v143.0 (_2025-01-01_)
//
// and carries a "[Full Changelog](In progress)" placeholder until its
// compare link is resolved. The package implements a locate-then-scope
// design: a section's span is computed first, and every substitution is
// restricted to that span, so a stray match in an older section can never
// be edited by accident. All operations take the document as a string and
// return a new string; bytes outside the located span are preserved
// verbatim.
package changelog
