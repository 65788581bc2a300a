package release

import "fmt"

// AmbiguousTagError reports that the dot-release workflow could not
// identify a unique last-shipped release point. Fatal for the run.
type AmbiguousTagError struct {
	Tag string
	Err error
}

func (e *AmbiguousTagError) Error() string {
	return fmt.Sprintf("cannot identify last shipped release: tag %q: %v", e.Tag, e.Err)
}

func (e *AmbiguousTagError) Unwrap() error {
	return e.Err
}
