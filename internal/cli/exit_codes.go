package cli

import (
	stderrors "errors"
	"fmt"

	"github.com/raveheart1/relkit/internal/errors"
)

// Exit codes for the relkit CLI. Stable for scripting and CI use.
const (
	// ExitSuccess indicates successful command execution
	ExitSuccess = 0

	// ExitRuntimeFailed indicates a workflow step failed
	ExitRuntimeFailed = 1

	// ExitInvalidArguments indicates invalid command arguments
	ExitInvalidArguments = 2

	// ExitConfigError indicates broken or missing configuration
	ExitConfigError = 3

	// ExitPrerequisiteFailed indicates a precondition was not met
	// (dirty tree, missing remote, existing branch)
	ExitPrerequisiteFailed = 4
)

// ExitError forces a specific exit code without extra output.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// NewExitError returns an error that maps to the given exit code.
func NewExitError(code int) *ExitError {
	return &ExitError{Code: code}
}

// exitCodeFor maps an error to its process exit code.
func exitCodeFor(err error) int {
	var exitErr *ExitError
	if stderrors.As(err, &exitErr) {
		return exitErr.Code
	}
	if cliErr := errors.AsCLIError(err); cliErr != nil {
		switch cliErr.Category {
		case errors.Argument:
			return ExitInvalidArguments
		case errors.Configuration:
			return ExitConfigError
		case errors.Prerequisite:
			return ExitPrerequisiteFailed
		}
	}
	return ExitRuntimeFailed
}
