package cli

import (
	"errors"

	"transaction-reconciler/internal/usecase"
)

// Process exit codes.
const (
	ExitOK = 0
	// ExitInputError covers unreadable or malformed input and usage errors.
	ExitInputError = 1
	// ExitNoData means both inputs normalized to zero valid records.
	ExitNoData = 2
)

// ExitCode maps a command error to its process exit code.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.Is(err, usecase.ErrNoData):
		return ExitNoData
	default:
		return ExitInputError
	}
}
