package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/becominglabs/becoming/internal/logger"
)

// Domain error kinds. Core operations wrap these with context via fmt.Errorf
// and %w; callers classify with errors.Is. All are recoverable conditions
// surfaced to the user, never process-fatal.
var (
	ErrValidation            = errors.New("invalid input")
	ErrNotFound              = errors.New("not found")
	ErrDuplicateCheckIn      = errors.New("already checked in for this day")
	ErrDuplicateQuality      = errors.New("quality already tracked")
	ErrDuplicateDay          = errors.New("day already completed")
	ErrAlreadyGraduated      = errors.New("habit already graduated")
	ErrInsufficientProgress  = errors.New("insufficient progress to graduate")
	ErrNotActive             = errors.New("challenge is not active")
	ErrActiveChallengeExists = errors.New("active challenge already exists for this quality")
	ErrStatementLimit        = errors.New("maximum number of identity statements reached")
)

// Is reports whether any error in err's chain matches target.
// Re-exported so callers don't need both this package and stdlib errors.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}

// Fatalf logs and formats an error message, then exits the program with exit code 1
func Fatalf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	logger.Error("Command execution failed", "error", msg)
	fmt.Fprintf(os.Stderr, "%s\n", Formatf(format, args...))
	os.Exit(1)
}
