// Package errors turns command failures into the one-line messages the CLI
// prints.
package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/habhub/internal/entrywrite"
	"github.com/julianstephens/habhub/internal/logger"
	"github.com/julianstephens/habhub/internal/session"
	"github.com/julianstephens/habhub/internal/validation"
)

// Describe returns the user-facing text for err. Known failure classes get
// a hint about what to do next; anything else is printed as is.
func Describe(err error) string {
	var (
		writeErr *entrywrite.WriteError
		invalid  *validation.Error
	)
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrNoSession):
		return "no active session (run 'habhub session login <owner>' or set HABHUB_OWNER)"
	case errors.As(err, &invalid):
		return invalid.FormatReport()
	case errors.As(err, &writeErr):
		schema := "current"
		if writeErr.UsedLegacyPayload {
			schema = "legacy"
		}
		return fmt.Sprintf("could not save entry: %v (stage %s, %s schema); nothing was changed, run the command again to retry",
			writeErr.Err, writeErr.Stage, schema)
	default:
		return err.Error()
	}
}

const prefix = "Error: "

// Format prefixes the described error for terminal output.
func Format(err error) string {
	if err == nil {
		return ""
	}
	return prefix + Describe(err)
}

func Formatf(format string, args ...interface{}) string {
	return prefix + fmt.Sprintf(format, args...)
}

// Fatal reports err on stderr and in the log file, then exits 1. A nil err
// is a no-op.
func Fatal(err error) {
	if err == nil {
		return
	}
	exit(err.Error(), Format(err))
}

func Fatalf(format string, args ...interface{}) {
	exit(fmt.Sprintf(format, args...), Formatf(format, args...))
}

func exit(logged, printed string) {
	logger.Error("habhub exited with an error", "error", logged)
	fmt.Fprintln(os.Stderr, printed)
	os.Exit(1)
}
