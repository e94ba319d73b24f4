package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/julianstephens/routineos/internal/logger"
	"github.com/julianstephens/routineos/internal/storage"
)

// StorageUnavailableMessage is shown instead of the details of a storage failure.
const StorageUnavailableMessage = "could not reach your routine data; please try again"

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %s", UserMessage(err))
}

// Formatf formats an error message with a consistent "Error: " prefix using a format string
func Formatf(format string, args ...interface{}) string {
	return fmt.Sprintf("Error: "+format, args...)
}

// UserMessage returns the text to show the user for err. Storage failures
// are replaced by a generic message; everything else is shown as is.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var se *storage.OpError
	if errors.As(err, &se) {
		return StorageUnavailableMessage
	}
	return err.Error()
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
