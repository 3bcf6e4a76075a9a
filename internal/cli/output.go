package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/dalkommatt/ai-writer/internal/journal"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation failure (sync error, unknown record, etc.)
	ExitCommandError = 2 // Command error (bad config, invalid arguments)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// printRecords renders a record list in the requested format.
func printRecords(w io.Writer, format string, records []journal.Record) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}

	for _, r := range records {
		title := r.Title
		if title == "" {
			title = "(untitled)"
		}
		fmt.Fprintf(w, "%s  %s\n", r.Identity, title)
	}
	return nil
}

// printRecord renders a single record in the requested format.
func printRecord(w io.Writer, format string, r journal.Record) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}

	fmt.Fprintf(w, "identity:   %s\n", r.Identity)
	fmt.Fprintf(w, "mutated_at: %s\n", r.MutatedAt)
	fmt.Fprintf(w, "title:      %s\n", r.Title)
	if r.Body != "" {
		fmt.Fprintf(w, "\n%s\n", r.Body)
	}
	return nil
}
