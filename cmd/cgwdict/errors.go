// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"

	"cgwdict/internal/config"
	"cgwdict/internal/issue"
	"cgwdict/pkg/bundle"
	"cgwdict/pkg/dictfile"
	"cgwdict/pkg/naming"
)

// classifyError maps library failures to issue catalog IDs. An ID already
// attached by an ActionableError deeper in the chain wins over the generic
// bundle failure.
func classifyError(err error) issue.Id {
	var pe *dictfile.ParseError
	switch {
	case errors.Is(err, naming.ErrInvalidLayout):
		return issue.InvalidLayoutId
	case errors.Is(err, config.ErrInvalidConfig):
		return issue.ConfigLoadFailedId
	case errors.Is(err, bundle.ErrEntryNotFound):
		return issue.EntryNotFoundId
	case errors.Is(err, dictfile.ErrReadOnly):
		return issue.ReadOnlyId
	case errors.As(err, &pe):
		return issue.DictParseFailedId
	case errors.Is(err, fs.ErrNotExist):
		return issue.DictNotFoundId
	}

	var ae *issue.ActionableError
	if errors.As(err, &ae) && ae.IssueId != 0 {
		return ae.IssueId
	}
	return issue.BundleLoadFailedId
}

type (
	// ServiceError is a command failure tagged with the catalog entry that
	// explains it.
	ServiceError struct {
		Err     error
		IssueID issue.Id
	}

	// ExitError carries the process exit code out of a RunE handler. check and
	// verify return it after printing their own per-file report.
	ExitError struct {
		Code int
		Err  error
	}
)

// newServiceError classifies err. A nil err is a programming error.
func newServiceError(err error) *ServiceError {
	if err == nil {
		panic("cgwdict: service error without a cause")
	}
	return &ServiceError{Err: err, IssueID: classifyError(err)}
}

func (e *ServiceError) Error() string { return e.Err.Error() }

func (e *ServiceError) Unwrap() error { return e.Err }

// Help renders the linked catalog entry with a glamour style, or returns ""
// when the error has none.
func (e *ServiceError) Help(style string) (string, error) {
	entry := issue.Get(e.IssueID)
	if entry == nil {
		return "", nil
	}
	return entry.Render(style)
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit status %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error { return e.Err }

// fail wraps a command failure as a ServiceError. The error line itself is
// printed by fang; in verbose mode the error chain and the linked catalog
// entry are written to stderr first.
func (a *App) fail(err error) error {
	if err == nil {
		return nil
	}
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return err
	}

	svcErr = newServiceError(err)
	if a.settings.UI.Verbose {
		writeVerboseError(a.stderr, svcErr, string(a.settings.UI.ColorScheme))
	}
	return svcErr
}

// writeVerboseError prints the full error chain followed by the catalog entry.
func writeVerboseError(w io.Writer, svcErr *ServiceError, style string) {
	fmt.Fprintf(w, "%s %s\n", ErrorStyle.Render("Error:"), formatErrorForDisplay(svcErr.Err, true))

	help, err := svcErr.Help(style)
	if err != nil {
		slog.Warn("failed to render issue catalog entry", "issue", svcErr.IssueID, "error", err)
		return
	}
	fmt.Fprint(w, help)
}

// formatErrorForDisplay uses the ActionableError layout (suggestions, and the
// error chain when verbose) when err carries one.
func formatErrorForDisplay(err error, verbose bool) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
