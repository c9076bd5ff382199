// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"cgwdict/internal/issue"
	"cgwdict/pkg/naming"

	"github.com/spf13/cobra"
)

// ErrSignatureMismatch is returned by verify when any recorded digest does
// not match the file on disk.
var ErrSignatureMismatch = errors.New("signature mismatch")

// newSignCommand creates the `cgwdict sign` command.
func newSignCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "sign",
		Short: "Recompute and write every signature",
		Long: `Load the main bundle and its entries, then save them: every entry first,
then the main bundle, then the summary signature that records the digest of
each description.

The digest algorithm comes from signature.algorithm in the configuration.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(runSign(cmd.Context(), app))
		},
	}
}

func runSign(ctx context.Context, app *App) error {
	c, err := app.open(ctx, false)
	if err != nil {
		return err
	}
	if err := c.Save(); err != nil {
		return issue.WrapWithContext(err, "sign bundle", c.SubmitDir())
	}
	slog.Info("signed bundle", "submit_dir", c.SubmitDir(), "entries", len(c.EntryNames()), "algorithm", app.settings.Signature.Algorithm)

	summary := c.Main().SummarySignature()
	t := newTable("bundle", "description", "digest")
	for _, tag := range summary.Keys() {
		rec, _ := summary.Lookup(tag)
		t.Row(tag, rec.Filename, rec.Hash)
	}
	fmt.Fprintf(app.stdout, "%s %s\n", SuccessStyle.Render("✓"), "Signed "+summary.Path())
	fmt.Fprintln(app.stdout, t.Render())
	return nil
}

// newVerifyCommand creates the `cgwdict verify` command.
func newVerifyCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify",
		Short: "Check every file against its recorded signature",
		Long: `Load the main bundle and its entries, then recompute the digest of every
description and of every file listed in each signature file.

Exits with status 1 when any digest differs or a signed file is missing.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd.Context(), app)
		},
	}
}

func runVerify(ctx context.Context, app *App) error {
	c, err := app.open(ctx, true)
	if err != nil {
		return app.fail(err)
	}

	result := c.Verify()
	if result.Valid {
		fmt.Fprintf(app.stdout, "%s %d files match their signatures (%s and %d entries)\n",
			SuccessStyle.Render("✓"), result.Checked, naming.MainTag, len(c.EntryNames()))
		return nil
	}

	for _, vi := range result.Issues {
		fmt.Fprintf(app.stdout, "%s %s\n", ErrorStyle.Render("✗"), vi.Error())
	}

	err = issue.NewErrorContext().
		WithOperation("verify signatures").
		WithResource(c.SubmitDir()).
		WithIssue(issue.SignatureMismatchId).
		WithSuggestion("Re-sign the bundle with 'cgwdict sign' after reviewing the changes").
		Wrap(fmt.Errorf("%w: %d issues found", ErrSignatureMismatch, len(result.Issues))).
		BuildError()
	return &ExitError{Code: 1, Err: app.fail(err)}
}
