// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strings"

	"cgwdict/internal/export"

	"github.com/spf13/cobra"
)

// newExportCommand creates the `cgwdict export` command.
func newExportCommand(app *App) *cobra.Command {
	var (
		format string
		entry  string
	)

	cmd := &cobra.Command{
		Use:   "export [--format json|yaml|toml] [--entry NAME]",
		Short: "Export bundles as JSON, YAML or TOML",
		Long: `Export the main bundle and every entry as a structured document.

Records keep the order of their files. Multi-column records are exported as
named fields. Use --entry to export a single bundle (--entry main for the
main bundle).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(runExport(cmd.Context(), app, export.Format(format), entry))
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", string(export.FormatJSON), "output format: "+formatNames())
	cmd.Flags().StringVarP(&entry, "entry", "e", "", "export a single bundle")
	_ = cmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return strings.Split(formatNames(), ", "), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runExport(ctx context.Context, app *App, format export.Format, entry string) error {
	if !format.IsValid() {
		return fmt.Errorf("%w: %q (expected one of %s)", export.ErrUnknownFormat, format, formatNames())
	}

	c, err := app.open(ctx, true)
	if err != nil {
		return err
	}

	doc := export.FromComposite(c)
	if entry != "" {
		name, src, err := selectBundle(c, entry)
		if err != nil {
			return err
		}
		doc = &export.Document{Bundles: []export.BundleDoc{export.FromBundle(name, src)}}
	}
	return export.Render(app.stdout, doc, format)
}

func formatNames() string {
	formats := export.Formats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return strings.Join(names, ", ")
}
