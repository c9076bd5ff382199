// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"log/slog"

	"cgwdict/internal/export"
	"cgwdict/pkg/dictfile"
	"cgwdict/pkg/naming"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"
)

// newShowCommand creates the `cgwdict show` command.
func newShowCommand(app *App) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "show [--kind KIND] FILE",
		Short: "Print the records of a dictionary file",
		Long: `Print the records of a dictionary file as a table.

The kind is inferred from the configured layout filenames when --kind is not
given. Multi-column kinds (vars, file_list, subsystem_list, summary_signature)
get one column per field.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(runShow(app, kind, args[0]))
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "dictionary kind (inferred from the filename when empty)")
	_ = cmd.RegisterFlagCompletionFunc("kind", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return kindNames(), cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runShow(app *App, kind, path string) error {
	role, err := resolveKind(kind, path, app.settings.ResolvedLayout())
	if err != nil {
		return err
	}
	d, err := loadDict(role, path)
	if err != nil {
		return err
	}
	slog.Debug("loaded dictionary", "path", d.Path(), "kind", d.Kind(), "records", d.Len())

	fmt.Fprintf(app.stdout, "%s %s\n", TitleStyle.Render(d.Path()),
		SubtitleStyle.Render(fmt.Sprintf("(%s, %d records)", d.Kind(), d.Len())))
	writeDictTable(app.stdout, export.FromDict(role, d))
	return nil
}

// writeDictTable renders the records of one dictionary. Empty dictionaries
// print nothing.
func writeDictTable(w io.Writer, doc export.DictDoc) {
	if len(doc.Records) == 0 {
		return
	}

	fields := fieldNames(doc.Records)
	headers := append([]string{"key"}, fields...)
	if len(fields) == 0 {
		headers = append(headers, "value")
	}

	t := newTable(headers...)
	for _, r := range doc.Records {
		row := []string{r.Key}
		if len(fields) == 0 {
			row = append(row, r.Value)
		}
		for _, f := range fields {
			row = append(row, r.Fields[f])
		}
		t.Row(row...)
	}
	fmt.Fprintln(w, t.Render())
}

// fieldNames returns the sorted union of record field names.
func fieldNames(records []export.RecordDoc) []string {
	seen := make(map[string]bool)
	var names []string
	for _, r := range records {
		for name := range r.Fields {
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
		}
	}
	slices.Sort(names)
	return names
}

// newCheckCommand creates the `cgwdict check` command.
func newCheckCommand(app *App) *cobra.Command {
	var kind string

	cmd := &cobra.Command{
		Use:   "check [--kind KIND] FILE...",
		Short: "Validate dictionary files",
		Long: `Parse every file with the rules of its kind and report the result.

Exits with status 1 when any file fails to parse.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(app, kind, args)
		},
	}
	cmd.Flags().StringVarP(&kind, "kind", "k", "", "dictionary kind for every file (inferred per file when empty)")
	return cmd
}

func runCheck(app *App, kind string, paths []string) error {
	layout := app.settings.ResolvedLayout()
	failed := 0
	for _, path := range paths {
		d, err := checkFile(kind, path, layout)
		if err != nil {
			failed++
			fmt.Fprintf(app.stdout, "%s %s: %s\n", ErrorStyle.Render("✗"), path, formatErrorForDisplay(err, app.settings.UI.Verbose))
			continue
		}
		fmt.Fprintf(app.stdout, "%s %s %s\n", SuccessStyle.Render("✓"), path,
			SubtitleStyle.Render(fmt.Sprintf("(%s, %d records)", d.Kind(), d.Len())))
	}

	if failed > 0 {
		return &ExitError{Code: 1, Err: fmt.Errorf("%d of %d files failed the check", failed, len(paths))}
	}
	return nil
}

func checkFile(kind, path string, layout naming.Layout) (dictfile.Dict, error) {
	role, err := resolveKind(kind, path, layout)
	if err != nil {
		return nil, err
	}
	return loadDict(role, path)
}
