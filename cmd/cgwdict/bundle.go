// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"strconv"

	"cgwdict/internal/export"
	"cgwdict/pkg/bundle"
	"cgwdict/pkg/naming"

	"github.com/spf13/cobra"
)

// summaryRoles are the columns of the bundle summary table.
var summaryRoles = []bundle.Role{
	bundle.RoleAttrs,
	bundle.RoleConsts,
	bundle.RoleParams,
	bundle.RoleVars,
	bundle.RoleFileList,
	bundle.RoleScriptList,
	bundle.RoleSubsystemList,
}

// newBundleCommand creates the `cgwdict bundle` command.
func newBundleCommand(app *App) *cobra.Command {
	var entry string

	cmd := &cobra.Command{
		Use:   "bundle [--entry NAME]",
		Short: "Summarize the main bundle and its entries",
		Long: `Load the main bundle and every entry listed in its summary signature.

Without --entry, prints one row per bundle with the record count of each
dictionary. With --entry, prints every dictionary of that bundle; use
--entry main for the main bundle.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(runBundle(cmd.Context(), app, entry))
		},
	}
	cmd.Flags().StringVarP(&entry, "entry", "e", "", "print the dictionaries of a single bundle")
	return cmd
}

func runBundle(ctx context.Context, app *App, entry string) error {
	c, err := app.open(ctx, true)
	if err != nil {
		return err
	}

	if entry != "" {
		name, src, err := selectBundle(c, entry)
		if err != nil {
			return err
		}
		doc := export.FromBundle(name, src)
		fmt.Fprintf(app.stdout, "%s\n%s %s\n%s %s\n",
			TitleStyle.Render(doc.Name),
			KeyStyle.Render("submit_dir:"), doc.SubmitDir,
			KeyStyle.Render("stage_dir: "), doc.StageDir)
		for _, d := range doc.Dicts {
			fmt.Fprintf(app.stdout, "\n%s %s\n", TitleStyle.Render(d.Role),
				SubtitleStyle.Render(fmt.Sprintf("%s (%s, %d records)", d.Path, d.Kind, len(d.Records))))
			writeDictTable(app.stdout, d)
		}
		return nil
	}

	fmt.Fprintf(app.stdout, "%s %s\n%s %s\n",
		KeyStyle.Render("submit_dir:"), c.SubmitDir(),
		KeyStyle.Render("stage_dir: "), c.StageDir())

	headers := []string{"bundle"}
	for _, r := range summaryRoles {
		headers = append(headers, string(r))
	}
	t := newTable(headers...)
	t.Row(summaryRow(naming.MainTag, c.Main())...)
	for _, e := range c.Entries() {
		t.Row(summaryRow(e.Name(), e)...)
	}
	fmt.Fprintln(app.stdout, t.Render())
	return nil
}

// selectBundle returns the main bundle for "main" and the named entry
// otherwise.
func selectBundle(c *bundle.Composite, name string) (string, export.Source, error) {
	if name == naming.MainTag {
		return name, c.Main(), nil
	}
	e, err := c.Entry(name)
	if err != nil {
		return "", nil, err
	}
	return e.Name(), e, nil
}

func summaryRow(name string, src export.Source) []string {
	row := []string{name}
	for _, r := range summaryRoles {
		d, ok := src.Dict(r)
		if !ok {
			row = append(row, "-")
			continue
		}
		row = append(row, strconv.Itoa(d.Len()))
	}
	return row
}

// newEntriesCommand creates the `cgwdict entries` command.
func newEntriesCommand(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "entries",
		Short: "List the entries of the main bundle",
		Long:  "Print the name of every entry listed in the main summary signature, one per line.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := app.open(cmd.Context(), true)
			if err != nil {
				return app.fail(err)
			}
			for _, name := range c.EntryNames() {
				fmt.Fprintln(app.stdout, name)
			}
			return nil
		},
	}
}
