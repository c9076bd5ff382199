// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"

	"cgwdict/internal/config"
	"cgwdict/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `cgwdict config` command tree.
// Subcommands report the settings resolved by the root command.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	optional := map[string]string{annotationConfigOptional: "true"}

	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage cgwdict configuration",
		Long: `Manage cgwdict configuration.

Configuration is read from the first of:
  - the file named by --config
  - Linux: $XDG_CONFIG_HOME/cgwdict/config.cue (~/.config/cgwdict/config.cue)
  - macOS: ~/Library/Application Support/cgwdict/config.cue
  - Windows: %APPDATA%\cgwdict\config.cue
  - ./config.cue

Every setting can be overridden with a CGWDICT_ environment variable, for
example CGWDICT_SIGNATURE_ALGORITHM=blake3 or CGWDICT_LAYOUT_ATTRS=attrs.cfg.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(showConfig(app, flags))
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:         "path",
		Short:       "Show configuration file path",
		Args:        cobra.NoArgs,
		Annotations: optional,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(showConfigPath(app, flags))
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:         "init",
		Short:       "Create default configuration file",
		Args:        cobra.NoArgs,
		Annotations: optional,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.fail(initConfig(app, flags, force))
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output the effective configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(app.stdout, config.GenerateCUE(app.settings))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(app *App, flags *rootFlags) error {
	cfg := app.settings
	path, err := app.Config.Locate(config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return err
	}

	keyStyle := KeyStyle
	valueStyle := SuccessStyle

	fmt.Fprintln(app.stdout, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(app.stdout)
	if path != "" {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), path)
	} else {
		fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(app.stdout)

	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("submit_dir"), valueStyle.Render(dirOrCurrent(cfg.SubmitDir)))
	fmt.Fprintf(app.stdout, "%s: %s\n", keyStyle.Render("stage_dir"), valueStyle.Render(dirOrCurrent(cfg.StageDir)))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("signature"))
	fmt.Fprintf(app.stdout, "  algorithm: %s\n", valueStyle.Render(cfg.Signature.Algorithm.String()))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("layout"))
	layout := cfg.ResolvedLayout()
	for _, kv := range layout.Filenames() {
		fmt.Fprintf(app.stdout, "  %s: %s\n", kv[0], valueStyle.Render(kv[1]))
	}
	fmt.Fprintf(app.stdout, "  entry_prefix: %s\n", valueStyle.Render(layout.EntryPrefix))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("log"))
	fmt.Fprintf(app.stdout, "  level: %s\n", valueStyle.Render(cfg.Log.Level.String()))
	fmt.Fprintf(app.stdout, "  format: %s\n", valueStyle.Render(cfg.Log.Format.String()))

	fmt.Fprintln(app.stdout)
	fmt.Fprintf(app.stdout, "%s:\n", keyStyle.Render("ui"))
	fmt.Fprintf(app.stdout, "  color_scheme: %s\n", valueStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(app.stdout, "  verbose: %s\n", valueStyle.Render(fmt.Sprintf("%v", cfg.UI.Verbose)))

	return nil
}

func showConfigPath(app *App, flags *rootFlags) error {
	path, err := app.Config.Locate(config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintln(app.stdout, path)
		return nil
	}

	defaultPath, err := config.DefaultConfigPath()
	if err != nil {
		return err
	}
	fmt.Fprintf(app.stdout, "%s %s\n", defaultPath, SubtitleStyle.Render("(not found, using defaults)"))
	return nil
}

func initConfig(app *App, flags *rootFlags, force bool) error {
	path := flags.configPath
	if path == "" {
		var err error
		if path, err = config.DefaultConfigPath(); err != nil {
			return err
		}
	}

	if err := config.CreateDefaultConfig(path, force); err != nil {
		if errors.Is(err, config.ErrConfigExists) {
			return issue.NewErrorContext().
				WithOperation("create configuration").
				WithResource(path).
				WithIssue(issue.ConfigLoadFailedId).
				WithSuggestion("Use --force to overwrite it").
				Wrap(err).
				BuildError()
		}
		return err
	}

	fmt.Fprintf(app.stdout, "%s Created configuration file: %s\n", SuccessStyle.Render("✓"), path)
	return nil
}
