// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"cgwdict/internal/config"
	"cgwdict/internal/logging"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// annotationConfigOptional marks commands that still run, with default
// settings, when the configuration cannot be loaded.
const annotationConfigOptional = "cgwdict/config-optional"

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// rootFlags holds the persistent flags shared by every command.
type rootFlags struct {
	configPath string
	verbose    bool
	submitDir  string
	stageDir   string
	logLevel   string
	logFormat  string
}

// newRootCommand creates the `cgwdict` command tree.
func newRootCommand(app *App) *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "cgwdict",
		Short: "Inspect, sign and verify glidein configuration dictionaries",
		Long: TitleStyle.Render("cgwdict") + SubtitleStyle.Render(" - glidein configuration dictionaries") + `

cgwdict reads the dictionary files of a glidein factory or frontend
configuration: a main bundle in the submission and staging directories,
plus one entry bundle per name listed in the summary signature.

` + SubtitleStyle.Render("Examples:") + `
  cgwdict show attributes.cfg       Print the records of one file
  cgwdict check *.cfg *.lst         Validate dictionary files
  cgwdict bundle                    Summarize the main bundle and entries
  cgwdict export --format yaml      Export every bundle as YAML
  cgwdict sign                      Recompute and write all signatures
  cgwdict verify                    Check files against their signatures`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.configure(cmd, flags)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/cgwdict/config.cue)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.StringVar(&flags.submitDir, "submit-dir", "", "main submission directory (default is the current directory)")
	pf.StringVar(&flags.stageDir, "stage-dir", "", "main staging directory (default is the current directory)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format: text, json or logfmt")

	rootCmd.AddCommand(
		newShowCommand(app),
		newCheckCommand(app),
		newBundleCommand(app),
		newEntriesCommand(app),
		newExportCommand(app),
		newSignCommand(app),
		newVerifyCommand(app),
		newConfigCommand(app, flags),
	)

	return rootCmd
}

// configure resolves the settings for the running command: the loaded
// configuration with any explicitly set flag on top. It then installs the
// process logger.
func (a *App) configure(cmd *cobra.Command, flags *rootFlags) error {
	cfg, err := a.Config.Load(cmd.Context(), config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		if _, optional := cmd.Annotations[annotationConfigOptional]; !optional {
			a.settings.UI.Verbose = flags.verbose
			return a.fail(err)
		}
		fmt.Fprintln(a.stderr, WarningStyle.Render("Warning: ")+formatErrorForDisplay(err, flags.verbose))
		cfg = config.DefaultConfig()
	}

	pf := cmd.Flags()
	if pf.Changed("verbose") {
		cfg.UI.Verbose = flags.verbose
	}
	if pf.Changed("submit-dir") {
		cfg.SubmitDir = config.DirPath(flags.submitDir)
	}
	if pf.Changed("stage-dir") {
		cfg.StageDir = config.DirPath(flags.stageDir)
	}
	if pf.Changed("log-level") {
		cfg.Log.Level = config.LogLevel(flags.logLevel)
	}
	if pf.Changed("log-format") {
		cfg.Log.Format = config.LogFormat(flags.logFormat)
	}
	if cfg.UI.Verbose && !pf.Changed("log-level") && cfg.Log.Level == config.LogLevelWarn {
		cfg.Log.Level = config.LogLevelInfo
	}

	if isValid, errs := cfg.IsValid(); !isValid {
		a.settings.UI.Verbose = cfg.UI.Verbose
		return a.fail(errors.Join(errs...))
	}

	if err := logging.Install(a.stderr, logging.Options{
		Level:  string(cfg.Log.Level),
		Format: string(cfg.Log.Format),
	}); err != nil {
		return err
	}

	a.settings = cfg
	return nil
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the production App and runs the root command.
// This is called by main.main().
func Execute() {
	app, err := NewApp(Dependencies{})
	if err != nil {
		fmt.Fprintln(os.Stderr, formatErrorForDisplay(err, false))
		os.Exit(1)
	}

	// Pass version via fang.WithVersion() since fang overrides rootCmd.Version
	if err := fang.Execute(
		context.Background(),
		newRootCommand(app),
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
