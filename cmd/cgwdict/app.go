// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"cgwdict/internal/config"
	"cgwdict/internal/issue"
	"cgwdict/internal/signature"
	"cgwdict/pkg/bundle"
	"cgwdict/pkg/naming"
)

type (
	// App wires CLI services and shared dependencies. It is the composition root for
	// the CLI layer: all Cobra command handlers receive an App reference and delegate
	// through its service interfaces (Config, Bundles).
	App struct {
		Config  ConfigProvider
		Bundles BundleService
		stdout  io.Writer
		stderr  io.Writer

		// settings is the configuration resolved for the running command.
		settings *config.Config
	}

	// Dependencies defines the injection points for building an App. Nil fields are
	// replaced with production defaults by NewApp.
	Dependencies struct {
		Config  ConfigProvider
		Bundles BundleService
		Stdout  io.Writer
		Stderr  io.Writer
	}

	// ConfigProvider loads configuration and reports which file it reads.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
		Locate(opts config.LoadOptions) (string, error)
	}

	// OpenRequest selects the bundle tree to open.
	OpenRequest struct {
		SubmitDir string
		StageDir  string
		Layout    naming.Layout
		Algorithm signature.Algorithm
		// Readonly guards the loaded tree against modification.
		Readonly bool
	}

	// BundleService opens a main bundle and every entry its summary
	// signature lists.
	BundleService interface {
		Open(ctx context.Context, req OpenRequest) (*bundle.Composite, error)
	}

	compositeService struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) (*App, error) {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Bundles == nil {
		deps.Bundles = &compositeService{}
	}

	return &App{
		Config:   deps.Config,
		Bundles:  deps.Bundles,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
		settings: config.DefaultConfig(),
	}, nil
}

// Settings returns the configuration resolved for the running command.
func (a *App) Settings() *config.Config {
	return a.settings
}

// openRequest builds an OpenRequest from the resolved settings.
func (a *App) openRequest(readonly bool) OpenRequest {
	s := a.settings
	return OpenRequest{
		SubmitDir: dirOrCurrent(s.SubmitDir),
		StageDir:  dirOrCurrent(s.StageDir),
		Layout:    s.ResolvedLayout(),
		Algorithm: s.Signature.Algorithm,
		Readonly:  readonly,
	}
}

// open loads the configured bundle tree.
func (a *App) open(ctx context.Context, readonly bool) (*bundle.Composite, error) {
	return a.Bundles.Open(ctx, a.openRequest(readonly))
}

func dirOrCurrent(dir config.DirPath) string {
	if dir == "" {
		return "."
	}
	return string(dir)
}

// Open implements BundleService.
func (s *compositeService) Open(ctx context.Context, req OpenRequest) (*bundle.Composite, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("open bundle canceled: %w", ctx.Err())
	default:
	}

	signer, err := signature.New(req.Algorithm)
	if err != nil {
		return nil, err
	}

	c, err := bundle.NewComposite(req.SubmitDir, req.StageDir, nil,
		bundle.WithLayout(req.Layout),
		bundle.WithSigner(signer),
	)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("open bundle").
			WithResource(req.SubmitDir).
			WithIssue(issue.InvalidLayoutId).
			WithSuggestion("Check the layout section with 'cgwdict config dump'").
			Wrap(err).
			BuildError()
	}

	if err := c.Load(true); err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("load bundle").
			WithResource(req.SubmitDir).
			WithIssue(classifyError(err)).
			WithSuggestions(
				"Check --submit-dir and --stage-dir (or submit_dir and stage_dir in the configuration)",
				"Run with --verbose to see which file failed",
			).
			Wrap(err).
			BuildError()
	}
	c.SetReadonly(req.Readonly)
	return c, nil
}
