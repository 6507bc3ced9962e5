// Package app implements the application layer for wasm-slim.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/report"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
	"github.com/vitalratel/wasm-slim-sub001/internal/engine/manifest"
	"github.com/vitalratel/wasm-slim-sub001/internal/engine/profile"
	"go.trai.ch/zerr"
)

// Pipeline runs one build.
type Pipeline interface {
	Run(ctx context.Context, cfg domain.PipelineConfig) *domain.Outcome
}

// FixApplicator applies dependency fix suggestions to a manifest.
type FixApplicator interface {
	Apply(root string, report domain.DependencyReport, dryRun bool) (int, error)
}

// Services are the collaborators of an App.
type Services struct {
	FS         ports.FileSystem
	Config     ports.ConfigLoader
	Catalog    ports.TemplateCatalog
	Resolver   *profile.Resolver
	Pipeline   Pipeline
	Applicator FixApplicator
	Backups    ports.BackupManager
	History    ports.HistoryStore
	Detector   ports.ToolchainDetector
	Inspector  ports.ArtifactInspector
	Telemetry  ports.Telemetry
	Logger     ports.Logger
}

// App represents the main application logic.
type App struct {
	svc    Services
	stdout io.Writer
}

// New creates a new App instance writing reports to stdout.
func New(s Services) *App {
	return &App{svc: s, stdout: os.Stdout}
}

// WithOutput redirects reports to w.
// This is primarily used for testing.
func (a *App) WithOutput(w io.Writer) *App {
	a.stdout = w
	return a
}

// BuildOptions configuration for the Build method.
type BuildOptions struct {
	DryRun            bool
	Check             bool
	JSON              bool
	Template          string
	TargetDir         string
	RollbackOnFailure bool
}

// Build runs the optimization pipeline for the project at root and reports the outcome.
// A failed pipeline returns an error joined with domain.ErrBuildFailed once the
// outcome has been written.
func (a *App) Build(ctx context.Context, root string, opts BuildOptions) error {
	if opts.JSON {
		if l, ok := a.svc.Logger.(interface{ SetJSON(bool) }); ok {
			l.SetJSON(true)
		}
	}

	cfg, err := a.svc.Config.Load(root)
	if err != nil {
		return zerr.Wrap(err, "failed to load configuration")
	}
	if opts.Template != "" {
		cfg.Template = opts.Template
	}
	if opts.TargetDir != "" {
		cfg.Pipeline.TargetDir = opts.TargetDir
	}
	if opts.RollbackOnFailure {
		cfg.Pipeline.RollbackOnFailure = true
	}

	outcome := a.svc.Pipeline.Run(ctx, domain.PipelineConfig{
		Root:        root,
		Project:     cfg,
		DryRun:      opts.DryRun,
		JSON:        opts.JSON,
		CheckBudget: opts.Check,
	})
	if err := a.svc.Telemetry.Close(); err != nil {
		a.svc.Logger.Warn(fmt.Sprintf("telemetry: %v", err))
	}

	if opts.JSON {
		err = report.NewJSON(a.stdout).Outcome(outcome)
	} else {
		err = report.NewText(a.stdout).Outcome(outcome)
	}
	if err != nil {
		return zerr.Wrap(err, "failed to write report")
	}

	if outcome.Failure != nil {
		return errors.Join(domain.ErrBuildFailed, outcome.Failure.Cause)
	}
	return nil
}

// InitOptions configuration for the Init method.
type InitOptions struct {
	Template string
	Force    bool
}

// Init writes a .wasm-slim.toml that pins every setting of the chosen template.
func (a *App) Init(root string, opts InitOptions) error {
	name := opts.Template
	if name == "" {
		name = domain.DefaultTemplateName
	}

	exists, err := a.svc.Config.Exists(root)
	if err != nil {
		return err
	}
	if exists && !opts.Force {
		return zerr.With(domain.ErrConfigExists, "path", domain.ConfigPath(root))
	}

	p, err := a.svc.Resolver.Resolve(name, domain.ProfileOverrides{})
	if err != nil {
		return err
	}
	if err := a.svc.Config.Save(root, profile.FromProfile(p)); err != nil {
		return err
	}

	a.svc.Logger.Info(fmt.Sprintf("Created %s from template %q", domain.ConfigFileName, p.Name))
	return nil
}

// FixOptions configuration for the Fix method.
type FixOptions struct {
	Report string
	DryRun bool
}

// Fix applies the fixes suggested by a dependency report to the project's Cargo.toml.
func (a *App) Fix(root string, opts FixOptions) error {
	data, err := a.svc.FS.ReadFile(opts.Report)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", opts.Report)
	}
	rep, err := manifest.ParseReport(data)
	if err != nil {
		return zerr.With(err, "path", opts.Report)
	}

	applied, err := a.svc.Applicator.Apply(root, rep, opts.DryRun)
	if err != nil {
		return err
	}

	switch {
	case applied == 0:
		_, err = fmt.Fprintln(a.stdout, "No applicable fixes")
	case opts.DryRun:
		_, err = fmt.Fprintf(a.stdout, "Would apply %d fix(es) (dry run)\n", applied)
	default:
		_, err = fmt.Fprintf(a.stdout, "Applied %d fix(es) to %s\n", applied, domain.ManifestFileName)
	}
	return err
}

// RestoreOptions configuration for the Restore method.
type RestoreOptions struct {
	// Backup selects a backup by file name or path. Empty means the newest.
	Backup string
	List   bool
}

// Restore rewrites Cargo.toml from a backup, or lists the available backups.
func (a *App) Restore(root string, opts RestoreOptions) error {
	path := domain.ManifestPath(root)
	backups, err := a.svc.Backups.List(path)
	if err != nil {
		return err
	}

	if opts.List {
		return a.listBackups(backups)
	}
	if len(backups) == 0 {
		return zerr.With(domain.ErrBackupNotFound, "path", domain.BackupDir(root))
	}

	chosen := &backups[0]
	if opts.Backup != "" {
		chosen = nil
		want := filepath.Base(opts.Backup)
		for i := range backups {
			if filepath.Base(backups[i].Path) == want {
				chosen = &backups[i]
				break
			}
		}
		if chosen == nil {
			return zerr.With(domain.ErrBackupNotFound, "backup", opts.Backup)
		}
	}

	if err := a.svc.Backups.Restore(chosen); err != nil {
		return err
	}
	_, err = fmt.Fprintf(a.stdout, "Restored %s from %s\n", domain.ManifestFileName, filepath.Base(chosen.Path))
	return err
}

func (a *App) listBackups(backups []domain.Backup) error {
	if len(backups) == 0 {
		_, err := fmt.Fprintln(a.stdout, "No backups found")
		return err
	}
	for _, b := range backups {
		if _, err := fmt.Fprintf(a.stdout, "%s  %10s  %s\n",
			b.CreatedAt.Format("2006-01-02 15:04:05"), domain.FormatBytes(b.Size), filepath.Base(b.Path)); err != nil {
			return err
		}
	}
	return nil
}

// HistoryOptions configuration for the History method.
type HistoryOptions struct {
	JSON  bool
	Limit int
}

// History reports the recorded build sizes of the project.
func (a *App) History(root string, opts HistoryOptions) error {
	h, err := a.svc.History.Load(root)
	if err != nil {
		return err
	}
	if opts.JSON {
		return report.NewJSON(a.stdout).History(h, opts.Limit)
	}
	return report.NewText(a.stdout).History(h, opts.Limit)
}

// Templates lists the built-in templates.
func (a *App) Templates() error {
	return report.NewText(a.stdout).Templates(a.svc.Catalog.All())
}

// Toolchain reports which pipeline tools are installed.
func (a *App) Toolchain(ctx context.Context) error {
	tc, err := a.svc.Detector.Detect(ctx, domain.PipelineTools())
	if err != nil {
		return err
	}
	return report.NewText(a.stdout).Toolchain(tc)
}

// Inspect reports the structure of a compiled module.
func (a *App) Inspect(ctx context.Context, path string) error {
	info, err := a.svc.Inspector.Inspect(ctx, path)
	if err != nil {
		return err
	}
	return report.NewText(a.stdout).Module(info)
}
