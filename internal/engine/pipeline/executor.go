// Package pipeline drives a build from manifest mutation to a size-checked artifact.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
	"github.com/vitalratel/wasm-slim-sub001/internal/engine/budget"
	"go.trai.ch/zerr"
)

// compileUnsetEnv lists variables that leak instrumentation or debug flags into release builds.
var compileUnsetEnv = []string{
	"RUSTFLAGS",
	"CARGO_INCREMENTAL",
	"CARGO_ENCODED_RUSTFLAGS",
	"LLVM_PROFILE_FILE",
	"CARGO_LLVM_COV",
	"CARGO_LLVM_COV_TARGET_DIR",
}

// ProfileResolver turns a project configuration into a concrete profile.
type ProfileResolver interface {
	ResolveConfig(cfg *domain.ProjectConfig) (domain.Profile, error)
}

// Deps are the collaborators of an Executor.
type Deps struct {
	FS        ports.FileSystem
	Resolver  ProfileResolver
	Mutator   ports.ManifestMutator
	BuildStd  ports.BuildStdMutator
	Backups   ports.BackupManager
	Detector  ports.ToolchainDetector
	Runner    ports.ToolRunner
	Inspector ports.ArtifactInspector
	History   ports.HistoryStore
	Source    ports.SourceControl
	Telemetry ports.Telemetry
	Logger    ports.Logger
}

// Executor runs the build pipeline. It is safe to reuse across runs but a
// single run is strictly sequential.
type Executor struct {
	Deps
	now func() time.Time
}

// New creates an Executor.
func New(deps Deps) *Executor {
	return &Executor{Deps: deps, now: time.Now}
}

// WithClock replaces the clock used for build records.
func (e *Executor) WithClock(now func() time.Time) *Executor {
	e.now = now
	return e
}

// Run executes the pipeline and returns its outcome. Failures are reported
// through Outcome.Failure, never as a separate error.
func (e *Executor) Run(ctx context.Context, cfg domain.PipelineConfig) *domain.Outcome {
	r := &run{
		e:        e,
		cfg:      cfg,
		settings: cfg.Settings(),
		out:      &domain.Outcome{State: domain.StateStart, DryRun: cfg.DryRun},
	}
	r.execute(ctx)
	return r.out
}

// run is the state of one pipeline execution.
type run struct {
	e        *Executor
	cfg      domain.PipelineConfig
	settings domain.PipelineSettings
	out      *domain.Outcome

	history         *domain.History
	historyReadable bool
	buildStd        []domain.ChangeRecord
	configBackup    *domain.Backup
	toolchain       domain.Toolchain
	artifact        string
	size            int64
}

func (r *run) execute(ctx context.Context) {
	if !r.step(ctx, domain.StageResolve, domain.StateProfileResolved, r.resolve) {
		return
	}
	if !r.step(ctx, domain.StageManifest, domain.StateManifestMutated, r.mutate) {
		return
	}

	if r.cfg.DryRun {
		r.out.Plan = r.plan()
		r.out.State = domain.StateDone
		return
	}

	r.loadHistory()

	if !r.step(ctx, domain.StageToolchain, domain.StateManifestMutated, r.detect) {
		return
	}
	if !r.step(ctx, domain.StageCompile, domain.StateCompiled, r.compile) {
		return
	}
	for _, st := range r.settings.Stages {
		if !r.postStep(ctx, st) {
			return
		}
	}
	r.out.State = domain.StatePostProcessed

	if !r.step(ctx, domain.StageBudget, domain.StateBudgetChecked, r.checkBudget) {
		return
	}
	if !r.step(ctx, domain.StageHistory, domain.StateHistoryRecorded, r.recordHistory) {
		return
	}
	r.out.State = domain.StateDone
}

// step runs fn inside a telemetry vertex and advances to next on success.
func (r *run) step(ctx context.Context, id domain.StageID, next domain.PipelineState, fn func(context.Context) error) bool {
	if err := ctx.Err(); err != nil {
		r.fail(id, err)
		return false
	}

	vctx, vertex := r.e.Telemetry.Record(ctx, string(id))
	err := fn(vctx)
	vertex.Complete(err)
	if err != nil {
		r.fail(id, err)
		return false
	}
	r.out.State = next
	return true
}

func (r *run) fail(id domain.StageID, err error) {
	r.out.State = domain.StateFailed
	r.out.Failure = &domain.Failure{Stage: id, Cause: err}
	r.rollback(id)
}

// rollback restores the manifest and cargo config when a build step fails and
// the project opted in.
func (r *run) rollback(id domain.StageID) {
	if !r.settings.RollbackOnFailure || !rollsBack(id) {
		return
	}
	for _, b := range []*domain.Backup{r.out.Backup, r.configBackup} {
		if b == nil {
			continue
		}
		if err := r.e.Backups.Restore(b); err != nil {
			r.warn(fmt.Sprintf("could not restore %s from %s: %v", filepath.Base(b.OriginalPath), b.Path, err))
			continue
		}
		r.out.RolledBack = true
		r.e.Logger.Info(fmt.Sprintf("restored %s from %s", filepath.Base(b.OriginalPath), b.Path))
	}
}

func rollsBack(id domain.StageID) bool {
	switch id {
	case domain.StageToolchain, domain.StageCompile, domain.StageBindgen,
		domain.StageOptimize, domain.StageSnip, domain.StageVerify:
		return true
	default:
		return false
	}
}

func (r *run) warn(msg string) {
	r.out.Warnings = append(r.out.Warnings, msg)
	r.e.Logger.Warn(msg)
}

func (r *run) resolve(_ context.Context) error {
	p, err := r.e.Resolver.ResolveConfig(r.cfg.Project)
	if err != nil {
		return err
	}
	r.out.Profile = p
	return nil
}

func (r *run) mutate(ctx context.Context) error {
	res, err := r.e.Mutator.Mutate(domain.ManifestPath(r.cfg.Root), r.out.Profile, r.out.Profile.WasmOptFlags, r.cfg.DryRun)
	if err != nil {
		return err
	}
	r.out.Changes = res.Changes
	r.out.Backup = res.Backup
	for _, c := range res.Changes {
		r.e.Logger.Info(c.Message)
	}

	r.mutateBuildStd(ctx)
	return nil
}

// mutateBuildStd configures build-std in .cargo/config.toml on nightly
// toolchains. A failure leaves the build running on the prebuilt std. Dry-run
// cannot ask rustc, so it only plans the edit.
func (r *run) mutateBuildStd(ctx context.Context) {
	if !r.cfg.DryRun && !r.e.Detector.Nightly(ctx) {
		return
	}
	res, err := r.e.BuildStd.Mutate(r.cfg.Root, r.cfg.DryRun)
	if err != nil {
		r.warn(fmt.Sprintf("build-std not configured: %v", err))
		return
	}
	r.buildStd = res.Changes
	if r.cfg.DryRun {
		return
	}
	r.configBackup = res.Backup
	r.out.Changes = append(r.out.Changes, res.Changes...)
	for _, c := range res.Changes {
		r.e.Logger.Info(c.Message)
	}
}

// loadHistory reads the history before any stage runs. An unreadable file is
// reported and left untouched for the rest of the run.
func (r *run) loadHistory() {
	h, err := r.e.History.Load(r.cfg.Root)
	if err != nil {
		r.warn(fmt.Sprintf("build history ignored: %v", err))
		r.history = domain.NewHistory()
		return
	}
	r.history = h
	r.historyReadable = true
}

func (r *run) detect(ctx context.Context) error {
	tc, err := r.e.Detector.Detect(ctx, r.requiredTools())
	if err != nil {
		return err
	}
	r.toolchain = tc

	for _, s := range tc.Tools {
		if s.Installed || !s.Tool.Required {
			continue
		}
		return zerr.With(zerr.With(zerr.New(domain.ErrToolMissing.Error()),
			"tool", s.Tool.Binary),
			"install", s.Tool.InstallHint)
	}
	return nil
}

// requiredTools returns cargo plus the tools of the enabled stages.
func (r *run) requiredTools() []domain.Tool {
	var tools []domain.Tool
	for _, t := range domain.PipelineTools() {
		switch t.Binary {
		case domain.ToolCargo:
		case domain.ToolWasmBindgen:
			if !r.settings.HasStage(domain.StageBindgen) {
				continue
			}
		case domain.ToolWasmOpt:
			if !r.settings.HasStage(domain.StageOptimize) {
				continue
			}
		case domain.ToolWasmSnip:
			if !r.settings.HasStage(domain.StageSnip) {
				continue
			}
		}
		tools = append(tools, t)
	}
	return tools
}

func (r *run) compile(ctx context.Context) error {
	res, err := r.e.Runner.Run(ctx, r.cargoCommand())
	result := domain.StageResult{Stage: domain.StageCompile, Duration: res.Duration, Output: string(res.Stderr)}
	if err != nil {
		r.out.Stages = append(r.out.Stages, result)
		return err
	}

	artifact, err := r.firstWasm(r.releaseDir())
	if err != nil {
		r.out.Stages = append(r.out.Stages, result)
		return err
	}
	size, digest, err := r.measure(artifact)
	if err != nil {
		r.out.Stages = append(r.out.Stages, result)
		return err
	}

	result.Success = true
	result.SizeAfter = size
	result.Digest = digest
	r.out.Stages = append(r.out.Stages, result)

	r.artifact = artifact
	r.size = size
	r.out.Artifact = artifact
	r.out.OriginalSize = size
	r.out.FinalSize = size
	return nil
}

func (r *run) cargoCommand() domain.Command {
	args := []string{"build", "--release", "--target", r.settings.Target.String()}
	if r.settings.TargetDir != "" {
		args = append(args, "--target-dir", r.settings.TargetDir)
	}
	return domain.Command{
		Name:  domain.ToolCargo,
		Args:  args,
		Dir:   r.cfg.Root,
		Unset: compileUnsetEnv,
	}
}

// releaseDir is <target-dir>/<triple>/release, with relative target dirs resolved against the root.
func (r *run) releaseDir() string {
	base := filepath.Join(r.cfg.Root, domain.TargetDirName)
	if dir := r.settings.TargetDir; dir != "" {
		base = dir
		if !filepath.IsAbs(dir) {
			base = filepath.Join(r.cfg.Root, dir)
		}
	}
	return filepath.Join(base, r.settings.Target.String(), "release")
}

// firstWasm returns the lexically first .wasm file in dir.
func (r *run) firstWasm(dir string) (string, error) {
	entries, err := r.e.FS.ReadDir(dir)
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrArtifactNotFound.Error()), "dir", dir)
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".wasm") {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", zerr.With(zerr.New(domain.ErrArtifactNotFound.Error()), "dir", dir)
}

func (r *run) measure(path string) (int64, uint64, error) {
	data, err := r.e.FS.ReadFile(path)
	if err != nil {
		return 0, 0, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", path)
	}
	return int64(len(data)), xxhash.Sum64(data), nil
}

func (r *run) checkBudget(_ context.Context) error {
	size := uint64(r.size) //nolint:gosec // sizes are never negative
	r.out.Regression = r.history.CheckRegression(size)
	if reg := r.out.Regression; reg != nil && reg.IsRegression {
		r.warn(fmt.Sprintf("size regression: %+.2f%% since last build", reg.PercentChange))
	}

	b := r.cfg.Project.Budget()
	if b.IsZero() {
		return nil
	}
	res := budget.Evaluate(size, b)
	r.out.Budget = &res

	switch res.Status {
	case domain.BudgetOverBudget:
		if r.cfg.CheckBudget {
			return zerr.With(zerr.New(domain.ErrBudgetExceeded.Error()), "message", res.Message)
		}
		r.warn(res.Message)
	case domain.BudgetWarning:
		r.warn(res.Message)
	}
	return nil
}

func (r *run) recordHistory(ctx context.Context) error {
	if !r.historyReadable {
		return nil
	}
	rev := r.e.Source.Head(ctx, r.cfg.Root)
	r.history.Add(domain.NewBuildRecord(r.e.now(), uint64(r.size), rev)) //nolint:gosec // sizes are never negative
	if err := r.e.History.Save(r.cfg.Root, r.history); err != nil {
		r.warn(fmt.Sprintf("build history not saved: %v", err))
	}
	return nil
}
