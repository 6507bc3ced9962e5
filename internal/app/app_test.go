package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/backup"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/catalog"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/fs"
	"github.com/vitalratel/wasm-slim-sub001/internal/app"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports/mocks"
	"github.com/vitalratel/wasm-slim-sub001/internal/engine/manifest"
	"github.com/vitalratel/wasm-slim-sub001/internal/engine/profile"
	"go.uber.org/mock/gomock"
)

const root = "/project"

type pipelineFunc func(ctx context.Context, cfg domain.PipelineConfig) *domain.Outcome

func (f pipelineFunc) Run(ctx context.Context, cfg domain.PipelineConfig) *domain.Outcome {
	return f(ctx, cfg)
}

type fixture struct {
	app       *app.App
	out       *bytes.Buffer
	mem       *fs.MemFS
	config    *mocks.MockConfigLoader
	backups   *mocks.MockBackupManager
	history   *mocks.MockHistoryStore
	detector  *mocks.MockToolchainDetector
	inspector *mocks.MockArtifactInspector
	telemetry *mocks.MockTelemetry
	runs      []domain.PipelineConfig
	outcome   *domain.Outcome
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctrl := gomock.NewController(t)

	cat, err := catalog.New()
	require.NoError(t, err)

	log := mocks.NewMockLogger(ctrl)
	log.EXPECT().Info(gomock.Any()).AnyTimes()
	log.EXPECT().Warn(gomock.Any()).AnyTimes()

	mem := fs.NewMemFS(root)
	f := &fixture{
		out:       new(bytes.Buffer),
		mem:       mem,
		config:    mocks.NewMockConfigLoader(ctrl),
		backups:   mocks.NewMockBackupManager(ctrl),
		history:   mocks.NewMockHistoryStore(ctrl),
		detector:  mocks.NewMockToolchainDetector(ctrl),
		inspector: mocks.NewMockArtifactInspector(ctrl),
		telemetry: mocks.NewMockTelemetry(ctrl),
		outcome:   &domain.Outcome{State: domain.StateDone},
	}
	f.app = app.New(app.Services{
		FS:       mem,
		Config:   f.config,
		Catalog:  cat,
		Resolver: profile.NewResolver(cat),
		Pipeline: pipelineFunc(func(_ context.Context, cfg domain.PipelineConfig) *domain.Outcome {
			f.runs = append(f.runs, cfg)
			return f.outcome
		}),
		Applicator: manifest.NewApplicator(mem, backup.NewManager(mem), log),
		Backups:    f.backups,
		History:    f.history,
		Detector:   f.detector,
		Inspector:  f.inspector,
		Telemetry:  f.telemetry,
		Logger:     log,
	}).WithOutput(f.out)
	return f
}

func TestApp_Build(t *testing.T) {
	f := newFixture(t)
	f.config.EXPECT().Load(root).Return(domain.DefaultProjectConfig(), nil)
	f.telemetry.EXPECT().Close().Return(nil)

	err := f.app.Build(context.Background(), root, app.BuildOptions{
		Check:             true,
		Template:          "minimal",
		TargetDir:         "out",
		RollbackOnFailure: true,
	})
	require.NoError(t, err)

	require.Len(t, f.runs, 1)
	cfg := f.runs[0]
	assert.Equal(t, root, cfg.Root)
	assert.True(t, cfg.CheckBudget)
	assert.False(t, cfg.DryRun)
	assert.Equal(t, "minimal", cfg.Project.Template)
	assert.Equal(t, "out", cfg.Project.Pipeline.TargetDir)
	assert.True(t, cfg.Project.Pipeline.RollbackOnFailure)
	assert.Contains(t, f.out.String(), "Build succeeded")
}

func TestApp_Build_JSON(t *testing.T) {
	f := newFixture(t)
	f.config.EXPECT().Load(root).Return(domain.DefaultProjectConfig(), nil)
	f.telemetry.EXPECT().Close().Return(nil)
	f.outcome = &domain.Outcome{State: domain.StateDone, DryRun: true, Plan: []string{"cargo build"}}

	require.NoError(t, f.app.Build(context.Background(), root, app.BuildOptions{JSON: true, DryRun: true}))

	var got map[string]any
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
	assert.Equal(t, true, got["success"])
	assert.Equal(t, true, got["dry_run"])
	assert.True(t, f.runs[0].JSON)
}

func TestApp_Build_Failure(t *testing.T) {
	f := newFixture(t)
	f.config.EXPECT().Load(root).Return(domain.DefaultProjectConfig(), nil)
	f.telemetry.EXPECT().Close().Return(errors.New("tape closed"))

	cause := errors.New("cargo exited with status 101")
	f.outcome = &domain.Outcome{
		State:   domain.StateFailed,
		Failure: &domain.Failure{Stage: domain.StageCompile, Cause: cause},
	}

	err := f.app.Build(context.Background(), root, app.BuildOptions{})
	require.Error(t, err)
	require.ErrorIs(t, err, domain.ErrBuildFailed)
	require.ErrorIs(t, err, cause)
	assert.Contains(t, f.out.String(), "Failed at compile")
}

func TestApp_Build_ConfigError(t *testing.T) {
	f := newFixture(t)
	f.config.EXPECT().Load(root).Return(nil, errors.New(domain.ErrInvalidBudget.Error()))

	err := f.app.Build(context.Background(), root, app.BuildOptions{})
	require.ErrorContains(t, err, "failed to load configuration")
	assert.Empty(t, f.runs)
	assert.Empty(t, f.out.String())
}

func TestApp_Init(t *testing.T) {
	t.Run("pins the template", func(t *testing.T) {
		f := newFixture(t)
		f.config.EXPECT().Exists(root).Return(false, nil)

		var saved *domain.ProjectConfig
		f.config.EXPECT().Save(root, gomock.Any()).DoAndReturn(func(_ string, cfg *domain.ProjectConfig) error {
			saved = cfg
			return nil
		})

		require.NoError(t, f.app.Init(root, app.InitOptions{Template: "Minimal"}))
		require.NotNil(t, saved)
		assert.Equal(t, "minimal", saved.Template)
		require.NotNil(t, saved.Overrides.OptLevel)
		assert.Equal(t, "z", *saved.Overrides.OptLevel)
	})

	t.Run("refuses to overwrite", func(t *testing.T) {
		f := newFixture(t)
		f.config.EXPECT().Exists(root).Return(true, nil)

		err := f.app.Init(root, app.InitOptions{})
		require.ErrorContains(t, err, domain.ErrConfigExists.Error())
	})

	t.Run("force overwrites", func(t *testing.T) {
		f := newFixture(t)
		f.config.EXPECT().Exists(root).Return(true, nil)
		f.config.EXPECT().Save(root, gomock.Any()).Return(nil)

		require.NoError(t, f.app.Init(root, app.InitOptions{Force: true}))
	})

	t.Run("unknown template", func(t *testing.T) {
		f := newFixture(t)
		f.config.EXPECT().Exists(root).Return(false, nil)

		err := f.app.Init(root, app.InitOptions{Template: "tiny"})
		require.ErrorContains(t, err, domain.ErrTemplateNotFound.Error())
	})
}

func TestApp_Fix(t *testing.T) {
	f := newFixture(t)
	f.mem.Seed("/project/Cargo.toml", []byte("[dependencies]\nimage = \"0.24\"\n"))
	f.mem.Seed("/project/report.json", []byte(`{"total_deps":1,"direct_deps":1,"issues":[{"package":"image","severity":"high"}]}`))

	require.NoError(t, f.app.Fix(root, app.FixOptions{Report: "/project/report.json"}))
	assert.Equal(t, "Applied 1 fix(es) to Cargo.toml\n", f.out.String())

	data, err := f.mem.ReadFile("/project/Cargo.toml")
	require.NoError(t, err)
	assert.Contains(t, string(data), "default-features = false")
}

func TestApp_Fix_Errors(t *testing.T) {
	f := newFixture(t)
	f.mem.Seed("/project/bad.json", []byte("not json"))

	err := f.app.Fix(root, app.FixOptions{Report: "/project/missing.json"})
	require.ErrorContains(t, err, domain.ErrFileReadFailed.Error())

	err = f.app.Fix(root, app.FixOptions{Report: "/project/bad.json"})
	require.ErrorContains(t, err, domain.ErrReportParse.Error())
}

func TestApp_Restore(t *testing.T) {
	newer := domain.Backup{
		OriginalPath: "/project/Cargo.toml",
		Path:         "/project/.wasm-slim/backups/Cargo.toml.20260502_100000.000.bb.backup",
		CreatedAt:    time.Date(2026, 5, 2, 10, 0, 0, 0, time.UTC),
		Size:         120,
	}
	older := domain.Backup{
		OriginalPath: "/project/Cargo.toml",
		Path:         "/project/.wasm-slim/backups/Cargo.toml.20260501_100000.000.aa.backup",
		CreatedAt:    time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
		Size:         100,
	}

	t.Run("newest by default", func(t *testing.T) {
		f := newFixture(t)
		f.backups.EXPECT().List("/project/Cargo.toml").Return([]domain.Backup{newer, older}, nil)
		f.backups.EXPECT().Restore(&newer).Return(nil)

		require.NoError(t, f.app.Restore(root, app.RestoreOptions{}))
		assert.Contains(t, f.out.String(), "Cargo.toml.20260502_100000.000.bb.backup")
	})

	t.Run("by name", func(t *testing.T) {
		f := newFixture(t)
		f.backups.EXPECT().List("/project/Cargo.toml").Return([]domain.Backup{newer, older}, nil)
		f.backups.EXPECT().Restore(&older).Return(nil)

		require.NoError(t, f.app.Restore(root, app.RestoreOptions{Backup: "Cargo.toml.20260501_100000.000.aa.backup"}))
	})

	t.Run("unknown name", func(t *testing.T) {
		f := newFixture(t)
		f.backups.EXPECT().List("/project/Cargo.toml").Return([]domain.Backup{newer}, nil)

		err := f.app.Restore(root, app.RestoreOptions{Backup: "nope.backup"})
		require.ErrorContains(t, err, domain.ErrBackupNotFound.Error())
	})

	t.Run("no backups", func(t *testing.T) {
		f := newFixture(t)
		f.backups.EXPECT().List("/project/Cargo.toml").Return(nil, nil)

		err := f.app.Restore(root, app.RestoreOptions{})
		require.ErrorContains(t, err, domain.ErrBackupNotFound.Error())
	})

	t.Run("list", func(t *testing.T) {
		f := newFixture(t)
		f.backups.EXPECT().List("/project/Cargo.toml").Return([]domain.Backup{newer, older}, nil)

		require.NoError(t, f.app.Restore(root, app.RestoreOptions{List: true}))
		assert.Equal(t,
			"2026-05-02 10:00:00       120 B  Cargo.toml.20260502_100000.000.bb.backup\n"+
				"2026-05-01 10:00:00       100 B  Cargo.toml.20260501_100000.000.aa.backup\n",
			f.out.String())
	})
}

func TestApp_History(t *testing.T) {
	f := newFixture(t)
	h := domain.NewHistory()
	h.Add(domain.BuildRecord{Timestamp: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), SizeBytes: 2048})
	f.history.EXPECT().Load(root).Return(h, nil).Times(2)

	require.NoError(t, f.app.History(root, app.HistoryOptions{}))
	assert.Contains(t, f.out.String(), "Build history (1 of 1)")

	f.out.Reset()
	require.NoError(t, f.app.History(root, app.HistoryOptions{JSON: true}))
	var got struct {
		Records []domain.BuildRecord `json:"records"`
	}
	require.NoError(t, json.Unmarshal(f.out.Bytes(), &got))
	assert.Len(t, got.Records, 1)
}

func TestApp_Templates(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.app.Templates())
	assert.Contains(t, f.out.String(), "balanced")
	assert.Contains(t, f.out.String(), "minimal")
}

func TestApp_Toolchain(t *testing.T) {
	f := newFixture(t)
	tools := domain.PipelineTools()
	f.detector.EXPECT().Detect(gomock.Any(), tools).Return(domain.Toolchain{Tools: []domain.ToolStatus{
		{Tool: tools[0], Installed: true, Version: "cargo 1.80.0"},
		{Tool: tools[1]},
	}}, nil)

	require.NoError(t, f.app.Toolchain(context.Background()))
	assert.Contains(t, f.out.String(), "cargo 1.80.0")
	assert.Contains(t, f.out.String(), "missing (required)")
}

func TestApp_Inspect(t *testing.T) {
	f := newFixture(t)
	f.inspector.EXPECT().Inspect(gomock.Any(), "demo.wasm").Return(&domain.ModuleInfo{
		Path:    "demo.wasm",
		Size:    8,
		Exports: []string{"memory"},
	}, nil)
	f.inspector.EXPECT().Inspect(gomock.Any(), "bad.wasm").Return(nil, errors.New(domain.ErrInvalidArtifact.Error()))

	require.NoError(t, f.app.Inspect(context.Background(), "demo.wasm"))
	assert.Contains(t, f.out.String(), "Exports (1): memory")

	err := f.app.Inspect(context.Background(), "bad.wasm")
	require.ErrorContains(t, err, domain.ErrInvalidArtifact.Error())
}
