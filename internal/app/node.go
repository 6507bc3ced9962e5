package app

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/backup"             //nolint:depguard // Wired in app layer
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/catalog"            //nolint:depguard // Wired in app layer
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/config"             //nolint:depguard // Wired in app layer
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/fs"                 //nolint:depguard // Wired in app layer
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/history"            //nolint:depguard // Wired in app layer
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/logger"             //nolint:depguard // Wired in app layer
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in app layer
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/toolchain"          //nolint:depguard // Wired in app layer
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/wasm"               //nolint:depguard // Wired in app layer
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
	"github.com/vitalratel/wasm-slim-sub001/internal/engine/manifest"
	"github.com/vitalratel/wasm-slim-sub001/internal/engine/pipeline"
	"github.com/vitalratel/wasm-slim-sub001/internal/engine/profile"
)

const (
	// AppNodeID is the unique identifier for the main App Graft node.
	AppNodeID graft.ID = "app.main"
	// ComponentsNodeID is the unique identifier for the App components Graft node.
	ComponentsNodeID graft.ID = "app.components"
)

func init() {
	// App Node
	graft.Register(graft.Node[*App]{
		ID:        AppNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.NodeID,
			config.NodeID,
			catalog.NodeID,
			profile.NodeID,
			pipeline.NodeID,
			manifest.ApplicatorNodeID,
			backup.NodeID,
			history.NodeID,
			toolchain.NodeID,
			wasm.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runAppNode,
	})

	// Components Node
	graft.Register(graft.Node[*Components]{
		ID:        ComponentsNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			AppNodeID,
			logger.NodeID,
		},
		Run: runComponentsNode,
	})
}

func runAppNode(ctx context.Context) (*App, error) {
	var (
		s   Services
		err error
	)
	if s.FS, err = graft.Dep[ports.FileSystem](ctx); err != nil {
		return nil, err
	}
	if s.Config, err = graft.Dep[ports.ConfigLoader](ctx); err != nil {
		return nil, err
	}
	if s.Catalog, err = graft.Dep[ports.TemplateCatalog](ctx); err != nil {
		return nil, err
	}
	if s.Resolver, err = graft.Dep[*profile.Resolver](ctx); err != nil {
		return nil, err
	}
	if s.Pipeline, err = graft.Dep[*pipeline.Executor](ctx); err != nil {
		return nil, err
	}
	if s.Applicator, err = graft.Dep[*manifest.Applicator](ctx); err != nil {
		return nil, err
	}
	if s.Backups, err = graft.Dep[ports.BackupManager](ctx); err != nil {
		return nil, err
	}
	if s.History, err = graft.Dep[ports.HistoryStore](ctx); err != nil {
		return nil, err
	}
	if s.Detector, err = graft.Dep[ports.ToolchainDetector](ctx); err != nil {
		return nil, err
	}
	if s.Inspector, err = graft.Dep[ports.ArtifactInspector](ctx); err != nil {
		return nil, err
	}
	if s.Telemetry, err = graft.Dep[ports.Telemetry](ctx); err != nil {
		return nil, err
	}
	if s.Logger, err = graft.Dep[ports.Logger](ctx); err != nil {
		return nil, err
	}
	return New(s), nil
}

func runComponentsNode(ctx context.Context) (*Components, error) {
	app, err := graft.Dep[*App](ctx)
	if err != nil {
		return nil, err
	}

	log, err := graft.Dep[ports.Logger](ctx)
	if err != nil {
		return nil, err
	}

	return NewComponents(app, log), nil
}
