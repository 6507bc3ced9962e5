package pipeline

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/backup"             //nolint:depguard // Wired in engine wiring
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/git"                //nolint:depguard // Wired in engine wiring
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/history"            //nolint:depguard // Wired in engine wiring
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/shell"              //nolint:depguard // Wired in engine wiring
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/toolchain"          //nolint:depguard // Wired in engine wiring
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/wasm"               //nolint:depguard // Wired in engine wiring
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
	"github.com/vitalratel/wasm-slim-sub001/internal/engine/manifest"
	"github.com/vitalratel/wasm-slim-sub001/internal/engine/profile"
)

// NodeID is the unique identifier for the pipeline executor Graft node.
const NodeID graft.ID = "engine.pipeline"

func init() {
	graft.Register(graft.Node[*Executor]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			fs.NodeID,
			profile.NodeID,
			manifest.MutatorNodeID,
			manifest.BuildStdNodeID,
			backup.NodeID,
			toolchain.NodeID,
			shell.NodeID,
			wasm.NodeID,
			history.NodeID,
			git.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: runNode,
	})
}

func runNode(ctx context.Context) (*Executor, error) {
	var (
		deps Deps
		err  error
	)
	if deps.FS, err = graft.Dep[ports.FileSystem](ctx); err != nil {
		return nil, err
	}
	if deps.Resolver, err = graft.Dep[*profile.Resolver](ctx); err != nil {
		return nil, err
	}
	if deps.Mutator, err = graft.Dep[ports.ManifestMutator](ctx); err != nil {
		return nil, err
	}
	if deps.BuildStd, err = graft.Dep[ports.BuildStdMutator](ctx); err != nil {
		return nil, err
	}
	if deps.Backups, err = graft.Dep[ports.BackupManager](ctx); err != nil {
		return nil, err
	}
	if deps.Detector, err = graft.Dep[ports.ToolchainDetector](ctx); err != nil {
		return nil, err
	}
	if deps.Runner, err = graft.Dep[ports.ToolRunner](ctx); err != nil {
		return nil, err
	}
	if deps.Inspector, err = graft.Dep[ports.ArtifactInspector](ctx); err != nil {
		return nil, err
	}
	if deps.History, err = graft.Dep[ports.HistoryStore](ctx); err != nil {
		return nil, err
	}
	if deps.Source, err = graft.Dep[ports.SourceControl](ctx); err != nil {
		return nil, err
	}
	if deps.Telemetry, err = graft.Dep[ports.Telemetry](ctx); err != nil {
		return nil, err
	}
	if deps.Logger, err = graft.Dep[ports.Logger](ctx); err != nil {
		return nil, err
	}
	return New(deps), nil
}
