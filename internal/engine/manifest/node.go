package manifest

import (
	"context"

	"github.com/grindlemire/graft"
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/backup" //nolint:depguard // Wired in engine wiring
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/fs"     //nolint:depguard // Wired in engine wiring
	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/logger" //nolint:depguard // Wired in engine wiring
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
)

const (
	// MutatorNodeID is the unique identifier for the manifest mutator Graft node.
	MutatorNodeID graft.ID = "engine.manifest.mutator"
	// BuildStdNodeID is the unique identifier for the cargo config build-std Graft node.
	BuildStdNodeID graft.ID = "engine.manifest.buildstd"
	// ApplicatorNodeID is the unique identifier for the fix applicator Graft node.
	ApplicatorNodeID graft.ID = "engine.manifest.applicator"
)

func init() {
	graft.Register(graft.Node[ports.ManifestMutator]{
		ID:        MutatorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.NodeID, backup.NodeID},
		Run: func(ctx context.Context) (ports.ManifestMutator, error) {
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			backups, err := graft.Dep[ports.BackupManager](ctx)
			if err != nil {
				return nil, err
			}
			return NewMutator(fsys, backups), nil
		},
	})

	graft.Register(graft.Node[ports.BuildStdMutator]{
		ID:        BuildStdNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.NodeID, backup.NodeID},
		Run: func(ctx context.Context) (ports.BuildStdMutator, error) {
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			backups, err := graft.Dep[ports.BackupManager](ctx)
			if err != nil {
				return nil, err
			}
			return NewBuildStdMutator(fsys, backups), nil
		},
	})

	graft.Register(graft.Node[*Applicator]{
		ID:        ApplicatorNodeID,
		Cacheable: true,
		DependsOn: []graft.ID{fs.NodeID, backup.NodeID, logger.NodeID},
		Run: func(ctx context.Context) (*Applicator, error) {
			fsys, err := graft.Dep[ports.FileSystem](ctx)
			if err != nil {
				return nil, err
			}
			backups, err := graft.Dep[ports.BackupManager](ctx)
			if err != nil {
				return nil, err
			}
			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}
			return NewApplicator(fsys, backups, log), nil
		},
	})
}
