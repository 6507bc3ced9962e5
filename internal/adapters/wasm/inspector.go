// Package wasm inspects compiled WebAssembly modules with wazero.
package wasm

import (
	"context"
	"slices"

	"github.com/tetratelabs/wazero"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
	"go.trai.ch/zerr"
)

// Inspector implements ports.ArtifactInspector.
// Modules are compiled, never instantiated, so imports need not resolve.
type Inspector struct {
	fs ports.FileSystem
}

// NewInspector creates a new Inspector.
func NewInspector(fsys ports.FileSystem) *Inspector {
	return &Inspector{fs: fsys}
}

// Inspect validates the module at path and describes its interface.
// Memories counts imported and exported memories only.
func (i *Inspector) Inspect(ctx context.Context, path string) (*domain.ModuleInfo, error) {
	data, err := i.fs.ReadFile(path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", path)
	}

	rt := wazero.NewRuntimeWithConfig(ctx, wazero.NewRuntimeConfig().WithCustomSections(true))
	defer func() { _ = rt.Close(ctx) }()

	compiled, err := rt.CompileModule(ctx, data)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrInvalidArtifact.Error()), "path", path)
	}
	defer func() { _ = compiled.Close(ctx) }()

	info := &domain.ModuleInfo{
		Path: path,
		Size: int64(len(data)),
	}

	for _, fn := range compiled.ImportedFunctions() {
		if mod, name, ok := fn.Import(); ok {
			info.Imports = append(info.Imports, mod+"."+name)
		}
	}
	for _, mem := range compiled.ImportedMemories() {
		if mod, name, ok := mem.Import(); ok {
			info.Imports = append(info.Imports, mod+"."+name)
		}
	}
	for name := range compiled.ExportedFunctions() {
		info.Exports = append(info.Exports, name)
	}
	for name := range compiled.ExportedMemories() {
		info.Exports = append(info.Exports, name)
	}
	slices.Sort(info.Imports)
	slices.Sort(info.Exports)

	info.Memories = len(compiled.ImportedMemories()) + len(compiled.ExportedMemories())

	for _, cs := range compiled.CustomSections() {
		info.CustomSections = append(info.CustomSections, domain.CustomSection{
			Name: cs.Name(),
			Size: len(cs.Data()),
		})
	}

	return info, nil
}
