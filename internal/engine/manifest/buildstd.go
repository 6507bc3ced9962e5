package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	// BuildStdComponents are the standard library crates rebuilt with the project's profile.
	BuildStdComponents = []string{"std", "panic_abort", "core", "alloc"}

	// BuildStdFeatures drop the panic formatting machinery from the rebuilt std.
	BuildStdFeatures = []string{"panic_immediate_abort"}

	unstablePath = []string{"unstable"}

	configName = filepath.Join(domain.CargoConfigDirName, domain.CargoConfigFileName)
)

var _ ports.BuildStdMutator = (*BuildStdMutator)(nil)

// BuildStdMutator writes the build-std settings into .cargo/config.toml.
// They are only understood by nightly toolchains.
type BuildStdMutator struct {
	fs      ports.FileSystem
	backups ports.BackupManager
}

// NewBuildStdMutator creates a BuildStdMutator that snapshots an existing
// config through backups before rewriting it.
func NewBuildStdMutator(fsys ports.FileSystem, backups ports.BackupManager) *BuildStdMutator {
	return &BuildStdMutator{fs: fsys, backups: backups}
}

// Mutate adds build-std and build-std-features to the [unstable] table of the
// cargo config under root, creating the file when it does not exist. Keys that
// are already set are never overwritten.
func (m *BuildStdMutator) Mutate(root string, dryRun bool) (domain.MutationResult, error) {
	path := domain.CargoConfigPath(root)

	src, err := m.fs.ReadFile(path)
	exists := err == nil
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return domain.MutationResult{}, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", path)
	}

	doc, err := Parse(src)
	if err != nil {
		return domain.MutationResult{}, zerr.With(err, "path", path)
	}

	changes, err := ApplyBuildStd(doc)
	if err != nil {
		return domain.MutationResult{}, zerr.With(err, "path", path)
	}

	result := domain.MutationResult{Changes: changes}
	if len(changes) == 0 || dryRun {
		return result, nil
	}

	if exists {
		backup, err := m.backups.Snapshot(path)
		if err != nil {
			return domain.MutationResult{}, err
		}
		result.Backup = backup
	} else {
		dir := filepath.Dir(path)
		if err := m.fs.MkdirAll(dir, domain.DirPerm); err != nil {
			return domain.MutationResult{}, zerr.With(zerr.Wrap(err, domain.ErrDirCreateFailed.Error()), "path", dir)
		}
	}

	perm := fs.FileMode(domain.FilePerm)
	if info, err := m.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := m.fs.WriteFile(path, doc.Bytes(), perm); err != nil {
		return domain.MutationResult{}, zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}
	return result, nil
}

// ApplyBuildStd edits doc in memory and returns the changes made.
func ApplyBuildStd(doc *Document) ([]domain.ChangeRecord, error) {
	unstable, _, err := doc.Table(unstablePath...)
	if err != nil {
		return nil, err
	}

	var changes []domain.ChangeRecord
	if _, ok := unstable["build-std"]; !ok {
		if err := doc.Set(append(slices.Clone(unstablePath), "build-std"), slices.Clone(BuildStdComponents)); err != nil {
			return nil, err
		}
		changes = append(changes, domain.ChangeRecord{
			Field:   "build-std",
			Value:   fmt.Sprint(BuildStdComponents),
			Message: fmt.Sprintf("Set build-std = %q in %s (10-20%% reduction)", BuildStdComponents, configName),
		})
	}
	if _, ok := unstable["build-std-features"]; !ok {
		if err := doc.Set(append(slices.Clone(unstablePath), "build-std-features"), slices.Clone(BuildStdFeatures)); err != nil {
			return nil, err
		}
		changes = append(changes, domain.ChangeRecord{
			Field:   "build-std-features",
			Value:   fmt.Sprint(BuildStdFeatures),
			Message: fmt.Sprintf("Set build-std-features = %q in %s (smaller panic handler)", BuildStdFeatures, configName),
		})
	}
	return changes, nil
}
