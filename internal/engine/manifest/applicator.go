package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"slices"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
	"go.trai.ch/zerr"
)

// Applicator applies dependency fix suggestions to Cargo.toml.
type Applicator struct {
	fs      ports.FileSystem
	backups ports.BackupManager
	logger  ports.Logger
}

// NewApplicator creates an Applicator.
func NewApplicator(fsys ports.FileSystem, backups ports.BackupManager, logger ports.Logger) *Applicator {
	return &Applicator{fs: fsys, backups: backups, logger: logger}
}

// ParseReport decodes a dependency report.
func ParseReport(data []byte) (domain.DependencyReport, error) {
	var report domain.DependencyReport
	if err := json.Unmarshal(data, &report); err != nil {
		return domain.DependencyReport{}, zerr.Wrap(err, domain.ErrReportParse.Error())
	}
	return report, nil
}

// Apply fixes the [dependencies] of the manifest in root for every reported
// package with a known remedy. It returns the number of fixes applied.
// Replacements, splits and optional features need manual work and are not counted.
func (a *Applicator) Apply(root string, report domain.DependencyReport, dryRun bool) (int, error) {
	path := domain.ManifestPath(root)
	src, err := a.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, zerr.With(zerr.Wrap(err, domain.ErrManifestNotFound.Error()), "path", path)
		}
		return 0, zerr.With(zerr.Wrap(err, domain.ErrManifestRead.Error()), "path", path)
	}

	doc, err := Parse(src)
	if err != nil {
		return 0, zerr.With(err, "path", path)
	}
	deps, _, err := doc.Table("dependencies")
	if err != nil {
		return 0, zerr.With(err, "path", path)
	}

	applied := 0
	for _, pkg := range reportedPackages(report) {
		alt, ok := BestAlternative(pkg)
		if !ok {
			continue
		}
		spec, ok := deps[pkg]
		if !ok {
			continue
		}

		var done bool
		switch alt.Kind {
		case domain.FixFeatureMinimization:
			done, err = minimizeFeatures(doc, pkg, spec)
		case domain.FixWasm:
			done, err = enableWasmFeatures(doc, pkg, spec)
		default:
			continue
		}
		if err != nil {
			return applied, zerr.With(zerr.With(err, "path", path), "package", pkg)
		}
		if done {
			applied++
			a.logger.Info(fmt.Sprintf("Applied %s to %s (~%d%% savings)", alt.Kind, pkg, alt.SavingsPercent))
		}
	}

	if applied == 0 || dryRun {
		return applied, nil
	}

	if _, err := a.backups.Snapshot(path); err != nil {
		return 0, err
	}
	perm := fs.FileMode(domain.FilePerm)
	if info, err := a.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := a.fs.WriteFile(path, doc.Bytes(), perm); err != nil {
		return 0, zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}
	return applied, nil
}

func reportedPackages(report domain.DependencyReport) []string {
	seen := make(map[string]struct{}, len(report.Issues))
	var out []string
	for _, issue := range report.Issues {
		if _, ok := seen[issue.Package]; ok {
			continue
		}
		seen[issue.Package] = struct{}{}
		out = append(out, issue.Package)
	}
	slices.Sort(out)
	return out
}

// minimizeFeatures turns off default features. Dependencies that already
// state default-features are left as the author wrote them.
func minimizeFeatures(doc *Document, pkg string, spec any) (bool, error) {
	features := minimalFeatures[pkg]
	key := []string{"dependencies", pkg}

	switch spec := spec.(type) {
	case string:
		table := InlineTable{{Key: "version", Value: spec}, {Key: "default-features", Value: false}}
		if len(features) > 0 {
			table = append(table, Field{Key: "features", Value: features})
		}
		return true, doc.Set(key, table)
	case map[string]any:
		if _, ok := spec["default-features"]; ok {
			return false, nil
		}
		if _, ok := spec["default_features"]; ok {
			return false, nil
		}
		if err := doc.Set(append(key, "default-features"), false); err != nil {
			return false, err
		}
		if _, ok := spec["features"]; !ok && len(features) > 0 {
			if err := doc.Set(append(key, "features"), features); err != nil {
				return false, err
			}
		}
		return true, nil
	}
	return false, nil
}

// enableWasmFeatures adds the crate's WebAssembly features that are not yet enabled.
func enableWasmFeatures(doc *Document, pkg string, spec any) (bool, error) {
	key := []string{"dependencies", pkg}

	switch spec := spec.(type) {
	case string:
		features := wasmFeatures(pkg, spec)
		if len(features) == 0 {
			return false, nil
		}
		return true, doc.Set(key, InlineTable{{Key: "version", Value: spec}, {Key: "features", Value: features}})
	case map[string]any:
		version, _ := spec["version"].(string)
		features := wasmFeatures(pkg, version)
		current, _ := stringList(spec["features"])
		merged := slices.Clone(current)
		for _, f := range features {
			if !slices.Contains(merged, f) {
				merged = append(merged, f)
			}
		}
		if len(merged) == len(current) {
			return false, nil
		}
		return true, doc.Set(append(key, "features"), merged)
	}
	return false, nil
}
