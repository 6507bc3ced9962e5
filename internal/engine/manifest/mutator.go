package manifest

import (
	"fmt"
	"io/fs"
	"slices"
	"strconv"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
	"go.trai.ch/zerr"
)

var (
	releasePath  = []string{"profile", "release"}
	wasmPackPath = []string{"package", "metadata", "wasm-pack", "profile", "release"}
)

var _ ports.ManifestMutator = (*Mutator)(nil)

// Mutator applies release profiles to Cargo.toml files.
type Mutator struct {
	fs      ports.FileSystem
	backups ports.BackupManager
}

// NewMutator creates a Mutator that snapshots through backups before every write.
func NewMutator(fsys ports.FileSystem, backups ports.BackupManager) *Mutator {
	return &Mutator{fs: fsys, backups: backups}
}

// Mutate brings [profile.release] in line with profile. Fields that already
// match are left alone, so a second run reports no changes.
func (m *Mutator) Mutate(path string, profile domain.Profile, toolFlags []string, dryRun bool) (domain.MutationResult, error) {
	src, err := m.fs.ReadFile(path)
	if err != nil {
		return domain.MutationResult{}, zerr.With(zerr.Wrap(err, domain.ErrManifestRead.Error()), "path", path)
	}

	doc, err := Parse(src)
	if err != nil {
		return domain.MutationResult{}, zerr.With(err, "path", path)
	}

	changes, err := ApplyProfile(doc, profile, toolFlags)
	if err != nil {
		return domain.MutationResult{}, zerr.With(err, "path", path)
	}

	result := domain.MutationResult{Changes: changes}
	if len(changes) == 0 || dryRun {
		return result, nil
	}

	backup, err := m.write(path, doc)
	if err != nil {
		return domain.MutationResult{}, err
	}
	result.Backup = backup
	return result, nil
}

// write snapshots the original file, then replaces it with the document.
func (m *Mutator) write(path string, doc *Document) (*domain.Backup, error) {
	backup, err := m.backups.Snapshot(path)
	if err != nil {
		return nil, err
	}

	perm := fs.FileMode(domain.FilePerm)
	if info, err := m.fs.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	if err := m.fs.WriteFile(path, doc.Bytes(), perm); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}
	return backup, nil
}

// ApplyProfile edits doc in memory and returns the changes made.
func ApplyProfile(doc *Document, profile domain.Profile, toolFlags []string) ([]domain.ChangeRecord, error) {
	release, _, err := doc.Table(releasePath...)
	if err != nil {
		return nil, err
	}

	var changes []domain.ChangeRecord
	set := func(key string, v any, rec domain.ChangeRecord) error {
		if err := doc.Set(append(slices.Clone(releasePath), key), v); err != nil {
			return err
		}
		changes = append(changes, rec)
		return nil
	}

	if profile.LTO != "" && !ltoEqual(release["lto"], profile.LTO) {
		if err := set("lto", profile.LTO, domain.ChangeRecord{
			Field:   "lto",
			Value:   profile.LTO,
			Message: fmt.Sprintf("Set lto = %q (15-30%% reduction)", profile.LTO),
		}); err != nil {
			return nil, err
		}
	}

	if profile.CodegenUnits > 0 && normalize(release["codegen-units"]) != strconv.Itoa(profile.CodegenUnits) {
		if err := set("codegen-units", profile.CodegenUnits, domain.ChangeRecord{
			Field:   "codegen-units",
			Value:   strconv.Itoa(profile.CodegenUnits),
			Message: fmt.Sprintf("Set codegen-units = %d (better optimization)", profile.CodegenUnits),
		}); err != nil {
			return nil, err
		}
	}

	if profile.OptLevel != "" && normalize(release["opt-level"]) != profile.OptLevel {
		if err := set("opt-level", optLevelValue(profile.OptLevel), domain.ChangeRecord{
			Field:   "opt-level",
			Value:   profile.OptLevel,
			Message: fmt.Sprintf("Set opt-level = %q (size-optimized)", profile.OptLevel),
		}); err != nil {
			return nil, err
		}
	}

	if !stripEqual(release["strip"], profile.Strip) {
		msg := "Set strip = false"
		if profile.Strip {
			msg = "Set strip = true (remove debug symbols)"
		}
		if err := set("strip", profile.Strip, domain.ChangeRecord{
			Field:   "strip",
			Value:   strconv.FormatBool(profile.Strip),
			Message: msg,
		}); err != nil {
			return nil, err
		}
	}

	if profile.Panic != "" && normalize(release["panic"]) != profile.Panic {
		if err := set("panic", profile.Panic, domain.ChangeRecord{
			Field:   "panic",
			Value:   profile.Panic,
			Message: fmt.Sprintf("Set panic = %q (smaller panic handler)", profile.Panic),
		}); err != nil {
			return nil, err
		}
	}

	if toolFlags == nil {
		return changes, nil
	}
	rec, err := applyToolFlags(doc, toolFlags)
	if err != nil {
		return nil, err
	}
	if rec != nil {
		changes = append(changes, *rec)
	}
	return changes, nil
}

// applyToolFlags writes the wasm-pack wasm-opt list. Virtual workspace
// manifests have no [package] and are skipped.
func applyToolFlags(doc *Document, flags []string) (*domain.ChangeRecord, error) {
	if _, ok, err := doc.Table("package"); err != nil || !ok {
		return nil, err
	}
	table, _, err := doc.Table(wasmPackPath...)
	if err != nil {
		return nil, err
	}
	if current, ok := stringList(table["wasm-opt"]); ok && slices.Equal(current, flags) {
		return nil, nil
	}

	if err := doc.Set(append(slices.Clone(wasmPackPath), "wasm-opt"), slices.Clone(flags)); err != nil {
		return nil, err
	}
	return &domain.ChangeRecord{
		Field:   "wasm-opt",
		Value:   fmt.Sprint(flags),
		Message: fmt.Sprintf("Set wasm-opt flags (%d optimizations)", len(flags)),
	}, nil
}

// normalize renders integers and strings the same way so 1 and "1" compare equal.
func normalize(v any) string {
	switch v := v.(type) {
	case string:
		return v
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	case nil:
		return ""
	default:
		return fmt.Sprint(v)
	}
}

func ltoEqual(current any, want string) bool {
	switch v := current.(type) {
	case bool:
		if v {
			return want == "fat"
		}
		return want == "off"
	case string:
		return v == want
	}
	return false
}

func stripEqual(current any, want bool) bool {
	switch v := current.(type) {
	case bool:
		return v == want
	case string:
		switch v {
		case "symbols":
			return want
		case "none":
			return !want
		}
	}
	return false
}

// optLevelValue writes numeric levels as integers and "s"/"z" as strings,
// the forms cargo documents.
func optLevelValue(level string) any {
	if n, err := strconv.Atoi(level); err == nil {
		return n
	}
	return level
}

func stringList(v any) ([]string, bool) {
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			return nil, false
		}
		out = append(out, s)
	}
	return out, true
}
