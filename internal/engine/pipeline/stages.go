package pipeline

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
)

// errSkipped marks a stage whose optional tool is missing.
var errSkipped = errors.New("stage skipped")

// defaultOptFlags enable the post-MVP features every supported runtime ships.
var defaultOptFlags = []string{
	"--enable-mutable-globals",
	"--enable-bulk-memory",
	"--enable-sign-ext",
	"--enable-nontrapping-float-to-int",
}

// postStep runs one post-processing stage. Each stage consumes the current
// artifact and leaves the next one in r.artifact.
func (r *run) postStep(ctx context.Context, st domain.Stage) bool {
	id := st.ID()
	if err := ctx.Err(); err != nil {
		r.fail(id, err)
		return false
	}

	vctx, vertex := r.e.Telemetry.Record(ctx, string(id))
	start := time.Now()
	before := r.size

	err := r.runStage(vctx, st)
	result := domain.StageResult{
		Stage:      id,
		Duration:   time.Since(start),
		SizeBefore: before,
		SizeAfter:  r.size,
	}

	switch {
	case err == nil:
		result.Success = true
		_, result.Digest, err = r.measure(r.artifact)
		vertex.Complete(err)
	case errors.Is(err, errSkipped):
		result.Skipped = true
		err = nil
		vertex.Cached()
	default:
		vertex.Complete(err)
	}
	r.out.Stages = append(r.out.Stages, result)

	if err != nil {
		r.fail(id, err)
		return false
	}
	r.out.FinalSize = r.size
	return true
}

func (r *run) runStage(ctx context.Context, st domain.Stage) error {
	switch s := st.(type) {
	case domain.BindgenStage:
		return r.bindgen(ctx, s)
	case domain.OptimizeStage:
		return r.optimize(ctx, s)
	case domain.SnipStage:
		return r.snip(ctx)
	case domain.VerifyStage:
		return r.verify(ctx)
	default:
		return fmt.Errorf("unknown stage %T", st)
	}
}

func (r *run) bindgen(ctx context.Context, s domain.BindgenStage) error {
	outDir := filepath.Join(r.cfg.Root, domain.BindgenOutDirName)
	if _, err := r.e.Runner.Run(ctx, bindgenCommand(r.artifact, outDir, s.Target, r.cfg.Root)); err != nil {
		return err
	}
	return r.advance(outDir)
}

// advance moves the artifact to the first .wasm in dir.
func (r *run) advance(dir string) error {
	artifact, err := r.firstWasm(dir)
	if err != nil {
		return err
	}
	return r.adopt(artifact)
}

func (r *run) adopt(artifact string) error {
	size, _, err := r.measure(artifact)
	if err != nil {
		return err
	}
	r.artifact = artifact
	r.size = size
	r.out.Artifact = artifact
	return nil
}

func (r *run) optimize(ctx context.Context, s domain.OptimizeStage) error {
	if !r.toolchain.Installed(domain.ToolWasmOpt) {
		r.warn("wasm-opt not installed, skipping optimization (install binaryen)")
		return errSkipped
	}
	cmd := optimizeCommand(r.artifact, s.Level, r.out.Profile.WasmOptFlags, r.cfg.Root)
	if _, err := r.e.Runner.Run(ctx, cmd); err != nil {
		return err
	}
	return r.adopt(r.artifact)
}

func (r *run) snip(ctx context.Context) error {
	if !r.toolchain.Installed(domain.ToolWasmSnip) {
		r.warn("wasm-snip not installed, skipping panic removal (cargo install wasm-snip)")
		return errSkipped
	}
	tmp := r.artifact + ".tmp"
	if _, err := r.e.Runner.Run(ctx, snipCommand(r.artifact, tmp, r.cfg.Root)); err != nil {
		_ = r.e.FS.Remove(tmp)
		return err
	}
	if err := r.e.FS.Rename(tmp, r.artifact); err != nil {
		_ = r.e.FS.Remove(tmp)
		return err
	}
	return r.adopt(r.artifact)
}

func (r *run) verify(ctx context.Context) error {
	info, err := r.e.Inspector.Inspect(ctx, r.artifact)
	if err != nil {
		return err
	}
	r.out.Module = info
	return nil
}

func bindgenCommand(in, outDir string, target domain.BindgenTarget, root string) domain.Command {
	return domain.Command{
		Name: domain.ToolWasmBindgen,
		Args: []string{in, "--out-dir", outDir, "--target", target.String()},
		Dir:  root,
	}
}

func optimizeCommand(path string, level domain.OptLevel, profileFlags []string, root string) domain.Command {
	args := []string{path, level.Arg(), "-o", path}
	return domain.Command{
		Name: domain.ToolWasmOpt,
		Args: append(args, OptimizeFlags(profileFlags)...),
		Dir:  root,
	}
}

func snipCommand(in, out, root string) domain.Command {
	return domain.Command{
		Name: domain.ToolWasmSnip,
		Args: []string{in, "-o", out, "--snip-rust-panicking-code"},
		Dir:  root,
	}
}

// OptimizeFlags returns the wasm-opt flags for a profile: the default feature
// flags followed by the profile's own flags, without optimization levels and
// without duplicates.
func OptimizeFlags(profileFlags []string) []string {
	out := make([]string, 0, len(defaultOptFlags)+len(profileFlags))
	for _, f := range slices.Concat(defaultOptFlags, profileFlags) {
		if isLevelFlag(f) || slices.Contains(out, f) {
			continue
		}
		out = append(out, f)
	}
	return out
}

func isLevelFlag(f string) bool {
	if f == "-O" {
		return true
	}
	rest, ok := strings.CutPrefix(f, "-O")
	return ok && len(rest) == 1 && strings.Contains("01234sz", rest)
}
