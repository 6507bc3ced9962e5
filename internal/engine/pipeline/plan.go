package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
)

// placeholder stands for an artifact that only exists after compilation.
const placeholder = "<artifact>.wasm"

// plan describes the commands a real run would execute after the manifest step.
func (r *run) plan() []string {
	var steps []string
	if len(r.buildStd) > 0 {
		steps = append(steps, fmt.Sprintf("write build-std settings to %s if the toolchain is nightly",
			relativeTo(r.cfg.Root, domain.CargoConfigPath(r.cfg.Root))))
	}
	steps = append(steps, commandLine(r.cargoCommand()))

	outDir := filepath.Join(r.cfg.Root, domain.BindgenOutDirName)
	for _, st := range r.settings.Stages {
		switch s := st.(type) {
		case domain.BindgenStage:
			steps = append(steps, commandLine(bindgenCommand(placeholder, outDir, s.Target, r.cfg.Root)))
		case domain.OptimizeStage:
			steps = append(steps, commandLine(optimizeCommand(placeholder, s.Level, r.out.Profile.WasmOptFlags, r.cfg.Root)))
		case domain.SnipStage:
			steps = append(steps, commandLine(snipCommand(placeholder, placeholder+".tmp", r.cfg.Root)))
		case domain.VerifyStage:
			steps = append(steps, "validate WebAssembly module")
		}
	}

	if b := r.cfg.Project.Budget(); !b.IsZero() {
		steps = append(steps, "check size budget")
	}
	steps = append(steps, fmt.Sprintf("record build history in %s",
		relativeTo(r.cfg.Root, domain.HistoryPath(r.cfg.Root))))
	return steps
}

func commandLine(c domain.Command) string {
	return strings.Join(append([]string{c.Name}, c.Args...), " ")
}

func relativeTo(root, path string) string {
	if rel, err := filepath.Rel(root, path); err == nil {
		return rel
	}
	return path
}
