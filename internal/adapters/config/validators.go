package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"go.trai.ch/zerr"
)

// BudgetValidator rejects size budgets whose thresholds are out of order.
type BudgetValidator struct{}

// Name implements Validator.
func (BudgetValidator) Name() string { return "size-budget" }

// Priority implements Validator.
func (BudgetValidator) Priority() int { return 10 }

// Validate implements Validator.
func (BudgetValidator) Validate(cfg *domain.ProjectConfig) []Issue {
	if err := cfg.Budget().Validate(); err != nil {
		return []Issue{{
			Severity: SeverityError,
			Field:    "size_budget",
			Message:  err.Error(),
			Err:      err,
		}}
	}
	return nil
}

// PipelineValidator checks the stage list for contradictions.
type PipelineValidator struct{}

// Name implements Validator.
func (PipelineValidator) Name() string { return "pipeline" }

// Priority implements Validator.
func (PipelineValidator) Priority() int { return 20 }

// Validate implements Validator.
func (PipelineValidator) Validate(cfg *domain.ProjectConfig) []Issue {
	var issues []Issue
	s := cfg.Pipeline

	seen := make(map[domain.StageID]bool, len(s.Stages))
	for _, st := range s.Stages {
		if seen[st.ID()] {
			err := zerr.With(domain.ErrInvalidConfig, "stage", string(st.ID()))
			issues = append(issues, Issue{
				Severity: SeverityError,
				Field:    "pipeline.stages",
				Message:  fmt.Sprintf("stage %q is listed more than once", st.ID()),
				Err:      err,
			})
		}
		seen[st.ID()] = true
	}

	if s.Target != domain.TargetWasm32Unknown && s.HasStage(domain.StageBindgen) {
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Field:      "pipeline.target",
			Message:    fmt.Sprintf("wasm-bindgen expects wasm32-unknown-unknown, got %s", s.Target),
			Suggestion: `remove "bindgen" from pipeline.stages`,
		})
	}

	if s.HasStage(domain.StageSnip) && !s.HasStage(domain.StageOptimize) {
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Field:      "pipeline.stages",
			Message:    "wasm-snip leaves dead code behind without a following wasm-opt pass",
			Suggestion: `add "wasm-opt" to pipeline.stages`,
		})
	}

	return issues
}

// ProfileValidator flags overrides that defeat size optimization or that
// cargo would reject.
type ProfileValidator struct{}

var (
	validOptLevels = []string{"0", "1", "2", "3", "s", "z"}
	validLTOValues = []string{"fat", "thin", "off", "true", "false"}
)

// Name implements Validator.
func (ProfileValidator) Name() string { return "profile" }

// Priority implements Validator.
func (ProfileValidator) Priority() int { return 30 }

// Validate implements Validator.
func (ProfileValidator) Validate(cfg *domain.ProjectConfig) []Issue {
	var issues []Issue
	o := cfg.Overrides

	if o.OptLevel != nil && !slices.Contains(validOptLevels, *o.OptLevel) {
		issues = append(issues, Issue{
			Severity:   SeverityError,
			Field:      "profile.opt-level",
			Message:    fmt.Sprintf("opt-level must be one of %s, got %q", strings.Join(validOptLevels, ", "), *o.OptLevel),
			Suggestion: `use opt-level = "z"`,
			Err:        zerr.With(domain.ErrInvalidConfig, "opt-level", *o.OptLevel),
		})
	}
	if o.LTO != nil && !slices.Contains(validLTOValues, *o.LTO) {
		issues = append(issues, Issue{
			Severity:   SeverityError,
			Field:      "profile.lto",
			Message:    fmt.Sprintf("lto must be one of %s, got %q", strings.Join(validLTOValues, ", "), *o.LTO),
			Suggestion: `use lto = "fat"`,
			Err:        zerr.With(domain.ErrInvalidConfig, "lto", *o.LTO),
		})
	}
	if o.OptLevel != nil && *o.OptLevel == "0" && !cfg.Budget().IsZero() {
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Field:      "profile.opt-level",
			Message:    "opt-level 0 with a size budget will likely exceed it",
			Suggestion: `use opt-level = "z"`,
		})
	}
	if o.CodegenUnits != nil && *o.CodegenUnits < 1 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Field:    "profile.codegen-units",
			Message:  fmt.Sprintf("codegen-units must be at least 1, got %d", *o.CodegenUnits),
			Err:      zerr.With(domain.ErrInvalidConfig, "codegen-units", *o.CodegenUnits),
		})
	}
	if o.Panic != nil && *o.Panic != "abort" && *o.Panic != "unwind" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Field:    "profile.panic",
			Message:  fmt.Sprintf("panic must be \"abort\" or \"unwind\", got %q", *o.Panic),
			Err:      zerr.With(domain.ErrInvalidConfig, "panic", *o.Panic),
		})
	}

	return issues
}

// WasmOptFlagsValidator warns about wasm-opt flags that grow the output
// or need runtime support the target may lack.
type WasmOptFlagsValidator struct{}

// Name implements Validator.
func (WasmOptFlagsValidator) Name() string { return "wasm-opt-flags" }

// Priority implements Validator.
func (WasmOptFlagsValidator) Priority() int { return 40 }

// Validate implements Validator.
func (WasmOptFlagsValidator) Validate(cfg *domain.ProjectConfig) []Issue {
	if cfg.Overrides.WasmOptFlags == nil {
		return nil
	}
	flags := *cfg.Overrides.WasmOptFlags

	var issues []Issue
	for _, f := range []string{"-g", "--debuginfo"} {
		if slices.Contains(flags, f) {
			issues = append(issues, Issue{
				Severity:   SeverityWarning,
				Field:      "wasm_opt.flags",
				Message:    fmt.Sprintf("%s keeps debug info in the output", f),
				Suggestion: "drop it for release builds",
			})
		}
	}
	if slices.Contains(flags, "--enable-simd") {
		issues = append(issues, Issue{
			Severity:   SeverityWarning,
			Field:      "wasm_opt.flags",
			Message:    fmt.Sprintf("--enable-simd is set but %s does not guarantee SIMD support", cfg.Pipeline.Target),
			Suggestion: "verify the runtime supports SIMD or remove --enable-simd",
		})
	}
	return issues
}
