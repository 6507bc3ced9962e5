package config

import (
	"fmt"
	"slices"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"go.trai.ch/zerr"
)

// Stage names accepted in [pipeline] stages.
const (
	stageBindgen = "bindgen"
	stageWasmOpt = "wasm-opt"
	stageSnip    = "wasm-snip"
	stageVerify  = "verify"
)

// toDomain converts the decoded file into a project configuration.
// This is the only place configuration strings become typed variants.
func toDomain(f *configFile) (*domain.ProjectConfig, error) {
	cfg := domain.DefaultProjectConfig()
	if f.Template != "" {
		cfg.Template = f.Template
	}

	if p := f.Profile; p != nil {
		cfg.Overrides.OptLevel = p.OptLevel
		cfg.Overrides.LTO = p.LTO
		cfg.Overrides.Strip = p.Strip
		cfg.Overrides.CodegenUnits = p.CodegenUnits
		cfg.Overrides.Panic = p.Panic
	}
	if f.WasmOpt != nil && f.WasmOpt.Flags != nil {
		flags := slices.Clone(f.WasmOpt.Flags)
		cfg.Overrides.WasmOptFlags = &flags
	}
	if b := f.SizeBudget; b != nil {
		cfg.SizeBudget = &domain.SizeBudget{
			TargetKB: b.TargetSizeKB,
			WarnKB:   b.WarnThresholdKB,
			MaxKB:    b.MaxSizeKB,
		}
	}

	if p := f.Pipeline; p != nil {
		settings, err := pipelineToDomain(p)
		if err != nil {
			return nil, err
		}
		cfg.Pipeline = settings
	}

	return cfg, nil
}

func pipelineToDomain(p *pipelineDTO) (domain.PipelineSettings, error) {
	s := domain.DefaultPipelineSettings()

	if p.Target != nil {
		target, err := parseTarget(*p.Target)
		if err != nil {
			return s, err
		}
		s.Target = target
	}

	bindgen := domain.BindgenWeb
	if p.BindgenTarget != nil {
		t, err := parseBindgenTarget(*p.BindgenTarget)
		if err != nil {
			return s, err
		}
		bindgen = t
	}

	level := domain.OptLevelOz
	if p.WasmOptLevel != nil {
		l, err := parseOptLevel(*p.WasmOptLevel)
		if err != nil {
			return s, err
		}
		level = l
	}

	if p.Stages != nil {
		s.Stages = make([]domain.Stage, 0, len(p.Stages))
		for _, name := range p.Stages {
			switch name {
			case stageBindgen:
				s.Stages = append(s.Stages, domain.BindgenStage{Target: bindgen})
			case stageWasmOpt:
				s.Stages = append(s.Stages, domain.OptimizeStage{Level: level})
			case stageSnip:
				s.Stages = append(s.Stages, domain.SnipStage{})
			case stageVerify:
				s.Stages = append(s.Stages, domain.VerifyStage{})
			default:
				return s, unknownValue("pipeline.stages", name)
			}
		}
	} else {
		s.Stages = []domain.Stage{
			domain.BindgenStage{Target: bindgen},
			domain.OptimizeStage{Level: level},
		}
	}

	if p.TargetDir != nil {
		s.TargetDir = *p.TargetDir
	}
	if p.RollbackOnFailure != nil {
		s.RollbackOnFailure = *p.RollbackOnFailure
	}
	return s, nil
}

// fromDomain converts a project configuration into its file form.
func fromDomain(cfg *domain.ProjectConfig) *configFile {
	f := &configFile{Template: cfg.Template}

	o := cfg.Overrides
	if o.OptLevel != nil || o.LTO != nil || o.Strip != nil || o.CodegenUnits != nil || o.Panic != nil {
		f.Profile = &profileDTO{
			OptLevel:     o.OptLevel,
			LTO:          o.LTO,
			Strip:        o.Strip,
			CodegenUnits: o.CodegenUnits,
			Panic:        o.Panic,
		}
	}
	if o.WasmOptFlags != nil {
		f.WasmOpt = &wasmOptDTO{Flags: slices.Clone(*o.WasmOptFlags)}
	}
	if b := cfg.SizeBudget; b != nil && !b.IsZero() {
		f.SizeBudget = &sizeBudgetDTO{
			MaxSizeKB:       b.MaxKB,
			WarnThresholdKB: b.WarnKB,
			TargetSizeKB:    b.TargetKB,
		}
	}
	if !isDefaultPipeline(cfg.Pipeline) {
		f.Pipeline = pipelineFromDomain(cfg.Pipeline)
	}

	return f
}

func pipelineFromDomain(s domain.PipelineSettings) *pipelineDTO {
	target := s.Target.String()
	p := &pipelineDTO{Target: &target, Stages: []string{}}

	for _, st := range s.Stages {
		switch st := st.(type) {
		case domain.BindgenStage:
			bt := st.Target.String()
			p.BindgenTarget = &bt
			p.Stages = append(p.Stages, stageBindgen)
		case domain.OptimizeStage:
			level := st.Level.String()
			p.WasmOptLevel = &level
			p.Stages = append(p.Stages, stageWasmOpt)
		case domain.SnipStage:
			p.Stages = append(p.Stages, stageSnip)
		case domain.VerifyStage:
			p.Stages = append(p.Stages, stageVerify)
		}
	}

	if s.TargetDir != "" {
		dir := s.TargetDir
		p.TargetDir = &dir
	}
	if s.RollbackOnFailure {
		rollback := true
		p.RollbackOnFailure = &rollback
	}
	return p
}

func isDefaultPipeline(s domain.PipelineSettings) bool {
	d := domain.DefaultPipelineSettings()
	return s.Target == d.Target &&
		s.TargetDir == "" &&
		!s.RollbackOnFailure &&
		slices.Equal(s.Stages, d.Stages)
}

func parseTarget(s string) (domain.Target, error) {
	for _, t := range domain.Targets() {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, unknownValue("pipeline.target", s)
}

func parseBindgenTarget(s string) (domain.BindgenTarget, error) {
	for _, t := range domain.BindgenTargets() {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, unknownValue("pipeline.bindgen-target", s)
}

// parseOptLevel accepts the level with or without the leading dash.
func parseOptLevel(s string) (domain.OptLevel, error) {
	for _, l := range domain.OptLevels() {
		if l.String() == s || l.Arg() == s {
			return l, nil
		}
	}
	return 0, unknownValue("pipeline.wasm-opt-level", s)
}

func unknownValue(field, value string) error {
	err := zerr.Wrap(fmt.Errorf("unknown value %q", value), domain.ErrInvalidConfig.Error())
	return zerr.With(err, "field", field)
}
