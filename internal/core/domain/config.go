package domain

import "slices"

// DefaultTemplateName is the template used when none is configured.
const DefaultTemplateName = "balanced"

// ProjectConfig is the content of .wasm-slim.toml.
type ProjectConfig struct {
	Template   string
	Overrides  ProfileOverrides
	SizeBudget *SizeBudget
	Pipeline   PipelineSettings
}

// DefaultProjectConfig returns the configuration used when no file exists.
func DefaultProjectConfig() *ProjectConfig {
	return &ProjectConfig{
		Template: DefaultTemplateName,
		Pipeline: DefaultPipelineSettings(),
	}
}

// Budget returns the configured budget or an empty one.
func (c *ProjectConfig) Budget() SizeBudget {
	if c == nil || c.SizeBudget == nil {
		return SizeBudget{}
	}
	return *c.SizeBudget
}

// PipelineSettings configures the post-processing pipeline.
type PipelineSettings struct {
	Target            Target
	Stages            []Stage
	TargetDir         string
	RollbackOnFailure bool
}

// DefaultPipelineSettings returns the default pipeline layout.
func DefaultPipelineSettings() PipelineSettings {
	return PipelineSettings{
		Target: TargetWasm32Unknown,
		Stages: DefaultStages(),
	}
}

// HasStage reports whether a stage with the given id is enabled.
func (s PipelineSettings) HasStage(id StageID) bool {
	return slices.ContainsFunc(s.Stages, func(st Stage) bool { return st.ID() == id })
}
