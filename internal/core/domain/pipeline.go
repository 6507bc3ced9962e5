package domain

// PipelineState is a state of the build pipeline.
type PipelineState int

const (
	// StateStart is the initial state.
	StateStart PipelineState = iota
	// StateProfileResolved follows profile resolution.
	StateProfileResolved
	// StateManifestMutated follows manifest mutation.
	StateManifestMutated
	// StateCompiled follows a successful compile.
	StateCompiled
	// StatePostProcessed follows the post-processing stages.
	StatePostProcessed
	// StateBudgetChecked follows budget evaluation.
	StateBudgetChecked
	// StateHistoryRecorded follows history persistence.
	StateHistoryRecorded
	// StateDone is the successful terminal state.
	StateDone
	// StateFailed is the failure terminal state.
	StateFailed
)

// String returns the state name.
func (s PipelineState) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateProfileResolved:
		return "profile-resolved"
	case StateManifestMutated:
		return "manifest-mutated"
	case StateCompiled:
		return "compiled"
	case StatePostProcessed:
		return "post-processed"
	case StateBudgetChecked:
		return "budget-checked"
	case StateHistoryRecorded:
		return "history-recorded"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PipelineConfig is the input to one pipeline run.
type PipelineConfig struct {
	Root        string
	Project     *ProjectConfig
	DryRun      bool
	JSON        bool
	CheckBudget bool
}

// Settings returns the pipeline settings of the project, or the defaults.
func (c PipelineConfig) Settings() PipelineSettings {
	if c.Project == nil {
		return DefaultPipelineSettings()
	}
	return c.Project.Pipeline
}

// Failure records where and why the pipeline stopped.
type Failure struct {
	Stage StageID
	Cause error
}

// Outcome is the result of one pipeline run.
type Outcome struct {
	State        PipelineState
	Failure      *Failure
	DryRun       bool
	Profile      Profile
	Changes      []ChangeRecord
	Backup       *Backup
	RolledBack   bool
	Plan         []string
	Stages       []StageResult
	Artifact     string
	OriginalSize int64
	FinalSize    int64
	Budget       *BudgetResult
	Regression   *RegressionResult
	Module       *ModuleInfo
	Warnings     []string
}

// Success reports whether the pipeline reached the done state.
func (o *Outcome) Success() bool {
	return o.State == StateDone
}

// ExitCode returns the process exit code for the outcome.
func (o *Outcome) ExitCode() int {
	if o.Success() {
		return 0
	}
	return 1
}

// HasArtifact reports whether a final artifact was produced.
func (o *Outcome) HasArtifact() bool {
	return o.Artifact != ""
}

// ReductionBytes returns how many bytes the post-processing stages removed.
func (o *Outcome) ReductionBytes() int64 {
	return o.OriginalSize - o.FinalSize
}

// ReductionPercent returns the reduction relative to the compiled size.
func (o *Outcome) ReductionPercent() float64 {
	if o.OriginalSize == 0 {
		return 0
	}
	return float64(o.ReductionBytes()) / float64(o.OriginalSize) * 100.0
}
