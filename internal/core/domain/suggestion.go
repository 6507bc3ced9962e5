package domain

// FixKind is the kind of remedy known for a heavy dependency.
type FixKind int

const (
	// FixReplacement swaps the crate for a lighter one.
	FixReplacement FixKind = iota
	// FixFeatureMinimization disables default features.
	FixFeatureMinimization
	// FixSplit depends on smaller component crates.
	FixSplit
	// FixOptional moves the crate behind a feature flag.
	FixOptional
	// FixWasm enables the crate's WebAssembly support.
	FixWasm
)

// String returns the fix kind name.
func (k FixKind) String() string {
	switch k {
	case FixReplacement:
		return "replacement"
	case FixFeatureMinimization:
		return "feature-minimization"
	case FixSplit:
		return "split"
	case FixOptional:
		return "optional"
	case FixWasm:
		return "wasm-fix"
	default:
		return "unknown"
	}
}

// DependencyIssue is one advisory finding about a dependency.
type DependencyIssue struct {
	Package    string `json:"package"`
	Version    string `json:"version"`
	Severity   string `json:"severity"`
	Issue      string `json:"issue"`
	Suggestion string `json:"suggestion"`
}

// DependencyReport is the advisory report consumed by the fix applicator.
type DependencyReport struct {
	TotalDeps  int               `json:"total_deps"`
	DirectDeps int               `json:"direct_deps"`
	Issues     []DependencyIssue `json:"issues"`
}

// FixResult describes one fix applied to the manifest.
type FixResult struct {
	Package        string
	Kind           FixKind
	SavingsPercent int
}
