package domain

import "time"

// Target is a WebAssembly compilation target triple.
type Target int

const (
	// TargetWasm32Unknown is wasm32-unknown-unknown.
	TargetWasm32Unknown Target = iota
	// TargetWasm32Wasi is wasm32-wasi.
	TargetWasm32Wasi
	// TargetWasm32Emscripten is wasm32-unknown-emscripten.
	TargetWasm32Emscripten
)

// String returns the target triple.
func (t Target) String() string {
	switch t {
	case TargetWasm32Unknown:
		return "wasm32-unknown-unknown"
	case TargetWasm32Wasi:
		return "wasm32-wasi"
	case TargetWasm32Emscripten:
		return "wasm32-unknown-emscripten"
	default:
		return "unknown"
	}
}

// Targets lists every supported target.
func Targets() []Target {
	return []Target{TargetWasm32Unknown, TargetWasm32Wasi, TargetWasm32Emscripten}
}

// BindgenTarget is the JavaScript flavour wasm-bindgen generates.
type BindgenTarget int

const (
	// BindgenWeb generates ES modules for the browser.
	BindgenWeb BindgenTarget = iota
	// BindgenNodeJS generates CommonJS for Node.js.
	BindgenNodeJS
	// BindgenBundler generates output for bundlers.
	BindgenBundler
	// BindgenDeno generates output for Deno.
	BindgenDeno
	// BindgenNoModules generates a global script.
	BindgenNoModules
)

// String returns the wasm-bindgen --target value.
func (b BindgenTarget) String() string {
	switch b {
	case BindgenWeb:
		return "web"
	case BindgenNodeJS:
		return "nodejs"
	case BindgenBundler:
		return "bundler"
	case BindgenDeno:
		return "deno"
	case BindgenNoModules:
		return "no-modules"
	default:
		return "unknown"
	}
}

// BindgenTargets lists every supported bindgen target.
func BindgenTargets() []BindgenTarget {
	return []BindgenTarget{BindgenWeb, BindgenNodeJS, BindgenBundler, BindgenDeno, BindgenNoModules}
}

// OptLevel is a wasm-opt optimization level.
type OptLevel int

const (
	// OptLevelOz optimizes aggressively for size.
	OptLevelOz OptLevel = iota
	// OptLevelO1 is a quick optimization pass.
	OptLevelO1
	// OptLevelO2 is the standard optimization level.
	OptLevelO2
	// OptLevelO3 optimizes for speed.
	OptLevelO3
	// OptLevelO4 optimizes for speed with extra flattening.
	OptLevelO4
)

// String returns the level name without the leading dash.
func (l OptLevel) String() string {
	switch l {
	case OptLevelOz:
		return "Oz"
	case OptLevelO1:
		return "O1"
	case OptLevelO2:
		return "O2"
	case OptLevelO3:
		return "O3"
	case OptLevelO4:
		return "O4"
	default:
		return "unknown"
	}
}

// Arg returns the command line flag for the level.
func (l OptLevel) Arg() string {
	return "-" + l.String()
}

// OptLevels lists every supported wasm-opt level.
func OptLevels() []OptLevel {
	return []OptLevel{OptLevelOz, OptLevelO1, OptLevelO2, OptLevelO3, OptLevelO4}
}

// StageID identifies a pipeline step in results and telemetry.
type StageID string

const (
	// StageResolve is profile resolution.
	StageResolve StageID = "resolve"
	// StageManifest is manifest mutation.
	StageManifest StageID = "manifest"
	// StageToolchain is toolchain detection.
	StageToolchain StageID = "toolchain"
	// StageCompile is the cargo build.
	StageCompile StageID = "compile"
	// StageBindgen is wasm-bindgen.
	StageBindgen StageID = "bindgen"
	// StageOptimize is wasm-opt.
	StageOptimize StageID = "wasm-opt"
	// StageSnip is wasm-snip.
	StageSnip StageID = "wasm-snip"
	// StageVerify is module validation.
	StageVerify StageID = "verify"
	// StageBudget is the budget check.
	StageBudget StageID = "budget"
	// StageHistory is history recording.
	StageHistory StageID = "history"
)

// Stage is a post-processing step. The set of implementations is closed.
type Stage interface {
	// ID returns the stage identifier.
	ID() StageID
	stage()
}

// BindgenStage runs wasm-bindgen.
type BindgenStage struct {
	Target BindgenTarget
}

// OptimizeStage runs wasm-opt.
type OptimizeStage struct {
	Level OptLevel
}

// SnipStage runs wasm-snip to remove panicking code paths.
type SnipStage struct{}

// VerifyStage validates the artifact as a WebAssembly module.
type VerifyStage struct{}

// ID returns StageBindgen.
func (BindgenStage) ID() StageID { return StageBindgen }

// ID returns StageOptimize.
func (OptimizeStage) ID() StageID { return StageOptimize }

// ID returns StageSnip.
func (SnipStage) ID() StageID { return StageSnip }

// ID returns StageVerify.
func (VerifyStage) ID() StageID { return StageVerify }

func (BindgenStage) stage()  {}
func (OptimizeStage) stage() {}
func (SnipStage) stage()     {}
func (VerifyStage) stage()   {}

// DefaultStages returns the stages run when none are configured.
func DefaultStages() []Stage {
	return []Stage{
		BindgenStage{Target: BindgenWeb},
		OptimizeStage{Level: OptLevelOz},
	}
}

// StageResult records the execution of a single stage.
type StageResult struct {
	Stage      StageID
	Success    bool
	Skipped    bool
	Output     string
	Duration   time.Duration
	SizeBefore int64
	SizeAfter  int64
	// Digest is the xxhash64 of the artifact after the stage.
	Digest uint64
}
