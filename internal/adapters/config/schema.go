package config

// configFile represents the structure of the .wasm-slim.toml file.
type configFile struct {
	Template   string         `toml:"template"`
	Profile    *profileDTO    `toml:"profile,omitempty"`
	WasmOpt    *wasmOptDTO    `toml:"wasm_opt,omitempty"`
	SizeBudget *sizeBudgetDTO `toml:"size_budget,omitempty"`
	Pipeline   *pipelineDTO   `toml:"pipeline,omitempty"`
}

// profileDTO holds the [profile] overrides. Every field is optional.
type profileDTO struct {
	OptLevel     *string `toml:"opt-level,omitempty"`
	LTO          *string `toml:"lto,omitempty"`
	Strip        *bool   `toml:"strip,omitempty"`
	CodegenUnits *int    `toml:"codegen-units,omitempty"`
	Panic        *string `toml:"panic,omitempty"`
}

type wasmOptDTO struct {
	Flags []string `toml:"flags"`
}

type sizeBudgetDTO struct {
	MaxSizeKB       *uint64 `toml:"max-size-kb,omitempty"`
	WarnThresholdKB *uint64 `toml:"warn-threshold-kb,omitempty"`
	TargetSizeKB    *uint64 `toml:"target-size-kb,omitempty"`
}

type pipelineDTO struct {
	Target            *string  `toml:"target,omitempty"`
	BindgenTarget     *string  `toml:"bindgen-target,omitempty"`
	Stages            []string `toml:"stages"`
	WasmOptLevel      *string  `toml:"wasm-opt-level,omitempty"`
	TargetDir         *string  `toml:"target-dir,omitempty"`
	RollbackOnFailure *bool    `toml:"rollback-on-failure,omitempty"`
}
