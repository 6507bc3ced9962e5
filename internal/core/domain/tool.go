package domain

import "time"

// Tool describes an external binary used by the pipeline.
type Tool struct {
	Name        string
	Binary      string
	Required    bool
	InstallHint string
}

// ToolStatus is the detection result for one tool.
type ToolStatus struct {
	Tool      Tool
	Installed bool
	Path      string
	Version   string
}

// Toolchain is the set of detected tools, keyed by binary name.
type Toolchain struct {
	Tools []ToolStatus
}

// Lookup returns the status of the given binary.
func (t Toolchain) Lookup(binary string) (ToolStatus, bool) {
	for _, s := range t.Tools {
		if s.Tool.Binary == binary {
			return s, true
		}
	}
	return ToolStatus{}, false
}

// Installed reports whether the binary was found.
func (t Toolchain) Installed(binary string) bool {
	s, ok := t.Lookup(binary)
	return ok && s.Installed
}

// Command is an external process invocation.
type Command struct {
	Name string
	Args []string
	Dir  string
	// Unset lists environment variables removed from the inherited environment.
	Unset []string
	// Quiet disables streaming; output is still captured.
	Quiet bool
}

// CommandResult is the captured result of a finished process.
type CommandResult struct {
	Stdout   []byte
	Stderr   []byte
	ExitCode int
	Duration time.Duration
}

// Known tool binaries.
const (
	ToolCargo       = "cargo"
	ToolWasmBindgen = "wasm-bindgen"
	ToolWasmOpt     = "wasm-opt"
	ToolWasmSnip    = "wasm-snip"
	ToolGit         = "git"
	ToolRustc       = "rustc"
)

// PipelineTools returns the tools the build pipeline knows about.
func PipelineTools() []Tool {
	return []Tool{
		{
			Name:        "Cargo",
			Binary:      ToolCargo,
			Required:    true,
			InstallHint: "curl --proto '=https' --tlsv1.2 -sSf https://sh.rustup.rs | sh",
		},
		{
			Name:        "wasm-bindgen",
			Binary:      ToolWasmBindgen,
			Required:    true,
			InstallHint: "cargo install wasm-bindgen-cli",
		},
		{
			Name:        "wasm-opt (Binaryen)",
			Binary:      ToolWasmOpt,
			Required:    false,
			InstallHint: "brew install binaryen | sudo apt install binaryen",
		},
		{
			Name:        "wasm-snip",
			Binary:      ToolWasmSnip,
			Required:    false,
			InstallHint: "cargo install wasm-snip",
		},
	}
}

// ModuleInfo describes a compiled WebAssembly module.
type ModuleInfo struct {
	Path           string
	Size           int64
	Imports        []string
	Exports        []string
	Memories       int
	CustomSections []CustomSection
}

// CustomSection is a named custom section and its payload size.
type CustomSection struct {
	Name string
	Size int
}
