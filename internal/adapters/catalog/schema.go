package catalog

// catalogFile is the structure of the embedded templates.yaml.
type catalogFile struct {
	SizeFlags []string      `yaml:"size-flags"`
	Templates []templateDTO `yaml:"templates"`
}

// templateDTO is one template entry. A template with a base copies the base's
// profile and tool flags before its own fields are applied.
type templateDTO struct {
	Name            string      `yaml:"name"`
	Base            string      `yaml:"base"`
	Description     string      `yaml:"description"`
	Public          bool        `yaml:"public"`
	Profile         *profileDTO `yaml:"profile"`
	WasmOpt         []string    `yaml:"wasm-opt"`
	WasmBindgen     []string    `yaml:"wasm-bindgen"`
	DependencyHints []string    `yaml:"dependency-hints"`
	Notes           []string    `yaml:"notes"`
}

type profileDTO struct {
	OptLevel     string `yaml:"opt-level"`
	LTO          string `yaml:"lto"`
	Strip        bool   `yaml:"strip"`
	CodegenUnits int    `yaml:"codegen-units"`
	Panic        string `yaml:"panic"`
}
