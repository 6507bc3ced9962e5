package profile

import (
	"slices"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
)

// Builder derives a customized template from a base template.
type Builder struct {
	tmpl domain.Template
}

// NewBuilder starts from a copy of base. The base is never modified.
func NewBuilder(base domain.Template) *Builder {
	return &Builder{tmpl: base.Clone()}
}

// WithName sets the template name.
func (b *Builder) WithName(name string) *Builder {
	b.tmpl.Name = name
	b.tmpl.Profile.Name = name
	return b
}

// WithOptLevel sets the optimization level.
func (b *Builder) WithOptLevel(level string) *Builder {
	b.tmpl.Profile.OptLevel = level
	return b
}

// WithLTO sets the link-time optimization mode.
func (b *Builder) WithLTO(lto string) *Builder {
	b.tmpl.Profile.LTO = lto
	return b
}

// WithStrip sets symbol stripping.
func (b *Builder) WithStrip(strip bool) *Builder {
	b.tmpl.Profile.Strip = strip
	return b
}

// WithCodegenUnits sets the number of parallel codegen units.
func (b *Builder) WithCodegenUnits(units int) *Builder {
	b.tmpl.Profile.CodegenUnits = units
	return b
}

// WithPanic sets the panic strategy.
func (b *Builder) WithPanic(mode string) *Builder {
	b.tmpl.Profile.Panic = mode
	return b
}

// WithWasmOptFlags replaces the wasm-opt flag list.
func (b *Builder) WithWasmOptFlags(flags []string) *Builder {
	b.tmpl.Profile.WasmOptFlags = slices.Clone(flags)
	return b
}

// Build returns the customized template. The builder can keep being used.
func (b *Builder) Build() domain.Template {
	return b.tmpl.Clone()
}
