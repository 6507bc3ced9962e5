// Package profile resolves concrete optimization profiles from catalog templates.
package profile

import (
	"slices"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver merges a catalog template with user overrides.
type Resolver struct {
	catalog ports.TemplateCatalog
}

// NewResolver creates a Resolver over the given catalog.
func NewResolver(catalog ports.TemplateCatalog) *Resolver {
	return &Resolver{catalog: catalog}
}

// Resolve returns the profile of the named template with overrides applied.
func (r *Resolver) Resolve(templateName string, overrides domain.ProfileOverrides) (domain.Profile, error) {
	tmpl, err := r.catalog.Lookup(templateName)
	if err != nil {
		return domain.Profile{}, zerr.With(err, "template", templateName)
	}
	return Apply(tmpl, overrides), nil
}

// ResolveConfig resolves the template and overrides recorded in a project configuration.
func (r *Resolver) ResolveConfig(cfg *domain.ProjectConfig) (domain.Profile, error) {
	if cfg == nil {
		cfg = domain.DefaultProjectConfig()
	}
	name := cfg.Template
	if name == "" {
		name = domain.DefaultTemplateName
	}
	return r.Resolve(name, cfg.Overrides)
}

// Apply merges overrides into the template's profile. Every field set in
// overrides replaces the template value; the template is not modified.
func Apply(tmpl domain.Template, o domain.ProfileOverrides) domain.Profile {
	p := tmpl.Profile.Clone()
	p.Name = tmpl.Name

	if o.OptLevel != nil {
		p.OptLevel = *o.OptLevel
	}
	if o.LTO != nil {
		p.LTO = *o.LTO
	}
	if o.Strip != nil {
		p.Strip = *o.Strip
	}
	if o.CodegenUnits != nil {
		p.CodegenUnits = *o.CodegenUnits
	}
	if o.Panic != nil {
		p.Panic = *o.Panic
	}
	if o.WasmOptFlags != nil {
		p.WasmOptFlags = slices.Clone(*o.WasmOptFlags)
	}

	return p
}

// FromProfile returns a project configuration that pins every field of the
// profile. Resolving the result yields the same profile again.
func FromProfile(p domain.Profile) *domain.ProjectConfig {
	cfg := domain.DefaultProjectConfig()
	cfg.Template = p.Name
	cfg.Overrides = Overrides(p)
	return cfg
}

// Overrides returns overrides that set every field of the profile.
func Overrides(p domain.Profile) domain.ProfileOverrides {
	optLevel := p.OptLevel
	lto := p.LTO
	strip := p.Strip
	units := p.CodegenUnits
	panicMode := p.Panic
	flags := slices.Clone(p.WasmOptFlags)
	if flags == nil {
		flags = []string{}
	}

	return domain.ProfileOverrides{
		OptLevel:     &optLevel,
		LTO:          &lto,
		Strip:        &strip,
		CodegenUnits: &units,
		Panic:        &panicMode,
		WasmOptFlags: &flags,
	}
}
