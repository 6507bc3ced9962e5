// Package catalog provides the built-in optimization templates.
package catalog

import (
	_ "embed"
	"slices"
	"strings"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

//go:embed templates.yaml
var builtin []byte

var _ ports.TemplateCatalog = (*Catalog)(nil)

// Catalog is an immutable set of templates keyed by lower-case name.
type Catalog struct {
	templates map[string]domain.Template
	public    []string
}

// New returns the catalog of built-in templates.
func New() (*Catalog, error) {
	return Parse(builtin)
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, zerr.Wrap(err, "failed to decode template catalog")
	}

	c := &Catalog{templates: make(map[string]domain.Template, len(file.Templates))}
	for _, dto := range file.Templates {
		key := strings.ToLower(dto.Name)
		if key == "" {
			return nil, zerr.New("template without a name")
		}
		if _, dup := c.templates[key]; dup {
			return nil, zerr.With(zerr.New("duplicate template"), "template", dto.Name)
		}

		var tmpl domain.Template
		if dto.Base != "" {
			base, ok := c.templates[strings.ToLower(dto.Base)]
			if !ok {
				return nil, zerr.With(zerr.New("template base must be declared first"), "template", dto.Name)
			}
			tmpl = base.Clone()
		}
		apply(&tmpl, dto)

		c.templates[key] = tmpl
		if dto.Public {
			c.public = append(c.public, key)
		}
	}
	slices.Sort(c.public)

	return c, nil
}

func apply(t *domain.Template, dto templateDTO) {
	t.Name = strings.ToLower(dto.Name)
	t.Description = dto.Description
	t.Profile.Name = t.Name
	if dto.Profile != nil {
		t.Profile.OptLevel = dto.Profile.OptLevel
		t.Profile.LTO = dto.Profile.LTO
		t.Profile.Strip = dto.Profile.Strip
		t.Profile.CodegenUnits = dto.Profile.CodegenUnits
		t.Profile.Panic = dto.Profile.Panic
	}
	if dto.WasmOpt != nil {
		t.Profile.WasmOptFlags = slices.Clone(dto.WasmOpt)
	}
	if dto.WasmBindgen != nil {
		t.BindgenFlags = slices.Clone(dto.WasmBindgen)
	}
	if dto.DependencyHints != nil {
		t.Dependencies = slices.Clone(dto.DependencyHints)
		t.Profile.Hints = slices.Clone(dto.DependencyHints)
	}
	if dto.Notes != nil {
		t.Notes = slices.Clone(dto.Notes)
	}
}

// Lookup returns a copy of the named template. Names are case-insensitive.
func (c *Catalog) Lookup(name string) (domain.Template, error) {
	t, ok := c.templates[strings.ToLower(name)]
	if !ok {
		err := zerr.With(domain.ErrTemplateNotFound, "template", name)
		return domain.Template{}, zerr.With(err, "available", strings.Join(c.public, ", "))
	}
	return t.Clone(), nil
}

// Names returns the public template names, sorted.
func (c *Catalog) Names() []string {
	return slices.Clone(c.public)
}

// All returns copies of the public templates sorted by name.
func (c *Catalog) All() []domain.Template {
	out := make([]domain.Template, 0, len(c.public))
	for _, name := range c.public {
		out = append(out, c.templates[name].Clone())
	}
	return out
}
