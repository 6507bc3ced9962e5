package ports

import "github.com/vitalratel/wasm-slim-sub001/internal/core/domain"

// TemplateCatalog provides the built-in optimization templates.
//
//go:generate go run go.uber.org/mock/mockgen -source=catalog.go -destination=mocks/mock_catalog.go -package=mocks
type TemplateCatalog interface {
	// Lookup returns the template with the given name, ignoring case.
	Lookup(name string) (domain.Template, error)
	// Names returns the names of the public templates, sorted.
	Names() []string
	// All returns the public templates sorted by name.
	All() []domain.Template
}
