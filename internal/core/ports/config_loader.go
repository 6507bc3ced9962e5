package ports

import "github.com/vitalratel/wasm-slim-sub001/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load reads .wasm-slim.toml from the project root.
	// A missing file yields the default configuration.
	Load(root string) (*domain.ProjectConfig, error)

	// Save writes the configuration to the project root.
	Save(root string, cfg *domain.ProjectConfig) error

	// Exists reports whether the project root already has a configuration file.
	Exists(root string) (bool, error)
}
