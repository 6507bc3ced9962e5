// Package config loads and saves the .wasm-slim.toml project configuration.
package config

import (
	"errors"
	"io/fs"

	"github.com/pelletier/go-toml/v2"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
	"go.trai.ch/zerr"
)

// Loader implements ports.ConfigLoader on top of a file system.
type Loader struct {
	fs       ports.FileSystem
	registry *Registry
	logger   ports.Logger
}

// NewLoader creates a new Loader. A nil registry disables validation.
func NewLoader(fsys ports.FileSystem, registry *Registry, logger ports.Logger) *Loader {
	if registry == nil {
		registry = &Registry{}
	}
	return &Loader{fs: fsys, registry: registry, logger: logger}
}

// Load reads the project configuration under root.
// A missing file yields the default configuration.
func (l *Loader) Load(root string) (*domain.ProjectConfig, error) {
	path := domain.ConfigPath(root)

	data, err := l.fs.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.DefaultProjectConfig(), nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", path)
	}

	var f configFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigParseFailed.Error()), "path", path)
	}

	cfg, err := toDomain(&f)
	if err != nil {
		return nil, zerr.With(err, "path", path)
	}

	res := l.registry.Validate(cfg)
	for _, w := range res.Warnings() {
		if l.logger != nil {
			l.logger.Warn(domain.ConfigFileName + ": " + w.String())
		}
	}
	if err := res.Err(); err != nil {
		return nil, zerr.With(err, "path", path)
	}

	return cfg, nil
}

// Save writes cfg to .wasm-slim.toml under root, replacing any existing file.
func (l *Loader) Save(root string, cfg *domain.ProjectConfig) error {
	path := domain.ConfigPath(root)

	data, err := toml.Marshal(fromDomain(cfg))
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}
	if err := l.fs.WriteFile(path, data, domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrFileWriteFailed.Error()), "path", path)
	}
	return nil
}

// Exists reports whether a configuration file is present under root.
func (l *Loader) Exists(root string) (bool, error) {
	path := domain.ConfigPath(root)
	_, err := l.fs.Stat(path)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, zerr.With(zerr.Wrap(err, domain.ErrFileReadFailed.Error()), "path", path)
	}
}
