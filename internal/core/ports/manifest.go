package ports

import "github.com/vitalratel/wasm-slim-sub001/internal/core/domain"

// ManifestMutator applies a resolved profile to a build manifest.
//
//go:generate go run go.uber.org/mock/mockgen -source=manifest.go -destination=mocks/mock_manifest.go -package=mocks
type ManifestMutator interface {
	// Mutate rewrites only the fields that differ from the profile.
	// toolFlags nil leaves the wasm-pack section untouched.
	Mutate(path string, profile domain.Profile, toolFlags []string, dryRun bool) (domain.MutationResult, error)
}

// BuildStdMutator enables the unstable build-std settings in a project's
// cargo configuration.
type BuildStdMutator interface {
	// Mutate adds the build-std keys the configuration lacks under root.
	// Keys already present are left as the user wrote them.
	Mutate(root string, dryRun bool) (domain.MutationResult, error)
}
