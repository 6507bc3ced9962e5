package domain

import "go.trai.ch/zerr"

var (
	// ErrTemplateNotFound is returned when a template name is not present in the catalog.
	ErrTemplateNotFound = zerr.New("template not found")

	// ErrFileReadFailed is returned when a file cannot be read.
	ErrFileReadFailed = zerr.New("failed to read file")

	// ErrFileWriteFailed is returned when a file cannot be written.
	ErrFileWriteFailed = zerr.New("failed to write file")

	// ErrDirCreateFailed is returned when a directory cannot be created.
	ErrDirCreateFailed = zerr.New("failed to create directory")

	// ErrManifestRead is returned when the build manifest cannot be read.
	ErrManifestRead = zerr.New("failed to read Cargo.toml")

	// ErrManifestNotFound is returned when the project has no Cargo.toml.
	ErrManifestNotFound = zerr.New("Cargo.toml not found")

	// ErrManifestParse is returned when the build manifest is not valid TOML.
	ErrManifestParse = zerr.New("failed to parse Cargo.toml")

	// ErrManifestStructure is returned when the manifest is valid TOML but has an unexpected shape.
	ErrManifestStructure = zerr.New("invalid Cargo.toml structure")

	// ErrManifestEdit is returned when an edit would leave the manifest unparsable.
	ErrManifestEdit = zerr.New("manifest edit produced invalid TOML")

	// ErrBackupSourceMissing is returned when a snapshot is requested for a file that does not exist.
	ErrBackupSourceMissing = zerr.New("cannot back up a file that does not exist")

	// ErrBackupCorrupt is returned when a backup's content no longer matches its recorded digest.
	ErrBackupCorrupt = zerr.New("backup content does not match its digest")

	// ErrBackupNotFound is returned when no matching backup exists.
	ErrBackupNotFound = zerr.New("backup not found")

	// ErrHistoryParse is returned when the history file is not valid JSON.
	ErrHistoryParse = zerr.New("failed to parse build history")

	// ErrConfigParseFailed is returned when .wasm-slim.toml cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse .wasm-slim.toml")

	// ErrConfigExists is returned when init would overwrite an existing configuration.
	ErrConfigExists = zerr.New(".wasm-slim.toml already exists")

	// ErrInvalidConfig is returned when the project configuration fails validation.
	ErrInvalidConfig = zerr.New("invalid configuration")

	// ErrInvalidBudget is returned when size budget thresholds are not ordered target <= warn <= max.
	ErrInvalidBudget = zerr.New("invalid size budget configuration")

	// ErrReportParse is returned when a dependency report cannot be decoded.
	ErrReportParse = zerr.New("failed to parse dependency report")

	// ErrToolMissing is returned when a required external tool is not installed.
	ErrToolMissing = zerr.New("required tool is not installed")

	// ErrToolFailed is returned when an external tool exits with a non-zero status.
	ErrToolFailed = zerr.New("tool execution failed")

	// ErrArtifactNotFound is returned when a stage produced no .wasm artifact.
	ErrArtifactNotFound = zerr.New("no .wasm artifact found")

	// ErrInvalidArtifact is returned when the produced module fails validation.
	ErrInvalidArtifact = zerr.New("artifact is not a valid WebAssembly module")

	// ErrBudgetExceeded is returned when the artifact exceeds the maximum size budget and checking is enabled.
	ErrBudgetExceeded = zerr.New("size budget exceeded")

	// ErrBuildFailed classifies a pipeline failure whose outcome has already been reported.
	ErrBuildFailed = zerr.New("build pipeline failed")
)
