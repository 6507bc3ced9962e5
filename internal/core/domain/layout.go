package domain

import "path/filepath"

const (
	// StateDirName is the name of the per-project working directory.
	StateDirName = ".wasm-slim"

	// BackupDirName is the name of the backup directory inside the state directory.
	BackupDirName = "backups"

	// HistoryFileName is the name of the build history file.
	HistoryFileName = "history.json"

	// ConfigFileName is the name of the project configuration file.
	ConfigFileName = ".wasm-slim.toml"

	// ManifestFileName is the name of the Rust build manifest.
	ManifestFileName = "Cargo.toml"

	// CargoConfigDirName is cargo's per-project configuration directory.
	CargoConfigDirName = ".cargo"

	// CargoConfigFileName is cargo's configuration file inside CargoConfigDirName.
	CargoConfigFileName = "config.toml"

	// BindgenOutDirName is the directory wasm-bindgen writes into.
	BindgenOutDirName = "pkg"

	// TargetDirName is cargo's default output directory.
	TargetDirName = "target"

	// BackupSuffix is the extension appended to every backup file.
	BackupSuffix = ".backup"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644

	// PrivateFilePerm is the default permission for private files (rw-------).
	PrivateFilePerm = 0o600
)

// BackupDir returns the backup directory for a project root.
// It joins root, .wasm-slim, and backups.
func BackupDir(root string) string {
	return filepath.Join(root, StateDirName, BackupDirName)
}

// HistoryPath returns the history file path for a project root.
// It joins root, .wasm-slim, and history.json.
func HistoryPath(root string) string {
	return filepath.Join(root, StateDirName, HistoryFileName)
}

// ConfigPath returns the project configuration path.
func ConfigPath(root string) string {
	return filepath.Join(root, ConfigFileName)
}

// ManifestPath returns the Cargo.toml path.
func ManifestPath(root string) string {
	return filepath.Join(root, ManifestFileName)
}

// CargoConfigPath returns the .cargo/config.toml path.
func CargoConfigPath(root string) string {
	return filepath.Join(root, CargoConfigDirName, CargoConfigFileName)
}
