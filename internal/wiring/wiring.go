// Package wiring registers all Graft nodes for the application.
package wiring

import (
	// Register adapter nodes.
	_ "github.com/vitalratel/wasm-slim-sub001/internal/adapters/backup"
	_ "github.com/vitalratel/wasm-slim-sub001/internal/adapters/catalog"
	_ "github.com/vitalratel/wasm-slim-sub001/internal/adapters/config"
	_ "github.com/vitalratel/wasm-slim-sub001/internal/adapters/fs"
	_ "github.com/vitalratel/wasm-slim-sub001/internal/adapters/git"
	_ "github.com/vitalratel/wasm-slim-sub001/internal/adapters/history"
	_ "github.com/vitalratel/wasm-slim-sub001/internal/adapters/logger"
	_ "github.com/vitalratel/wasm-slim-sub001/internal/adapters/shell"
	_ "github.com/vitalratel/wasm-slim-sub001/internal/adapters/telemetry/progrock"
	_ "github.com/vitalratel/wasm-slim-sub001/internal/adapters/toolchain"
	_ "github.com/vitalratel/wasm-slim-sub001/internal/adapters/wasm"
	// Register app and engine nodes.
	_ "github.com/vitalratel/wasm-slim-sub001/internal/app"
	_ "github.com/vitalratel/wasm-slim-sub001/internal/engine/manifest"
	_ "github.com/vitalratel/wasm-slim-sub001/internal/engine/pipeline"
	_ "github.com/vitalratel/wasm-slim-sub001/internal/engine/profile"
)
