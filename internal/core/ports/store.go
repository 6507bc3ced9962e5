package ports

import "github.com/vitalratel/wasm-slim-sub001/internal/core/domain"

// HistoryStore persists the build history of a project.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type HistoryStore interface {
	// Load reads the history for the project root.
	// A missing file yields an empty history.
	Load(root string) (*domain.History, error)

	// Save writes the history for the project root.
	Save(root string, history *domain.History) error
}
