package domain

import "time"

// Backup is an immutable snapshot of a file taken before it was mutated.
type Backup struct {
	OriginalPath string
	Path         string
	CreatedAt    time.Time
	Size         int64
	// Digest is the xxhash64 of the captured bytes.
	Digest uint64
}
