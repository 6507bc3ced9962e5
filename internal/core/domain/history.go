package domain

import "time"

const (
	// MaxHistoryRecords is the number of build records kept in history.
	MaxHistoryRecords = 100

	// RegressionThresholdPercent is the size increase above which a build is a regression.
	RegressionThresholdPercent = 5.0
)

// BuildRecord is one completed build.
type BuildRecord struct {
	Timestamp  time.Time `json:"timestamp"`
	SizeBytes  uint64    `json:"size_bytes"`
	CommitHash *string   `json:"commit_hash,omitempty"`
	Branch     *string   `json:"branch,omitempty"`
}

// History is a newest-first log of build records.
type History struct {
	Records []BuildRecord `json:"records"`
}

// NewHistory returns an empty history.
func NewHistory() *History {
	return &History{Records: []BuildRecord{}}
}

// Add inserts a record at the front and drops the oldest records beyond MaxHistoryRecords.
func (h *History) Add(record BuildRecord) {
	h.Records = append([]BuildRecord{record}, h.Records...)
	if len(h.Records) > MaxHistoryRecords {
		h.Records = h.Records[:MaxHistoryRecords]
	}
}

// Latest returns the newest record.
func (h *History) Latest() (BuildRecord, bool) {
	if len(h.Records) == 0 {
		return BuildRecord{}, false
	}
	return h.Records[0], true
}

// Len returns the number of records.
func (h *History) Len() int {
	return len(h.Records)
}

// CheckRegression compares a new size with the latest record.
// It returns nil when the history is empty.
func (h *History) CheckRegression(currentSize uint64) *RegressionResult {
	latest, ok := h.Latest()
	if !ok {
		return nil
	}

	diff := int64(currentSize) - int64(latest.SizeBytes) //nolint:gosec // sizes are far below MaxInt64
	var percent float64
	if latest.SizeBytes > 0 {
		percent = float64(diff) * 100.0 / float64(latest.SizeBytes)
	}

	return &RegressionResult{
		IsRegression:  percent > RegressionThresholdPercent,
		PreviousSize:  latest.SizeBytes,
		CurrentSize:   currentSize,
		SizeDiff:      diff,
		PercentChange: percent,
	}
}

// RegressionResult compares a build size against the previous one.
type RegressionResult struct {
	IsRegression  bool
	PreviousSize  uint64
	CurrentSize   uint64
	SizeDiff      int64
	PercentChange float64
}

// Revision identifies the source control state a build was made from.
type Revision struct {
	Commit string
	Branch string
}

// NewBuildRecord returns a record for a build of the given size.
// Empty revision fields are left absent.
func NewBuildRecord(at time.Time, sizeBytes uint64, rev Revision) BuildRecord {
	rec := BuildRecord{Timestamp: at.UTC(), SizeBytes: sizeBytes}
	if rev.Commit != "" {
		commit := rev.Commit
		rec.CommitHash = &commit
	}
	if rev.Branch != "" {
		branch := rev.Branch
		rec.Branch = &branch
	}
	return rec
}
