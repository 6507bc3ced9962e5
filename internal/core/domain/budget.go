package domain

import (
	"fmt"

	"go.trai.ch/zerr"
)

// SizeBudget holds optional size thresholds in kilobytes.
type SizeBudget struct {
	TargetKB *uint64
	WarnKB   *uint64
	MaxKB    *uint64
}

// IsZero reports whether no threshold is configured.
func (b SizeBudget) IsZero() bool {
	return b.TargetKB == nil && b.WarnKB == nil && b.MaxKB == nil
}

// Validate checks that configured thresholds are ordered target <= warn <= max.
func (b SizeBudget) Validate() error {
	if b.TargetKB != nil && b.WarnKB != nil && *b.TargetKB > *b.WarnKB {
		return zerr.Wrap(
			fmt.Errorf("Target size (%d KB) cannot exceed warning threshold (%d KB)", *b.TargetKB, *b.WarnKB), //nolint:staticcheck // user facing sentence
			ErrInvalidBudget.Error(),
		)
	}
	if b.WarnKB != nil && b.MaxKB != nil && *b.WarnKB > *b.MaxKB {
		return zerr.Wrap(
			fmt.Errorf("Warning threshold (%d KB) cannot exceed max size (%d KB)", *b.WarnKB, *b.MaxKB), //nolint:staticcheck // user facing sentence
			ErrInvalidBudget.Error(),
		)
	}
	if b.TargetKB != nil && b.MaxKB != nil && *b.TargetKB > *b.MaxKB {
		return zerr.Wrap(
			fmt.Errorf("Target size (%d KB) cannot exceed max size (%d KB)", *b.TargetKB, *b.MaxKB), //nolint:staticcheck // user facing sentence
			ErrInvalidBudget.Error(),
		)
	}
	return nil
}

// BudgetStatus is the tier an artifact size falls into.
type BudgetStatus int

const (
	// BudgetUnderTarget means the size is at or below the target.
	BudgetUnderTarget BudgetStatus = iota
	// BudgetAboveTarget means the size is above target but within warn and max.
	BudgetAboveTarget
	// BudgetWarning means the size is above the warning threshold but within max.
	BudgetWarning
	// BudgetOverBudget means the size exceeds the maximum.
	BudgetOverBudget
)

// String returns the snake_case name used in JSON output.
func (s BudgetStatus) String() string {
	switch s {
	case BudgetUnderTarget:
		return "under_target"
	case BudgetAboveTarget:
		return "above_target"
	case BudgetWarning:
		return "warning"
	case BudgetOverBudget:
		return "over_budget"
	default:
		return "unknown"
	}
}

// BudgetResult is the evaluation of one artifact size against a budget.
type BudgetResult struct {
	Status   BudgetStatus
	SizeKB   float64
	TargetKB *uint64
	WarnKB   *uint64
	MaxKB    *uint64
	Message  string
	ExitCode int
}

// Passed reports whether the result does not fail the build.
func (r BudgetResult) Passed() bool {
	return r.Status != BudgetOverBudget
}

// DeltaKB returns the distance to the strictest configured threshold (max, then warn, then target).
func (r BudgetResult) DeltaKB() (float64, bool) {
	switch {
	case r.MaxKB != nil:
		return r.SizeKB - float64(*r.MaxKB), true
	case r.WarnKB != nil:
		return r.SizeKB - float64(*r.WarnKB), true
	case r.TargetKB != nil:
		return r.SizeKB - float64(*r.TargetKB), true
	default:
		return 0, false
	}
}
