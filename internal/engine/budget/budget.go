// Package budget evaluates artifact sizes against size budgets.
package budget

import (
	"fmt"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
)

// Evaluate classifies an artifact size against the budget thresholds.
//
// Thresholds are checked strictly in the order max, warn, target, and a size
// equal to a threshold never trips it. Evaluate never fails; an empty budget
// is always under target.
func Evaluate(sizeBytes uint64, b domain.SizeBudget) domain.BudgetResult {
	sizeKB := domain.BytesToKB(sizeBytes)
	status := classify(sizeKB, b)

	exitCode := 0
	if status == domain.BudgetOverBudget {
		exitCode = 1
	}

	return domain.BudgetResult{
		Status:   status,
		SizeKB:   sizeKB,
		TargetKB: b.TargetKB,
		WarnKB:   b.WarnKB,
		MaxKB:    b.MaxKB,
		Message:  message(status, sizeKB, b),
		ExitCode: exitCode,
	}
}

func classify(sizeKB float64, b domain.SizeBudget) domain.BudgetStatus {
	if b.MaxKB != nil && sizeKB > float64(*b.MaxKB) {
		return domain.BudgetOverBudget
	}
	if b.WarnKB != nil && sizeKB > float64(*b.WarnKB) {
		return domain.BudgetWarning
	}
	if b.TargetKB != nil {
		if sizeKB <= float64(*b.TargetKB) {
			return domain.BudgetUnderTarget
		}
		return domain.BudgetAboveTarget
	}
	if b.MaxKB != nil || b.WarnKB != nil {
		return domain.BudgetAboveTarget
	}
	return domain.BudgetUnderTarget
}

func message(status domain.BudgetStatus, sizeKB float64, b domain.SizeBudget) string {
	switch status {
	case domain.BudgetUnderTarget:
		if b.TargetKB != nil {
			return fmt.Sprintf("Under target by %.2f KB", float64(*b.TargetKB)-sizeKB)
		}
		return "Size OK"
	case domain.BudgetAboveTarget:
		if b.TargetKB != nil {
			return fmt.Sprintf("Above target by %.2f KB (still within limits)", sizeKB-float64(*b.TargetKB))
		}
		return "Size OK"
	case domain.BudgetWarning:
		return fmt.Sprintf("Warning: %d KB over threshold (consider optimizing)", int64(sizeKB-float64(*b.WarnKB)))
	case domain.BudgetOverBudget:
		return fmt.Sprintf("FAILED: %d KB over budget (optimization required)", int64(sizeKB-float64(*b.MaxKB)))
	default:
		return ""
	}
}
