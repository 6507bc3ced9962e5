// Package style maps build results to the icons and colors shared by the log
// handler and the report renderer.
package style

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
)

// Title is the color of section headings.
var Title = lipgloss.Color("#8B5CF6")

// Arrow separates a before and after value.
const Arrow = "→"

// Tone is how good a result is.
type Tone int

const (
	// Neutral is informational.
	Neutral Tone = iota
	// Good is a passed step or a size within limits.
	Good
	// Caution is a skipped step, a warning threshold or a regression.
	Caution
	// Bad is a failure.
	Bad
)

// Icon returns the marker printed before a line of this tone.
// Neutral lines have no marker.
func (t Tone) Icon() string {
	switch t {
	case Good:
		return "✓"
	case Caution:
		return "!"
	case Bad:
		return "✗"
	default:
		return ""
	}
}

// Color returns the foreground color of the tone.
func (t Tone) Color() lipgloss.Color {
	switch t {
	case Good:
		return lipgloss.Color("#22A06B")
	case Caution:
		return lipgloss.Color("#F59E0B")
	case Bad:
		return lipgloss.Color("#D93025")
	default:
		return lipgloss.Color("#667085")
	}
}

// ForBudget returns the tone of a budget status.
func ForBudget(s domain.BudgetStatus) Tone {
	switch s {
	case domain.BudgetOverBudget:
		return Bad
	case domain.BudgetWarning:
		return Caution
	default:
		return Good
	}
}

// ForStage returns the tone of a stage result.
func ForStage(r domain.StageResult) Tone {
	switch {
	case r.Skipped:
		return Caution
	case !r.Success:
		return Bad
	default:
		return Good
	}
}

// ForRegression returns the tone of a size change since the last build.
func ForRegression(r *domain.RegressionResult) Tone {
	if r.IsRegression {
		return Caution
	}
	return Good
}

// ForTool returns the tone of a toolchain entry.
func ForTool(s domain.ToolStatus) Tone {
	switch {
	case s.Installed:
		return Good
	case s.Tool.Required:
		return Bad
	default:
		return Caution
	}
}
