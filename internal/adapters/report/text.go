// Package report renders pipeline outcomes and command listings for people and machines.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/ui/output"
	"github.com/vitalratel/wasm-slim-sub001/internal/ui/style"
)

// Text writes human-readable reports.
type Text struct {
	w     io.Writer
	r     *lipgloss.Renderer
	title lipgloss.Style
	faint lipgloss.Style
}

// NewText creates a Text reporter. Colors are used only when w is a terminal.
func NewText(w io.Writer) *Text {
	return NewTextWithProfile(w, output.ProfileFor(w))
}

// NewTextWithProfile creates a Text reporter with a fixed color profile.
func NewTextWithProfile(w io.Writer, profile termenv.Profile) *Text {
	r := lipgloss.NewRenderer(w)
	r.SetColorProfile(profile)
	return &Text{
		w:     w,
		r:     r,
		title: r.NewStyle().Bold(true).Foreground(style.Title),
		faint: r.NewStyle().Foreground(style.Neutral.Color()),
	}
}

// icon renders the colored marker of a tone.
func (t *Text) icon(tone style.Tone) string {
	return t.r.NewStyle().Foreground(tone.Color()).Render(tone.Icon())
}

// Outcome writes the result of a build.
func (t *Text) Outcome(o *domain.Outcome) error {
	var b strings.Builder

	if o.DryRun {
		b.WriteString(t.title.Render("Dry run: nothing was built or written") + "\n\n")
	}
	if o.Profile.Name != "" {
		fmt.Fprintf(&b, "Template: %s\n\n", o.Profile.Name)
	}

	b.WriteString(t.title.Render("Cargo.toml") + "\n")
	if len(o.Changes) == 0 {
		b.WriteString("  " + t.faint.Render("already optimized") + "\n")
	}
	for _, c := range o.Changes {
		fmt.Fprintf(&b, "  %s %s\n", t.icon(style.Good), c.Message)
	}
	if o.Backup != nil {
		fmt.Fprintf(&b, "  %s\n", t.faint.Render("backup: "+o.Backup.Path))
	}
	if o.RolledBack {
		fmt.Fprintf(&b, "  %s restored from backup\n", t.icon(style.Caution))
	}

	if len(o.Plan) > 0 {
		b.WriteString("\n" + t.title.Render("Plan") + "\n")
		for _, step := range o.Plan {
			fmt.Fprintf(&b, "  %s %s\n", t.faint.Render(style.Arrow), step)
		}
	}

	if len(o.Stages) > 0 {
		b.WriteString("\n" + t.title.Render("Stages") + "\n")
		for _, s := range o.Stages {
			b.WriteString(t.stageLine(s) + "\n")
		}
	}

	if o.HasArtifact() {
		b.WriteString("\n")
		fmt.Fprintf(&b, "Artifact:   %s\n", o.Artifact)
		fmt.Fprintf(&b, "Final size: %s\n", domain.FormatBytes(o.FinalSize))
		if o.ReductionBytes() > 0 {
			fmt.Fprintf(&b, "Reduction:  %s (%.2f%%)\n", domain.FormatBytes(o.ReductionBytes()), o.ReductionPercent())
		}
	}

	if o.Budget != nil {
		fmt.Fprintf(&b, "Budget:     %s %s\n", t.icon(style.ForBudget(o.Budget.Status)), o.Budget.Message)
	}
	if o.Regression != nil {
		b.WriteString("Regression: " + t.regressionLine(o.Regression) + "\n")
	}

	if len(o.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range o.Warnings {
			fmt.Fprintf(&b, "%s %s\n", t.icon(style.Caution), w)
		}
	}

	b.WriteString("\n")
	switch {
	case o.Failure != nil:
		fmt.Fprintf(&b, "%s Failed at %s: %v\n", t.icon(style.Bad), o.Failure.Stage, o.Failure.Cause)
	case o.DryRun:
		fmt.Fprintf(&b, "%s Dry run complete\n", t.icon(style.Good))
	default:
		fmt.Fprintf(&b, "%s Build succeeded\n", t.icon(style.Good))
	}

	_, err := io.WriteString(t.w, b.String())
	return err
}

func (t *Text) stageLine(s domain.StageResult) string {
	var detail string
	switch {
	case s.Skipped:
		detail = "skipped"
	case !s.Success:
		detail = "failed"
	case s.SizeBefore > 0 && s.SizeBefore != s.SizeAfter:
		change := float64(s.SizeAfter-s.SizeBefore) / float64(s.SizeBefore) * 100
		detail = fmt.Sprintf("%s %s %s (%+.2f%%)",
			domain.FormatBytes(s.SizeBefore), style.Arrow, domain.FormatBytes(s.SizeAfter), change)
	default:
		detail = domain.FormatBytes(s.SizeAfter)
	}
	if s.Duration > 0 {
		detail += " " + t.faint.Render(s.Duration.Round(time.Millisecond).String())
	}
	return fmt.Sprintf("  %s %-10s %s", t.icon(style.ForStage(s)), s.Stage, detail)
}

func (t *Text) regressionLine(r *domain.RegressionResult) string {
	return fmt.Sprintf("%s %+.2f%% since last build (was %s)",
		t.icon(style.ForRegression(r)), r.PercentChange, domain.FormatBytes(int64(r.PreviousSize))) //nolint:gosec // sizes are far below MaxInt64
}

// History writes up to limit records, newest first. A limit of zero shows all.
func (t *Text) History(h *domain.History, limit int) error {
	var b strings.Builder

	if h.Len() == 0 {
		b.WriteString("No builds recorded yet\n")
		_, err := io.WriteString(t.w, b.String())
		return err
	}

	records := h.Records
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	fmt.Fprintf(&b, "%s\n", t.title.Render(fmt.Sprintf("Build history (%d of %d)", len(records), h.Len())))
	for _, r := range records {
		line := fmt.Sprintf("  %s  %10s", r.Timestamp.UTC().Format(time.DateTime), domain.FormatBytes(int64(r.SizeBytes))) //nolint:gosec // sizes are far below MaxInt64
		if r.CommitHash != nil {
			line += "  " + *r.CommitHash
		}
		if r.Branch != nil {
			line += " " + t.faint.Render("("+*r.Branch+")")
		}
		b.WriteString(line + "\n")
	}

	if len(h.Records) > 1 {
		prev := domain.History{Records: h.Records[1:]}
		if r := prev.CheckRegression(h.Records[0].SizeBytes); r != nil {
			b.WriteString("\nLatest: " + t.regressionLine(r) + "\n")
		}
	}

	_, err := io.WriteString(t.w, b.String())
	return err
}

// Toolchain writes the detection status of each tool.
func (t *Text) Toolchain(tc domain.Toolchain) error {
	var b strings.Builder
	b.WriteString(t.title.Render("Toolchain") + "\n")
	for _, s := range tc.Tools {
		icon := t.icon(style.ForTool(s))
		switch {
		case s.Installed:
			fmt.Fprintf(&b, "  %s %-20s %s\n", icon, s.Tool.Name, s.Version)
		case s.Tool.Required:
			fmt.Fprintf(&b, "  %s %-20s missing (required) %s %s\n", icon, s.Tool.Name, style.Arrow, s.Tool.InstallHint)
		default:
			fmt.Fprintf(&b, "  %s %-20s missing (optional) %s %s\n", icon, s.Tool.Name, style.Arrow, s.Tool.InstallHint)
		}
	}
	_, err := io.WriteString(t.w, b.String())
	return err
}

// Templates writes the template catalog.
func (t *Text) Templates(templates []domain.Template) error {
	var b strings.Builder
	b.WriteString(t.title.Render("Templates") + "\n")
	for _, tpl := range templates {
		p := tpl.Profile
		fmt.Fprintf(&b, "  %-11s %s\n", tpl.Name, tpl.Description)
		fmt.Fprintf(&b, "  %-11s %s\n", "", t.faint.Render(fmt.Sprintf(
			"opt-level=%s lto=%s strip=%t codegen-units=%d panic=%s",
			p.OptLevel, p.LTO, p.Strip, p.CodegenUnits, p.Panic)))
	}
	_, err := io.WriteString(t.w, b.String())
	return err
}

// Module writes the structure of an inspected module.
func (t *Text) Module(m *domain.ModuleInfo) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", t.title.Render(m.Path), domain.FormatBytes(m.Size))
	fmt.Fprintf(&b, "  Imports (%d): %s\n", len(m.Imports), orNone(m.Imports))
	fmt.Fprintf(&b, "  Exports (%d): %s\n", len(m.Exports), orNone(m.Exports))
	fmt.Fprintf(&b, "  Memories: %d\n", m.Memories)
	sections := make([]string, 0, len(m.CustomSections))
	for _, s := range m.CustomSections {
		sections = append(sections, fmt.Sprintf("%s (%s)", s.Name, domain.FormatBytes(int64(s.Size))))
	}
	fmt.Fprintf(&b, "  Custom sections (%d): %s\n", len(sections), orNone(sections))
	_, err := io.WriteString(t.w, b.String())
	return err
}

func orNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
