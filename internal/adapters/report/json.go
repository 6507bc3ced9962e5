package report

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
)

// JSON writes machine-readable reports.
type JSON struct {
	w io.Writer
}

// NewJSON creates a JSON reporter.
func NewJSON(w io.Writer) *JSON {
	return &JSON{w: w}
}

type outcomeJSON struct {
	Success      bool            `json:"success"`
	DryRun       bool            `json:"dry_run"`
	Template     string          `json:"template,omitempty"`
	Artifact     string          `json:"artifact,omitempty"`
	Size         sizeJSON        `json:"size"`
	OriginalSize *int64          `json:"original_size,omitempty"`
	Reduction    *reductionJSON  `json:"reduction,omitempty"`
	Budget       *budgetJSON     `json:"budget,omitempty"`
	Regression   *regressionJSON `json:"regression,omitempty"`
	Module       *moduleJSON     `json:"module,omitempty"`
	Changes      []string        `json:"changes"`
	Backup       string          `json:"backup,omitempty"`
	RolledBack   bool            `json:"rolled_back,omitempty"`
	Stages       []stageJSON     `json:"stages"`
	Plan         []string        `json:"plan,omitempty"`
	Warnings     []string        `json:"warnings,omitempty"`
	FailedStage  string          `json:"failed_stage,omitempty"`
	Error        string          `json:"error,omitempty"`
}

type sizeJSON struct {
	Bytes     int64   `json:"bytes"`
	KB        float64 `json:"kb"`
	MB        float64 `json:"mb"`
	Formatted string  `json:"formatted"`
}

type reductionJSON struct {
	Bytes   int64   `json:"bytes"`
	Percent float64 `json:"percent"`
}

type budgetJSON struct {
	Status          string   `json:"status"`
	Passed          bool     `json:"passed"`
	TargetKB        *uint64  `json:"target_kb,omitempty"`
	WarnThresholdKB *uint64  `json:"warn_threshold_kb,omitempty"`
	MaxSizeKB       *uint64  `json:"max_size_kb,omitempty"`
	DeltaKB         *float64 `json:"delta_kb,omitempty"`
	Message         string   `json:"message"`
}

type regressionJSON struct {
	IsRegression  bool    `json:"is_regression"`
	PreviousBytes uint64  `json:"previous_bytes"`
	PreviousKB    float64 `json:"previous_kb"`
	DiffBytes     int64   `json:"diff_bytes"`
	DiffKB        float64 `json:"diff_kb"`
	PercentChange float64 `json:"percent_change"`
}

type stageJSON struct {
	Stage      string `json:"stage"`
	Success    bool   `json:"success"`
	Skipped    bool   `json:"skipped"`
	DurationMS int64  `json:"duration_ms"`
	SizeBefore int64  `json:"size_before"`
	SizeAfter  int64  `json:"size_after"`
	Digest     string `json:"digest,omitempty"`
}

type moduleJSON struct {
	Imports        []string `json:"imports"`
	Exports        []string `json:"exports"`
	Memories       int      `json:"memories"`
	CustomSections []string `json:"custom_sections"`
}

// Outcome writes the result of a build as one JSON document.
func (j *JSON) Outcome(o *domain.Outcome) error {
	return j.encode(outcomeToJSON(o))
}

// History writes the records and the change of the latest build.
func (j *JSON) History(h *domain.History, limit int) error {
	records := h.Records
	if limit > 0 && limit < len(records) {
		records = records[:limit]
	}
	doc := struct {
		Records    []domain.BuildRecord `json:"records"`
		Regression *regressionJSON      `json:"regression,omitempty"`
	}{Records: records}
	if doc.Records == nil {
		doc.Records = []domain.BuildRecord{}
	}
	if len(h.Records) > 1 {
		prev := domain.History{Records: h.Records[1:]}
		doc.Regression = regressionToJSON(prev.CheckRegression(h.Records[0].SizeBytes))
	}
	return j.encode(doc)
}

func (j *JSON) encode(v any) error {
	enc := json.NewEncoder(j.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func outcomeToJSON(o *domain.Outcome) outcomeJSON {
	out := outcomeJSON{
		Success:  o.Success(),
		DryRun:   o.DryRun,
		Template: o.Profile.Name,
		Artifact: o.Artifact,
		Size: sizeJSON{
			Bytes:     o.FinalSize,
			KB:        round2(float64(o.FinalSize) / domain.KiB),
			MB:        round2(float64(o.FinalSize) / domain.MiB),
			Formatted: domain.FormatBytes(o.FinalSize),
		},
		Changes:    make([]string, 0, len(o.Changes)),
		Stages:     make([]stageJSON, 0, len(o.Stages)),
		RolledBack: o.RolledBack,
		Plan:       o.Plan,
		Warnings:   o.Warnings,
		Regression: regressionToJSON(o.Regression),
	}

	for _, c := range o.Changes {
		out.Changes = append(out.Changes, c.Message)
	}
	for _, s := range o.Stages {
		st := stageJSON{
			Stage:      string(s.Stage),
			Success:    s.Success,
			Skipped:    s.Skipped,
			DurationMS: s.Duration.Milliseconds(),
			SizeBefore: s.SizeBefore,
			SizeAfter:  s.SizeAfter,
		}
		if s.Digest != 0 {
			st.Digest = formatDigest(s.Digest)
		}
		out.Stages = append(out.Stages, st)
	}

	if o.Backup != nil {
		out.Backup = o.Backup.Path
	}
	if o.OriginalSize > 0 {
		original := o.OriginalSize
		out.OriginalSize = &original
		out.Reduction = &reductionJSON{
			Bytes:   o.ReductionBytes(),
			Percent: round2(o.ReductionPercent()),
		}
	}
	if b := o.Budget; b != nil {
		out.Budget = &budgetJSON{
			Status:          b.Status.String(),
			Passed:          b.Passed(),
			TargetKB:        b.TargetKB,
			WarnThresholdKB: b.WarnKB,
			MaxSizeKB:       b.MaxKB,
			Message:         b.Message,
		}
		if delta, ok := b.DeltaKB(); ok {
			d := round2(delta)
			out.Budget.DeltaKB = &d
		}
	}
	if m := o.Module; m != nil {
		sections := make([]string, 0, len(m.CustomSections))
		for _, s := range m.CustomSections {
			sections = append(sections, s.Name)
		}
		out.Module = &moduleJSON{
			Imports:        nonNil(m.Imports),
			Exports:        nonNil(m.Exports),
			Memories:       m.Memories,
			CustomSections: sections,
		}
	}
	if o.Failure != nil {
		out.FailedStage = string(o.Failure.Stage)
		if o.Failure.Cause != nil {
			out.Error = o.Failure.Cause.Error()
		}
	}
	return out
}

func regressionToJSON(r *domain.RegressionResult) *regressionJSON {
	if r == nil {
		return nil
	}
	return &regressionJSON{
		IsRegression:  r.IsRegression,
		PreviousBytes: r.PreviousSize,
		PreviousKB:    round2(domain.BytesToKB(r.PreviousSize)),
		DiffBytes:     r.SizeDiff,
		DiffKB:        round2(float64(r.SizeDiff) / domain.KiB),
		PercentChange: round2(r.PercentChange),
	}
}

func formatDigest(d uint64) string {
	return fmt.Sprintf("xxh64:%016x", d)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
