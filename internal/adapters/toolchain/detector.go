// Package toolchain detects the external binaries the pipeline depends on.
package toolchain

import (
	"bytes"
	"context"
	"strings"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
	"golang.org/x/sync/errgroup"
)

// Detector implements ports.ToolchainDetector by probing binaries with --version.
type Detector struct {
	runner ports.ToolRunner
}

// NewDetector creates a new Detector.
func NewDetector(runner ports.ToolRunner) *Detector {
	return &Detector{runner: runner}
}

// Detect checks every tool concurrently. The result keeps the order of tools.
// A missing binary is reported as not installed, never as an error.
func (d *Detector) Detect(ctx context.Context, tools []domain.Tool) (domain.Toolchain, error) {
	statuses := make([]domain.ToolStatus, len(tools))

	g, gctx := errgroup.WithContext(ctx)
	for i, tool := range tools {
		g.Go(func() error {
			statuses[i] = d.check(gctx, tool)
			return gctx.Err()
		})
	}
	if err := g.Wait(); err != nil {
		return domain.Toolchain{}, err
	}

	return domain.Toolchain{Tools: statuses}, nil
}

// Nightly runs rustc --version and looks for a nightly release channel.
func (d *Detector) Nightly(ctx context.Context) bool {
	path, err := d.runner.LookPath(domain.ToolRustc)
	if err != nil {
		return false
	}
	res, err := d.runner.Run(ctx, domain.Command{
		Name:  path,
		Args:  []string{"--version"},
		Quiet: true,
	})
	if err != nil {
		return false
	}
	return strings.Contains(firstLine(res.Stdout), "nightly")
}

func (d *Detector) check(ctx context.Context, tool domain.Tool) domain.ToolStatus {
	status := domain.ToolStatus{Tool: tool}

	path, err := d.runner.LookPath(tool.Binary)
	if err != nil {
		return status
	}
	status.Installed = true
	status.Path = path

	res, err := d.runner.Run(ctx, domain.Command{
		Name:  path,
		Args:  []string{"--version"},
		Quiet: true,
	})
	if err == nil {
		status.Version = firstLine(res.Stdout)
	}
	return status
}

func firstLine(b []byte) string {
	line, _, _ := bytes.Cut(bytes.TrimSpace(b), []byte("\n"))
	return strings.TrimSpace(string(line))
}
