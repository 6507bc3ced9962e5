// Package git reads the current revision of a project checkout.
package git

import (
	"context"
	"strings"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
)

// SourceControl implements ports.SourceControl with the git command line.
type SourceControl struct {
	runner ports.ToolRunner
}

// NewSourceControl creates a new SourceControl.
func NewSourceControl(runner ports.ToolRunner) *SourceControl {
	return &SourceControl{runner: runner}
}

// Head returns the short commit hash and branch of dir.
// Fields are empty when git is missing or dir is not a repository.
// A detached HEAD has no branch.
func (s *SourceControl) Head(ctx context.Context, dir string) domain.Revision {
	var rev domain.Revision
	if _, err := s.runner.LookPath(domain.ToolGit); err != nil {
		return rev
	}

	rev.Commit = s.revParse(ctx, dir, "--short", "HEAD")
	if rev.Commit == "" {
		return rev
	}
	if branch := s.revParse(ctx, dir, "--abbrev-ref", "HEAD"); branch != "HEAD" {
		rev.Branch = branch
	}
	return rev
}

func (s *SourceControl) revParse(ctx context.Context, dir string, args ...string) string {
	res, err := s.runner.Run(ctx, domain.Command{
		Name:  domain.ToolGit,
		Args:  append([]string{"rev-parse"}, args...),
		Dir:   dir,
		Quiet: true,
	})
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(res.Stdout))
}
