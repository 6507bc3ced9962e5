// Package shell runs external tools with os/exec.
package shell

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
	"go.trai.ch/zerr"
)

// stderrTailLines is how many trailing stderr lines a failure error carries.
const stderrTailLines = 20

// Runner implements ports.ToolRunner using os/exec.
type Runner struct {
	logger  ports.Logger
	environ func() []string
}

// NewRunner creates a new Runner inheriting the process environment.
func NewRunner(logger ports.Logger) *Runner {
	return &Runner{
		logger:  logger,
		environ: os.Environ,
	}
}

// Run executes the command and waits for it to finish.
// Output is captured and streamed to the vertex in ctx, or to the logger.
func (r *Runner) Run(ctx context.Context, c domain.Command) (domain.CommandResult, error) {
	var res domain.CommandResult

	env := resolveEnvironment(r.environ(), c.Unset)

	executable := c.Name
	if !filepath.IsAbs(c.Name) {
		if lp, err := lookPath(c.Name, env); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, c.Args...) //nolint:gosec // tool invocations are built internally
	if len(cmd.Args) > 0 {
		cmd.Args[0] = c.Name
	}
	cmd.Dir = c.Dir
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	streamOut, streamErr, flush := r.streams(ctx, c.Quiet)
	cmd.Stdout = io.MultiWriter(&stdout, streamOut)
	cmd.Stderr = io.MultiWriter(&stderr, streamErr)

	start := time.Now()
	err := cmd.Run()
	flush()

	res.Stdout = stdout.Bytes()
	res.Stderr = stderr.Bytes()
	res.Duration = time.Since(start)

	if err != nil {
		res.ExitCode = -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			res.ExitCode = exitErr.ExitCode()
		}

		wrapped := zerr.Wrap(err, domain.ErrToolFailed.Error())
		wrapped = zerr.With(wrapped, "tool", c.Name)
		wrapped = zerr.With(wrapped, "exit_code", res.ExitCode)
		if tail := stderrTail(res.Stderr); tail != "" {
			wrapped = zerr.With(wrapped, "stderr", tail)
		}
		return res, wrapped
	}

	return res, nil
}

// LookPath resolves binary against the PATH of the process environment.
func (r *Runner) LookPath(binary string) (string, error) {
	if filepath.IsAbs(binary) {
		if err := findExecutable(binary); err != nil {
			return "", zerr.With(zerr.Wrap(err, domain.ErrToolMissing.Error()), "tool", binary)
		}
		return binary, nil
	}
	path, err := lookPath(binary, r.environ())
	if err != nil {
		return "", zerr.With(zerr.Wrap(err, domain.ErrToolMissing.Error()), "tool", binary)
	}
	return path, nil
}

func (r *Runner) streams(ctx context.Context, quiet bool) (stdout, stderr io.Writer, flush func()) {
	stdout, stderr, flush = io.Discard, io.Discard, func() {}
	if quiet {
		return stdout, stderr, flush
	}

	if v, ok := ports.VertexFromContext(ctx); ok {
		return v.Stdout(), v.Stderr(), flush
	}
	if r.logger != nil {
		out := &logWriter{emit: r.logger.Info}
		errw := &logWriter{emit: r.logger.Info}
		stdout, stderr = out, errw
		flush = func() {
			_ = out.Close()
			_ = errw.Close()
		}
	}
	return stdout, stderr, flush
}

// logWriter forwards complete lines to emit.
type logWriter struct {
	emit func(string)
	buf  []byte
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.logLine(w.buf[:i])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

// Close emits any buffered partial line.
func (w *logWriter) Close() error {
	if len(w.buf) > 0 {
		w.logLine(w.buf)
		w.buf = nil
	}
	return nil
}

func (w *logWriter) logLine(line []byte) {
	msg := strings.TrimSuffix(string(line), "\r")
	if strings.TrimSpace(msg) == "" {
		return
	}
	w.emit(msg)
}

func stderrTail(stderr []byte) string {
	lines := strings.Split(strings.TrimRight(string(stderr), "\n"), "\n")
	if len(lines) > stderrTailLines {
		lines = lines[len(lines)-stderrTailLines:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// resolveEnvironment returns sysEnv without the variables named in unset.
func resolveEnvironment(sysEnv, unset []string) []string {
	if len(unset) == 0 {
		return sysEnv
	}
	env := make([]string, 0, len(sysEnv))
	for _, entry := range sysEnv {
		k, _, _ := strings.Cut(entry, "=")
		if slices.Contains(unset, k) {
			continue
		}
		env = append(env, entry)
	}
	return env
}

// lookPath searches for an executable in the directories named by PATH in env.
func lookPath(file string, env []string) (string, error) {
	var path string
	for _, e := range env {
		if strings.HasPrefix(e, "PATH=") {
			path = strings.TrimPrefix(e, "PATH=")
		}
	}

	if path == "" {
		return "", exec.ErrNotFound
	}

	for _, dir := range filepath.SplitList(path) {
		if dir == "" {
			// Unix shell semantics: path element "" means "."
			dir = "."
		}
		p := filepath.Join(dir, file)
		if err := findExecutable(p); err == nil {
			return p, nil
		}
	}
	return "", exec.ErrNotFound
}

func findExecutable(file string) error {
	d, err := os.Stat(file)
	if err != nil {
		return err
	}
	if m := d.Mode(); !m.IsDir() && m&0o111 != 0 {
		return nil
	}
	return os.ErrPermission
}
