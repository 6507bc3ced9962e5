package progrock

import (
	"bytes"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/vitalratel/wasm-slim-sub001/internal/adapters/logger"
	"github.com/vito/progrock"
)

// SlogSource supplies the slog.Logger that progress lines are written through.
// It is consulted for every line, so a later switch to JSON output is honored.
type SlogSource interface {
	Slog() *slog.Logger
}

var _ progrock.Writer = (*Linear)(nil)

// Linear is a progrock.Writer that renders progress as chronological log lines:
// one when a vertex starts, one when it finishes, and one per line of output
// streamed to it. Partial lines are held until a newline or the vertex finishes.
type Linear struct {
	src SlogSource

	mu       sync.Mutex
	vertexes map[string]*linearVertex
	order    []string
}

type linearVertex struct {
	name    string
	started time.Time
	done    bool
	stdout  bytes.Buffer
	stderr  bytes.Buffer
}

// NewLinear creates a Linear writing through src.
func NewLinear(src SlogSource) *Linear {
	return &Linear{src: src, vertexes: map[string]*linearVertex{}}
}

// WriteStatus renders the vertex and log updates in u.
func (l *Linear) WriteStatus(u *progrock.StatusUpdate) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	log := l.src.Slog()
	for _, v := range u.Vertexes {
		l.vertexLocked(log, v)
	}
	for _, entry := range u.Logs {
		l.logLocked(log, entry)
	}
	return nil
}

// Close flushes the output of vertices that never finished.
func (l *Linear) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	log := l.src.Slog()
	for _, id := range l.order {
		if s := l.vertexes[id]; !s.done {
			flush(log, s)
		}
	}
	return nil
}

func (l *Linear) vertexLocked(log *slog.Logger, v *progrock.Vertex) {
	s, ok := l.vertexes[v.Id]
	if !ok {
		s = &linearVertex{name: v.Name}
		if v.Started != nil {
			s.started = v.Started.AsTime()
		}
		l.vertexes[v.Id] = s
		l.order = append(l.order, v.Id)
		log.Info("started", slog.String(logger.StageKey, s.name))
	}
	if s.done || v.Completed == nil {
		return
	}

	s.done = true
	flush(log, s)

	elapsed := v.Completed.AsTime().Sub(s.started).Round(time.Millisecond)
	stage := slog.String(logger.StageKey, s.name)
	switch {
	case v.Cached:
		log.Info("skipped", stage)
	case v.Error != nil:
		log.Error(fmt.Sprintf("failed after %v: %s", elapsed, *v.Error), stage)
	case v.Canceled:
		log.Warn(fmt.Sprintf("canceled after %v", elapsed), stage)
	default:
		log.Info(fmt.Sprintf("completed in %v", elapsed), stage)
	}
}

func (l *Linear) logLocked(log *slog.Logger, entry *progrock.VertexLog) {
	s, ok := l.vertexes[entry.Vertex]
	if !ok {
		return
	}

	buf := &s.stdout
	if entry.Stream == progrock.LogStream_STDERR {
		buf = &s.stderr
	}
	buf.Write(entry.Data)

	for {
		i := bytes.IndexByte(buf.Bytes(), '\n')
		if i < 0 {
			return
		}
		line := buf.Next(i + 1)
		emit(log, s.name, line)
	}
}

// flush emits any partial line still buffered for s.
func flush(log *slog.Logger, s *linearVertex) {
	for _, buf := range []*bytes.Buffer{&s.stdout, &s.stderr} {
		if buf.Len() > 0 {
			emit(log, s.name, buf.Bytes())
			buf.Reset()
		}
	}
}

func emit(log *slog.Logger, stage string, line []byte) {
	line = bytes.TrimSuffix(line, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) == 0 {
		return
	}
	log.Info(string(line), slog.String(logger.StageKey, stage))
}
