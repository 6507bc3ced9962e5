// Package progrock records pipeline stages as progrock vertices.
package progrock

import (
	"context"
	"fmt"
	"sync"

	"github.com/opencontainers/go-digest"
	"github.com/vitalratel/wasm-slim-sub001/internal/core/ports"
	"github.com/vito/progrock"
)

// Recorder implements ports.Telemetry on a progrock writer.
//
// Every call to Record opens a new vertex, even for a stage name seen before,
// so a pipeline that runs wasm-opt twice shows two steps.
type Recorder struct {
	w   progrock.Writer
	rec *progrock.Recorder

	mu     sync.Mutex
	seen   map[string]int
	closed bool
}

// New creates a new Recorder that renders progress as log lines through src.
func New(src SlogSource) *Recorder {
	return NewRecorder(NewLinear(src))
}

// NewRecorder creates a new Recorder with the given writer.
func NewRecorder(w progrock.Writer) *Recorder {
	return &Recorder{
		w:    w,
		rec:  progrock.NewRecorder(w),
		seen: map[string]int{},
	}
}

// Record starts a vertex named after the stage and stores it in the returned context.
func (r *Recorder) Record(ctx context.Context, name string) (context.Context, ports.Vertex) {
	v := &Vertex{vertex: r.rec.Vertex(r.digestFor(name), name)}
	return ports.ContextWithVertex(ctx, v), v
}

func (r *Recorder) digestFor(name string) digest.Digest {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := r.seen[name]
	r.seen[name] = n + 1
	return digest.FromString(fmt.Sprintf("%s#%d", name, n))
}

// Close flushes and closes the recording session. Closing twice is a no-op.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if c, ok := r.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
