package progrock

import (
	"io"
	"sync"

	"github.com/vito/progrock"
)

// Vertex is one pipeline step. Only the first of Complete and
// Cached takes effect.
type Vertex struct {
	vertex *progrock.VertexRecorder
	once   sync.Once
}

// Stdout returns the stream tool output is copied to.
func (v *Vertex) Stdout() io.Writer { return v.vertex.Stdout() }

// Stderr returns the stream tool diagnostics are copied to.
func (v *Vertex) Stderr() io.Writer { return v.vertex.Stderr() }

// Complete finishes the step, failed when err is non-nil.
func (v *Vertex) Complete(err error) {
	v.once.Do(func() { v.vertex.Done(err) })
}

// Cached finishes a step that was skipped.
func (v *Vertex) Cached() {
	v.once.Do(func() {
		v.vertex.Cached()
		v.vertex.Done(nil)
	})
}
