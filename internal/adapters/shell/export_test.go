package shell

var (
	ResolveEnvironment = resolveEnvironment
	StderrTail         = stderrTail
)

// WithEnviron replaces the environment source of r.
func (r *Runner) WithEnviron(fn func() []string) *Runner {
	r.environ = fn
	return r
}
