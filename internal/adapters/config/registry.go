package config

import (
	"errors"
	"slices"
	"strings"

	"github.com/vitalratel/wasm-slim-sub001/internal/core/domain"
)

// Severity grades a validation issue.
type Severity int

const (
	// SeverityWarning is reported but does not reject the configuration.
	SeverityWarning Severity = iota
	// SeverityError rejects the configuration.
	SeverityError
)

// String returns the severity name.
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Issue is a single validation finding.
type Issue struct {
	Severity   Severity
	Field      string
	Message    string
	Suggestion string
	// Err is the underlying error for SeverityError issues.
	Err error
}

// String formats the issue for log output.
func (i Issue) String() string {
	var sb strings.Builder
	if i.Field != "" {
		sb.WriteString(i.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)
	if i.Suggestion != "" {
		sb.WriteString(" (")
		sb.WriteString(i.Suggestion)
		sb.WriteString(")")
	}
	return sb.String()
}

// Validator checks one aspect of a project configuration.
type Validator interface {
	Name() string
	// Priority orders validators; lower runs first.
	Priority() int
	Validate(cfg *domain.ProjectConfig) []Issue
}

// Registry holds an ordered set of validators.
// A zero Registry is empty and usable.
type Registry struct {
	validators []Validator
}

// NewRegistry returns a registry holding the given validators.
func NewRegistry(validators ...Validator) *Registry {
	r := &Registry{}
	for _, v := range validators {
		r.Register(v)
	}
	return r
}

// DefaultRegistry returns a registry with every built-in validator.
func DefaultRegistry() *Registry {
	return NewRegistry(
		BudgetValidator{},
		PipelineValidator{},
		ProfileValidator{},
		WasmOptFlagsValidator{},
	)
}

// Register adds a validator, keeping the set ordered by priority.
// Validators with equal priority run in registration order.
func (r *Registry) Register(v Validator) {
	r.validators = append(r.validators, v)
	slices.SortStableFunc(r.validators, func(a, b Validator) int {
		return a.Priority() - b.Priority()
	})
}

// Len returns the number of registered validators.
func (r *Registry) Len() int {
	return len(r.validators)
}

// Names returns the validator names in execution order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.validators))
	for _, v := range r.validators {
		names = append(names, v.Name())
	}
	return names
}

// Validate runs every validator against cfg.
func (r *Registry) Validate(cfg *domain.ProjectConfig) Result {
	var res Result
	for _, v := range r.validators {
		res.Issues = append(res.Issues, v.Validate(cfg)...)
	}
	return res
}

// Result collects the issues of one validation run.
type Result struct {
	Issues []Issue
}

// Warnings returns the warning issues.
func (r Result) Warnings() []Issue {
	return r.filter(SeverityWarning)
}

// Errors returns the error issues.
func (r Result) Errors() []Issue {
	return r.filter(SeverityError)
}

// Err joins the errors of all error issues, or returns nil.
func (r Result) Err() error {
	var errs []error
	for _, i := range r.Errors() {
		if i.Err != nil {
			errs = append(errs, i.Err)
			continue
		}
		errs = append(errs, errors.New(i.String()))
	}
	return errors.Join(errs...)
}

func (r Result) filter(s Severity) []Issue {
	var out []Issue
	for _, i := range r.Issues {
		if i.Severity == s {
			out = append(out, i)
		}
	}
	return out
}
