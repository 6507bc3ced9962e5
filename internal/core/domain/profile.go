package domain

import "slices"

// Profile is a resolved bundle of compiler settings for the release profile.
type Profile struct {
	Name         string
	OptLevel     string
	LTO          string
	Strip        bool
	CodegenUnits int
	Panic        string
	WasmOptFlags []string
	Hints        []string
}

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	p.WasmOptFlags = slices.Clone(p.WasmOptFlags)
	p.Hints = slices.Clone(p.Hints)
	return p
}

// Template is a named catalog entry carrying default profile settings.
type Template struct {
	Name         string
	Description  string
	Profile      Profile
	BindgenFlags []string
	Dependencies []string
	Notes        []string
}

// Clone returns a deep copy of the template.
func (t Template) Clone() Template {
	t.Profile = t.Profile.Clone()
	t.BindgenFlags = slices.Clone(t.BindgenFlags)
	t.Dependencies = slices.Clone(t.Dependencies)
	t.Notes = slices.Clone(t.Notes)
	return t
}

// ProfileOverrides holds user supplied replacements for template defaults.
// A nil field falls through to the template value.
type ProfileOverrides struct {
	OptLevel     *string
	LTO          *string
	Strip        *bool
	CodegenUnits *int
	Panic        *string
	WasmOptFlags *[]string
}

// IsZero reports whether no override is set.
func (o ProfileOverrides) IsZero() bool {
	return o.OptLevel == nil && o.LTO == nil && o.Strip == nil &&
		o.CodegenUnits == nil && o.Panic == nil && o.WasmOptFlags == nil
}

// ChangeRecord describes one manifest field changed during a mutation.
type ChangeRecord struct {
	Field   string
	Value   string
	Message string
}

// String returns the human-readable description of the change.
func (c ChangeRecord) String() string {
	return c.Message
}

// MutationResult is the result of applying a profile to a manifest.
type MutationResult struct {
	Changes []ChangeRecord
	// Backup is set only when the manifest was written.
	Backup *Backup
}

// Changed reports whether the mutation produced any change.
func (r MutationResult) Changed() bool {
	return len(r.Changes) > 0
}
