package validation

import (
	"fmt"
	"strings"
)

// Kind classifies a violation.
type Kind string

const (
	KindMissing    Kind = "missing"
	KindType       Kind = "type"
	KindUnknown    Kind = "unknown"
	KindConstraint Kind = "constraint"
)

// Violation is one way a payload fails to match a schema version.
type Violation struct {
	// Path is the dotted field path, e.g. model_details.owners.0.name.
	Path    string `json:"path,omitempty"`
	Pointer string `json:"pointer,omitempty"`
	Kind    Kind   `json:"kind"`
	Reason  string `json:"reason"`
}

func (v Violation) String() string {
	where := v.Path
	if where == "" {
		where = "<root>"
	}
	return fmt.Sprintf("%s: %s", where, v.Reason)
}

// ValidationError reports a payload that does not conform to a schema
// version. Callers may migrate and retry or reject the input.
type ValidationError struct {
	Version    string
	Violations []Violation
}

func (e *ValidationError) Error() string {
	if e == nil {
		return ""
	}
	if len(e.Violations) == 0 {
		return fmt.Sprintf("validation: payload does not conform to schema %s", e.Version)
	}
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		parts = append(parts, v.String())
	}
	return fmt.Sprintf("validation: payload does not conform to schema %s: %s", e.Version, strings.Join(parts, "; "))
}

// Paths lists the dotted paths of every violation, in order.
func (e *ValidationError) Paths() []string {
	if e == nil {
		return nil
	}
	out := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		out = append(out, v.Path)
	}
	return out
}

// Report summarises a validation run for CLI and JSON output.
type Report struct {
	Valid      bool        `json:"valid"`
	Version    string      `json:"version"`
	Violations []Violation `json:"violations,omitempty"`
}

// NewReport builds a Report for violations found against version.
func NewReport(version string, violations []Violation) Report {
	return Report{
		Valid:      len(violations) == 0,
		Version:    version,
		Violations: violations,
	}
}
