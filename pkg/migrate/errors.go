package migrate

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-modelcard/pkg/schema"
	"github.com/goliatone/go-modelcard/pkg/validation"
)

// MigrationError reports a payload that cannot be brought to the current
// schema version. It is fatal to the conversion attempt.
//
// CurrentViolations is set for payloads without a version tag: they are the
// strict violations against Current that made the migrator treat the payload
// as the oldest version.
type MigrationError struct {
	From       string
	To         string
	Path       string
	Reason     string
	Violations []validation.Violation
	Err        error

	Current           string
	CurrentViolations []validation.Violation
}

func (e *MigrationError) Error() string {
	if e == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("migrate: ")
	switch {
	case e.From != "" && e.To != "":
		fmt.Fprintf(&b, "%s -> %s", e.From, e.To)
	case e.From != "":
		b.WriteString(e.From)
	default:
		b.WriteString("payload")
	}
	if e.Path != "" {
		fmt.Fprintf(&b, " at %s", e.Path)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	for i, v := range e.Violations {
		if i == 0 {
			b.WriteString(": ")
		} else {
			b.WriteString("; ")
		}
		b.WriteString(v.String())
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	for i, v := range e.CurrentViolations {
		if i == 0 {
			fmt.Fprintf(&b, " (no %s; as %s: ", schema.VersionKey, e.Current)
		} else {
			b.WriteString("; ")
		}
		b.WriteString(v.String())
	}
	if len(e.CurrentViolations) > 0 {
		b.WriteString(")")
	}
	return b.String()
}

func (e *MigrationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// FieldError is returned by step transforms for a value they cannot carry
// forward. The migrator lifts it into a MigrationError.
type FieldError struct {
	Path   string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Reason)
}

func fieldErrorf(path, format string, args ...any) *FieldError {
	return &FieldError{Path: path, Reason: fmt.Sprintf(format, args...)}
}
