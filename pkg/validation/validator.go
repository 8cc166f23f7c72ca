package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-modelcard/pkg/schema"
)

// Validator checks payloads against a schema version held by a registry.
// It carries no mutable state and is safe for concurrent use.
type Validator struct {
	registry *schema.Registry
	strict   bool
}

// Option configures a Validator.
type Option func(*Validator)

// WithRegistry selects the schema registry. Defaults to schema.Default().
func WithRegistry(reg *schema.Registry) Option {
	return func(v *Validator) {
		if reg != nil {
			v.registry = reg
		}
	}
}

// WithStrict reports properties the schema version does not define.
func WithStrict(strict bool) Option {
	return func(v *Validator) {
		v.strict = strict
	}
}

// New constructs a Validator.
func New(opts ...Option) *Validator {
	v := &Validator{}
	for _, opt := range opts {
		if opt != nil {
			opt(v)
		}
	}
	if v.registry == nil {
		v.registry = schema.Default()
	}
	return v
}

// Registry returns the registry backing the validator.
func (v *Validator) Registry() *schema.Registry {
	return v.registry
}

// Strict returns a copy of the validator with strict mode set to enabled.
func (v *Validator) Strict(enabled bool) *Validator {
	out := *v
	out.strict = enabled
	return &out
}

// IsStrict reports whether unknown properties are violations.
func (v *Validator) IsStrict() bool {
	return v.strict
}

// Validate parses raw as JSON and checks it against version. An empty version
// selects the latest. It returns an error only when raw is not well-formed
// JSON or the version is unknown; shape problems are returned as violations.
func (v *Validator) Validate(raw []byte, version string) ([]Violation, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("validation: payload is not valid JSON: %w", err)
	}
	return v.ValidateValue(doc, version)
}

// ValidateValue checks an already decoded JSON value (maps, slices, float64
// or json.Number, string, bool, nil) against version.
func (v *Validator) ValidateValue(doc any, version string) ([]Violation, error) {
	s, err := v.registry.Lookup(version)
	if err != nil {
		return nil, err
	}

	var out []Violation
	if verr := s.Root.VisitJSON(doc, openapi3.MultiErrors()); verr != nil {
		collect(verr, &out)
	}
	if v.strict {
		unknownProperties(s.Root, doc, nil, s.Version, &out)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Reason < out[j].Reason
	})
	return dedupe(out), nil
}

// Check validates raw and returns a *ValidationError when violations exist.
func (v *Validator) Check(raw []byte, version string) error {
	violations, err := v.Validate(raw, version)
	if err != nil {
		return err
	}
	return v.asError(violations, version)
}

// CheckValue is Check for decoded values.
func (v *Validator) CheckValue(doc any, version string) error {
	violations, err := v.ValidateValue(doc, version)
	if err != nil {
		return err
	}
	return v.asError(violations, version)
}

func (v *Validator) asError(violations []Violation, version string) error {
	if len(violations) == 0 {
		return nil
	}
	if version == "" {
		version = v.registry.Latest()
	}
	return &ValidationError{Version: version, Violations: violations}
}

func collect(err error, out *[]Violation) {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			collect(inner, out)
		}
		return
	case *openapi3.SchemaError:
		*out = append(*out, violationFromSchemaError(e))
		return
	}

	var se *openapi3.SchemaError
	if errors.As(err, &se) {
		*out = append(*out, violationFromSchemaError(se))
		return
	}
	*out = append(*out, Violation{Kind: KindConstraint, Reason: strings.TrimSpace(err.Error())})
}

func violationFromSchemaError(e *openapi3.SchemaError) Violation {
	segments := e.JSONPointer()
	kind := KindConstraint
	switch e.SchemaField {
	case "required":
		kind = KindMissing
	case "type", "nullable":
		kind = KindType
	}
	reason := strings.TrimSpace(e.Reason)
	if reason == "" {
		reason = "value does not satisfy " + e.SchemaField
	}
	return Violation{
		Path:    fieldPath(segments),
		Pointer: jsonPointer(segments),
		Kind:    kind,
		Reason:  reason,
	}
}

// unknownProperties walks doc alongside s and records object keys s does not
// declare. Objects without declared properties are open and are not walked.
func unknownProperties(s *openapi3.Schema, doc any, at []string, version string, out *[]Violation) {
	if s == nil {
		return
	}
	switch value := doc.(type) {
	case map[string]any:
		if len(s.Properties) == 0 {
			return
		}
		for key, child := range value {
			path := appendSegment(at, key)
			prop := s.Properties[key]
			if prop == nil || prop.Value == nil {
				*out = append(*out, Violation{
					Path:    fieldPath(path),
					Pointer: jsonPointer(path),
					Kind:    KindUnknown,
					Reason:  fmt.Sprintf("property %q is not defined in schema %s", key, version),
				})
				continue
			}
			unknownProperties(prop.Value, child, path, version, out)
		}
	case []any:
		if s.Items == nil || s.Items.Value == nil {
			return
		}
		for i, item := range value {
			unknownProperties(s.Items.Value, item, appendSegment(at, strconv.Itoa(i)), version, out)
		}
	}
}

func appendSegment(at []string, segment string) []string {
	out := make([]string, len(at), len(at)+1)
	copy(out, at)
	return append(out, segment)
}

func fieldPath(segments []string) string {
	return strings.Join(segments, ".")
}

func jsonPointer(segments []string) string {
	if len(segments) == 0 {
		return "/"
	}
	var b strings.Builder
	for _, s := range segments {
		b.WriteByte('/')
		s = strings.ReplaceAll(s, "~", "~0")
		b.WriteString(strings.ReplaceAll(s, "/", "~1"))
	}
	return b.String()
}

func dedupe(in []Violation) []Violation {
	if len(in) < 2 {
		return in
	}
	out := in[:1]
	for _, v := range in[1:] {
		if v != out[len(out)-1] {
			out = append(out, v)
		}
	}
	return out
}
