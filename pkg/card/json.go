package card

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-modelcard/pkg/schema"
	"github.com/goliatone/go-modelcard/pkg/validation"
)

// JSONOption configures JSON encoding and decoding.
type JSONOption func(*jsonConfig)

type jsonConfig struct {
	withVersion bool
	indent      string
	validator   *validation.Validator
}

// WithSchemaVersion tags encoded output with the current schema version, the
// form used for persisted payloads.
func WithSchemaVersion() JSONOption {
	return func(cfg *jsonConfig) {
		cfg.withVersion = true
	}
}

// WithIndent pretty-prints encoded output using indent per level.
func WithIndent(indent string) JSONOption {
	return func(cfg *jsonConfig) {
		cfg.indent = indent
	}
}

// WithValidator sets the validator used when decoding. It is always run in
// strict mode against the current schema.
func WithValidator(v *validation.Validator) JSONOption {
	return func(cfg *jsonConfig) {
		cfg.validator = v
	}
}

func newJSONConfig(opts []JSONOption) jsonConfig {
	var cfg jsonConfig
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	if cfg.validator == nil {
		cfg.validator = validation.New()
	}
	cfg.validator = cfg.validator.Strict(true)
	return cfg
}

type versionedCard struct {
	SchemaVersion string `json:"schema_version"`
	*ModelCard
}

// ToJSON serialises the set fields of the record. Unset scalars and absent
// sections never produce a key; present-but-empty collections encode as [].
func (c *ModelCard) ToJSON(opts ...JSONOption) ([]byte, error) {
	cfg := newJSONConfig(opts)
	if c == nil {
		c = New()
	}

	var value any = c
	if cfg.withVersion {
		value = versionedCard{SchemaVersion: schema.Current, ModelCard: c}
	}

	var (
		out []byte
		err error
	)
	if cfg.indent != "" {
		out, err = json.MarshalIndent(value, "", cfg.indent)
	} else {
		out, err = json.Marshal(value)
	}
	if err != nil {
		return nil, &ConversionError{Reason: "encode json", Err: err}
	}
	return out, nil
}

// FromJSON builds a record from a payload in the current schema. The payload
// is validated strictly first; violations are returned as a
// *validation.ValidationError. Payloads declaring an older schema version must
// be migrated before calling FromJSON.
func FromJSON(raw []byte, opts ...JSONOption) (*ModelCard, error) {
	cfg := newJSONConfig(opts)
	return decodeJSON(raw, cfg)
}

// MergeFromJSON decodes raw like FromJSON and merges it into the record with
// MergeFromProto semantics.
func (c *ModelCard) MergeFromJSON(raw []byte, opts ...JSONOption) error {
	if c == nil {
		return ErrNilCard
	}
	incoming, err := decodeJSON(raw, newJSONConfig(opts))
	if err != nil {
		return err
	}
	return c.MergeFromProto(incoming.ToProto())
}

func decodeJSON(raw []byte, cfg jsonConfig) (*ModelCard, error) {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, &ConversionError{Reason: "payload is not valid JSON", Err: err}
	}
	if obj, ok := doc.(map[string]any); ok {
		if declared, present := obj[schema.VersionKey]; present {
			if version, isString := declared.(string); isString && version != schema.Current {
				return nil, &validation.ValidationError{
					Version: schema.Current,
					Violations: []validation.Violation{{
						Path:    schema.VersionKey,
						Pointer: "/" + schema.VersionKey,
						Kind:    validation.KindConstraint,
						Reason:  fmt.Sprintf("payload declares schema %s; migrate it to %s first", version, schema.Current),
					}},
				}
			}
		}
	}
	if err := cfg.validator.CheckValue(doc, schema.Current); err != nil {
		return nil, err
	}

	var in struct {
		SchemaVersion Opt[string] `json:"schema_version"`
		ModelCard
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return nil, &ConversionError{Reason: "decode json", Err: err}
	}
	out := in.ModelCard
	return &out, nil
}
