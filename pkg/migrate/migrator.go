package migrate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/goliatone/go-modelcard/pkg/schema"
	"github.com/goliatone/go-modelcard/pkg/validation"
)

// Step transforms a payload from one schema version to the next. Apply
// receives a private copy of the payload and may modify it in place.
type Step struct {
	From  string
	To    string
	Apply func(doc map[string]any) (map[string]any, error)
}

// DefaultSteps returns the built-in transforms, oldest first.
func DefaultSteps() []Step {
	return []Step{
		{From: "0.0.1", To: "0.0.2", Apply: upgradeV001},
	}
}

// Migrator brings payloads written against older schema versions to the
// current one by chaining pairwise steps. It holds no mutable state and is
// safe for concurrent use.
type Migrator struct {
	steps     []Step
	validator *validation.Validator
	logger    hclog.Logger
}

// Option configures a Migrator.
type Option func(*Migrator)

// WithSteps replaces the built-in steps.
func WithSteps(steps ...Step) Option {
	return func(m *Migrator) {
		m.steps = append([]Step(nil), steps...)
	}
}

// WithValidator sets the validator used to check step inputs and outputs.
// Its registry also defines the current version.
func WithValidator(v *validation.Validator) Option {
	return func(m *Migrator) {
		if v != nil {
			m.validator = v
		}
	}
}

// WithLogger traces step selection and application.
func WithLogger(logger hclog.Logger) Option {
	return func(m *Migrator) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New constructs a Migrator.
func New(opts ...Option) *Migrator {
	m := &Migrator{
		steps:     DefaultSteps(),
		validator: validation.New(),
		logger:    hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Current returns the version payloads are migrated to.
func (m *Migrator) Current() string {
	return m.validator.Registry().Latest()
}

// Plan returns the shortest chain of steps from version to the current
// version. A payload already at the current version needs no steps.
func (m *Migrator) Plan(from string) ([]Step, error) {
	reg := m.validator.Registry()
	target := reg.Latest()
	if from == target {
		return nil, nil
	}
	if cmp, err := reg.Compare(from, target); err == nil && cmp > 0 {
		return nil, &MigrationError{From: from, To: target, Reason: "version is newer than the current schema; downgrades are not supported"}
	}
	if !reg.Has(from) {
		return nil, &MigrationError{From: from, To: target, Reason: "unknown schema version", Err: schema.ErrUnknownVersion}
	}

	// Breadth-first search over versions gives the minimal chain.
	prev := map[string]int{from: -1}
	queue := []string{from}
	for len(queue) > 0 && !hasKey(prev, target) {
		cur := queue[0]
		queue = queue[1:]
		for i, step := range m.steps {
			if step.From != cur || hasKey(prev, step.To) {
				continue
			}
			prev[step.To] = i
			queue = append(queue, step.To)
		}
	}
	if !hasKey(prev, target) {
		return nil, &MigrationError{From: from, To: target, Reason: "no migration path"}
	}

	var chain []Step
	for v := target; v != from; {
		step := m.steps[prev[v]]
		chain = append([]Step{step}, chain...)
		v = step.From
	}
	return chain, nil
}

func hasKey(m map[string]int, k string) bool {
	_, ok := m[k]
	return ok
}

// Detect returns the schema version doc is written against. A payload without
// a version tag is taken to be current when it validates strictly against the
// current schema, and the oldest known version otherwise.
func (m *Migrator) Detect(doc map[string]any) (string, error) {
	version, _, err := m.detect(doc)
	return version, err
}

// detect also returns the current-schema violations behind a fallback to
// the oldest version.
func (m *Migrator) detect(doc map[string]any) (string, []validation.Violation, error) {
	reg := m.validator.Registry()
	declared, ok := doc[schema.VersionKey]
	if ok {
		version, isString := declared.(string)
		if !isString || version == "" {
			return "", nil, &MigrationError{Path: schema.VersionKey, Reason: fmt.Sprintf("schema version must be a non-empty string, got %v", declared)}
		}
		return version, nil, nil
	}

	violations, err := m.validator.Strict(true).ValidateValue(map[string]any(doc), reg.Latest())
	if err != nil {
		return "", nil, &MigrationError{Reason: "detect schema version", Err: err}
	}
	if len(violations) == 0 {
		return reg.Latest(), nil, nil
	}
	m.logger.Debug("unversioned payload does not match current schema", "current", reg.Latest(), "violations", len(violations))
	return reg.Versions()[0], violations, nil
}

// Migrate returns a copy of doc migrated to the current version together with
// the version doc was written against. doc itself is never modified. When doc
// has no version tag and its migration fails, the error also lists why doc
// was not accepted as current.
func (m *Migrator) Migrate(doc map[string]any) (map[string]any, string, error) {
	if doc == nil {
		return nil, "", &MigrationError{Reason: "payload is nil"}
	}
	from, rejected, err := m.detect(doc)
	if err != nil {
		return nil, "", err
	}
	out, err := m.migrateFrom(doc, from)
	if err != nil && len(rejected) > 0 {
		var merr *MigrationError
		if errors.As(err, &merr) {
			merr.Current = m.Current()
			merr.CurrentViolations = rejected
		}
	}
	return out, from, err
}

func (m *Migrator) migrateFrom(doc map[string]any, from string) (map[string]any, error) {
	chain, err := m.Plan(from)
	if err != nil {
		return nil, err
	}

	out := deepCopy(doc).(map[string]any)
	if len(chain) == 0 {
		m.logger.Debug("payload already at current schema", "version", from)
		return out, nil
	}

	m.logger.Debug("migrating payload", "from", from, "to", m.Current(), "steps", len(chain))
	lenient := m.validator.Strict(false)
	strict := m.validator.Strict(true)
	for _, step := range chain {
		out, err = m.apply(step, out, lenient, strict)
		if err != nil {
			return nil, err
		}
		m.logger.Trace("applied migration step", "from", step.From, "to", step.To)
	}
	return out, nil
}

func (m *Migrator) apply(step Step, doc map[string]any, lenient, strict *validation.Validator) (map[string]any, error) {
	violations, err := lenient.ValidateValue(doc, step.From)
	if err != nil {
		return nil, &MigrationError{From: step.From, To: step.To, Reason: "validate input", Err: err}
	}
	if len(violations) > 0 {
		return nil, &MigrationError{From: step.From, To: step.To, Reason: "payload does not match the source schema", Violations: violations}
	}

	next, err := step.Apply(doc)
	if err != nil {
		var fieldErr *FieldError
		if errors.As(err, &fieldErr) {
			return nil, &MigrationError{From: step.From, To: step.To, Path: fieldErr.Path, Reason: fieldErr.Reason, Err: err}
		}
		return nil, &MigrationError{From: step.From, To: step.To, Err: err}
	}
	if next == nil {
		return nil, &MigrationError{From: step.From, To: step.To, Reason: "step returned no payload"}
	}

	violations, err = strict.ValidateValue(next, step.To)
	if err != nil {
		return nil, &MigrationError{From: step.From, To: step.To, Reason: "validate output", Err: err}
	}
	if len(violations) > 0 {
		return nil, &MigrationError{From: step.From, To: step.To, Reason: "step produced an invalid payload", Violations: violations}
	}
	return next, nil
}

// MigrateJSON decodes raw, migrates it and re-encodes the result. Numbers
// are decoded as json.Number so their digits reach the migrated strings
// unchanged.
func (m *Migrator) MigrateJSON(raw []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, &MigrationError{Reason: "payload is not a JSON object", Err: err}
	}
	if doc == nil {
		return nil, &MigrationError{Reason: "payload is not a JSON object"}
	}
	out, _, err := m.Migrate(doc)
	if err != nil {
		return nil, err
	}
	encoded, err := json.Marshal(out)
	if err != nil {
		return nil, &MigrationError{Reason: "encode migrated payload", Err: err}
	}
	return encoded, nil
}

func deepCopy(v any) any {
	switch value := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(value))
		for k, child := range value {
			out[k] = deepCopy(child)
		}
		return out
	case []any:
		out := make([]any, len(value))
		for i, child := range value {
			out[i] = deepCopy(child)
		}
		return out
	default:
		return value
	}
}
