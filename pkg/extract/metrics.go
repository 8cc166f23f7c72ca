package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"path"

	"github.com/goliatone/go-modelcard/internal/loader"
	"github.com/goliatone/go-modelcard/pkg/cardpb"
	"github.com/goliatone/go-modelcard/pkg/payload"
)

// EvalMetrics reads an evaluation report and turns each entry into a
// performance metric. The report is a JSON or YAML object:
//
//	metrics:
//	  - metric: accuracy
//	    value: 0.91
//	    slice: sex_Female
//	    threshold: 0.5
//	    lower_bound: 0.89
//	    upper_bound: 0.93
//
// Numbers are carried as their decimal text.
type EvalMetrics struct {
	source  payload.Source
	loader  payload.Loader
	include []string
	exclude []string
}

// EvalOption configures EvalMetrics.
type EvalOption func(*EvalMetrics)

// WithInclude keeps only metrics whose name matches one of patterns
// (path.Match syntax).
func WithInclude(patterns ...string) EvalOption {
	return func(e *EvalMetrics) {
		e.include = append(e.include, patterns...)
	}
}

// WithExclude drops metrics whose name matches one of patterns. Exclusion
// wins over inclusion.
func WithExclude(patterns ...string) EvalOption {
	return func(e *EvalMetrics) {
		e.exclude = append(e.exclude, patterns...)
	}
}

// WithLoader sets the loader used to read the report.
func WithLoader(l payload.Loader) EvalOption {
	return func(e *EvalMetrics) {
		if l != nil {
			e.loader = l
		}
	}
}

// NewEvalMetrics returns an extractor reading the report at src.
func NewEvalMetrics(src payload.Source, opts ...EvalOption) (*EvalMetrics, error) {
	e := &EvalMetrics{source: src, loader: loader.New(payload.NewLoaderOptions())}
	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}
	if src == nil {
		return nil, fmt.Errorf("extract: eval metrics source is required")
	}
	for _, pattern := range append(append([]string{}, e.include...), e.exclude...) {
		if _, err := path.Match(pattern, ""); err != nil {
			return nil, fmt.Errorf("extract: bad metric pattern %q: %w", pattern, err)
		}
	}
	return e, nil
}

type metricRecord struct {
	Metric     string `json:"metric"`
	Value      any    `json:"value"`
	Slice      string `json:"slice"`
	Threshold  any    `json:"threshold"`
	LowerBound any    `json:"lower_bound"`
	UpperBound any    `json:"upper_bound"`
}

type metricsReport struct {
	Metrics []metricRecord `json:"metrics"`
}

func (e *EvalMetrics) Extract(ctx context.Context) (*cardpb.ModelCard, error) {
	doc, err := e.loader.Load(ctx, e.source)
	if err != nil {
		return nil, fmt.Errorf("extract: load eval report: %w", err)
	}
	obj, _, err := doc.Decode()
	if err != nil {
		return nil, fmt.Errorf("extract: eval report %s: %w", doc.Location(), err)
	}

	// Decode leaves numbers as json.Number, which marshals back to the same
	// literal, so the UseNumber pass below sees the report's own digits.
	normalized, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("extract: eval report %s: %w", doc.Location(), err)
	}
	dec := json.NewDecoder(bytes.NewReader(normalized))
	dec.UseNumber()
	var report metricsReport
	if err := dec.Decode(&report); err != nil {
		return nil, fmt.Errorf("extract: eval report %s: %w", doc.Location(), err)
	}

	metrics := []*cardpb.PerformanceMetric{}
	for i, rec := range report.Metrics {
		if rec.Metric == "" {
			return nil, fmt.Errorf("extract: eval report %s: metrics.%d: metric name is required", doc.Location(), i)
		}
		if !e.selected(rec.Metric) {
			continue
		}
		metric, err := rec.toProto()
		if err != nil {
			return nil, fmt.Errorf("extract: eval report %s: metrics.%d: %w", doc.Location(), i, err)
		}
		metrics = append(metrics, metric)
	}

	return &cardpb.ModelCard{QuantitativeAnalysis: &cardpb.QuantitativeAnalysis{PerformanceMetrics: metrics}}, nil
}

func (e *EvalMetrics) selected(name string) bool {
	for _, pattern := range e.exclude {
		if ok, _ := path.Match(pattern, name); ok {
			return false
		}
	}
	if len(e.include) == 0 {
		return true
	}
	for _, pattern := range e.include {
		if ok, _ := path.Match(pattern, name); ok {
			return true
		}
	}
	return false
}

func (r metricRecord) toProto() (*cardpb.PerformanceMetric, error) {
	value, err := decimal("value", r.Value)
	if err != nil {
		return nil, err
	}
	if value == nil {
		return nil, fmt.Errorf("value is required")
	}
	threshold, err := decimal("threshold", r.Threshold)
	if err != nil {
		return nil, err
	}
	lower, err := decimal("lower_bound", r.LowerBound)
	if err != nil {
		return nil, err
	}
	upper, err := decimal("upper_bound", r.UpperBound)
	if err != nil {
		return nil, err
	}

	metric := &cardpb.PerformanceMetric{
		Type:      cardpb.String(r.Metric),
		Value:     value,
		Threshold: threshold,
	}
	if r.Slice != "" {
		metric.Slice = cardpb.String(r.Slice)
	}
	switch {
	case lower != nil && upper != nil:
		metric.ConfidenceInterval = &cardpb.ConfidenceInterval{LowerBound: lower, UpperBound: upper}
	case lower != nil || upper != nil:
		return nil, fmt.Errorf("confidence interval needs both lower_bound and upper_bound")
	}
	return metric, nil
}

func decimal(field string, v any) (*string, error) {
	switch value := v.(type) {
	case nil:
		return nil, nil
	case json.Number:
		return cardpb.String(value.String()), nil
	case string:
		return cardpb.String(value), nil
	default:
		return nil, fmt.Errorf("%s: expected a number or string, got %T", field, v)
	}
}
