package card

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-modelcard/pkg/cardpb"
)

func TestProtoRoundTrip(t *testing.T) {
	want := populated()

	pb := want.ToProto()
	raw, err := pb.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	decoded := &cardpb.ModelCard{}
	if err := decoded.Unmarshal(raw); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	got := New()
	if err := got.CopyFromProto(decoded); err != nil {
		t.Fatalf("CopyFromProto: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestToProtoOmitsUnsetFields(t *testing.T) {
	c := New()
	c.EnsureModelDetails().Name.Set("cats_vs_dogs")

	want := &cardpb.ModelCard{ModelDetails: &cardpb.ModelDetails{Name: cardpb.String("cats_vs_dogs")}}
	if diff := cmp.Diff(want, c.ToProto()); diff != "" {
		t.Fatalf("proto mismatch (-want +got):\n%s", diff)
	}

	var nilCard *ModelCard
	if diff := cmp.Diff(&cardpb.ModelCard{}, nilCard.ToProto()); diff != "" {
		t.Fatalf("nil record proto mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFromProtoAppendsCollections(t *testing.T) {
	c := New()
	c.EnsureQuantitativeAnalysis().PerformanceMetrics = []PerformanceMetric{
		{Type: Some("accuracy"), Value: Some("0.9")},
	}
	fragment := &cardpb.ModelCard{
		QuantitativeAnalysis: &cardpb.QuantitativeAnalysis{
			PerformanceMetrics: []*cardpb.PerformanceMetric{
				{Type: cardpb.String("accuracy"), Value: cardpb.String("0.9")},
			},
		},
	}

	if err := c.MergeFromProto(fragment); err != nil {
		t.Fatalf("MergeFromProto: %v", err)
	}
	want := []PerformanceMetric{
		{Type: Some("accuracy"), Value: Some("0.9")},
		{Type: Some("accuracy"), Value: Some("0.9")},
	}
	if diff := cmp.Diff(want, c.QuantitativeAnalysis.PerformanceMetrics); diff != "" {
		t.Fatalf("metrics mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeFromProtoKeepsAbsentFields(t *testing.T) {
	c := New()
	d := c.EnsureModelDetails()
	d.Name.Set("old")
	d.Overview.Set("kept")
	d.Version = &Version{Name: Some("v1")}

	fragment := &cardpb.ModelCard{
		ModelDetails: &cardpb.ModelDetails{
			Name:    cardpb.String("new"),
			Version: &cardpb.Version{Date: cardpb.String("2024-01-01")},
		},
		Considerations: &cardpb.Considerations{Users: []*cardpb.Consideration{}},
	}
	if err := c.MergeFromProto(fragment); err != nil {
		t.Fatalf("MergeFromProto: %v", err)
	}

	want := &ModelCard{
		ModelDetails: &ModelDetails{
			Name:     Some("new"),
			Overview: Some("kept"),
			Version:  &Version{Name: Some("v1"), Date: Some("2024-01-01")},
		},
		Considerations: &Considerations{Users: []Consideration{}},
	}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("merge mismatch (-want +got):\n%s", diff)
	}
}

func TestCopyFromProtoReplaces(t *testing.T) {
	c := populated()
	fragment := &cardpb.ModelCard{
		ModelDetails: &cardpb.ModelDetails{Name: cardpb.String("replacement")},
	}
	if err := c.CopyFromProto(fragment); err != nil {
		t.Fatalf("CopyFromProto: %v", err)
	}
	want := &ModelCard{ModelDetails: &ModelDetails{Name: Some("replacement")}}
	if diff := cmp.Diff(want, c); diff != "" {
		t.Fatalf("copy mismatch (-want +got):\n%s", diff)
	}

	if err := c.CopyFromProto(nil); err != nil {
		t.Fatalf("CopyFromProto(nil): %v", err)
	}
	if !c.IsEmpty() {
		t.Fatalf("copying nil should clear the record")
	}
}

func TestMergeFromProtoConversionErrors(t *testing.T) {
	tests := []struct {
		name     string
		fragment *cardpb.ModelCard
		path     string
	}{
		{
			name: "confidence interval without lower bound",
			fragment: &cardpb.ModelCard{QuantitativeAnalysis: &cardpb.QuantitativeAnalysis{
				PerformanceMetrics: []*cardpb.PerformanceMetric{{
					Type:               cardpb.String("auc"),
					Value:              cardpb.String("0.7"),
					ConfidenceInterval: &cardpb.ConfidenceInterval{UpperBound: cardpb.String("0.8")},
				}},
			}},
			path: "quantitative_analysis.performance_metrics.0.confidence_interval.lower_bound",
		},
		{
			name: "metric without value",
			fragment: &cardpb.ModelCard{QuantitativeAnalysis: &cardpb.QuantitativeAnalysis{
				PerformanceMetrics: []*cardpb.PerformanceMetric{{Type: cardpb.String("auc")}},
			}},
			path: "quantitative_analysis.performance_metrics.0.value",
		},
		{
			name: "format map entry without key",
			fragment: &cardpb.ModelCard{ModelParameters: &cardpb.ModelParameters{
				OutputFormatMap: []*cardpb.KeyVal{{Value: cardpb.String("float")}},
			}},
			path: "model_parameters.output_format_map.0.key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			c.EnsureQuantitativeAnalysis().PerformanceMetrics = []PerformanceMetric{
				{Type: Some("accuracy"), Value: Some("0.9")},
			}
			before := c.Clone()

			err := c.MergeFromProto(tt.fragment)
			var convErr *ConversionError
			if !errors.As(err, &convErr) {
				t.Fatalf("err = %v, want *ConversionError", err)
			}
			if convErr.Path != tt.path {
				t.Fatalf("path = %q, want %q", convErr.Path, tt.path)
			}
			if !c.Equal(before) {
				t.Fatalf("record changed after failed merge")
			}
		})
	}
}

func TestMergeFromProtoChecksOnlyTheFragment(t *testing.T) {
	c := New()
	c.EnsureQuantitativeAnalysis().PerformanceMetrics = []PerformanceMetric{{Type: Some("accuracy")}}

	fragment := &cardpb.ModelCard{ModelDetails: &cardpb.ModelDetails{Name: cardpb.String("census")}}
	if err := c.MergeFromProto(fragment); err != nil {
		t.Fatalf("MergeFromProto: %v", err)
	}
	if got := c.ModelDetails.Name.Value(); got != "census" {
		t.Fatalf("name = %q", got)
	}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name  string
		build func(c *ModelCard)
		path  string
	}{
		{
			name:  "complete",
			build: func(c *ModelCard) { c.EnsureModelDetails().Name = Some("census") },
		},
		{
			name: "metric without value",
			build: func(c *ModelCard) {
				c.EnsureQuantitativeAnalysis().PerformanceMetrics = []PerformanceMetric{
					{Type: Some("accuracy"), Value: Some("0.9")},
					{Type: Some("auc")},
				}
			},
			path: "quantitative_analysis.performance_metrics.1.value",
		},
		{
			name: "confidence interval without upper bound",
			build: func(c *ModelCard) {
				c.EnsureQuantitativeAnalysis().PerformanceMetrics = []PerformanceMetric{{
					Type:               Some("auc"),
					Value:              Some("0.7"),
					ConfidenceInterval: &ConfidenceInterval{LowerBound: Some("0.6")},
				}}
			},
			path: "quantitative_analysis.performance_metrics.0.confidence_interval.upper_bound",
		},
		{
			name: "format map entry without key",
			build: func(c *ModelCard) {
				c.EnsureModelParameters().InputFormatMap = []KeyVal{{Value: Some("string")}}
			},
			path: "model_parameters.input_format_map.0.key",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New()
			tt.build(c)
			err := c.Check()
			if tt.path == "" {
				if err != nil {
					t.Fatalf("Check: %v", err)
				}
				return
			}
			var convErr *ConversionError
			if !errors.As(err, &convErr) || convErr.Path != tt.path {
				t.Fatalf("err = %v, want ConversionError at %s", err, tt.path)
			}
		})
	}

	var nilCard *ModelCard
	if err := nilCard.Check(); !errors.Is(err, ErrNilCard) {
		t.Fatalf("err = %v, want ErrNilCard", err)
	}
}

func TestProtoMergerInterface(t *testing.T) {
	var merger ProtoMerger = New()
	if err := merger.MergeFromProto(&cardpb.ModelCard{}); err != nil {
		t.Fatalf("MergeFromProto: %v", err)
	}

	var nilCard *ModelCard
	if err := nilCard.MergeFromProto(&cardpb.ModelCard{}); !errors.Is(err, ErrNilCard) {
		t.Fatalf("err = %v, want ErrNilCard", err)
	}
}

func TestFromProto(t *testing.T) {
	got, err := FromProto(populated().ToProto())
	if err != nil {
		t.Fatalf("FromProto: %v", err)
	}
	if !got.Equal(populated()) {
		t.Fatalf("FromProto did not reproduce the record")
	}
}
