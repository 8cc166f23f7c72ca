package extract

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-modelcard/pkg/cardpb"
	"github.com/goliatone/go-modelcard/pkg/graphics"
	"github.com/goliatone/go-modelcard/pkg/payload"
)

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestCollectMergesInOrder(t *testing.T) {
	first := Static(&cardpb.ModelCard{ModelDetails: &cardpb.ModelDetails{
		Name:   cardpb.String("first"),
		Owners: []*cardpb.Owner{{Name: cardpb.String("a")}},
	}})
	second := Static(&cardpb.ModelCard{ModelDetails: &cardpb.ModelDetails{
		Name:   cardpb.String("second"),
		Owners: []*cardpb.Owner{{Name: cardpb.String("b")}},
	}})

	got, err := Collect(context.Background(), first, nil, ModelPath("/models/census"), second)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	want := &cardpb.ModelCard{ModelDetails: &cardpb.ModelDetails{
		Name:   cardpb.String("second"),
		Owners: []*cardpb.Owner{{Name: cardpb.String("a")}, {Name: cardpb.String("b")}},
		Path:   cardpb.String("/models/census"),
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("collected card mismatch (-want +got):\n%s", diff)
	}
}

func TestStaticReturnsCopies(t *testing.T) {
	fragment := &cardpb.ModelCard{ModelDetails: &cardpb.ModelDetails{Name: cardpb.String("m")}}
	ex := Static(fragment)
	*fragment.ModelDetails.Name = "mutated"

	got, err := ex.Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.GetModelDetails().GetName() != "m" {
		t.Fatalf("static fragment aliased its input: %q", got.GetModelDetails().GetName())
	}
	*got.ModelDetails.Name = "changed"
	again, _ := ex.Extract(context.Background())
	if again.GetModelDetails().GetName() != "m" {
		t.Fatalf("static fragment aliased a previous result")
	}
}

func TestCollectStopsOnError(t *testing.T) {
	boom := errors.New("boom")
	_, err := Collect(context.Background(), ModelPath("x"), Func(func(context.Context) (*cardpb.ModelCard, error) {
		return nil, boom
	}))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if _, err := Collect(context.Background(), ModelPath("")); err == nil {
		t.Fatalf("expected error for empty model path")
	}
}

func TestEvalMetricsYAML(t *testing.T) {
	path := writeFile(t, "eval.yaml", []byte(`metrics:
  - metric: accuracy
    value: 0.91
    slice: sex_Female
    lower_bound: 0.89
    upper_bound: 0.93
  - metric: auc
    value: "0.95"
    threshold: 0.5
  - metric: loss
    value: 0.2
`))

	ex, err := NewEvalMetrics(payload.SourceFromFile(path), WithExclude("loss"))
	if err != nil {
		t.Fatalf("NewEvalMetrics: %v", err)
	}
	got, err := ex.Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := &cardpb.ModelCard{QuantitativeAnalysis: &cardpb.QuantitativeAnalysis{
		PerformanceMetrics: []*cardpb.PerformanceMetric{
			{
				Type:  cardpb.String("accuracy"),
				Value: cardpb.String("0.91"),
				Slice: cardpb.String("sex_Female"),
				ConfidenceInterval: &cardpb.ConfidenceInterval{
					LowerBound: cardpb.String("0.89"),
					UpperBound: cardpb.String("0.93"),
				},
			},
			{Type: cardpb.String("auc"), Value: cardpb.String("0.95"), Threshold: cardpb.String("0.5")},
		},
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("metrics mismatch (-want +got):\n%s", diff)
	}
}

func TestEvalMetricsKeepDigits(t *testing.T) {
	reports := map[string]string{
		"eval.json": `{"metrics":[{"metric":"accuracy","value":0.910,"lower_bound":12345678901234567891,"upper_bound":1e21}]}`,
		"eval.yaml": "metrics:\n  - metric: accuracy\n    value: 0.910\n    lower_bound: 12345678901234567891\n    upper_bound: 1e21\n",
	}
	want := []*cardpb.PerformanceMetric{{
		Type:  cardpb.String("accuracy"),
		Value: cardpb.String("0.910"),
		ConfidenceInterval: &cardpb.ConfidenceInterval{
			LowerBound: cardpb.String("12345678901234567891"),
			UpperBound: cardpb.String("1e21"),
		},
	}}
	for name, body := range reports {
		t.Run(name, func(t *testing.T) {
			ex, err := NewEvalMetrics(payload.SourceFromFile(writeFile(t, name, []byte(body))))
			if err != nil {
				t.Fatalf("NewEvalMetrics: %v", err)
			}
			got, err := ex.Extract(context.Background())
			if err != nil {
				t.Fatalf("Extract: %v", err)
			}
			if diff := cmp.Diff(want, got.GetQuantitativeAnalysis().GetPerformanceMetrics()); diff != "" {
				t.Fatalf("metrics mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEvalMetricsIncludePatterns(t *testing.T) {
	path := writeFile(t, "eval.json", []byte(`{"metrics":[
  {"metric":"accuracy","value":0.9},
  {"metric":"auc_roc","value":0.8},
  {"metric":"auc_pr","value":0.7}
]}`))

	ex, err := NewEvalMetrics(payload.SourceFromFile(path), WithInclude("auc_*"), WithExclude("auc_pr"))
	if err != nil {
		t.Fatalf("NewEvalMetrics: %v", err)
	}
	got, err := ex.Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	var names []string
	for _, m := range got.GetQuantitativeAnalysis().GetPerformanceMetrics() {
		names = append(names, m.GetType())
	}
	if diff := cmp.Diff([]string{"auc_roc"}, names); diff != "" {
		t.Fatalf("selected metrics mismatch (-want +got):\n%s", diff)
	}
}

func TestEvalMetricsErrors(t *testing.T) {
	tests := map[string]string{
		"missing value":    `{"metrics":[{"metric":"acc"}]}`,
		"missing name":     `{"metrics":[{"value":1}]}`,
		"half interval":    `{"metrics":[{"metric":"acc","value":1,"lower_bound":0.5}]}`,
		"non-scalar":       `{"metrics":[{"metric":"acc","value":[1]}]}`,
		"not an object":    `[1, 2]`,
		"metrics not list": `{"metrics":{"metric":"acc"}}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			ex, err := NewEvalMetrics(payload.SourceFromFile(writeFile(t, "eval.json", []byte(body))))
			if err != nil {
				t.Fatalf("NewEvalMetrics: %v", err)
			}
			if _, err := ex.Extract(context.Background()); err == nil {
				t.Fatalf("expected error")
			}
		})
	}

	if _, err := NewEvalMetrics(payload.SourceFromFile("x.json"), WithInclude("[")); err == nil {
		t.Fatalf("expected bad pattern error")
	}
	if _, err := NewEvalMetrics(nil); err == nil {
		t.Fatalf("expected nil source error")
	}
}

func TestDatasetStats(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewGray(image.Rect(0, 0, 1, 1))); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	plot := writeFile(t, "age.png", buf.Bytes())

	got, err := DatasetStats{
		Name:      "Training Set",
		Link:      "gs://census/train",
		Sensitive: []string{},
		Plots:     []Plot{{Name: "age", Path: plot}},
	}.Extract(context.Background())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	want := &cardpb.ModelCard{ModelParameters: &cardpb.ModelParameters{Data: []*cardpb.Dataset{{
		Name:      cardpb.String("Training Set"),
		Link:      cardpb.String("gs://census/train"),
		Sensitive: &cardpb.SensitiveData{SensitiveData: []string{}},
		Graphics: &cardpb.GraphicsCollection{Collection: []*cardpb.Graphic{{
			Name:  cardpb.String("age"),
			Image: cardpb.String(graphics.Encode(buf.Bytes())),
		}}},
	}}}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("dataset mismatch (-want +got):\n%s", diff)
	}

	if _, err := (DatasetStats{}).Extract(context.Background()); err == nil {
		t.Fatalf("expected error for unnamed dataset")
	}
	if _, err := (DatasetStats{Name: "d", Plots: []Plot{{Name: "p", Path: filepath.Join(t.TempDir(), "none.png")}}}).Extract(context.Background()); err == nil {
		t.Fatalf("expected error for missing plot")
	}
}
