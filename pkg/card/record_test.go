package card

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func populated() *ModelCard {
	c := New()
	d := c.EnsureModelDetails()
	d.Name.Set("cats_vs_dogs")
	d.Overview.Set("")
	d.Owners = []Owner{{Name: Some("Model Cards Team"), Contact: Some("model-cards@google.com")}}
	d.Version = &Version{Name: Some("v1.0"), Date: Some("2020-01-01")}
	d.Licenses = []License{{Identifier: Some("Apache-2.0")}}
	d.References = []Reference{}
	d.Citations = []Citation{{Style: Some("bibtex"), Text: Some("@misc{mct}")}}
	d.Path = Some("/models/cats")

	p := c.EnsureModelParameters()
	p.ModelArchitecture.Set("cnn")
	p.InputFormat.Set("image")
	p.InputFormatMap = []KeyVal{{Key: Some("image"), Value: Some("uint8[224,224,3]")}}
	p.Data = []Dataset{
		{Name: Some("Training Set"), Sensitive: &SensitiveData{SensitiveData: []string{}}},
		{Name: Some("Validation Set"), Graphics: &GraphicsCollection{Description: Some("histograms")}},
	}

	q := c.EnsureQuantitativeAnalysis()
	q.PerformanceMetrics = []PerformanceMetric{
		{Type: Some("accuracy"), Value: Some("0.9"), Slice: Some("cats")},
		{Type: Some("accuracy"), Value: Some("0.8"), Slice: Some("dogs"), ConfidenceInterval: &ConfidenceInterval{LowerBound: Some("0.7"), UpperBound: Some("0.85")}},
	}
	q.Graphics = &GraphicsCollection{Collection: []Graphic{{Name: Some("roc"), Image: Some("aGVsbG8=")}}}

	k := c.EnsureConsiderations()
	k.Users = []Consideration{{Description: Some("researchers")}}
	k.EthicalConsiderations = []Risk{{Name: Some("bias"), MitigationStrategy: Some("balanced data")}}
	return c
}

func TestClearIsIdempotent(t *testing.T) {
	c := populated()
	c.Clear()
	once := *c
	c.Clear()
	if diff := cmp.Diff(once, *c); diff != "" {
		t.Fatalf("second clear changed state (-want +got):\n%s", diff)
	}
	if !c.IsEmpty() {
		t.Fatalf("expected empty record after clear")
	}
	if !c.Equal(New()) {
		t.Fatalf("cleared record should equal a new record")
	}
}

func TestClearSection(t *testing.T) {
	c := populated()
	c.ModelDetails.Clear()
	if diff := cmp.Diff(&ModelDetails{}, c.ModelDetails); diff != "" {
		t.Fatalf("section not cleared (-want +got):\n%s", diff)
	}
	if c.ModelParameters == nil {
		t.Fatalf("clearing one section must not touch others")
	}

	var nilSection *Version
	nilSection.Clear()
}

func TestEqual(t *testing.T) {
	a, b := populated(), populated()
	if !a.Equal(b) {
		t.Fatalf("identical records should be equal")
	}

	b.QuantitativeAnalysis.PerformanceMetrics[0], b.QuantitativeAnalysis.PerformanceMetrics[1] =
		b.QuantitativeAnalysis.PerformanceMetrics[1], b.QuantitativeAnalysis.PerformanceMetrics[0]
	if a.Equal(b) {
		t.Fatalf("order must matter")
	}

	c := populated()
	c.ModelDetails.References = nil
	if a.Equal(c) {
		t.Fatalf("absent and empty collections must differ")
	}

	d := populated()
	d.ModelDetails.Overview.Unset()
	if a.Equal(d) {
		t.Fatalf("unset and empty-string scalars must differ")
	}

	var nilCard *ModelCard
	if !nilCard.Equal(New()) || nilCard.Equal(a) {
		t.Fatalf("nil record should equal only empty records")
	}
}

func TestCloneIsDeep(t *testing.T) {
	a := populated()
	b := a.Clone()
	if !a.Equal(b) {
		t.Fatalf("clone should equal source")
	}
	b.ModelDetails.Owners[0].Name.Set("someone else")
	b.ModelParameters.Data[0].Sensitive.SensitiveData = append(b.ModelParameters.Data[0].Sensitive.SensitiveData, "age")
	if !a.Equal(populated()) {
		t.Fatalf("mutating the clone changed the source")
	}
}

func TestOpt(t *testing.T) {
	var o Opt[string]
	if o.IsSet() {
		t.Fatalf("zero Opt should be unset")
	}
	if _, ok := o.Get(); ok {
		t.Fatalf("Get on unset should report false")
	}
	if o.Ptr() != nil {
		t.Fatalf("Ptr on unset should be nil")
	}

	o.Set("")
	if v, ok := o.Get(); !ok || v != "" {
		t.Fatalf("Get = %q, %v", v, ok)
	}
	if o.Equal(Opt[string]{}) {
		t.Fatalf("set-to-empty must differ from unset")
	}
	if !o.Equal(Some("")) {
		t.Fatalf("equal values should compare equal")
	}
	if got := FromPtr(o.Ptr()); !got.Equal(o) {
		t.Fatalf("FromPtr(Ptr()) should round trip")
	}

	o.Unset()
	if o.IsSet() || o.Value() != "" {
		t.Fatalf("Unset should clear value and flag")
	}
}

func TestOptRejectsNull(t *testing.T) {
	var v Version
	if err := json.Unmarshal([]byte(`{"name": null}`), &v); err == nil {
		t.Fatalf("expected error for explicit null")
	}
}
