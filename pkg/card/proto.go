package card

import (
	"fmt"
	"strconv"

	"github.com/goliatone/go-modelcard/pkg/cardpb"
)

// ProtoMerger fills a record from proto-form messages. MergeFromProto
// accumulates into the existing record; CopyFromProto replaces it.
type ProtoMerger interface {
	MergeFromProto(pb *cardpb.ModelCard) error
	CopyFromProto(pb *cardpb.ModelCard) error
}

var _ ProtoMerger = (*ModelCard)(nil)

// FromProto builds a new record from pb.
func FromProto(pb *cardpb.ModelCard) (*ModelCard, error) {
	c := New()
	if err := c.CopyFromProto(pb); err != nil {
		return nil, err
	}
	return c, nil
}

// ToProto returns the proto form of the record. Only set fields are
// populated; present-but-empty collections stay non-nil.
func (c *ModelCard) ToProto() *cardpb.ModelCard {
	pb := &cardpb.ModelCard{}
	if c == nil {
		return pb
	}
	pb.ModelDetails = detailsToProto(c.ModelDetails)
	pb.ModelParameters = parametersToProto(c.ModelParameters)
	pb.QuantitativeAnalysis = analysisToProto(c.QuantitativeAnalysis)
	pb.Considerations = considerationsToProto(c.Considerations)
	return pb
}

// MergeFromProto merges pb into the record. Scalars set in pb win, nested
// sections merge recursively and collections are appended after the existing
// entries without deduplication. Only pb is checked; error paths index into
// pb, not into the merged record. The record is left untouched on error.
func (c *ModelCard) MergeFromProto(pb *cardpb.ModelCard) error {
	if c == nil {
		return ErrNilCard
	}
	if pb == nil {
		return nil
	}
	if err := checkProto(pb); err != nil {
		return err
	}
	merged := c.ToProto()
	if err := cardpb.Merge(merged, pb); err != nil {
		return &ConversionError{Reason: "merge proto form", Err: err}
	}
	*c = *decodeProto(merged)
	return nil
}

// CopyFromProto replaces the record with the contents of pb. It is Clear
// followed by MergeFromProto, applied atomically.
func (c *ModelCard) CopyFromProto(pb *cardpb.ModelCard) error {
	if c == nil {
		return ErrNilCard
	}
	if pb == nil {
		c.Clear()
		return nil
	}
	if err := checkProto(pb); err != nil {
		return err
	}
	*c = *decodeProto(pb)
	return nil
}

// Check reports the first required leaf the record is missing: a metric
// type or value, a confidence interval bound, or a format map key. A record
// that fails Check cannot be read back from its proto form, so writers call
// it before persisting.
func (c *ModelCard) Check() error {
	if c == nil {
		return ErrNilCard
	}
	return checkProto(c.ToProto())
}

// checkProto reports leaves the record cannot do without.
func checkProto(pb *cardpb.ModelCard) error {
	if params := pb.GetModelParameters(); params != nil {
		if err := checkFormatMap("model_parameters.input_format_map", params.InputFormatMap); err != nil {
			return err
		}
		if err := checkFormatMap("model_parameters.output_format_map", params.OutputFormatMap); err != nil {
			return err
		}
	}
	for i, m := range pb.GetQuantitativeAnalysis().GetPerformanceMetrics() {
		base := "quantitative_analysis.performance_metrics." + strconv.Itoa(i)
		if m == nil || m.Type == nil {
			return &ConversionError{Path: base + ".type", Reason: "performance metric requires a type"}
		}
		if m.Value == nil {
			return &ConversionError{Path: base + ".value", Reason: "performance metric requires a value"}
		}
		if ci := m.ConfidenceInterval; ci != nil {
			if ci.LowerBound == nil {
				return &ConversionError{Path: base + ".confidence_interval.lower_bound", Reason: "confidence interval requires both bounds"}
			}
			if ci.UpperBound == nil {
				return &ConversionError{Path: base + ".confidence_interval.upper_bound", Reason: "confidence interval requires both bounds"}
			}
		}
	}
	return nil
}

func checkFormatMap(path string, entries []*cardpb.KeyVal) error {
	for i, kv := range entries {
		if kv == nil || kv.Key == nil {
			return &ConversionError{
				Path:   fmt.Sprintf("%s.%d.key", path, i),
				Reason: "format map entry requires a key",
			}
		}
	}
	return nil
}

func mapList[S, D any](src []S, fn func(S) D) []D {
	if src == nil {
		return nil
	}
	out := make([]D, 0, len(src))
	for _, s := range src {
		out = append(out, fn(s))
	}
	return out
}

func detailsToProto(d *ModelDetails) *cardpb.ModelDetails {
	if d == nil {
		return nil
	}
	return &cardpb.ModelDetails{
		Name:          d.Name.Ptr(),
		Overview:      d.Overview.Ptr(),
		Documentation: d.Documentation.Ptr(),
		Owners: mapList(d.Owners, func(o Owner) *cardpb.Owner {
			return &cardpb.Owner{Name: o.Name.Ptr(), Contact: o.Contact.Ptr()}
		}),
		Version: versionToProto(d.Version),
		Licenses: mapList(d.Licenses, func(l License) *cardpb.License {
			return &cardpb.License{Identifier: l.Identifier.Ptr(), CustomText: l.CustomText.Ptr()}
		}),
		References: mapList(d.References, func(r Reference) *cardpb.Reference {
			return &cardpb.Reference{Uri: r.URI.Ptr()}
		}),
		Citations: mapList(d.Citations, func(c Citation) *cardpb.Citation {
			return &cardpb.Citation{Style: c.Style.Ptr(), Text: c.Text.Ptr()}
		}),
		Path:     d.Path.Ptr(),
		Graphics: graphicsToProto(d.Graphics),
	}
}

func versionToProto(v *Version) *cardpb.Version {
	if v == nil {
		return nil
	}
	return &cardpb.Version{Name: v.Name.Ptr(), Date: v.Date.Ptr(), Diff: v.Diff.Ptr()}
}

func parametersToProto(p *ModelParameters) *cardpb.ModelParameters {
	if p == nil {
		return nil
	}
	return &cardpb.ModelParameters{
		ModelArchitecture: p.ModelArchitecture.Ptr(),
		Data:              mapList(p.Data, datasetToProto),
		InputFormat:       p.InputFormat.Ptr(),
		OutputFormat:      p.OutputFormat.Ptr(),
		InputFormatMap:    mapList(p.InputFormatMap, keyValToProto),
		OutputFormatMap:   mapList(p.OutputFormatMap, keyValToProto),
	}
}

func keyValToProto(kv KeyVal) *cardpb.KeyVal {
	return &cardpb.KeyVal{Key: kv.Key.Ptr(), Value: kv.Value.Ptr()}
}

func datasetToProto(d Dataset) *cardpb.Dataset {
	out := &cardpb.Dataset{
		Name:        d.Name.Ptr(),
		Description: d.Description.Ptr(),
		Link:        d.Link.Ptr(),
		Graphics:    graphicsToProto(d.Graphics),
	}
	if d.Sensitive != nil {
		out.Sensitive = &cardpb.SensitiveData{SensitiveData: cloneStrings(d.Sensitive.SensitiveData)}
	}
	return out
}

func graphicsToProto(g *GraphicsCollection) *cardpb.GraphicsCollection {
	if g == nil {
		return nil
	}
	return &cardpb.GraphicsCollection{
		Description: g.Description.Ptr(),
		Collection: mapList(g.Collection, func(img Graphic) *cardpb.Graphic {
			return &cardpb.Graphic{Name: img.Name.Ptr(), Image: img.Image.Ptr()}
		}),
	}
}

func analysisToProto(q *QuantitativeAnalysis) *cardpb.QuantitativeAnalysis {
	if q == nil {
		return nil
	}
	return &cardpb.QuantitativeAnalysis{
		PerformanceMetrics: mapList(q.PerformanceMetrics, func(m PerformanceMetric) *cardpb.PerformanceMetric {
			out := &cardpb.PerformanceMetric{
				Type:      m.Type.Ptr(),
				Value:     m.Value.Ptr(),
				Slice:     m.Slice.Ptr(),
				Threshold: m.Threshold.Ptr(),
			}
			if ci := m.ConfidenceInterval; ci != nil {
				out.ConfidenceInterval = &cardpb.ConfidenceInterval{
					LowerBound: ci.LowerBound.Ptr(),
					UpperBound: ci.UpperBound.Ptr(),
				}
			}
			return out
		}),
		Graphics: graphicsToProto(q.Graphics),
	}
}

func considerationToProto(c Consideration) *cardpb.Consideration {
	return &cardpb.Consideration{Description: c.Description.Ptr()}
}

func considerationsToProto(c *Considerations) *cardpb.Considerations {
	if c == nil {
		return nil
	}
	return &cardpb.Considerations{
		Users:       mapList(c.Users, considerationToProto),
		UseCases:    mapList(c.UseCases, considerationToProto),
		Limitations: mapList(c.Limitations, considerationToProto),
		Tradeoffs:   mapList(c.Tradeoffs, considerationToProto),
		EthicalConsiderations: mapList(c.EthicalConsiderations, func(r Risk) *cardpb.Risk {
			return &cardpb.Risk{Name: r.Name.Ptr(), MitigationStrategy: r.MitigationStrategy.Ptr()}
		}),
	}
}

// decodeProto maps pb onto a fresh record without checking required leaves.
// The result shares no memory with pb.
func decodeProto(pb *cardpb.ModelCard) *ModelCard {
	return &ModelCard{
		ModelDetails:         detailsFromProto(pb.GetModelDetails()),
		ModelParameters:      parametersFromProto(pb.GetModelParameters()),
		QuantitativeAnalysis: analysisFromProto(pb.GetQuantitativeAnalysis()),
		Considerations:       considerationsFromProto(pb.GetConsiderations()),
	}
}

func detailsFromProto(d *cardpb.ModelDetails) *ModelDetails {
	if d == nil {
		return nil
	}
	return &ModelDetails{
		Name:          FromPtr(d.Name),
		Overview:      FromPtr(d.Overview),
		Documentation: FromPtr(d.Documentation),
		Owners: mapList(d.Owners, func(o *cardpb.Owner) Owner {
			if o == nil {
				return Owner{}
			}
			return Owner{Name: FromPtr(o.Name), Contact: FromPtr(o.Contact)}
		}),
		Version: versionFromProto(d.Version),
		Licenses: mapList(d.Licenses, func(l *cardpb.License) License {
			if l == nil {
				return License{}
			}
			return License{Identifier: FromPtr(l.Identifier), CustomText: FromPtr(l.CustomText)}
		}),
		References: mapList(d.References, func(r *cardpb.Reference) Reference {
			if r == nil {
				return Reference{}
			}
			return Reference{URI: FromPtr(r.Uri)}
		}),
		Citations: mapList(d.Citations, func(c *cardpb.Citation) Citation {
			if c == nil {
				return Citation{}
			}
			return Citation{Style: FromPtr(c.Style), Text: FromPtr(c.Text)}
		}),
		Path:     FromPtr(d.Path),
		Graphics: graphicsFromProto(d.Graphics),
	}
}

func versionFromProto(v *cardpb.Version) *Version {
	if v == nil {
		return nil
	}
	return &Version{Name: FromPtr(v.Name), Date: FromPtr(v.Date), Diff: FromPtr(v.Diff)}
}

func parametersFromProto(p *cardpb.ModelParameters) *ModelParameters {
	if p == nil {
		return nil
	}
	return &ModelParameters{
		ModelArchitecture: FromPtr(p.ModelArchitecture),
		Data:              mapList(p.Data, datasetFromProto),
		InputFormat:       FromPtr(p.InputFormat),
		InputFormatMap:    mapList(p.InputFormatMap, keyValFromProto),
		OutputFormat:      FromPtr(p.OutputFormat),
		OutputFormatMap:   mapList(p.OutputFormatMap, keyValFromProto),
	}
}

func keyValFromProto(kv *cardpb.KeyVal) KeyVal {
	if kv == nil {
		return KeyVal{}
	}
	return KeyVal{Key: FromPtr(kv.Key), Value: FromPtr(kv.Value)}
}

func datasetFromProto(d *cardpb.Dataset) Dataset {
	if d == nil {
		return Dataset{}
	}
	out := Dataset{
		Name:        FromPtr(d.Name),
		Description: FromPtr(d.Description),
		Link:        FromPtr(d.Link),
		Graphics:    graphicsFromProto(d.Graphics),
	}
	if d.Sensitive != nil {
		out.Sensitive = &SensitiveData{SensitiveData: cloneStrings(d.Sensitive.SensitiveData)}
	}
	return out
}

func graphicsFromProto(g *cardpb.GraphicsCollection) *GraphicsCollection {
	if g == nil {
		return nil
	}
	return &GraphicsCollection{
		Description: FromPtr(g.Description),
		Collection: mapList(g.Collection, func(img *cardpb.Graphic) Graphic {
			if img == nil {
				return Graphic{}
			}
			return Graphic{Name: FromPtr(img.Name), Image: FromPtr(img.Image)}
		}),
	}
}

func analysisFromProto(q *cardpb.QuantitativeAnalysis) *QuantitativeAnalysis {
	if q == nil {
		return nil
	}
	return &QuantitativeAnalysis{
		PerformanceMetrics: mapList(q.PerformanceMetrics, func(m *cardpb.PerformanceMetric) PerformanceMetric {
			if m == nil {
				return PerformanceMetric{}
			}
			out := PerformanceMetric{
				Type:      FromPtr(m.Type),
				Value:     FromPtr(m.Value),
				Slice:     FromPtr(m.Slice),
				Threshold: FromPtr(m.Threshold),
			}
			if ci := m.ConfidenceInterval; ci != nil {
				out.ConfidenceInterval = &ConfidenceInterval{
					LowerBound: FromPtr(ci.LowerBound),
					UpperBound: FromPtr(ci.UpperBound),
				}
			}
			return out
		}),
		Graphics: graphicsFromProto(q.Graphics),
	}
}

func considerationFromProto(c *cardpb.Consideration) Consideration {
	if c == nil {
		return Consideration{}
	}
	return Consideration{Description: FromPtr(c.Description)}
}

func considerationsFromProto(c *cardpb.Considerations) *Considerations {
	if c == nil {
		return nil
	}
	return &Considerations{
		Users:       mapList(c.Users, considerationFromProto),
		UseCases:    mapList(c.UseCases, considerationFromProto),
		Limitations: mapList(c.Limitations, considerationFromProto),
		Tradeoffs:   mapList(c.Tradeoffs, considerationFromProto),
		EthicalConsiderations: mapList(c.EthicalConsiderations, func(r *cardpb.Risk) Risk {
			if r == nil {
				return Risk{}
			}
			return Risk{Name: FromPtr(r.Name), MitigationStrategy: FromPtr(r.MitigationStrategy)}
		}),
	}
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append(make([]string, 0, len(in)), in...)
}
