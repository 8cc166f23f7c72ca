package cardpb

// ModelCard is the proto form of a model card. The pb tag of each field is its
// number in proto/model_card.proto.
type ModelCard struct {
	ModelDetails         *ModelDetails         `pb:"1"`
	ModelParameters      *ModelParameters      `pb:"2"`
	QuantitativeAnalysis *QuantitativeAnalysis `pb:"3"`
	Considerations       *Considerations       `pb:"4"`
}

type ModelDetails struct {
	Name          *string             `pb:"1"`
	Overview      *string             `pb:"2"`
	Documentation *string             `pb:"3"`
	Owners        []*Owner            `pb:"4"`
	Version       *Version            `pb:"5"`
	Licenses      []*License          `pb:"6"`
	References    []*Reference        `pb:"7"`
	Citations     []*Citation         `pb:"8"`
	Path          *string             `pb:"9"`
	Graphics      *GraphicsCollection `pb:"10"`
}

type Owner struct {
	Name    *string `pb:"1"`
	Contact *string `pb:"2"`
}

type Version struct {
	Name *string `pb:"1"`
	Date *string `pb:"2"`
	Diff *string `pb:"3"`
}

type License struct {
	Identifier *string `pb:"1"`
	CustomText *string `pb:"2"`
}

type Reference struct {
	Uri *string `pb:"1"`
}

type Citation struct {
	Style *string `pb:"1"`
	Text  *string `pb:"2"`
}

type ModelParameters struct {
	ModelArchitecture *string    `pb:"1"`
	Data              []*Dataset `pb:"2"`
	InputFormat       *string    `pb:"3"`
	OutputFormat      *string    `pb:"4"`
	InputFormatMap    []*KeyVal  `pb:"5"`
	OutputFormatMap   []*KeyVal  `pb:"6"`
}

type KeyVal struct {
	Key   *string `pb:"1"`
	Value *string `pb:"2"`
}

type Dataset struct {
	Name        *string             `pb:"1"`
	Description *string             `pb:"2"`
	Link        *string             `pb:"3"`
	Sensitive   *SensitiveData      `pb:"4"`
	Graphics    *GraphicsCollection `pb:"5"`
}

type SensitiveData struct {
	SensitiveData []string `pb:"1"`
}

type GraphicsCollection struct {
	Description *string    `pb:"1"`
	Collection  []*Graphic `pb:"2"`
}

type Graphic struct {
	Name  *string `pb:"1"`
	Image *string `pb:"2"`
}

type QuantitativeAnalysis struct {
	PerformanceMetrics []*PerformanceMetric `pb:"1"`
	Graphics           *GraphicsCollection  `pb:"2"`
}

type PerformanceMetric struct {
	Type               *string             `pb:"1"`
	Value              *string             `pb:"2"`
	Slice              *string             `pb:"3"`
	Threshold          *string             `pb:"4"`
	ConfidenceInterval *ConfidenceInterval `pb:"5"`
}

type ConfidenceInterval struct {
	LowerBound *string `pb:"1"`
	UpperBound *string `pb:"2"`
}

type Considerations struct {
	Users                 []*Consideration `pb:"1"`
	UseCases              []*Consideration `pb:"2"`
	Limitations           []*Consideration `pb:"3"`
	Tradeoffs             []*Consideration `pb:"4"`
	EthicalConsiderations []*Risk          `pb:"5"`
}

type Consideration struct {
	Description *string `pb:"1"`
}

type Risk struct {
	Name               *string `pb:"1"`
	MitigationStrategy *string `pb:"2"`
}

// String returns a pointer to a copy of s, for populating optional fields.
func String(s string) *string {
	return &s
}

func (x *ModelCard) GetModelDetails() *ModelDetails {
	if x == nil {
		return nil
	}
	return x.ModelDetails
}

func (x *ModelCard) GetModelParameters() *ModelParameters {
	if x == nil {
		return nil
	}
	return x.ModelParameters
}

func (x *ModelCard) GetQuantitativeAnalysis() *QuantitativeAnalysis {
	if x == nil {
		return nil
	}
	return x.QuantitativeAnalysis
}

func (x *ModelCard) GetConsiderations() *Considerations {
	if x == nil {
		return nil
	}
	return x.Considerations
}

func (x *ModelDetails) GetName() string {
	if x == nil || x.Name == nil {
		return ""
	}
	return *x.Name
}

func (x *ModelDetails) GetPath() string {
	if x == nil || x.Path == nil {
		return ""
	}
	return *x.Path
}

func (x *PerformanceMetric) GetType() string {
	if x == nil || x.Type == nil {
		return ""
	}
	return *x.Type
}

func (x *PerformanceMetric) GetValue() string {
	if x == nil || x.Value == nil {
		return ""
	}
	return *x.Value
}

func (x *PerformanceMetric) GetSlice() string {
	if x == nil || x.Slice == nil {
		return ""
	}
	return *x.Slice
}

func (x *QuantitativeAnalysis) GetPerformanceMetrics() []*PerformanceMetric {
	if x == nil {
		return nil
	}
	return x.PerformanceMetrics
}
