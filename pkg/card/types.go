package card

// ModelCard is the root of the model card record. Every section is optional;
// a nil section is absent.
type ModelCard struct {
	ModelDetails         *ModelDetails         `json:"model_details,omitzero"`
	ModelParameters      *ModelParameters      `json:"model_parameters,omitzero"`
	QuantitativeAnalysis *QuantitativeAnalysis `json:"quantitative_analysis,omitzero"`
	Considerations       *Considerations       `json:"considerations,omitzero"`
}

// New returns an empty record with every section absent.
func New() *ModelCard {
	return &ModelCard{}
}

// ModelDetails is the general, high-level description of the model.
type ModelDetails struct {
	Name          Opt[string]         `json:"name,omitzero"`
	Overview      Opt[string]         `json:"overview,omitzero"`
	Documentation Opt[string]         `json:"documentation,omitzero"`
	Owners        []Owner             `json:"owners,omitzero"`
	Version       *Version            `json:"version,omitzero"`
	Licenses      []License           `json:"licenses,omitzero"`
	References    []Reference         `json:"references,omitzero"`
	Citations     []Citation          `json:"citations,omitzero"`
	Path          Opt[string]         `json:"path,omitzero"`
	Graphics      *GraphicsCollection `json:"graphics,omitzero"`
}

// Owner identifies an individual or team that owns the model.
type Owner struct {
	Name    Opt[string] `json:"name,omitzero"`
	Contact Opt[string] `json:"contact,omitzero"`
}

// Version describes which release of the model the card documents.
type Version struct {
	Name Opt[string] `json:"name,omitzero"`
	Date Opt[string] `json:"date,omitzero"`
	Diff Opt[string] `json:"diff,omitzero"`
}

// License carries either an SPDX identifier or custom license text.
type License struct {
	Identifier Opt[string] `json:"identifier,omitzero"`
	CustomText Opt[string] `json:"custom_text,omitzero"`
}

// Reference links to an external resource.
type Reference struct {
	URI Opt[string] `json:"uri,omitzero"`
}

// Citation describes how the model should be cited.
type Citation struct {
	Style Opt[string] `json:"style,omitzero"`
	Text  Opt[string] `json:"text,omitzero"`
}

// ModelParameters captures how the model was constructed.
type ModelParameters struct {
	ModelArchitecture Opt[string] `json:"model_architecture,omitzero"`
	Data              []Dataset   `json:"data,omitzero"`
	InputFormat       Opt[string] `json:"input_format,omitzero"`
	InputFormatMap    []KeyVal    `json:"input_format_map,omitzero"`
	OutputFormat      Opt[string] `json:"output_format,omitzero"`
	OutputFormatMap   []KeyVal    `json:"output_format_map,omitzero"`
}

// KeyVal is one entry of an ordered string mapping.
type KeyVal struct {
	Key   Opt[string] `json:"key,omitzero"`
	Value Opt[string] `json:"value,omitzero"`
}

// Dataset describes data used to train or evaluate the model.
type Dataset struct {
	Name        Opt[string]         `json:"name,omitzero"`
	Description Opt[string]         `json:"description,omitzero"`
	Link        Opt[string]         `json:"link,omitzero"`
	Sensitive   *SensitiveData      `json:"sensitive,omitzero"`
	Graphics    *GraphicsCollection `json:"graphics,omitzero"`
}

// SensitiveData lists sensitive fields (PII and similar) present in a dataset.
type SensitiveData struct {
	SensitiveData []string `json:"sensitive_data,omitzero"`
}

// GraphicsCollection groups named inline images with a description.
type GraphicsCollection struct {
	Description Opt[string] `json:"description,omitzero"`
	Collection  []Graphic   `json:"collection,omitzero"`
}

// Graphic is a named image encoded as a base64 string.
type Graphic struct {
	Name  Opt[string] `json:"name,omitzero"`
	Image Opt[string] `json:"image,omitzero"`
}

// Considerations holds the qualitative analysis of the model.
type Considerations struct {
	Users                 []Consideration `json:"users,omitzero"`
	UseCases              []Consideration `json:"use_cases,omitzero"`
	Limitations           []Consideration `json:"limitations,omitzero"`
	Tradeoffs             []Consideration `json:"tradeoffs,omitzero"`
	EthicalConsiderations []Risk          `json:"ethical_considerations,omitzero"`
}

// Consideration is a single free-text item.
type Consideration struct {
	Description Opt[string] `json:"description,omitzero"`
}

// Risk names a risk and how it is mitigated.
type Risk struct {
	Name               Opt[string] `json:"name,omitzero"`
	MitigationStrategy Opt[string] `json:"mitigation_strategy,omitzero"`
}

// QuantitativeAnalysis reports measured performance.
type QuantitativeAnalysis struct {
	PerformanceMetrics []PerformanceMetric `json:"performance_metrics,omitzero"`
	Graphics           *GraphicsCollection `json:"graphics,omitzero"`
}

// PerformanceMetric is one measured value, optionally scoped to a slice.
// Metrics for different slices commonly share a Type.
type PerformanceMetric struct {
	Type               Opt[string]         `json:"type,omitzero"`
	Value              Opt[string]         `json:"value,omitzero"`
	Slice              Opt[string]         `json:"slice,omitzero"`
	Threshold          Opt[string]         `json:"threshold,omitzero"`
	ConfidenceInterval *ConfidenceInterval `json:"confidence_interval,omitzero"`
}

// ConfidenceInterval bounds a metric value.
type ConfidenceInterval struct {
	LowerBound Opt[string] `json:"lower_bound,omitzero"`
	UpperBound Opt[string] `json:"upper_bound,omitzero"`
}
