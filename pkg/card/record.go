package card

import "reflect"

// Clear resets the record to the fully absent state.
func (c *ModelCard) Clear() {
	if c == nil {
		return
	}
	*c = ModelCard{}
}

// Equal reports structural equality over every field, including collection
// order and the distinction between absent and empty collections.
func (c *ModelCard) Equal(other *ModelCard) bool {
	if c == nil || other == nil {
		return c.IsEmpty() && other.IsEmpty()
	}
	return reflect.DeepEqual(c, other)
}

// IsEmpty reports whether every section is absent. A nil record is empty.
func (c *ModelCard) IsEmpty() bool {
	return c == nil || *c == (ModelCard{})
}

// Clone returns a deep copy of the record.
func (c *ModelCard) Clone() *ModelCard {
	if c == nil {
		return nil
	}
	return decodeProto(c.ToProto())
}

// Clear resets the section to the absent state.
func (d *ModelDetails) Clear() {
	if d != nil {
		*d = ModelDetails{}
	}
}

// Clear resets the section to the absent state.
func (v *Version) Clear() {
	if v != nil {
		*v = Version{}
	}
}

// Clear resets the section to the absent state.
func (p *ModelParameters) Clear() {
	if p != nil {
		*p = ModelParameters{}
	}
}

// Clear resets the section to the absent state.
func (d *Dataset) Clear() {
	if d != nil {
		*d = Dataset{}
	}
}

// Clear resets the section to the absent state.
func (s *SensitiveData) Clear() {
	if s != nil {
		*s = SensitiveData{}
	}
}

// Clear resets the section to the absent state.
func (g *GraphicsCollection) Clear() {
	if g != nil {
		*g = GraphicsCollection{}
	}
}

// Clear resets the section to the absent state.
func (c *Considerations) Clear() {
	if c != nil {
		*c = Considerations{}
	}
}

// Clear resets the section to the absent state.
func (q *QuantitativeAnalysis) Clear() {
	if q != nil {
		*q = QuantitativeAnalysis{}
	}
}

// Clear resets the section to the absent state.
func (m *PerformanceMetric) Clear() {
	if m != nil {
		*m = PerformanceMetric{}
	}
}

// Clear resets the section to the absent state.
func (ci *ConfidenceInterval) Clear() {
	if ci != nil {
		*ci = ConfidenceInterval{}
	}
}

// EnsureModelDetails returns the model details section, creating it when absent.
func (c *ModelCard) EnsureModelDetails() *ModelDetails {
	if c.ModelDetails == nil {
		c.ModelDetails = &ModelDetails{}
	}
	return c.ModelDetails
}

// EnsureModelParameters returns the model parameters section, creating it when absent.
func (c *ModelCard) EnsureModelParameters() *ModelParameters {
	if c.ModelParameters == nil {
		c.ModelParameters = &ModelParameters{}
	}
	return c.ModelParameters
}

// EnsureQuantitativeAnalysis returns the quantitative analysis section,
// creating it when absent.
func (c *ModelCard) EnsureQuantitativeAnalysis() *QuantitativeAnalysis {
	if c.QuantitativeAnalysis == nil {
		c.QuantitativeAnalysis = &QuantitativeAnalysis{}
	}
	return c.QuantitativeAnalysis
}

// EnsureConsiderations returns the considerations section, creating it when absent.
func (c *ModelCard) EnsureConsiderations() *Considerations {
	if c.Considerations == nil {
		c.Considerations = &Considerations{}
	}
	return c.Considerations
}
