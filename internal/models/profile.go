package models

// ColumnKind is the inferred type of a column.
type ColumnKind string

const (
	KindNumeric     ColumnKind = "numeric"
	KindCategorical ColumnKind = "categorical"
	KindTemporal    ColumnKind = "temporal"
)

// IdentifierRole marks a column as one endpoint of a network edge list.
type IdentifierRole string

const (
	RoleNone   IdentifierRole = ""
	RoleSource IdentifierRole = "source"
	RoleTarget IdentifierRole = "target"
)

// ColumnDescriptor describes one classified column. The identifier flag is
// independent of the kind: a "source" column keeps its numeric or
// categorical kind for every non-network analysis.
type ColumnDescriptor struct {
	Name           string         `json:"name"`
	Kind           ColumnKind     `json:"kind"`
	MissingCount   int            `json:"missing_count"`
	IsIdentifier   bool           `json:"is_identifier,omitempty"`
	IdentifierRole IdentifierRole `json:"identifier_role,omitempty"`
}

// Relationship records a detected statistical relationship between two
// numeric columns.
type Relationship struct {
	Column1   string  `json:"column1"`
	Column2   string  `json:"column2"`
	Strength  string  `json:"strength"`  // "strong" or "moderate"
	Direction string  `json:"direction"` // "positive" or "negative"
	R         float64 `json:"correlation"`
}

// NumericSummary holds per-column summary statistics.
type NumericSummary struct {
	Mean     float64 `json:"mean"`
	Std      float64 `json:"std"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Distinct int     `json:"distinct"`
}

// VizCandidate is one ranked visualization suggestion.
type VizCandidate struct {
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
}

// DataProfile is the immutable result of classifying one dataset. It is
// created once per dataset and never mutated after construction.
type DataProfile struct {
	NumRows                 int                       `json:"num_rows"`
	NumColumns              int                       `json:"num_columns"`
	Columns                 []ColumnDescriptor        `json:"columns"`
	HasNumeric              bool                      `json:"has_numeric"`
	HasCategorical          bool                      `json:"has_categorical"`
	HasTemporal             bool                      `json:"has_temporal"`
	HasNetworkStructure     bool                      `json:"has_network_structure"`
	Relationships           []Relationship            `json:"relationships"`
	StatisticalSummary      map[string]NumericSummary `json:"statistical_summary"`
	SuggestedVisualizations []string                  `json:"suggested_visualizations"`
	ConfidenceScores        map[string]float64        `json:"confidence_scores"`
	CorrelationTruncated    bool                      `json:"correlation_truncated,omitempty"`
}

// NumericColumns returns the numeric column names in declared order.
func (p *DataProfile) NumericColumns() []string {
	return p.columnsOfKind(KindNumeric)
}

// CategoricalColumns returns the categorical column names in declared order.
func (p *DataProfile) CategoricalColumns() []string {
	return p.columnsOfKind(KindCategorical)
}

// TemporalColumns returns the temporal column names in declared order.
func (p *DataProfile) TemporalColumns() []string {
	return p.columnsOfKind(KindTemporal)
}

func (p *DataProfile) columnsOfKind(kind ColumnKind) []string {
	var names []string
	for _, c := range p.Columns {
		if c.Kind == kind {
			names = append(names, c.Name)
		}
	}
	return names
}

// IdentifierColumn returns the name of the first column carrying the given
// role, or "".
func (p *DataProfile) IdentifierColumn(role IdentifierRole) string {
	for _, c := range p.Columns {
		if c.IdentifierRole == role {
			return c.Name
		}
	}
	return ""
}

// AxisSuggestion maps the chosen visualization type to the columns the
// heuristic implies should be used for its axes.
type AxisSuggestion struct {
	X        string `json:"x,omitempty"`
	Y        string `json:"y,omitempty"`
	Z        string `json:"z,omitempty"`
	Time     string `json:"time,omitempty"`
	Category string `json:"category,omitempty"`
	Value    string `json:"value,omitempty"`
	Source   string `json:"source,omitempty"`
	Target   string `json:"target,omitempty"`
	Weight   string `json:"weight,omitempty"`
}
