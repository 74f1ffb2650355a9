package models

// InsightCategory tags an insight with the analysis family that produced it.
type InsightCategory string

const (
	CategoryPattern      InsightCategory = "pattern"
	CategoryAnomaly      InsightCategory = "anomaly"
	CategoryTrend        InsightCategory = "trend"
	CategoryRelationship InsightCategory = "relationship"
	CategoryStatistical  InsightCategory = "statistical"
)

// Severity grades how much attention an insight deserves.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Insight is one categorized, confidence-scored finding produced by a
// single analytics module. Immutable once created.
type Insight struct {
	Category       InsightCategory   `json:"category"`
	Title          string            `json:"title"`
	Description    string            `json:"description"`
	Confidence     float64           `json:"confidence"`
	Severity       Severity          `json:"severity"`
	DataPoints     map[string]string `json:"data_points"`
	Recommendation string            `json:"recommendation,omitempty"`
}

// DataSummary gives the headline shape of the analyzed dataset.
type DataSummary struct {
	TotalRecords       int     `json:"total_records"`
	TotalColumns       int     `json:"total_columns"`
	NumericColumns     int     `json:"numeric_columns"`
	CategoricalColumns int     `json:"categorical_columns"`
	TemporalColumns    int     `json:"temporal_columns"`
	MissingValues      int     `json:"missing_values"`
	MissingPercentage  float64 `json:"missing_percentage"`
}

// AnalyticsReport is the complete output of one analysis call. It is built
// once, never mutated afterward, and serializes losslessly to JSON.
type AnalyticsReport struct {
	Timestamp              string      `json:"timestamp"`
	DataSummary            DataSummary `json:"data_summary"`
	Insights               []Insight   `json:"insights"`
	Patterns               []string    `json:"patterns"`
	Anomalies              []string    `json:"anomalies"`
	Trends                 []string    `json:"trends"`
	Recommendations        []string    `json:"recommendations"`
	NaturalLanguageSummary string      `json:"natural_language_summary"`
	KeyFindings            []string    `json:"key_findings"`
	Truncated              bool        `json:"truncated"`
}
