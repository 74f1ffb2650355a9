package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/migdam/graphs/internal/models"
	"github.com/migdam/graphs/internal/state"
)

// vizLabels render type tokens inside the natural-language summary.
var vizLabels = map[string]string{
	VizNetwork:   "network graph",
	VizScatter3D: "3D scatter",
	VizSurface3D: "3D surface",
	VizMesh3D:    "3D mesh",
	VizLine3D:    "3D line",
	VizBar3D:     "3D bar",
}

// ReportBuilder assembles the final analytics report from aggregated
// insights. The summary is rendered from a fixed template, so output is
// deterministic given identical inputs.
type ReportBuilder struct {
	aggregator *InsightAggregator
}

// NewReportBuilder creates the builder.
func NewReportBuilder() *ReportBuilder {
	return &ReportBuilder{aggregator: NewInsightAggregator()}
}

// Build aggregates the raw module output and assembles the report.
func (b *ReportBuilder) Build(ds *state.Dataset, profile *models.DataProfile, vizType string, raw []models.Insight, truncated bool) *models.AnalyticsReport {
	insights := b.aggregator.Aggregate(raw)
	summary := buildDataSummary(profile)
	keyFindings := b.aggregator.KeyFindings(insights)

	return &models.AnalyticsReport{
		Timestamp:              time.Now().UTC().Format(time.RFC3339),
		DataSummary:            summary,
		Insights:               insights,
		Patterns:               b.aggregator.Titles(insights, models.CategoryPattern),
		Anomalies:              b.aggregator.Titles(insights, models.CategoryAnomaly),
		Trends:                 b.aggregator.Titles(insights, models.CategoryTrend),
		Recommendations:        b.aggregator.Recommendations(insights, generalRecommendations(summary)),
		NaturalLanguageSummary: renderSummary(summary, vizType, insights, keyFindings),
		KeyFindings:            keyFindings,
		Truncated:              truncated,
	}
}

func buildDataSummary(profile *models.DataProfile) models.DataSummary {
	summary := models.DataSummary{
		TotalRecords: profile.NumRows,
		TotalColumns: profile.NumColumns,
	}
	for _, c := range profile.Columns {
		switch c.Kind {
		case models.KindNumeric:
			summary.NumericColumns++
		case models.KindCategorical:
			summary.CategoricalColumns++
		case models.KindTemporal:
			summary.TemporalColumns++
		}
		summary.MissingValues += c.MissingCount
	}
	cells := profile.NumRows * profile.NumColumns
	if cells > 0 {
		summary.MissingPercentage = float64(summary.MissingValues) / float64(cells) * 100
	}
	return summary
}

// generalRecommendations are dataset-level suggestions appended after the
// per-insight ones.
func generalRecommendations(summary models.DataSummary) []string {
	recs := []string{}
	if summary.TotalRecords > 1000 {
		recs = append(recs, "Consider aggregation or sampling for better performance with large datasets")
	}
	if summary.MissingPercentage > 5 {
		recs = append(recs, fmt.Sprintf("Dataset has %.1f%% missing values - consider imputation or filtering",
			summary.MissingPercentage))
	}
	return recs
}

func renderSummary(summary models.DataSummary, vizType string, insights []models.Insight, keyFindings []string) string {
	label, ok := vizLabels[vizType]
	if !ok {
		label = vizType
	}

	parts := []string{fmt.Sprintf("This %s visualization represents a dataset with %d records and %d variables.",
		label, summary.TotalRecords, summary.TotalColumns)}

	highConfidence := 0
	for _, ins := range insights {
		if ins.Confidence > 0.8 {
			highConfidence++
		}
	}
	if highConfidence > 0 {
		parts = append(parts, fmt.Sprintf("Analysis identified %d high-confidence insights.", highConfidence))
	}

	if len(keyFindings) > 0 {
		top := keyFindings
		if len(top) > 3 {
			top = top[:3]
		}
		parts = append(parts, fmt.Sprintf("Key findings include: %s.", strings.Join(top, "; ")))
	}

	return strings.Join(parts, " ")
}
