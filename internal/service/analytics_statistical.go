package service

import (
	"fmt"
	"math"

	"github.com/migdam/graphs/internal/models"
	"github.com/migdam/graphs/internal/state"
)

// StatisticalAnalyzer extracts distribution-shape insights from numeric
// columns: skewness and coefficient of variation.
type StatisticalAnalyzer struct{}

// NewStatisticalAnalyzer creates the module.
func NewStatisticalAnalyzer() *StatisticalAnalyzer {
	return &StatisticalAnalyzer{}
}

func (a *StatisticalAnalyzer) Name() string { return "statistical" }

func (a *StatisticalAnalyzer) Analyze(ds *state.Dataset, profile *models.DataProfile) []models.Insight {
	insights := []models.Insight{}

	for _, col := range profile.NumericColumns() {
		values := columnFloats(ds, ds.ColumnIndex(col))
		if len(values) == 0 {
			continue
		}

		mean := meanOf(values)
		std := stdDevOf(values)

		skew := skewnessOf(values)
		if math.Abs(skew) > 1.0 {
			severity := models.SeverityMedium
			if math.Abs(skew) > 2.0 {
				severity = models.SeverityHigh
			}
			direction := "right"
			if skew < 0 {
				direction = "left"
			}
			insights = append(insights, models.Insight{
				Category:    models.CategoryStatistical,
				Title:       fmt.Sprintf("Skewed Distribution in %s", col),
				Description: fmt.Sprintf("%s shows a %s-skewed distribution (skewness: %.2f)", col, direction, skew),
				Confidence:  math.Min(math.Abs(skew)/3.0, 1.0),
				Severity:    severity,
				DataPoints: map[string]string{
					"column":   col,
					"skewness": fmt.Sprintf("%.4f", skew),
					"mean":     fmt.Sprintf("%.4f", mean),
				},
				Recommendation: fmt.Sprintf("Consider log transformation or outlier investigation for %s", col),
			})
		}

		if mean != 0 {
			cv := std / math.Abs(mean) * 100
			if cv > 50 {
				insights = append(insights, models.Insight{
					Category:    models.CategoryStatistical,
					Title:       fmt.Sprintf("High Variability in %s", col),
					Description: fmt.Sprintf("%s has high variability (CV: %.1f%%)", col, cv),
					Confidence:  0.9,
					Severity:    models.SeverityMedium,
					DataPoints: map[string]string{
						"column": col,
						"cv":     fmt.Sprintf("%.2f", cv),
						"std":    fmt.Sprintf("%.4f", std),
					},
					Recommendation: fmt.Sprintf("High variability in %s may indicate multiple subgroups", col),
				})
			}
		}
	}

	return insights
}
