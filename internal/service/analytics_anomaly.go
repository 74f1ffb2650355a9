package service

import (
	"fmt"

	"github.com/migdam/graphs/internal/models"
	"github.com/migdam/graphs/internal/state"
)

const (
	iqrMultiplier        = 1.5
	outlierFractionFloor = 0.05
	minRowsForAnomaly    = 5
)

// AnomalyAnalyzer flags columns whose outlier fraction under the 1.5×IQR
// rule strictly exceeds 5%.
type AnomalyAnalyzer struct{}

// NewAnomalyAnalyzer creates the module.
func NewAnomalyAnalyzer() *AnomalyAnalyzer {
	return &AnomalyAnalyzer{}
}

func (a *AnomalyAnalyzer) Name() string { return "anomaly" }

func (a *AnomalyAnalyzer) Analyze(ds *state.Dataset, profile *models.DataProfile) []models.Insight {
	insights := []models.Insight{}

	for _, col := range profile.NumericColumns() {
		values := columnFloats(ds, ds.ColumnIndex(col))
		if len(values) < minRowsForAnomaly {
			continue
		}

		sorted := sortedCopy(values)
		q1 := quantile(sorted, 0.25)
		q3 := quantile(sorted, 0.75)
		iqr := q3 - q1
		lower := q1 - iqrMultiplier*iqr
		upper := q3 + iqrMultiplier*iqr

		outliers := 0
		for _, v := range values {
			if v < lower || v > upper {
				outliers++
			}
		}
		fraction := float64(outliers) / float64(len(values))
		if fraction <= outlierFractionFloor {
			continue
		}

		severity := models.SeverityMedium
		if fraction > 0.10 {
			severity = models.SeverityHigh
		}
		insights = append(insights, models.Insight{
			Category:    models.CategoryAnomaly,
			Title:       fmt.Sprintf("Outliers Detected in %s", col),
			Description: fmt.Sprintf("%.1f%% of %s values are statistical outliers", fraction*100, col),
			Confidence:  0.9,
			Severity:    severity,
			DataPoints: map[string]string{
				"column":        col,
				"outlier_count": fmt.Sprintf("%d", outliers),
				"outlier_pct":   fmt.Sprintf("%.2f", fraction*100),
				"lower_bound":   fmt.Sprintf("%.4f", lower),
				"upper_bound":   fmt.Sprintf("%.4f", upper),
			},
			Recommendation: fmt.Sprintf("Investigate outliers in %s - may indicate errors or special cases", col),
		})
	}

	return insights
}
