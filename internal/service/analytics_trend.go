package service

import (
	"fmt"
	"math"

	"github.com/migdam/graphs/internal/models"
	"github.com/migdam/graphs/internal/state"
)

const (
	trendR2Threshold = 0.5
	minRowsForTrend  = 10
	maxTrendColumns  = 3
)

// TrendAnalyzer turns profiled correlations into insights and fits linear
// trends against a temporal or ordinal index.
type TrendAnalyzer struct{}

// NewTrendAnalyzer creates the module.
func NewTrendAnalyzer() *TrendAnalyzer {
	return &TrendAnalyzer{}
}

func (a *TrendAnalyzer) Name() string { return "trend" }

func (a *TrendAnalyzer) Analyze(ds *state.Dataset, profile *models.DataProfile) []models.Insight {
	insights := []models.Insight{}

	for _, rel := range profile.Relationships {
		severity := models.SeverityMedium
		if math.Abs(rel.R) > 0.9 {
			severity = models.SeverityHigh
		}
		insights = append(insights, models.Insight{
			Category: models.CategoryTrend,
			Title:    fmt.Sprintf("%s %s Correlation", titleCase(rel.Strength), titleCase(rel.Direction)),
			Description: fmt.Sprintf("%s and %s show %s %s correlation (r=%.3f)",
				rel.Column1, rel.Column2, rel.Strength, rel.Direction, rel.R),
			Confidence: math.Abs(rel.R),
			Severity:   severity,
			DataPoints: map[string]string{
				"col1":        rel.Column1,
				"col2":        rel.Column2,
				"correlation": fmt.Sprintf("%.4f", rel.R),
			},
			Recommendation: fmt.Sprintf("Strong relationship between %s and %s suggests predictive potential",
				rel.Column1, rel.Column2),
		})
	}

	insights = append(insights, a.monotonicTrends(ds, profile)...)

	return insights
}

// monotonicTrends fits each numeric column against an index axis: row order
// when the dataset has a temporal column, otherwise the first strictly
// increasing numeric column. Without either, the check is skipped.
func (a *TrendAnalyzer) monotonicTrends(ds *state.Dataset, profile *models.DataProfile) []models.Insight {
	insights := []models.Insight{}
	numeric := profile.NumericColumns()

	indexCol := ""
	if !profile.HasTemporal {
		indexCol = firstOrdinalColumn(ds, numeric)
		if indexCol == "" {
			return insights
		}
	}

	checked := 0
	for _, col := range numeric {
		if col == indexCol {
			continue
		}
		if checked >= maxTrendColumns {
			break
		}
		checked++

		var x, y []float64
		if indexCol == "" {
			y = columnFloats(ds, ds.ColumnIndex(col))
			x = make([]float64, len(y))
			for i := range x {
				x[i] = float64(i)
			}
		} else {
			x, y = pairedFloats(ds, ds.ColumnIndex(indexCol), ds.ColumnIndex(col))
		}
		if len(y) < minRowsForTrend {
			continue
		}

		slope, _, r2 := linearFit(x, y)
		if slope == 0 || r2 <= trendR2Threshold {
			continue
		}
		direction := "increasing"
		if slope < 0 {
			direction = "decreasing"
		}
		insights = append(insights, models.Insight{
			Category:    models.CategoryTrend,
			Title:       fmt.Sprintf("Monotonic Trend in %s", col),
			Description: fmt.Sprintf("%s shows a clear %s trend over the dataset (R²=%.2f)", col, direction, r2),
			Confidence:  math.Min(r2, 1.0),
			Severity:    models.SeverityMedium,
			DataPoints: map[string]string{
				"column":    col,
				"slope":     fmt.Sprintf("%.4f", slope),
				"r_squared": fmt.Sprintf("%.4f", r2),
			},
			Recommendation: fmt.Sprintf("Monitor %s - trend suggests a continued %s pattern", col, direction),
		})
	}
	return insights
}

// firstOrdinalColumn returns the first numeric column whose values are
// strictly increasing in row order, a stand-in for an index axis.
func firstOrdinalColumn(ds *state.Dataset, numeric []string) string {
	for _, col := range numeric {
		values := columnFloats(ds, ds.ColumnIndex(col))
		if len(values) < minRowsForTrend {
			continue
		}
		increasing := true
		for i := 1; i < len(values); i++ {
			if values[i] <= values[i-1] {
				increasing = false
				break
			}
		}
		if increasing {
			return col
		}
	}
	return ""
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
