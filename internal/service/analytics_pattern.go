package service

import (
	"fmt"

	"github.com/migdam/graphs/internal/models"
	"github.com/migdam/graphs/internal/state"
)

const (
	histogramBins     = 10
	minRowsForPattern = 10
)

// PatternAnalyzer detects multimodal distributions in numeric columns and
// flags temporal structure.
type PatternAnalyzer struct{}

// NewPatternAnalyzer creates the module.
func NewPatternAnalyzer() *PatternAnalyzer {
	return &PatternAnalyzer{}
}

func (a *PatternAnalyzer) Name() string { return "pattern" }

func (a *PatternAnalyzer) Analyze(ds *state.Dataset, profile *models.DataProfile) []models.Insight {
	insights := []models.Insight{}

	for _, col := range profile.NumericColumns() {
		values := columnFloats(ds, ds.ColumnIndex(col))
		if len(values) < minRowsForPattern {
			continue
		}
		peaks := countPeaks(histogramOf(values, histogramBins), minPeakHeight(len(values)))
		if peaks >= 2 {
			insights = append(insights, models.Insight{
				Category:    models.CategoryPattern,
				Title:       fmt.Sprintf("Multimodal Distribution in %s", col),
				Description: fmt.Sprintf("%s shows %d distinct clusters or groups", col, peaks),
				Confidence:  0.75,
				Severity:    models.SeverityMedium,
				DataPoints: map[string]string{
					"column": col,
					"peaks":  fmt.Sprintf("%d", peaks),
				},
				Recommendation: fmt.Sprintf("Consider grouping or segmentation analysis for %s", col),
			})
		}
	}

	if profile.HasTemporal {
		insights = append(insights, models.Insight{
			Category:    models.CategoryPattern,
			Title:       "Temporal Data Detected",
			Description: "Data contains time-based information suitable for trend analysis",
			Confidence:  1.0,
			Severity:    models.SeverityLow,
			DataPoints: map[string]string{
				"type": "temporal",
			},
			Recommendation: "Consider time-series analysis or animated visualizations",
		})
	}

	return insights
}

// countPeaks counts interior histogram bins strictly higher than both
// neighbors, subject to a minimum prominence.
func countPeaks(hist []int, minHeight int) int {
	peaks := 0
	for i := 1; i < len(hist)-1; i++ {
		if hist[i] > hist[i-1] && hist[i] > hist[i+1] && hist[i] >= minHeight {
			peaks++
		}
	}
	return peaks
}

// minPeakHeight scales the prominence floor with the sample size so a
// couple of stray values never register as a mode.
func minPeakHeight(n int) int {
	h := n / 20
	if h < 2 {
		h = 2
	}
	return h
}
