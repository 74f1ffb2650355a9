package service

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/migdam/graphs/internal/models"
	"github.com/migdam/graphs/internal/state"
)

const (
	varianceRatioThreshold = 0.3
	minGroupSize           = 3
	maxRelationshipColumns = 2
)

// RelationshipAnalyzer measures how strongly categorical columns separate
// numeric columns, via the ratio of between-group to total variance.
type RelationshipAnalyzer struct{}

// NewRelationshipAnalyzer creates the module.
func NewRelationshipAnalyzer() *RelationshipAnalyzer {
	return &RelationshipAnalyzer{}
}

func (a *RelationshipAnalyzer) Name() string { return "relationship" }

func (a *RelationshipAnalyzer) Analyze(ds *state.Dataset, profile *models.DataProfile) []models.Insight {
	insights := []models.Insight{}

	categorical := capStrings(profile.CategoricalColumns(), maxRelationshipColumns)
	numeric := capStrings(profile.NumericColumns(), maxRelationshipColumns)

	for _, catCol := range categorical {
		for _, numCol := range numeric {
			ratio, groups := betweenGroupVarianceRatio(ds, catCol, numCol)
			if groups < 2 || ratio <= varianceRatioThreshold {
				continue
			}
			insights = append(insights, models.Insight{
				Category:    models.CategoryRelationship,
				Title:       fmt.Sprintf("%s Influences %s", catCol, numCol),
				Description: fmt.Sprintf("%s groups show distinct %s values", catCol, numCol),
				Confidence:  math.Min(ratio, 1.0),
				Severity:    models.SeverityMedium,
				DataPoints: map[string]string{
					"categorical":    catCol,
					"numeric":        numCol,
					"variance_ratio": fmt.Sprintf("%.4f", ratio),
					"groups":         fmt.Sprintf("%d", groups),
				},
				Recommendation: fmt.Sprintf("Use %s for color/grouping in visualizations", catCol),
			})
		}
	}

	return insights
}

// betweenGroupVarianceRatio groups the numeric column by the categorical
// one and returns variance(group means) / variance(all values), counting
// only groups with enough members.
func betweenGroupVarianceRatio(ds *state.Dataset, catCol, numCol string) (float64, int) {
	catIdx := ds.ColumnIndex(catCol)
	numIdx := ds.ColumnIndex(numCol)
	if catIdx < 0 || numIdx < 0 {
		return 0, 0
	}

	groups := make(map[string][]float64)
	all := []float64{}
	for _, row := range ds.Rows {
		if catIdx >= len(row) || numIdx >= len(row) {
			continue
		}
		if state.IsMissing(row[catIdx]) || state.IsMissing(row[numIdx]) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[numIdx]), 64)
		if err != nil {
			continue
		}
		groups[row[catIdx]] = append(groups[row[catIdx]], v)
		all = append(all, v)
	}

	groupMeans := []float64{}
	for _, vals := range groups {
		if len(vals) >= minGroupSize {
			groupMeans = append(groupMeans, meanOf(vals))
		}
	}
	if len(groupMeans) < 2 {
		return 0, len(groupMeans)
	}

	overallVar := varianceOf(all)
	if overallVar == 0 {
		return 0, len(groupMeans)
	}
	return varianceOf(groupMeans) / overallVar, len(groupMeans)
}

func capStrings(values []string, max int) []string {
	if len(values) > max {
		return values[:max]
	}
	return values
}
