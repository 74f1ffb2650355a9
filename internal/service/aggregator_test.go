package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migdam/graphs/internal/models"
)

func TestAggregateSortsByConfidence(t *testing.T) {
	raw := []models.Insight{
		{Category: models.CategoryTrend, Title: "c", Confidence: 0.5},
		{Category: models.CategoryAnomaly, Title: "a", Confidence: 0.9},
		{Category: models.CategoryPattern, Title: "b", Confidence: 0.7},
	}
	out := NewInsightAggregator().Aggregate(raw)

	require.Len(t, out, 3)
	assert.Equal(t, "a", out[0].Title)
	assert.Equal(t, "b", out[1].Title)
	assert.Equal(t, "c", out[2].Title)
}

func TestAggregateTieBreakIsDeterministic(t *testing.T) {
	raw := []models.Insight{
		{Category: models.CategoryTrend, Title: "z", Confidence: 0.8},
		{Category: models.CategoryAnomaly, Title: "y", Confidence: 0.8, DataPoints: map[string]string{"column": "b"}},
		{Category: models.CategoryAnomaly, Title: "x", Confidence: 0.8, DataPoints: map[string]string{"column": "a"}},
	}
	// Equal confidence sorts by category, then title, regardless of the
	// order the modules happened to finish in.
	out := NewInsightAggregator().Aggregate(raw)
	require.Len(t, out, 3)
	assert.Equal(t, "x", out[0].Title)
	assert.Equal(t, "y", out[1].Title)
	assert.Equal(t, "z", out[2].Title)

	reversed := []models.Insight{raw[2], raw[1], raw[0]}
	again := NewInsightAggregator().Aggregate(reversed)
	assert.Equal(t, out, again)
}

func TestAggregateDropsNearDuplicates(t *testing.T) {
	raw := []models.Insight{
		{
			Category:   models.CategoryAnomaly,
			Title:      "Outliers Detected in v",
			Confidence: 0.9,
			DataPoints: map[string]string{"column": "v", "outlier_count": "3"},
		},
		{
			Category:   models.CategoryAnomaly,
			Title:      "Outliers Detected in v (rerun)",
			Confidence: 0.6,
			DataPoints: map[string]string{"column": "v", "outlier_count": "2"},
		},
		{
			Category:   models.CategoryAnomaly,
			Title:      "Outliers Detected in w",
			Confidence: 0.6,
			DataPoints: map[string]string{"column": "w", "outlier_count": "1"},
		},
	}
	out := NewInsightAggregator().Aggregate(raw)

	// The two v-column anomaly insights collapse to the higher-confidence
	// one; the w-column insight is distinct.
	require.Len(t, out, 2)
	assert.Equal(t, "Outliers Detected in v", out[0].Title)
	assert.Equal(t, "Outliers Detected in w", out[1].Title)
}

func TestAggregateKeepsDifferentCategories(t *testing.T) {
	raw := []models.Insight{
		{
			Category:   models.CategoryStatistical,
			Title:      "Skewed Distribution in v",
			Confidence: 0.8,
			DataPoints: map[string]string{"column": "v"},
		},
		{
			Category:   models.CategoryAnomaly,
			Title:      "Outliers Detected in v",
			Confidence: 0.8,
			DataPoints: map[string]string{"column": "v"},
		},
	}
	out := NewInsightAggregator().Aggregate(raw)
	assert.Len(t, out, 2)
}

func TestKeyFindingsCapped(t *testing.T) {
	insights := []models.Insight{}
	for i := 0; i < 8; i++ {
		insights = append(insights, models.Insight{Title: fmt.Sprintf("finding %d", i)})
	}
	findings := NewInsightAggregator().KeyFindings(insights)

	require.Len(t, findings, 5)
	assert.Equal(t, "finding 0", findings[0])
	assert.Equal(t, "finding 4", findings[4])
}

func TestRecommendationsDedupedAndCapped(t *testing.T) {
	insights := []models.Insight{
		{Recommendation: "rec a"},
		{Recommendation: "rec a"},
		{Recommendation: "rec b"},
		{Recommendation: ""},
		{Recommendation: "rec c"},
		{Recommendation: "rec d"},
	}
	extra := []string{"rec b", "rec e", "rec f"}
	recs := NewInsightAggregator().Recommendations(insights, extra)

	assert.Equal(t, []string{"rec a", "rec b", "rec c", "rec d", "rec e"}, recs)
}

func TestTitlesFiltersByCategory(t *testing.T) {
	insights := []models.Insight{
		{Category: models.CategoryPattern, Title: "p1"},
		{Category: models.CategoryTrend, Title: "t1"},
		{Category: models.CategoryPattern, Title: "p2"},
	}
	titles := NewInsightAggregator().Titles(insights, models.CategoryPattern)
	assert.Equal(t, []string{"p1", "p2"}, titles)
}
