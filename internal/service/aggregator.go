package service

import (
	"sort"
	"strings"

	"github.com/migdam/graphs/internal/models"
)

const (
	maxKeyFindings     = 5
	maxRecommendations = 5
)

// InsightAggregator merges module outputs into a deterministic, deduplicated,
// confidence-ordered list.
type InsightAggregator struct{}

// NewInsightAggregator creates the aggregator.
func NewInsightAggregator() *InsightAggregator {
	return &InsightAggregator{}
}

// Aggregate sorts insights by confidence descending and removes near
// duplicates: same category, same data-point key set and same subject
// column. The higher-confidence record wins. The deterministic tie-break
// (category, then title) keeps output stable across module scheduling.
func (a *InsightAggregator) Aggregate(raw []models.Insight) []models.Insight {
	sorted := make([]models.Insight, len(raw))
	copy(sorted, raw)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Confidence != sorted[j].Confidence {
			return sorted[i].Confidence > sorted[j].Confidence
		}
		if sorted[i].Category != sorted[j].Category {
			return sorted[i].Category < sorted[j].Category
		}
		return sorted[i].Title < sorted[j].Title
	})

	seen := make(map[string]struct{}, len(sorted))
	out := []models.Insight{}
	for _, ins := range sorted {
		sig := insightSignature(ins)
		if _, dup := seen[sig]; dup {
			continue
		}
		seen[sig] = struct{}{}
		out = append(out, ins)
	}
	return out
}

// KeyFindings returns the titles of the top insights by confidence. The
// input must already be aggregated (sorted descending).
func (a *InsightAggregator) KeyFindings(insights []models.Insight) []string {
	findings := []string{}
	for _, ins := range insights {
		if len(findings) == maxKeyFindings {
			break
		}
		findings = append(findings, ins.Title)
	}
	return findings
}

// Titles returns the titles of all insights in the given category,
// preserving order.
func (a *InsightAggregator) Titles(insights []models.Insight, category models.InsightCategory) []string {
	titles := []string{}
	for _, ins := range insights {
		if ins.Category == category {
			titles = append(titles, ins.Title)
		}
	}
	return titles
}

// Recommendations collects the recommendation of every insight that has
// one, appends the extra dataset-level recommendations, deduplicates
// preserving order, and caps the list.
func (a *InsightAggregator) Recommendations(insights []models.Insight, extra []string) []string {
	seen := make(map[string]struct{})
	out := []string{}
	add := func(rec string) {
		if rec == "" || len(out) >= maxRecommendations {
			return
		}
		if _, dup := seen[rec]; dup {
			return
		}
		seen[rec] = struct{}{}
		out = append(out, rec)
	}
	for _, ins := range insights {
		add(ins.Recommendation)
	}
	for _, rec := range extra {
		add(rec)
	}
	return out
}

func insightSignature(ins models.Insight) string {
	keys := make([]string, 0, len(ins.DataPoints))
	for k := range ins.DataPoints {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return string(ins.Category) + "|" + strings.Join(keys, ",") + "|" + ins.DataPoints["column"]
}
