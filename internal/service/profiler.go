package service

import (
	"math"

	"github.com/migdam/graphs/internal/models"
	"github.com/migdam/graphs/internal/state"
)

const (
	strongCorrelationThreshold   = 0.7
	moderateCorrelationThreshold = 0.4
	minPairsForCorrelation       = 3
)

// DataProfiler aggregates per-column classifications into dataset-level
// facts and fills in the ranked visualization suggestions.
type DataProfiler struct {
	classifier *ColumnClassifier
	selector   *VisualizationSelector

	// Pairwise correlation is O(m²·n); columns beyond this cap are skipped
	// and the truncation is reported on the profile.
	maxCorrelationColumns int
}

// NewDataProfiler creates a profiler that ranks suggestions through the
// given selector.
func NewDataProfiler(selector *VisualizationSelector, maxCorrelationColumns int) *DataProfiler {
	if maxCorrelationColumns <= 0 {
		maxCorrelationColumns = 25
	}
	return &DataProfiler{
		classifier:            NewColumnClassifier(),
		selector:              selector,
		maxCorrelationColumns: maxCorrelationColumns,
	}
}

// Build classifies the dataset and returns its complete profile. The only
// fatal condition is a structurally invalid dataset.
func (p *DataProfiler) Build(ds *state.Dataset) (*models.DataProfile, error) {
	if err := ds.Validate(); err != nil {
		return nil, err
	}

	descriptors := p.classifier.Classify(ds)

	profile := &models.DataProfile{
		NumRows:            ds.NumRows(),
		NumColumns:         ds.NumColumns(),
		Columns:            descriptors,
		Relationships:      []models.Relationship{},
		StatisticalSummary: make(map[string]models.NumericSummary),
	}

	hasSource := false
	hasTarget := false
	numericIdx := []int{}

	for i, desc := range descriptors {
		switch desc.Kind {
		case models.KindNumeric:
			profile.HasNumeric = true
			numericIdx = append(numericIdx, i)
		case models.KindCategorical:
			profile.HasCategorical = true
		case models.KindTemporal:
			profile.HasTemporal = true
		}
		switch desc.IdentifierRole {
		case models.RoleSource:
			hasSource = true
		case models.RoleTarget:
			hasTarget = true
		}
	}
	profile.HasNetworkStructure = hasSource && hasTarget

	for _, idx := range numericIdx {
		profile.StatisticalSummary[ds.Headers[idx]] = summarizeColumn(ds, idx)
	}

	corrIdx := numericIdx
	if len(corrIdx) > p.maxCorrelationColumns {
		corrIdx = corrIdx[:p.maxCorrelationColumns]
		profile.CorrelationTruncated = true
	}
	profile.Relationships = detectRelationships(ds, corrIdx)

	ranked := p.selector.Rank(profile)
	profile.SuggestedVisualizations = make([]string, len(ranked))
	profile.ConfidenceScores = make(map[string]float64, len(ranked))
	for i, cand := range ranked {
		profile.SuggestedVisualizations[i] = cand.Type
		profile.ConfidenceScores[cand.Type] = cand.Confidence
	}

	return profile, nil
}

// summarizeColumn computes the numeric summary of one column.
func summarizeColumn(ds *state.Dataset, colIdx int) models.NumericSummary {
	values := columnFloats(ds, colIdx)
	if len(values) == 0 {
		return models.NumericSummary{}
	}
	sorted := sortedCopy(values)
	return models.NumericSummary{
		Mean:     meanOf(values),
		Std:      stdDevOf(values),
		Min:      sorted[0],
		Max:      sorted[len(sorted)-1],
		Median:   quantile(sorted, 0.5),
		Distinct: distinctCount(ds, colIdx),
	}
}

// detectRelationships computes Pearson correlation for every unordered pair
// of the given numeric columns and records moderate and strong pairs.
func detectRelationships(ds *state.Dataset, numericIdx []int) []models.Relationship {
	relationships := []models.Relationship{}
	for a := 0; a < len(numericIdx); a++ {
		for b := a + 1; b < len(numericIdx); b++ {
			x, y := pairedFloats(ds, numericIdx[a], numericIdx[b])
			if len(x) < minPairsForCorrelation {
				continue
			}
			r := pearson(x, y)
			if math.Abs(r) <= moderateCorrelationThreshold {
				continue
			}
			strength := "moderate"
			if math.Abs(r) > strongCorrelationThreshold {
				strength = "strong"
			}
			direction := "positive"
			if r < 0 {
				direction = "negative"
			}
			relationships = append(relationships, models.Relationship{
				Column1:   ds.Headers[numericIdx[a]],
				Column2:   ds.Headers[numericIdx[b]],
				Strength:  strength,
				Direction: direction,
				R:         r,
			})
		}
	}
	return relationships
}
