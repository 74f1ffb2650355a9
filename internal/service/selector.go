package service

import (
	"sort"

	"go.uber.org/zap"

	"github.com/migdam/graphs/internal/models"
)

// VisualizationSelector ranks rule outputs and applies the optional user
// preference override.
type VisualizationSelector struct {
	rules  *HeuristicRuleSet
	logger *zap.Logger
}

// NewVisualizationSelector creates a selector over the standard rule set.
func NewVisualizationSelector(logger *zap.Logger) *VisualizationSelector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VisualizationSelector{
		rules:  NewHeuristicRuleSet(),
		logger: logger,
	}
}

// Rank evaluates every rule against the profile and returns the candidates
// sorted by confidence descending, ties broken by the fixed rule priority.
// When no rule fires the generic scatter fallback is returned.
func (s *VisualizationSelector) Rank(p *models.DataProfile) []models.VizCandidate {
	candidates := s.rules.Evaluate(p)
	if len(candidates) == 0 {
		return []models.VizCandidate{{Type: VizScatter3D, Confidence: fallbackConfidence}}
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].priority < candidates[j].priority
	})
	ranked := make([]models.VizCandidate, len(candidates))
	for i, c := range candidates {
		ranked[i] = models.VizCandidate{Type: c.Type, Confidence: c.Confidence}
	}
	return ranked
}

// Decide returns the chosen visualization type and its confidence. An
// explicit preference wins whenever it appears in the ranking, regardless
// of rank; an unknown preference falls back to the top-ranked type.
func (s *VisualizationSelector) Decide(p *models.DataProfile, preference string) (string, float64) {
	if preference != "" {
		if score, ok := p.ConfidenceScores[preference]; ok {
			return preference, score
		}
		s.logger.Warn("unknown visualization preference, using ranked choice",
			zap.String("preference", preference))
	}
	top := p.SuggestedVisualizations[0]
	return top, p.ConfidenceScores[top]
}

// SuggestAxes maps the chosen type to the columns the heuristic implies
// should drive its axes. Numeric axes default to the highest-variance
// numeric columns.
func (s *VisualizationSelector) SuggestAxes(p *models.DataProfile, vizType string) models.AxisSuggestion {
	axes := models.AxisSuggestion{}
	numeric := numericByVariance(p)

	switch vizType {
	case VizNetwork:
		axes.Source = p.IdentifierColumn(models.RoleSource)
		axes.Target = p.IdentifierColumn(models.RoleTarget)
		if len(numeric) > 0 {
			axes.Weight = numeric[0]
		}
	case VizLine3D:
		temporal := p.TemporalColumns()
		if len(temporal) > 0 {
			axes.Time = temporal[0]
		}
		if len(numeric) > 0 {
			axes.Y = numeric[0]
		}
		if len(numeric) > 1 {
			axes.Z = numeric[1]
		}
	case VizBar3D:
		categorical := p.CategoricalColumns()
		if len(categorical) > 0 {
			axes.Category = categorical[0]
		}
		if len(numeric) > 0 {
			axes.Value = numeric[0]
		}
	default:
		// scatter3d, surface3d, mesh3d and the fallback all want three
		// numeric axes.
		if len(numeric) > 0 {
			axes.X = numeric[0]
		}
		if len(numeric) > 1 {
			axes.Y = numeric[1]
		}
		if len(numeric) > 2 {
			axes.Z = numeric[2]
		}
	}
	return axes
}

// numericByVariance returns the numeric column names sorted by descending
// standard deviation, declared order breaking ties.
func numericByVariance(p *models.DataProfile) []string {
	names := p.NumericColumns()
	sort.SliceStable(names, func(i, j int) bool {
		return p.StatisticalSummary[names[i]].Std > p.StatisticalSummary[names[j]].Std
	})
	return names
}
