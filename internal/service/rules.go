package service

import (
	"strings"

	"github.com/migdam/graphs/internal/models"
)

// Visualization type tokens.
const (
	VizNetwork   = "network"
	VizScatter3D = "scatter3d"
	VizSurface3D = "surface3d"
	VizMesh3D    = "mesh3d"
	VizLine3D    = "line3d"
	VizBar3D     = "bar3d"
)

const (
	networkConfidence  = 0.95
	meshConfidence     = 0.85
	surfaceConfidence  = 0.75
	lineConfidence     = 0.80
	fallbackConfidence = 0.5
	minRowsForSurface  = 10
)

var spatialKeywords = []string{"x", "y", "z", "lat", "lon"}

// vizCandidate is a rule output before ranking. Lower priority wins ties.
type vizCandidate struct {
	Type       string
	Confidence float64
	priority   int
}

// VizRule is one independent pattern-detection rule over a profile.
type VizRule struct {
	Type     string
	Priority int
	Apply    func(p *models.DataProfile) (float64, bool)
}

// HeuristicRuleSet is the fixed table of visualization rules. New rules
// register here without touching the selector.
type HeuristicRuleSet struct {
	rules []VizRule
}

// NewHeuristicRuleSet builds the standard rule table. Tie-break priority is
// network > mesh > surface > scatter > line > bar.
func NewHeuristicRuleSet() *HeuristicRuleSet {
	return &HeuristicRuleSet{rules: []VizRule{
		{Type: VizNetwork, Priority: 0, Apply: networkRule},
		{Type: VizMesh3D, Priority: 1, Apply: meshRule},
		{Type: VizSurface3D, Priority: 2, Apply: surfaceRule},
		{Type: VizScatter3D, Priority: 3, Apply: scatterRule},
		{Type: VizLine3D, Priority: 4, Apply: lineRule},
		{Type: VizBar3D, Priority: 5, Apply: barRule},
	}}
}

// Evaluate runs every rule and collects the candidates whose condition holds.
func (rs *HeuristicRuleSet) Evaluate(p *models.DataProfile) []vizCandidate {
	candidates := []vizCandidate{}
	for _, rule := range rs.rules {
		if confidence, ok := rule.Apply(p); ok {
			candidates = append(candidates, vizCandidate{
				Type:       rule.Type,
				Confidence: confidence,
				priority:   rule.Priority,
			})
		}
	}
	return candidates
}

func networkRule(p *models.DataProfile) (float64, bool) {
	if !p.HasNetworkStructure {
		return 0, false
	}
	return networkConfidence, true
}

func scatterRule(p *models.DataProfile) (float64, bool) {
	k := len(p.NumericColumns())
	if k < 3 {
		return 0, false
	}
	confidence := 0.6 + 0.1*float64(k)
	if confidence > 0.9 {
		confidence = 0.9
	}
	return confidence, true
}

// surfaceRule fires when the dataset looks like a regular coordinate grid:
// some pair of numeric columns whose distinct-value counts multiply out to
// the exact row count (a Cartesian product over two coordinate axes).
func surfaceRule(p *models.DataProfile) (float64, bool) {
	numeric := p.NumericColumns()
	if len(numeric) < 3 || p.NumRows < minRowsForSurface {
		return 0, false
	}
	for a := 0; a < len(numeric); a++ {
		for b := a + 1; b < len(numeric); b++ {
			da := p.StatisticalSummary[numeric[a]].Distinct
			db := p.StatisticalSummary[numeric[b]].Distinct
			if da > 1 && db > 1 && da*db == p.NumRows {
				return surfaceConfidence, true
			}
		}
	}
	return 0, false
}

func meshRule(p *models.DataProfile) (float64, bool) {
	if len(p.NumericColumns()) < 3 {
		return 0, false
	}
	for _, c := range p.Columns {
		if matchesSpatialKeyword(c.Name) {
			return meshConfidence, true
		}
	}
	return 0, false
}

func lineRule(p *models.DataProfile) (float64, bool) {
	if !p.HasTemporal {
		return 0, false
	}
	return lineConfidence, true
}

// barRule is the categorical-plus-numeric fallback. Small, low-cardinality
// datasets get the higher end of the 0.6-0.7 band.
func barRule(p *models.DataProfile) (float64, bool) {
	if !p.HasCategorical || !p.HasNumeric {
		return 0, false
	}
	if len(p.CategoricalColumns()) <= 2 && p.NumRows <= 100 {
		return 0.7, true
	}
	return 0.6, true
}

// matchesSpatialKeyword checks a column name against the spatial keyword
// set. Single-letter axes must match exactly so that names like "max" do
// not count; lat/lon match by substring to cover latitude/longitude.
func matchesSpatialKeyword(name string) bool {
	lower := strings.ToLower(name)
	for _, kw := range spatialKeywords {
		if len(kw) == 1 {
			if lower == kw {
				return true
			}
		} else if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
