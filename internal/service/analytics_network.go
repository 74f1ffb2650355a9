package service

import (
	"fmt"

	"github.com/migdam/graphs/internal/models"
	"github.com/migdam/graphs/internal/state"
)

// NetworkAnalyzer computes edge-list statistics: graph density, degree
// distribution and hub nodes. It only produces insights when the dataset
// carries source-like and target-like columns.
type NetworkAnalyzer struct{}

// NewNetworkAnalyzer creates the module.
func NewNetworkAnalyzer() *NetworkAnalyzer {
	return &NetworkAnalyzer{}
}

func (a *NetworkAnalyzer) Name() string { return "network" }

func (a *NetworkAnalyzer) Analyze(ds *state.Dataset, profile *models.DataProfile) []models.Insight {
	sourceCol := profile.IdentifierColumn(models.RoleSource)
	targetCol := profile.IdentifierColumn(models.RoleTarget)
	if sourceCol == "" || targetCol == "" {
		return nil
	}
	srcIdx := ds.ColumnIndex(sourceCol)
	tgtIdx := ds.ColumnIndex(targetCol)
	if srcIdx < 0 || tgtIdx < 0 {
		return nil
	}

	degrees := make(map[string]int)
	edges := 0
	for _, row := range ds.Rows {
		if srcIdx >= len(row) || tgtIdx >= len(row) {
			continue
		}
		if state.IsMissing(row[srcIdx]) || state.IsMissing(row[tgtIdx]) {
			continue
		}
		degrees[row[srcIdx]]++
		degrees[row[tgtIdx]]++
		edges++
	}
	nodes := len(degrees)
	if nodes < 2 || edges == 0 {
		return nil
	}

	insights := []models.Insight{}

	// Directed density: every edge row counts once.
	density := float64(edges) / float64(nodes*(nodes-1))
	level := "sparse"
	if density >= 0.5 {
		level = "dense"
	} else if density >= 0.1 {
		level = "moderate"
	}
	insights = append(insights, models.Insight{
		Category:    models.CategoryPattern,
		Title:       fmt.Sprintf("%s Network", titleCase(level)),
		Description: fmt.Sprintf("Network has %d nodes and %d edges (density: %.3f)", nodes, edges, density),
		Confidence:  1.0,
		Severity:    models.SeverityLow,
		DataPoints: map[string]string{
			"nodes":   fmt.Sprintf("%d", nodes),
			"edges":   fmt.Sprintf("%d", edges),
			"density": fmt.Sprintf("%.4f", density),
		},
		Recommendation: fmt.Sprintf("Network is %s, consider hub analysis", level),
	})

	degreeValues := make([]float64, 0, nodes)
	for _, d := range degrees {
		degreeValues = append(degreeValues, float64(d))
	}
	meanDeg := meanOf(degreeValues)
	stdDeg := stdDevOf(degreeValues)
	threshold := meanDeg + 2*stdDeg

	hubCount := 0
	topHub := ""
	topDegree := 0
	for node, d := range degrees {
		if float64(d) > threshold {
			hubCount++
			if d > topDegree || (d == topDegree && node < topHub) {
				topHub = node
				topDegree = d
			}
		}
	}
	if hubCount > 0 {
		insights = append(insights, models.Insight{
			Category: models.CategoryPattern,
			Title:    "Network Hubs Detected",
			Description: fmt.Sprintf("%d hub nodes identified, top hub: %s (%d connections)",
				hubCount, topHub, topDegree),
			Confidence: 0.95,
			Severity:   models.SeverityHigh,
			DataPoints: map[string]string{
				"hub_count":        fmt.Sprintf("%d", hubCount),
				"top_hub":          topHub,
				"top_connections":  fmt.Sprintf("%d", topDegree),
				"degree_threshold": fmt.Sprintf("%.2f", threshold),
			},
			Recommendation: "Focus on hub nodes for network influence analysis",
		})
	}

	return insights
}
