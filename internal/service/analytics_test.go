package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migdam/graphs/internal/models"
	"github.com/migdam/graphs/internal/state"
)

func findInsight(insights []models.Insight, title string) *models.Insight {
	for i := range insights {
		if insights[i].Title == title {
			return &insights[i]
		}
	}
	return nil
}

func TestStatisticalSkewedDistribution(t *testing.T) {
	ds := singleColumnDataset("v", []string{"1", "1", "1", "1", "1", "1", "1", "1", "1", "10"})
	insights := NewStatisticalAnalyzer().Analyze(ds, buildProfile(t, ds))

	ins := findInsight(insights, "Skewed Distribution in v")
	require.NotNil(t, ins)
	assert.Equal(t, models.CategoryStatistical, ins.Category)
	assert.Equal(t, models.SeverityHigh, ins.Severity)
	assert.Equal(t, 1.0, ins.Confidence)
	assert.Contains(t, ins.Description, "right-skewed")
}

func TestStatisticalHighVariability(t *testing.T) {
	values := []string{}
	for i := 0; i < 10; i++ {
		if i%2 == 0 {
			values = append(values, "1")
		} else {
			values = append(values, "100")
		}
	}
	ds := singleColumnDataset("v", values)
	insights := NewStatisticalAnalyzer().Analyze(ds, buildProfile(t, ds))

	ins := findInsight(insights, "High Variability in v")
	require.NotNil(t, ins)
	assert.Equal(t, 0.9, ins.Confidence)
	assert.Equal(t, models.SeverityMedium, ins.Severity)
}

func TestStatisticalQuietOnUniformData(t *testing.T) {
	values := []string{}
	for i := 100; i < 130; i++ {
		values = append(values, fmt.Sprintf("%d", i))
	}
	ds := singleColumnDataset("v", values)
	insights := NewStatisticalAnalyzer().Analyze(ds, buildProfile(t, ds))
	assert.Empty(t, insights)
}

func TestPatternMultimodalDistribution(t *testing.T) {
	// Two interior clusters at 35 and 75 over a 0-100 range.
	values := []string{"0", "100"}
	for i := 0; i < 15; i++ {
		values = append(values, "35", "75")
	}
	ds := singleColumnDataset("v", values)
	insights := NewPatternAnalyzer().Analyze(ds, buildProfile(t, ds))

	ins := findInsight(insights, "Multimodal Distribution in v")
	require.NotNil(t, ins)
	assert.Equal(t, models.CategoryPattern, ins.Category)
	assert.Equal(t, 0.75, ins.Confidence)
	assert.Equal(t, "2", ins.DataPoints["peaks"])
}

func TestPatternTemporalDetected(t *testing.T) {
	ds := &state.Dataset{
		Headers: []string{"day", "value"},
		Rows: [][]string{
			{"2024-01-01", "1"},
			{"2024-01-02", "2"},
		},
	}
	insights := NewPatternAnalyzer().Analyze(ds, buildProfile(t, ds))

	ins := findInsight(insights, "Temporal Data Detected")
	require.NotNil(t, ins)
	assert.Equal(t, 1.0, ins.Confidence)
	assert.Equal(t, models.SeverityLow, ins.Severity)
}

func TestTrendCorrelationInsight(t *testing.T) {
	ds := &state.Dataset{Headers: []string{"x1", "x2"}}
	for i := 1; i <= 12; i++ {
		ds.Rows = append(ds.Rows, []string{fmt.Sprintf("%d", i), fmt.Sprintf("%d", 2*i)})
	}
	profile := buildProfile(t, ds)
	insights := NewTrendAnalyzer().Analyze(ds, profile)

	ins := findInsight(insights, "Strong Positive Correlation")
	require.NotNil(t, ins)
	assert.Equal(t, models.CategoryTrend, ins.Category)
	assert.InDelta(t, 1.0, ins.Confidence, 1e-9)
	assert.Equal(t, models.SeverityHigh, ins.Severity)
}

func TestTrendMonotonic(t *testing.T) {
	// x1 is a strictly increasing ordinal index; x2 tracks it linearly.
	ds := &state.Dataset{Headers: []string{"x1", "x2"}}
	for i := 1; i <= 12; i++ {
		ds.Rows = append(ds.Rows, []string{fmt.Sprintf("%d", i), fmt.Sprintf("%d", 3*i+1)})
	}
	profile := buildProfile(t, ds)
	insights := NewTrendAnalyzer().Analyze(ds, profile)

	ins := findInsight(insights, "Monotonic Trend in x2")
	require.NotNil(t, ins)
	assert.Contains(t, ins.Description, "increasing")
	assert.InDelta(t, 1.0, ins.Confidence, 1e-9)
}

func TestTrendMonotonicAgainstTemporalOrder(t *testing.T) {
	ds := &state.Dataset{Headers: []string{"day", "sales"}}
	for i := 1; i <= 12; i++ {
		ds.Rows = append(ds.Rows, []string{
			fmt.Sprintf("2024-01-%02d", i), fmt.Sprintf("%d", 100-5*i),
		})
	}
	profile := buildProfile(t, ds)
	insights := NewTrendAnalyzer().Analyze(ds, profile)

	ins := findInsight(insights, "Monotonic Trend in sales")
	require.NotNil(t, ins)
	assert.Contains(t, ins.Description, "decreasing")
}

func TestRelationshipCategoricalInfluence(t *testing.T) {
	ds := &state.Dataset{
		Headers: []string{"group", "value"},
		Rows: [][]string{
			{"a", "1"}, {"a", "2"}, {"a", "3"},
			{"b", "101"}, {"b", "102"}, {"b", "103"},
		},
	}
	profile := buildProfile(t, ds)
	insights := NewRelationshipAnalyzer().Analyze(ds, profile)

	ins := findInsight(insights, "group Influences value")
	require.NotNil(t, ins)
	assert.Equal(t, models.CategoryRelationship, ins.Category)
	assert.Equal(t, 1.0, ins.Confidence)
	assert.Equal(t, "2", ins.DataPoints["groups"])
}

func TestRelationshipQuietWithoutSeparation(t *testing.T) {
	ds := &state.Dataset{
		Headers: []string{"group", "value"},
		Rows: [][]string{
			{"a", "1"}, {"a", "2"}, {"a", "3"},
			{"b", "1"}, {"b", "2"}, {"b", "3"},
		},
	}
	insights := NewRelationshipAnalyzer().Analyze(ds, buildProfile(t, ds))
	assert.Empty(t, insights)
}

func TestNetworkDensityScenario(t *testing.T) {
	ds := &state.Dataset{
		Headers: []string{"source", "target", "weight"},
		Rows: [][]string{
			{"A", "B", "5"},
			{"B", "C", "3"},
		},
	}
	profile := buildProfile(t, ds)
	insights := NewNetworkAnalyzer().Analyze(ds, profile)

	// 3 nodes, 2 edges: density 2/6 -> moderate.
	ins := findInsight(insights, "Moderate Network")
	require.NotNil(t, ins)
	assert.Equal(t, "3", ins.DataPoints["nodes"])
	assert.Equal(t, "2", ins.DataPoints["edges"])
	assert.Equal(t, "0.3333", ins.DataPoints["density"])

	assert.Nil(t, findInsight(insights, "Network Hubs Detected"))
}

func TestNetworkHubDetection(t *testing.T) {
	ds := &state.Dataset{Headers: []string{"source", "target"}}
	for i := 1; i <= 8; i++ {
		ds.Rows = append(ds.Rows, []string{"hub", fmt.Sprintf("n%d", i)})
	}
	profile := buildProfile(t, ds)
	insights := NewNetworkAnalyzer().Analyze(ds, profile)

	ins := findInsight(insights, "Network Hubs Detected")
	require.NotNil(t, ins)
	assert.Equal(t, 0.95, ins.Confidence)
	assert.Equal(t, "hub", ins.DataPoints["top_hub"])
	assert.Equal(t, "8", ins.DataPoints["top_connections"])
}

func TestNetworkModuleQuietWithoutEdgeColumns(t *testing.T) {
	ds := singleColumnDataset("v", []string{"1", "2", "3"})
	insights := NewNetworkAnalyzer().Analyze(ds, buildProfile(t, ds))
	assert.Nil(t, insights)
}

// fake modules for the runner tests

type stubModule struct {
	name     string
	insights []models.Insight
}

func (m stubModule) Name() string { return m.name }
func (m stubModule) Analyze(*state.Dataset, *models.DataProfile) []models.Insight {
	return m.insights
}

type panicModule struct{}

func (panicModule) Name() string { return "broken" }
func (panicModule) Analyze(*state.Dataset, *models.DataProfile) []models.Insight {
	panic("boom")
}

type slowModule struct{ delay time.Duration }

func (m slowModule) Name() string { return "slow" }
func (m slowModule) Analyze(*state.Dataset, *models.DataProfile) []models.Insight {
	time.Sleep(m.delay)
	return nil
}

func TestRunnerRecoversModulePanic(t *testing.T) {
	ds := singleColumnDataset("v", []string{"1", "2"})
	profile := buildProfile(t, ds)

	good := stubModule{name: "good", insights: []models.Insight{{
		Category: models.CategoryStatistical, Title: "ok", Confidence: 0.5, Severity: models.SeverityLow,
	}}}
	runner := NewModuleRunnerWith(nil, panicModule{}, good)

	insights, truncated := runner.Run(context.Background(), ds, profile, VizScatter3D)
	assert.False(t, truncated)
	require.Len(t, insights, 1)
	assert.Equal(t, "ok", insights[0].Title)
}

func TestRunnerHonorsTimeBudget(t *testing.T) {
	ds := singleColumnDataset("v", []string{"1", "2"})
	profile := buildProfile(t, ds)

	runner := NewModuleRunnerWith(nil, slowModule{delay: 500 * time.Millisecond})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	insights, truncated := runner.Run(ctx, ds, profile, VizScatter3D)
	assert.True(t, truncated)
	assert.Empty(t, insights)
	assert.Less(t, time.Since(start), 400*time.Millisecond)
}

func TestRunnerGatesNetworkModule(t *testing.T) {
	ds := singleColumnDataset("v", []string{"1", "2", "3"})
	profile := buildProfile(t, ds)

	counted := 0
	runner := NewModuleRunnerWith(nil,
		stubModule{name: "network"},
		stubModule{name: "counter", insights: []models.Insight{{Title: "seen"}}},
	)
	insights, _ := runner.Run(context.Background(), ds, profile, VizScatter3D)
	for _, ins := range insights {
		if ins.Title == "seen" {
			counted++
		}
	}
	assert.Equal(t, 1, counted)

	// The network module does run when the caller chose the network type.
	netRunner := NewModuleRunnerWith(nil,
		stubModule{name: "network", insights: []models.Insight{{Title: "net"}}},
	)
	insights, _ = netRunner.Run(context.Background(), ds, profile, VizNetwork)
	require.Len(t, insights, 1)
	assert.Equal(t, "net", insights[0].Title)
}
