package service

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/migdam/graphs/internal/models"
	"github.com/migdam/graphs/internal/state"
)

func singleColumnDataset(name string, values []string) *state.Dataset {
	ds := &state.Dataset{Headers: []string{name}}
	for _, v := range values {
		ds.Rows = append(ds.Rows, []string{v})
	}
	return ds
}

func TestAnomalyDetectsDocumentedOutlier(t *testing.T) {
	// [1,2,3,4,100]: Q1=2, Q3=4, IQR=2, upper bound 7 -> 100 is flagged.
	ds := singleColumnDataset("v", []string{"1", "2", "3", "4", "100"})
	profile := buildProfile(t, ds)

	insights := NewAnomalyAnalyzer().Analyze(ds, profile)
	require.Len(t, insights, 1)

	ins := insights[0]
	assert.Equal(t, models.CategoryAnomaly, ins.Category)
	assert.Equal(t, "Outliers Detected in v", ins.Title)
	assert.Equal(t, models.SeverityHigh, ins.Severity) // 20% > 10%
	assert.Equal(t, "1", ins.DataPoints["outlier_count"])
	assert.Equal(t, "7.0000", ins.DataPoints["upper_bound"])
	assert.Equal(t, "-1.0000", ins.DataPoints["lower_bound"])
}

func TestAnomalyBoundaryFractionDoesNotFire(t *testing.T) {
	// Exactly 5% outliers (1 of 20) must not fire; just above (1 of 19)
	// must.
	exact := []string{}
	for i := 1; i <= 19; i++ {
		exact = append(exact, fmt.Sprintf("%d", i))
	}
	exact = append(exact, "1000")
	ds := singleColumnDataset("v", exact)
	insights := NewAnomalyAnalyzer().Analyze(ds, buildProfile(t, ds))
	assert.Empty(t, insights)

	above := []string{}
	for i := 1; i <= 18; i++ {
		above = append(above, fmt.Sprintf("%d", i))
	}
	above = append(above, "1000")
	ds = singleColumnDataset("v", above)
	insights = NewAnomalyAnalyzer().Analyze(ds, buildProfile(t, ds))
	require.Len(t, insights, 1)
	assert.Equal(t, models.SeverityMedium, insights[0].Severity)
}

func TestAnomalySkipsTinyColumns(t *testing.T) {
	ds := singleColumnDataset("v", []string{"1", "2", "100"})
	insights := NewAnomalyAnalyzer().Analyze(ds, buildProfile(t, ds))
	assert.Empty(t, insights)
}

func TestAnomalyCleanColumnQuiet(t *testing.T) {
	values := []string{}
	for i := 1; i <= 30; i++ {
		values = append(values, fmt.Sprintf("%d", i))
	}
	ds := singleColumnDataset("v", values)
	insights := NewAnomalyAnalyzer().Analyze(ds, buildProfile(t, ds))
	assert.Empty(t, insights)
}
