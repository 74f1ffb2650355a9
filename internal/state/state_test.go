package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateEmptyDataset(t *testing.T) {
	ds := &Dataset{}
	assert.ErrorIs(t, ds.Validate(), ErrEmptyDataset)

	ds = &Dataset{Headers: []string{"a"}}
	assert.ErrorIs(t, ds.Validate(), ErrEmptyDataset)

	ds = &Dataset{Rows: [][]string{{"1"}}}
	assert.ErrorIs(t, ds.Validate(), ErrEmptyDataset)
}

func TestValidateRaggedDataset(t *testing.T) {
	ds := &Dataset{
		Headers: []string{"a", "b"},
		Rows:    [][]string{{"1", "2"}, {"3"}},
	}
	assert.ErrorIs(t, ds.Validate(), ErrRaggedDataset)
}

func TestValidateOK(t *testing.T) {
	ds := &Dataset{
		Headers: []string{"a", "b"},
		Rows:    [][]string{{"1", "2"}, {"3", "4"}},
	}
	require.NoError(t, ds.Validate())
	assert.Equal(t, 2, ds.NumRows())
	assert.Equal(t, 2, ds.NumColumns())
}

func TestColumnAccess(t *testing.T) {
	ds := &Dataset{
		Headers: []string{"a", "b"},
		Rows:    [][]string{{"1", "x"}, {"2", "y"}},
	}
	assert.Equal(t, []string{"x", "y"}, ds.Column(1))
	assert.Equal(t, 1, ds.ColumnIndex("b"))
	assert.Equal(t, -1, ds.ColumnIndex("missing"))
}

func TestIsMissing(t *testing.T) {
	for _, v := range []string{"", "null", "NULL", "None"} {
		assert.True(t, IsMissing(v), v)
	}
	assert.False(t, IsMissing("0"))
	assert.False(t, IsMissing("n/a")) // only the fixed token set counts
}

func TestAppStateRegistry(t *testing.T) {
	st := NewAppState()
	ds := &Dataset{Name: "sales", Headers: []string{"a"}, Rows: [][]string{{"1"}}}

	st.AddDataset("id-1", ds)
	assert.Same(t, ds, st.GetDataset("id-1"))
	assert.Nil(t, st.GetDataset("nope"))
	assert.Equal(t, map[string]string{"id-1": "sales"}, st.ListDatasets())

	st.RemoveDataset("id-1")
	assert.Nil(t, st.GetDataset("id-1"))
}
