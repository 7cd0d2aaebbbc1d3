package dataset

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditfeatures/internal/errors"
)

func TestTableAddAndAccess(t *testing.T) {
	table := NewTable("applicants", 3)

	require.NoError(t, table.AddFloats(KeyColumn, []float64{100001, 100002, 100003}))
	require.NoError(t, table.AddFloats("AMT_CREDIT", []float64{500000, Missing(), 250000}))
	require.NoError(t, table.AddStrings("NAME_EDUCATION_TYPE", []string{"Higher education", "", "Lower secondary"}))
	require.NoError(t, table.AddBools("FLAG", []bool{true, false, true}))

	assert.Equal(t, 3, table.NumRows())
	assert.Equal(t, 4, table.NumCols())
	assert.Equal(t, []string{KeyColumn, "AMT_CREDIT", "NAME_EDUCATION_TYPE", "FLAG"}, table.ColumnNames())

	credit, err := table.Floats("AMT_CREDIT")
	require.NoError(t, err)
	assert.True(t, IsMissing(credit[1]))

	_, err = table.Floats("NAME_EDUCATION_TYPE")
	assert.Error(t, err, "kind mismatch must be rejected")
}

func TestTableAddRejectsBadColumns(t *testing.T) {
	table := NewTable("applicants", 2)
	require.NoError(t, table.AddFloats("A", []float64{1, 2}))

	assert.Error(t, table.AddFloats("A", []float64{3, 4}), "duplicate name")
	assert.Error(t, table.AddFloats("B", []float64{1}), "row count mismatch")
}

func TestTableRequire(t *testing.T) {
	table := NewTable("train", 1)
	require.NoError(t, table.AddFloats("A", []float64{1}))

	assert.NoError(t, table.Require("A"))

	err := table.Require("A", "B", "C")
	require.Error(t, err)
	assert.True(t, errors.IsSchemaError(err))
	assert.Contains(t, err.Error(), "B, C")
}

func TestTableKeys(t *testing.T) {
	tests := []struct {
		name    string
		keys    []float64
		want    []int64
		wantErr bool
	}{
		{name: "integral keys", keys: []float64{100001, 100002}, want: []int64{100001, 100002}},
		{name: "missing key", keys: []float64{100001, Missing()}, wantErr: true},
		{name: "fractional key", keys: []float64{100001, 100002.5}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTable("train", len(tt.keys))
			require.NoError(t, table.AddFloats(KeyColumn, tt.keys))

			keys, err := table.Keys()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, keys)
		})
	}
}

func TestSanitize(t *testing.T) {
	assert.Equal(t, 2.5, Sanitize(2.5))
	assert.True(t, IsMissing(Sanitize(math.Inf(1))))
	assert.True(t, IsMissing(Sanitize(math.Inf(-1))))
	assert.True(t, IsMissing(Sanitize(math.NaN())))
}
