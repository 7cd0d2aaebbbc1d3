package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"creditfeatures/internal/dataset"
)

func TestGroupStatisticsSkipMissing(t *testing.T) {
	rows := []float64{1, dataset.Missing(), 3}
	ident := func(v float64) float64 { return v }

	assert.Equal(t, 4.0, groupSum(rows, ident))
	assert.Equal(t, 2.0, groupMean(rows, ident))
	assert.Equal(t, 1.0, groupMin(rows, ident))
	assert.Equal(t, 3.0, groupMax(rows, ident))
}

func TestGroupStatisticsEmptySubset(t *testing.T) {
	rows := []float64{dataset.Missing(), dataset.Missing()}
	ident := func(v float64) float64 { return v }

	// A sum over no usable values is zero; mean, min and max are missing.
	assert.Equal(t, 0.0, groupSum(rows, ident))
	assert.True(t, dataset.IsMissing(groupMean(rows, ident)))
	assert.True(t, dataset.IsMissing(groupMin(rows, ident)))
	assert.True(t, dataset.IsMissing(groupMax(rows, ident)))
}

func TestGroupDistinctIgnoresEmptyLabels(t *testing.T) {
	rows := []string{"Consumer credit", "", "Car loan", "Consumer credit"}
	assert.Equal(t, 2.0, groupDistinct(rows, func(s string) string { return s }))
}

func TestRatioGuards(t *testing.T) {
	tests := []struct {
		name     string
		num, den float64
		want     float64
		missing  bool
	}{
		{name: "plain division", num: 1, den: 2, want: 0.5},
		{name: "zero denominator", num: 1, den: 0, missing: true},
		{name: "missing denominator", num: 1, den: dataset.Missing(), missing: true},
		{name: "missing numerator", num: dataset.Missing(), den: 2, missing: true},
		{name: "zero over zero", num: 0, den: 0, missing: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ratio(tt.num, tt.den)
			if tt.missing {
				assert.True(t, dataset.IsMissing(got))
				return
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGroupByApplicantOrdersKeys(t *testing.T) {
	type row struct{ id int64 }
	rows := []row{{300}, {100}, {200}, {100}}

	groups, keys := groupByApplicant(rows, func(r row) int64 { return r.id })

	assert.Equal(t, []int64{100, 200, 300}, keys)
	assert.Len(t, groups[100], 2)
	assert.Len(t, groups[200], 1)
}
