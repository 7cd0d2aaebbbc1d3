package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditfeatures/internal/dataset"
)

func sampleTable(t *testing.T) *dataset.Table {
	t.Helper()
	table := dataset.NewTable("features_train", 3)
	require.NoError(t, table.AddFloats(dataset.KeyColumn, []float64{100001, 100002, 100003}))
	require.NoError(t, table.AddFloats("CREDIT_INCOME_RATIO", []float64{5, dataset.Missing(), 0.25}))
	require.NoError(t, table.AddStrings("AGE_BAND", []string{"25-35", "", "65+"}))
	require.NoError(t, table.AddBools("DAYS_EMPLOYED_ANOM", []bool{false, true, false}))
	return table
}

func TestWriteTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "features_train.csv")

	w := NewCSVWriter()
	w.BOMPrefix = false
	require.NoError(t, w.WriteTable(path, sampleTable(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"SK_ID_CURR,CREDIT_INCOME_RATIO,AGE_BAND,DAYS_EMPLOYED_ANOM\n"+
			"100001,5,25-35,false\n"+
			"100002,,,true\n"+
			"100003,0.25,65+,false\n",
		string(data))
}

func TestWriteTableBOM(t *testing.T) {
	path := filepath.Join(t.TempDir(), "features_train.csv")

	require.NoError(t, NewCSVWriter().WriteTable(path, sampleTable(t)))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, len(data) > 3)
	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, data[:3])
}

func TestWriteTableNoExponentNotation(t *testing.T) {
	table := dataset.NewTable("features_train", 1)
	require.NoError(t, table.AddFloats(dataset.KeyColumn, []float64{456221}))
	require.NoError(t, table.AddFloats("AMT_CREDIT", []float64{2245500}))

	path := filepath.Join(t.TempDir(), "features_train.csv")
	w := NewCSVWriter()
	w.BOMPrefix = false
	require.NoError(t, w.WriteTable(path, table))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "456221,2245500")
	assert.NotContains(t, string(data), "e+", "identifiers and amounts render in plain notation")
}

func TestWriteTableLeavesNoTempFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "features_train.csv")

	require.NoError(t, NewCSVWriter().WriteTable(path, sampleTable(t)))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "features_train.csv", entries[0].Name())
}

func TestWriteTableDeterministic(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "a.csv")
	second := filepath.Join(dir, "b.csv")

	w := NewCSVWriter()
	require.NoError(t, w.WriteTable(first, sampleTable(t)))
	require.NoError(t, w.WriteTable(second, sampleTable(t)))

	a, err := os.ReadFile(first)
	require.NoError(t, err)
	b, err := os.ReadFile(second)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
