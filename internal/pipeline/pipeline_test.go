package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"creditfeatures/internal/aggregate"
	"creditfeatures/internal/config"
	"creditfeatures/internal/dataset"
	"creditfeatures/internal/errors"
	"creditfeatures/internal/features"
)

// applicantDefaults fills one plausible applicant row; tests override cells
// per applicant.
var applicantDefaults = map[string]string{
	"DAYS_EMPLOYED":          "-2000",
	"DAYS_BIRTH":             "-14600",
	"DAYS_REGISTRATION":      "-3650",
	"DAYS_ID_PUBLISH":        "-1825",
	"AMT_CREDIT":             "500000",
	"AMT_INCOME_TOTAL":       "100000",
	"AMT_ANNUITY":            "25000",
	"AMT_GOODS_PRICE":        "450000",
	"CNT_FAM_MEMBERS":        "2",
	"CNT_CHILDREN":           "0",
	"EXT_SOURCE_1":           "0.5",
	"EXT_SOURCE_2":           "0.6",
	"EXT_SOURCE_3":           "0.4",
	"NAME_EDUCATION_TYPE":    "Higher education",
	"NAME_FAMILY_STATUS":     "Married",
	"OWN_CAR_AGE":            "10",
	"DAYS_LAST_PHONE_CHANGE": "-500",
}

func applicantCSV(t *testing.T, labeled bool, rows []map[string]string) string {
	t.Helper()
	header := []string{dataset.KeyColumn}
	if labeled {
		header = append(header, TargetColumn)
	}
	header = append(header, features.RequiredColumns()...)

	var b strings.Builder
	b.WriteString(strings.Join(header, ","))
	b.WriteByte('\n')
	for _, row := range rows {
		cells := make([]string, len(header))
		for i, col := range header {
			if v, ok := row[col]; ok {
				cells[i] = v
			} else if v, ok := applicantDefaults[col]; ok {
				cells[i] = v
			} else if strings.HasPrefix(col, "FLAG_DOCUMENT_") {
				cells[i] = "0"
			} else {
				t.Fatalf("no value for column %s", col)
			}
		}
		b.WriteString(strings.Join(cells, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

func writeInput(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

// fixtureDir assembles a complete input directory: three train applicants,
// two test applicants, and supplementary history for applicant 100001 only.
func fixtureDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	writeInput(t, dir, "application_train.csv", applicantCSV(t, true, []map[string]string{
		{dataset.KeyColumn: "100001", TargetColumn: "1"},
		{dataset.KeyColumn: "100002", TargetColumn: "0"},
		{dataset.KeyColumn: "100003", TargetColumn: "0", "DAYS_EMPLOYED": "365243"},
	}))
	writeInput(t, dir, "application_test.csv", applicantCSV(t, false, []map[string]string{
		{dataset.KeyColumn: "100004"},
		{dataset.KeyColumn: "100005"},
	}))

	writeInput(t, dir, "bureau.csv",
		"SK_ID_CURR,CREDIT_ACTIVE,CREDIT_TYPE,AMT_CREDIT_SUM,AMT_CREDIT_SUM_DEBT,AMT_CREDIT_SUM_OVERDUE,DAYS_CREDIT,DAYS_CREDIT_ENDDATE,DAYS_CREDIT_UPDATE,CNT_CREDIT_PROLONG\n"+
			"100001,Active,Consumer credit,91323,45000,0,-497,-153,-131,0\n"+
			"100001,Closed,Credit card,225000,0,0,-208,1075,-20,0\n")
	writeInput(t, dir, "previous_application.csv",
		"SK_ID_CURR,NAME_CONTRACT_STATUS,NAME_CONTRACT_TYPE,PRODUCT_COMBINATION,AMT_APPLICATION,AMT_CREDIT,AMT_ANNUITY,AMT_DOWN_PAYMENT,DAYS_DECISION\n"+
			"100001,Approved,Consumer loans,POS household,179055,179055,9251.775,0,-606\n")
	writeInput(t, dir, "installments_payments.csv",
		"SK_ID_CURR,AMT_INSTALMENT,AMT_PAYMENT,DAYS_INSTALMENT,DAYS_ENTRY_PAYMENT\n"+
			"100001,6948.36,6948.36,-1180,-1187\n"+
			"100001,6948.36,6948.36,-1150,-1140\n")
	return dir
}

func testConfig(t *testing.T, dir string) *config.Config {
	t.Helper()
	cfg := &config.Config{}
	cfg.Data.Dir = dir
	cfg.Data.TrainFile = "application_train.csv"
	cfg.Data.TestFile = "application_test.csv"
	cfg.Data.BureauFile = "bureau.csv"
	cfg.Data.PreviousFile = "previous_application.csv"
	cfg.Data.InstallmentsFile = "installments_payments.csv"
	cfg.Output.Dir = filepath.Join(dir, "output")
	cfg.Output.Persist = true
	cfg.Output.WriteAggregates = true
	cfg.Output.TrainFile = "features_train.csv"
	cfg.Output.TestFile = "features_test.csv"
	return cfg
}

func floatCell(t *testing.T, table *dataset.Table, col string, row int) float64 {
	t.Helper()
	vals, err := table.Floats(col)
	require.NoError(t, err)
	require.Less(t, row, len(vals))
	return vals[row]
}

func TestPipelineRun(t *testing.T) {
	cfg := testConfig(t, fixtureDir(t))

	result, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, result.Train.NumRows(), "row count preserved through derive and join")
	assert.Equal(t, 2, result.Test.NumRows())
	assert.True(t, result.Train.HasColumn(TargetColumn))
	assert.False(t, result.Test.HasColumn(TargetColumn))

	// Derived applicant features made it through the join.
	assert.InDelta(t, 5.0, floatCell(t, result.Train, features.FeatCreditIncomeRatio, 0), 1e-12)

	// Applicant 100001 has bureau history; 100002 has none and gets missing.
	assert.Equal(t, 2.0, floatCell(t, result.Train, aggregate.BureauCount, 0))
	assert.True(t, dataset.IsMissing(floatCell(t, result.Train, aggregate.BureauCount, 1)))
	assert.Equal(t, 1.0, floatCell(t, result.Train, aggregate.PrevCount, 0))
	assert.Equal(t, 2.0, floatCell(t, result.Train, aggregate.InstallCount, 0))

	// Test split applicants have no supplementary history at all.
	assert.True(t, dataset.IsMissing(floatCell(t, result.Test, aggregate.BureauCount, 0)))

	for _, file := range []string{
		"features_train.csv", "features_test.csv",
		"bureau_agg.csv", "previous_agg.csv", "installments_agg.csv",
	} {
		_, err := os.Stat(cfg.OutputPath(file))
		assert.NoError(t, err, file)
	}

	for _, s := range New(cfg, nil).Stages() {
		assert.Equal(t, StageStatusPending, s.Status)
	}
}

func TestPipelineStageStates(t *testing.T) {
	cfg := testConfig(t, fixtureDir(t))
	p := New(cfg, nil)

	_, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, p.Stages(), 5)
	for _, s := range p.Stages() {
		assert.Equal(t, StageStatusCompleted, s.Status, s.Name)
	}
}

func TestPipelineIdempotent(t *testing.T) {
	cfg := testConfig(t, fixtureDir(t))

	_, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	first, err := os.ReadFile(cfg.OutputPath("features_train.csv"))
	require.NoError(t, err)

	_, err = New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	second, err := os.ReadFile(cfg.OutputPath("features_train.csv"))
	require.NoError(t, err)

	assert.Equal(t, first, second, "reruns produce byte-identical output")
}

func TestPipelinePersistDisabled(t *testing.T) {
	cfg := testConfig(t, fixtureDir(t))
	cfg.Output.Persist = false

	result, err := New(cfg, nil).Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, result.Train)

	_, err = os.Stat(cfg.Output.Dir)
	assert.True(t, os.IsNotExist(err), "no output directory when persistence is off")
}

func TestPipelineSchemaErrorAborts(t *testing.T) {
	dir := fixtureDir(t)
	// Drop a required column from the train split.
	writeInput(t, dir, "application_train.csv",
		fmt.Sprintf("%s,%s\n100001,1\n", dataset.KeyColumn, TargetColumn))
	cfg := testConfig(t, dir)

	_, err := New(cfg, nil).Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsSchemaError(err))

	_, statErr := os.Stat(cfg.Output.Dir)
	assert.True(t, os.IsNotExist(statErr), "a failed run writes nothing")
}

func TestPipelineValidationErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T, dir string)
	}{
		{
			name: "duplicate applicant identifier",
			setup: func(t *testing.T, dir string) {
				writeInput(t, dir, "application_train.csv", applicantCSV(t, true, []map[string]string{
					{dataset.KeyColumn: "100001", TargetColumn: "1"},
					{dataset.KeyColumn: "100001", TargetColumn: "0"},
				}))
			},
		},
		{
			name: "label on test split",
			setup: func(t *testing.T, dir string) {
				writeInput(t, dir, "application_test.csv", applicantCSV(t, true, []map[string]string{
					{dataset.KeyColumn: "100004", TargetColumn: "0"},
				}))
			},
		},
		{
			name: "missing label on train split",
			setup: func(t *testing.T, dir string) {
				writeInput(t, dir, "application_train.csv", applicantCSV(t, true, []map[string]string{
					{dataset.KeyColumn: "100001", TargetColumn: "1"},
					{dataset.KeyColumn: "100002", TargetColumn: ""},
				}))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := fixtureDir(t)
			tt.setup(t, dir)

			_, err := New(testConfig(t, dir), nil).Run(context.Background())
			require.Error(t, err)
			assert.Equal(t, errors.CodeValidation, errors.CodeOf(err))
		})
	}
}

func TestPipelineMissingInputFile(t *testing.T) {
	dir := fixtureDir(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "bureau.csv")))

	_, err := New(testConfig(t, dir), nil).Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, errors.CodeMissingFile, errors.CodeOf(err))
}

func TestPipelineCancelledContext(t *testing.T) {
	cfg := testConfig(t, fixtureDir(t))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(cfg, nil).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
