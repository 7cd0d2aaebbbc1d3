package loader

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"creditfeatures/internal/dataset"
	"creditfeatures/internal/errors"
)

func writeCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadTableKindInference(t *testing.T) {
	path := writeCSV(t, "application_train.csv",
		"SK_ID_CURR,AMT_CREDIT,NAME_EDUCATION_TYPE\n"+
			"100001,500000,Higher education\n"+
			"100002,NA,Lower secondary\n")

	table, err := ReadTable(path, "train")
	require.NoError(t, err)

	assert.Equal(t, 2, table.NumRows())
	assert.Equal(t, []string{"SK_ID_CURR", "AMT_CREDIT", "NAME_EDUCATION_TYPE"}, table.ColumnNames())

	credit, err := table.Floats("AMT_CREDIT")
	require.NoError(t, err)
	assert.Equal(t, 500000.0, credit[0])
	assert.True(t, dataset.IsMissing(credit[1]), "NA token parses as missing")

	edu, err := table.Strings("NAME_EDUCATION_TYPE")
	require.NoError(t, err)
	assert.Equal(t, []string{"Higher education", "Lower secondary"}, edu)
}

func TestReadTableMissingTokens(t *testing.T) {
	path := writeCSV(t, "in.csv",
		"SK_ID_CURR,V\n100001,\n100002,NA\n100003,N/A\n100004,nan\n100005,NaN\n100006,1.5\n")

	table, err := ReadTable(path, "train")
	require.NoError(t, err)

	vals, err := table.Floats("V")
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		assert.True(t, dataset.IsMissing(vals[i]), "row %d should be missing", i)
	}
	assert.Equal(t, 1.5, vals[5])
}

func TestReadTableMixedColumnIsCategorical(t *testing.T) {
	// One non-numeric cell makes the whole column categorical.
	path := writeCSV(t, "in.csv", "SK_ID_CURR,V\n100001,12\n100002,twelve\n")

	table, err := ReadTable(path, "train")
	require.NoError(t, err)

	vals, err := table.Strings("V")
	require.NoError(t, err)
	assert.Equal(t, []string{"12", "twelve"}, vals)
}

func TestReadTableStripsBOM(t *testing.T) {
	path := writeCSV(t, "in.csv", "\uFEFFSK_ID_CURR,V\n100001,1\n")

	table, err := ReadTable(path, "train")
	require.NoError(t, err)
	assert.True(t, table.HasColumn("SK_ID_CURR"))
}

func TestReadTableXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "application_train.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]any{"SK_ID_CURR", "AMT_CREDIT", "NAME_EDUCATION_TYPE"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]any{100001, 500000, "Higher education"}))
	// Trailing empty cells get dropped by the writer; the reader must pad.
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]any{100002, 300000}))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	table, err := ReadTable(path, "train")
	require.NoError(t, err)
	assert.Equal(t, 2, table.NumRows())

	edu, err := table.Strings("NAME_EDUCATION_TYPE")
	require.NoError(t, err)
	assert.Equal(t, "", edu[1])
}

func TestReadTableErrors(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T) string
		wantCode errors.Code
	}{
		{
			name:     "missing file",
			setup:    func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent.csv") },
			wantCode: errors.CodeMissingFile,
		},
		{
			name:     "empty file",
			setup:    func(t *testing.T) string { return writeCSV(t, "empty.csv", "") },
			wantCode: errors.CodeParse,
		},
		{
			name:     "empty header cell",
			setup:    func(t *testing.T) string { return writeCSV(t, "in.csv", "SK_ID_CURR,\n100001,1\n") },
			wantCode: errors.CodeParse,
		},
		{
			name:     "ragged quoting",
			setup:    func(t *testing.T) string { return writeCSV(t, "in.csv", "A,B\n\"unterminated,1\n") },
			wantCode: errors.CodeParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadTable(tt.setup(t), "train")
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, errors.CodeOf(err))
		})
	}
}

func TestLoadBureau(t *testing.T) {
	path := writeCSV(t, "bureau.csv",
		"SK_ID_CURR,SK_ID_BUREAU,CREDIT_ACTIVE,CREDIT_TYPE,AMT_CREDIT_SUM,AMT_CREDIT_SUM_DEBT,AMT_CREDIT_SUM_OVERDUE,DAYS_CREDIT,DAYS_CREDIT_ENDDATE,DAYS_CREDIT_UPDATE,CNT_CREDIT_PROLONG\n"+
			"100001,5714462,Active,Consumer credit,91323,0,0,-497,-153,-131,0\n"+
			"100001,5714463,Closed,Credit card,225000,NA,0,-208,1075,-20,0\n")

	records, err := LoadBureau(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, int64(100001), records[0].ApplicantID)
	assert.Equal(t, "Active", records[0].CreditActive)
	assert.Equal(t, "Consumer credit", records[0].CreditType)
	assert.Equal(t, 91323.0, records[0].AmtCreditSum)
	assert.True(t, dataset.IsMissing(records[1].AmtCreditSumDebt))
}

func TestLoadBureauSchemaError(t *testing.T) {
	path := writeCSV(t, "bureau.csv", "SK_ID_CURR,CREDIT_ACTIVE\n100001,Active\n")

	_, err := LoadBureau(path)
	require.Error(t, err)
	assert.True(t, errors.IsSchemaError(err))
	assert.Contains(t, err.Error(), "AMT_CREDIT_SUM")
}

func TestLoadPrevious(t *testing.T) {
	path := writeCSV(t, "previous_application.csv",
		"SK_ID_CURR,NAME_CONTRACT_STATUS,NAME_CONTRACT_TYPE,PRODUCT_COMBINATION,AMT_APPLICATION,AMT_CREDIT,AMT_ANNUITY,AMT_DOWN_PAYMENT,DAYS_DECISION\n"+
			"100001,Approved,Consumer loans,POS household,179055,179055,9251.775,0,-606\n")

	records, err := LoadPrevious(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Approved", records[0].ContractStatus)
	assert.Equal(t, "POS household", records[0].ProductCombination)
	assert.Equal(t, -606.0, records[0].DaysDecision)
}

func TestLoadInstallments(t *testing.T) {
	path := writeCSV(t, "installments_payments.csv",
		"SK_ID_CURR,AMT_INSTALMENT,AMT_PAYMENT,DAYS_INSTALMENT,DAYS_ENTRY_PAYMENT\n"+
			"100001,6948.36,6948.36,-1180,-1187\n"+
			"100001,6948.36,NA,-1150,NA\n")

	records, err := LoadInstallments(path)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, 6948.36, records[0].AmtPayment)
	assert.True(t, dataset.IsMissing(records[1].AmtPayment))
	assert.True(t, dataset.IsMissing(records[1].DaysEntryPayment))
}

func TestLoadRecordsBadKey(t *testing.T) {
	path := writeCSV(t, "installments_payments.csv",
		"SK_ID_CURR,AMT_INSTALMENT,AMT_PAYMENT,DAYS_INSTALMENT,DAYS_ENTRY_PAYMENT\n"+
			"not-a-key,100,100,-10,-12\n")

	_, err := LoadInstallments(path)
	require.Error(t, err)
	assert.Equal(t, errors.CodeParse, errors.CodeOf(err))
}
