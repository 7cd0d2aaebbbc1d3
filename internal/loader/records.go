package loader

import (
	"log/slog"

	"creditfeatures/internal/aggregate"
	"creditfeatures/internal/dataset"
)

// Typed loaders for the three supplementary transaction tables. Each checks
// its required columns up front and parses rows into the aggregate package's
// record types; extra columns in the input are ignored.

// LoadBureau reads credit-bureau records.
func LoadBureau(path string) ([]aggregate.BureauRecord, error) {
	const table = "bureau"
	rows, err := readRows(path, table)
	if err != nil {
		return nil, err
	}
	index, err := headerIndex(table, rows[0], []string{
		dataset.KeyColumn, "CREDIT_ACTIVE", "CREDIT_TYPE",
		"AMT_CREDIT_SUM", "AMT_CREDIT_SUM_DEBT", "AMT_CREDIT_SUM_OVERDUE",
		"DAYS_CREDIT", "DAYS_CREDIT_ENDDATE", "DAYS_CREDIT_UPDATE",
		"CNT_CREDIT_PROLONG",
	})
	if err != nil {
		return nil, err
	}

	records := make([]aggregate.BureauRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		cell := func(col string) string { return cellAt(row, index[col]) }
		num := func(col string) (float64, error) { return parseFloatCell(table, i, col, cell(col)) }

		var r aggregate.BureauRecord
		if r.ApplicantID, err = parseKeyCell(table, i, dataset.KeyColumn, cell(dataset.KeyColumn)); err != nil {
			return nil, err
		}
		r.CreditActive = cell("CREDIT_ACTIVE")
		r.CreditType = cell("CREDIT_TYPE")
		if r.AmtCreditSum, err = num("AMT_CREDIT_SUM"); err != nil {
			return nil, err
		}
		if r.AmtCreditSumDebt, err = num("AMT_CREDIT_SUM_DEBT"); err != nil {
			return nil, err
		}
		if r.AmtCreditOverdue, err = num("AMT_CREDIT_SUM_OVERDUE"); err != nil {
			return nil, err
		}
		if r.DaysCredit, err = num("DAYS_CREDIT"); err != nil {
			return nil, err
		}
		if r.DaysCreditEnddate, err = num("DAYS_CREDIT_ENDDATE"); err != nil {
			return nil, err
		}
		if r.DaysCreditUpdate, err = num("DAYS_CREDIT_UPDATE"); err != nil {
			return nil, err
		}
		if r.CntCreditProlong, err = num("CNT_CREDIT_PROLONG"); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	slog.Info("loaded bureau records", slog.String("path", path), slog.Int("rows", len(records)))
	return records, nil
}

// LoadPrevious reads prior-application records.
func LoadPrevious(path string) ([]aggregate.PreviousApplication, error) {
	const table = "previous_application"
	rows, err := readRows(path, table)
	if err != nil {
		return nil, err
	}
	index, err := headerIndex(table, rows[0], []string{
		dataset.KeyColumn, "NAME_CONTRACT_STATUS", "NAME_CONTRACT_TYPE",
		"PRODUCT_COMBINATION", "AMT_APPLICATION", "AMT_CREDIT",
		"AMT_ANNUITY", "AMT_DOWN_PAYMENT", "DAYS_DECISION",
	})
	if err != nil {
		return nil, err
	}

	records := make([]aggregate.PreviousApplication, 0, len(rows)-1)
	for i, row := range rows[1:] {
		cell := func(col string) string { return cellAt(row, index[col]) }
		num := func(col string) (float64, error) { return parseFloatCell(table, i, col, cell(col)) }

		var r aggregate.PreviousApplication
		if r.ApplicantID, err = parseKeyCell(table, i, dataset.KeyColumn, cell(dataset.KeyColumn)); err != nil {
			return nil, err
		}
		r.ContractStatus = cell("NAME_CONTRACT_STATUS")
		r.ContractType = cell("NAME_CONTRACT_TYPE")
		r.ProductCombination = cell("PRODUCT_COMBINATION")
		if r.AmtApplication, err = num("AMT_APPLICATION"); err != nil {
			return nil, err
		}
		if r.AmtCredit, err = num("AMT_CREDIT"); err != nil {
			return nil, err
		}
		if r.AmtAnnuity, err = num("AMT_ANNUITY"); err != nil {
			return nil, err
		}
		if r.AmtDownPayment, err = num("AMT_DOWN_PAYMENT"); err != nil {
			return nil, err
		}
		if r.DaysDecision, err = num("DAYS_DECISION"); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	slog.Info("loaded previous applications", slog.String("path", path), slog.Int("rows", len(records)))
	return records, nil
}

// LoadInstallments reads installment-payment records.
func LoadInstallments(path string) ([]aggregate.InstallmentPayment, error) {
	const table = "installments_payments"
	rows, err := readRows(path, table)
	if err != nil {
		return nil, err
	}
	index, err := headerIndex(table, rows[0], []string{
		dataset.KeyColumn, "AMT_INSTALMENT", "AMT_PAYMENT",
		"DAYS_INSTALMENT", "DAYS_ENTRY_PAYMENT",
	})
	if err != nil {
		return nil, err
	}

	records := make([]aggregate.InstallmentPayment, 0, len(rows)-1)
	for i, row := range rows[1:] {
		cell := func(col string) string { return cellAt(row, index[col]) }
		num := func(col string) (float64, error) { return parseFloatCell(table, i, col, cell(col)) }

		var r aggregate.InstallmentPayment
		if r.ApplicantID, err = parseKeyCell(table, i, dataset.KeyColumn, cell(dataset.KeyColumn)); err != nil {
			return nil, err
		}
		if r.AmtInstalment, err = num("AMT_INSTALMENT"); err != nil {
			return nil, err
		}
		if r.AmtPayment, err = num("AMT_PAYMENT"); err != nil {
			return nil, err
		}
		if r.DaysInstalment, err = num("DAYS_INSTALMENT"); err != nil {
			return nil, err
		}
		if r.DaysEntryPayment, err = num("DAYS_ENTRY_PAYMENT"); err != nil {
			return nil, err
		}
		records = append(records, r)
	}

	slog.Info("loaded installment payments", slog.String("path", path), slog.Int("rows", len(records)))
	return records, nil
}
