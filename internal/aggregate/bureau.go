package aggregate

import (
	"context"
	"log/slog"

	"creditfeatures/internal/dataset"
)

// Column names produced by the bureau aggregation.
const (
	BureauCount            = "BUREAU_COUNT"
	BureauActiveCount      = "BUREAU_ACTIVE_COUNT"
	BureauClosedCount      = "BUREAU_CLOSED_COUNT"
	BureauSoldCount        = "BUREAU_SOLD_COUNT"
	BureauBadDebtCount     = "BUREAU_BAD_DEBT_COUNT"
	BureauCreditTypes      = "BUREAU_CREDIT_TYPE_NUNIQUE"
	BureauCreditSumSum     = "BUREAU_AMT_CREDIT_SUM_SUM"
	BureauCreditSumMean    = "BUREAU_AMT_CREDIT_SUM_MEAN"
	BureauCreditSumMax     = "BUREAU_AMT_CREDIT_SUM_MAX"
	BureauDebtSum          = "BUREAU_AMT_DEBT_SUM"
	BureauDebtMean         = "BUREAU_AMT_DEBT_MEAN"
	BureauOverdueSum       = "BUREAU_AMT_OVERDUE_SUM"
	BureauOverdueMean      = "BUREAU_AMT_OVERDUE_MEAN"
	BureauOverdueMax       = "BUREAU_AMT_OVERDUE_MAX"
	BureauDaysCreditMean   = "BUREAU_DAYS_CREDIT_MEAN"
	BureauDaysCreditMin    = "BUREAU_DAYS_CREDIT_MIN"
	BureauDaysCreditMax    = "BUREAU_DAYS_CREDIT_MAX"
	BureauDaysEnddateMean  = "BUREAU_DAYS_ENDDATE_MEAN"
	BureauProlongSum       = "BUREAU_PROLONG_SUM"
	BureauDaysUpdateMean   = "BUREAU_DAYS_UPDATE_MEAN"
	BureauActiveRatio      = "BUREAU_ACTIVE_RATIO"
	BureauDebtCreditRatio  = "BUREAU_DEBT_CREDIT_RATIO"
	BureauOverdueDebtRatio = "BUREAU_OVERDUE_DEBT_RATIO"
)

// BureauAggregator reduces the credit-bureau table to one row per applicant.
type BureauAggregator struct {
	logger *slog.Logger
}

// NewBureauAggregator creates a bureau aggregator.
func NewBureauAggregator(logger *slog.Logger) *BureauAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &BureauAggregator{logger: logger}
}

// TableName returns the name used for the aggregate output table.
func (a *BureauAggregator) TableName() string { return "bureau_agg" }

// Aggregate computes 20 per-applicant summary statistics and 3 derived ratios
// over credit-bureau records. Applicants with no bureau rows are absent from
// the output; the joiner resolves absence with missing fill.
func (a *BureauAggregator) Aggregate(ctx context.Context, records []BureauRecord) (*dataset.Table, error) {
	groups, keys := groupByApplicant(records, func(r BureauRecord) int64 { return r.ApplicantID })

	a.logger.InfoContext(ctx, "aggregating bureau records",
		slog.Int("record_count", len(records)),
		slog.Int("applicant_count", len(keys)))

	b := newTableBuilder(keys)
	count := b.add(BureauCount)
	active := b.add(BureauActiveCount)
	closed := b.add(BureauClosedCount)
	sold := b.add(BureauSoldCount)
	badDebt := b.add(BureauBadDebtCount)
	creditTypes := b.add(BureauCreditTypes)
	creditSumSum := b.add(BureauCreditSumSum)
	creditSumMean := b.add(BureauCreditSumMean)
	creditSumMax := b.add(BureauCreditSumMax)
	debtSum := b.add(BureauDebtSum)
	debtMean := b.add(BureauDebtMean)
	overdueSum := b.add(BureauOverdueSum)
	overdueMean := b.add(BureauOverdueMean)
	overdueMax := b.add(BureauOverdueMax)
	daysCreditMean := b.add(BureauDaysCreditMean)
	daysCreditMin := b.add(BureauDaysCreditMin)
	daysCreditMax := b.add(BureauDaysCreditMax)
	daysEnddateMean := b.add(BureauDaysEnddateMean)
	prolongSum := b.add(BureauProlongSum)
	daysUpdateMean := b.add(BureauDaysUpdateMean)
	activeRatio := b.add(BureauActiveRatio)
	debtCreditRatio := b.add(BureauDebtCreditRatio)
	overdueDebtRatio := b.add(BureauOverdueDebtRatio)

	for i, key := range keys {
		rows := groups[key]

		count[i] = float64(len(rows))
		active[i] = groupCountWhere(rows, func(r BureauRecord) bool { return r.CreditActive == CreditActiveOpen })
		closed[i] = groupCountWhere(rows, func(r BureauRecord) bool { return r.CreditActive == CreditActiveClosed })
		sold[i] = groupCountWhere(rows, func(r BureauRecord) bool { return r.CreditActive == CreditActiveSold })
		badDebt[i] = groupCountWhere(rows, func(r BureauRecord) bool { return r.CreditActive == CreditActiveBad })
		creditTypes[i] = groupDistinct(rows, func(r BureauRecord) string { return r.CreditType })

		creditSumSum[i] = groupSum(rows, func(r BureauRecord) float64 { return r.AmtCreditSum })
		creditSumMean[i] = groupMean(rows, func(r BureauRecord) float64 { return r.AmtCreditSum })
		creditSumMax[i] = groupMax(rows, func(r BureauRecord) float64 { return r.AmtCreditSum })
		debtSum[i] = groupSum(rows, func(r BureauRecord) float64 { return r.AmtCreditSumDebt })
		debtMean[i] = groupMean(rows, func(r BureauRecord) float64 { return r.AmtCreditSumDebt })
		overdueSum[i] = groupSum(rows, func(r BureauRecord) float64 { return r.AmtCreditOverdue })
		overdueMean[i] = groupMean(rows, func(r BureauRecord) float64 { return r.AmtCreditOverdue })
		overdueMax[i] = groupMax(rows, func(r BureauRecord) float64 { return r.AmtCreditOverdue })

		daysCreditMean[i] = groupMean(rows, func(r BureauRecord) float64 { return r.DaysCredit })
		daysCreditMin[i] = groupMin(rows, func(r BureauRecord) float64 { return r.DaysCredit })
		daysCreditMax[i] = groupMax(rows, func(r BureauRecord) float64 { return r.DaysCredit })
		daysEnddateMean[i] = groupMean(rows, func(r BureauRecord) float64 { return r.DaysCreditEnddate })
		prolongSum[i] = groupSum(rows, func(r BureauRecord) float64 { return r.CntCreditProlong })
		daysUpdateMean[i] = groupMean(rows, func(r BureauRecord) float64 { return r.DaysCreditUpdate })

		activeRatio[i] = ratio(active[i], count[i])
		debtCreditRatio[i] = ratio(debtSum[i], creditSumSum[i])
		overdueDebtRatio[i] = ratio(overdueSum[i], debtSum[i])
	}

	return b.build(a.TableName())
}
