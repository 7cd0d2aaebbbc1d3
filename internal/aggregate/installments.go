package aggregate

import (
	"context"
	"log/slog"

	"creditfeatures/internal/dataset"
)

// Column names produced by the installment aggregation.
const (
	InstallCount          = "INSTALL_COUNT"
	InstallLateCount      = "INSTALL_LATE_COUNT"
	InstallInstalmentSum  = "INSTALL_AMT_INSTALMENT_SUM"
	InstallInstalmentMean = "INSTALL_AMT_INSTALMENT_MEAN"
	InstallInstalmentMax  = "INSTALL_AMT_INSTALMENT_MAX"
	InstallPaymentSum     = "INSTALL_AMT_PAYMENT_SUM"
	InstallPaymentMean    = "INSTALL_AMT_PAYMENT_MEAN"
	InstallPaymentMin     = "INSTALL_AMT_PAYMENT_MIN"
	InstallDiffSum        = "INSTALL_PAYMENT_DIFF_SUM"
	InstallDiffMean       = "INSTALL_PAYMENT_DIFF_MEAN"
	InstallDiffMin        = "INSTALL_PAYMENT_DIFF_MIN"
	InstallDaysLateSum    = "INSTALL_DAYS_LATE_SUM"
	InstallDaysLateMax    = "INSTALL_DAYS_LATE_MAX"
	InstallDaysLateMean   = "INSTALL_DAYS_LATE_MEAN"
	InstallLateRate       = "INSTALL_LATE_RATE"
	InstallPaymentRatio   = "INSTALL_PAYMENT_RATIO"
)

// installmentRow carries the row-level derived fields computed on the raw
// installment table before grouping.
type installmentRow struct {
	InstallmentPayment
	PaymentDiff float64
	DaysLate    float64
	Late        bool
}

// InstallmentAggregator reduces the installment-payment table to one row per
// applicant.
type InstallmentAggregator struct {
	logger *slog.Logger
}

// NewInstallmentAggregator creates an installment aggregator.
func NewInstallmentAggregator(logger *slog.Logger) *InstallmentAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &InstallmentAggregator{logger: logger}
}

// TableName returns the name used for the aggregate output table.
func (a *InstallmentAggregator) TableName() string { return "installments_agg" }

// Aggregate first derives three row-level fields (payment difference, days
// late, late flag) and then computes 14 per-applicant summary statistics and
// 2 derived ratios. The mean of days late is conditioned on late rows only:
// an applicant whose every payment was on time gets a missing mean, not zero.
func (a *InstallmentAggregator) Aggregate(ctx context.Context, records []InstallmentPayment) (*dataset.Table, error) {
	derived := make([]installmentRow, len(records))
	for i, r := range records {
		row := installmentRow{InstallmentPayment: r}
		row.PaymentDiff = sub(r.AmtPayment, r.AmtInstalment)
		row.DaysLate = positivePart(sub(r.DaysEntryPayment, r.DaysInstalment))
		row.Late = row.DaysLate > 0
		derived[i] = row
	}

	groups, keys := groupByApplicant(derived, func(r installmentRow) int64 { return r.ApplicantID })

	a.logger.InfoContext(ctx, "aggregating installment payments",
		slog.Int("record_count", len(records)),
		slog.Int("applicant_count", len(keys)))

	b := newTableBuilder(keys)
	count := b.add(InstallCount)
	lateCount := b.add(InstallLateCount)
	instalmentSum := b.add(InstallInstalmentSum)
	instalmentMean := b.add(InstallInstalmentMean)
	instalmentMax := b.add(InstallInstalmentMax)
	paymentSum := b.add(InstallPaymentSum)
	paymentMean := b.add(InstallPaymentMean)
	paymentMin := b.add(InstallPaymentMin)
	diffSum := b.add(InstallDiffSum)
	diffMean := b.add(InstallDiffMean)
	diffMin := b.add(InstallDiffMin)
	daysLateSum := b.add(InstallDaysLateSum)
	daysLateMax := b.add(InstallDaysLateMax)
	daysLateMean := b.add(InstallDaysLateMean)
	lateRate := b.add(InstallLateRate)
	paymentRatio := b.add(InstallPaymentRatio)

	for i, key := range keys {
		rows := groups[key]

		count[i] = float64(len(rows))
		lateCount[i] = groupCountWhere(rows, func(r installmentRow) bool { return r.Late })
		instalmentSum[i] = groupSum(rows, func(r installmentRow) float64 { return r.AmtInstalment })
		instalmentMean[i] = groupMean(rows, func(r installmentRow) float64 { return r.AmtInstalment })
		instalmentMax[i] = groupMax(rows, func(r installmentRow) float64 { return r.AmtInstalment })
		paymentSum[i] = groupSum(rows, func(r installmentRow) float64 { return r.AmtPayment })
		paymentMean[i] = groupMean(rows, func(r installmentRow) float64 { return r.AmtPayment })
		paymentMin[i] = groupMin(rows, func(r installmentRow) float64 { return r.AmtPayment })
		diffSum[i] = groupSum(rows, func(r installmentRow) float64 { return r.PaymentDiff })
		diffMean[i] = groupMean(rows, func(r installmentRow) float64 { return r.PaymentDiff })
		diffMin[i] = groupMin(rows, func(r installmentRow) float64 { return r.PaymentDiff })
		daysLateSum[i] = groupSum(rows, func(r installmentRow) float64 { return r.DaysLate })
		daysLateMax[i] = groupMax(rows, func(r installmentRow) float64 { return r.DaysLate })

		// Mean days late over late payments only; on-time rows are excluded
		// from this particular mean.
		daysLateMean[i] = groupMean(rows, func(r installmentRow) float64 {
			if !r.Late {
				return dataset.Missing()
			}
			return r.DaysLate
		})

		lateRate[i] = ratio(lateCount[i], count[i])
		paymentRatio[i] = ratio(paymentSum[i], instalmentSum[i])
	}

	return b.build(a.TableName())
}

// sub subtracts with missing propagation: a missing operand yields missing.
func sub(a, b float64) float64 {
	if dataset.IsMissing(a) || dataset.IsMissing(b) {
		return dataset.Missing()
	}
	return a - b
}

// positivePart clamps negatives to zero and propagates missing.
func positivePart(v float64) float64 {
	if dataset.IsMissing(v) {
		return dataset.Missing()
	}
	if v < 0 {
		return 0
	}
	return v
}
