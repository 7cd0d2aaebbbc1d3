package aggregate

import (
	"context"
	"log/slog"

	"creditfeatures/internal/dataset"
)

// Column names produced by the previous-application aggregation.
const (
	PrevCount            = "PREV_COUNT"
	PrevApprovedCount    = "PREV_APPROVED_COUNT"
	PrevRefusedCount     = "PREV_REFUSED_COUNT"
	PrevCanceledCount    = "PREV_CANCELED_COUNT"
	PrevUnusedCount      = "PREV_UNUSED_COUNT"
	PrevCashCount        = "PREV_CASH_COUNT"
	PrevConsumerCount    = "PREV_CONSUMER_COUNT"
	PrevRevolvingCount   = "PREV_REVOLVING_COUNT"
	PrevApplicationSum   = "PREV_AMT_APPLICATION_SUM"
	PrevApplicationMean  = "PREV_AMT_APPLICATION_MEAN"
	PrevApplicationMax   = "PREV_AMT_APPLICATION_MAX"
	PrevCreditSum        = "PREV_AMT_CREDIT_SUM"
	PrevCreditMean       = "PREV_AMT_CREDIT_MEAN"
	PrevCreditMax        = "PREV_AMT_CREDIT_MAX"
	PrevAnnuityMean      = "PREV_AMT_ANNUITY_MEAN"
	PrevAnnuityMax       = "PREV_AMT_ANNUITY_MAX"
	PrevDownPaymentMean  = "PREV_AMT_DOWN_PAYMENT_MEAN"
	PrevDaysDecisionMean = "PREV_DAYS_DECISION_MEAN"
	PrevDaysDecisionMin  = "PREV_DAYS_DECISION_MIN"
	PrevDaysDecisionMax  = "PREV_DAYS_DECISION_MAX"
	PrevProducts         = "PREV_PRODUCT_NUNIQUE"
	PrevApprovalRate     = "PREV_APPROVAL_RATE"
	PrevRefusalRate      = "PREV_REFUSAL_RATE"
	PrevCreditAppRatio   = "PREV_CREDIT_APPLICATION_RATIO"
)

// PreviousAggregator reduces the prior-application table to one row per
// applicant.
type PreviousAggregator struct {
	logger *slog.Logger
}

// NewPreviousAggregator creates a previous-application aggregator.
func NewPreviousAggregator(logger *slog.Logger) *PreviousAggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &PreviousAggregator{logger: logger}
}

// TableName returns the name used for the aggregate output table.
func (a *PreviousAggregator) TableName() string { return "previous_agg" }

// Aggregate computes 21 per-applicant summary statistics and 3 derived ratios
// over prior-application records.
func (a *PreviousAggregator) Aggregate(ctx context.Context, records []PreviousApplication) (*dataset.Table, error) {
	groups, keys := groupByApplicant(records, func(r PreviousApplication) int64 { return r.ApplicantID })

	a.logger.InfoContext(ctx, "aggregating previous applications",
		slog.Int("record_count", len(records)),
		slog.Int("applicant_count", len(keys)))

	b := newTableBuilder(keys)
	count := b.add(PrevCount)
	approved := b.add(PrevApprovedCount)
	refused := b.add(PrevRefusedCount)
	canceled := b.add(PrevCanceledCount)
	unused := b.add(PrevUnusedCount)
	cash := b.add(PrevCashCount)
	consumer := b.add(PrevConsumerCount)
	revolving := b.add(PrevRevolvingCount)
	applicationSum := b.add(PrevApplicationSum)
	applicationMean := b.add(PrevApplicationMean)
	applicationMax := b.add(PrevApplicationMax)
	creditSum := b.add(PrevCreditSum)
	creditMean := b.add(PrevCreditMean)
	creditMax := b.add(PrevCreditMax)
	annuityMean := b.add(PrevAnnuityMean)
	annuityMax := b.add(PrevAnnuityMax)
	downPaymentMean := b.add(PrevDownPaymentMean)
	daysDecisionMean := b.add(PrevDaysDecisionMean)
	daysDecisionMin := b.add(PrevDaysDecisionMin)
	daysDecisionMax := b.add(PrevDaysDecisionMax)
	products := b.add(PrevProducts)
	approvalRate := b.add(PrevApprovalRate)
	refusalRate := b.add(PrevRefusalRate)
	creditAppRatio := b.add(PrevCreditAppRatio)

	for i, key := range keys {
		rows := groups[key]

		count[i] = float64(len(rows))
		approved[i] = groupCountWhere(rows, func(r PreviousApplication) bool { return r.ContractStatus == ContractStatusApproved })
		refused[i] = groupCountWhere(rows, func(r PreviousApplication) bool { return r.ContractStatus == ContractStatusRefused })
		canceled[i] = groupCountWhere(rows, func(r PreviousApplication) bool { return r.ContractStatus == ContractStatusCanceled })
		unused[i] = groupCountWhere(rows, func(r PreviousApplication) bool { return r.ContractStatus == ContractStatusUnused })
		cash[i] = groupCountWhere(rows, func(r PreviousApplication) bool { return r.ContractType == ContractTypeCash })
		consumer[i] = groupCountWhere(rows, func(r PreviousApplication) bool { return r.ContractType == ContractTypeConsumer })
		revolving[i] = groupCountWhere(rows, func(r PreviousApplication) bool { return r.ContractType == ContractTypeRevolving })

		applicationSum[i] = groupSum(rows, func(r PreviousApplication) float64 { return r.AmtApplication })
		applicationMean[i] = groupMean(rows, func(r PreviousApplication) float64 { return r.AmtApplication })
		applicationMax[i] = groupMax(rows, func(r PreviousApplication) float64 { return r.AmtApplication })
		creditSum[i] = groupSum(rows, func(r PreviousApplication) float64 { return r.AmtCredit })
		creditMean[i] = groupMean(rows, func(r PreviousApplication) float64 { return r.AmtCredit })
		creditMax[i] = groupMax(rows, func(r PreviousApplication) float64 { return r.AmtCredit })
		annuityMean[i] = groupMean(rows, func(r PreviousApplication) float64 { return r.AmtAnnuity })
		annuityMax[i] = groupMax(rows, func(r PreviousApplication) float64 { return r.AmtAnnuity })
		downPaymentMean[i] = groupMean(rows, func(r PreviousApplication) float64 { return r.AmtDownPayment })

		daysDecisionMean[i] = groupMean(rows, func(r PreviousApplication) float64 { return r.DaysDecision })
		daysDecisionMin[i] = groupMin(rows, func(r PreviousApplication) float64 { return r.DaysDecision })
		daysDecisionMax[i] = groupMax(rows, func(r PreviousApplication) float64 { return r.DaysDecision })
		products[i] = groupDistinct(rows, func(r PreviousApplication) string { return r.ProductCombination })

		approvalRate[i] = ratio(approved[i], count[i])
		refusalRate[i] = ratio(refused[i], count[i])
		creditAppRatio[i] = ratio(creditSum[i], applicationSum[i])
	}

	return b.build(a.TableName())
}
