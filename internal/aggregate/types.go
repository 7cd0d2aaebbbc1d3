package aggregate

// BureauRecord is one credit-bureau entry for an applicant. Applicants appear
// in any number of rows; records are read-only inputs to aggregation.
type BureauRecord struct {
	ApplicantID       int64
	CreditActive      string
	CreditType        string
	AmtCreditSum      float64
	AmtCreditSumDebt  float64
	AmtCreditOverdue  float64
	DaysCredit        float64
	DaysCreditEnddate float64
	DaysCreditUpdate  float64
	CntCreditProlong  float64
}

// PreviousApplication is one prior loan application by an applicant.
type PreviousApplication struct {
	ApplicantID        int64
	ContractStatus     string
	ContractType       string
	ProductCombination string
	AmtApplication     float64
	AmtCredit          float64
	AmtAnnuity         float64
	AmtDownPayment     float64
	DaysDecision       float64
}

// InstallmentPayment is one scheduled installment and the payment made
// against it. Day counts are relative to the current application date.
type InstallmentPayment struct {
	ApplicantID      int64
	AmtInstalment    float64
	AmtPayment       float64
	DaysInstalment   float64
	DaysEntryPayment float64
}

// Credit bureau status categories used for per-status counts.
const (
	CreditActiveOpen   = "Active"
	CreditActiveClosed = "Closed"
	CreditActiveSold   = "Sold"
	CreditActiveBad    = "Bad debt"
)

// Previous application contract status categories.
const (
	ContractStatusApproved = "Approved"
	ContractStatusRefused  = "Refused"
	ContractStatusCanceled = "Canceled"
	ContractStatusUnused   = "Unused offer"
)

// Previous application contract type categories.
const (
	ContractTypeCash      = "Cash loans"
	ContractTypeConsumer  = "Consumer loans"
	ContractTypeRevolving = "Revolving loans"
)
