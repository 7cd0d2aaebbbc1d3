package features

// Raw applicant columns consumed by the deriver. Anything listed here is a
// schema requirement: derivation aborts if one is absent.
const (
	ColDaysEmployed        = "DAYS_EMPLOYED"
	ColDaysBirth           = "DAYS_BIRTH"
	ColDaysRegistration    = "DAYS_REGISTRATION"
	ColDaysIDPublish       = "DAYS_ID_PUBLISH"
	ColAmtCredit           = "AMT_CREDIT"
	ColAmtIncomeTotal      = "AMT_INCOME_TOTAL"
	ColAmtAnnuity          = "AMT_ANNUITY"
	ColAmtGoodsPrice       = "AMT_GOODS_PRICE"
	ColCntFamMembers       = "CNT_FAM_MEMBERS"
	ColCntChildren         = "CNT_CHILDREN"
	ColExtSource1          = "EXT_SOURCE_1"
	ColExtSource2          = "EXT_SOURCE_2"
	ColExtSource3          = "EXT_SOURCE_3"
	ColEducationType       = "NAME_EDUCATION_TYPE"
	ColFamilyStatus        = "NAME_FAMILY_STATUS"
	ColOwnCarAge           = "OWN_CAR_AGE"
	ColDaysLastPhoneChange = "DAYS_LAST_PHONE_CHANGE"
)

// Derived feature columns, in derivation stage order.
const (
	FeatDaysEmployedAnom = "DAYS_EMPLOYED_ANOM"

	FeatAgeYears          = "AGE_YEARS"
	FeatEmployedYears     = "EMPLOYED_YEARS"
	FeatRegistrationYears = "REGISTRATION_YEARS"
	FeatIDPublishYears    = "ID_PUBLISH_YEARS"

	FeatCreditIncomeRatio  = "CREDIT_INCOME_RATIO"
	FeatAnnuityIncomeRatio = "ANNUITY_INCOME_RATIO"
	FeatAnnuityCreditRatio = "ANNUITY_CREDIT_RATIO"
	FeatCreditTermYears    = "CREDIT_TERM_YEARS"
	FeatGoodsCreditRatio   = "GOODS_CREDIT_RATIO"
	FeatGoodsIncomeRatio   = "GOODS_INCOME_RATIO"
	FeatIncomePerPerson    = "INCOME_PER_PERSON"
	FeatCreditPerPerson    = "CREDIT_PER_PERSON"
	FeatChildrenRatio      = "CHILDREN_RATIO"
	FeatCreditPerChild     = "CREDIT_PER_CHILD"

	FeatExtSourcesMean     = "EXT_SOURCES_MEAN"
	FeatExt2Ext3Prod       = "EXT2_EXT3_PROD"
	FeatExt3AgeProd        = "EXT3_AGE_PROD"
	FeatCreditExt2Prod     = "CREDIT_EXT2_PROD"
	FeatEducationXIncome   = "EDUCATION_X_INCOME"
	FeatFamilyStatXIncome  = "FAMILY_STATUS_X_INCOME"

	FeatAgeBand    = "AGE_BAND"
	FeatIncomeBand = "INCOME_BAND"
	FeatCreditBand = "CREDIT_BAND"

	FeatDocumentCount = "DOCUMENT_COUNT"
)

// MissingIndicatorSuffix is appended to a field name to form its
// missing-value indicator column.
const MissingIndicatorSuffix = "_MISSING"

// daysEmployedSentinel encodes "not applicable" in the raw employment-days
// field. Observed in roughly 18% of applicant rows.
const daysEmployedSentinel = 365243

// daysPerYear converts elapsed-day counts to year counts.
const daysPerYear = 365

// missingIndicatorFields are the eight fields prone to missingness that get a
// generic boolean indicator. DAYS_EMPLOYED is excluded: its indicator is the
// sentinel anomaly flag, a distinct feature.
var missingIndicatorFields = []string{
	ColExtSource1,
	ColExtSource2,
	ColExtSource3,
	ColAmtAnnuity,
	ColAmtGoodsPrice,
	ColCntFamMembers,
	ColOwnCarAge,
	ColDaysLastPhoneChange,
}

// documentFlagColumns is the explicit, schema-declared list of document
// submission flags summed into DOCUMENT_COUNT. Declared rather than matched
// by name prefix so the contract is statically checkable.
var documentFlagColumns = []string{
	"FLAG_DOCUMENT_2", "FLAG_DOCUMENT_3", "FLAG_DOCUMENT_4", "FLAG_DOCUMENT_5",
	"FLAG_DOCUMENT_6", "FLAG_DOCUMENT_7", "FLAG_DOCUMENT_8", "FLAG_DOCUMENT_9",
	"FLAG_DOCUMENT_10", "FLAG_DOCUMENT_11", "FLAG_DOCUMENT_12", "FLAG_DOCUMENT_13",
	"FLAG_DOCUMENT_14", "FLAG_DOCUMENT_15", "FLAG_DOCUMENT_16", "FLAG_DOCUMENT_17",
	"FLAG_DOCUMENT_18", "FLAG_DOCUMENT_19", "FLAG_DOCUMENT_20", "FLAG_DOCUMENT_21",
}

// Canonical category-to-ordinal codes for the two interaction encodings.
// The mapping is fixed from the full dataset's label vocabulary, sorted
// alphabetically, and reused verbatim for both splits so the encoding cannot
// drift when a split is missing a category. Unknown labels encode as missing.
var educationCodes = map[string]float64{
	"Academic degree":               0,
	"Higher education":              1,
	"Incomplete higher":             2,
	"Lower secondary":               3,
	"Secondary / secondary special": 4,
}

var familyStatusCodes = map[string]float64{
	"Civil marriage":       0,
	"Married":              1,
	"Separated":            2,
	"Single / not married": 3,
	"Unknown":              4,
	"Widow":                5,
}

// RequiredColumns returns the applicant columns the deriver reads. The
// pipeline checks these up front so a malformed input fails before any work.
func RequiredColumns() []string {
	cols := []string{
		ColDaysEmployed, ColDaysBirth, ColDaysRegistration, ColDaysIDPublish,
		ColAmtCredit, ColAmtIncomeTotal, ColAmtAnnuity, ColAmtGoodsPrice,
		ColCntFamMembers, ColCntChildren,
		ColExtSource1, ColExtSource2, ColExtSource3,
		ColEducationType, ColFamilyStatus,
		ColOwnCarAge, ColDaysLastPhoneChange,
	}
	return append(cols, documentFlagColumns...)
}
