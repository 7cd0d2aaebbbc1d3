package features

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"creditfeatures/internal/dataset"
)

// Deriver adds the applicant-level derived features to an applicant table.
// Stages run in a fixed order and are append-only: no rows are added or
// removed and no raw column is dropped. The single exception to raw-column
// immutability is the employment-days field, whose sentinel occurrences are
// rewritten to missing by the anomaly stage.
type Deriver struct {
	logger *slog.Logger
}

// NewDeriver creates an applicant feature deriver.
func NewDeriver(logger *slog.Logger) *Deriver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Deriver{logger: logger}
}

// Derive runs all seven derivation stages over the table in place.
func (d *Deriver) Derive(ctx context.Context, t *dataset.Table) error {
	if err := t.Require(RequiredColumns()...); err != nil {
		return err
	}

	d.logger.InfoContext(ctx, "deriving applicant features",
		slog.String("table", t.Name()),
		slog.Int("rows", t.NumRows()))

	stages := []struct {
		name string
		run  func(*dataset.Table) error
	}{
		{"anomaly_correction", d.applyEmploymentAnomaly},
		{"year_conversion", d.applyYearConversions},
		{"ratio_derivation", d.applyRatios},
		{"missing_indicators", d.applyMissingIndicators},
		{"interaction_terms", d.applyInteractions},
		{"binning", d.applyBins},
		{"document_count", d.applyDocumentCount},
	}

	for _, stage := range stages {
		if err := stage.run(t); err != nil {
			return fmt.Errorf("derive stage %s: %w", stage.name, err)
		}
		d.logger.DebugContext(ctx, "derivation stage completed",
			slog.String("stage", stage.name),
			slog.Int("columns", t.NumCols()))
	}

	return nil
}

// applyEmploymentAnomaly flags sentinel employment-day values and rewrites
// them to missing. The indicator is true exactly where the sentinel occurred.
func (d *Deriver) applyEmploymentAnomaly(t *dataset.Table) error {
	days, err := t.Floats(ColDaysEmployed)
	if err != nil {
		return err
	}

	anom := make([]bool, len(days))
	for i, v := range days {
		if v == daysEmployedSentinel {
			anom[i] = true
			days[i] = dataset.Missing()
		}
	}
	return t.AddBools(FeatDaysEmployedAnom, anom)
}

// applyYearConversions converts the four negative day-count fields to
// non-negative year counts. Missing inputs stay missing.
func (d *Deriver) applyYearConversions(t *dataset.Table) error {
	conversions := []struct {
		src, dst string
	}{
		{ColDaysBirth, FeatAgeYears},
		{ColDaysEmployed, FeatEmployedYears},
		{ColDaysRegistration, FeatRegistrationYears},
		{ColDaysIDPublish, FeatIDPublishYears},
	}

	for _, c := range conversions {
		days, err := t.Floats(c.src)
		if err != nil {
			return err
		}
		years := make([]float64, len(days))
		for i, v := range days {
			if dataset.IsMissing(v) {
				years[i] = dataset.Missing()
				continue
			}
			years[i] = math.Abs(v) / daysPerYear
		}
		if err := t.AddFloats(c.dst, years); err != nil {
			return err
		}
	}
	return nil
}

// applyRatios derives the ten financial ratios. Division by zero or by a
// missing divisor yields missing, except the per-child credit ratio, which
// falls back to zero for childless applicants.
func (d *Deriver) applyRatios(t *dataset.Table) error {
	income, err := t.Floats(ColAmtIncomeTotal)
	if err != nil {
		return err
	}
	credit, err := t.Floats(ColAmtCredit)
	if err != nil {
		return err
	}
	annuity, err := t.Floats(ColAmtAnnuity)
	if err != nil {
		return err
	}
	goods, err := t.Floats(ColAmtGoodsPrice)
	if err != nil {
		return err
	}
	famMembers, err := t.Floats(ColCntFamMembers)
	if err != nil {
		return err
	}
	children, err := t.Floats(ColCntChildren)
	if err != nil {
		return err
	}

	n := t.NumRows()
	ratios := []struct {
		name string
		calc func(i int) float64
	}{
		{FeatCreditIncomeRatio, func(i int) float64 { return div(credit[i], income[i]) }},
		{FeatAnnuityIncomeRatio, func(i int) float64 { return div(annuity[i], income[i]) }},
		{FeatAnnuityCreditRatio, func(i int) float64 { return div(annuity[i], credit[i]) }},
		{FeatCreditTermYears, func(i int) float64 { return div(credit[i], annuity[i]) }},
		{FeatGoodsCreditRatio, func(i int) float64 { return div(goods[i], credit[i]) }},
		{FeatGoodsIncomeRatio, func(i int) float64 { return div(goods[i], income[i]) }},
		{FeatIncomePerPerson, func(i int) float64 { return div(income[i], famMembers[i]) }},
		{FeatCreditPerPerson, func(i int) float64 { return div(credit[i], famMembers[i]) }},
		{FeatChildrenRatio, func(i int) float64 { return div(children[i], famMembers[i]) }},
		{FeatCreditPerChild, func(i int) float64 {
			if children[i] == 0 {
				return 0
			}
			return div(credit[i], children[i])
		}},
	}

	for _, r := range ratios {
		col := make([]float64, n)
		for i := range col {
			col[i] = r.calc(i)
		}
		if err := t.AddFloats(r.name, col); err != nil {
			return err
		}
	}
	return nil
}

// applyMissingIndicators adds a boolean missingness flag for each of the
// eight configured fields. Runs after anomaly correction, so sentinel
// employment days are already represented by their own indicator.
func (d *Deriver) applyMissingIndicators(t *dataset.Table) error {
	for _, field := range missingIndicatorFields {
		vals, err := t.Floats(field)
		if err != nil {
			return err
		}
		flags := make([]bool, len(vals))
		for i, v := range vals {
			flags[i] = dataset.IsMissing(v)
		}
		if err := t.AddBools(field+MissingIndicatorSuffix, flags); err != nil {
			return err
		}
	}
	return nil
}

// applyInteractions derives the six interaction features: the composite
// external score, three multiplicative pairs, and the two encoded-categorical
// income products.
func (d *Deriver) applyInteractions(t *dataset.Table) error {
	ext1, err := t.Floats(ColExtSource1)
	if err != nil {
		return err
	}
	ext2, err := t.Floats(ColExtSource2)
	if err != nil {
		return err
	}
	ext3, err := t.Floats(ColExtSource3)
	if err != nil {
		return err
	}
	age, err := t.Floats(FeatAgeYears)
	if err != nil {
		return err
	}
	credit, err := t.Floats(ColAmtCredit)
	if err != nil {
		return err
	}
	income, err := t.Floats(ColAmtIncomeTotal)
	if err != nil {
		return err
	}
	education, err := t.Strings(ColEducationType)
	if err != nil {
		return err
	}
	family, err := t.Strings(ColFamilyStatus)
	if err != nil {
		return err
	}

	n := t.NumRows()
	extMean := make([]float64, n)
	ext23 := make([]float64, n)
	ext3Age := make([]float64, n)
	creditExt2 := make([]float64, n)
	eduIncome := make([]float64, n)
	famIncome := make([]float64, n)

	for i := 0; i < n; i++ {
		extMean[i] = presentMean(ext1[i], ext2[i], ext3[i])
		ext23[i] = mul(ext2[i], ext3[i])
		ext3Age[i] = mul(ext3[i], age[i])
		creditExt2[i] = mul(credit[i], ext2[i])
		eduIncome[i] = mul(encode(educationCodes, education[i]), income[i])
		famIncome[i] = mul(encode(familyStatusCodes, family[i]), income[i])
	}

	cols := []struct {
		name string
		vals []float64
	}{
		{FeatExtSourcesMean, extMean},
		{FeatExt2Ext3Prod, ext23},
		{FeatExt3AgeProd, ext3Age},
		{FeatCreditExt2Prod, creditExt2},
		{FeatEducationXIncome, eduIncome},
		{FeatFamilyStatXIncome, famIncome},
	}
	for _, c := range cols {
		if err := t.AddFloats(c.name, c.vals); err != nil {
			return err
		}
	}
	return nil
}

// band is one half-open interval (lo, hi] of a binning scheme.
type band struct {
	hi    float64
	label string
}

var ageBands = []band{
	{25, "0-25"}, {35, "25-35"}, {45, "35-45"}, {55, "45-55"}, {65, "55-65"},
	{math.Inf(1), "65+"},
}

var incomeBands = []band{
	{100_000, "0-100K"}, {150_000, "100K-150K"}, {200_000, "150K-200K"},
	{300_000, "200K-300K"}, {math.Inf(1), "300K+"},
}

var creditBands = []band{
	{300_000, "0-300K"}, {600_000, "300K-600K"}, {900_000, "600K-900K"},
	{1_200_000, "900K-1.2M"}, {math.Inf(1), "1.2M+"},
}

// applyBins labels age, income and credit amount with their interval bands.
// A missing input maps to a missing label.
func (d *Deriver) applyBins(t *dataset.Table) error {
	bins := []struct {
		src, dst string
		bands    []band
	}{
		{FeatAgeYears, FeatAgeBand, ageBands},
		{ColAmtIncomeTotal, FeatIncomeBand, incomeBands},
		{ColAmtCredit, FeatCreditBand, creditBands},
	}

	for _, bin := range bins {
		vals, err := t.Floats(bin.src)
		if err != nil {
			return err
		}
		labels := make([]string, len(vals))
		for i, v := range vals {
			labels[i] = bandLabel(bin.bands, v)
		}
		if err := t.AddStrings(bin.dst, labels); err != nil {
			return err
		}
	}
	return nil
}

// applyDocumentCount sums the document-submission flags into one integer
// count per row. A missing flag cell contributes nothing.
func (d *Deriver) applyDocumentCount(t *dataset.Table) error {
	n := t.NumRows()
	count := make([]float64, n)
	for _, name := range documentFlagColumns {
		flags, err := t.Floats(name)
		if err != nil {
			return err
		}
		for i, v := range flags {
			if !dataset.IsMissing(v) && v != 0 {
				count[i]++
			}
		}
	}
	return t.AddFloats(FeatDocumentCount, count)
}

// div divides with the uniform undefined-arithmetic contract: a missing
// operand or zero divisor yields missing.
func div(num, den float64) float64 {
	if dataset.IsMissing(num) || dataset.IsMissing(den) || den == 0 {
		return dataset.Missing()
	}
	return dataset.Sanitize(num / den)
}

// mul multiplies with missing propagation.
func mul(a, b float64) float64 {
	if dataset.IsMissing(a) || dataset.IsMissing(b) {
		return dataset.Missing()
	}
	return dataset.Sanitize(a * b)
}

// presentMean averages whichever of the operands are present; all missing
// yields missing.
func presentMean(vals ...float64) float64 {
	total, n := 0.0, 0
	for _, v := range vals {
		if !dataset.IsMissing(v) {
			total += v
			n++
		}
	}
	if n == 0 {
		return dataset.Missing()
	}
	return total / float64(n)
}

// encode maps a categorical label to its canonical ordinal code; unknown or
// missing labels encode as missing.
func encode(codes map[string]float64, label string) float64 {
	code, ok := codes[label]
	if !ok {
		return dataset.Missing()
	}
	return code
}

// bandLabel finds the half-open interval containing v.
func bandLabel(bands []band, v float64) string {
	if dataset.IsMissing(v) {
		return ""
	}
	for _, b := range bands {
		if v <= b.hi {
			return b.label
		}
	}
	return bands[len(bands)-1].label
}
