package aggregate

import (
	"sort"

	"creditfeatures/internal/dataset"
)

// Per-group summary statistics. Missing operands (NaN) are skipped: a sum over
// no usable values is 0, while a mean, min or max over no usable values is
// missing. Ratios with an undefined denominator are also missing.

func groupSum[T any](rows []T, value func(T) float64) float64 {
	total := 0.0
	for _, r := range rows {
		v := value(r)
		if !dataset.IsMissing(v) {
			total += v
		}
	}
	return total
}

func groupMean[T any](rows []T, value func(T) float64) float64 {
	total, n := 0.0, 0
	for _, r := range rows {
		v := value(r)
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

func groupMin[T any](rows []T, value func(T) float64) float64 {
	best, found := 0.0, false
	for _, r := range rows {
		v := value(r)
		if dataset.IsMissing(v) {
			continue
		}
		if !found || v < best {
			best = v
			found = true
		}
	}
	if !found {
		return dataset.Missing()
	}
	return best
}

func groupMax[T any](rows []T, value func(T) float64) float64 {
	best, found := 0.0, false
	for _, r := range rows {
		v := value(r)
		if dataset.IsMissing(v) {
			continue
		}
		if !found || v > best {
			best = v
			found = true
		}
	}
	if !found {
		return dataset.Missing()
	}
	return best
}

func groupCountWhere[T any](rows []T, pred func(T) bool) float64 {
	n := 0
	for _, r := range rows {
		if pred(r) {
			n++
		}
	}
	return float64(n)
}

// groupDistinct counts distinct non-empty labels.
func groupDistinct[T any](rows []T, label func(T) string) float64 {
	seen := make(map[string]struct{})
	for _, r := range rows {
		if l := label(r); l != "" {
			seen[l] = struct{}{}
		}
	}
	return float64(len(seen))
}

// ratio divides numerator by denominator, mapping any undefined result
// (zero or missing denominator, infinity) to missing.
func ratio(num, den float64) float64 {
	if dataset.IsMissing(num) || dataset.IsMissing(den) || den == 0 {
		return dataset.Missing()
	}
	return dataset.Sanitize(num / den)
}

// groupByApplicant buckets rows by applicant identifier and returns the
// distinct identifiers in ascending order for deterministic output.
func groupByApplicant[T any](rows []T, id func(T) int64) (map[int64][]T, []int64) {
	groups := make(map[int64][]T)
	for _, r := range rows {
		k := id(r)
		groups[k] = append(groups[k], r)
	}
	keys := make([]int64, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return groups, keys
}

// tableBuilder assembles an aggregate feature table column by column, one row
// per applicant identifier.
type tableBuilder struct {
	keys  []int64
	names []string
	cols  [][]float64
}

func newTableBuilder(keys []int64) *tableBuilder {
	return &tableBuilder{keys: keys}
}

func (b *tableBuilder) add(name string) []float64 {
	col := make([]float64, len(b.keys))
	b.names = append(b.names, name)
	b.cols = append(b.cols, col)
	return col
}

func (b *tableBuilder) build(name string) (*dataset.Table, error) {
	t := dataset.NewTable(name, len(b.keys))
	ids := make([]float64, len(b.keys))
	for i, k := range b.keys {
		ids[i] = float64(k)
	}
	if err := t.AddFloats(dataset.KeyColumn, ids); err != nil {
		return nil, err
	}
	for i, colName := range b.names {
		if err := t.AddFloats(colName, b.cols[i]); err != nil {
			return nil, err
		}
	}
	return t, nil
}
