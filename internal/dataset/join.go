package dataset

import (
	"fmt"
)

// LeftJoin joins the right table onto the left table by applicant identifier.
// The result preserves the left table's row set and order exactly: rows without
// a match receive missing values for every right-side column, and right-side
// rows whose key never appears on the left are dropped. All left columns come
// first, followed by the right columns minus the key.
func LeftJoin(left, right *Table) (*Table, error) {
	leftKeys, err := left.Keys()
	if err != nil {
		return nil, fmt.Errorf("left join %s x %s: %w", left.name, right.name, err)
	}
	rightKeys, err := right.Keys()
	if err != nil {
		return nil, fmt.Errorf("left join %s x %s: %w", left.name, right.name, err)
	}

	// First match wins; aggregate tables carry one row per applicant so
	// duplicates cannot occur on the right.
	rowByKey := make(map[int64]int, len(rightKeys))
	for i, k := range rightKeys {
		if _, seen := rowByKey[k]; !seen {
			rowByKey[k] = i
		}
	}

	out := NewTable(left.name, left.rows)
	for _, c := range left.cols {
		if err := out.addColumn(copyColumn(c)); err != nil {
			return nil, err
		}
	}

	for _, rc := range right.cols {
		if rc.Name == KeyColumn {
			continue
		}
		joined, err := gatherColumn(rc, leftKeys, rowByKey)
		if err != nil {
			return nil, fmt.Errorf("left join %s x %s: %w", left.name, right.name, err)
		}
		if err := out.addColumn(joined); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// gatherColumn builds the joined version of one right-side column, pulling the
// matched row's value or the missing marker for each left row.
func gatherColumn(rc *Column, leftKeys []int64, rowByKey map[int64]int) (*Column, error) {
	switch rc.Kind {
	case KindFloat:
		vals := make([]float64, len(leftKeys))
		for i, k := range leftKeys {
			if j, ok := rowByKey[k]; ok {
				vals[i] = rc.Floats[j]
			} else {
				vals[i] = Missing()
			}
		}
		return &Column{Name: rc.Name, Kind: KindFloat, Floats: vals}, nil
	case KindString:
		vals := make([]string, len(leftKeys))
		for i, k := range leftKeys {
			if j, ok := rowByKey[k]; ok {
				vals[i] = rc.Strings[j]
			}
		}
		return &Column{Name: rc.Name, Kind: KindString, Strings: vals}, nil
	default:
		// Boolean columns have no missing state, so they cannot survive a
		// left join that may leave rows unmatched.
		return nil, fmt.Errorf("column %s: bool columns cannot be joined", rc.Name)
	}
}

func copyColumn(c *Column) *Column {
	out := &Column{Name: c.Name, Kind: c.Kind}
	switch c.Kind {
	case KindFloat:
		out.Floats = append([]float64(nil), c.Floats...)
	case KindString:
		out.Strings = append([]string(nil), c.Strings...)
	default:
		out.Bools = append([]bool(nil), c.Bools...)
	}
	return out
}
