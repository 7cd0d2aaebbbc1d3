package pipeline

import (
	"fmt"

	"creditfeatures/internal/dataset"
	"creditfeatures/internal/errors"
)

// validateSplit checks the invariants an applicant split must satisfy before
// any transform runs: a unique applicant identifier per row, and the label
// column present without gaps on train and absent on test.
func validateSplit(t *dataset.Table, labeled bool) error {
	keys, err := t.Keys()
	if err != nil {
		return err
	}

	seen := make(map[int64]struct{}, len(keys))
	for i, k := range keys {
		if _, dup := seen[k]; dup {
			return errors.NewValidationError(t.Name(),
				fmt.Sprintf("row %d: duplicate applicant identifier %d", i, k))
		}
		seen[k] = struct{}{}
	}

	if !labeled {
		if t.HasColumn(TargetColumn) {
			return errors.NewValidationError(t.Name(), "test split must not carry the label column")
		}
		return nil
	}

	target, err := t.Floats(TargetColumn)
	if err != nil {
		return err
	}
	for i, v := range target {
		if dataset.IsMissing(v) {
			return errors.NewValidationError(t.Name(),
				fmt.Sprintf("row %d: label value is missing", i))
		}
	}
	return nil
}
