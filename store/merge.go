// store/merge.go
package store

import (
	"encoding/json"
	"fmt"
)

// applyFields merges a sparse field map (JSON field names) into rec. Used by
// the local adapter's read-modify-write updates and by the facade's
// optimistic cache updates so both see identical post-write records.
func applyFields(rec interface{}, fields map[string]interface{}) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("merge: encode record: %w", err)
	}
	m := map[string]interface{}{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("merge: decode record: %w", err)
	}
	for k, v := range fields {
		m[k] = v
	}
	merged, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("merge: encode merged: %w", err)
	}
	if err := json.Unmarshal(merged, rec); err != nil {
		return fmt.Errorf("merge: apply merged: %w", err)
	}
	return nil
}
