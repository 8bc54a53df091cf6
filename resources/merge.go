package resources

import (
	"fmt"

	"github.com/TwiN/deepmerge"
	"github.com/goccy/go-json"
)

// MergeFragments deep merges json objects into a single record. Later fragments
// overwrite the primitive values of earlier ones, nested objects are merged.
func MergeFragments(fragments ...[]byte) (Record, error) {
	merged := []byte("{}")
	for i, fragment := range fragments {
		if !json.Valid(fragment) {
			return nil, fmt.Errorf("data fragment %d is not valid json", i+1)
		}

		var err error
		merged, err = deepmerge.JSON(merged, fragment, deepmerge.Config{
			PreventMultipleDefinitionsOfKeysWithPrimitiveValue: false,
		})
		if err != nil {
			return nil, fmt.Errorf("unable to merge data fragment %d: %w", i+1, err)
		}
	}

	record := Record{}
	if err := json.Unmarshal(merged, &record); err != nil {
		return nil, fmt.Errorf("data must be a json object: %w", err)
	}
	return record, nil
}
