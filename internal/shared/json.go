package shared

import (
	"encoding/json"
	"fmt"
)

// MarshalJSON marshals v, optionally indented for human consumption.
func MarshalJSON(v any, pretty bool) ([]byte, error) {
	var data []byte
	var err error
	if pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return data, nil
}

// ValidateJSON returns an error if data is not syntactically valid JSON.
func ValidateJSON(data []byte) error {
	if !json.Valid(data) {
		return fmt.Errorf("%w: not valid JSON", ErrInvalidInput)
	}
	return nil
}
