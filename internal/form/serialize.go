package form

import (
	"encoding/json"
	"fmt"
)

// Serialize renders validated values as indented JSON for the result block.
func Serialize(values FormValues) (string, error) {
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return "", fmt.Errorf("serialize form values: %w", err)
	}
	return string(data), nil
}

// Parse reads a serialized result back into FormValues.
func Parse(text string) (FormValues, error) {
	var values FormValues
	if err := json.Unmarshal([]byte(text), &values); err != nil {
		return FormValues{}, fmt.Errorf("parse form values: %w", err)
	}
	return values, nil
}
