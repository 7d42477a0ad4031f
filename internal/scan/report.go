package scan

import (
	"encoding/json"
	"fmt"
	"os"
)

// WriteJSON serializes records as a pretty-printed JSON array at path.
// A nil slice is written as an empty array so the output is always a
// valid document. The write is single-shot: a partial file on
// interruption is accepted, there is no crash-safety requirement.
func WriteJSON(path string, records []Record) error {
	if records == nil {
		records = []Record{}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding records: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// ReadJSON loads a previously written report. Used by the db
// subcommand and by tests to round-trip output.
func ReadJSON(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return records, nil
}
