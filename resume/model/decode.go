package model

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed indicates stored data that is not a JSON object.
var ErrMalformed = errors.New("malformed record")

// DecodeStored parses a persisted record into its loosely typed form. Field
// types are not checked here; consumers skip values they cannot use. A JSON
// null decodes to a nil map.
func DecodeStored(data []byte) (map[string]any, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if raw == nil {
		return nil, nil
	}
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: expected object, got %T", ErrMalformed, raw)
	}
	return obj, nil
}

// ParseRecord validates a submitted record against the record schema and
// decodes it with every list field present.
func ParseRecord(data []byte) (Record, error) {
	if err := ValidateJSON(data); err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalidRecord, err)
	}
	return rec.Normalize(), nil
}
