// Package model defines the data types shared across the validation pipeline.
package model

import (
	"encoding/json"
	"strings"
)

// Identifier keys checked on a prediction record, in priority order.
var identifierKeys = []string{"part_identifier", "part_name", "source_file"}

// PredictionRecord is one machine-generated prediction: a flat mapping of
// field name to scalar value, produced externally and immutable once
// received. The analyzer emits descriptive fields (complexity_level, type,
// material, part_name) alongside binary process indicators.
type PredictionRecord struct {
	Fields map[string]Value
}

// UnmarshalJSON decodes a flat JSON object into a PredictionRecord.
func (p *PredictionRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]Value
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	p.Fields = fields
	return nil
}

// MarshalJSON encodes the record back to a flat JSON object.
func (p PredictionRecord) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.Fields)
}

// Get returns the value for key and whether the field is present.
func (p PredictionRecord) Get(key string) (Value, bool) {
	v, ok := p.Fields[key]
	return v, ok
}

// Set stores a field value, allocating the map on first use.
func (p *PredictionRecord) Set(key string, v Value) {
	if p.Fields == nil {
		p.Fields = make(map[string]Value)
	}
	p.Fields[key] = v
}

// SourceID returns the raw identifier for matching against ground truth:
// the explicit part identifier if present, else the part name, else the
// source filename. Returns "" when none is set.
func (p PredictionRecord) SourceID() string {
	for _, key := range identifierKeys {
		if v, ok := p.Fields[key]; ok {
			if s := strings.TrimSpace(v.String()); s != "" {
				return s
			}
		}
	}
	return ""
}
