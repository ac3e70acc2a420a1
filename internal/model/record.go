package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Record is a canonical profile record. Only canonical fields can be set,
// and JSON output follows the declared field order.
type Record struct {
	values map[Field]any
}

// NewRecord creates an empty record
func NewRecord() *Record {
	return &Record{values: make(map[Field]any)}
}

// Set stores a value for a canonical field. Non-canonical fields are refused.
func (r *Record) Set(f Field, value any) bool {
	if !IsCanonical(f) {
		return false
	}
	if r.values == nil {
		r.values = make(map[Field]any)
	}
	r.values[f] = value
	return true
}

// Get returns the value for a field
func (r *Record) Get(f Field) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.values[f]
	return v, ok
}

// Has reports whether a field is populated
func (r *Record) Has(f Field) bool {
	_, ok := r.Get(f)
	return ok
}

// Len returns the number of populated fields
func (r *Record) Len() int {
	if r == nil {
		return 0
	}
	return len(r.values)
}

// Fields returns the populated fields in declared order
func (r *Record) Fields() []Field {
	var out []Field
	for _, f := range fieldOrder {
		if r.Has(f) {
			out = append(out, f)
		}
	}
	return out
}

// Map returns the record as a plain map keyed by field name
func (r *Record) Map() map[string]any {
	out := make(map[string]any, r.Len())
	for _, f := range r.Fields() {
		out[string(f)] = r.values[f]
	}
	return out
}

// MarshalJSON encodes populated fields in declared order
func (r *Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range r.Fields() {
		if i > 0 {
			buf.WriteByte(',')
		}
		val, err := json.Marshal(r.values[f])
		if err != nil {
			return nil, fmt.Errorf("marshal %s: %w", f, err)
		}
		fmt.Fprintf(&buf, "%q:", string(f))
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a record, dropping any non-canonical keys
func (r *Record) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.values = make(map[Field]any, len(raw))
	for k, msg := range raw {
		if !IsCanonical(Field(k)) {
			continue
		}
		var v any
		if err := json.Unmarshal(msg, &v); err != nil {
			return fmt.Errorf("unmarshal %s: %w", k, err)
		}
		r.values[Field(k)] = v
	}
	return nil
}
