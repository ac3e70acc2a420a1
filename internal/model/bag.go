package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Bag is an insertion-ordered mapping of raw attribute keys to untyped values.
//
// Values are one of: string, json.Number, bool, nil, []any or *Bag. Iteration
// order is the order in which keys were first set, which is what the field
// matcher relies on for tie-breaking.
type Bag struct {
	keys   []string
	values map[string]any
}

// NewBag creates an empty bag
func NewBag() *Bag {
	return &Bag{values: make(map[string]any)}
}

// BagOf builds a bag from alternating key/value arguments.
// It panics on an odd argument count or a non-string key.
func BagOf(kv ...any) *Bag {
	if len(kv)%2 != 0 {
		panic("model.BagOf: odd number of arguments")
	}
	b := NewBag()
	for i := 0; i < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			panic(fmt.Sprintf("model.BagOf: key %v is not a string", kv[i]))
		}
		b.Set(key, kv[i+1])
	}
	return b
}

// Len returns the number of keys
func (b *Bag) Len() int {
	if b == nil {
		return 0
	}
	return len(b.keys)
}

// IsEmpty reports whether the bag holds no keys
func (b *Bag) IsEmpty() bool {
	return b.Len() == 0
}

// Keys returns the keys in insertion order
func (b *Bag) Keys() []string {
	if b == nil {
		return nil
	}
	out := make([]string, len(b.keys))
	copy(out, b.keys)
	return out
}

// Get returns the value stored under key
func (b *Bag) Get(key string) (any, bool) {
	if b == nil {
		return nil, false
	}
	v, ok := b.values[key]
	return v, ok
}

// Has reports whether key is present
func (b *Bag) Has(key string) bool {
	_, ok := b.Get(key)
	return ok
}

// Set stores value under key. An existing key keeps its position.
func (b *Bag) Set(key string, value any) {
	if b.values == nil {
		b.values = make(map[string]any)
	}
	if _, ok := b.values[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
}

// SetIfAbsent stores value only when key is not present yet.
// It reports whether the value was stored.
func (b *Bag) SetIfAbsent(key string, value any) bool {
	if b.Has(key) {
		return false
	}
	b.Set(key, value)
	return true
}

// Delete removes key from the bag
func (b *Bag) Delete(key string) {
	if _, ok := b.values[key]; !ok {
		return
	}
	delete(b.values, key)
	for i, k := range b.keys {
		if k == key {
			b.keys = append(b.keys[:i], b.keys[i+1:]...)
			break
		}
	}
}

// Range calls fn for every entry in insertion order until fn returns false
func (b *Bag) Range(fn func(key string, value any) bool) {
	if b == nil {
		return
	}
	for _, k := range b.keys {
		if !fn(k, b.values[k]) {
			return
		}
	}
}

// Merge copies entries of other into b. With overwrite false, keys already
// present in b are left untouched.
func (b *Bag) Merge(other *Bag, overwrite bool) {
	other.Range(func(k string, v any) bool {
		if overwrite {
			b.Set(k, v)
		} else {
			b.SetIfAbsent(k, v)
		}
		return true
	})
}

// Clone returns a shallow copy of the bag
func (b *Bag) Clone() *Bag {
	out := NewBag()
	out.Merge(b, true)
	return out
}

// Lookup resolves a dot-separated path through nested bags. Any missing or
// non-object intermediate yields (nil, false).
func (b *Bag) Lookup(path string) (any, bool) {
	var current any = b
	for _, part := range strings.Split(path, ".") {
		nested, ok := current.(*Bag)
		if !ok || nested == nil {
			return nil, false
		}
		current, ok = nested.Get(part)
		if !ok {
			return nil, false
		}
	}
	return current, true
}

// MarshalJSON encodes the bag as a JSON object in insertion order
func (b *Bag) MarshalJSON() ([]byte, error) {
	if b == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(b.values[k])
		if err != nil {
			return nil, fmt.Errorf("marshal %q: %w", k, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, preserving key order and
// keeping numbers as json.Number
func (b *Bag) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("bag: expected JSON object, got %v", tok)
	}

	decoded, err := decodeObject(dec)
	if err != nil {
		return err
	}
	*b = *decoded
	return nil
}

// ParseJSON decodes any JSON document into bag-compatible values.
// Objects become *Bag, arrays []any, numbers json.Number.
func ParseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("trailing data after JSON value")
	}
	return v, nil
}

// ParseJSONPrefix decodes the first JSON value in data and ignores whatever
// follows it, such as the rest of a script body
func ParseJSONPrefix(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	return decodeValue(dec)
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected delimiter %v", t)
	default:
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (*Bag, error) {
	b := NewBag()
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("expected object key, got %v", tok)
		}
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		b.Set(key, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return b, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	out := make([]any, 0)
	for dec.More() {
		val, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return out, nil
}
