package property

import (
	"bytes"
	"encoding/json"
)

// Field is a JSON value that remembers whether its key was present and
// whether it was null. The zero value is "absent".
type Field[T any] struct {
	Set   bool
	Valid bool
	Value T
}

// Of returns a present, non-null field.
func Of[T any](v T) Field[T] {
	return Field[T]{Set: true, Valid: true, Value: v}
}

// Null returns a present field holding an explicit null.
func Null[T any]() Field[T] {
	return Field[T]{Set: true}
}

func (f *Field[T]) UnmarshalJSON(data []byte) error {
	f.Set = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		f.Valid = false
		var zero T
		f.Value = zero
		return nil
	}
	// Scrapers send ids and zips as bare numbers as often as strings.
	if p, ok := any(&f.Value).(*string); ok {
		trimmed := bytes.TrimSpace(data)
		if len(trimmed) > 0 && trimmed[0] != '"' {
			var n json.Number
			if err := json.Unmarshal(trimmed, &n); err != nil {
				return err
			}
			*p = n.String()
			f.Valid = true
			return nil
		}
	}
	if err := json.Unmarshal(data, &f.Value); err != nil {
		return err
	}
	f.Valid = true
	return nil
}

func (f Field[T]) MarshalJSON() ([]byte, error) {
	if !f.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns nil for absent and null fields.
func (f Field[T]) Ptr() *T {
	if !f.Valid {
		return nil
	}
	v := f.Value
	return &v
}
