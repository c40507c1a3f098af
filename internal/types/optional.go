package types

import (
	"bytes"
	"encoding/json"
)

// Optional is a tri-state JSON field for partial updates: a field left out of
// the request body is "not set", an explicit null is "set to null" (clear),
// and anything else is "set to a value". encoding/json never calls
// UnmarshalJSON for absent fields, which is what makes the distinction work.
type Optional[T any] struct {
	Set   bool
	Valid bool
	Value T
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Set = true

	if bytes.Equal(data, []byte("null")) {
		o.Valid = false
		var zero T
		o.Value = zero
		return nil
	}

	if err := json.Unmarshal(data, &o.Value); err != nil {
		return err
	}

	o.Valid = true
	return nil
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.Set || !o.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(o.Value)
}
