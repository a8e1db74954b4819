package dto

import (
	"bytes"
	"encoding/json"
)

// Nullable tracks the three states of a JSON field in a PATCH body:
// absent (Set false), explicit null (Set and Null), or a value.
type Nullable[T any] struct {
	Value T
	Set   bool
	Null  bool
}

// UnmarshalJSON implements json.Unmarshaler. It only runs when the key is
// present, which is what distinguishes absent from null.
func (n *Nullable[T]) UnmarshalJSON(b []byte) error {
	n.Set = true

	if bytes.Equal(bytes.TrimSpace(b), []byte("null")) {
		n.Null = true

		var zero T
		n.Value = zero

		return nil
	}

	n.Null = false

	return json.Unmarshal(b, &n.Value)
}

// Some wraps a present, non-null value. Used by tests and tooling.
func Some[T any](v T) Nullable[T] {
	return Nullable[T]{Value: v, Set: true}
}

// Null returns an explicit null.
func Null[T any]() Nullable[T] {
	return Nullable[T]{Set: true, Null: true}
}
