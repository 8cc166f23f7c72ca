package card

import (
	"encoding/json"
	"errors"
)

// Opt holds a value together with an explicit presence flag. The zero Opt is
// unset; Some("") is set to the empty string and is not equal to the zero Opt.
type Opt[T comparable] struct {
	value T
	set   bool
}

// Some returns an Opt holding v.
func Some[T comparable](v T) Opt[T] {
	return Opt[T]{value: v, set: true}
}

// Set stores v and marks the Opt as present.
func (o *Opt[T]) Set(v T) {
	o.value = v
	o.set = true
}

// Unset clears the value and the presence flag.
func (o *Opt[T]) Unset() {
	var zero T
	o.value = zero
	o.set = false
}

// Get returns the value and whether it is set.
func (o Opt[T]) Get() (T, bool) {
	return o.value, o.set
}

// Value returns the stored value, or the zero value when unset.
func (o Opt[T]) Value() T {
	return o.value
}

// IsSet reports whether a value is present.
func (o Opt[T]) IsSet() bool {
	return o.set
}

// IsZero reports whether the Opt is unset. encoding/json consults it for
// omitzero fields, so unset values never produce a key.
func (o Opt[T]) IsZero() bool {
	return !o.set
}

// Equal compares presence and value.
func (o Opt[T]) Equal(other Opt[T]) bool {
	if o.set != other.set {
		return false
	}
	return !o.set || o.value == other.value
}

// Ptr returns a pointer to a copy of the value, or nil when unset.
func (o Opt[T]) Ptr() *T {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// FromPtr builds an Opt from a nil-able pointer.
func FromPtr[T comparable](p *T) Opt[T] {
	if p == nil {
		return Opt[T]{}
	}
	return Some(*p)
}

// MarshalJSON encodes the value. Unset values encode as null, but callers
// should rely on omitzero to drop them entirely.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON marks the Opt as set. Explicit null is rejected: absence is
// expressed by omitting the key.
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return errors.New("card: null is not a valid value; omit the field instead")
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	o.Set(v)
	return nil
}
