package domain

// Optional marks a patch field as present or absent. An absent field leaves
// the stored value unchanged. For clearable fields the type parameter is a
// pointer or slice, and a present nil value means "clear it".
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present value.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an absent value.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// IsSet reports whether the value is present.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// OrElse returns the value if present, otherwise def.
func (o Optional[T]) OrElse(def T) T {
	if o.set {
		return o.value
	}

	return def
}

// applyTo overwrites *dst when the value is present.
func (o Optional[T]) applyTo(dst *T) {
	if o.set {
		*dst = o.value
	}
}
