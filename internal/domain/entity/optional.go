package entity

// Optional holds a value that is either present or absent. The zero value is absent.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// FromPtr returns an Optional that is present iff p is non-nil.
func FromPtr[T any](p *T) Optional[T] {
	if p == nil {
		return None[T]()
	}

	return Some(*p)
}

// IsSet reports whether a value is present.
func (o Optional[T]) IsSet() bool {
	return o.set
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// Ptr returns a pointer to a copy of the value, or nil when absent.
func (o Optional[T]) Ptr() *T {
	if !o.set {
		return nil
	}
	v := o.value

	return &v
}

// ProfileUpdate carries the mutable profile attributes of an account.
// An attribute that is absent is left untouched by the update.
type ProfileUpdate struct {
	FirstName Optional[string]
	LastName  Optional[string]
}

// IsEmpty reports whether no attribute was supplied.
func (p ProfileUpdate) IsEmpty() bool {
	return !p.FirstName.IsSet() && !p.LastName.IsSet()
}
