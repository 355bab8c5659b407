package voidecs

import "reflect"

// Resources is a keyed, process-wide store of singleton values shared
// among systems. It supports two modes: by-value, where
// the store holds the canonical instance and Get returns a mutable view
// into it, and by-reference, for resources whose ownership lives
// outside the store entirely (e.g. an externally owned graphics
// context).
type Resources struct {
	values map[reflect.Type]any
	refs   map[reflect.Type]any
}

// NewResources returns an empty resource store.
func NewResources() *Resources {
	return &Resources{values: make(map[reflect.Type]any), refs: make(map[reflect.Type]any)}
}

// InsertResource stores value by value, overwriting any existing
// instance of the same type.
func InsertResource[T any](r *Resources, value T) {
	t := reflect.TypeOf(value)
	r.values[t] = &value
}

// GetResource returns a mutable pointer to the stored instance of T, or
// false if absent. Mutations through the pointer are observed by later
// GetResource[T] calls: the store holds the canonical instance, not a
// per-call copy.
func GetResource[T any](r *Resources) (*T, bool) {
	var zero T
	t := reflect.TypeOf(zero)
	v, ok := r.values[t]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// HasResource reports whether a by-value resource of type T is present.
func HasResource[T any](r *Resources) bool {
	var zero T
	_, ok := r.values[reflect.TypeOf(zero)]
	return ok
}

// RemoveResource deletes the by-value resource of type T, if present.
func RemoveResource[T any](r *Resources) {
	var zero T
	delete(r.values, reflect.TypeOf(zero))
}

// InsertResourceRef stores an externally owned reference to value. The
// store never copies or takes ownership of it.
func InsertResourceRef[T any](r *Resources, value *T) {
	t := reflect.TypeOf(*new(T))
	r.refs[t] = value
}

// GetResourceRef returns the externally owned reference of type T, or
// false if absent.
func GetResourceRef[T any](r *Resources) (*T, bool) {
	var zero T
	t := reflect.TypeOf(zero)
	v, ok := r.refs[t]
	if !ok {
		return nil, false
	}
	return v.(*T), true
}

// RemoveResourceRef deletes the by-reference slot for T, if present. It
// does not affect the referenced value's lifetime.
func RemoveResourceRef[T any](r *Resources) {
	var zero T
	delete(r.refs, reflect.TypeOf(zero))
}
