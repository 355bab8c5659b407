package voidecs

import (
	"reflect"
	"unsafe"
)

// ComponentID is a dense, append-only runtime identifier assigned the
// first time a component type is registered.
type ComponentID uint32

// componentInfo records what a column needs to know about a type: its
// byte size (for sizing column buffers) and an optional destructor run
// by Archetype.Remove before a cell is discarded.
type componentInfo struct {
	typ     reflect.Type
	size    int
	destroy func(cell []byte)
}

// TypeRegistry assigns dense ComponentIDs to component types discovered
// at runtime. It is append-only: once assigned, an id is never reused
// or reassigned to a different type for the lifetime of the registry.
type TypeRegistry struct {
	byType []reflect.Type
	ids    map[reflect.Type]ComponentID
	info   []componentInfo
	nextID uint32
}

// NewTypeRegistry returns an empty registry.
func NewTypeRegistry() *TypeRegistry {
	return &TypeRegistry{ids: make(map[reflect.Type]ComponentID)}
}

// RegisterType assigns (or returns the existing) ComponentID for T on
// the given registry directly. Idempotent: registering the same type
// twice returns the same id. World.Register is the usual entry point;
// this is exposed for hosts (plugins) that only hold a *TypeRegistry.
func RegisterType[T any](r *TypeRegistry) ComponentID {
	var zero T
	t := reflect.TypeOf(zero)
	if id, ok := r.ids[t]; ok {
		return id
	}
	id := ComponentID(r.nextID)
	r.nextID++
	r.ids[t] = id
	r.byType = append(r.byType, t)
	r.info = append(r.info, componentInfo{typ: t, size: int(reflect.TypeOf(zero).Size())})
	return id
}

// RegisterTypeWithDestructor is like RegisterType but also records a
// destructor invoked on a cell's bytes when Archetype.Remove discards
// the row. Most plain-data components have no destructor and should use
// RegisterType.
func RegisterTypeWithDestructor[T any](r *TypeRegistry, destroy func(cell []byte)) ComponentID {
	id := RegisterType[T](r)
	r.info[id].destroy = destroy
	return id
}

// TypeID returns the ComponentID for T, or false if T has not been
// registered yet.
func TypeID[T any](r *TypeRegistry) (ComponentID, bool) {
	var zero T
	id, ok := r.ids[reflect.TypeOf(zero)]
	return id, ok
}

// Size returns the byte size recorded for id.
func (r *TypeRegistry) Size(id ComponentID) int {
	return r.info[id].size
}

// Destructor returns the destructor recorded for id, or nil.
func (r *TypeRegistry) Destructor(id ComponentID) func(cell []byte) {
	return r.info[id].destroy
}

// Count returns the number of registered component types.
func (r *TypeRegistry) Count() int {
	return len(r.byType)
}

// componentCell is a typed helper used by World/Archetype accessors to
// turn a caller's value of type T into its owned byte representation and
// back, casting at the call site instead of through runtime type
// switches.
func componentCell[T any](v T) []byte {
	size := int(unsafe.Sizeof(v))
	cell := make([]byte, size)
	if size > 0 {
		*(*T)(unsafe.Pointer(&cell[0])) = v
	}
	return cell
}

func componentFromCell[T any](cell []byte) T {
	var zero T
	if len(cell) == 0 {
		return zero
	}
	return *(*T)(unsafe.Pointer(&cell[0]))
}
