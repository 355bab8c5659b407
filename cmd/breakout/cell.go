package main

import "unsafe"

// readComponent and writeComponent interpret a raw column cell (as
// returned in a QueryResult's Components map) as T, letting hot-path
// systems mutate a component in place instead of paying for a
// Remove+Add archetype transition on every tick. Mirrors the engine's
// own componentCell/componentFromCell helpers, reimplemented here since
// those are package-private to voidecs; callers only ever index a cell
// by the ComponentID it was registered under, so the size always
// matches T.
func readComponent[T any](cell []byte) T {
	return *(*T)(unsafe.Pointer(&cell[0]))
}

func writeComponent[T any](cell []byte, v T) {
	*(*T)(unsafe.Pointer(&cell[0])) = v
}
