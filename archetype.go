package voidecs

import (
	"hash/fnv"
	"sort"
)

// ArchetypeID is a pure function of an archetype's sorted component-type
// set: the FNV-1a hash of those sorted ComponentIDs. Two archetypes with
// the same type set always collide onto the same id; different sets are
// assumed not to collide in practice.
type ArchetypeID uint64

// sortedTypeSet returns a new, ascending-sorted copy of types.
func sortedTypeSet(types []ComponentID) []ComponentID {
	out := make([]ComponentID, len(types))
	copy(out, types)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// archetypeIDOf hashes an already-sorted type set with FNV-1a over each
// id's little-endian bytes.
func archetypeIDOf(sortedTypes []ComponentID) ArchetypeID {
	h := fnv.New64a()
	var buf [4]byte
	for _, t := range sortedTypes {
		buf[0] = byte(t)
		buf[1] = byte(t >> 8)
		buf[2] = byte(t >> 16)
		buf[3] = byte(t >> 24)
		h.Write(buf[:])
	}
	return ArchetypeID(h.Sum64())
}

// Archetype is the columnar table for every entity sharing one exact
// component-type set. Rows are dense; row index is position in
// entities/entityToRow. Removal is swap-remove: the engine never leaves
// gaps, so observers must not assume row stability across a mutation.
type Archetype struct {
	id              ArchetypeID
	componentTypes  []ComponentID // sorted
	typeSet         map[ComponentID]struct{}
	entities        []EntityID
	entityToRow     map[EntityID]int
	columns         map[ComponentID][]byte // column[t] is row-major, size(t) bytes per row
	addEdges        map[ComponentID]ArchetypeID
	removeEdges     map[ComponentID]ArchetypeID
	version         uint64
	registry        *TypeRegistry
}

// newArchetype builds an (initially empty) table for sortedTypes, which
// must already be sorted ascending and free of duplicates.
func newArchetype(registry *TypeRegistry, sortedTypes []ComponentID) *Archetype {
	typeSet := make(map[ComponentID]struct{}, len(sortedTypes))
	columns := make(map[ComponentID][]byte, len(sortedTypes))
	for _, t := range sortedTypes {
		typeSet[t] = struct{}{}
		columns[t] = nil
	}
	return &Archetype{
		id:             archetypeIDOf(sortedTypes),
		componentTypes: sortedTypes,
		typeSet:        typeSet,
		entityToRow:    make(map[EntityID]int),
		columns:        columns,
		addEdges:       make(map[ComponentID]ArchetypeID),
		removeEdges:    make(map[ComponentID]ArchetypeID),
		registry:       registry,
	}
}

// ID returns the archetype's identity, a pure function of its sorted
// component-type set.
func (a *Archetype) ID() ArchetypeID { return a.id }

// ComponentTypes returns the archetype's sorted component-type set. The
// returned slice is owned by the archetype and must not be mutated.
func (a *Archetype) ComponentTypes() []ComponentID { return a.componentTypes }

// Version is the monotonic counter advanced on every structural
// mutation (add, remove, extract, clear) — the sole staleness signal
// consumed by query caches.
func (a *Archetype) Version() uint64 { return a.version }

// Size returns the current row count.
func (a *Archetype) Size() int { return len(a.entities) }

// GetEntities returns a read-only view of the archetype's entities in
// row order. Row stability only holds until the next mutation.
func (a *Archetype) GetEntities() []EntityID { return a.entities }

// HasComponentType reports whether t is part of this archetype's set.
func (a *Archetype) HasComponentType(t ComponentID) bool {
	_, ok := a.typeSet[t]
	return ok
}

// Matches reports whether this archetype's set is a superset of required.
func (a *Archetype) Matches(required []ComponentID) bool {
	for _, t := range required {
		if !a.HasComponentType(t) {
			return false
		}
	}
	return true
}

// GetComponentArray returns the raw column for t, or nil if t is not
// part of this archetype.
func (a *Archetype) GetComponentArray(t ComponentID) []byte {
	return a.columns[t]
}

// GetComponent returns a view of entity's cell for component t, or nil
// if the entity is not in this archetype or t is not part of its set.
// The returned slice aliases the column and is valid only until the
// next structural mutation of this archetype.
func (a *Archetype) GetComponent(entity EntityID, t ComponentID) []byte {
	row, ok := a.entityToRow[entity]
	if !ok {
		return nil
	}
	col, ok := a.columns[t]
	if !ok {
		return nil
	}
	size := a.registry.Size(t)
	if size == 0 {
		// zero-size types keep a nil column; the cell is still present.
		return []byte{}
	}
	start := row * size
	if start+size > len(col) {
		return nil
	}
	return col[start : start+size : start+size]
}

// Add appends a new row for entity, copying data[t] into an owned cell
// for every t in the archetype's type set. Fails if entity is already
// present or if data is missing any required type.
func (a *Archetype) Add(entity EntityID, data map[ComponentID][]byte) error {
	if _, exists := a.entityToRow[entity]; exists {
		return ErrEntityAlreadyPresent
	}
	for _, t := range a.componentTypes {
		if _, ok := data[t]; !ok {
			return ErrComponentMissing
		}
	}
	row := len(a.entities)
	a.entities = append(a.entities, entity)
	a.entityToRow[entity] = row
	for _, t := range a.componentTypes {
		size := a.registry.Size(t)
		cell := data[t]
		owned := make([]byte, size)
		copy(owned, cell)
		a.columns[t] = append(a.columns[t], owned...)
	}
	a.version++
	return nil
}

// Remove deletes entity's row via swap-remove, running each type's
// destructor (if any) on the discarded cell before freeing it. Returns
// false if entity is not present.
func (a *Archetype) Remove(entity EntityID) bool {
	row, ok := a.entityToRow[entity]
	if !ok {
		return false
	}
	a.swapOutRow(row, true)
	delete(a.entityToRow, entity)
	a.version++
	return true
}

// Extract removes entity's row like Remove but transfers ownership of
// its cells to the caller instead of destroying them, for use during
// cross-archetype moves. Returns nil, false if entity is not present.
func (a *Archetype) Extract(entity EntityID) (map[ComponentID][]byte, bool) {
	row, ok := a.entityToRow[entity]
	if !ok {
		return nil, false
	}
	out := make(map[ComponentID][]byte, len(a.componentTypes))
	for _, t := range a.componentTypes {
		size := a.registry.Size(t)
		start := row * size
		cell := make([]byte, size)
		copy(cell, a.columns[t][start:start+size])
		out[t] = cell
	}
	a.swapOutRow(row, false)
	delete(a.entityToRow, entity)
	a.version++
	return out, true
}

// swapOutRow removes row by moving the last row into its place (if it
// wasn't already last) and truncating every column by one row. When
// destroy is true, each type's destructor runs on the discarded row's
// original bytes before it is overwritten/truncated away.
func (a *Archetype) swapOutRow(row int, destroy bool) {
	last := len(a.entities) - 1
	if destroy {
		for _, t := range a.componentTypes {
			if fn := a.registry.Destructor(t); fn != nil {
				size := a.registry.Size(t)
				start := row * size
				fn(a.columns[t][start : start+size])
			}
		}
	}
	if row != last {
		movedEntity := a.entities[last]
		a.entities[row] = movedEntity
		a.entityToRow[movedEntity] = row
		for _, t := range a.componentTypes {
			size := a.registry.Size(t)
			col := a.columns[t]
			copy(col[row*size:row*size+size], col[last*size:last*size+size])
		}
	}
	a.entities = a.entities[:last]
	for _, t := range a.componentTypes {
		size := a.registry.Size(t)
		a.columns[t] = a.columns[t][:last*size]
	}
}

// Clear destroys and frees every cell, emptying the table.
func (a *Archetype) Clear() {
	for _, t := range a.componentTypes {
		if fn := a.registry.Destructor(t); fn != nil {
			size := a.registry.Size(t)
			col := a.columns[t]
			for row := 0; row*size < len(col); row++ {
				fn(col[row*size : row*size+size])
			}
		}
		a.columns[t] = a.columns[t][:0]
	}
	a.entities = a.entities[:0]
	a.entityToRow = make(map[EntityID]int)
	a.version++
}

// SetAddEdge caches that adding component t to this archetype transitions
// to target.
func (a *Archetype) SetAddEdge(t ComponentID, target ArchetypeID) { a.addEdges[t] = target }

// SetRemoveEdge caches that removing component t from this archetype
// transitions to target.
func (a *Archetype) SetRemoveEdge(t ComponentID, target ArchetypeID) { a.removeEdges[t] = target }

// GetAddEdge returns the cached add-transition for t, if any.
func (a *Archetype) GetAddEdge(t ComponentID) (ArchetypeID, bool) {
	id, ok := a.addEdges[t]
	return id, ok
}

// GetRemoveEdge returns the cached remove-transition for t, if any.
func (a *Archetype) GetRemoveEdge(t ComponentID) (ArchetypeID, bool) {
	id, ok := a.removeEdges[t]
	return id, ok
}
