package voidecs

import "fmt"

// entityLocation records which archetype currently owns a live entity.
// It does not track row: swap-remove inside an Archetype can move any
// other row at any time, so the only stable row lookup is the
// archetype's own entityToRow, consulted fresh on every access.
type entityLocation struct {
	archetype ArchetypeID
}

// ComponentData bundles a registered type with an owned byte cell,
// produced by the Component helper for use with CreateWithComponents.
type ComponentData struct {
	Type ComponentID
	cell []byte
}

// World owns the entity manager, type registry, and the full archetype
// graph: every Archetype ever created (including the always-present
// empty archetype) plus the entity->location index used for O(1)
// cross-archetype lookups.
type World struct {
	entities    *EntityManager
	types       *TypeRegistry
	archetypes  map[ArchetypeID]*Archetype
	entityIndex map[EntityID]entityLocation
	emptyID     ArchetypeID
	resources   *Resources
}

// WorldOptions configures a World at construction time.
type WorldOptions struct {
	// InitialCapacity hints the expected peak entity count, pre-sizing
	// the entity index and the entity manager's generation table to
	// avoid reallocation during early growth. Zero means no hint.
	InitialCapacity int
}

// DefaultWorldOptions returns the options NewWorld uses.
func DefaultWorldOptions() WorldOptions {
	return WorldOptions{}
}

// NewWorld returns a world containing only the empty archetype,
// configured with DefaultWorldOptions.
func NewWorld() *World {
	return NewWorldWithOptions(DefaultWorldOptions())
}

// NewWorldWithOptions returns a world containing only the empty
// archetype, pre-sized according to opts.
func NewWorldWithOptions(opts WorldOptions) *World {
	w := &World{
		entities:    newEntityManagerWithCapacity(opts.InitialCapacity),
		types:       NewTypeRegistry(),
		archetypes:  make(map[ArchetypeID]*Archetype),
		entityIndex: make(map[EntityID]entityLocation, opts.InitialCapacity),
		resources:   NewResources(),
	}
	empty := newArchetype(w.types, nil)
	w.archetypes[empty.id] = empty
	w.emptyID = empty.id
	return w
}

// Register assigns (or returns the existing) ComponentID for T within
// w's type registry.
func Register[T any](w *World) ComponentID {
	return RegisterType[T](w.types)
}

// Component bundles a registered type's id with an owned copy of value,
// for use with CreateWithComponents.
func Component[T any](w *World, value T) ComponentData {
	id, ok := TypeID[T](w.types)
	if !ok {
		id = Register[T](w)
	}
	return ComponentData{Type: id, cell: componentCell(value)}
}

func (w *World) archetypeFor(sortedTypes []ComponentID) *Archetype {
	id := archetypeIDOf(sortedTypes)
	if a, ok := w.archetypes[id]; ok {
		return a
	}
	a := newArchetype(w.types, sortedTypes)
	w.archetypes[id] = a
	return a
}

// Create allocates a handle and places it into the empty archetype.
func (w *World) Create() EntityHandle {
	h := w.entities.Create()
	empty := w.archetypes[w.emptyID]
	_ = empty.Add(h.ID(), nil)
	w.entityIndex[h.ID()] = entityLocation{archetype: w.emptyID}
	return h
}

// CreateWithComponents allocates a handle and places it directly into
// the archetype matching the sorted set of the given components'
// types, skipping the empty-archetype hop Create+Add would otherwise
// take. All component types must already be registered.
func (w *World) CreateWithComponents(components ...ComponentData) (EntityHandle, error) {
	types := make([]ComponentID, 0, len(components))
	data := make(map[ComponentID][]byte, len(components))
	for _, c := range components {
		if int(c.Type) >= w.types.Count() {
			return 0, fmt.Errorf("%w: component id %d", ErrComponentNotRegistered, c.Type)
		}
		if _, dup := data[c.Type]; dup {
			return 0, fmt.Errorf("%w: component id %d given twice", ErrDuplicateComponent, c.Type)
		}
		types = append(types, c.Type)
		data[c.Type] = c.cell
	}
	sorted := sortedTypeSet(types)
	target := w.archetypeFor(sorted)
	h := w.entities.Create()
	if err := target.Add(h.ID(), data); err != nil {
		w.entities.Destroy(h)
		return 0, err
	}
	w.entityIndex[h.ID()] = entityLocation{archetype: target.id}
	return h, nil
}

// IsAlive reports whether h refers to a live entity.
func (w *World) IsAlive(h EntityHandle) bool {
	return w.entities.IsAlive(h)
}

// Add attaches value as component T to h, moving it into the archetype
// for its new type set. Fails if h is not alive or already has T.
func Add[T any](w *World, h EntityHandle, value T) bool {
	if !w.entities.IsAlive(h) {
		return false
	}
	t, ok := TypeID[T](w.types)
	if !ok {
		t = Register[T](w)
	}
	id := h.ID()
	loc := w.entityIndex[id]
	oldArch := w.archetypes[loc.archetype]
	if oldArch.HasComponentType(t) {
		return false
	}

	var newArch *Archetype
	if target, ok := oldArch.GetAddEdge(t); ok {
		newArch = w.archetypes[target]
	} else {
		newTypes := sortedTypeSet(append(append([]ComponentID{}, oldArch.componentTypes...), t))
		newArch = w.archetypeFor(newTypes)
		oldArch.SetAddEdge(t, newArch.id)
		newArch.SetRemoveEdge(t, oldArch.id)
	}

	data, _ := oldArch.Extract(id)
	data[t] = componentCell(value)
	if err := newArch.Add(id, data); err != nil {
		// should be unreachable: newArch's type set is exactly
		// oldArch's plus t, and data now has exactly that set.
		return false
	}
	w.entityIndex[id] = entityLocation{archetype: newArch.id}
	return true
}

// AddComponents attaches every given component to h in a single
// archetype transition, cheaper than calling Add once per component
// when several are being attached together. Fails without mutating h
// if it is not alive, already carries one of the given types, one of
// the given types repeats, or one of the given types is unregistered.
func (w *World) AddComponents(h EntityHandle, components ...ComponentData) error {
	if !w.entities.IsAlive(h) {
		return ErrEntityNotAlive
	}
	id := h.ID()
	loc := w.entityIndex[id]
	oldArch := w.archetypes[loc.archetype]

	adding := make(map[ComponentID][]byte, len(components))
	newTypes := append([]ComponentID{}, oldArch.componentTypes...)
	for _, c := range components {
		if int(c.Type) >= w.types.Count() {
			return fmt.Errorf("%w: component id %d", ErrComponentNotRegistered, c.Type)
		}
		if oldArch.HasComponentType(c.Type) {
			return fmt.Errorf("%w: component id %d", ErrDuplicateComponent, c.Type)
		}
		if _, dup := adding[c.Type]; dup {
			return fmt.Errorf("%w: component id %d given twice", ErrDuplicateComponent, c.Type)
		}
		adding[c.Type] = c.cell
		newTypes = append(newTypes, c.Type)
	}

	newArch := w.archetypeFor(sortedTypeSet(newTypes))
	data, _ := oldArch.Extract(id)
	for t, cell := range adding {
		data[t] = cell
	}
	if err := newArch.Add(id, data); err != nil {
		return err
	}
	w.entityIndex[id] = entityLocation{archetype: newArch.id}
	return nil
}

// Remove detaches component T from h, moving it into the archetype for
// its new (smaller) type set. Fails silently (returns false) if h is
// not alive or does not have T.
func Remove[T any](w *World, h EntityHandle) bool {
	if !w.entities.IsAlive(h) {
		return false
	}
	t, ok := TypeID[T](w.types)
	if !ok {
		return false
	}
	id := h.ID()
	loc := w.entityIndex[id]
	oldArch := w.archetypes[loc.archetype]
	if !oldArch.HasComponentType(t) {
		return false
	}

	var newArch *Archetype
	if target, ok := oldArch.GetRemoveEdge(t); ok {
		newArch = w.archetypes[target]
	} else {
		newTypes := make([]ComponentID, 0, len(oldArch.componentTypes)-1)
		for _, ct := range oldArch.componentTypes {
			if ct != t {
				newTypes = append(newTypes, ct)
			}
		}
		newArch = w.archetypeFor(newTypes)
		oldArch.SetRemoveEdge(t, newArch.id)
		newArch.SetAddEdge(t, oldArch.id)
	}

	data, _ := oldArch.Extract(id)
	delete(data, t)
	_ = newArch.Add(id, data)
	w.entityIndex[id] = entityLocation{archetype: newArch.id}
	return true
}

// GetComponent returns a copy of h's component T, or false if h is not
// alive, is not registered, or does not carry T. This is a read-only
// accessor; to mutate a component in place, go through Query and write
// into the returned QueryResult's cell instead.
func GetComponent[T any](w *World, h EntityHandle) (T, bool) {
	var zero T
	if !w.entities.IsAlive(h) {
		return zero, false
	}
	t, ok := TypeID[T](w.types)
	if !ok {
		return zero, false
	}
	loc := w.entityIndex[h.ID()]
	arch := w.archetypes[loc.archetype]
	cell := arch.GetComponent(h.ID(), t)
	if cell == nil {
		return zero, false
	}
	return componentFromCell[T](cell), true
}

// Has reports whether h carries component T.
func Has[T any](w *World, h EntityHandle) bool {
	if !w.entities.IsAlive(h) {
		return false
	}
	t, ok := TypeID[T](w.types)
	if !ok {
		return false
	}
	loc, ok := w.entityIndex[h.ID()]
	if !ok {
		return false
	}
	return w.archetypes[loc.archetype].HasComponentType(t)
}

// Despawn removes h from its archetype and invalidates its handle.
func (w *World) Despawn(h EntityHandle) bool {
	if !w.entities.IsAlive(h) {
		return false
	}
	id := h.ID()
	loc, ok := w.entityIndex[id]
	if ok {
		w.archetypes[loc.archetype].Remove(id)
		delete(w.entityIndex, id)
	}
	return w.entities.Destroy(h)
}

// Clear drops all archetypes and entities, resetting the world to a
// freshly-constructed (but already-registered-types-preserved) state.
func (w *World) Clear() {
	w.entities = NewEntityManager()
	w.archetypes = make(map[ArchetypeID]*Archetype)
	w.entityIndex = make(map[EntityID]entityLocation)
	empty := newArchetype(w.types, nil)
	w.archetypes[empty.id] = empty
	w.emptyID = empty.id
}

// WorldStats is a read-only snapshot used by callers that need counts
// without re-deriving them ad hoc at every call site.
type WorldStats struct {
	EntityCount    int
	ArchetypeCount int
	AliveCount     int
}

// Stats returns a snapshot of world-wide counts.
func (w *World) Stats() WorldStats {
	total := 0
	for _, a := range w.archetypes {
		total += a.Size()
	}
	return WorldStats{
		EntityCount:    total,
		ArchetypeCount: len(w.archetypes),
		AliveCount:     w.entities.AliveCount(),
	}
}

// EntityCount returns the total number of entities across all archetypes.
func (w *World) EntityCount() int { return w.Stats().EntityCount }

// ArchetypeCount returns the number of archetype tables, including the
// always-present empty archetype.
func (w *World) ArchetypeCount() int { return len(w.archetypes) }

// Types exposes the world's type registry, for plugins and hosts that
// need to register component types outside of a generic helper.
func (w *World) Types() *TypeRegistry { return w.types }

// Resources exposes the world's resource store.
func (w *World) Resources() *Resources { return w.resources }
