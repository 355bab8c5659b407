package voidecs

// EntityID is the dense, reused-after-destroy half of an EntityHandle.
type EntityID uint32

// EntityGeneration invalidates outstanding handles to a destroyed
// EntityID. It wraps around silently after 2^32 destroys of the same
// id; wraparound is accepted as a far-future risk and left unhandled.
type EntityGeneration uint32

// EntityHandle is the only stable external reference to an entity: a
// 32-bit id packed with the generation that was live when the handle
// was issued. Two handles compare equal iff both halves match.
type EntityHandle uint64

// NewEntityHandle packs an id and generation into a handle.
func NewEntityHandle(id EntityID, gen EntityGeneration) EntityHandle {
	return EntityHandle(uint64(gen)<<32 | uint64(id))
}

// ID returns the low 32 bits of the handle.
func (h EntityHandle) ID() EntityID {
	return EntityID(uint32(h))
}

// Generation returns the high 32 bits of the handle.
func (h EntityHandle) Generation() EntityGeneration {
	return EntityGeneration(uint32(h >> 32))
}

// EntityManager allocates and frees EntityIDs with generation stamps so
// that stale handles to a destroyed entity are detectable in O(1).
type EntityManager struct {
	generations  []EntityGeneration
	freeEntities []EntityID
	nextID       EntityID
	aliveCount   int
}

// NewEntityManager returns an empty manager.
func NewEntityManager() *EntityManager {
	return &EntityManager{}
}

// newEntityManagerWithCapacity returns an empty manager whose internal
// slices are pre-sized for an expected peak of capacity live entities.
// A non-positive capacity behaves like NewEntityManager.
func newEntityManagerWithCapacity(capacity int) *EntityManager {
	if capacity <= 0 {
		return NewEntityManager()
	}
	return &EntityManager{
		generations:  make([]EntityGeneration, 0, capacity),
		freeEntities: make([]EntityID, 0, capacity),
	}
}

// Create allocates a handle, reusing a freed id when one is available.
func (m *EntityManager) Create() EntityHandle {
	var id EntityID
	if n := len(m.freeEntities); n > 0 {
		id = m.freeEntities[n-1]
		m.freeEntities = m.freeEntities[:n-1]
	} else {
		id = m.nextID
		m.nextID++
		m.generations = append(m.generations, 0)
	}
	m.aliveCount++
	return NewEntityHandle(id, m.generations[id])
}

// Destroy invalidates h. Returns false if h was not live.
func (m *EntityManager) Destroy(h EntityHandle) bool {
	if !m.IsAlive(h) {
		return false
	}
	id := h.ID()
	m.generations[id]++
	m.freeEntities = append(m.freeEntities, id)
	m.aliveCount--
	return true
}

// IsAlive reports whether h still refers to a live entity. Pure: never
// mutates manager state.
func (m *EntityManager) IsAlive(h EntityHandle) bool {
	id := h.ID()
	return int(id) < len(m.generations) && m.generations[id] == h.Generation()
}

// AliveCount returns the number of currently live entities.
func (m *EntityManager) AliveCount() int {
	return m.aliveCount
}
