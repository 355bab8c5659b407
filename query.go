package voidecs

// FilterOp is the operator a Filter applies to one component type when
// deciding whether an archetype matches a query.
type FilterOp int

const (
	// With requires the archetype to contain the filter's component type.
	With FilterOp = iota
	// Without excludes archetypes that contain the filter's component type.
	Without
	// Changed is reserved for future per-column write-tick tracking. It
	// currently matches every archetype unconditionally.
	Changed
)

// Filter narrows a query's archetype match beyond its required
// component-type list.
type Filter struct {
	Type ComponentID
	Op   FilterOp
}

// WithFilter builds a With filter for t.
func WithFilter(t ComponentID) Filter { return Filter{Type: t, Op: With} }

// WithoutFilter builds a Without filter for t.
func WithoutFilter(t ComponentID) Filter { return Filter{Type: t, Op: Without} }

// ChangedFilter builds a (currently no-op) Changed filter for t.
func ChangedFilter(t ComponentID) Filter { return Filter{Type: t, Op: Changed} }

func archetypeMatchesFilters(a *Archetype, filters []Filter) bool {
	for _, f := range filters {
		switch f.Op {
		case With:
			if !a.HasComponentType(f.Type) {
				return false
			}
		case Without:
			if a.HasComponentType(f.Type) {
				return false
			}
		case Changed:
			// stub: matches unconditionally.
		}
	}
	return true
}

// QueryResult is one matched entity's row: its handle plus a raw byte
// view per requested component type. Only the types the query asked for
// appear in Components. Views alias the owning archetype's columns and
// are valid only until that archetype's next structural mutation.
type QueryResult struct {
	Entity     EntityHandle
	Components map[ComponentID][]byte
}

// Query performs a one-shot, uncached scan: every archetype whose set
// is a superset of types and which satisfies every filter is fully
// enumerated. See QuerySystem for a cached, stateful equivalent.
func (w *World) Query(types []ComponentID, filters ...Filter) []QueryResult {
	var out []QueryResult
	for _, a := range w.archetypes {
		if !a.Matches(types) || !archetypeMatchesFilters(a, filters) {
			continue
		}
		appendArchetypeRows(w, a, types, &out)
	}
	return out
}

func appendArchetypeRows(w *World, a *Archetype, types []ComponentID, out *[]QueryResult) {
	for row, eid := range a.GetEntities() {
		gen := w.entities.generations[eid]
		comps := make(map[ComponentID][]byte, len(types))
		for _, t := range types {
			size := w.types.Size(t)
			start := row * size
			comps[t] = a.columns[t][start : start+size : start+size]
		}
		*out = append(*out, QueryResult{Entity: NewEntityHandle(eid, gen), Components: comps})
	}
}

// QueryChunk is a contiguous slice of a QuerySystem's most recent result
// buffer, used to seed parallel (or simply batched) iteration. Chunks
// alias the shared buffer: consumers must not resize or append to a
// chunk's Results, and concurrently mutating overlapping rows from two
// chunks is undefined.
type QueryChunk struct {
	Results    []QueryResult
	Start, End int
}

// QuerySystem is a stateful, cached query: required component types plus
// optional filters, a cached set of matching archetype ids, and a
// version snapshot per cached archetype used to detect staleness.
type QuerySystem struct {
	required []ComponentID
	filters  []Filter

	cachedArchetypes  []ArchetypeID
	archetypeVersions map[ArchetypeID]uint64
	dirty             bool

	// worldArchetypeCountAtBuild is the world's total archetype count
	// (matching or not) the last time this query rebuilt, used to detect
	// detect the "world's archetype count differs from the query's
	// known archetype count" staleness condition.
	worldArchetypeCountAtBuild int

	buffer []QueryResult
}

// NewQuerySystem builds a cached query for required, narrowed by filters.
func NewQuerySystem(required []ComponentID, filters ...Filter) *QuerySystem {
	return &QuerySystem{
		required:          required,
		filters:           filters,
		archetypeVersions: make(map[ArchetypeID]uint64),
		dirty:             true,
	}
}

// MarkDirty forces the next query/count to rebuild the archetype cache
// regardless of version comparisons.
func (q *QuerySystem) MarkDirty() { q.dirty = true }

// isStale re-evaluates the three staleness conditions: an explicit
// dirty flag, a changed world archetype count, or any tracked
// archetype with an unknown id or a version mismatch.
func (q *QuerySystem) isStale(w *World) bool {
	if q.dirty {
		return true
	}
	if len(w.archetypes) != q.worldArchetypeCountAtBuild {
		return true
	}
	for id, v := range q.archetypeVersions {
		a, ok := w.archetypes[id]
		if !ok || a.Version() != v {
			return true
		}
	}
	return false
}

// rebuild clears and repopulates the archetype cache.
func (q *QuerySystem) rebuild(w *World) {
	q.cachedArchetypes = q.cachedArchetypes[:0]
	q.archetypeVersions = make(map[ArchetypeID]uint64, len(q.archetypeVersions))
	for id, a := range w.archetypes {
		if !a.Matches(q.required) || !archetypeMatchesFilters(a, q.filters) {
			continue
		}
		q.cachedArchetypes = append(q.cachedArchetypes, id)
		q.archetypeVersions[id] = a.Version()
	}
	q.worldArchetypeCountAtBuild = len(w.archetypes)
	q.dirty = false
}

// Query rebuilds the cache if stale, then enumerates every cached
// archetype's rows, stamping each with the entity's current generation
// from the world's entity manager.
func (q *QuerySystem) Query(w *World) []QueryResult {
	if q.isStale(w) {
		q.rebuild(w)
	}
	q.buffer = q.buffer[:0]
	for _, id := range q.cachedArchetypes {
		a, ok := w.archetypes[id]
		if !ok {
			continue
		}
		appendArchetypeRows(w, a, q.required, &q.buffer)
	}
	return q.buffer
}

// Count returns the number of rows the query currently matches, without
// allocating result rows.
func (q *QuerySystem) Count(w *World) int {
	if q.isStale(w) {
		q.rebuild(w)
	}
	total := 0
	for _, id := range q.cachedArchetypes {
		if a, ok := w.archetypes[id]; ok {
			total += a.Size()
		}
	}
	return total
}

// QueryChunked runs Query and splits the resulting buffer into
// ceil(n/chunkSize) contiguous, independently-sliced chunks.
func (q *QuerySystem) QueryChunked(w *World, chunkSize int) []QueryChunk {
	results := q.Query(w)
	if chunkSize <= 0 || len(results) == 0 {
		return nil
	}
	n := len(results)
	chunkCount := (n + chunkSize - 1) / chunkSize
	chunks := make([]QueryChunk, 0, chunkCount)
	for start := 0; start < n; start += chunkSize {
		end := start + chunkSize
		if end > n {
			end = n
		}
		chunks = append(chunks, QueryChunk{Results: results[start:end:end], Start: start, End: end})
	}
	return chunks
}
