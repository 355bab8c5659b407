package voidecs_test

import (
	"testing"

	"github.com/brokenbricks/voidecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newQueryWorld(t *testing.T) (*voidecs.World, voidecs.ComponentID, voidecs.ComponentID, voidecs.ComponentID, voidecs.ComponentID) {
	t.Helper()
	w := voidecs.NewWorld()
	pos := voidecs.Register[Position](w)
	vel := voidecs.Register[Velocity](w)
	hp := voidecs.Register[Health](w)
	enemy := voidecs.Register[Enemy](w)
	return w, pos, vel, hp, enemy
}

// Scenario 3: filtered query with With/Without filters.
func TestQuery_WithAndWithoutFilters(t *testing.T) {
	w, pos, vel, hp, enemy := newQueryWorld(t)

	_, err := w.CreateWithComponents(
		voidecs.Component(w, Position{X: 1}),
		voidecs.Component(w, Velocity{}),
		voidecs.Component(w, Health{Current: 10}),
		voidecs.Component(w, Enemy{}),
	)
	require.NoError(t, err)

	_, err = w.CreateWithComponents(
		voidecs.Component(w, Position{X: 2}),
		voidecs.Component(w, Velocity{}),
		voidecs.Component(w, Health{Current: 20}),
	)
	require.NoError(t, err)

	results := w.Query(
		[]voidecs.ComponentID{pos, vel},
		voidecs.WithFilter(hp),
		voidecs.WithoutFilter(enemy),
	)
	require.Len(t, results, 1)
	posCell := results[0].Components[pos]
	require.NotNil(t, posCell)
}

func TestQuery_RequiredTypesNarrowArchetypes(t *testing.T) {
	w, pos, vel, _, _ := newQueryWorld(t)
	_, err := w.CreateWithComponents(voidecs.Component(w, Position{}))
	require.NoError(t, err)
	_, err = w.CreateWithComponents(voidecs.Component(w, Position{}), voidecs.Component(w, Velocity{}))
	require.NoError(t, err)

	results := w.Query([]voidecs.ComponentID{pos, vel})
	assert.Len(t, results, 1)

	results = w.Query([]voidecs.ComponentID{pos})
	assert.Len(t, results, 2)
}

// Scenario 5: cache consistency as entity count grows across calls.
func TestQuerySystem_CacheStaysConsistentAsEntitiesAreAdded(t *testing.T) {
	w := voidecs.NewWorld()
	pos := voidecs.Register[Position](w)

	for i := 0; i < 102; i++ {
		_, err := w.CreateWithComponents(voidecs.Component(w, Position{X: float64(i)}))
		require.NoError(t, err)
	}

	qs := voidecs.NewQuerySystem([]voidecs.ComponentID{pos})
	assert.Equal(t, 102, qs.Count(w))

	for i := 0; i < 5; i++ {
		_, err := w.CreateWithComponents(voidecs.Component(w, Position{X: float64(200 + i)}))
		require.NoError(t, err)
	}
	assert.Equal(t, 107, qs.Count(w))
	assert.Len(t, qs.Query(w), 107)
}

func TestQuerySystem_DetectsNewArchetypeWithoutMarkDirty(t *testing.T) {
	w := voidecs.NewWorld()
	pos := voidecs.Register[Position](w)
	voidecs.Register[Velocity](w)

	h, err := w.CreateWithComponents(voidecs.Component(w, Position{X: 1}))
	require.NoError(t, err)

	qs := voidecs.NewQuerySystem([]voidecs.ComponentID{pos})
	assert.Equal(t, 1, qs.Count(w))

	// Moving h into a new archetype changes the world's archetype count,
	// which must invalidate the cache even without an explicit MarkDirty.
	assert.True(t, voidecs.Add(w, h, Velocity{X: 2}))
	_, err = w.CreateWithComponents(voidecs.Component(w, Position{X: 3}))
	require.NoError(t, err)

	assert.Equal(t, 2, qs.Count(w))
}

func TestQuerySystem_DetectsArchetypeVersionBump(t *testing.T) {
	w := voidecs.NewWorld()
	pos := voidecs.Register[Position](w)

	h, err := w.CreateWithComponents(voidecs.Component(w, Position{X: 1}))
	require.NoError(t, err)

	qs := voidecs.NewQuerySystem([]voidecs.ComponentID{pos})
	results := qs.Query(w)
	require.Len(t, results, 1)

	require.True(t, w.Despawn(h))
	results = qs.Query(w)
	assert.Len(t, results, 0)
}

func TestQuerySystem_MarkDirtyForcesRebuild(t *testing.T) {
	w := voidecs.NewWorld()
	pos := voidecs.Register[Position](w)
	qs := voidecs.NewQuerySystem([]voidecs.ComponentID{pos})
	assert.Equal(t, 0, qs.Count(w))

	_, err := w.CreateWithComponents(voidecs.Component(w, Position{}))
	require.NoError(t, err)
	qs.MarkDirty()
	assert.Equal(t, 1, qs.Count(w))
}

// Scenario 6: chunking 60 entities into chunks of 25/25/10.
func TestQuerySystem_QueryChunked(t *testing.T) {
	w := voidecs.NewWorld()
	pos := voidecs.Register[Position](w)
	for i := 0; i < 60; i++ {
		_, err := w.CreateWithComponents(voidecs.Component(w, Position{X: float64(i)}))
		require.NoError(t, err)
	}

	qs := voidecs.NewQuerySystem([]voidecs.ComponentID{pos})
	chunks := qs.QueryChunked(w, 25)
	require.Len(t, chunks, 3)
	assert.Len(t, chunks[0].Results, 25)
	assert.Len(t, chunks[1].Results, 25)
	assert.Len(t, chunks[2].Results, 10)
	assert.Equal(t, 0, chunks[0].Start)
	assert.Equal(t, 50, chunks[2].Start)
	assert.Equal(t, 60, chunks[2].End)
}

func TestQuerySystem_QueryChunked_EmptyResult(t *testing.T) {
	w := voidecs.NewWorld()
	pos := voidecs.Register[Position](w)
	qs := voidecs.NewQuerySystem([]voidecs.ComponentID{pos})
	assert.Nil(t, qs.QueryChunked(w, 10))
}
