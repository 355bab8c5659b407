package voidecs_test

import (
	"testing"

	"github.com/brokenbricks/voidecs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Scenario 1: registration order assigns sequential ids 0..4.
func TestRegistrationOrder(t *testing.T) {
	w := voidecs.NewWorld()
	pos := voidecs.Register[Position](w)
	vel := voidecs.Register[Velocity](w)
	hp := voidecs.Register[Health](w)
	enemy := voidecs.Register[Enemy](w)
	player := voidecs.Register[Player](w)

	assert.EqualValues(t, 0, pos)
	assert.EqualValues(t, 1, vel)
	assert.EqualValues(t, 2, hp)
	assert.EqualValues(t, 3, enemy)
	assert.EqualValues(t, 4, player)
}

func TestRegister_IsIdempotent(t *testing.T) {
	w := voidecs.NewWorld()
	a := voidecs.Register[Position](w)
	b := voidecs.Register[Position](w)
	assert.Equal(t, a, b)
}

// Scenario 2: bulk creation across two archetypes.
func TestBulkCreation(t *testing.T) {
	w := voidecs.NewWorld()
	voidecs.Register[Position](w)
	voidecs.Register[Velocity](w)
	voidecs.Register[Health](w)
	voidecs.Register[Enemy](w)
	voidecs.Register[Player](w)

	_, err := w.CreateWithComponents(
		voidecs.Component(w, Position{}),
		voidecs.Component(w, Velocity{}),
		voidecs.Component(w, Health{Current: 100, Max: 100}),
		voidecs.Component(w, Player{Name: "p1"}),
	)
	require.NoError(t, err)

	for i := 0; i < 100; i++ {
		_, err := w.CreateWithComponents(
			voidecs.Component(w, Position{}),
			voidecs.Component(w, Velocity{}),
			voidecs.Component(w, Health{Current: 10, Max: 10}),
			voidecs.Component(w, Enemy{}),
		)
		require.NoError(t, err)
	}

	assert.Equal(t, 101, w.EntityCount())
	// empty archetype + player archetype + enemy archetype
	assert.Equal(t, 3, w.ArchetypeCount())
}

// Scenario 4: graph transitions reuse archetypes.
func TestGraphTransitionsReuseArchetypes(t *testing.T) {
	w := voidecs.NewWorld()
	voidecs.Register[Position](w)
	voidecs.Register[Velocity](w)

	h := w.Create()
	assert.Equal(t, 1, w.ArchetypeCount()) // empty only

	assert.True(t, voidecs.Add(w, h, Position{X: 1}))
	assert.Equal(t, 2, w.ArchetypeCount())

	assert.True(t, voidecs.Add(w, h, Velocity{X: 2}))
	assert.Equal(t, 3, w.ArchetypeCount())

	assert.True(t, voidecs.Remove[Position](w, h))
	assert.Equal(t, 4, w.ArchetypeCount())

	assert.True(t, voidecs.Add(w, h, Position{X: 3}))
	assert.Equal(t, 4, w.ArchetypeCount(), "archetype should be reused via the cached edge")

	pos, ok := voidecs.GetComponent[Position](w, h)
	require.True(t, ok)
	assert.Equal(t, 3.0, pos.X)

	results := w.Query([]voidecs.ComponentID{mustType[Position](w), mustType[Velocity](w)})
	require.Len(t, results, 1)
	assert.Equal(t, h, results[0].Entity)
}

func mustType[T any](w *voidecs.World) voidecs.ComponentID {
	id, ok := voidecs.TypeID[T](w.Types())
	if !ok {
		id = voidecs.Register[T](w)
	}
	return id
}

func TestAdd_RejectsDuplicateComponent(t *testing.T) {
	w := voidecs.NewWorld()
	h := w.Create()
	assert.True(t, voidecs.Add(w, h, Position{X: 1}))
	assert.False(t, voidecs.Add(w, h, Position{X: 2}))
	pos, _ := voidecs.GetComponent[Position](w, h)
	assert.Equal(t, 1.0, pos.X, "failed Add must not mutate the existing component")
}

func TestRemove_MissingComponentFailsSilently(t *testing.T) {
	w := voidecs.NewWorld()
	h := w.Create()
	assert.False(t, voidecs.Remove[Velocity](w, h))
}

func TestAddRemove_RoundTripRestoresArchetype(t *testing.T) {
	w := voidecs.NewWorld()
	h, err := w.CreateWithComponents(voidecs.Component(w, Position{X: 1}), voidecs.Component(w, Velocity{X: 2}))
	require.NoError(t, err)

	beforeArch := w.ArchetypeCount()
	assert.True(t, voidecs.Add(w, h, Health{Current: 5}))
	assert.True(t, voidecs.Remove[Health](w, h))

	assert.Equal(t, beforeArch+1, w.ArchetypeCount())
	pos, ok := voidecs.GetComponent[Position](w, h)
	require.True(t, ok)
	assert.Equal(t, 1.0, pos.X)
	vel, ok := voidecs.GetComponent[Velocity](w, h)
	require.True(t, ok)
	assert.Equal(t, 2.0, vel.X)
	assert.False(t, voidecs.Has[Health](w, h))
}

// Boundary: operations on a despawned handle return false/none.
func TestDespawn_InvalidatesFurtherOperations(t *testing.T) {
	w := voidecs.NewWorld()
	h, err := w.CreateWithComponents(voidecs.Component(w, Position{X: 1}))
	require.NoError(t, err)

	assert.True(t, w.Despawn(h))
	assert.False(t, w.IsAlive(h))
	assert.False(t, w.Despawn(h))
	assert.False(t, voidecs.Add(w, h, Velocity{}))
	assert.False(t, voidecs.Has[Position](w, h))
	_, ok := voidecs.GetComponent[Position](w, h)
	assert.False(t, ok)
}

func TestDespawn_SwapRemoveKeepsIndexConsistent(t *testing.T) {
	w := voidecs.NewWorld()
	var handles []voidecs.EntityHandle
	for i := 0; i < 5; i++ {
		h, err := w.CreateWithComponents(voidecs.Component(w, Position{X: float64(i)}))
		require.NoError(t, err)
		handles = append(handles, h)
	}

	require.True(t, w.Despawn(handles[1]))

	for i, h := range handles {
		if i == 1 {
			assert.False(t, w.IsAlive(h))
			continue
		}
		pos, ok := voidecs.GetComponent[Position](w, h)
		require.True(t, ok, "entity %d should still resolve after a sibling's swap-remove", i)
		assert.Equal(t, float64(i), pos.X)
	}
}

func TestWorld_Clear(t *testing.T) {
	w := voidecs.NewWorld()
	for i := 0; i < 10; i++ {
		_, err := w.CreateWithComponents(voidecs.Component(w, Position{}))
		require.NoError(t, err)
	}
	w.Clear()
	assert.Equal(t, 0, w.EntityCount())
	assert.Equal(t, 1, w.ArchetypeCount())
}

func TestCreateWithComponents_UnregisteredTypeStillWorks(t *testing.T) {
	// Component() registers on demand, so this should succeed even
	// though nothing registered Position up front. The "all types must
	// already be registered" requirement applies to callers who
	// hand-build a ComponentData with a stale/foreign ComponentID, not
	// to the Component() helper itself.
	w := voidecs.NewWorld()
	h, err := w.CreateWithComponents(voidecs.Component(w, Position{X: 9}))
	require.NoError(t, err)
	pos, ok := voidecs.GetComponent[Position](w, h)
	require.True(t, ok)
	assert.Equal(t, 9.0, pos.X)
}

func TestCreateWithComponents_RejectsDuplicateTypeInSameCall(t *testing.T) {
	w := voidecs.NewWorld()
	_, err := w.CreateWithComponents(
		voidecs.Component(w, Position{X: 1}),
		voidecs.Component(w, Position{X: 2}),
	)
	assert.ErrorIs(t, err, voidecs.ErrDuplicateComponent)
}

func TestCreateWithComponents_RejectsUnregisteredComponentID(t *testing.T) {
	w := voidecs.NewWorld()
	stale := voidecs.ComponentData{Type: 99}
	_, err := w.CreateWithComponents(stale)
	assert.ErrorIs(t, err, voidecs.ErrComponentNotRegistered)
}

func TestWorld_AddComponents_AttachesSeveralAtOnce(t *testing.T) {
	w := voidecs.NewWorld()
	h := w.Create()

	err := w.AddComponents(h,
		voidecs.Component(w, Position{X: 1}),
		voidecs.Component(w, Velocity{X: 2}),
		voidecs.Component(w, Health{Current: 10}),
	)
	require.NoError(t, err)

	pos, ok := voidecs.GetComponent[Position](w, h)
	require.True(t, ok)
	assert.Equal(t, 1.0, pos.X)
	assert.True(t, voidecs.Has[Velocity](w, h))
	assert.True(t, voidecs.Has[Health](w, h))
}

func TestWorld_AddComponents_NotAliveFails(t *testing.T) {
	w := voidecs.NewWorld()
	h := w.Create()
	require.True(t, w.Despawn(h))

	err := w.AddComponents(h, voidecs.Component(w, Position{}))
	assert.ErrorIs(t, err, voidecs.ErrEntityNotAlive)
}

func TestWorld_AddComponents_RejectsAlreadyPresentType(t *testing.T) {
	w := voidecs.NewWorld()
	h, err := w.CreateWithComponents(voidecs.Component(w, Position{X: 1}))
	require.NoError(t, err)

	err = w.AddComponents(h, voidecs.Component(w, Position{X: 2}), voidecs.Component(w, Velocity{}))
	assert.ErrorIs(t, err, voidecs.ErrDuplicateComponent)

	// the failed call must not have mutated the entity at all.
	pos, ok := voidecs.GetComponent[Position](w, h)
	require.True(t, ok)
	assert.Equal(t, 1.0, pos.X)
	assert.False(t, voidecs.Has[Velocity](w, h))
}

func TestNewWorldWithOptions_PreSizesWithoutChangingBehavior(t *testing.T) {
	w := voidecs.NewWorldWithOptions(voidecs.WorldOptions{InitialCapacity: 256})
	h, err := w.CreateWithComponents(voidecs.Component(w, Position{X: 1}))
	require.NoError(t, err)
	assert.Equal(t, 1, w.EntityCount())
	pos, ok := voidecs.GetComponent[Position](w, h)
	require.True(t, ok)
	assert.Equal(t, 1.0, pos.X)
}
