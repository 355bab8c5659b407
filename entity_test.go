package voidecs_test

import (
	"testing"

	"github.com/brokenbricks/voidecs"
	"github.com/stretchr/testify/assert"
)

func TestEntityManager_CreateAssignsGenerationZero(t *testing.T) {
	m := voidecs.NewEntityManager()
	h := m.Create()
	assert.EqualValues(t, 0, h.Generation())
	assert.True(t, m.IsAlive(h))
	assert.Equal(t, 1, m.AliveCount())
}

func TestEntityManager_DestroyInvalidatesHandle(t *testing.T) {
	m := voidecs.NewEntityManager()
	h := m.Create()
	assert.True(t, m.Destroy(h))
	assert.False(t, m.IsAlive(h))
	assert.Equal(t, 0, m.AliveCount())
}

func TestEntityManager_DestroyTwiceFails(t *testing.T) {
	m := voidecs.NewEntityManager()
	h := m.Create()
	assert.True(t, m.Destroy(h))
	assert.False(t, m.Destroy(h))
}

func TestEntityManager_ReuseBumpsGeneration(t *testing.T) {
	m := voidecs.NewEntityManager()
	h1 := m.Create()
	require := assert.New(t)
	require.True(m.Destroy(h1))

	h2 := m.Create()
	require.Equal(h1.ID(), h2.ID())
	require.Greater(h2.Generation(), h1.Generation())
	require.False(m.IsAlive(h1))
	require.True(m.IsAlive(h2))
}

func TestEntityManager_IsAlivePure(t *testing.T) {
	m := voidecs.NewEntityManager()
	h := m.Create()
	before := m.AliveCount()
	for i := 0; i < 10; i++ {
		_ = m.IsAlive(h)
	}
	assert.Equal(t, before, m.AliveCount())
}

func TestEntityManager_ManyCreateDestroyCycles(t *testing.T) {
	m := voidecs.NewEntityManager()
	var handles []voidecs.EntityHandle
	for i := 0; i < 50; i++ {
		handles = append(handles, m.Create())
	}
	for _, h := range handles[:25] {
		assert.True(t, m.Destroy(h))
	}
	assert.Equal(t, 25, m.AliveCount())

	var fresh []voidecs.EntityHandle
	for i := 0; i < 25; i++ {
		fresh = append(fresh, m.Create())
	}
	assert.Equal(t, 50, m.AliveCount())
	for _, h := range handles[:25] {
		assert.False(t, m.IsAlive(h))
	}
	for _, h := range fresh {
		assert.True(t, m.IsAlive(h))
	}
}
