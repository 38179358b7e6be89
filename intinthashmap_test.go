package automaton

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIntIntHashMap(t *testing.T) {
	t.Run("PutAndGet", func(t *testing.T) {
		m := NewIntIntHashMap(4)
		m.Put(5, 50)
		m.Put(6, 60)

		v, ok := m.Get(5)
		assert.True(t, ok)
		assert.Equal(t, int32(50), v)

		_, ok = m.Get(7)
		assert.False(t, ok)
		assert.Equal(t, 2, m.Size())
	})

	t.Run("ZeroKey", func(t *testing.T) {
		// key 0 is the empty-slot marker and lives out-of-band
		m := NewIntIntHashMap(4)
		_, ok := m.Get(0)
		assert.False(t, ok)

		m.Put(0, 42)
		v, ok := m.Get(0)
		assert.True(t, ok)
		assert.Equal(t, int32(42), v)
		assert.Equal(t, 1, m.Size())

		m.Put(0, 43)
		v, _ = m.Get(0)
		assert.Equal(t, int32(43), v)
		assert.Equal(t, 1, m.Size())
	})

	t.Run("Overwrite", func(t *testing.T) {
		m := NewIntIntHashMap(4)
		m.Put(9, 1)
		m.Put(9, 2)
		v, ok := m.Get(9)
		assert.True(t, ok)
		assert.Equal(t, int32(2), v)
		assert.Equal(t, 1, m.Size())
	})

	t.Run("Rehash", func(t *testing.T) {
		m := NewIntIntHashMap(4)
		for i := int32(1); i <= 200; i++ {
			m.Put(i, i*10)
		}
		assert.Equal(t, 200, m.Size())
		for i := int32(1); i <= 200; i++ {
			v, ok := m.Get(i)
			assert.True(t, ok)
			assert.Equal(t, i*10, v)
		}
	})

	t.Run("NegativeKeys", func(t *testing.T) {
		m := NewIntIntHashMap(4)
		m.Put(-3, 7)
		v, ok := m.Get(-3)
		assert.True(t, ok)
		assert.Equal(t, int32(7), v)
	})
}
