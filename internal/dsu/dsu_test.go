package dsu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSingletons(t *testing.T) {
	d := New()
	d.Add(1)
	d.Add(2)

	assert.False(t, d.Connected(1, 2))

	count, largest := d.Components()
	assert.Equal(t, 2, count)
	assert.Equal(t, 1, largest)
}

func TestUnionMerges(t *testing.T) {
	d := New()
	d.Union(1, 2)
	d.Union(2, 3)

	assert.True(t, d.Connected(1, 3))

	count, largest := d.Components()
	assert.Equal(t, 1, count)
	assert.Equal(t, 3, largest)
}

func TestUnionRegistersUnknownIDs(t *testing.T) {
	d := New()
	d.Union(10, 20)

	assert.True(t, d.Connected(10, 20))
}

func TestDisjointGroups(t *testing.T) {
	d := New()
	d.Union(1, 2)
	d.Union(3, 4)
	d.Union(4, 5)

	assert.False(t, d.Connected(1, 5))

	count, largest := d.Components()
	assert.Equal(t, 2, count)
	assert.Equal(t, 3, largest)
}

func TestUnknownIDsNotConnected(t *testing.T) {
	d := New()
	d.Add(1)

	assert.False(t, d.Connected(1, 99))
	assert.False(t, d.Connected(98, 99))
}

func TestAddIsIdempotent(t *testing.T) {
	d := New()
	d.Add(1)
	d.Add(1)

	count, _ := d.Components()
	assert.Equal(t, 1, count)
}
