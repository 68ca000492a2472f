package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIntArrayScan(t *testing.T) {
	var a IntArray
	require.NoError(t, a.Scan([]byte(`{3,1,7}`)))
	assert.Equal(t, IntArray{3, 1, 7}, a)

	var empty IntArray
	require.NoError(t, empty.Scan([]byte(`{}`)))
	assert.Empty(t, empty)

	var null IntArray
	require.NoError(t, null.Scan(nil))
	assert.Nil(t, null)
}

func TestIntArrayWith(t *testing.T) {
	a := IntArray{5, 2}

	next := a.With([]int{9, 1})
	assert.Equal(t, IntArray{1, 2, 5, 9}, next)
	// Receiver stays untouched
	assert.Equal(t, IntArray{5, 2}, a)

	assert.Equal(t, IntArray{4}, IntArray{}.With([]int{4}))
}

func TestIntArrayWithout(t *testing.T) {
	a := IntArray{1, 2, 5, 9}

	next := a.Without([]int{2, 9})
	assert.Equal(t, IntArray{1, 5}, next)
	assert.Equal(t, IntArray{1, 2, 5, 9}, a)

	assert.Empty(t, IntArray{3}.Without([]int{3}))
	assert.Equal(t, IntArray{3}, IntArray{3}.Without([]int{4}))
}

func TestIntArrayContains(t *testing.T) {
	a := IntArray{1, 5, 9}

	assert.True(t, a.Contains(5))
	assert.False(t, a.Contains(4))
	assert.False(t, IntArray(nil).Contains(1))
}
