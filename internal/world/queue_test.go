package world

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCoordQueueFIFOAndDedup(t *testing.T) {
	q := newCoordQueue()
	require.True(t, q.push(ChunkCoord{0, 0}))
	require.True(t, q.push(ChunkCoord{1, 0}))
	require.False(t, q.push(ChunkCoord{0, 0}), "pushing an already-queued coord must be rejected")
	require.Equal(t, 2, q.len())

	first, ok := q.pop()
	require.True(t, ok)
	require.Equal(t, ChunkCoord{0, 0}, first)

	require.True(t, q.push(ChunkCoord{0, 0}), "popped coords must be re-pushable")
}

func TestCoordQueueRemove(t *testing.T) {
	q := newCoordQueue()
	q.push(ChunkCoord{2, 2})
	q.push(ChunkCoord{3, 3})
	require.True(t, q.remove(ChunkCoord{2, 2}))
	require.False(t, q.contains(ChunkCoord{2, 2}))
	require.Equal(t, 1, q.len())
	require.False(t, q.remove(ChunkCoord{2, 2}), "removing twice reports not-found the second time")
}

func TestCoordQueuePopEmpty(t *testing.T) {
	q := newCoordQueue()
	_, ok := q.pop()
	require.False(t, ok)
}
