package world

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLegalLifecyclePath(t *testing.T) {
	c := NewChunk(0, 0)
	require.Equal(t, StateInactive, c.State())

	require.NoError(t, c.transition(StateCheckingDisk))
	require.NoError(t, c.transition(StatePendingGenerate))
	require.NoError(t, c.transition(StateGenerating))
	require.NoError(t, c.transition(StateActive))
	require.NoError(t, c.transition(StatePendingSave))
	require.NoError(t, c.transition(StateSaving))
	require.NoError(t, c.transition(StateActive))
	require.NoError(t, c.transition(StatePendingUnload))
	require.NoError(t, c.transition(StateInactive))
}

func TestIllegalTransitionIsRejected(t *testing.T) {
	c := NewChunk(0, 0)
	err := c.transition(StateActive)
	require.Error(t, err)
	var target *InvalidTransitionError
	require.ErrorAs(t, err, &target)
	require.Equal(t, StateInactive, c.State(), "rejected transition must not mutate state")
}

func TestCanTransitionMatchesTransition(t *testing.T) {
	c := NewChunk(0, 0)
	require.True(t, c.canTransition(StateCheckingDisk))
	require.False(t, c.canTransition(StateActive))
}

func TestLoadingCanFallBackToGenerate(t *testing.T) {
	c := NewChunk(0, 0)
	require.NoError(t, c.transition(StateCheckingDisk))
	require.NoError(t, c.transition(StatePendingLoad))
	require.NoError(t, c.transition(StateLoading))
	require.NoError(t, c.transition(StatePendingGenerate))
}
