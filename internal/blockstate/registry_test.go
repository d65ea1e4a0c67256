package blockstate

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAirIsZeroValue(t *testing.T) {
	reg := NewStaticRegistry()
	air := reg.Air()
	require.True(t, air.IsAir())
	require.Equal(t, uint8(0), air.NumericID())
	require.False(t, air.IsFullOpaque())
}

func TestRoundTripByNumericID(t *testing.T) {
	reg := NewStaticRegistry()
	stone, ok := reg.ByName("stone")
	require.True(t, ok)
	require.True(t, stone.IsFullOpaque())

	resolved, ok := reg.ByNumericID(stone.NumericID())
	require.True(t, ok)
	require.Equal(t, "stone", resolved.Name())
}

func TestUnknownNumericID(t *testing.T) {
	reg := NewStaticRegistry()
	_, ok := reg.ByNumericID(250)
	require.False(t, ok)
}

func TestGlowstoneEmitsLight(t *testing.T) {
	reg := NewStaticRegistry()
	glow, ok := reg.ByName("glowstone")
	require.True(t, ok)
	require.Equal(t, uint8(15), glow.EmitsLight())
}
