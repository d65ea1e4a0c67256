package worldmeta

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	m := Metadata{
		Name:       "Overworld",
		Seed:       123456789,
		Version:    1,
		LastPlayed: time.Unix(1_700_000_000, 0).UTC(),
		SpawnX:     10,
		SpawnY:     20,
		SpawnZ:     -5,
	}

	require.False(t, Exists(dir))
	require.NoError(t, Save(dir, m))
	require.True(t, Exists(dir))

	got, err := Load(dir)
	require.NoError(t, err)
	require.Equal(t, m, got)
}

func TestLoadMissingFileErrors(t *testing.T) {
	_, err := Load(t.TempDir())
	require.Error(t, err)
}
