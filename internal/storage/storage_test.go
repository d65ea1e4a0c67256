package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultConfigValidates(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadConfigFallsBackOnMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"), nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestLoadConfigFallsBackOnInvalidDocument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "chunk_storage.yml")
	require.NoError(t, os.WriteFile(path, []byte("storage_format: not-a-format\n"), 0o644))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestSaveDefaultThenLoadRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunk_storage.yml")
	require.NoError(t, SaveDefault(path))

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)
}

func TestStorageESFSRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Format = FormatESFS

	s, err := Open(cfg, t.TempDir(), nil)
	require.NoError(t, err)
	defer s.Close()

	blocks := make([]uint32, 32768)
	blocks[10] = 5

	require.False(t, s.ChunkExists(1, 1))
	require.NoError(t, s.SaveChunk(1, 1, blocks))
	require.True(t, s.ChunkExists(1, 1))

	got, err := s.LoadChunk(1, 1)
	require.NoError(t, err)
	require.Equal(t, blocks, got)

	require.NoError(t, s.DeleteChunk(1, 1))
	require.False(t, s.ChunkExists(1, 1))
}

func TestStorageESFRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Format = FormatESF

	s, err := Open(cfg, t.TempDir(), nil)
	require.NoError(t, err)
	defer s.Close()

	blocks := []uint32{1, 1, 1, 2, 2}
	require.NoError(t, s.SaveChunk(0, 0, blocks))
	require.True(t, s.ChunkExists(0, 0))

	got, err := s.LoadChunk(0, 0)
	require.NoError(t, err)
	require.Equal(t, blocks, got)
}

func TestShouldSaveByStrategy(t *testing.T) {
	cfg := Default()
	s := &Storage{cfg: cfg}

	cfg.SaveStrategy = SaveAll
	s.cfg = cfg
	require.True(t, s.ShouldSave(false, false))

	cfg.SaveStrategy = SaveModifiedOnly
	s.cfg = cfg
	require.True(t, s.ShouldSave(true, false))
	require.False(t, s.ShouldSave(false, false))

	cfg.SaveStrategy = SavePlayerModifiedOnly
	s.cfg = cfg
	require.True(t, s.ShouldSave(true, true))
	require.False(t, s.ShouldSave(true, false))
}
