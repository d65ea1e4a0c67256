package region

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T, regionX, regionY int32) *File {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName(regionX, regionY))
	f, err := Open(path, regionX, regionY)
	require.NoError(t, err)
	return f
}

func TestWriteReadChunkRoundTrip(t *testing.T) {
	f := openTemp(t, 0, 0)
	defer f.Close()

	blocks := make([]uint32, 32768)
	for i := range blocks {
		blocks[i] = uint32(i % 7)
	}

	require.NoError(t, f.WriteChunk(3, 5, blocks))
	require.True(t, f.HasChunk(3, 5))

	got, err := f.ReadChunk(3, 5)
	require.NoError(t, err)
	require.Equal(t, blocks, got)
}

func TestWriteChunkIncompressibleStoresRaw(t *testing.T) {
	f := openTemp(t, 0, 0)
	defer f.Close()

	blocks := make([]uint32, 1024)
	for i := range blocks {
		blocks[i] = uint32(i) // every value distinct: RLE cannot help
	}

	require.NoError(t, f.WriteChunk(0, 0, blocks))
	got, err := f.ReadChunk(0, 0)
	require.NoError(t, err)
	require.Equal(t, blocks, got)
}

func TestReadMissingChunkReturnsNotFound(t *testing.T) {
	f := openTemp(t, 0, 0)
	defer f.Close()

	_, err := f.ReadChunk(1, 1)
	require.Error(t, err)
	var notFound *ChunkNotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestWriteChunkOutsideRegionRejected(t *testing.T) {
	f := openTemp(t, 0, 0)
	defer f.Close()

	err := f.WriteChunk(16, 0, []uint32{1})
	require.Error(t, err)
	var badCoord *InvalidCoordinatesError
	require.ErrorAs(t, err, &badCoord)
}

func TestOverwriteKeepsLatestRecordAppendOnly(t *testing.T) {
	f := openTemp(t, 0, 0)
	defer f.Close()

	first := make([]uint32, 100)
	second := make([]uint32, 100)
	for i := range second {
		second[i] = 9
	}

	require.NoError(t, f.WriteChunk(2, 2, first))
	sizeAfterFirst := f.index[chunkToIndex(2, 2)].Offset

	require.NoError(t, f.WriteChunk(2, 2, second))
	got, err := f.ReadChunk(2, 2)
	require.NoError(t, err)
	require.Equal(t, second, got)
	require.Greater(t, f.index[chunkToIndex(2, 2)].Offset, sizeAfterFirst)
	require.Equal(t, uint32(1), f.header.ChunkCount) // still counted once
}

func TestReopenPersistsChunks(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName(0, 0))

	f, err := Open(path, 0, 0)
	require.NoError(t, err)
	require.NoError(t, f.WriteChunk(4, 4, []uint32{1, 1, 1, 2, 2}))
	require.NoError(t, f.Close())

	reopened, err := Open(path, 0, 0)
	require.NoError(t, err)
	defer reopened.Close()

	require.True(t, reopened.HasChunk(4, 4))
	got, err := reopened.ReadChunk(4, 4)
	require.NoError(t, err)
	require.Equal(t, []uint32{1, 1, 1, 2, 2}, got)
	require.Equal(t, uint32(1), reopened.header.ChunkCount)
}
