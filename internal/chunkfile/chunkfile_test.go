package chunkfile

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func uniformBlocks(v uint8) []uint8 {
	out := make([]uint8, BlockCount)
	for i := range out {
		out[i] = v
	}
	return out
}

func TestSerializeDeserializeRoundTrip(t *testing.T) {
	blocks := uniformBlocks(0)
	for i := 1000; i < 2000; i++ {
		blocks[i] = 2
	}
	for i := 30000; i < BlockCount; i++ {
		blocks[i] = 7
	}

	blob, err := Serialize(blocks)
	require.NoError(t, err)
	require.Equal(t, []byte{'E', 'S', 'F', 'S'}, blob[0:4])

	got, err := Deserialize(blob)
	require.NoError(t, err)
	require.Equal(t, blocks, got)
}

func TestSerializeRejectsWrongLength(t *testing.T) {
	_, err := Serialize(make([]uint8, 100))
	require.Error(t, err)
	var headerErr *HeaderError
	require.ErrorAs(t, err, &headerErr)
}

func TestRunLongerThan255Splits(t *testing.T) {
	blocks := uniformBlocks(5)
	body := compressRLE(blocks)
	require.Equal(t, BlockCount/255+1, len(body)/2) // 32768 = 128*255 + 128, so 129 pairs
}

func TestDecompressRejectsBadMagic(t *testing.T) {
	blob, err := Serialize(uniformBlocks(1))
	require.NoError(t, err)
	blob[0] = 'X'
	_, err = Deserialize(blob)
	require.Error(t, err)
}

func TestSaveLoadChunkRoundTrip(t *testing.T) {
	dir := t.TempDir()
	blocks := uniformBlocks(3)
	blocks[0] = 9

	require.NoError(t, SaveChunk(dir, 2, -5, blocks))
	require.True(t, ChunkExists(dir, 2, -5))

	got, err := LoadChunk(dir, 2, -5)
	require.NoError(t, err)
	require.Equal(t, blocks, got)

	require.NoError(t, DeleteChunk(dir, 2, -5))
	require.False(t, ChunkExists(dir, 2, -5))
}

func TestLoadMissingChunkErrors(t *testing.T) {
	dir := t.TempDir()
	_, err := LoadChunk(dir, 0, 0)
	require.Error(t, err)
}
