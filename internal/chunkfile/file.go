package chunkfile

import (
	"fmt"
	"os"
	"path/filepath"
)

// Serialize packs a chunk's flattened block-ID array (exactly BlockCount
// entries, z-major order) into an ESFS binary blob: header followed by the
// RLE-compressed stream.
func Serialize(blockIDs []uint8) ([]byte, error) {
	if len(blockIDs) != BlockCount {
		return nil, &HeaderError{Reason: fmt.Sprintf("expected %d blocks, got %d", BlockCount, len(blockIDs))}
	}
	h := newHeader()
	body := compressRLE(blockIDs)
	out := make([]byte, 0, HeaderSize+len(body))
	out = append(out, h.encode()...)
	out = append(out, body...)
	return out, nil
}

// Deserialize unpacks an ESFS binary blob back into a BlockCount-length
// block-ID array.
func Deserialize(data []byte) ([]uint8, error) {
	if len(data) < HeaderSize {
		return nil, &HeaderError{Reason: "blob shorter than header"}
	}
	h, err := decodeHeader(data[:HeaderSize])
	if err != nil {
		return nil, err
	}
	return decompressRLE(data[HeaderSize:], h.blockCount())
}

// FileName returns the canonical one-file-per-chunk name for chunk
// coordinates (chunkX, chunkY).
func FileName(chunkX, chunkY int32) string {
	return fmt.Sprintf("c.%d.%d.esfs", chunkX, chunkY)
}

// SaveChunk serializes blockIDs and writes them to dir/FileName(chunkX,chunkY).
func SaveChunk(dir string, chunkX, chunkY int32, blockIDs []uint8) error {
	blob, err := Serialize(blockIDs)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return &IOError{Path: dir, Err: err}
	}
	path := filepath.Join(dir, FileName(chunkX, chunkY))
	if err := os.WriteFile(path, blob, 0o644); err != nil {
		return &IOError{Path: path, Err: err}
	}
	return nil
}

// LoadChunk reads and deserializes the chunk file for (chunkX, chunkY).
func LoadChunk(dir string, chunkX, chunkY int32) ([]uint8, error) {
	path := filepath.Join(dir, FileName(chunkX, chunkY))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}
	return Deserialize(data)
}

// ChunkExists reports whether a chunk file exists for (chunkX, chunkY).
func ChunkExists(dir string, chunkX, chunkY int32) bool {
	path := filepath.Join(dir, FileName(chunkX, chunkY))
	_, err := os.Stat(path)
	return err == nil
}

// DeleteChunk removes the chunk file for (chunkX, chunkY), if present.
func DeleteChunk(dir string, chunkX, chunkY int32) error {
	path := filepath.Join(dir, FileName(chunkX, chunkY))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return &IOError{Path: path, Err: err}
	}
	return nil
}

// IOError wraps an underlying filesystem error with the path it occurred on.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string { return fmt.Sprintf("chunkfile: io error on %s: %v", e.Path, e.Err) }
func (e *IOError) Unwrap() error { return e.Err }
