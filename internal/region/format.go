// Package region implements the ESF region container format: 256 chunks
// (a 16x16 area) packed into a single file, addressed by a fixed-size
// header, a fixed-size slot table, and an append-only run of per-chunk
// data records. Region files are named "r.<regionX>.<regionY>.esf".
package region

import (
	"fmt"

	"github.com/dantero-ps/voxelworld/internal/buffer"
)

const (
	Magic         uint32 = 0x45534631 // "ESF1"
	FormatVersion uint32 = 1

	// RegionSize is the number of chunks along one side of a region (16x16
	// chunks per file).
	RegionSize  = 16
	regionShift = 4 // log2(RegionSize), used for arithmetic-shift coordinate math
	MaxChunks   = RegionSize * RegionSize

	HeaderSize      = 64
	IndexEntrySize  = 8
	IndexSize       = MaxChunks * IndexEntrySize
	ChunkHeaderSize = 20

	DataStartOffset = HeaderSize + IndexSize

	// CompressionRLE marks a chunk record's payload as an RLE frame
	// (see internal/rle). CompressionNone marks it as the raw, uncompressed
	// little-endian uint32 block-ID array.
	CompressionRLE  uint32 = 0
	CompressionNone uint32 = 255

	// MaxReasonableChunkSize is a sanity cap on a chunk record's
	// uncompressed size, used to reject corrupted headers before they
	// drive an oversized allocation.
	MaxReasonableChunkSize uint32 = 4 * 1024 * 1024
)

// header is the 64-byte region file header.
type header struct {
	RegionX, RegionY int32
	ChunkCount       uint32
	FileSize         uint32
	Timestamp        uint64
	CRC32            uint32
}

func (h *header) encode() []byte {
	b := buffer.New(buffer.Little)
	b.WriteU32(Magic)
	b.WriteU32(FormatVersion)
	b.WriteI32(h.RegionX)
	b.WriteI32(h.RegionY)
	b.WriteU32(h.ChunkCount)
	b.WriteU32(h.FileSize)
	b.WriteU64(h.Timestamp)
	b.WriteU32(h.CRC32)
	out := make([]byte, HeaderSize)
	copy(out, b.Bytes()) // out[36:64] stays zeroed: reserved.
	return out
}

func decodeHeader(buf []byte) (header, error) {
	var h header
	if len(buf) < HeaderSize {
		return h, &CorruptedHeaderError{Reason: "short read"}
	}
	r := buffer.Wrap(buf, buffer.Little)
	magic, _ := r.ReadU32()
	if magic != Magic {
		return h, &InvalidMagicError{Got: magic}
	}
	version, _ := r.ReadU32()
	if version != FormatVersion {
		return h, &UnsupportedVersionError{Got: version}
	}
	h.RegionX, _ = r.ReadI32()
	h.RegionY, _ = r.ReadI32()
	h.ChunkCount, _ = r.ReadU32()
	h.FileSize, _ = r.ReadU32()
	h.Timestamp, _ = r.ReadU64()
	h.CRC32, _ = r.ReadU32()
	if h.ChunkCount > MaxChunks {
		return h, &CorruptedHeaderError{Reason: "chunkCount exceeds region capacity"}
	}
	return h, nil
}

// slot is one 8-byte entry in the region's chunk index: a zero value means
// the corresponding chunk slot is empty.
type slot struct {
	Offset uint32
	Size   uint32
}

func (s slot) empty() bool { return s.Offset == 0 && s.Size == 0 }

func decodeIndex(buf []byte) ([MaxChunks]slot, error) {
	var idx [MaxChunks]slot
	if len(buf) < IndexSize {
		return idx, &CorruptedHeaderError{Reason: "index short read"}
	}
	r := buffer.Wrap(buf, buffer.Little)
	for i := 0; i < MaxChunks; i++ {
		offset, _ := r.ReadU32()
		size, _ := r.ReadU32()
		idx[i] = slot{Offset: offset, Size: size}
	}
	return idx, nil
}

func encodeIndex(idx [MaxChunks]slot) []byte {
	b := buffer.New(buffer.Little)
	for _, s := range idx {
		b.WriteU32(s.Offset)
		b.WriteU32(s.Size)
	}
	return b.Bytes()
}

// chunkRecordHeader is the 20-byte record preceding a chunk's payload.
type chunkRecordHeader struct {
	ChunkX, ChunkY    int32
	UncompressedSize  uint32
	CompressedSize    uint32
	CompressionType   uint32
}

func (c *chunkRecordHeader) encode() []byte {
	b := buffer.New(buffer.Little)
	b.WriteI32(c.ChunkX)
	b.WriteI32(c.ChunkY)
	b.WriteU32(c.UncompressedSize)
	b.WriteU32(c.CompressedSize)
	b.WriteU32(c.CompressionType)
	return b.Bytes()
}

func decodeChunkRecordHeader(buf []byte) (chunkRecordHeader, error) {
	var c chunkRecordHeader
	if len(buf) < ChunkHeaderSize {
		return c, &CorruptedHeaderError{Reason: "chunk record header short read"}
	}
	r := buffer.Wrap(buf, buffer.Little)
	c.ChunkX, _ = r.ReadI32()
	c.ChunkY, _ = r.ReadI32()
	c.UncompressedSize, _ = r.ReadU32()
	c.CompressedSize, _ = r.ReadU32()
	c.CompressionType, _ = r.ReadU32()
	if c.CompressionType != CompressionRLE && c.CompressionType != CompressionNone {
		return c, &CorruptedHeaderError{Reason: "unrecognised compression type"}
	}
	if c.UncompressedSize > MaxReasonableChunkSize {
		return c, &CorruptedHeaderError{Reason: "uncompressedSize exceeds sanity limit"}
	}
	return c, nil
}

// WorldChunkToRegion maps world chunk coordinates to the region that would
// contain them, rounding towards negative infinity (arithmetic shift, not
// truncating division) so negative chunk coordinates land in the correct
// region.
func WorldChunkToRegion(chunkX, chunkY int32) (regionX, regionY int32) {
	return chunkX >> regionShift, chunkY >> regionShift
}

// RegionToWorldChunk returns the world chunk coordinates of a region's
// (0,0) corner.
func RegionToWorldChunk(regionX, regionY int32) (startChunkX, startChunkY int32) {
	return regionX << regionShift, regionY << regionShift
}

// WorldChunkToLocal returns chunkX/chunkY expressed relative to the given
// region's origin, in [0, RegionSize).
func WorldChunkToLocal(chunkX, chunkY, regionX, regionY int32) (localX, localY int32) {
	startX, startY := RegionToWorldChunk(regionX, regionY)
	return chunkX - startX, chunkY - startY
}

func chunkToIndex(localX, localY int32) int { return int(localY*RegionSize + localX) }

func validLocal(localX, localY int32) bool {
	return localX >= 0 && localX < RegionSize && localY >= 0 && localY < RegionSize
}

// FileName returns the canonical "r.X.Y.esf" filename for a region.
func FileName(regionX, regionY int32) string {
	return fmt.Sprintf("r.%d.%d.esf", regionX, regionY)
}

// ParseFileName extracts region coordinates from a "r.X.Y.esf" filename.
func ParseFileName(name string) (regionX, regionY int32, ok bool) {
	var x, y int32
	n, err := fmt.Sscanf(name, "r.%d.%d.esf", &x, &y)
	if err != nil || n != 2 {
		return 0, 0, false
	}
	return x, y, true
}
