package region

import (
	"hash/crc32"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dantero-ps/voxelworld/internal/buffer"
	"github.com/dantero-ps/voxelworld/internal/rle"
)

// File is one open ESF region file: a 64-byte header, a 2048-byte slot
// table, and an append-only run of chunk records. All mutating methods
// operate on the in-memory header/index; Flush is responsible for
// persisting them. File is not safe for concurrent use; callers needing
// concurrent access to many regions should go through Cache.
type File struct {
	path   string
	handle *os.File
	header header
	index  [MaxChunks]slot
	dirty  bool
}

// Open opens an existing region file or creates an empty one at path,
// which must already encode the given region coordinates in its name.
func Open(path string, regionX, regionY int32) (*File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	handle, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, &IOError{Path: path, Err: err}
	}

	f := &File{path: path, handle: handle}

	info, err := handle.Stat()
	if err != nil {
		handle.Close()
		return nil, &IOError{Path: path, Err: err}
	}

	if info.Size() == 0 {
		f.header = header{RegionX: regionX, RegionY: regionY}
		if err := f.writeMetadata(); err != nil {
			handle.Close()
			return nil, err
		}
		return f, nil
	}

	if err := f.load(); err != nil {
		handle.Close()
		return nil, err
	}
	return f, nil
}

func (f *File) load() error {
	buf := make([]byte, DataStartOffset)
	if _, err := io.ReadFull(f.handle, buf); err != nil {
		return &IOError{Path: f.path, Err: err}
	}
	h, err := decodeHeader(buf[:HeaderSize])
	if err != nil {
		return err
	}
	idx, err := decodeIndex(buf[HeaderSize:])
	if err != nil {
		return err
	}
	f.header = h
	f.index = idx
	return nil
}

// HasChunk reports whether a record exists for the given world chunk
// coordinates within this region.
func (f *File) HasChunk(chunkX, chunkY int32) bool {
	lx, ly := WorldChunkToLocal(chunkX, chunkY, f.header.RegionX, f.header.RegionY)
	if !validLocal(lx, ly) {
		return false
	}
	return !f.index[chunkToIndex(lx, ly)].empty()
}

// ReadChunk loads and decompresses the block-ID array stored for the given
// world chunk coordinates.
func (f *File) ReadChunk(chunkX, chunkY int32) ([]uint32, error) {
	lx, ly := WorldChunkToLocal(chunkX, chunkY, f.header.RegionX, f.header.RegionY)
	if !validLocal(lx, ly) {
		return nil, &InvalidCoordinatesError{ChunkX: chunkX, ChunkY: chunkY}
	}

	s := f.index[chunkToIndex(lx, ly)]
	if s.empty() {
		return nil, &ChunkNotFoundError{ChunkX: chunkX, ChunkY: chunkY}
	}

	record := make([]byte, s.Size)
	if _, err := f.handle.ReadAt(record, int64(s.Offset)); err != nil {
		return nil, &IOError{Path: f.path, Err: err}
	}

	rh, err := decodeChunkRecordHeader(record[:ChunkHeaderSize])
	if err != nil {
		return nil, err
	}
	payload := record[ChunkHeaderSize:]
	if uint32(len(payload)) != rh.CompressedSize {
		return nil, &CorruptedHeaderError{Reason: "payload length does not match record header"}
	}

	switch rh.CompressionType {
	case CompressionRLE:
		values, err := rle.Decompress(payload)
		if err != nil {
			return nil, &CompressionError{Err: err}
		}
		return values, nil
	default: // CompressionNone
		count := rh.UncompressedSize / 4
		out := make([]uint32, count)
		r := buffer.Wrap(payload, buffer.Little)
		for i := range out {
			out[i], _ = r.ReadU32()
		}
		return out, nil
	}
}

// WriteChunk stores blockIDs for the given world chunk coordinates,
// appending a new record to the file. The previous record for that
// coordinate, if any, is left in place and simply unreferenced: region
// files are append-only and are never compacted in place.
func (f *File) WriteChunk(chunkX, chunkY int32, blockIDs []uint32) error {
	lx, ly := WorldChunkToLocal(chunkX, chunkY, f.header.RegionX, f.header.RegionY)
	if !validLocal(lx, ly) {
		return &InvalidCoordinatesError{ChunkX: chunkX, ChunkY: chunkY}
	}

	uncompressedSize := uint32(len(blockIDs) * 4)

	var payload []byte
	compressionType := CompressionRLE
	if len(blockIDs) == 0 || rle.EstimateRatio(blockIDs) >= 0.9 {
		w := buffer.New(buffer.Little)
		for _, v := range blockIDs {
			w.WriteU32(v)
		}
		payload = w.Bytes()
		compressionType = CompressionNone
	} else {
		payload = rle.Compress(blockIDs)
	}

	rh := chunkRecordHeader{
		ChunkX:           chunkX,
		ChunkY:           chunkY,
		UncompressedSize: uncompressedSize,
		CompressedSize:   uint32(len(payload)),
		CompressionType:  compressionType,
	}

	offset, err := f.handle.Seek(0, io.SeekEnd)
	if err != nil {
		return &IOError{Path: f.path, Err: err}
	}
	if offset < DataStartOffset {
		offset = DataStartOffset
		if _, err := f.handle.Seek(offset, io.SeekStart); err != nil {
			return &IOError{Path: f.path, Err: err}
		}
	}

	if _, err := f.handle.Write(rh.encode()); err != nil {
		return &IOError{Path: f.path, Err: err}
	}
	if _, err := f.handle.Write(payload); err != nil {
		return &IOError{Path: f.path, Err: err}
	}

	idx := chunkToIndex(lx, ly)
	if f.index[idx].empty() {
		f.header.ChunkCount++
	}
	f.index[idx] = slot{Offset: uint32(offset), Size: uint32(ChunkHeaderSize + len(payload))}
	f.dirty = true
	return nil
}

// Dirty reports whether this handle has unflushed header/index changes.
func (f *File) Dirty() bool { return f.dirty }

// Flush rewrites the header and slot table in place, recomputing the file
// size and CRC32 over every byte following the slot table. Chunk records
// themselves are never rewritten.
func (f *File) Flush() error {
	if !f.dirty {
		return nil
	}

	info, err := f.handle.Stat()
	if err != nil {
		return &IOError{Path: f.path, Err: err}
	}

	crc, err := f.computeDataCRC(info.Size())
	if err != nil {
		return err
	}

	f.header.FileSize = uint32(info.Size())
	f.header.Timestamp = uint64(time.Now().Unix())
	f.header.CRC32 = crc

	if err := f.writeMetadata(); err != nil {
		return err
	}
	f.dirty = false
	return nil
}

func (f *File) writeMetadata() error {
	if _, err := f.handle.WriteAt(f.header.encode(), 0); err != nil {
		return &IOError{Path: f.path, Err: err}
	}
	if _, err := f.handle.WriteAt(encodeIndex(f.index), HeaderSize); err != nil {
		return &IOError{Path: f.path, Err: err}
	}
	return nil
}

func (f *File) computeDataCRC(fileSize int64) (uint32, error) {
	if fileSize <= DataStartOffset {
		return 0, nil
	}
	h := crc32.NewIEEE()
	if _, err := io.Copy(h, io.NewSectionReader(f.handle, DataStartOffset, fileSize-DataStartOffset)); err != nil {
		return 0, &IOError{Path: f.path, Err: err}
	}
	return h.Sum32(), nil
}

// Close flushes any pending changes and releases the underlying file
// handle.
func (f *File) Close() error {
	if err := f.Flush(); err != nil {
		f.handle.Close()
		return err
	}
	return f.handle.Close()
}
