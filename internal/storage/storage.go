package storage

import (
	"path/filepath"

	"go.uber.org/zap"

	"github.com/dantero-ps/voxelworld/internal/chunkfile"
	"github.com/dantero-ps/voxelworld/internal/region"
)

// Storage is the persistence capability the world orchestrator saves and
// loads chunk data through. It dispatches to the region (ESF) or
// chunkfile (ESFS) codec according to Config.Format and owns whatever
// backing cache that codec needs.
type Storage struct {
	cfg    Config
	log    *zap.Logger
	region *region.Cache // non-nil only when cfg.Format == FormatESF
	chunks string        // chunk directory, non-empty only when cfg.Format == FormatESFS
}

// Open prepares a Storage rooted at worldPath, using the given YAML-loaded
// policy.
func Open(cfg Config, worldPath string, log *zap.Logger) (*Storage, error) {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Storage{cfg: cfg, log: log}

	switch cfg.Format {
	case FormatESF:
		cache, err := region.NewCache(filepath.Join(worldPath, "regions"), cfg.MaxCachedRegions, log)
		if err != nil {
			return nil, err
		}
		s.region = cache
	case FormatESFS:
		s.chunks = filepath.Join(worldPath, "chunks")
	}
	return s, nil
}

// ShouldSave reports whether a chunk with the given modification flags
// should be written under this Storage's save strategy.
func (s *Storage) ShouldSave(modified, playerModified bool) bool {
	switch s.cfg.SaveStrategy {
	case SaveAll:
		return true
	case SavePlayerModifiedOnly:
		return playerModified
	default: // SaveModifiedOnly
		return modified
	}
}

// SaveChunk persists blockIDs (one entry per block, z-major order) for the
// given chunk coordinates.
func (s *Storage) SaveChunk(chunkX, chunkY int32, blockIDs []uint32) error {
	switch s.cfg.Format {
	case FormatESF:
		return s.region.WriteChunk(chunkX, chunkY, blockIDs)
	default: // FormatESFS
		ids8 := make([]uint8, len(blockIDs))
		for i, v := range blockIDs {
			ids8[i] = uint8(v)
		}
		return chunkfile.SaveChunk(s.chunks, chunkX, chunkY, ids8)
	}
}

// LoadChunk reads back a previously saved chunk's block-ID array.
func (s *Storage) LoadChunk(chunkX, chunkY int32) ([]uint32, error) {
	switch s.cfg.Format {
	case FormatESF:
		return s.region.ReadChunk(chunkX, chunkY)
	default: // FormatESFS
		ids8, err := chunkfile.LoadChunk(s.chunks, chunkX, chunkY)
		if err != nil {
			return nil, err
		}
		out := make([]uint32, len(ids8))
		for i, v := range ids8 {
			out[i] = uint32(v)
		}
		return out, nil
	}
}

// ChunkExists reports whether a chunk has previously been saved.
func (s *Storage) ChunkExists(chunkX, chunkY int32) bool {
	switch s.cfg.Format {
	case FormatESF:
		f, err := s.region.Get(chunkX, chunkY)
		if err != nil {
			return false
		}
		return f.HasChunk(chunkX, chunkY)
	default: // FormatESFS
		return chunkfile.ChunkExists(s.chunks, chunkX, chunkY)
	}
}

// DeleteChunk removes a chunk's ESFS file. ESF region files are append-only
// and never delete individual chunk records; the slot is simply left
// pointing at stale data until the next WriteChunk for that coordinate.
func (s *Storage) DeleteChunk(chunkX, chunkY int32) error {
	if s.cfg.Format == FormatESFS {
		return chunkfile.DeleteChunk(s.chunks, chunkX, chunkY)
	}
	return nil
}

// Flush persists any buffered region-cache metadata. ESFS writes are
// immediate, so this is a no-op in that mode.
func (s *Storage) Flush() error {
	if s.region != nil {
		return s.region.Flush()
	}
	return nil
}

// Close flushes and releases any held file handles.
func (s *Storage) Close() error {
	if s.region != nil {
		return s.region.Close()
	}
	return nil
}
