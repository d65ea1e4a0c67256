package world

// TerrainGenerator is the capability that populates a freshly-created
// chunk's block buffer. Implementations must be deterministic for a given
// seed and chunk coordinate pair: the orchestrator may regenerate a chunk
// more than once (e.g. after a failed load) and expects identical output.
type TerrainGenerator interface {
	Generate(seed int64, chunkX, chunkY int32, out *Chunk)
}

// TimeProvider is the capability the lighting engine consults for the
// current time-of-day angle, used to darken sky light as night falls.
// Angle is a value in [0, 1) driving SkyDarken; 0.5 is solar noon
// (darken == 0) and 0/approaching 1 is midnight (darken == 11).
type TimeProvider interface {
	Angle() float64
}

// ChunkStorage is the narrow persistence capability the orchestrator
// depends on; internal/storage.Storage satisfies it without this package
// needing to import the concrete storage/region/chunkfile types.
type ChunkStorage interface {
	ChunkExists(chunkX, chunkY int32) bool
	LoadChunk(chunkX, chunkY int32) ([]uint32, error)
	SaveChunk(chunkX, chunkY int32, blockIDs []uint32) error
	Flush() error
	Close() error
}
