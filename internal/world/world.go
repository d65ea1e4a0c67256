// Package world implements the chunk lifecycle state machine, deferred
// lighting engine, background job scheduler bridge and the World
// orchestrator that ties them together into a streaming, persistent voxel
// world.
package world

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/dantero-ps/voxelworld/internal/blockstate"
	"github.com/dantero-ps/voxelworld/internal/profiling"
	"github.com/dantero-ps/voxelworld/internal/worldmeta"
)

// Tunables governing the sliding activation window and per-tick
// throughput, named directly after the behaviour they implement.
const (
	MaxActivationsPerFrame = 4
	DeactivationRangeDelta = 2
	DefaultLightingBudget  = 4096
)

// Config bundles the capabilities and parameters a World is built from.
// Registry and Generator are required; the rest have usable zero-value
// defaults (no persistence, static noon, a single-worker scheduler).
type Config struct {
	Registry     blockstate.Registry
	Generator    TerrainGenerator
	Storage      ChunkStorage
	TimeProvider TimeProvider
	Scheduler    Scheduler
	Seed         int64
	Workers      int
	Log          *zap.Logger
}

// World is the stateful orchestrator: it owns every resident chunk, the
// background job queues, the lighting engine, and the player's current
// activation window. All exported methods are intended to be called from
// a single goroutine (the owning game loop); nothing here is safe for
// concurrent use from multiple callers.
type World struct {
	registry     blockstate.Registry
	generator    TerrainGenerator
	storage      ChunkStorage
	timeProvider TimeProvider
	scheduler    Scheduler
	seed         int64
	log          *zap.Logger

	chunks map[ChunkCoord]*Chunk

	generateQueue *coordQueue
	loadQueue     *coordQueue
	saveQueue     *coordQueue

	lighting *lightingEngine

	meshDirty map[ChunkCoord]bool

	playerChunk      ChunkCoord
	activationRange  int32
	shuttingDown     bool
	pendingUnloadSet map[ChunkCoord]bool
}

// New builds a World from cfg. A nil Scheduler gets a default worker pool
// backed by cfg.Generator and cfg.Storage.
func New(cfg Config) *World {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	sched := cfg.Scheduler
	if sched == nil {
		sched = NewWorkerPool(cfg.Workers, cfg.Generator, cfg.Storage, cfg.Seed)
	}
	return &World{
		registry:         cfg.Registry,
		generator:        cfg.Generator,
		storage:          cfg.Storage,
		timeProvider:     cfg.TimeProvider,
		scheduler:        sched,
		seed:             cfg.Seed,
		log:              log,
		chunks:           make(map[ChunkCoord]*Chunk),
		generateQueue:    newCoordQueue(),
		loadQueue:        newCoordQueue(),
		saveQueue:        newCoordQueue(),
		lighting:         newLightingEngine(),
		meshDirty:        make(map[ChunkCoord]bool),
		activationRange:  8,
		pendingUnloadSet: make(map[ChunkCoord]bool),
	}
}

// chunkAt returns the resident chunk at coord, or nil if it isn't loaded.
func (w *World) chunkAt(coord ChunkCoord) *Chunk {
	return w.chunks[coord]
}

// SetPlayerPosition updates the reference point the sliding activation
// window is centred on, given absolute block coordinates.
func (w *World) SetPlayerPosition(x, y, z float64) {
	w.playerChunk = ChunkCoord{
		X: floorDiv(int32(x), ChunkSizeX),
		Y: floorDiv(int32(y), ChunkSizeY),
	}
}

// SetChunkActivationRange sets how many chunks out from the player's
// column should be kept active. Must be >= 1.
func (w *World) SetChunkActivationRange(r int32) {
	if r < 1 {
		r = 1
	}
	w.activationRange = r
}

// GetBlockState resolves the block at absolute coordinates.
func (w *World) GetBlockState(x, y, z int32) blockstate.State {
	return w.At(x, y, z).Block()
}

// GetSkyLight returns the raw (not time-of-day-darkened) sky light at
// absolute coordinates.
func (w *World) GetSkyLight(x, y, z int32) uint8 { return w.At(x, y, z).SkyLight() }

// GetBlockLight returns the block light at absolute coordinates.
func (w *World) GetBlockLight(x, y, z int32) uint8 { return w.At(x, y, z).BlockLight() }

// GetIsSky reports whether a column is sky-exposed at absolute
// coordinates.
func (w *World) GetIsSky(x, y, z int32) bool { return w.At(x, y, z).IsSky() }

// GetTopBlockZ returns the highest occupied z in column (x, y), or -1 if
// the chunk isn't loaded or the column is empty.
func (w *World) GetTopBlockZ(x, y int32) int {
	c := w.chunkAt(ChunkCoord{X: floorDiv(x, ChunkSizeX), Y: floorDiv(y, ChunkSizeY)})
	if c == nil {
		return -1
	}
	lx := int(x - floorDiv(x, ChunkSizeX)*ChunkSizeX)
	ly := int(y - floorDiv(y, ChunkSizeY)*ChunkSizeY)
	return c.TopBlockZ(lx, ly)
}

// IsChunkActive reports whether the chunk at the given column is resident
// and in the Active state.
func (w *World) IsChunkActive(coord ChunkCoord) bool {
	c := w.chunkAt(coord)
	return c != nil && c.State() == StateActive
}

// DrainDirtyMeshes returns and clears the set of chunk columns whose mesh
// needs rebuilding, in a stable (sorted) order so renderer-facing tests
// are deterministic.
func (w *World) DrainDirtyMeshes() []ChunkCoord {
	if len(w.meshDirty) == 0 {
		return nil
	}
	out := make([]ChunkCoord, 0, len(w.meshDirty))
	for c := range w.meshDirty {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].X != out[j].X {
			return out[i].X < out[j].X
		}
		return out[i].Y < out[j].Y
	})
	w.meshDirty = make(map[ChunkCoord]bool)
	return out
}

func (w *World) markMeshDirty(coord ChunkCoord) { w.meshDirty[coord] = true }

// Update runs one tick of the per-frame procedure: updating the
// activation window, submitting/cancelling background jobs, applying
// completed jobs, advancing lighting, and leaving dirty meshes ready for
// DrainDirtyMeshes. dt is unused by the orchestrator itself today but is
// accepted so a future variable-rate budget can scale off it without
// changing the call site.
func (w *World) Update(dt float64) {
	if w.shuttingDown {
		return
	}
	defer profiling.Track("world.Update")()

	func() { defer profiling.Track("world.updateNearbyChunks")(); w.updateNearbyChunks() }()
	func() { defer profiling.Track("world.processJobQueues")(); w.processJobQueues() }()
	func() { defer profiling.Track("world.removeDistantJobs")(); w.removeDistantJobs() }()
	func() { defer profiling.Track("world.processCompletedJobs")(); w.processCompletedJobs() }()
	func() {
		defer profiling.Track("world.ProcessLighting")()
		w.ProcessLighting(DefaultLightingBudget)
	}()
}

func chebyshev(a, b ChunkCoord) int32 {
	dx := a.X - b.X
	if dx < 0 {
		dx = -dx
	}
	dy := a.Y - b.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// squaredDistance is the squared Euclidean distance between two chunk
// coordinates, used to rank activation candidates by true radial distance
// (a circle, per the sliding window's definition) rather than the
// Chebyshev square used for range membership checks.
func squaredDistance(a, b ChunkCoord) int64 {
	dx := int64(a.X - b.X)
	dy := int64(a.Y - b.Y)
	return dx*dx + dy*dy
}

// updateNearbyChunks queues up to MaxActivationsPerFrame not-yet-resident
// columns within activationRange of the player, nearest first, and queues
// everything outside deactivationRange for unload.
func (w *World) updateNearbyChunks() {
	r := w.activationRange
	needed := make([]ChunkCoord, 0, (2*r+1)*(2*r+1))
	for dx := -r; dx <= r; dx++ {
		for dy := -r; dy <= r; dy++ {
			coord := ChunkCoord{X: w.playerChunk.X + dx, Y: w.playerChunk.Y + dy}
			if w.chunkAt(coord) == nil && !w.generateQueue.contains(coord) && !w.loadQueue.contains(coord) {
				needed = append(needed, coord)
			}
		}
	}
	sort.Slice(needed, func(i, j int) bool {
		return squaredDistance(needed[i], w.playerChunk) < squaredDistance(needed[j], w.playerChunk)
	})
	for i := 0; i < len(needed) && i < MaxActivationsPerFrame; i++ {
		w.beginLoadOrGenerate(needed[i])
	}

	deactivationRange := r + DeactivationRangeDelta
	for coord, c := range w.chunks {
		if chebyshev(coord, w.playerChunk) <= deactivationRange {
			continue
		}
		switch c.State() {
		case StateActive:
			w.beginUnload(coord, c)
		case StateGenerating:
			// The job is already dispatched and can't be cancelled; mark it
			// for unload now so processCompletedJobs discards the result on
			// completion instead of activating it.
			_ = c.transition(StatePendingUnload)
		}
	}
}

// beginLoadOrGenerate transitions a not-yet-resident column through
// CheckingDisk and into whichever of PendingLoad/PendingGenerate applies.
// The disk-existence check is cheap (a stat, not a read) so it runs
// synchronously rather than through the job scheduler.
func (w *World) beginLoadOrGenerate(coord ChunkCoord) {
	c := NewChunk(coord.X, coord.Y)
	w.chunks[coord] = c
	_ = c.transition(StateCheckingDisk)

	exists := w.storage != nil && w.storage.ChunkExists(coord.X, coord.Y)
	if exists {
		_ = c.transition(StatePendingLoad)
		w.loadQueue.push(coord)
	} else {
		_ = c.transition(StatePendingGenerate)
		w.generateQueue.push(coord)
	}
}

// beginUnload starts the teardown path for an active chunk: a chunk that
// needs saving goes through PendingSave/Saving first; one that doesn't can
// go straight to PendingUnload.
func (w *World) beginUnload(coord ChunkCoord, c *Chunk) {
	needsSave := w.storage != nil && storageShouldSave(w.storage, c)
	if needsSave {
		_ = c.transition(StatePendingSave)
		w.saveQueue.push(coord)
		w.pendingUnloadSet[coord] = true
		return
	}
	_ = c.transition(StatePendingUnload)
	delete(w.chunks, coord)
}

// storageShouldSave asks the storage capability whether c's modification
// flags warrant a save under its configured strategy. ChunkStorage doesn't
// declare ShouldSave (it isn't persistence, it's policy), so this uses it
// when the concrete storage provides it and otherwise falls back to
// c.Modified. It does not check for a nil storage; callers do.
func storageShouldSave(storage ChunkStorage, c *Chunk) bool {
	if shouldSaver, ok := storage.(interface {
		ShouldSave(modified, playerModified bool) bool
	}); ok {
		return shouldSaver.ShouldSave(c.Modified, c.PlayerModified)
	}
	return c.Modified
}

// unloadRate scales how many PendingSave/PendingUnload chunks get flushed
// per tick with how far active-chunk count has overshot the activation
// window's target footprint.
func (w *World) unloadRate() int {
	target := (2*w.activationRange + 1) * (2*w.activationRange + 1)
	if target <= 0 {
		target = 1
	}
	active := 0
	for _, c := range w.chunks {
		if c.State() == StateActive {
			active++
		}
	}
	pressure := float64(active) / float64(target)
	switch {
	case pressure > 1.5:
		return 4
	case pressure > 1.2:
		return 2
	default:
		return 1
	}
}

// processJobQueues submits up to MaxActivationsPerFrame generate/load jobs
// and w.unloadRate() save jobs to the scheduler.
func (w *World) processJobQueues() {
	for i := 0; i < MaxActivationsPerFrame; i++ {
		if coord, ok := w.generateQueue.pop(); ok {
			if c := w.chunkAt(coord); c != nil && c.canTransition(StateGenerating) {
				_ = c.transition(StateGenerating)
				w.scheduler.Submit(Job{Kind: JobGenerate, Coord: coord})
			}
		}
		if coord, ok := w.loadQueue.pop(); ok {
			if c := w.chunkAt(coord); c != nil && c.canTransition(StateLoading) {
				_ = c.transition(StateLoading)
				w.scheduler.Submit(Job{Kind: JobLoad, Coord: coord})
			}
		}
	}

	rate := w.unloadRate()
	for i := 0; i < rate; i++ {
		coord, ok := w.saveQueue.pop()
		if !ok {
			break
		}
		c := w.chunkAt(coord)
		if c == nil || !c.canTransition(StateSaving) {
			continue
		}
		_ = c.transition(StateSaving)
		w.scheduler.Submit(Job{Kind: JobSave, Coord: coord, SaveSnapshot: c.SnapshotBlockIDs()})
	}
}

// removeDistantJobs drops queued (not yet dispatched) generate/load jobs
// for columns that have fallen back outside the activation window since
// being queued. Jobs already handed to the scheduler cannot be cancelled.
func (w *World) removeDistantJobs() {
	r := w.activationRange
	prune := func(q *coordQueue) {
		for _, coord := range append([]ChunkCoord(nil), q.items...) {
			if chebyshev(coord, w.playerChunk) > r {
				q.remove(coord)
				delete(w.chunks, coord)
			}
		}
	}
	prune(w.generateQueue)
	prune(w.loadQueue)
}

// processCompletedJobs drains the scheduler and applies every finished
// Generate/Load/Save result to the matching resident chunk.
func (w *World) processCompletedJobs() {
	for _, res := range w.scheduler.RetrieveCompleted() {
		c := w.chunkAt(res.Coord)
		if c == nil {
			continue
		}
		switch res.Kind {
		case JobGenerate:
			w.applyGenerated(c, res)
		case JobLoad:
			w.applyLoaded(c, res)
		case JobSave:
			w.applySaved(c, res)
		}
	}
}

func (w *World) applyGenerated(c *Chunk, res JobResult) {
	if res.Err != nil {
		w.log.Warn("chunk generation failed", zap.Int32("x", c.CoordX), zap.Int32("y", c.CoordY), zap.Error(res.Err))
		return
	}
	if c.State() != StateGenerating {
		// Left the activation window mid-generation: discard the result
		// and free the chunk instead of activating it.
		delete(w.chunks, ChunkCoord{X: c.CoordX, Y: c.CoordY})
		return
	}
	c.LoadBlockIDs(res.BlockIDs)
	c.Generated = true
	c.Modified = true
	if err := c.transition(StateActive); err != nil {
		w.log.Warn("invalid transition", zap.Error(err))
		return
	}
	w.seedColumn(c)
	w.markMeshDirty(ChunkCoord{X: c.CoordX, Y: c.CoordY})
}

func (w *World) applyLoaded(c *Chunk, res JobResult) {
	if res.Err != nil {
		w.log.Warn("chunk load failed", zap.Int32("x", c.CoordX), zap.Int32("y", c.CoordY), zap.Error(res.Err))
		_ = c.transition(StatePendingGenerate)
		w.generateQueue.push(ChunkCoord{X: c.CoordX, Y: c.CoordY})
		return
	}
	if !res.Existed {
		_ = c.transition(StatePendingGenerate)
		w.generateQueue.push(ChunkCoord{X: c.CoordX, Y: c.CoordY})
		return
	}
	c.LoadBlockIDs(res.BlockIDs)
	c.Generated = true
	if err := c.transition(StateActive); err != nil {
		w.log.Warn("invalid transition", zap.Error(err))
		return
	}
	w.seedColumn(c)
	w.markMeshDirty(ChunkCoord{X: c.CoordX, Y: c.CoordY})
}

func (w *World) applySaved(c *Chunk, res JobResult) {
	coord := ChunkCoord{X: c.CoordX, Y: c.CoordY}
	if res.Err != nil {
		w.log.Warn("chunk save failed", zap.Int32("x", c.CoordX), zap.Int32("y", c.CoordY), zap.Error(res.Err))
	} else {
		c.Modified = false
		c.PlayerModified = false
	}
	if w.pendingUnloadSet[coord] {
		delete(w.pendingUnloadSet, coord)
		_ = c.transition(StatePendingUnload)
		delete(w.chunks, coord)
		return
	}
	_ = c.transition(StateActive)
}

// seedColumn sets the sky-exposure bitset for a freshly generated/loaded
// chunk (every cell above the topmost block is sky; the topmost block and
// everything below it are shadowed) and
// schedules its boundary and surface cells for lighting.
func (w *World) seedColumn(c *Chunk) {
	for x := 0; x < ChunkSizeX; x++ {
		for y := 0; y < ChunkSizeY; y++ {
			top := c.TopBlockZ(x, y)
			for z := ChunkSizeZ - 1; z > top; z-- {
				c.SetIsSkyAt(x, y, z, true)
			}
			worldX := c.CoordX*ChunkSizeX + int32(x)
			worldY := c.CoordY*ChunkSizeY + int32(y)
			w.ScheduleLight(worldX, worldY, int32(ChunkSizeZ-1))
			if top >= 0 {
				w.ScheduleLight(worldX, worldY, int32(top))
			}
		}
	}
}

// PrepareShutdown stops accepting new activation work so in-flight jobs
// can drain.
func (w *World) PrepareShutdown() { w.shuttingDown = true }

// WaitForPendingTasks blocks until no generate/load/save job is queued or
// executing.
func (w *World) WaitForPendingTasks() {
	for {
		if !w.scheduler.HasExecutingTasks(JobGenerate) &&
			!w.scheduler.HasExecutingTasks(JobLoad) &&
			!w.scheduler.HasExecutingTasks(JobSave) &&
			w.generateQueue.len() == 0 && w.loadQueue.len() == 0 && w.saveQueue.len() == 0 {
			return
		}
		for _, res := range w.scheduler.RetrieveCompleted() {
			if c := w.chunkAt(res.Coord); c != nil {
				switch res.Kind {
				case JobGenerate:
					w.applyGenerated(c, res)
				case JobLoad:
					w.applyLoaded(c, res)
				case JobSave:
					w.applySaved(c, res)
				}
			}
		}
		w.processJobQueues()
	}
}

// SaveWorld forces every resident, save-eligible chunk through the save
// path synchronously (bypassing the per-tick unload rate limit) and
// writes world metadata. The world stays usable afterwards; CloseWorld
// also calls it after draining pending jobs.
func (w *World) SaveWorld(worldDir string, meta worldmeta.Metadata) error {
	for coord, c := range w.chunks {
		if c.State() != StateActive {
			continue
		}
		if !storageShouldSave(w.storage, c) {
			continue
		}
		if w.storage == nil {
			continue
		}
		ids32 := make([]uint32, BlockCount)
		ids8 := c.SnapshotBlockIDs()
		for i, v := range ids8 {
			ids32[i] = uint32(v)
		}
		if err := w.storage.SaveChunk(coord.X, coord.Y, ids32); err != nil {
			return fmt.Errorf("world: save chunk (%d,%d): %w", coord.X, coord.Y, err)
		}
		c.Modified = false
		c.PlayerModified = false
	}
	if w.storage != nil {
		if err := w.storage.Flush(); err != nil {
			return fmt.Errorf("world: flush storage: %w", err)
		}
	}
	return worldmeta.Save(worldDir, meta)
}

// CloseWorld runs PrepareShutdown, drains pending jobs, saves every
// eligible chunk, and releases the storage backend.
func (w *World) CloseWorld(worldDir string, meta worldmeta.Metadata) error {
	w.PrepareShutdown()
	w.WaitForPendingTasks()
	if err := w.SaveWorld(worldDir, meta); err != nil {
		return err
	}
	w.scheduler.Close()
	if w.storage != nil {
		return w.storage.Close()
	}
	return nil
}
