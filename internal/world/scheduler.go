package world

import "sync"

// JobKind identifies which of the three background operations a Job
// performs.
type JobKind int

const (
	JobGenerate JobKind = iota
	JobLoad
	JobSave
)

func (k JobKind) String() string {
	switch k {
	case JobGenerate:
		return "generate"
	case JobLoad:
		return "load"
	case JobSave:
		return "save"
	default:
		return "unknown"
	}
}

// Job describes one unit of background chunk work. Exactly the fields
// relevant to Kind are populated; the scheduler never inspects fields
// outside of Kind's contract.
type Job struct {
	Kind  JobKind
	Coord ChunkCoord

	// Save only: a deep copy of the block buffer taken at submission time,
	// so the live chunk can keep mutating while the save runs.
	SaveSnapshot []uint8
}

// JobResult is what a completed Job hands back to the orchestrator.
type JobResult struct {
	Kind  JobKind
	Coord ChunkCoord

	// Generate/Load only.
	BlockIDs []uint8
	Existed  bool // Load only: whether a saved chunk was actually found

	Err error
}

// Scheduler is the capability that runs Generate/Load/Save jobs off the
// main update loop and hands results back through RetrieveCompleted. The
// built-in workerPool is the default implementation; a caller embedding
// this engine in a larger server could substitute one backed by a shared
// worker fleet instead.
type Scheduler interface {
	Submit(job Job)
	RetrieveCompleted() []JobResult
	HasExecutingTasks(kind JobKind) bool
	Close()
}

// workerPool is a small fixed-size goroutine pool executing Jobs against a
// TerrainGenerator and ChunkStorage, matching the shape described for the
// job scheduler bridge: submit enqueues, retrieve_completed drains
// finished work without blocking the caller.
type workerPool struct {
	jobs    chan Job
	results chan JobResult

	gen     TerrainGenerator
	storage ChunkStorage
	seed    int64

	mu        sync.Mutex
	completed []JobResult
	executing map[JobKind]int

	wg     sync.WaitGroup
	closed chan struct{}
}

// NewWorkerPool starts n worker goroutines draining a shared job channel.
func NewWorkerPool(n int, gen TerrainGenerator, storage ChunkStorage, seed int64) *workerPool {
	if n < 1 {
		n = 1
	}
	p := &workerPool{
		jobs:      make(chan Job, 256),
		results:   make(chan JobResult, 256),
		gen:       gen,
		storage:   storage,
		seed:      seed,
		executing: make(map[JobKind]int),
		closed:    make(chan struct{}),
	}
	for i := 0; i < n; i++ {
		p.wg.Add(1)
		go p.run()
	}
	go p.drain()
	return p
}

func (p *workerPool) run() {
	defer p.wg.Done()
	for job := range p.jobs {
		p.results <- p.execute(job)
	}
}

func (p *workerPool) execute(job Job) JobResult {
	switch job.Kind {
	case JobGenerate:
		c := NewChunk(job.Coord.X, job.Coord.Y)
		if p.gen != nil {
			p.gen.Generate(p.seed, job.Coord.X, job.Coord.Y, c)
		}
		return JobResult{Kind: JobGenerate, Coord: job.Coord, BlockIDs: c.SnapshotBlockIDs()}
	case JobLoad:
		if p.storage == nil || !p.storage.ChunkExists(job.Coord.X, job.Coord.Y) {
			return JobResult{Kind: JobLoad, Coord: job.Coord, Existed: false}
		}
		ids32, err := p.storage.LoadChunk(job.Coord.X, job.Coord.Y)
		if err != nil {
			return JobResult{Kind: JobLoad, Coord: job.Coord, Err: err}
		}
		ids8 := make([]uint8, len(ids32))
		for i, v := range ids32 {
			ids8[i] = uint8(v)
		}
		return JobResult{Kind: JobLoad, Coord: job.Coord, BlockIDs: ids8, Existed: true}
	case JobSave:
		if p.storage == nil {
			return JobResult{Kind: JobSave, Coord: job.Coord}
		}
		ids32 := make([]uint32, len(job.SaveSnapshot))
		for i, v := range job.SaveSnapshot {
			ids32[i] = uint32(v)
		}
		err := p.storage.SaveChunk(job.Coord.X, job.Coord.Y, ids32)
		return JobResult{Kind: JobSave, Coord: job.Coord, Err: err}
	default:
		return JobResult{Kind: job.Kind, Coord: job.Coord}
	}
}

func (p *workerPool) drain() {
	for r := range p.results {
		p.mu.Lock()
		p.completed = append(p.completed, r)
		p.executing[r.Kind]--
		p.mu.Unlock()
	}
}

// Submit enqueues job for background execution. Save jobs must already
// carry a SaveSnapshot taken before submission.
func (p *workerPool) Submit(job Job) {
	p.mu.Lock()
	p.executing[job.Kind]++
	p.mu.Unlock()
	p.jobs <- job
}

// RetrieveCompleted drains and returns every job that has finished since
// the last call.
func (p *workerPool) RetrieveCompleted() []JobResult {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.completed) == 0 {
		return nil
	}
	out := p.completed
	p.completed = nil
	return out
}

// HasExecutingTasks reports whether any job of the given kind is currently
// queued or in flight.
func (p *workerPool) HasExecutingTasks(kind JobKind) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.executing[kind] > 0
}

// Close stops accepting new jobs and waits for in-flight ones to finish.
func (p *workerPool) Close() {
	close(p.jobs)
	p.wg.Wait()
	close(p.results)
}
