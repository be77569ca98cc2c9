package synth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/synaplan/synaplan-tts/internal/audio"
	"github.com/synaplan/synaplan-tts/internal/voice"
)

// Default pool sizing, used when the corresponding Config field is zero.
const (
	defaultWorkers    = 4
	defaultQueueDepth = 32
	defaultTimeout    = 60 * time.Second
)

// Config controls the scheduler's concurrency bounds.
type Config struct {
	// Workers is the fixed pool size W.
	Workers int

	// QueueDepth bounds how many jobs may wait for a worker. A full
	// queue fails submissions immediately instead of queuing unboundedly.
	QueueDepth int

	// Timeout is the maximum duration a caller waits for one job.
	Timeout time.Duration

	// ConcurrentVoiceCalls allows two workers to run the same voice at
	// once. Off by default: the engine is not proven safe for that.
	ConcurrentVoiceCalls bool
}

// Job is one unit of synthesis work: text plus parameters bound to a
// resolved voice.
type Job struct {
	Voice  *voice.Voice
	Text   string
	Params Params
}

type result struct {
	pcm []byte
	err error
}

type queuedJob struct {
	Job

	id string
	// done is buffered so a worker can deliver the result even after
	// the caller has timed out and walked away.
	done chan result
}

// Scheduler is a bounded worker pool in front of the synthesis engine.
// Submit blocks the caller until the job completes, fails, or times out;
// it never blocks other callers.
type Scheduler struct {
	engine Engine
	cfg    Config
	jobs   chan *queuedJob

	// voiceLocks serializes engine access per voice. Built once from
	// the frozen registry, so no lock around the map is needed.
	voiceLocks map[string]*sync.Mutex

	baseCtx context.Context
	wg      sync.WaitGroup
}

// New creates a scheduler over the given engine and registry. Zero
// Config fields fall back to defaults. Call Start before Submit.
func New(engine Engine, reg *voice.Registry, cfg Config) *Scheduler {
	if cfg.Workers <= 0 {
		cfg.Workers = defaultWorkers
	}
	if cfg.QueueDepth <= 0 {
		cfg.QueueDepth = defaultQueueDepth
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	locks := make(map[string]*sync.Mutex, reg.Len())
	for _, v := range reg.List() {
		locks[v.ID] = &sync.Mutex{}
	}

	return &Scheduler{
		engine:     engine,
		cfg:        cfg,
		jobs:       make(chan *queuedJob, cfg.QueueDepth),
		voiceLocks: locks,
	}
}

// Start launches the worker pool. Workers exit when ctx is cancelled,
// after finishing any engine call they own.
func (s *Scheduler) Start(ctx context.Context) {
	s.baseCtx = ctx
	for i := 0; i < s.cfg.Workers; i++ {
		s.wg.Add(1)
		go s.worker(ctx)
	}
}

// Wait blocks until every worker has exited.
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// Queued reports how many jobs are waiting for a worker.
func (s *Scheduler) Queued() int {
	return len(s.jobs)
}

// Submit validates, enqueues and waits for one job.
//
// It fails fast with ErrOverloaded when the queue is full, with
// ErrInvalidParams before the engine is ever involved, and with
// ErrTimeout after the configured maximum duration. On timeout the
// underlying engine call is not cancellable mid-flight: the owning
// worker stays unavailable until the call returns, and the engine
// subprocess is killed best-effort via its context.
func (s *Scheduler) Submit(ctx context.Context, j Job) ([]byte, error) {
	if err := j.Params.Validate(j.Voice); err != nil {
		return nil, err
	}

	qj := &queuedJob{
		Job:  j,
		id:   uuid.NewString(),
		done: make(chan result, 1),
	}

	select {
	case s.jobs <- qj:
	default:
		return nil, fmt.Errorf("%w: %d jobs queued", ErrOverloaded, cap(s.jobs))
	}

	timer := time.NewTimer(s.cfg.Timeout)
	defer timer.Stop()

	select {
	case r := <-qj.done:
		return r.pcm, r.err
	case <-timer.C:
		slog.Warn("synthesis job abandoned",
			"job_id", qj.id, "voice", j.Voice.ID, "timeout", s.cfg.Timeout)
		return nil, fmt.Errorf("%w: voice %s after %s", ErrTimeout, j.Voice.ID, s.cfg.Timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (s *Scheduler) worker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case qj := <-s.jobs:
			pcm, err := s.run(qj)
			qj.done <- result{pcm: pcm, err: err}
		}
	}
}

// run executes one job on the calling worker.
func (s *Scheduler) run(qj *queuedJob) ([]byte, error) {
	if !s.cfg.ConcurrentVoiceCalls {
		if mu := s.voiceLocks[qj.Voice.ID]; mu != nil {
			mu.Lock()
			defer mu.Unlock()
		}
	}

	runCtx, cancel := context.WithTimeout(s.baseCtx, s.cfg.Timeout)
	defer cancel()

	start := time.Now()
	pcm, err := s.engine.Synthesize(runCtx, qj.Voice, qj.Text, qj.Params)
	if err != nil {
		// Log parameters and text length for diagnosis, never the text.
		slog.Error("synthesis failed",
			"job_id", qj.id,
			"voice", qj.Voice.ID,
			"text_length", len(qj.Text),
			"params", qj.Params.String(),
			"error", err)
		return nil, fmt.Errorf("%w: voice %s: %v", ErrEngineFailure, qj.Voice.ID, err)
	}

	if qj.Params.Volume != nil && *qj.Params.Volume != 1.0 {
		pcm = audio.ScaleVolume(pcm, *qj.Params.Volume)
	}

	slog.Debug("synthesis complete",
		"job_id", qj.id, "voice", qj.Voice.ID, "pcm_bytes", len(pcm), "duration", time.Since(start))
	return pcm, nil
}
