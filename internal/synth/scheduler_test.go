package synth_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaplan/synaplan-tts/internal/synth"
	"github.com/synaplan/synaplan-tts/internal/voice"
)

var errMockEngine = errors.New("mock engine error")

// mockEngine is a scriptable synth.Engine that counts invocations.
type mockEngine struct {
	calls atomic.Int32
	fn    func(ctx context.Context, v *voice.Voice, text string, p synth.Params) ([]byte, error)
}

func (m *mockEngine) Synthesize(ctx context.Context, v *voice.Voice, text string, p synth.Params) ([]byte, error) {
	m.calls.Add(1)
	if m.fn != nil {
		return m.fn(ctx, v, text, p)
	}
	return []byte{0x10, 0x00, 0x20, 0x00}, nil
}

// loadTestRegistry builds a registry with one English voice.
func loadTestRegistry(t *testing.T) *voice.Registry {
	t.Helper()

	dir := t.TempDir()
	model := filepath.Join(dir, "en_US-lessac-medium.onnx")
	require.NoError(t, os.WriteFile(model, []byte("onnx"), 0o644))
	require.NoError(t, os.WriteFile(model+".json", []byte(`{"audio":{"sample_rate":22050}}`), 0o644))

	reg, err := voice.Load(dir)
	require.NoError(t, err)
	require.Equal(t, 1, reg.Len())

	return reg
}

func setupScheduler(t *testing.T, engine synth.Engine, cfg synth.Config) (*synth.Scheduler, *voice.Voice) {
	t.Helper()

	reg := loadTestRegistry(t)

	sched := synth.New(engine, reg, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(func() {
		cancel()
		sched.Wait()
	})
	sched.Start(ctx)

	return sched, reg.List()[0]
}

func TestSubmit_ReturnsEngineOutput(t *testing.T) {
	t.Parallel()

	engine := &mockEngine{}
	sched, v := setupScheduler(t, engine, synth.Config{})

	pcm, err := sched.Submit(context.Background(), synth.Job{Voice: v, Text: "Hello world"})
	require.NoError(t, err)

	assert.Equal(t, []byte{0x10, 0x00, 0x20, 0x00}, pcm)
	assert.Equal(t, int32(1), engine.calls.Load())
}

func TestSubmit_AppliesVolume(t *testing.T) {
	t.Parallel()

	engine := &mockEngine{}
	sched, v := setupScheduler(t, engine, synth.Config{})

	pcm, err := sched.Submit(context.Background(), synth.Job{
		Voice:  v,
		Text:   "Hello",
		Params: synth.Params{Volume: floatPtr(2.0)},
	})
	require.NoError(t, err)

	assert.Equal(t, []byte{0x20, 0x00, 0x40, 0x00}, pcm)
}

func TestSubmit_WrapsEngineFailure(t *testing.T) {
	t.Parallel()

	engine := &mockEngine{
		fn: func(context.Context, *voice.Voice, string, synth.Params) ([]byte, error) {
			return nil, errMockEngine
		},
	}
	sched, v := setupScheduler(t, engine, synth.Config{})

	_, err := sched.Submit(context.Background(), synth.Job{Voice: v, Text: "Hello"})
	require.ErrorIs(t, err, synth.ErrEngineFailure)
	assert.Contains(t, err.Error(), v.ID)
}

func TestSubmit_RejectsInvalidParamsBeforeEngine(t *testing.T) {
	t.Parallel()

	engine := &mockEngine{}
	sched, v := setupScheduler(t, engine, synth.Config{})

	_, err := sched.Submit(context.Background(), synth.Job{
		Voice:  v,
		Text:   "Hello",
		Params: synth.Params{LengthScale: floatPtr(-1)},
	})
	require.ErrorIs(t, err, synth.ErrInvalidParams)

	assert.Equal(t, int32(0), engine.calls.Load(), "invalid parameters must never reach the engine")
}

func TestSubmit_OverloadFailsFast(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	started := make(chan struct{}, 4)
	engine := &mockEngine{
		fn: func(context.Context, *voice.Voice, string, synth.Params) ([]byte, error) {
			started <- struct{}{}
			<-release
			return []byte{0, 0}, nil
		},
	}
	sched, v := setupScheduler(t, engine, synth.Config{
		Workers:    1,
		QueueDepth: 1,
		Timeout:    5 * time.Second,
	})

	job := synth.Job{Voice: v, Text: "Hello"}

	// Occupy the single worker.
	first := make(chan error, 1)
	go func() {
		_, err := sched.Submit(context.Background(), job)
		first <- err
	}()
	<-started

	// Fill the single queue slot.
	second := make(chan error, 1)
	go func() {
		_, err := sched.Submit(context.Background(), job)
		second <- err
	}()
	require.Eventually(t, func() bool { return sched.Queued() == 1 },
		time.Second, 5*time.Millisecond)

	// Worker busy and queue full: the next submission must fail
	// immediately instead of blocking.
	overloadedAt := time.Now()
	_, err := sched.Submit(context.Background(), job)
	require.ErrorIs(t, err, synth.ErrOverloaded)
	assert.Less(t, time.Since(overloadedAt), time.Second)

	close(release)
	require.NoError(t, <-first)
	require.NoError(t, <-second)
}

func TestSubmit_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	engine := &mockEngine{
		fn: func(context.Context, *voice.Voice, string, synth.Params) ([]byte, error) {
			// Simulate a non-cancellable engine call: ignore ctx.
			<-release
			return []byte{0, 0}, nil
		},
	}
	sched, v := setupScheduler(t, engine, synth.Config{Timeout: 30 * time.Millisecond})
	defer close(release)

	_, err := sched.Submit(context.Background(), synth.Job{Voice: v, Text: "Hello"})
	require.ErrorIs(t, err, synth.ErrTimeout)
}

func TestSubmit_SerializesSameVoiceEngineAccess(t *testing.T) {
	t.Parallel()

	var active, maxActive int32
	engine := &mockEngine{
		fn: func(context.Context, *voice.Voice, string, synth.Params) ([]byte, error) {
			cur := atomic.AddInt32(&active, 1)
			for {
				prev := atomic.LoadInt32(&maxActive)
				if cur <= prev || atomic.CompareAndSwapInt32(&maxActive, prev, cur) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			return []byte{0, 0}, nil
		},
	}
	sched, v := setupScheduler(t, engine, synth.Config{
		Workers:    4,
		QueueDepth: 8,
		Timeout:    5 * time.Second,
	})

	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := sched.Submit(context.Background(), synth.Job{Voice: v, Text: "Hello"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&maxActive),
		"the same voice engine must never be used by two workers at once")
}
