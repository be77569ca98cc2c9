// Package synth runs text-to-speech jobs against a voice synthesis
// engine through a bounded worker pool.
//
// The engine itself is opaque: given text, a voice and numeric
// parameters it produces raw mono 16-bit PCM at the voice's sample rate.
// The scheduler bounds how many synthesis calls run at once so the
// CPU-bound engine never over-subscribes the host.
package synth

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/synaplan/synaplan-tts/internal/voice"
)

var (
	// ErrInvalidParams indicates a synthesis parameter outside its
	// accepted range. Checked before the engine is ever invoked.
	ErrInvalidParams = errors.New("invalid synthesis parameters")

	// ErrOverloaded indicates the job queue is full. The caller may
	// retry with backoff.
	ErrOverloaded = errors.New("synthesis queue full")

	// ErrTimeout indicates a job exceeded the configured maximum
	// duration. The worker that owns the engine call stays busy until
	// the call returns.
	ErrTimeout = errors.New("synthesis timed out")

	// ErrEngineFailure indicates the engine itself failed for an
	// otherwise valid job.
	ErrEngineFailure = errors.New("synthesis engine failure")
)

// Params are the optional numeric synthesis parameters. Nil pointer
// fields use engine defaults.
type Params struct {
	// SpeakerID selects a speaker in multi-speaker models.
	SpeakerID *int

	// LengthScale controls speed: <1.0 is faster, >1.0 is slower.
	LengthScale *float64

	// NoiseScale controls phoneme noise.
	NoiseScale *float64

	// NoiseWScale controls phoneme width noise.
	NoiseWScale *float64

	// SentenceSilence is the pause between sentences in seconds.
	SentenceSilence *float64

	// Volume is an output multiplier in [0, 5]. Nil means 1.0.
	Volume *float64
}

// maxVolume matches the upper bound accepted by the HTTP API.
const maxVolume = 5.0

// String renders the set parameters for logging. Unset fields are
// omitted rather than printed as pointer addresses.
func (p Params) String() string {
	parts := make([]string, 0, 6)
	if p.SpeakerID != nil {
		parts = append(parts, fmt.Sprintf("speaker_id=%d", *p.SpeakerID))
	}
	for _, f := range []struct {
		name  string
		value *float64
	}{
		{"length_scale", p.LengthScale},
		{"noise_scale", p.NoiseScale},
		{"noise_w_scale", p.NoiseWScale},
		{"sentence_silence", p.SentenceSilence},
		{"volume", p.Volume},
	} {
		if f.value != nil {
			parts = append(parts, fmt.Sprintf("%s=%v", f.name, *f.value))
		}
	}
	if len(parts) == 0 {
		return "defaults"
	}
	return strings.Join(parts, " ")
}

// Validate checks every set parameter against its accepted range for
// the given voice. Invalid values never reach the engine.
func (p Params) Validate(v *voice.Voice) error {
	checks := []struct {
		name  string
		value *float64
	}{
		{"length_scale", p.LengthScale},
		{"noise_scale", p.NoiseScale},
		{"noise_w_scale", p.NoiseWScale},
		{"sentence_silence", p.SentenceSilence},
	}
	for _, c := range checks {
		if c.value == nil {
			continue
		}
		if math.IsNaN(*c.value) || math.IsInf(*c.value, 0) {
			return fmt.Errorf("%w: %s must be finite, got %v", ErrInvalidParams, c.name, *c.value)
		}
		if *c.value < 0 {
			return fmt.Errorf("%w: %s must be >= 0, got %v", ErrInvalidParams, c.name, *c.value)
		}
	}

	if p.Volume != nil {
		if math.IsNaN(*p.Volume) || math.IsInf(*p.Volume, 0) || *p.Volume < 0 || *p.Volume > maxVolume {
			return fmt.Errorf("%w: volume must be in [0, %v], got %v", ErrInvalidParams, maxVolume, *p.Volume)
		}
	}

	if p.SpeakerID != nil {
		if *p.SpeakerID < 0 || *p.SpeakerID >= v.NumSpeakers {
			return fmt.Errorf("%w: speaker_id %d out of range for voice %s (%d speakers)",
				ErrInvalidParams, *p.SpeakerID, v.ID, v.NumSpeakers)
		}
	}

	return nil
}

// Engine converts text to raw mono 16-bit little-endian PCM at the
// voice's sample rate. Implementations need not be safe for concurrent
// calls on the same voice; the scheduler serializes those by default.
type Engine interface {
	Synthesize(ctx context.Context, v *voice.Voice, text string, p Params) ([]byte, error)
}
