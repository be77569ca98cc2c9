package synth

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/synaplan/synaplan-tts/internal/voice"
)

// PiperEngine runs the piper binary as a subprocess per synthesis call.
// Text goes in on stdin; raw PCM (s16le, mono, the model's sample rate)
// comes back on stdout via --output-raw.
//
// Each invocation loads the model from disk, which keeps the engine
// process-isolated: a crashed or killed synthesis call cannot corrupt
// the daemon. The cost is model load time per call; the worker pool
// bounds how many of these run at once.
type PiperEngine struct {
	binary string
}

// NewPiperEngine creates an engine that invokes the given piper binary.
// An empty binary defaults to "piper" on PATH.
func NewPiperEngine(binary string) *PiperEngine {
	if binary == "" {
		binary = "piper"
	}
	return &PiperEngine{binary: binary}
}

// Synthesize runs piper for one voice and returns the raw PCM output.
func (e *PiperEngine) Synthesize(ctx context.Context, v *voice.Voice, text string, p Params) ([]byte, error) {
	args := buildArgs(v, p)

	cmd := exec.CommandContext(ctx, e.binary, args...)
	cmd.Stdin = strings.NewReader(text + "\n")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("piper interrupted: %w", ctx.Err())
		}
		return nil, fmt.Errorf("piper: %w: %s", err, firstLine(stderr.String()))
	}

	pcm := stdout.Bytes()
	if len(pcm) == 0 {
		return nil, fmt.Errorf("piper produced no audio for voice %s", v.ID)
	}
	return pcm, nil
}

// buildArgs assembles the piper command line for one job. Unset
// parameters are omitted so the engine applies its own defaults.
func buildArgs(v *voice.Voice, p Params) []string {
	args := []string{
		"--model", v.ModelPath,
		"--config", v.ConfigPath,
		"--output-raw",
	}
	if p.SpeakerID != nil {
		args = append(args, "--speaker", strconv.Itoa(*p.SpeakerID))
	}
	if p.LengthScale != nil {
		args = append(args, "--length-scale", formatFloat(*p.LengthScale))
	}
	if p.NoiseScale != nil {
		args = append(args, "--noise-scale", formatFloat(*p.NoiseScale))
	}
	if p.NoiseWScale != nil {
		args = append(args, "--noise-w", formatFloat(*p.NoiseWScale))
	}
	if p.SentenceSilence != nil {
		args = append(args, "--sentence-silence", formatFloat(*p.SentenceSilence))
	}
	return args
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// firstLine trims piper's stderr down to the part worth logging.
func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	return s
}
