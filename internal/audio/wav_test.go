// Package audio_test verifies the WAV wire contract byte by byte.
package audio_test

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaplan/synaplan-tts/internal/audio"
)

func TestWAV_HeaderIsByteExact(t *testing.T) {
	t.Parallel()

	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	wav := audio.WAV(pcm, 22050)

	require.Len(t, wav, audio.HeaderSize+len(pcm))

	le := binary.LittleEndian
	assert.Equal(t, "RIFF", string(wav[0:4]))
	assert.Equal(t, uint32(36+len(pcm)), le.Uint32(wav[4:8]), "RIFF chunk size")
	assert.Equal(t, "WAVE", string(wav[8:12]))
	assert.Equal(t, "fmt ", string(wav[12:16]))
	assert.Equal(t, uint32(16), le.Uint32(wav[16:20]), "fmt chunk size")
	assert.Equal(t, uint16(1), le.Uint16(wav[20:22]), "PCM format tag")
	assert.Equal(t, uint16(1), le.Uint16(wav[22:24]), "channel count")
	assert.Equal(t, uint32(22050), le.Uint32(wav[24:28]), "sample rate")
	assert.Equal(t, uint32(44100), le.Uint32(wav[28:32]), "byte rate")
	assert.Equal(t, uint16(2), le.Uint16(wav[32:34]), "block align")
	assert.Equal(t, uint16(16), le.Uint16(wav[34:36]), "bits per sample")
	assert.Equal(t, "data", string(wav[36:40]))
	assert.Equal(t, uint32(len(pcm)), le.Uint32(wav[40:44]), "payload length")
	assert.Equal(t, pcm, wav[44:], "payload copied verbatim")
}

func TestWAV_OutputLength(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 2, 200, 44100} {
		pcm := make([]byte, n)
		wav := audio.WAV(pcm, 16000)
		assert.Len(t, wav, audio.HeaderSize+n, "pcm size %d", n)
	}
}

func TestWAV_SampleRateField(t *testing.T) {
	t.Parallel()

	for _, rate := range []int{16000, 22050, 44100} {
		wav := audio.WAV([]byte{0, 0}, rate)
		assert.Equal(t, uint32(rate), binary.LittleEndian.Uint32(wav[24:28]))
	}
}

func pcmSamples(samples ...int16) []byte {
	out := make([]byte, 2*len(samples))
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[2*i:], uint16(s))
	}
	return out
}

func TestScaleVolume(t *testing.T) {
	t.Parallel()

	in := pcmSamples(1000, -1000, 0)

	assert.Equal(t, in, audio.ScaleVolume(in, 1.0), "factor 1.0 is a no-op")
	assert.Equal(t, pcmSamples(2000, -2000, 0), audio.ScaleVolume(in, 2.0))
	assert.Equal(t, pcmSamples(500, -500, 0), audio.ScaleVolume(in, 0.5))
	assert.Equal(t, pcmSamples(0, 0, 0), audio.ScaleVolume(in, 0))
}

func TestScaleVolume_ClampsToInt16(t *testing.T) {
	t.Parallel()

	in := pcmSamples(30000, -30000)
	out := audio.ScaleVolume(in, 2.0)

	assert.Equal(t, pcmSamples(32767, -32768), out)
}

func TestScaleVolume_DoesNotMutateInput(t *testing.T) {
	t.Parallel()

	in := pcmSamples(1000)
	_ = audio.ScaleVolume(in, 3.0)

	assert.Equal(t, pcmSamples(1000), in)
}
