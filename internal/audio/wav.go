// Package audio packages raw PCM samples into playable WAV files.
//
// The synthesis engine produces mono 16-bit little-endian PCM; this
// package wraps it in the canonical 44-byte RIFF/WAVE header. The output
// is the wire contract with every HTTP client, so the header must be
// byte-exact and parseable by any standard WAV reader.
package audio

import (
	"bytes"
	"encoding/binary"
)

const (
	// HeaderSize is the size of the canonical WAV header in bytes.
	HeaderSize = 44

	channels       = 1
	bytesPerSample = 2
	bitsPerSample  = 16
)

// WAV wraps mono 16-bit PCM data in a WAV container at the given sample
// rate. Output length is exactly HeaderSize + len(pcm).
func WAV(pcm []byte, sampleRate int) []byte {
	dataLen := len(pcm)
	fileLen := HeaderSize - 8 + dataLen // RIFF chunk size excludes "RIFF" + length field

	buf := &bytes.Buffer{}
	buf.Grow(HeaderSize + dataLen)

	// RIFF header
	buf.WriteString("RIFF")
	_ = binary.Write(buf, binary.LittleEndian, uint32(fileLen))
	buf.WriteString("WAVE")

	// fmt subchunk
	buf.WriteString("fmt ")
	_ = binary.Write(buf, binary.LittleEndian, uint32(16)) // subchunk1 size
	_ = binary.Write(buf, binary.LittleEndian, uint16(1))  // audio format (PCM)
	_ = binary.Write(buf, binary.LittleEndian, uint16(channels))
	_ = binary.Write(buf, binary.LittleEndian, uint32(sampleRate))
	byteRate := sampleRate * channels * bytesPerSample
	_ = binary.Write(buf, binary.LittleEndian, uint32(byteRate))
	blockAlign := channels * bytesPerSample
	_ = binary.Write(buf, binary.LittleEndian, uint16(blockAlign))
	_ = binary.Write(buf, binary.LittleEndian, uint16(bitsPerSample))

	// data subchunk
	buf.WriteString("data")
	_ = binary.Write(buf, binary.LittleEndian, uint32(dataLen))
	buf.Write(pcm)

	return buf.Bytes()
}

// ScaleVolume multiplies every 16-bit sample by factor, clamping to the
// int16 range. factor 1.0 returns the input unchanged.
func ScaleVolume(pcm []byte, factor float64) []byte {
	if factor == 1.0 {
		return pcm
	}

	out := make([]byte, len(pcm))
	copy(out, pcm)

	for i := 0; i+1 < len(out); i += 2 {
		sample := int16(binary.LittleEndian.Uint16(out[i:]))
		scaled := float64(sample) * factor
		switch {
		case scaled > 32767:
			scaled = 32767
		case scaled < -32768:
			scaled = -32768
		}
		binary.LittleEndian.PutUint16(out[i:], uint16(int16(scaled)))
	}

	return out
}
