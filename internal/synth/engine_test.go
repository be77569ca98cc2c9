// Package synth_test tests parameter validation and job scheduling.
package synth_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/synaplan/synaplan-tts/internal/synth"
	"github.com/synaplan/synaplan-tts/internal/voice"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }

func TestParamsValidate(t *testing.T) {
	t.Parallel()

	v := &voice.Voice{ID: "en_US-lessac-medium", SampleRate: 22050, NumSpeakers: 2}

	cases := []struct {
		name    string
		params  synth.Params
		wantErr bool
	}{
		{name: "all defaults", params: synth.Params{}},
		{
			name: "all set and valid",
			params: synth.Params{
				SpeakerID:       intPtr(1),
				LengthScale:     floatPtr(1.2),
				NoiseScale:      floatPtr(0.667),
				NoiseWScale:     floatPtr(0.8),
				SentenceSilence: floatPtr(0.2),
				Volume:          floatPtr(2.0),
			},
		},
		{name: "zero scales allowed", params: synth.Params{LengthScale: floatPtr(0), Volume: floatPtr(0)}},
		{name: "negative length scale", params: synth.Params{LengthScale: floatPtr(-0.1)}, wantErr: true},
		{name: "negative sentence silence", params: synth.Params{SentenceSilence: floatPtr(-1)}, wantErr: true},
		{name: "NaN noise scale", params: synth.Params{NoiseScale: floatPtr(math.NaN())}, wantErr: true},
		{name: "infinite noise w scale", params: synth.Params{NoiseWScale: floatPtr(math.Inf(1))}, wantErr: true},
		{name: "volume above maximum", params: synth.Params{Volume: floatPtr(5.1)}, wantErr: true},
		{name: "negative volume", params: synth.Params{Volume: floatPtr(-0.5)}, wantErr: true},
		{name: "NaN volume", params: synth.Params{Volume: floatPtr(math.NaN())}, wantErr: true},
		{name: "speaker in range", params: synth.Params{SpeakerID: intPtr(0)}},
		{name: "speaker at count", params: synth.Params{SpeakerID: intPtr(2)}, wantErr: true},
		{name: "negative speaker", params: synth.Params{SpeakerID: intPtr(-1)}, wantErr: true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.params.Validate(v)
			if tc.wantErr {
				require.ErrorIs(t, err, synth.ErrInvalidParams)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestParamsString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "defaults", synth.Params{}.String())

	p := synth.Params{SpeakerID: intPtr(3), LengthScale: floatPtr(1.5)}
	s := p.String()
	assert.Contains(t, s, "speaker_id=3")
	assert.Contains(t, s, "length_scale=1.5")
	assert.NotContains(t, s, "volume")
}
