package voice

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// defaultSampleRate is assumed when a model config omits audio.sample_rate.
// Piper models are 22050 Hz unless stated otherwise.
const defaultSampleRate = 22050

// modelConfig is the subset of the Piper .onnx.json config the registry
// cares about.
type modelConfig struct {
	Audio struct {
		SampleRate int `json:"sample_rate"`
	} `json:"audio"`
	NumSpeakers int `json:"num_speakers"`
}

// Registry holds every voice discovered at startup, in stable discovery
// order. Read-only after Load.
type Registry struct {
	voices []*Voice
	byID   map[string]*Voice
}

// Load scans dir for .onnx models with .onnx.json companions and builds
// one Voice per valid pair. A pair with a missing or unparseable config
// is skipped with a warning; an unreadable directory is a fatal error.
func Load(dir string) (*Registry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading voices directory %s: %w", dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasSuffix(name, ".onnx") && !strings.HasSuffix(name, ".onnx.json") {
			names = append(names, name)
		}
	}
	sort.Strings(names) // discovery order is sorted and therefore stable

	reg := &Registry{
		byID: make(map[string]*Voice, len(names)),
	}

	for _, name := range names {
		modelPath := filepath.Join(dir, name)
		configPath := modelPath + ".json"

		cfg, err := readModelConfig(configPath)
		if err != nil {
			slog.Warn("skipping voice", "model", name, "error", err)
			continue
		}

		key := strings.TrimSuffix(name, ".onnx")
		locale, speaker, quality := parseVoiceKey(key)
		lang := lookupLanguage(locale)

		sampleRate := cfg.Audio.SampleRate
		if sampleRate == 0 {
			sampleRate = defaultSampleRate
		}
		numSpeakers := cfg.NumSpeakers
		if numSpeakers < 1 {
			numSpeakers = 1
		}

		v := &Voice{
			ID:           key,
			Locale:       locale,
			Language:     lang.Code,
			LanguageName: lang.Name,
			Speaker:      speaker,
			Quality:      quality,
			SampleRate:   sampleRate,
			NumSpeakers:  numSpeakers,
			ModelPath:    modelPath,
			ConfigPath:   configPath,
		}
		reg.voices = append(reg.voices, v)
		reg.byID[key] = v

		slog.Info("loaded voice", "voice", key, "language", lang.Name, "sample_rate", sampleRate)
	}

	return reg, nil
}

func readModelConfig(path string) (*modelConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("missing config: %w", err)
	}
	var cfg modelConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Lookup returns the voice with the given ID, or nil if not loaded.
func (r *Registry) Lookup(id string) *Voice {
	return r.byID[id]
}

// List returns every loaded voice in discovery order.
func (r *Registry) List() []*Voice {
	return r.voices
}

// Len returns the number of loaded voices.
func (r *Registry) Len() int {
	return len(r.voices)
}

// IsEmpty reports whether the registry loaded zero voices.
func (r *Registry) IsEmpty() bool {
	return len(r.voices) == 0
}

// IDs returns the voice keys in discovery order.
func (r *Registry) IDs() []string {
	ids := make([]string, len(r.voices))
	for i, v := range r.voices {
		ids[i] = v.ID
	}
	return ids
}
