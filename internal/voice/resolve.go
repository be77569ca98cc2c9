package voice

import (
	"errors"
	"fmt"
	"strings"
)

// ErrVoiceNotFound is returned when a request cannot be resolved to a
// loaded voice.
var ErrVoiceNotFound = errors.New("voice not found")

// Resolve picks exactly one voice for a request. Precedence, first match
// wins:
//
//  1. Explicit voice ID: exact match or failure. An unknown ID never
//     falls back to language or default.
//  2. Language: first voice (discovery order) whose shortcode or locale
//     matches, or failure.
//  3. The configured default voice, if loaded.
//  4. The first voice in discovery order.
//
// An empty registry always fails.
func Resolve(reg *Registry, voiceID, language, defaultID string) (*Voice, error) {
	if reg.IsEmpty() {
		return nil, fmt.Errorf("%w: no voices loaded", ErrVoiceNotFound)
	}

	if voiceID != "" {
		if v := reg.Lookup(voiceID); v != nil {
			return v, nil
		}
		return nil, fmt.Errorf("%w: voice %q (available: %s)",
			ErrVoiceNotFound, voiceID, strings.Join(reg.IDs(), ", "))
	}

	if language != "" {
		lang := strings.ToLower(strings.TrimSpace(language))
		for _, v := range reg.List() {
			if v.Language == lang || strings.ToLower(v.Locale) == lang {
				return v, nil
			}
		}
		return nil, fmt.Errorf("%w: no voice for language %q", ErrVoiceNotFound, language)
	}

	if defaultID != "" {
		if v := reg.Lookup(defaultID); v != nil {
			return v, nil
		}
	}

	return reg.List()[0], nil
}
