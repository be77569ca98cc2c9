// Package voice discovers Piper voice models on disk and resolves
// synthesis requests to exactly one loaded voice.
//
// A voice is a pair of files in the voices directory: a model
// (en_US-lessac-medium.onnx) and its JSON companion config
// (en_US-lessac-medium.onnx.json). The registry is built once at startup
// and never mutated afterwards, so it is safe to share across goroutines
// without locking.
package voice

import "strings"

// langInfo describes a locale's language shortcode and display name.
type langInfo struct {
	Name string
	Code string
}

// languageMap maps Piper locale prefixes to language metadata.
var languageMap = map[string]langInfo{
	"en_US": {Name: "English (US)", Code: "en"},
	"en_GB": {Name: "English (UK)", Code: "en"},
	"de_DE": {Name: "German", Code: "de"},
	"es_ES": {Name: "Spanish", Code: "es"},
	"es_MX": {Name: "Spanish (Mexico)", Code: "es"},
	"tr_TR": {Name: "Turkish", Code: "tr"},
	"ru_RU": {Name: "Russian", Code: "ru"},
	"fa_IR": {Name: "Persian", Code: "fa"},
	"fr_FR": {Name: "French", Code: "fr"},
	"it_IT": {Name: "Italian", Code: "it"},
	"pt_BR": {Name: "Portuguese (Brazil)", Code: "pt"},
	"zh_CN": {Name: "Chinese (Mandarin)", Code: "zh"},
	"ar_JO": {Name: "Arabic", Code: "ar"},
}

// Voice is one loaded synthesis configuration. Immutable after Load.
type Voice struct {
	// ID is the voice key, e.g. "en_US-lessac-medium". Unique per registry.
	ID string

	Locale       string
	Language     string
	LanguageName string
	Speaker      string
	Quality      string

	// SampleRate is the output rate in Hz, read from the model config.
	SampleRate int

	// NumSpeakers is the speaker count for multi-speaker models (>= 1).
	NumSpeakers int

	// ModelPath and ConfigPath form the opaque engine handle: they are
	// what the synthesis engine needs to run this voice.
	ModelPath  string
	ConfigPath string
}

// parseVoiceKey extracts locale, speaker and quality from a voice key
// like "en_US-lessac-medium".
func parseVoiceKey(key string) (locale, speaker, quality string) {
	parts := strings.Split(key, "-")
	locale = key
	if len(parts) > 0 {
		locale = parts[0]
	}
	speaker = "default"
	if len(parts) > 1 {
		speaker = parts[1]
	}
	quality = "unknown"
	if len(parts) > 2 {
		quality = parts[2]
	}
	return locale, speaker, quality
}

// lookupLanguage returns language metadata for a locale, falling back to
// the locale itself for unknown entries.
func lookupLanguage(locale string) langInfo {
	if info, ok := languageMap[locale]; ok {
		return info
	}
	code := strings.ToLower(locale)
	if len(code) > 2 {
		code = code[:2]
	}
	return langInfo{Name: locale, Code: code}
}
