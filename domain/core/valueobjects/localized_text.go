package valueobjects

import (
	"encoding/json"
	"strings"
)

// LocalizedText maps a language code ("fr", "en", "es", ...) to a translation.
// It is persisted as a JSON-encoded string column.
type LocalizedText map[string]string

// EncodeLocalizedText serializes the map for storage. Empty maps are stored as
// an empty string so the column stays absent-looking.
func EncodeLocalizedText(t LocalizedText) string {
	if len(t) == 0 {
		return ""
	}
	data, err := json.Marshal(map[string]string(t))
	if err != nil {
		return ""
	}
	return string(data)
}

// DecodeLocalizedText parses a stored column. Empty or malformed input yields
// nil; it never fails.
func DecodeLocalizedText(raw string) LocalizedText {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	var out map[string]string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	if len(out) == 0 {
		return nil
	}
	return LocalizedText(out)
}

// Resolve returns the translation for lang, or fallback when none is set.
func (t LocalizedText) Resolve(lang, fallback string) string {
	if v, ok := t[strings.ToLower(lang)]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// Clone returns an independent copy.
func (t LocalizedText) Clone() LocalizedText {
	if t == nil {
		return nil
	}
	out := make(LocalizedText, len(t))
	for k, v := range t {
		out[k] = v
	}
	return out
}
