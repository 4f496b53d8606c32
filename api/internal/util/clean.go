package util

import "strings"

// StripCodeFences removes a markdown code-block wrapper (```json ... ```)
// that Gemini routinely puts around JSON payloads.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// CleanModelJSON prepares raw model output for json.Unmarshal: fence strip,
// then the two trailing-comma malformations seen in practice. This is a
// best-effort cleanup, not a general JSON repair.
func CleanModelJSON(s string) string {
	s = StripCodeFences(s)
	s = strings.ReplaceAll(s, ",]", "]")
	s = strings.ReplaceAll(s, ",}", "}")
	return strings.TrimSpace(s)
}
