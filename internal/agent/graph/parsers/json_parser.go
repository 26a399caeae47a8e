package parsers

import (
	"encoding/json"
	"strings"
)

// ExtractJSON recovers a JSON object embedded in free-form model output.
// It takes the text between the first '{' and the last '}' and decodes it.
// ok is false when there are no braces or the slice is not a JSON object.
func ExtractJSON(content string) (obj map[string]any, ok bool) {
	start := strings.Index(content, "{")
	end := strings.LastIndex(content, "}")
	if start == -1 || end == -1 || end < start {
		return nil, false
	}
	if err := json.Unmarshal([]byte(content[start:end+1]), &obj); err != nil {
		return nil, false
	}
	if obj == nil {
		return nil, false
	}
	return obj, true
}

// StringField returns obj[key] when it holds a non-empty string.
func StringField(obj map[string]any, key string) (string, bool) {
	v, ok := obj[key].(string)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}
