package agents

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoJSON reports that the model reply contained no JSON object.
var ErrNoJSON = errors.New("no JSON object in reply")

// sliceJSON extracts the first '{' through the last '}' of a model reply and
// parses that slice. Model replies often wrap the object in prose.
func sliceJSON(raw string) (map[string]any, error) {
	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start < 0 || end < start {
		return nil, ErrNoJSON
	}
	var parsed map[string]any
	if err := json.Unmarshal([]byte(raw[start:end+1]), &parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}
