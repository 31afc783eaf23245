package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ParseExtraction decodes a model reply into untyped fields. Models are told
// to return a bare JSON object but sometimes wrap it in a markdown fence
// anyway, so a leading ```json / ``` marker and a trailing ``` marker are
// stripped first. This is a pure prefix/suffix strip, not a markdown parse.
// Anything that still fails to decode is malformed; no repair is attempted.
func ParseExtraction(text string) (map[string]any, error) {
	s := strings.TrimSpace(text)

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	var fields map[string]any
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedExtraction, err)
	}
	return fields, nil
}
