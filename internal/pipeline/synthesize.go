package pipeline

import (
	"encoding/json"
	"strings"
)

// Synthesis is the parsed model response for one question. Exactly one of
// Query and Message is non-empty when OK is true.
type Synthesis struct {
	OK      bool
	Query   string
	Message string
}

type synthesisPayload struct {
	SQL     string `json:"sql"`
	Message string `json:"message"`
}

// parseSynthesis strips markdown code fences and decodes the {"sql",
// "message"} payload. Models wrap JSON in fences often enough that stripping
// them first is cheaper than re-prompting.
func parseSynthesis(raw string) Synthesis {
	cleaned := stripFences(raw)
	var payload synthesisPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return Synthesis{}
	}
	return Synthesis{
		OK:      true,
		Query:   strings.TrimSpace(payload.SQL),
		Message: strings.TrimSpace(payload.Message),
	}
}

func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}
