// File: internal/oracle/parser.go
package oracle

import (
	"regexp"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// fencedBlockRegex strips an optional Markdown code fence around the
// payload. Models wrap JSON in fences despite instructions not to.
var fencedBlockRegex = regexp.MustCompile("(?s)```(?:json)?\\s*(.*?)\\s*```")

// ParseInstructions extracts a bounded, validated instruction list from
// free-form oracle output. The extraction is a small ordered set of
// attempts (fenced block, bare array, single object); the first one that
// yields candidates wins. Invalid candidates are dropped with a log, not
// repaired, and never fail the whole batch.
func ParseInstructions(raw string, logger *zap.Logger) []Instruction {
	text := strings.TrimSpace(raw)
	if text == "" {
		return nil
	}

	if m := fencedBlockRegex.FindStringSubmatch(text); len(m) > 1 {
		text = strings.TrimSpace(m[1])
	}

	candidates, ok := decodeArray(text)
	if !ok {
		candidates, ok = decodeObject(text)
	}
	if !ok {
		logger.Warn("Oracle response contained no parsable instruction payload",
			zap.Int("response_length", len(raw)))
		return nil
	}

	valid := make([]Instruction, 0, len(candidates))
	for _, c := range candidates {
		c.Action = Action(strings.ToLower(strings.TrimSpace(string(c.Action))))
		c.Selector = strings.TrimSpace(c.Selector)
		if !c.Valid() {
			logger.Warn("Discarding malformed oracle instruction",
				zap.String("action", string(c.Action)),
				zap.Int("selector_length", len(c.Selector)))
			continue
		}
		valid = append(valid, c)
		if len(valid) >= maxInstructions {
			break
		}
	}
	return valid
}

// decodeArray tries the slice of text between the first '[' and the last
// ']' as a JSON instruction array.
func decodeArray(text string) ([]Instruction, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return nil, false
	}
	var out []Instruction
	if err := json.Unmarshal([]byte(text[start:end+1]), &out); err != nil {
		return nil, false
	}
	return out, true
}

// decodeObject tries the slice between the first '{' and the last '}' as
// a single JSON instruction.
func decodeObject(text string) ([]Instruction, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}
	var one Instruction
	if err := json.Unmarshal([]byte(text[start:end+1]), &one); err != nil {
		return nil, false
	}
	return []Instruction{one}, true
}
