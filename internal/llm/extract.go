package llm

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/GoPolymarket/yieldgate/internal/pkg/apperrors"
)

var (
	jsonFence    = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	genericFence = regexp.MustCompile("(?s)```[A-Za-z]*\\s*(.*?)\\s*```")
)

// extractStrategy proposes a candidate JSON substring from model output.
type extractStrategy struct {
	name string
	find func(text string) (string, bool)
}

var extractStrategies = []extractStrategy{
	{name: "json_fence", find: fenced(jsonFence)},
	{name: "generic_fence", find: fenced(genericFence)},
	{name: "bracket_span", find: bracketSpan},
}

func fenced(re *regexp.Regexp) func(string) (string, bool) {
	return func(text string) (string, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return "", false
		}
		return m[1], true
	}
}

func bracketSpan(text string) (string, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start < 0 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}

// ExtractArray pulls a JSON array out of free-form model output. Strategies
// run in order and the first candidate that parses as an array wins; a
// candidate that fails to parse falls through to the next strategy.
func ExtractArray(text string) ([]any, error) {
	text = strings.TrimSpace(text)
	for _, s := range extractStrategies {
		candidate, ok := s.find(text)
		if !ok {
			continue
		}
		var out []any
		if err := json.Unmarshal([]byte(candidate), &out); err == nil && out != nil {
			return out, nil
		}
	}
	return nil, apperrors.NewProviderOutput("no JSON array found in provider output")
}
