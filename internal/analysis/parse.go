package analysis

import (
	"encoding/json"
	"strings"

	"juniordebug/pkg/models"
)

// parseErrorMarker prefixes the raw reply in the fallback result so the
// failure is visible in the returned code field.
const parseErrorMarker = "// Error parsing AI response\n"

// ParseReply converts a provider's raw textual reply into an AnalysisResult.
//
// Providers return the requested JSON wrapped in prose or code fences often
// enough that a strict parse is useless. The strategies below are tried in
// order, stopping at the first success:
//
//  1. parse the whole text as the result object;
//  2. scan for balanced {...} substrings, left to right, and parse each
//     candidate — this survives prose around the object, trailing braces,
//     and braces inside string values as long as the candidate balances;
//  3. parse the greedy span from the first '{' to the last '}';
//  4. wrap the raw text in a fallback result.
//
// ParseReply never fails: every input yields a valid result.
func ParseReply(raw string) *models.AnalysisResult {
	if result, ok := tryParseSegment(raw); ok {
		return result
	}

	for i := 0; i < len(raw); i++ {
		if raw[i] != '{' {
			continue
		}
		depth := 0
		for j := i; j < len(raw); j++ {
			switch raw[j] {
			case '{':
				depth++
			case '}':
				depth--
			}
			if depth == 0 {
				if result, ok := tryParseSegment(raw[i : j+1]); ok {
					return result
				}
				break
			}
		}
	}

	start := strings.IndexByte(raw, '{')
	end := strings.LastIndexByte(raw, '}')
	if start != -1 && end > start {
		if result, ok := tryParseSegment(raw[start : end+1]); ok {
			return result
		}
	}

	return &models.AnalysisResult{
		Code: parseErrorMarker + raw,
		Explanations: []models.Explanation{
			{
				Title:       "AI Response Error",
				Description: "Could not parse the AI response as JSON. Please check model output or prompt formatting.",
			},
		},
	}
}

// tryParseSegment attempts to parse s as the result shape. Both the code
// and explanations keys must be present with the right types; a bare JSON
// object with other keys is not a result.
func tryParseSegment(s string) (*models.AnalysisResult, bool) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &fields); err != nil {
		return nil, false
	}

	codeRaw, ok := fields["code"]
	if !ok {
		return nil, false
	}
	explRaw, ok := fields["explanations"]
	if !ok {
		return nil, false
	}

	var result models.AnalysisResult
	if err := json.Unmarshal(codeRaw, &result.Code); err != nil {
		return nil, false
	}
	if err := json.Unmarshal(explRaw, &result.Explanations); err != nil {
		return nil, false
	}
	return &result, true
}
