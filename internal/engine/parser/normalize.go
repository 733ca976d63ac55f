package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/irahardianto/memsafe/internal/engine/severity"
)

// normalize converts a recovered JSON object into an AnalysisResult.
// Fields of the wrong shape fall back to defaults and leave a warning.
func normalize(doc map[string]any) *AnalysisResult {
	result := &AnalysisResult{
		Summary: DefaultSummary,
	}

	if s, ok := doc["summary"].(string); ok {
		result.Summary = s
	}

	var severities []string
	for i, item := range listField(doc, "vulnerabilities", result) {
		obj, ok := item.(map[string]any)
		if !ok {
			result.Warnings = append(result.Warnings, fmt.Sprintf("vulnerabilities[%d]: expected an object, got %s", i, kindOf(item)))
			continue
		}
		result.Vulnerabilities = append(result.Vulnerabilities, normalizeVulnerability(obj))

		// Missing or non-string severity scores as medium.
		sev, _ := obj["severity"].(string)
		severities = append(severities, sev)
	}

	for _, item := range listField(doc, "suggested_rust", result) {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		fix := Fix{
			RustSnippet: stringField(obj, "rust_snippet", ""),
			Rationale:   stringField(obj, "why_safe", ""),
		}
		if fix.RustSnippet == "" && fix.Rationale == "" {
			continue
		}
		result.SuggestedFixes = append(result.SuggestedFixes, fix)
	}

	if result.Vulnerabilities == nil {
		result.Vulnerabilities = []Vulnerability{}
	}
	if result.SuggestedFixes == nil {
		result.SuggestedFixes = []Fix{}
	}

	if score, ok := numberField(doc["safety_score"]); ok {
		result.SafetyScore = clampScore(score)
	} else {
		result.SafetyScore = severity.SafetyScore(severities)
		result.ScoreDerived = true
	}

	return result
}

// listField returns doc[key] as a slice. Absent keys yield nil silently;
// present values of another shape yield nil and a warning.
func listField(doc map[string]any, key string, result *AnalysisResult) []any {
	v, present := doc[key]
	if !present || v == nil {
		return nil
	}
	list, ok := v.([]any)
	if !ok {
		result.Warnings = append(result.Warnings, fmt.Sprintf("%s: expected a list, got %s", key, kindOf(v)))
		return nil
	}
	return list
}

func normalizeVulnerability(obj map[string]any) Vulnerability {
	return Vulnerability{
		Type:        stringField(obj, "type", DefaultVulnType),
		Severity:    stringField(obj, "severity", DefaultSeverity),
		CWE:         cweField(obj["cwe"]),
		Explanation: stringField(obj, "explanation", DefaultExplanation),
		StartLine:   lineField(obj["insecure_snippet_start_line"]),
		EndLine:     lineField(obj["insecure_snippet_end_line"]),
		Pattern:     stringField(obj, "pattern", ""),
	}
}

func stringField(obj map[string]any, key, def string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return def
}

// cweField accepts 121, "121" and "CWE-121" and returns "121".
func cweField(v any) string {
	if n, ok := numberField(v); ok {
		if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n) > math.MaxInt32 {
			return DefaultCWE
		}
		return strconv.FormatInt(int64(n), 10)
	}
	switch c := v.(type) {
	case string:
		c = strings.TrimSpace(c)
		if len(c) >= 4 && strings.EqualFold(c[:4], "CWE-") {
			c = strings.TrimSpace(c[4:])
		}
		if c == "" {
			return DefaultCWE
		}
		return c
	default:
		return DefaultCWE
	}
}

// lineField accepts JSON numbers and numeric strings. Non-positive values are
// preserved so the locator can reject them and diagnostics can show them.
func lineField(v any) *int {
	if n, ok := numberField(v); ok {
		if math.IsNaN(n) || math.IsInf(n, 0) || math.Abs(n) > math.MaxInt32 {
			return nil
		}
		line := int(n)
		return &line
	}
	switch n := v.(type) {
	case string:
		line, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return nil
		}
		return &line
	default:
		return nil
	}
}

// numberField returns the value of a JSON number. Magnitudes beyond float64
// come back as ±Inf.
func numberField(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := strconv.ParseFloat(n.String(), 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return 0, false
		}
		return f, true
	case float64:
		return n, true
	default:
		return 0, false
	}
}

// clampScore truncates score toward zero and clamps it into [0,100].
func clampScore(score float64) int {
	switch {
	case math.IsNaN(score):
		return 0
	case score >= 100:
		return 100
	case score <= 0:
		return 0
	default:
		return int(score)
	}
}

func kindOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "list"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
