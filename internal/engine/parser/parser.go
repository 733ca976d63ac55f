// Package parser recovers a structured vulnerability analysis from raw
// language-model output.
//
// Model output is untrusted: it may be wrapped in prose, fenced as markdown,
// truncated, or carry fields of the wrong shape. Interpret never panics on
// such input. It either returns a normalized AnalysisResult or a
// *RecoveryError that carries the raw text for display.
package parser

import (
	"errors"
	"strings"
)

// Placeholder values used when the model omits a field.
const (
	DefaultSummary     = "No summary provided."
	DefaultVulnType    = "Unknown Vulnerability"
	DefaultSeverity    = "Unknown"
	DefaultCWE         = "N/A"
	DefaultExplanation = "No explanation provided."
)

// ErrUnrecoverable is matched by every *RecoveryError.
var ErrUnrecoverable = errors.New("no JSON object could be recovered from model output")

// RecoveryError reports that none of the recovery strategies produced a
// JSON object. Raw holds the untouched model output.
type RecoveryError struct {
	Raw string
}

func (e *RecoveryError) Error() string {
	if strings.TrimSpace(e.Raw) == "" {
		return "model output is empty"
	}
	return ErrUnrecoverable.Error()
}

// Unwrap lets errors.Is(err, ErrUnrecoverable) match.
func (e *RecoveryError) Unwrap() error {
	return ErrUnrecoverable
}

// AnalysisResult is the normalized form of a model's analysis document.
type AnalysisResult struct {
	Summary         string          `json:"summary"`
	SafetyScore     int             `json:"safety_score"`
	ScoreDerived    bool            `json:"score_derived,omitempty"`
	Vulnerabilities []Vulnerability `json:"vulnerabilities"`
	SuggestedFixes  []Fix           `json:"suggested_rust"`
	Strategy        Strategy        `json:"strategy"`
	Warnings        []string        `json:"warnings,omitempty"`
}

// Vulnerability is a single finding reported by the model.
type Vulnerability struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	CWE         string `json:"cwe"`
	Explanation string `json:"explanation"`
	StartLine   *int   `json:"insecure_snippet_start_line,omitempty"`
	EndLine     *int   `json:"insecure_snippet_end_line,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
	Hint        string `json:"fix_hint,omitempty"`
}

// Fix is a suggested memory-safe rewrite.
type Fix struct {
	RustSnippet string `json:"rust_snippet"`
	Rationale   string `json:"why_safe"`
}

// Interpret recovers and normalizes an analysis document from raw model output.
func Interpret(raw string) (*AnalysisResult, error) {
	doc, strategy, ok := Recover(raw)
	if !ok {
		return nil, &RecoveryError{Raw: raw}
	}

	result := normalize(doc)
	result.Vulnerabilities = EnrichHints(result.Vulnerabilities)
	result.Strategy = strategy
	return result, nil
}
