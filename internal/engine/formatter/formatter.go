// Package formatter holds the analysis report model and renders it for
// terminals, JSON consumers, Markdown viewers and SARIF tooling.
package formatter

import (
	"github.com/irahardianto/memsafe/internal/engine/severity"
)

// VulnerabilityReport is a vulnerability joined with the source snippet it refers to.
type VulnerabilityReport struct {
	Type        string `json:"type"`
	Severity    string `json:"severity"`
	CWE         string `json:"cwe"`
	Explanation string `json:"explanation"`
	StartLine   *int   `json:"start_line,omitempty"`
	EndLine     *int   `json:"end_line,omitempty"`
	Pattern     string `json:"pattern,omitempty"`
	// Snippet is the located source text; empty when it could not be found.
	Snippet string `json:"snippet,omitempty"`
	// LocateMethod is "lines", "pattern" or "none".
	LocateMethod string `json:"locate_method"`
	ExtractedVia string `json:"extracted_via,omitempty"`
	// SnippetStartLine and SnippetEndLine are the source lines the snippet
	// covers when LocateMethod is "lines", clamped to the file.
	SnippetStartLine int `json:"snippet_start_line,omitempty"`
	SnippetEndLine   int `json:"snippet_end_line,omitempty"`
	// Diagnostic lists the attempted location when LocateMethod is "none".
	Diagnostic string `json:"diagnostic,omitempty"`
	Hint       string `json:"fix_hint,omitempty"`
}

// FixReport is a suggested memory-safe Rust rewrite.
type FixReport struct {
	RustSnippet string `json:"rust_snippet"`
	Rationale   string `json:"why_safe"`
}

// FileReport holds the outcome of analyzing a single source.
type FileReport struct {
	File            string                `json:"file"`
	Provider        string                `json:"provider,omitempty"`
	Model           string                `json:"model,omitempty"`
	Summary         string                `json:"summary,omitempty"`
	SafetyScore     int                   `json:"safety_score"`
	ScoreDerived    bool                  `json:"score_derived,omitempty"`
	Band            severity.Band         `json:"band,omitempty"`
	Strategy        string                `json:"strategy,omitempty"`
	Vulnerabilities []VulnerabilityReport `json:"vulnerabilities"`
	SuggestedFixes  []FixReport           `json:"suggested_rust"`
	Warnings        []string              `json:"warnings,omitempty"`
	DurationMs      int64                 `json:"duration_ms"`
	// Error is set when the provider call or response recovery failed.
	Error string `json:"error,omitempty"`
	// RawOutput is the untouched model answer, kept when recovery failed.
	RawOutput string `json:"raw_output,omitempty"`
}

// Failed reports whether the file could not be analyzed.
func (r FileReport) Failed() bool {
	return r.Error != ""
}

// RunReport holds the aggregated result of all files in a run.
type RunReport struct {
	ID         string       `json:"id"`
	Passed     bool         `json:"passed"`
	FailUnder  int          `json:"fail_under,omitempty"`
	DurationMs int64        `json:"duration_ms"`
	Files      []FileReport `json:"files"`
}

// Evaluate sets Passed: every file was analyzed and scored at least failUnder.
func (r *RunReport) Evaluate(failUnder int) {
	r.FailUnder = failUnder
	r.Passed = true
	for _, f := range r.Files {
		if f.Failed() || f.SafetyScore < failUnder {
			r.Passed = false
			return
		}
	}
}

// Formatter formats a RunReport into a human-readable or machine-readable string.
type Formatter interface {
	Format(report RunReport) string
}
