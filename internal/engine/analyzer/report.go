package analyzer

import (
	"github.com/irahardianto/memsafe/internal/engine/formatter"
	"github.com/irahardianto/memsafe/internal/engine/parser"
	"github.com/irahardianto/memsafe/internal/engine/severity"
	"github.com/irahardianto/memsafe/internal/engine/snippet"
)

// BuildReport interprets a raw model answer for src and locates every
// vulnerability's snippet in the source. It makes no network calls, so it
// also serves offline re-interpretation of saved answers.
func BuildReport(src Source, raw string) formatter.FileReport {
	report := formatter.FileReport{
		File:            src.Path,
		Vulnerabilities: []formatter.VulnerabilityReport{},
		SuggestedFixes:  []formatter.FixReport{},
	}

	result, err := parser.Interpret(raw)
	if err != nil {
		report.Error = err.Error()
		report.RawOutput = raw
		return report
	}

	report.Summary = result.Summary
	report.SafetyScore = result.SafetyScore
	report.ScoreDerived = result.ScoreDerived
	report.Band = severity.BandFor(result.SafetyScore)
	report.Strategy = string(result.Strategy)
	report.Warnings = result.Warnings

	for _, v := range result.Vulnerabilities {
		report.Vulnerabilities = append(report.Vulnerabilities, locate(src.Content, v))
	}
	for _, f := range result.SuggestedFixes {
		report.SuggestedFixes = append(report.SuggestedFixes, formatter.FixReport{
			RustSnippet: f.RustSnippet,
			Rationale:   f.Rationale,
		})
	}

	return report
}

func locate(source string, v parser.Vulnerability) formatter.VulnerabilityReport {
	loc := snippet.Location{
		StartLine: v.StartLine,
		EndLine:   v.EndLine,
		Pattern:   v.Pattern,
	}
	ex := snippet.Locate(source, loc)

	out := formatter.VulnerabilityReport{
		Type:         v.Type,
		Severity:     v.Severity,
		CWE:          v.CWE,
		Explanation:  v.Explanation,
		StartLine:    v.StartLine,
		EndLine:      v.EndLine,
		Pattern:      v.Pattern,
		Snippet:      ex.Text,
		LocateMethod: string(ex.Method),
		ExtractedVia: ex.Provenance,
		Hint:         v.Hint,

		SnippetStartLine: ex.FirstLine,
		SnippetEndLine:   ex.LastLine,
	}
	if !ex.Found() {
		out.Diagnostic = snippet.Diagnostic(loc)
	}
	return out
}
