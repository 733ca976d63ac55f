package formatter

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/irahardianto/memsafe/internal/engine/severity"
)

func intPtr(n int) *int { return &n }

func sampleReport() RunReport {
	return RunReport{
		ID:         "run-1",
		Passed:     false,
		FailUnder:  60,
		DurationMs: 1200,
		Files: []FileReport{
			{
				File:         "src/copy.c",
				Provider:     "openai",
				Model:        "gpt-3.5-turbo",
				Summary:      "Unbounded copy into a stack buffer.",
				SafetyScore:  30,
				ScoreDerived: true,
				Band:         severity.BandPoor,
				Strategy:     "fenced",
				Vulnerabilities: []VulnerabilityReport{
					{
						Type:         "Stack buffer overflow",
						Severity:     "High",
						CWE:          "121",
						Explanation:  "strcpy does not bound the copy.",
						StartLine:    intPtr(3),
						EndLine:      intPtr(3),
						Pattern:      "strcpy",
						Snippet:      "  strcpy(buf, input);",
						LocateMethod: "lines",
						ExtractedVia: "Lines 3-3",
						Hint:         "Size stack buffers from the input.",

						SnippetStartLine: 3,
						SnippetEndLine:   3,
					},
					{
						Type:         "Use after free",
						Severity:     "Unknown",
						CWE:          "N/A",
						Explanation:  "ptr is used after free.",
						StartLine:    intPtr(40),
						EndLine:      intPtr(44),
						Pattern:      "ptr->next",
						LocateMethod: "none",
						Diagnostic:   "Attempted lines: 40-44; Attempted pattern: ptr->next",
					},
				},
				SuggestedFixes: []FixReport{
					{RustSnippet: "let buf = input.to_owned();", Rationale: "Owned strings grow as needed."},
				},
				Warnings:   []string{"suggested_rust: expected a list, got string"},
				DurationMs: 800,
			},
			{
				File:            "src/ok.c",
				Summary:         "Nothing found.",
				SafetyScore:     100,
				Band:            severity.BandGood,
				DurationMs:      300,
				Vulnerabilities: []VulnerabilityReport{},
				SuggestedFixes:  []FixReport{},
			},
			{
				File:      "src/broken.c",
				Error:     "no JSON object could be recovered from model output",
				RawOutput: "I cannot help with that.",
			},
		},
	}
}

func TestRunReport_Evaluate(t *testing.T) {
	r := RunReport{Files: []FileReport{{SafetyScore: 90}, {SafetyScore: 70}}}

	r.Evaluate(60)
	if !r.Passed {
		t.Error("expected pass when every score meets the threshold")
	}

	r.Evaluate(80)
	if r.Passed {
		t.Error("expected failure when a score is below the threshold")
	}
	if r.FailUnder != 80 {
		t.Errorf("expected FailUnder 80, got %d", r.FailUnder)
	}

	r.Files = append(r.Files, FileReport{SafetyScore: 100, Error: "quota exceeded"})
	r.Evaluate(0)
	if r.Passed {
		t.Error("expected failure when a file could not be analyzed")
	}
}

// --- JSON Formatter Tests ---

func TestJSONFormatter_ValidJSON(t *testing.T) {
	f := NewJSONFormatter()
	output := f.Format(sampleReport())

	var parsed RunReport
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		t.Fatalf("output is not valid JSON: %v\nOutput:\n%s", err, output)
	}

	if parsed.Passed {
		t.Error("expected Passed=false")
	}
	if parsed.ID != "run-1" {
		t.Errorf("expected ID run-1, got %q", parsed.ID)
	}
	if len(parsed.Files) != 3 {
		t.Fatalf("expected 3 files, got %d", len(parsed.Files))
	}
	if *parsed.Files[0].Vulnerabilities[0].StartLine != 3 {
		t.Errorf("expected start line 3, got %v", parsed.Files[0].Vulnerabilities[0].StartLine)
	}
}

func TestJSONFormatter_Fields(t *testing.T) {
	output := NewJSONFormatter().Format(sampleReport())

	for _, want := range []string{
		`"safety_score": 30`,
		`"score_derived": true`,
		`"band": "poor"`,
		`"extracted_via": "Lines 3-3"`,
		`"locate_method": "none"`,
		`"diagnostic": "Attempted lines: 40-44; Attempted pattern: ptr->next"`,
		`"why_safe": "Owned strings grow as needed."`,
		`"raw_output": "I cannot help with that."`,
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected JSON to contain %s", want)
		}
	}
}

func TestJSONFormatter_DoesNotEscapeCOperators(t *testing.T) {
	report := RunReport{Files: []FileReport{{
		File: "list.c",
		Vulnerabilities: []VulnerabilityReport{{
			Pattern: "if (n < len && p->next)",
			Snippet: "  if (n < len && p->next)",
		}},
	}}}

	output := NewJSONFormatter().Format(report)

	if !strings.Contains(output, `"pattern": "if (n < len && p->next)"`) {
		t.Errorf("expected literal C operators, got:\n%s", output)
	}
	if strings.Contains(output, `\u003c`) || strings.Contains(output, `\u0026`) || strings.Contains(output, `\u003e`) {
		t.Errorf("expected no HTML escaping, got:\n%s", output)
	}
}

func TestJSONFormatter_EmptyReport(t *testing.T) {
	output := NewJSONFormatter().Format(RunReport{Passed: true, DurationMs: 50})
	if !strings.Contains(output, `"passed": true`) {
		t.Error("expected passed=true in output")
	}
}

// --- CLI Formatter Tests ---

func TestCLIFormatter_ContainsFiles(t *testing.T) {
	output := NewCLIFormatter(false, false).Format(sampleReport())

	for _, name := range []string{"src/copy.c", "src/ok.c", "src/broken.c"} {
		if !strings.Contains(output, name) {
			t.Errorf("expected output to contain file %q", name)
		}
	}
	if !strings.Contains(output, "3 files failed (fail under 60)") {
		t.Errorf("expected header with status and threshold, got:\n%s", output)
	}
}

func TestCLIFormatter_ScoreAndBand(t *testing.T) {
	output := NewCLIFormatter(false, false).Format(sampleReport())

	if !strings.Contains(output, "30/100 poor") {
		t.Error("expected score with band")
	}
	if !strings.Contains(output, "safety score calculated from vulnerabilities") {
		t.Error("expected derived score notice")
	}
	if !strings.Contains(output, "100/100 good") {
		t.Error("expected perfect score for clean file")
	}
	if !strings.Contains(output, "No memory-safety vulnerabilities reported.") {
		t.Error("expected clean file message")
	}
}

func TestCLIFormatter_VulnerabilityDetails(t *testing.T) {
	output := NewCLIFormatter(false, false).Format(sampleReport())

	for _, want := range []string{
		"1. [High] Stack buffer overflow CWE-121",
		"strcpy does not bound the copy.",
		"Extracted via: Lines 3-3",
		"💡 Size stack buffers from the input.",
		"│   strcpy(buf, input);",
		"2. [Unknown] Use after free\n",
		"Snippet could not be located (Attempted lines: 40-44; Attempted pattern: ptr->next)",
		"Suggested Rust #1",
		"│ let buf = input.to_owned();",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, output)
		}
	}
	if strings.Contains(output, "CWE-N/A") {
		t.Error("expected N/A CWE to be omitted")
	}
}

func TestCLIFormatter_FailedFileShowsRawOutput(t *testing.T) {
	output := NewCLIFormatter(false, false).Format(sampleReport())

	if !strings.Contains(output, "no JSON object could be recovered") {
		t.Error("expected error message")
	}
	if !strings.Contains(output, "--- raw model output ---") || !strings.Contains(output, "│ I cannot help with that.") {
		t.Errorf("expected raw model output block, got:\n%s", output)
	}
}

func TestCLIFormatter_NoColorMode(t *testing.T) {
	output := NewCLIFormatter(false, false).Format(sampleReport())
	if strings.Contains(output, "\033[") {
		t.Error("expected no ANSI escape codes in no-color mode")
	}
}

func TestCLIFormatter_ColorMode(t *testing.T) {
	output := NewCLIFormatter(true, false).Format(sampleReport())
	if !strings.Contains(output, ansiRed) {
		t.Error("expected red ANSI code for failing report")
	}
	if !strings.Contains(output, ansiReset) {
		t.Error("expected ANSI reset codes in color mode")
	}
}

func TestCLIFormatter_VerboseMode(t *testing.T) {
	quiet := NewCLIFormatter(false, false).Format(sampleReport())
	if strings.Contains(quiet, "recovered via") {
		t.Error("expected strategy to be hidden without verbose")
	}

	verbose := NewCLIFormatter(false, true).Format(sampleReport())
	if !strings.Contains(verbose, "recovered via: fenced") {
		t.Error("expected recovery strategy in verbose mode")
	}
	if !strings.Contains(verbose, "suggested_rust: expected a list, got string") {
		t.Error("expected shape warnings in verbose mode")
	}
}

func TestCLIFormatter_SingleFilePassed(t *testing.T) {
	r := RunReport{Passed: true, DurationMs: 5, Files: []FileReport{{File: "a.c", SafetyScore: 90, Band: severity.BandGood}}}
	output := NewCLIFormatter(false, false).Format(r)
	if !strings.Contains(output, "1 file passed in 5ms") {
		t.Errorf("unexpected header:\n%s", output)
	}
}
