package formatter

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/irahardianto/memsafe/internal/engine/severity"
	"github.com/owenrumney/go-sarif/v2/sarif"
)

const (
	toolName           = "memsafe"
	toolInformationURI = "https://github.com/irahardianto/memsafe"
	analysisErrorRule  = "memsafe/analysis-error"
)

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

// SARIFFormatter outputs RunReport as a SARIF v2.1.0 log so that code
// scanning dashboards can display the findings.
type SARIFFormatter struct{}

// NewSARIFFormatter creates a new SARIFFormatter.
func NewSARIFFormatter() *SARIFFormatter {
	return &SARIFFormatter{}
}

// Format returns the RunReport as pretty-printed SARIF JSON.
func (f *SARIFFormatter) Format(report RunReport) string {
	log, err := BuildSARIF(report)
	if err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}

	var buf bytes.Buffer
	if err := log.PrettyWrite(&buf); err != nil {
		return fmt.Sprintf(`{"error": %q}`, err.Error())
	}
	return buf.String()
}

// BuildSARIF converts a RunReport into a SARIF report with a single run.
// Each vulnerability becomes a result; files that could not be analyzed
// are reported under the analysis-error rule.
func BuildSARIF(report RunReport) (*sarif.Report, error) {
	log, err := sarif.New(sarif.Version210)
	if err != nil {
		return nil, fmt.Errorf("creating SARIF report: %w", err)
	}

	run := sarif.NewRunWithInformationURI(toolName, toolInformationURI)

	for _, file := range report.Files {
		if file.Failed() {
			run.AddRule(analysisErrorRule).
				WithDescription("The source could not be analyzed.")
			run.CreateResultForRule(analysisErrorRule).
				WithLevel("error").
				WithMessage(sarif.NewTextMessage(file.Error)).
				AddLocation(artifactLocation(file.File, nil))
			continue
		}

		for _, v := range file.Vulnerabilities {
			id := ruleID(v)
			rule := run.AddRule(id).WithDescription(v.Type)
			if v.CWE != "" && v.CWE != "N/A" {
				rule.WithHelpURI(fmt.Sprintf("https://cwe.mitre.org/data/definitions/%s.html", v.CWE))
			}
			if v.Hint != "" {
				rule.WithHelp(sarif.NewMultiformatMessageString(v.Hint))
			}

			run.CreateResultForRule(id).
				WithLevel(sarifLevel(v)).
				WithMessage(sarif.NewTextMessage(v.Explanation)).
				AddLocation(artifactLocation(file.File, region(v)))
		}
	}

	log.AddRun(run)
	return log, nil
}

func artifactLocation(uri string, r *sarif.Region) *sarif.Location {
	pl := sarif.NewPhysicalLocation().
		WithArtifactLocation(sarif.NewSimpleArtifactLocation(uri))
	if r != nil {
		pl.WithRegion(r)
	}
	return sarif.NewLocationWithPhysicalLocation(pl)
}

// region returns the extracted line range only when the snippet was located
// by line numbers. The range is the clamped one, not the model's claim.
func region(v VulnerabilityReport) *sarif.Region {
	if v.LocateMethod != "lines" || v.SnippetStartLine < 1 || v.SnippetEndLine < v.SnippetStartLine {
		return nil
	}
	return sarif.NewSimpleRegion(v.SnippetStartLine, v.SnippetEndLine)
}

// ruleID prefers the CWE identifier and falls back to a slug of the type.
func ruleID(v VulnerabilityReport) string {
	if v.CWE != "" && v.CWE != "N/A" {
		return "CWE-" + v.CWE
	}
	slug := strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(v.Type), "-"), "-")
	if slug == "" {
		slug = "unknown"
	}
	return "memsafe/" + slug
}

// sarifLevel maps a severity label to a SARIF level. Unknown labels are
// classified from the vulnerability type instead.
func sarifLevel(v VulnerabilityReport) string {
	label := v.Severity
	if !severity.Known(label) {
		label = severity.Classify(v.Type)
	}
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "critical", "high":
		return "error"
	case "medium":
		return "warning"
	default:
		return "note"
	}
}
