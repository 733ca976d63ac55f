package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownFormatter outputs RunReport as a Markdown document. When a
// renderer is attached the document is styled for the terminal instead.
type MarkdownFormatter struct {
	renderer *glamour.TermRenderer
}

// NewMarkdownFormatter creates a MarkdownFormatter that emits plain Markdown.
func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// NewRenderedMarkdownFormatter creates a MarkdownFormatter that renders
// through glamour with the dark style and the given word wrap width.
func NewRenderedMarkdownFormatter(width int) (*MarkdownFormatter, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, fmt.Errorf("creating glamour renderer: %w", err)
	}
	return &MarkdownFormatter{renderer: r}, nil
}

// Format returns the report as Markdown, rendered if a renderer is attached.
// Rendering failures fall back to the plain document.
func (f *MarkdownFormatter) Format(report RunReport) string {
	md := Markdown(report)
	if f.renderer == nil {
		return md
	}
	out, err := f.renderer.Render(md)
	if err != nil {
		return md
	}
	return out
}

// Markdown builds the plain Markdown document for a report.
func Markdown(report RunReport) string {
	var b strings.Builder

	status := "passed"
	if !report.Passed {
		status = "failed"
	}
	b.WriteString("# Memory Safety Report\n\n")
	b.WriteString(fmt.Sprintf("%d %s analyzed, %s in %dms.\n",
		len(report.Files), plural(len(report.Files), "file", "files"), status, report.DurationMs))
	if report.FailUnder > 0 {
		b.WriteString(fmt.Sprintf("Minimum safety score: %d.\n", report.FailUnder))
	}

	for _, file := range report.Files {
		writeMarkdownFile(&b, file)
	}
	return b.String()
}

func writeMarkdownFile(b *strings.Builder, r FileReport) {
	b.WriteString(fmt.Sprintf("\n## %s\n\n", r.File))

	if r.Failed() {
		b.WriteString(fmt.Sprintf("**Error:** %s\n", r.Error))
		if r.RawOutput != "" {
			b.WriteString("\n<details><summary>Raw model output</summary>\n\n")
			writeFence(b, "", r.RawOutput)
			b.WriteString("\n</details>\n")
		}
		return
	}

	b.WriteString(fmt.Sprintf("**Safety score:** %d/100 (%s)\n", r.SafetyScore, r.Band))
	if r.ScoreDerived {
		b.WriteString("\n_Safety score calculated from vulnerabilities._\n")
	}
	b.WriteString("\n### Summary\n\n")
	b.WriteString(r.Summary + "\n")

	b.WriteString("\n### Vulnerabilities\n\n")
	if len(r.Vulnerabilities) == 0 {
		b.WriteString("No memory-safety vulnerabilities reported.\n")
	}
	for i, v := range r.Vulnerabilities {
		b.WriteString(fmt.Sprintf("#### %d. %s (%s)\n\n", i+1, v.Type, v.Severity))
		if v.CWE != "" && v.CWE != "N/A" {
			b.WriteString(fmt.Sprintf("**CWE:** CWE-%s\n\n", v.CWE))
		}
		b.WriteString(v.Explanation + "\n\n")
		if v.Hint != "" {
			b.WriteString("**Fix hint:** " + v.Hint + "\n\n")
		}
		if v.Snippet != "" {
			b.WriteString(fmt.Sprintf("_Extracted via: %s_\n\n", v.ExtractedVia))
			writeFence(b, "c", v.Snippet)
			b.WriteString("\n")
			continue
		}
		msg := "Snippet could not be located."
		if v.Diagnostic != "" {
			msg = fmt.Sprintf("Snippet could not be located. %s.", v.Diagnostic)
		}
		b.WriteString("> " + msg + "\n\n")
	}

	if len(r.SuggestedFixes) > 0 {
		b.WriteString("### Suggested Rust\n\n")
		for _, fix := range r.SuggestedFixes {
			if fix.RustSnippet != "" {
				writeFence(b, "rust", fix.RustSnippet)
				b.WriteString("\n")
			}
			if fix.Rationale != "" {
				b.WriteString(fix.Rationale + "\n\n")
			}
		}
	}
}

// writeFence writes text in a fenced code block, lengthening the fence
// when the text itself contains backtick runs.
func writeFence(b *strings.Builder, lang, text string) {
	fence := "```"
	for strings.Contains(text, fence) {
		fence += "`"
	}
	b.WriteString(fence + lang + "\n")
	b.WriteString(strings.TrimRight(text, "\n") + "\n")
	b.WriteString(fence + "\n")
}
