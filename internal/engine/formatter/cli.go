package formatter

import (
	"fmt"
	"strings"

	"github.com/irahardianto/memsafe/internal/engine/severity"
)

// ANSI color codes.
const (
	ansiReset  = "\033[0m"
	ansiBold   = "\033[1m"
	ansiRed    = "\033[31m"
	ansiGreen  = "\033[32m"
	ansiYellow = "\033[33m"
	ansiCyan   = "\033[36m"
	ansiDim    = "\033[2m"
)

// CLIFormatter outputs RunReport as a human-readable CLI report.
type CLIFormatter struct {
	Color   bool
	Verbose bool
}

// NewCLIFormatter creates a new CLIFormatter.
func NewCLIFormatter(color, verbose bool) *CLIFormatter {
	return &CLIFormatter{Color: color, Verbose: verbose}
}

// Format returns a formatted CLI report.
func (f *CLIFormatter) Format(report RunReport) string {
	var b strings.Builder

	// Header
	icon := f.colorize("✅", ansiGreen)
	status := "passed"
	if !report.Passed {
		icon = f.colorize("❌", ansiRed)
		status = "failed"
	}
	threshold := ""
	if report.FailUnder > 0 {
		threshold = fmt.Sprintf(" (fail under %d)", report.FailUnder)
	}
	b.WriteString(fmt.Sprintf("\n%s %s — %d %s %s%s in %dms\n",
		icon,
		f.colorize("memsafe", ansiBold),
		len(report.Files),
		plural(len(report.Files), "file", "files"),
		status,
		threshold,
		report.DurationMs))

	for _, file := range report.Files {
		f.writeFile(&b, file)
	}

	return b.String()
}

func (f *CLIFormatter) writeFile(b *strings.Builder, r FileReport) {
	b.WriteString("\n")

	if r.Failed() {
		b.WriteString(fmt.Sprintf("  💥 %s %s\n",
			f.colorize(r.File, ansiBold),
			f.colorize(fmt.Sprintf("%dms", r.DurationMs), ansiDim)))
		b.WriteString(fmt.Sprintf("    %s\n", f.colorize(r.Error, ansiRed)))
		if r.RawOutput != "" {
			b.WriteString(fmt.Sprintf("\n    %s\n", f.colorize("--- raw model output ---", ansiDim)))
			f.writeBlock(b, r.RawOutput, "    ")
		}
		return
	}

	score := fmt.Sprintf("%d/100 %s", r.SafetyScore, r.Band)
	b.WriteString(fmt.Sprintf("  %s %s %s %s\n",
		f.bandIcon(r.Band),
		f.colorize(r.File, ansiBold),
		f.colorize(score, f.bandColor(r.Band)),
		f.colorize(fmt.Sprintf("%dms", r.DurationMs), ansiDim)))
	if r.ScoreDerived {
		b.WriteString(fmt.Sprintf("    %s\n", f.colorize("safety score calculated from vulnerabilities", ansiDim)))
	}

	b.WriteString(fmt.Sprintf("\n    %s\n", r.Summary))

	if len(r.Vulnerabilities) == 0 {
		b.WriteString(fmt.Sprintf("\n    %s\n", f.colorize("No memory-safety vulnerabilities reported.", ansiGreen)))
	}
	for i, v := range r.Vulnerabilities {
		f.writeVulnerability(b, i+1, v)
	}

	for i, fix := range r.SuggestedFixes {
		b.WriteString(fmt.Sprintf("\n    🦀 %s\n", f.colorize(fmt.Sprintf("Suggested Rust #%d", i+1), ansiBold)))
		if fix.Rationale != "" {
			b.WriteString(fmt.Sprintf("      %s\n", fix.Rationale))
		}
		if fix.RustSnippet != "" {
			f.writeBlock(b, fix.RustSnippet, "      ")
		}
	}

	if f.Verbose {
		if r.Strategy != "" {
			b.WriteString(fmt.Sprintf("\n    %s\n", f.colorize("recovered via: "+r.Strategy, ansiDim)))
		}
		for _, w := range r.Warnings {
			b.WriteString(fmt.Sprintf("    ⚠️ %s\n", f.colorize(w, ansiYellow)))
		}
	}
}

func (f *CLIFormatter) writeVulnerability(b *strings.Builder, n int, v VulnerabilityReport) {
	label := fmt.Sprintf("[%s]", v.Severity)
	cwe := ""
	if v.CWE != "" && v.CWE != "N/A" {
		cwe = " " + f.colorize("CWE-"+v.CWE, ansiDim)
	}
	b.WriteString(fmt.Sprintf("\n    %d. %s %s%s\n",
		n,
		f.colorize(label, f.severityColor(v.Severity)),
		f.colorize(v.Type, ansiBold),
		cwe))
	b.WriteString(fmt.Sprintf("       %s\n", v.Explanation))
	if v.Hint != "" {
		b.WriteString(fmt.Sprintf("       💡 %s\n", v.Hint))
	}

	if v.Snippet != "" {
		b.WriteString(fmt.Sprintf("       %s\n", f.colorize("Extracted via: "+v.ExtractedVia, ansiCyan)))
		f.writeBlock(b, v.Snippet, "       ")
		return
	}

	msg := "Snippet could not be located"
	if v.Diagnostic != "" {
		msg += " (" + v.Diagnostic + ")"
	}
	b.WriteString(fmt.Sprintf("       %s\n", f.colorize(msg, ansiYellow)))
}

func (f *CLIFormatter) writeBlock(b *strings.Builder, text, indent string) {
	for _, line := range strings.Split(strings.TrimRight(text, "\n"), "\n") {
		b.WriteString(fmt.Sprintf("%s%s %s\n", indent, f.colorize("│", ansiDim), line))
	}
}

func (f *CLIFormatter) bandIcon(band severity.Band) string {
	switch band {
	case severity.BandGood:
		return f.colorize("✅", ansiGreen)
	case severity.BandFair:
		return f.colorize("⚠️", ansiYellow)
	default:
		return f.colorize("❌", ansiRed)
	}
}

func (f *CLIFormatter) bandColor(band severity.Band) string {
	switch band {
	case severity.BandGood:
		return ansiGreen
	case severity.BandFair:
		return ansiYellow
	default:
		return ansiRed
	}
}

func (f *CLIFormatter) severityColor(label string) string {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "critical", "high":
		return ansiRed
	case "medium":
		return ansiYellow
	default:
		return ansiDim
	}
}

func (f *CLIFormatter) colorize(s, code string) string {
	if !f.Color {
		return s
	}
	return code + s + ansiReset
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
