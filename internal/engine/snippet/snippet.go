// Package snippet re-locates the source lines a model's vulnerability
// report refers to, using either the claimed line range or a literal
// pattern taken from the code.
package snippet

import (
	"fmt"
	"strings"
)

// contextLines is how many lines of context surround a pattern match.
const contextLines = 2

// Method identifies how a snippet was extracted.
type Method string

const (
	MethodNone    Method = "none"
	MethodLines   Method = "lines"
	MethodPattern Method = "pattern"
)

// Location is where the model claims a vulnerability lives.
// StartLine and EndLine are 1-based and inclusive.
type Location struct {
	StartLine *int
	EndLine   *int
	Pattern   string
}

// Extraction is the result of Locate.
type Extraction struct {
	Text   string
	Method Method
	// Provenance is a human-readable note such as "Lines 3-5".
	Provenance string
	// FirstLine and LastLine are the 1-based lines actually extracted by
	// MethodLines, after clamping to the source. Zero otherwise.
	FirstLine int
	LastLine  int
}

// Found reports whether any method produced a snippet.
func (e Extraction) Found() bool {
	return e.Method != MethodNone
}

// FromLines returns lines start..end of source joined by newlines.
// It returns "" when start < 1, end < start, or start is past the last line.
// An end past the last line is clamped.
func FromLines(source string, start, end int) string {
	if source == "" {
		return ""
	}
	if start < 1 || end < start {
		return ""
	}

	lines := strings.Split(source, "\n")
	if start > len(lines) {
		return ""
	}
	end = min(end, len(lines))

	return strings.Join(lines[start-1:end], "\n")
}

// FromPattern finds the first line containing pattern (trimmed, literal,
// case-sensitive) and returns it with up to two lines of context on each side.
// It returns "" when the pattern is blank or not found.
func FromPattern(source, pattern string) string {
	pattern = strings.TrimSpace(pattern)
	if source == "" || pattern == "" {
		return ""
	}

	lines := strings.Split(source, "\n")
	for i, line := range lines {
		if !strings.Contains(line, pattern) {
			continue
		}
		lo := max(0, i-contextLines)
		hi := min(len(lines), i+contextLines+1)
		return strings.Join(lines[lo:hi], "\n")
	}
	return ""
}

// Locate tries the line range first (only when both bounds are set), then
// the pattern. An Extraction with MethodNone means neither worked; callers
// should show the raw location instead of a snippet.
func Locate(source string, loc Location) Extraction {
	if loc.StartLine != nil && loc.EndLine != nil {
		if text := FromLines(source, *loc.StartLine, *loc.EndLine); text != "" {
			return Extraction{
				Text:       text,
				Method:     MethodLines,
				Provenance: fmt.Sprintf("Lines %d-%d", *loc.StartLine, *loc.EndLine),
				FirstLine:  *loc.StartLine,
				LastLine:   *loc.StartLine + strings.Count(text, "\n"),
			}
		}
	}

	if text := FromPattern(source, loc.Pattern); text != "" {
		return Extraction{
			Text:       text,
			Method:     MethodPattern,
			Provenance: "Pattern matching",
		}
	}

	return Extraction{Method: MethodNone}
}

// Diagnostic describes a location that could not be resolved, e.g.
// "Attempted lines: 40-44; Attempted pattern: memcpy". It returns "" when
// the location carries nothing to report.
func Diagnostic(loc Location) string {
	var parts []string
	if loc.StartLine != nil || loc.EndLine != nil {
		parts = append(parts, fmt.Sprintf("Attempted lines: %s-%s", lineString(loc.StartLine), lineString(loc.EndLine)))
	}
	if strings.TrimSpace(loc.Pattern) != "" {
		parts = append(parts, "Attempted pattern: "+loc.Pattern)
	}
	return strings.Join(parts, "; ")
}

func lineString(n *int) string {
	if n == nil {
		return "?"
	}
	return fmt.Sprint(*n)
}
