package snippet

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const fiveLines = "line1\nline2\nline3\nline4\nline5"

const cSource = `#include <string.h>

void copy(char *input) {
    char buf[16];
    strcpy(buf, input);
    puts(buf);
}`

func ptr(n int) *int { return &n }

func TestFromLines_Range(t *testing.T) {
	assert.Equal(t, "line2\nline3\nline4", FromLines(fiveLines, 2, 4))
}

func TestFromLines_SingleLine(t *testing.T) {
	assert.Equal(t, "line3", FromLines(fiveLines, 3, 3))
}

func TestFromLines_EndClamped(t *testing.T) {
	assert.Equal(t, fiveLines, FromLines(fiveLines, 1, 100))
	assert.Equal(t, "line5", FromLines(fiveLines, 5, 9))
}

func TestFromLines_Invalid(t *testing.T) {
	assert.Empty(t, FromLines(fiveLines, 0, 2), "start below 1")
	assert.Empty(t, FromLines(fiveLines, -3, 2), "negative start")
	assert.Empty(t, FromLines(fiveLines, 4, 2), "inverted range")
	assert.Empty(t, FromLines(fiveLines, 6, 8), "start past end")
	assert.Empty(t, FromLines("", 1, 1), "empty source")
}

func TestFromPattern_Context(t *testing.T) {
	got := FromPattern(cSource, "strcpy")
	want := strings.Join([]string{
		"void copy(char *input) {",
		"    char buf[16];",
		"    strcpy(buf, input);",
		"    puts(buf);",
		"}",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestFromPattern_ClampedAtStart(t *testing.T) {
	assert.Equal(t, "line1\nline2\nline3", FromPattern(fiveLines, "line1"))
}

func TestFromPattern_ClampedAtEnd(t *testing.T) {
	assert.Equal(t, "line3\nline4\nline5", FromPattern(fiveLines, "line5"))
}

func TestFromPattern_FirstMatchWins(t *testing.T) {
	src := "a\nfree(p);\nb\nc\nd\ne\nfree(p);"
	assert.Equal(t, "a\nfree(p);\nb\nc", FromPattern(src, "free(p)"))
}

func TestFromPattern_TrimsPattern(t *testing.T) {
	assert.Equal(t, "line2\nline3\nline4\nline5", FromPattern(fiveLines, "  line4 \n"))
}

func TestFromPattern_CaseSensitive(t *testing.T) {
	assert.Empty(t, FromPattern(cSource, "STRCPY"))
}

func TestFromPattern_NotFound(t *testing.T) {
	assert.Empty(t, FromPattern(cSource, "nonexistent_token"))
	assert.Empty(t, FromPattern(cSource, "   "))
	assert.Empty(t, FromPattern("", "strcpy"))
}

func TestLocate_PrefersLines(t *testing.T) {
	got := Locate(cSource, Location{StartLine: ptr(4), EndLine: ptr(5), Pattern: "puts"})
	assert.Equal(t, Extraction{
		Text:       "    char buf[16];\n    strcpy(buf, input);",
		Method:     MethodLines,
		Provenance: "Lines 4-5",
		FirstLine:  4,
		LastLine:   5,
	}, got)
	assert.True(t, got.Found())
}

func TestLocate_ReportsClampedRange(t *testing.T) {
	got := Locate(fiveLines, Location{StartLine: ptr(4), EndLine: ptr(100)})
	assert.Equal(t, MethodLines, got.Method)
	assert.Equal(t, "Lines 4-100", got.Provenance)
	assert.Equal(t, 4, got.FirstLine)
	assert.Equal(t, 5, got.LastLine)
}

func TestLocate_FallsBackToPattern(t *testing.T) {
	got := Locate(fiveLines, Location{StartLine: ptr(0), EndLine: ptr(2), Pattern: "line3"})
	assert.Equal(t, MethodPattern, got.Method)
	assert.Equal(t, "Pattern matching", got.Provenance)
	assert.Equal(t, fiveLines, got.Text)
	assert.Zero(t, got.FirstLine)
}

func TestLocate_OnlyOneLineBoundUsesPattern(t *testing.T) {
	got := Locate(fiveLines, Location{StartLine: ptr(2), Pattern: "line1"})
	assert.Equal(t, MethodPattern, got.Method)
	assert.Equal(t, "line1\nline2\nline3", got.Text)
}

func TestLocate_NothingFound(t *testing.T) {
	got := Locate(fiveLines, Location{StartLine: ptr(9), EndLine: ptr(12), Pattern: "missing"})
	assert.Equal(t, MethodNone, got.Method)
	assert.Empty(t, got.Text)
	assert.False(t, got.Found())

	assert.False(t, Locate(fiveLines, Location{}).Found())
}

func TestDiagnostic(t *testing.T) {
	assert.Equal(t, "Attempted lines: 9-12; Attempted pattern: memcpy",
		Diagnostic(Location{StartLine: ptr(9), EndLine: ptr(12), Pattern: "memcpy"}))
	assert.Equal(t, "Attempted lines: 3-?", Diagnostic(Location{StartLine: ptr(3)}))
	assert.Equal(t, "Attempted pattern: gets(", Diagnostic(Location{Pattern: "gets("}))
	assert.Empty(t, Diagnostic(Location{Pattern: "  "}))
}
