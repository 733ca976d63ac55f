// Package severity maps qualitative severity labels to numeric safety scores.
package severity

import "strings"

// Canonical severity labels.
const (
	Critical = "Critical"
	High     = "High"
	Medium   = "Medium"
	Low      = "Low"
)

// PerfectScore is the safety score of code with no reported vulnerabilities.
const PerfectScore = 100

// scores maps a lowercased label to its contribution to the safety score.
var scores = map[string]int{
	"critical": 0,
	"high":     30,
	"medium":   60,
	"low":      80,
}

// Score returns the numeric score for a severity label.
// Matching is case-insensitive and ignores surrounding whitespace.
// Unknown or empty labels score as Medium.
func Score(label string) int {
	if s, ok := scores[strings.ToLower(strings.TrimSpace(label))]; ok {
		return s
	}
	return scores["medium"]
}

// SafetyScore returns the truncated mean of Score over labels, or
// PerfectScore when labels is empty.
func SafetyScore(labels []string) int {
	if len(labels) == 0 {
		return PerfectScore
	}

	total := 0
	for _, l := range labels {
		total += Score(l)
	}
	return total / len(labels)
}

// Known reports whether label is one of the four canonical severities.
func Known(label string) bool {
	_, ok := scores[strings.ToLower(strings.TrimSpace(label))]
	return ok
}

// Classify guesses a severity from a vulnerability type description such as
// "Stack buffer overflow" or "Use-after-free". It is a keyword heuristic used
// only when the model did not supply a usable severity.
func Classify(vulnType string) string {
	v := strings.ToLower(vulnType)

	switch {
	case strings.Contains(v, "buffer overflow"), strings.Contains(v, "stack overflow"):
		return High
	case strings.Contains(v, "use-after-free"), strings.Contains(v, "use after free"):
		return High
	case strings.Contains(v, "null pointer"), strings.Contains(v, "null dereference"):
		return Medium
	case strings.Contains(v, "off-by-one"), strings.Contains(v, "oob"):
		return Medium
	case strings.Contains(v, "malloc"), strings.Contains(v, "allocation"):
		return Medium
	default:
		return Low
	}
}

// Band is a coarse display bucket for a safety score.
type Band string

const (
	BandGood     Band = "good"
	BandFair     Band = "fair"
	BandPoor     Band = "poor"
	BandCritical Band = "critical"
)

// BandFor buckets a safety score: >=80 good, >=60 fair, >=30 poor, else critical.
func BandFor(score int) Band {
	switch {
	case score >= 80:
		return BandGood
	case score >= 60:
		return BandFair
	case score >= 30:
		return BandPoor
	default:
		return BandCritical
	}
}
