package parser

import (
	"encoding/json"
	"io"
	"regexp"
	"strings"
)

// Strategy names the recovery technique that produced a document.
type Strategy string

const (
	StrategyNone     Strategy = ""
	StrategyDirect   Strategy = "direct"
	StrategyFenced   Strategy = "fenced"
	StrategyBalanced Strategy = "balanced"
	StrategyGreedy   Strategy = "greedy"
)

type strategy struct {
	name    Strategy
	recover func(text string) (map[string]any, bool)
}

// strategies are tried in order; the first JSON object wins.
var strategies = []strategy{
	{StrategyDirect, recoverDirect},
	{StrategyFenced, recoverFenced},
	{StrategyBalanced, recoverBalanced},
	{StrategyGreedy, recoverGreedy},
}

// fencePattern matches the first ``` block (optionally tagged json) wrapping an object.
var fencePattern = regexp.MustCompile("(?is)```(?:json)?\\s*(\\{.*?\\})\\s*```")

// Recover runs the recovery cascade over text and returns the first JSON
// object found along with the strategy that found it.
func Recover(text string) (map[string]any, Strategy, bool) {
	if strings.TrimSpace(text) == "" {
		return nil, StrategyNone, false
	}

	for _, s := range strategies {
		if doc, ok := s.recover(text); ok {
			return doc, s.name, true
		}
	}
	return nil, StrategyNone, false
}

// parseObject decodes s as a single JSON object. Arrays, scalars and null
// are rejected. Numbers stay json.Number so out-of-range values such as 1e400
// still decode.
func parseObject(s string) (map[string]any, bool) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()

	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	if doc == nil {
		return nil, false
	}
	return doc, true
}

func recoverDirect(text string) (map[string]any, bool) {
	return parseObject(strings.TrimSpace(text))
}

func recoverFenced(text string) (map[string]any, bool) {
	m := fencePattern.FindStringSubmatch(text)
	if m == nil {
		return nil, false
	}
	return parseObject(m[1])
}

// recoverBalanced scans for brace-balanced spans and returns the first one
// that parses. A failed span is discarded and scanning resumes after it.
func recoverBalanced(text string) (map[string]any, bool) {
	depth := 0
	start := -1

	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '{':
			if start == -1 {
				start = i
			}
			depth++
		case '}':
			if start == -1 {
				continue
			}
			depth--
			if depth == 0 {
				if doc, ok := parseObject(text[start : i+1]); ok {
					return doc, true
				}
				start = -1
			}
		}
	}
	return nil, false
}

// recoverGreedy takes everything from the first '{' to the last '}'.
// It does not track nesting and can misfire on text holding several
// independent objects; it only runs after the other strategies fail.
func recoverGreedy(text string) (map[string]any, bool) {
	first := strings.IndexByte(text, '{')
	last := strings.LastIndexByte(text, '}')
	if first < 0 || last <= first {
		return nil, false
	}
	return parseObject(text[first : last+1])
}
