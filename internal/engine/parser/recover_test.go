package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRecover_StrategyOrder(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want Strategy
	}{
		{"direct", `  {"a": 1}  `, StrategyDirect},
		{"fenced with tag", "x\n```json\n{\"a\": 1}\n```", StrategyFenced},
		{"fenced without tag", "```{\"a\": 1}```", StrategyFenced},
		{"balanced", `prefix {"a": {"b": 2}} suffix`, StrategyBalanced},
		{"greedy", `x {"a": "}"} y`, StrategyGreedy},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, got, ok := Recover(tc.in)
			assert.True(t, ok)
			assert.NotNil(t, doc)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestRecover_FencedFallsThroughOnBadBlock(t *testing.T) {
	// The fenced block is not valid JSON; the balanced scan finds the
	// object that follows it.
	in := "```json\n{not: valid}\n```\nActual: {\"summary\": \"ok\"}"
	doc, strategy, ok := Recover(in)
	assert.True(t, ok)
	assert.Equal(t, StrategyBalanced, strategy)
	assert.Equal(t, "ok", doc["summary"])
}

func TestRecover_RejectsNonObjects(t *testing.T) {
	for _, in := range []string{`42`, `"str"`, `true`, `null`} {
		_, _, ok := Recover(in)
		assert.Falsef(t, ok, "input %s", in)
	}
}

func TestRecover_ObjectInsideArray(t *testing.T) {
	// The direct parse rejects the array; the balanced scan finds the object.
	doc, strategy, ok := Recover(`[{"a":1}]`)
	assert.True(t, ok)
	assert.Equal(t, StrategyBalanced, strategy)
	assert.Contains(t, doc, "a")
}

func TestRecover_OutOfRangeNumbers(t *testing.T) {
	doc, strategy, ok := Recover(`{"safety_score": 1e400}`)
	assert.True(t, ok)
	assert.Equal(t, StrategyDirect, strategy)
	assert.Contains(t, doc, "safety_score")
}

func TestRecoverBalanced_NestedObjects(t *testing.T) {
	doc, ok := recoverBalanced(`a {"x": {"y": {"z": 1}}} b {"other": 2}`)
	assert.True(t, ok)
	assert.Contains(t, doc, "x")
	assert.NotContains(t, doc, "other")
}

func TestRecoverBalanced_Unterminated(t *testing.T) {
	_, ok := recoverBalanced(`{"a": {"b": 1}`)
	assert.False(t, ok)
}

func TestRecoverGreedy_NoBraces(t *testing.T) {
	_, ok := recoverGreedy("no braces here")
	assert.False(t, ok)

	_, ok = recoverGreedy("} reversed {")
	assert.False(t, ok)
}

func TestRecoverGreedy_MultipleBlocksMisfire(t *testing.T) {
	// Two independent objects joined greedily are not valid JSON.
	_, ok := recoverGreedy(`{"a": 1} and {"b": 2}`)
	assert.False(t, ok)
}
