package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestParseRule(t *testing.T) {
	tests := []struct {
		raw    string
		name   string
		args   []string
		length *LengthRange
		custom bool
	}{
		{raw: "required", name: "required"},
		{raw: "len:8", name: "len", args: []string{"8"}, length: &LengthRange{Min: intPtr(8), Max: intPtr(8)}},
		{raw: "len:3..", name: "len", args: []string{"3.."}, length: &LengthRange{Min: intPtr(3)}},
		{raw: "len:..32", name: "len", args: []string{"..32"}, length: &LengthRange{Max: intPtr(32)}},
		{raw: "len:3..32", name: "len", args: []string{"3..32"}, length: &LengthRange{Min: intPtr(3), Max: intPtr(32)}},
		{raw: "in:draft, published", name: "in", args: []string{"draft", "published"}},
		{raw: "ValidatesSlug", name: "ValidatesSlug", custom: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			rule, err := ParseRule(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.name, rule.Name)
			assert.Equal(t, tt.raw, rule.String())
			assert.Equal(t, tt.args, rule.Args)
			assert.Equal(t, tt.length, rule.Length)
			assert.Equal(t, tt.custom, rule.Custom)
		})
	}
}

func TestParseRuleErrors(t *testing.T) {
	for _, raw := range []string{"", ":x", "len", "len:", "len:..", "len:a..3", "len:5..3", "len:-1", "in:"} {
		_, err := ParseRule(raw)
		assert.ErrorIs(t, err, ErrInvalidRule, raw)
	}
}

func TestLengthRange(t *testing.T) {
	exact := LengthRange{Min: intPtr(3), Max: intPtr(3)}
	assert.True(t, exact.Contains(3))
	assert.False(t, exact.Contains(4))
	assert.Equal(t, "exactly 3", exact.String())

	atMost := LengthRange{Max: intPtr(5)}
	assert.True(t, atMost.Contains(0))
	assert.False(t, atMost.Contains(6))
	assert.Equal(t, "at most 5", atMost.String())

	between := LengthRange{Min: intPtr(2), Max: intPtr(4)}
	assert.False(t, between.Contains(1))
	assert.Equal(t, "between 2 and 4", between.String())
}

func TestRuleSet(t *testing.T) {
	create, err := ParseRules([]string{"required", "len:..10"})
	require.NoError(t, err)
	rs := RuleSet{OnCreate: create, OnUpdate: create[1:]}

	assert.Len(t, rs.For(false), 2)
	assert.Len(t, rs.For(true), 1)
	_, ok := rs.Lookup("required")
	assert.True(t, ok)
	_, ok = rs.Lookup("unique")
	assert.False(t, ok)
	assert.True(t, RuleSet{}.Empty())
}
