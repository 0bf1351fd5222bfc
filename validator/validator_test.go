package validator_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hakuorm/haku/schema"
	"github.com/hakuorm/haku/validator"
)

func rules(t *testing.T, raws ...string) []schema.Rule {
	t.Helper()
	parsed, err := schema.ParseRules(raws)
	require.NoError(t, err)
	return parsed
}

func TestValidateAll(t *testing.T) {
	v := validator.New()

	tests := []struct {
		name    string
		rules   []string
		value   any
		success bool
		errors  []string
	}{
		{"required present", []string{"required"}, "x", true, nil},
		{"required missing", []string{"required"}, nil, false, []string{"title is required"}},
		{"required blank", []string{"required"}, "  ", false, []string{"title is required"}},
		{"optional empty", []string{"len:3..5", "emailAddress"}, "", true, nil},
		{"len range", []string{"len:3..5"}, "abcdef", false, []string{"title length must be between 3 and 5"}},
		{"len exact runes", []string{"len:2"}, "éà", true, nil},
		{"len max", []string{"len:..3"}, "abcd", false, []string{"title length must be at most 3"}},
		{"email", []string{"emailAddress"}, "jinzhu@example.org", true, nil},
		{"email named", []string{"emailAddress"}, "Jinzhu <jinzhu@example.org>", false, []string{"title must be a valid email address"}},
		{"numeric", []string{"numeric"}, "1.5", true, nil},
		{"integer", []string{"integer"}, "1.5", false, []string{"title must be an integer"}},
		{"integer typed", []string{"integer"}, int64(3), true, nil},
		{"boolean", []string{"boolean"}, true, true, nil},
		{"alpha", []string{"alpha"}, "abc1", false, []string{"title must contain only letters"}},
		{"alphaNumeric", []string{"alphaNumeric"}, "abc1", true, nil},
		{"url", []string{"url"}, "https://example.org/a", true, nil},
		{"url relative", []string{"url"}, "/a/b", false, []string{"title must be a valid url"}},
		{"in", []string{"in:draft,published"}, "draft", true, nil},
		{"not in", []string{"in:draft,published"}, "archived", false, []string{"title must be one of draft, published"}},
		{"unique", []string{"unique"}, "x", true, nil},
		{"unknown", []string{"sparkly"}, "x", false, []string{"title: unknown rule sparkly"}},
		{"several", []string{"required", "len:3..", "alpha"}, "a1", false, []string{"title length must be at least 3", "title must contain only letters"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.ValidateAll(rules(t, tt.rules...), "title", schema.Record{"title": tt.value})
			assert.Equal(t, tt.success, result.Success)
			assert.Equal(t, tt.errors, result.Errors)
		})
	}
}

func TestCustomRule(t *testing.T) {
	v := validator.New()
	v.Register("ValidatesSlug", func(value any, rule schema.Rule, record schema.Record) (string, bool) {
		s, _ := value.(string)
		return "slug must be lower case", s == strings.ToLower(s)
	})

	result := v.ValidateAll(rules(t, "ValidatesSlug"), "slug", schema.Record{"slug": "Hello"})
	assert.False(t, result.Success)
	assert.Equal(t, []string{"slug must be lower case"}, result.Errors)

	result = v.ValidateAll(rules(t, "ValidatesSlug"), "slug", schema.Record{"slug": "hello"})
	assert.True(t, result.Success)

	result = v.ValidateAll(rules(t, "ValidatesOwner"), "userId", schema.Record{"userId": 1})
	assert.Equal(t, []string{"userId: unknown rule ValidatesOwner"}, result.Errors)
}
