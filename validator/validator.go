package validator

import (
	"fmt"
	"net/mail"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/hakuorm/haku/schema"
	"github.com/hakuorm/haku/utils"
)

// Result outcome of validating one field
type Result struct {
	Success bool
	Errors  []string
}

// Func custom rule; returns an error message when value is invalid
type Func func(value any, rule schema.Rule, record schema.Record) (string, bool)

// Validator default rule engine over parsed rules
type Validator struct {
	mu     sync.RWMutex
	custom map[string]Func
}

// New create a validator without custom rules
func New() *Validator {
	return &Validator{custom: map[string]Func{}}
}

// Register add a custom rule, usually named `Validates<Something>`
func (v *Validator) Register(name string, fn Func) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.custom[name] = fn
}

// ValidateAll check every rule against the field's value in record
func (v *Validator) ValidateAll(rules []schema.Rule, field string, record schema.Record) Result {
	result := Result{Success: true}
	value := record[field]

	for _, rule := range rules {
		if msg, ok := v.validate(rule, field, value, record); !ok {
			result.Success = false
			result.Errors = append(result.Errors, msg)
		}
	}
	return result
}

func (v *Validator) validate(rule schema.Rule, field string, value any, record schema.Record) (string, bool) {
	if rule.Name == "required" {
		return field + " is required", !isEmpty(value)
	}

	if rule.Custom {
		v.mu.RLock()
		fn, ok := v.custom[rule.Name]
		v.mu.RUnlock()
		if !ok {
			return fmt.Sprintf("%s: unknown rule %s", field, rule.Name), false
		}
		return fn(value, rule, record)
	}

	// optional fields are only checked when set
	if isEmpty(value) {
		return "", true
	}
	s := utils.ToString(value)

	switch rule.Name {
	case "len":
		n := utf8.RuneCountInString(s)
		return fmt.Sprintf("%s length must be %s", field, rule.Length), rule.Length != nil && rule.Length.Contains(n)
	case "emailAddress":
		addr, err := mail.ParseAddress(s)
		return field + " must be a valid email address", err == nil && addr.Address == s
	case "numeric":
		_, err := strconv.ParseFloat(s, 64)
		return field + " must be numeric", err == nil
	case "integer":
		_, err := strconv.ParseInt(s, 10, 64)
		return field + " must be an integer", err == nil
	case "boolean":
		_, err := strconv.ParseBool(s)
		return field + " must be a boolean", err == nil
	case "alpha":
		return field + " must contain only letters", strings.IndexFunc(s, func(r rune) bool { return !unicode.IsLetter(r) }) < 0
	case "alphaNumeric":
		return field + " must contain only letters and digits", strings.IndexFunc(s, func(r rune) bool {
			return !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}) < 0
	case "url":
		u, err := url.ParseRequestURI(s)
		return field + " must be a valid url", err == nil && u.Scheme != "" && u.Host != ""
	case "in":
		return fmt.Sprintf("%s must be one of %s", field, strings.Join(rule.Args, ", ")), utils.Contains(rule.Args, s)
	case "unique":
		// enforced by the unique key of the column
		return "", true
	}
	return fmt.Sprintf("%s: unknown rule %s", field, rule.Name), false
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []byte:
		return len(v) == 0
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}
