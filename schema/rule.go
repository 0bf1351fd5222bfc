package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// CustomRulePrefix marks rule names resolved through the validator's custom registry
const CustomRulePrefix = "Validates"

// Rule validation rule parsed from its string form, e.g. `len:3..32`
type Rule struct {
	Name   string
	Raw    string
	Args   []string
	Length *LengthRange
	Custom bool
}

func (rule Rule) String() string {
	return rule.Raw
}

// LengthRange bounds of a `len:` rule; nil bound means unbounded
type LengthRange struct {
	Min *int
	Max *int
}

// Contains reports whether n is within the range
func (r LengthRange) Contains(n int) bool {
	if r.Min != nil && n < *r.Min {
		return false
	}
	if r.Max != nil && n > *r.Max {
		return false
	}
	return true
}

func (r LengthRange) String() string {
	switch {
	case r.Min != nil && r.Max != nil && *r.Min == *r.Max:
		return fmt.Sprintf("exactly %d", *r.Min)
	case r.Min != nil && r.Max != nil:
		return fmt.Sprintf("between %d and %d", *r.Min, *r.Max)
	case r.Min != nil:
		return fmt.Sprintf("at least %d", *r.Min)
	case r.Max != nil:
		return fmt.Sprintf("at most %d", *r.Max)
	}
	return "any"
}

// RuleSet rules applying to a field on create and on update
type RuleSet struct {
	OnCreate []Rule
	OnUpdate []Rule
}

// For returns the rules of the given context
func (rs RuleSet) For(update bool) []Rule {
	if update {
		return rs.OnUpdate
	}
	return rs.OnCreate
}

// Empty reports whether no rule applies in any context
func (rs RuleSet) Empty() bool {
	return len(rs.OnCreate) == 0 && len(rs.OnUpdate) == 0
}

// Lookup first rule named name in either context
func (rs RuleSet) Lookup(name string) (Rule, bool) {
	for _, rules := range [][]Rule{rs.OnCreate, rs.OnUpdate} {
		for _, rule := range rules {
			if rule.Name == name {
				return rule, true
			}
		}
	}
	return Rule{}, false
}

// ParseRule parse the rule mini-language: `name`, `name:arg1,arg2`, `len:N`, `len:N..`, `len:..N`, `len:N..M`
func ParseRule(raw string) (Rule, error) {
	raw = strings.TrimSpace(raw)
	name, args, hasArgs := strings.Cut(raw, ":")
	if name == "" {
		return Rule{}, fmt.Errorf("%w %q", ErrInvalidRule, raw)
	}

	rule := Rule{Name: name, Raw: raw, Custom: strings.HasPrefix(name, CustomRulePrefix)}
	if hasArgs {
		if args == "" {
			return Rule{}, fmt.Errorf("%w %q: empty arguments", ErrInvalidRule, raw)
		}
		for _, arg := range strings.Split(args, ",") {
			rule.Args = append(rule.Args, strings.TrimSpace(arg))
		}
	}

	if name == "len" {
		if !hasArgs {
			return Rule{}, fmt.Errorf("%w %q: missing length", ErrInvalidRule, raw)
		}
		length, err := parseLength(args)
		if err != nil {
			return Rule{}, fmt.Errorf("%w %q: %v", ErrInvalidRule, raw, err)
		}
		rule.Length = length
	}
	return rule, nil
}

// ParseRules parse a list of rule strings
func ParseRules(raws []string) ([]Rule, error) {
	rules := make([]Rule, 0, len(raws))
	for _, raw := range raws {
		rule, err := ParseRule(raw)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	return rules, nil
}

func parseLength(s string) (*LengthRange, error) {
	lo, hi, isRange := strings.Cut(s, "..")
	if !isRange {
		n, err := parseBound(s)
		if err != nil {
			return nil, err
		}
		return &LengthRange{Min: n, Max: n}, nil
	}
	if lo == "" && hi == "" {
		return nil, fmt.Errorf("empty range")
	}

	r := &LengthRange{}
	var err error
	if lo != "" {
		if r.Min, err = parseBound(lo); err != nil {
			return nil, err
		}
	}
	if hi != "" {
		if r.Max, err = parseBound(hi); err != nil {
			return nil, err
		}
	}
	if r.Min != nil && r.Max != nil && *r.Min > *r.Max {
		return nil, fmt.Errorf("min %d greater than max %d", *r.Min, *r.Max)
	}
	return r, nil
}

func parseBound(s string) (*int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, fmt.Errorf("negative length %d", n)
	}
	return &n, nil
}
