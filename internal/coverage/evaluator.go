// Package coverage evaluates workflow rule conditions and reports, for every
// subject-type × request-type combination a webform declares, whether at
// least one workflow rule would match it. Combinations no rule matches are
// coverage gaps.
package coverage

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedCondition indicates a rule's criteria payload lacks the
// expected structure. The analyzer skips such rules and records them in the
// report diagnostics instead of aborting.
var ErrMalformedCondition = errors.New("malformed rule condition")

// Bag is a flat mapping from field identifier to the value(s) currently
// assigned to it. Keys are normalized on insert and lookup; a field absent
// from the bag evaluates as empty, never as a failure.
type Bag map[string][]string

// NewBag builds a bag from identifier/value pairs.
func NewBag(pairs map[string][]string) Bag {
	b := make(Bag, len(pairs))
	for k, vals := range pairs {
		b[normalizeKey(k)] = vals
	}
	return b
}

// Set assigns a single value to a field.
func (b Bag) Set(field, value string) {
	b[normalizeKey(field)] = []string{value}
}

func (b Bag) lookup(field string) []string {
	return b[normalizeKey(field)]
}

// ConditionSet is a decoded criteria payload: atomic conditions plus nested
// groups, combined with one logical operator.
type ConditionSet struct {
	Operator   string         `yaml:"operator"             json:"operator"`
	Conditions []Condition    `yaml:"conditions,omitempty" json:"conditions,omitempty"`
	Groups     []ConditionSet `yaml:"groups,omitempty"     json:"groups,omitempty"`
}

// Condition is one atomic comparison against a field's current value.
type Condition struct {
	Field    string   `yaml:"field"            json:"field"`
	Operator string   `yaml:"operator"         json:"operator"`
	Values   []string `yaml:"values,omitempty" json:"values,omitempty"`
}

// Canonical operator tokens. Payload spellings are normalized onto these.
const (
	OpEquals      = "equals"
	OpNotEquals   = "not-equals"
	OpContains    = "contains"
	OpNotContains = "not-contains"
	OpIsEmpty     = "is-empty"
	OpIsNotEmpty  = "is-not-empty"
	OpIn          = "in"
)

var operatorAliases = map[string]string{
	"equals":         OpEquals,
	"equal":          OpEquals,
	"eq":             OpEquals,
	"is":             OpEquals,
	"==":             OpEquals,
	"notequals":      OpNotEquals,
	"notequal":       OpNotEquals,
	"isnot":          OpNotEquals,
	"ne":             OpNotEquals,
	"!=":             OpNotEquals,
	"contains":       OpContains,
	"includes":       OpContains,
	"doesnotcontain": OpNotContains,
	"notcontains":    OpNotContains,
	"isempty":        OpIsEmpty,
	"empty":          OpIsEmpty,
	"isnotempty":     OpIsNotEmpty,
	"notempty":       OpIsNotEmpty,
	"in":             OpIn,
	"anyof":          OpIn,
	"oneof":          OpIn,
}

// ParseCriteria decodes a raw criteriaInformation payload into a
// ConditionSet. The source system has shipped several spellings of the same
// structure over the years, so key names are matched against known variants.
// A nil payload decodes to an empty AND set, which is vacuously true.
func ParseCriteria(raw any) (*ConditionSet, error) {
	switch payload := raw.(type) {
	case nil:
		return &ConditionSet{Operator: "AND"}, nil
	case []any:
		// A bare condition list is an implicit AND.
		return parseConditionList(payload, "AND")
	case map[string]any:
		return parseCriteriaObject(payload)
	default:
		return nil, fmt.Errorf("%w: unsupported payload type %T", ErrMalformedCondition, raw)
	}
}

func parseCriteriaObject(obj map[string]any) (*ConditionSet, error) {
	operator := "AND"
	for _, key := range []string{"logicalOperator", "logicalOperatorForConditions", "operator", "combinator"} {
		if s, ok := obj[key].(string); ok && s != "" {
			operator = strings.ToUpper(strings.TrimSpace(s))
			break
		}
	}
	if operator != "AND" && operator != "OR" {
		return nil, fmt.Errorf("%w: unknown logical operator %q", ErrMalformedCondition, operator)
	}

	for _, key := range []string{"conditions", "criteriaList", "ruleConditions", "criteria"} {
		if list, ok := obj[key].([]any); ok {
			return parseConditionList(list, operator)
		}
	}
	return nil, fmt.Errorf("%w: no condition list present", ErrMalformedCondition)
}

func parseConditionList(list []any, operator string) (*ConditionSet, error) {
	set := &ConditionSet{Operator: operator}
	for i, el := range list {
		obj, ok := el.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: condition %d is not an object", ErrMalformedCondition, i)
		}
		// A list element carrying its own condition list is a nested group,
		// evaluated recursively with the same combinator rules.
		if isGroup(obj) {
			group, err := parseCriteriaObject(obj)
			if err != nil {
				return nil, err
			}
			set.Groups = append(set.Groups, *group)
			continue
		}
		cond, err := parseCondition(obj, i)
		if err != nil {
			return nil, err
		}
		set.Conditions = append(set.Conditions, cond)
	}
	return set, nil
}

func isGroup(obj map[string]any) bool {
	for _, key := range []string{"conditions", "criteriaList", "ruleConditions", "criteria"} {
		if _, ok := obj[key].([]any); ok {
			return true
		}
	}
	return false
}

func parseCondition(obj map[string]any, index int) (Condition, error) {
	var field string
	for _, key := range []string{"field", "fieldName", "fieldKey", "attributeName", "conditionField"} {
		if s, ok := obj[key].(string); ok && s != "" {
			field = s
			break
		}
	}
	if field == "" {
		return Condition{}, fmt.Errorf("%w: condition %d has no field identifier", ErrMalformedCondition, index)
	}

	operator := OpEquals
	for _, key := range []string{"operator", "conditionOperator", "comparison"} {
		if s, ok := obj[key].(string); ok && s != "" {
			canonical, known := operatorAliases[normalizeOperator(s)]
			if !known {
				return Condition{}, fmt.Errorf("%w: condition %d has unknown operator %q", ErrMalformedCondition, index, s)
			}
			operator = canonical
			break
		}
	}

	var values []string
	for _, key := range []string{"value", "values", "conditionValue"} {
		v, ok := obj[key]
		if !ok {
			continue
		}
		values = coerceValues(v)
		break
	}
	return Condition{Field: field, Operator: operator, Values: values}, nil
}

// Evaluate reports whether the condition set matches the bag. It is a pure
// function of its inputs: AND is vacuously true on an empty set, OR requires
// at least one true condition or group.
func Evaluate(bag Bag, set *ConditionSet) bool {
	return evaluate(bag, set, nil)
}

// evaluate walks the set recursively. The override, when non-nil, may decide
// a condition before normal evaluation; the analyzer uses it for lenient
// handling of non-dimension fields.
func evaluate(bag Bag, set *ConditionSet, override func(Condition) (bool, bool)) bool {
	total := len(set.Conditions) + len(set.Groups)
	if total == 0 {
		return true
	}
	and := set.Operator != "OR"
	for _, cond := range set.Conditions {
		matched := false
		if override != nil {
			if v, decided := override(cond); decided {
				matched = v
			} else {
				matched = evalCondition(bag, cond)
			}
		} else {
			matched = evalCondition(bag, cond)
		}
		if and && !matched {
			return false
		}
		if !and && matched {
			return true
		}
	}
	for _, group := range set.Groups {
		matched := evaluate(bag, &group, override)
		if and && !matched {
			return false
		}
		if !and && matched {
			return true
		}
	}
	return and
}

func evalCondition(bag Bag, cond Condition) bool {
	current := bag.lookup(cond.Field)
	switch cond.Operator {
	case OpEquals:
		return anyValue(current, cond.Values, equalFold)
	case OpNotEquals:
		return !anyValue(current, cond.Values, equalFold)
	case OpContains:
		return anyValue(current, cond.Values, containsFold)
	case OpNotContains:
		return !anyValue(current, cond.Values, containsFold)
	case OpIsEmpty:
		return isEmptyValue(current)
	case OpIsNotEmpty:
		return !isEmptyValue(current)
	case OpIn:
		return anyValue(current, cond.Values, equalFold)
	default:
		return false
	}
}

// anyValue reports whether any (current, candidate) pair satisfies match.
func anyValue(current, candidates []string, match func(a, b string) bool) bool {
	for _, have := range current {
		for _, want := range candidates {
			if match(have, want) {
				return true
			}
		}
	}
	return false
}

func equalFold(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

func containsFold(a, b string) bool {
	return strings.Contains(strings.ToLower(a), strings.ToLower(strings.TrimSpace(b)))
}

func isEmptyValue(vals []string) bool {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// coerceValues flattens a comparison value into strings. Arrays become one
// candidate per element; scalars become a single candidate.
func coerceValues(v any) []string {
	switch val := v.(type) {
	case nil:
		return nil
	case string:
		return []string{val}
	case []any:
		var out []string
		for _, el := range val {
			out = append(out, coerceValues(el)...)
		}
		return out
	case float64:
		return []string{fmt.Sprintf("%v", val)}
	case bool:
		if val {
			return []string{"true"}
		}
		return []string{"false"}
	default:
		return []string{fmt.Sprintf("%v", val)}
	}
}

// normalizeKey makes field identifier comparison tolerant of case and
// separator differences across tenants.
func normalizeKey(k string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(k) {
		if r == ' ' || r == '_' || r == '-' || r == '.' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func normalizeOperator(op string) string {
	return normalizeKey(op)
}
