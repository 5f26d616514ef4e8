package webform

import (
	"regexp"
	"strings"
)

// Extraction thresholds are policy, not structural necessity; they live on
// Config so callers can tune them per tenant.
const (
	// DefaultMaxDepth bounds traversal. Parsed JSON cannot be cyclic, but the
	// ceiling also caps pathological breadth×depth blow-up. Root is depth 0.
	DefaultMaxDepth = 10

	// DefaultCollectionRatio is the fraction of an array's elements (or a
	// candidate bundle's keys) that must match for collection-level promotion.
	DefaultCollectionRatio = 0.8

	// DefaultMinExtraProps is the "at least 2 of N" corroborating-property
	// threshold used by the looser object predicates.
	DefaultMinExtraProps = 2
)

// defaultLanguagePattern matches 2-letter language codes and locale forms
// such as "en" or "en-us".
var defaultLanguagePattern = regexp.MustCompile(`^[a-zA-Z]{1,2}(-[a-zA-Z]{2})?$`)

// Config carries the extractor's tunable policy.
type Config struct {
	MaxDepth        int
	CollectionRatio float64
	MinExtraProps   int
	LanguagePattern *regexp.Regexp
}

// DefaultConfig returns the standard extraction policy.
func DefaultConfig() Config {
	return Config{
		MaxDepth:        DefaultMaxDepth,
		CollectionRatio: DefaultCollectionRatio,
		MinExtraProps:   DefaultMinExtraProps,
		LanguagePattern: defaultLanguagePattern,
	}
}

// isFieldShape recognizes a form field definition: the three core properties
// plus enough corroborating flags to rule out coincidental objects.
func isFieldShape(obj map[string]any, cfg Config) bool {
	if !hasString(obj, "fieldKey") || !hasString(obj, "inputType") || !hasBool(obj, "isRequired") {
		return false
	}
	extras := 0
	if hasNumber(obj, "status") {
		extras++
	}
	for _, key := range []string{"isSelected", "canDelete", "isMasked", "isInternal"} {
		if hasBool(obj, key) {
			extras++
		}
	}
	return extras >= cfg.MinExtraProps
}

// isWorkflowRuleShape recognizes a top-level workflow rule.
func isWorkflowRuleShape(obj map[string]any, cfg Config) bool {
	if !hasString(obj, "ruleName") {
		return false
	}
	extras := 0
	if _, ok := obj["criteriaInformation"]; ok {
		extras++
	}
	if hasString(obj, "ruleEventType") {
		extras++
	}
	if hasString(obj, "ruleActionType") {
		extras++
	}
	if hasNumber(obj, "ruleSequence") {
		extras++
	}
	return extras >= cfg.MinExtraProps
}

// isVisibilityRuleShape recognizes a field-embedded visibility rule. All four
// properties are required: these always occur nested inside a field and must
// not be confused with top-level workflow rules.
func isVisibilityRuleShape(obj map[string]any) bool {
	return hasString(obj, "ruleName") &&
		hasArray(obj, "ruleConditions") &&
		hasArray(obj, "actions") &&
		hasString(obj, "logicalOperatorForConditions")
}

// isUIFieldShape recognizes a presentation-layer field by its dotted-key
// naming convention plus a translations map or visibility flag.
func isUIFieldShape(obj map[string]any) bool {
	key, ok := asString(obj["fieldKey"])
	if !ok {
		return false
	}
	named := strings.HasPrefix(key, "DSAR.Webform.") ||
		strings.Contains(key, "VisibilityRule") ||
		strings.Contains(key, "Button")
	if !named {
		return false
	}
	return hasObject(obj, "translations") || hasBool(obj, "hasVisibilityRule")
}

// isTranslationBundle recognizes a language → translation-table object: at
// least CollectionRatio of the keys must be language-code-shaped and at least
// CollectionRatio of the values must themselves be objects.
func isTranslationBundle(obj map[string]any, cfg Config) bool {
	if len(obj) == 0 {
		return false
	}
	langKeys, objectVals := 0, 0
	for key, val := range obj {
		if cfg.LanguagePattern.MatchString(key) {
			langKeys++
		}
		if _, ok := asObject(val); ok {
			objectVals++
		}
	}
	total := float64(len(obj))
	return float64(langKeys)/total >= cfg.CollectionRatio &&
		float64(objectVals)/total >= cfg.CollectionRatio
}

// isMetadataShape recognizes the singleton form-level descriptor.
func isMetadataShape(obj map[string]any, cfg Config) bool {
	if !hasString(obj, "templateName") {
		return false
	}
	extras := 0
	if hasArray(obj, "languageList") {
		extras++
	}
	if hasString(obj, "defaultLanguage") {
		extras++
	}
	if hasArray(obj, "requestTypes") {
		extras++
	}
	if hasArray(obj, "subjectTypes") {
		extras++
	}
	return extras >= cfg.MinExtraProps
}

// isCollectionOf classifies an array as a homogeneous collection of one kind:
// at least one element matches and the match ratio meets the threshold.
func isCollectionOf(arr []any, cfg Config, pred func(map[string]any) bool) bool {
	if len(arr) == 0 {
		return false
	}
	matched := 0
	for _, el := range arr {
		if obj, ok := asObject(el); ok && pred(obj) {
			matched++
		}
	}
	return matched >= 1 && float64(matched)/float64(len(arr)) >= cfg.CollectionRatio
}
