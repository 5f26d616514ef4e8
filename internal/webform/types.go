// Package webform locates and normalizes the semantically meaningful parts of
// a privacy-request webform export: field definitions, UI fields, translation
// bundles, workflow rules, per-field visibility rules, and form metadata.
//
// Exports come from an external system whose layout shifts across versions and
// tenants, so nothing is looked up by a known key path. Instead the extractor
// walks the whole document and recognizes each kind by its structural
// fingerprint (see predicates.go).
package webform

import "sort"

// PathScattered marks a collection assembled from individual matches found
// across the tree rather than a single qualifying array.
const PathScattered = "scattered"

// Finding describes where (and whether) one semantic kind was located.
// A zero Count means the kind is absent from the document; absence is a
// normal outcome, not an error.
type Finding struct {
	Count int    `yaml:"count"          json:"count"`
	Path  string `yaml:"path,omitempty" json:"path,omitempty"`
}

// Found reports whether anything was located.
func (f Finding) Found() bool { return f.Count > 0 }

// FieldDefinition is one form field. Identity is FieldKey, unique within a
// document. Immutable after extraction.
type FieldDefinition struct {
	FieldKey   string `yaml:"fieldKey"             json:"fieldKey"`
	InputType  string `yaml:"inputType"            json:"inputType"`
	IsRequired bool   `yaml:"isRequired"           json:"isRequired"`
	Status     *int   `yaml:"status,omitempty"     json:"status,omitempty"`
	IsSelected *bool  `yaml:"isSelected,omitempty" json:"isSelected,omitempty"`
	CanDelete  *bool  `yaml:"canDelete,omitempty"  json:"canDelete,omitempty"`
	IsMasked   *bool  `yaml:"isMasked,omitempty"   json:"isMasked,omitempty"`
	IsInternal *bool  `yaml:"isInternal,omitempty" json:"isInternal,omitempty"`

	HasVisibilityRule bool             `yaml:"hasVisibilityRule,omitempty" json:"hasVisibilityRule,omitempty"`
	VisibilityRules   []VisibilityRule `yaml:"visibilityRules,omitempty"   json:"visibilityRules,omitempty"`
}

// VisibilityRule is a condition/action pair embedded in a single field,
// controlling that field's display.
type VisibilityRule struct {
	RuleName        string          `yaml:"ruleName"           json:"ruleName"`
	Conditions      []RuleCondition `yaml:"ruleConditions"     json:"ruleConditions"`
	Actions         []any           `yaml:"actions"            json:"actions"`
	LogicalOperator string          `yaml:"logicalOperator"    json:"logicalOperator"`
}

// RuleCondition is one atomic comparison inside a visibility rule.
type RuleCondition struct {
	Field    string `yaml:"field"              json:"field"`
	Operator string `yaml:"operator"           json:"operator"`
	Value    any    `yaml:"value,omitempty"    json:"value,omitempty"`
}

// UIFieldDefinition is a presentation-layer field keyed by a dotted key
// (conventionally prefixed "DSAR.Webform." or naming a VisibilityRule or
// Button). It lives in a separate namespace from FieldDefinition; the two are
// correlated only by key substrings.
type UIFieldDefinition struct {
	FieldKey          string            `yaml:"fieldKey"                    json:"fieldKey"`
	Translations      map[string]string `yaml:"translations,omitempty"      json:"translations,omitempty"`
	HasVisibilityRule bool              `yaml:"hasVisibilityRule,omitempty" json:"hasVisibilityRule,omitempty"`
}

// TranslationSet maps a language code ("en", "en-us") to that language's
// translation-key → localized-string table.
type TranslationSet map[string]map[string]string

// Languages returns the language codes present, in sorted order.
func (t TranslationSet) Languages() []string {
	langs := make([]string, 0, len(t))
	for lang := range t {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// WorkflowRule is a top-level condition/action pair that fires based on
// submitted form values. Criteria holds the raw criteriaInformation payload;
// it is decoded tolerantly by the coverage package at evaluation time so that
// one malformed rule never aborts an analysis.
type WorkflowRule struct {
	RuleName       string `yaml:"ruleName"                 json:"ruleName"`
	RuleSequence   int    `yaml:"ruleSequence"             json:"ruleSequence"`
	RuleEventType  string `yaml:"ruleEventType,omitempty"  json:"ruleEventType,omitempty"`
	RuleActionType string `yaml:"ruleActionType,omitempty" json:"ruleActionType,omitempty"`
	Criteria       any    `yaml:"criteria,omitempty"       json:"criteria,omitempty"`
}

// Metadata is the singleton form-level descriptor.
type Metadata struct {
	TemplateName    string   `yaml:"templateName"              json:"templateName"`
	DefaultLanguage string   `yaml:"defaultLanguage,omitempty" json:"defaultLanguage,omitempty"`
	LanguageList    []string `yaml:"languageList,omitempty"    json:"languageList,omitempty"`
	RequestTypes    []string `yaml:"requestTypes,omitempty"    json:"requestTypes,omitempty"`
	SubjectTypes    []string `yaml:"subjectTypes,omitempty"    json:"subjectTypes,omitempty"`
}

// ParsedDocument is the normalized output of one extraction call. It owns all
// parsed structures; downstream consumers (coverage analysis, rendering,
// export) borrow from it and never reach back into the raw document.
type ParsedDocument struct {
	Fields        []FieldDefinition `yaml:"fields,omitempty"        json:"fields,omitempty"`
	FieldsFinding Finding           `yaml:"fieldsFinding"           json:"fieldsFinding"`

	UIFields        []UIFieldDefinition `yaml:"uiFields,omitempty" json:"uiFields,omitempty"`
	UIFieldsFinding Finding             `yaml:"uiFieldsFinding"    json:"uiFieldsFinding"`

	Translations        TranslationSet `yaml:"translations,omitempty" json:"translations,omitempty"`
	TranslationsFinding Finding        `yaml:"translationsFinding"    json:"translationsFinding"`

	WorkflowRules        []WorkflowRule `yaml:"workflowRules,omitempty" json:"workflowRules,omitempty"`
	WorkflowRulesFinding Finding        `yaml:"workflowRulesFinding"    json:"workflowRulesFinding"`

	// VisibilityRules is keyed by the owning field's fieldKey. Its Finding
	// Count is the document-wide total number of visibility rules.
	VisibilityRules   map[string][]VisibilityRule `yaml:"visibilityRules,omitempty" json:"visibilityRules,omitempty"`
	VisibilityFinding Finding                     `yaml:"visibilityFinding"         json:"visibilityFinding"`

	Metadata        *Metadata `yaml:"metadata,omitempty" json:"metadata,omitempty"`
	MetadataFinding Finding   `yaml:"metadataFinding"    json:"metadataFinding"`
}
