package webform

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func workflowRuleObject(name string, seq int) map[string]any {
	return map[string]any{
		"ruleName":            name,
		"ruleSequence":        float64(seq),
		"ruleEventType":       "FormSubmit",
		"criteriaInformation": map[string]any{"conditions": []any{}},
	}
}

// wrap nests v inside n levels of single-key objects.
func wrap(v any, n int) any {
	for i := 0; i < n; i++ {
		v = map[string]any{"level": v}
	}
	return v
}

func mustExtract(t *testing.T, root any) *ParsedDocument {
	t.Helper()
	doc, err := Extract(root, DefaultConfig())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	return doc
}

func TestExtract_FieldCollection(t *testing.T) {
	root := map[string]any{
		"form": map[string]any{
			"fields": []any{fieldObject("firstName"), fieldObject("lastName"), fieldObject("email")},
		},
	}
	doc := mustExtract(t, root)

	if doc.FieldsFinding.Count != 3 {
		t.Errorf("count: got %d, want 3", doc.FieldsFinding.Count)
	}
	if doc.FieldsFinding.Path != "$.form.fields" {
		t.Errorf("path: got %q, want %q", doc.FieldsFinding.Path, "$.form.fields")
	}
	if len(doc.Fields) != 3 || doc.Fields[0].FieldKey != "firstName" {
		t.Errorf("unexpected fields: %+v", doc.Fields)
	}
}

func TestExtract_PicksLongestArray(t *testing.T) {
	root := map[string]any{
		"a": []any{fieldObject("one"), fieldObject("two")},
		"b": map[string]any{
			"inner": []any{fieldObject("x"), fieldObject("y"), fieldObject("z"), fieldObject("w")},
		},
	}
	doc := mustExtract(t, root)

	if doc.FieldsFinding.Count != 4 {
		t.Errorf("count: got %d, want 4 (longest array)", doc.FieldsFinding.Count)
	}
	if doc.FieldsFinding.Path != "$.b.inner" {
		t.Errorf("path: got %q, want %q", doc.FieldsFinding.Path, "$.b.inner")
	}
}

func TestExtract_LongestTieBreaksToFirstEncountered(t *testing.T) {
	root := map[string]any{
		"alpha": []any{fieldObject("one"), fieldObject("two")},
		"beta":  []any{fieldObject("three"), fieldObject("four")},
	}
	doc := mustExtract(t, root)

	// Object keys are traversed in sorted order, so "alpha" is seen first.
	if doc.FieldsFinding.Path != "$.alpha" {
		t.Errorf("path: got %q, want %q", doc.FieldsFinding.Path, "$.alpha")
	}
}

func TestExtract_CountIsArrayLengthWithNonMatchingTail(t *testing.T) {
	arr := []any{
		fieldObject("a"), fieldObject("b"), fieldObject("c"), fieldObject("d"),
		map[string]any{"unrelated": true},
	}
	doc := mustExtract(t, map[string]any{"fields": arr})

	if doc.FieldsFinding.Count != 5 {
		t.Errorf("count: got %d, want the full array length 5", doc.FieldsFinding.Count)
	}
	if len(doc.Fields) != 4 {
		t.Errorf("decoded fields: got %d, want 4", len(doc.Fields))
	}
}

func TestExtract_ScatteredFallback(t *testing.T) {
	root := map[string]any{
		"a": map[string]any{"field": fieldObject("scatteredOne")},
		"b": map[string]any{"deep": map[string]any{"field": fieldObject("scatteredTwo")}},
	}
	doc := mustExtract(t, root)

	if doc.FieldsFinding.Count != 2 {
		t.Fatalf("count: got %d, want 2", doc.FieldsFinding.Count)
	}
	if doc.FieldsFinding.Path != PathScattered {
		t.Errorf("path: got %q, want %q", doc.FieldsFinding.Path, PathScattered)
	}
	if doc.Fields[0].FieldKey != "scatteredOne" || doc.Fields[1].FieldKey != "scatteredTwo" {
		t.Errorf("discovery order not preserved: %+v", doc.Fields)
	}
}

func TestExtract_AbsenceIsZeroCount(t *testing.T) {
	doc := mustExtract(t, map[string]any{"nothing": "here"})

	for kind, finding := range map[string]Finding{
		"fields":        doc.FieldsFinding,
		"uiFields":      doc.UIFieldsFinding,
		"translations":  doc.TranslationsFinding,
		"workflowRules": doc.WorkflowRulesFinding,
		"visibility":    doc.VisibilityFinding,
		"metadata":      doc.MetadataFinding,
	} {
		if finding.Found() {
			t.Errorf("%s: expected zero-count finding, got %+v", kind, finding)
		}
	}
}

func TestExtract_MetadataFirstMatchWins(t *testing.T) {
	md := func(name string) map[string]any {
		return map[string]any{
			"templateName": name,
			"subjectTypes": []any{"Individual"},
			"requestTypes": []any{"Access"},
		}
	}
	root := map[string]any{
		"aaa": md("first"),
		"zzz": md("second"),
	}
	doc := mustExtract(t, root)

	if doc.Metadata == nil || doc.Metadata.TemplateName != "first" {
		t.Fatalf("expected first metadata in traversal order, got %+v", doc.Metadata)
	}
	if doc.MetadataFinding.Path != "$.aaa" {
		t.Errorf("path: got %q", doc.MetadataFinding.Path)
	}
}

func TestExtract_TranslationBundleLargestWins(t *testing.T) {
	root := map[string]any{
		"small": map[string]any{
			"en": map[string]any{"k": "v"},
		},
		"big": map[string]any{
			"en":    map[string]any{"greeting": "Hello", "farewell": "Bye"},
			"en-us": map[string]any{"greeting": "Hello"},
			"fr":    map[string]any{"greeting": "Bonjour"},
		},
	}
	doc := mustExtract(t, root)

	if doc.TranslationsFinding.Path != "$.big" {
		t.Errorf("path: got %q, want %q", doc.TranslationsFinding.Path, "$.big")
	}
	if doc.TranslationsFinding.Count != 3 {
		t.Errorf("count: got %d, want 3 languages", doc.TranslationsFinding.Count)
	}
	if doc.Translations["fr"]["greeting"] != "Bonjour" {
		t.Errorf("unexpected translations: %+v", doc.Translations)
	}
}

func TestExtract_VisibilityAggregation(t *testing.T) {
	withRules := fieldObject("country")
	withRules["hasVisibilityRule"] = true
	withRules["visibilityRules"] = map[string]any{
		"rules": []any{
			map[string]any{
				"ruleName":                     "show for business",
				"ruleConditions":               []any{map[string]any{"field": "subjectType", "operator": "equals", "value": "Business"}},
				"actions":                      []any{"show"},
				"logicalOperatorForConditions": "AND",
			},
			map[string]any{
				"ruleName":                     "hide otherwise",
				"ruleConditions":               []any{},
				"actions":                      []any{"hide"},
				"logicalOperatorForConditions": "OR",
			},
		},
	}
	flagOnly := fieldObject("email")
	flagOnly["hasVisibilityRule"] = true // flag set but no rules array

	doc := mustExtract(t, map[string]any{"fields": []any{withRules, flagOnly, fieldObject("plain")}})

	if doc.VisibilityFinding.Count != 2 {
		t.Fatalf("total rules: got %d, want 2", doc.VisibilityFinding.Count)
	}
	rules, ok := doc.VisibilityRules["country"]
	if !ok || len(rules) != 2 {
		t.Fatalf("expected 2 rules keyed by country, got %+v", doc.VisibilityRules)
	}
	if rules[0].RuleName != "show for business" || rules[0].LogicalOperator != "AND" {
		t.Errorf("unexpected first rule: %+v", rules[0])
	}
	if len(rules[0].Conditions) != 1 || rules[0].Conditions[0].Field != "subjectType" {
		t.Errorf("unexpected conditions: %+v", rules[0].Conditions)
	}
	if _, ok := doc.VisibilityRules["email"]; ok {
		t.Error("field with flag but no rules should not be indexed")
	}
}

func TestExtract_RoundTripSyntheticDocument(t *testing.T) {
	const nFields, mRules = 7, 4

	fields := make([]any, 0, nFields)
	for i := 0; i < nFields; i++ {
		fields = append(fields, fieldObject(fmt.Sprintf("field%02d", i)))
	}
	rules := make([]any, 0, mRules)
	for i := 0; i < mRules; i++ {
		rules = append(rules, workflowRuleObject(fmt.Sprintf("rule%02d", i), i))
	}

	root := map[string]any{
		"noise":    []any{"a", float64(1), nil, true},
		"wrapped":  wrap(map[string]any{"fields": fields}, 3),
		"workflow": map[string]any{"rules": rules},
	}
	doc := mustExtract(t, root)

	if doc.FieldsFinding.Count != nFields {
		t.Errorf("field count: got %d, want %d", doc.FieldsFinding.Count, nFields)
	}
	if doc.WorkflowRulesFinding.Count != mRules {
		t.Errorf("workflow rule count: got %d, want %d", doc.WorkflowRulesFinding.Count, mRules)
	}
	if doc.WorkflowRules[0].RuleName != "rule00" || doc.WorkflowRules[0].RuleEventType != "FormSubmit" {
		t.Errorf("unexpected first rule: %+v", doc.WorkflowRules[0])
	}
}

func TestExtract_DepthCeilingBoundary(t *testing.T) {
	cfg := DefaultConfig()

	// The fields array sits under MaxDepth wrapping keys plus its own key,
	// placing the array node exactly at the ceiling depth.
	atCeiling := wrap(map[string]any{"fields": []any{fieldObject("deep")}}, cfg.MaxDepth-1)
	doc, err := Extract(atCeiling, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if doc.FieldsFinding.Count != 1 {
		t.Errorf("at ceiling: got count %d, want 1", doc.FieldsFinding.Count)
	}

	oneDeeper := wrap(map[string]any{"fields": []any{fieldObject("tooDeep")}}, cfg.MaxDepth)
	doc, err = Extract(oneDeeper, cfg)
	if err != nil {
		t.Fatal(err)
	}
	if doc.FieldsFinding.Found() {
		t.Errorf("beyond ceiling: got %+v, want nothing", doc.FieldsFinding)
	}
}

func TestExtract_Deterministic(t *testing.T) {
	data := []byte(`{
		"zeta": {"fields": [
			{"fieldKey": "a", "inputType": "Text Field", "isRequired": true, "status": 1, "isMasked": false},
			{"fieldKey": "b", "inputType": "Multiselect", "isRequired": false, "canDelete": true, "isInternal": false}
		]},
		"alpha": {"formTranslations": {
			"en": {"k1": "v1"}, "en-us": {"k1": "v1us"}, "de": {"k1": "v1de"}
		}},
		"meta": {"templateName": "T", "subjectTypes": ["Individual"], "requestTypes": ["Access"], "defaultLanguage": "en"}
	}`)

	run := func() *ParsedDocument {
		root, err := ParseDocument(data)
		if err != nil {
			t.Fatal(err)
		}
		doc, err := Extract(root, DefaultConfig())
		if err != nil {
			t.Fatal(err)
		}
		return doc
	}

	first, second := run(), run()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("extraction is not deterministic (-first +second):\n%s", diff)
	}
}

func TestParseDocument_MalformedInput(t *testing.T) {
	if _, err := ParseDocument([]byte("{not json")); err == nil {
		t.Fatal("expected error for malformed input")
	}
}
