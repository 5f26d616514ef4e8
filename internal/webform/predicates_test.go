package webform

import "testing"

func fieldObject(key string) map[string]any {
	return map[string]any{
		"fieldKey":   key,
		"inputType":  "Text Field",
		"isRequired": true,
		"status":     float64(1),
		"isSelected": true,
	}
}

func TestIsFieldShape(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		obj  map[string]any
		want bool
	}{
		{"full_field", fieldObject("firstName"), true},
		{"missing_input_type", map[string]any{
			"fieldKey": "a", "isRequired": true, "status": float64(1), "isSelected": true,
		}, false},
		{"only_one_extra", map[string]any{
			"fieldKey": "a", "inputType": "Text Field", "isRequired": true, "status": float64(1),
		}, false},
		{"extras_wrong_type", map[string]any{
			"fieldKey": "a", "inputType": "Text Field", "isRequired": true,
			"status": "active", "isSelected": "yes",
		}, false},
		{"required_not_bool", map[string]any{
			"fieldKey": "a", "inputType": "Text Field", "isRequired": "true",
			"status": float64(1), "isSelected": true,
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isFieldShape(tt.obj, cfg); got != tt.want {
				t.Errorf("isFieldShape = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsWorkflowRuleShape(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		obj  map[string]any
		want bool
	}{
		{"name_plus_criteria_and_sequence", map[string]any{
			"ruleName":            "route access",
			"criteriaInformation": map[string]any{},
			"ruleSequence":        float64(1),
		}, true},
		{"name_plus_event_and_action", map[string]any{
			"ruleName":       "route access",
			"ruleEventType":  "FormSubmit",
			"ruleActionType": "AssignWorkflow",
		}, true},
		{"name_only", map[string]any{"ruleName": "lonely"}, false},
		{"one_extra", map[string]any{
			"ruleName":      "close",
			"ruleEventType": "FormSubmit",
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isWorkflowRuleShape(tt.obj, cfg); got != tt.want {
				t.Errorf("isWorkflowRuleShape = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsVisibilityRuleShape_AllFourRequired(t *testing.T) {
	full := map[string]any{
		"ruleName":                     "hide when business",
		"ruleConditions":               []any{},
		"actions":                      []any{},
		"logicalOperatorForConditions": "AND",
	}
	if !isVisibilityRuleShape(full) {
		t.Fatal("expected full visibility rule to match")
	}
	for _, drop := range []string{"ruleName", "ruleConditions", "actions", "logicalOperatorForConditions"} {
		partial := map[string]any{}
		for k, v := range full {
			if k != drop {
				partial[k] = v
			}
		}
		if isVisibilityRuleShape(partial) {
			t.Errorf("expected rule without %q to be rejected", drop)
		}
	}
}

func TestIsUIFieldShape(t *testing.T) {
	tests := []struct {
		name string
		obj  map[string]any
		want bool
	}{
		{"dsar_prefix_with_translations", map[string]any{
			"fieldKey":     "DSAR.Webform.FirstName",
			"translations": map[string]any{"en": "First name"},
		}, true},
		{"visibility_rule_key", map[string]any{
			"fieldKey":          "FirstNameVisibilityRule1",
			"hasVisibilityRule": true,
		}, true},
		{"button_key", map[string]any{
			"fieldKey":          "SubmitButton",
			"hasVisibilityRule": false,
		}, true},
		{"plain_key", map[string]any{
			"fieldKey":     "firstName",
			"translations": map[string]any{},
		}, false},
		{"named_but_no_evidence", map[string]any{
			"fieldKey": "DSAR.Webform.FirstName",
		}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isUIFieldShape(tt.obj); got != tt.want {
				t.Errorf("isUIFieldShape = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsTranslationBundle(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name string
		obj  map[string]any
		want bool
	}{
		{"all_language_keys", map[string]any{
			"en":    map[string]any{"k": "v"},
			"en-us": map[string]any{"k": "v"},
			"fr":    map[string]any{"k": "v"},
		}, true},
		{"half_language_keys", map[string]any{
			"en":                 map[string]any{"k": "v"},
			"not-a-lang-key-at-all": map[string]any{"k": "v"},
		}, false},
		{"language_keys_scalar_values", map[string]any{
			"en": "hello",
			"fr": "bonjour",
		}, false},
		{"empty", map[string]any{}, false},
		{"four_of_five", map[string]any{
			"en":    map[string]any{},
			"en-us": map[string]any{},
			"fr":    map[string]any{},
			"de":    map[string]any{},
			"xx-yy-zz": map[string]any{},
		}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isTranslationBundle(tt.obj, cfg); got != tt.want {
				t.Errorf("isTranslationBundle = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsMetadataShape(t *testing.T) {
	cfg := DefaultConfig()

	obj := map[string]any{
		"templateName": "EU Privacy Intake",
		"subjectTypes": []any{"Individual"},
		"requestTypes": []any{"Access"},
	}
	if !isMetadataShape(obj, cfg) {
		t.Fatal("expected metadata object to match")
	}
	if isMetadataShape(map[string]any{"templateName": "x", "defaultLanguage": "en"}, cfg) {
		t.Error("one corroborating property should not be enough")
	}
	if isMetadataShape(map[string]any{"subjectTypes": []any{}, "requestTypes": []any{}}, cfg) {
		t.Error("templateName is required")
	}
}

func TestIsCollectionOf(t *testing.T) {
	cfg := DefaultConfig()
	pred := func(o map[string]any) bool { return isFieldShape(o, cfg) }

	t.Run("all_match", func(t *testing.T) {
		arr := []any{fieldObject("a"), fieldObject("b")}
		if !isCollectionOf(arr, cfg, pred) {
			t.Error("expected homogeneous array to qualify")
		}
	})
	t.Run("four_of_five", func(t *testing.T) {
		arr := []any{fieldObject("a"), fieldObject("b"), fieldObject("c"), fieldObject("d"), map[string]any{"x": "y"}}
		if !isCollectionOf(arr, cfg, pred) {
			t.Error("expected 0.8 ratio to qualify")
		}
	})
	t.Run("below_ratio", func(t *testing.T) {
		arr := []any{fieldObject("a"), map[string]any{"x": "y"}}
		if isCollectionOf(arr, cfg, pred) {
			t.Error("expected 0.5 ratio to be rejected")
		}
	})
	t.Run("empty", func(t *testing.T) {
		if isCollectionOf(nil, cfg, pred) {
			t.Error("expected empty array to be rejected")
		}
	})
}
