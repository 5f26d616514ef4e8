package webform

// Decoders turn predicate-matched raw objects into the normalized model.
// They are deliberately forgiving: the predicates already established the
// shape, and anything optional that is missing or mistyped simply stays zero.

func decodeField(obj map[string]any) FieldDefinition {
	f := FieldDefinition{
		FieldKey:          stringAt(obj, "fieldKey"),
		InputType:         stringAt(obj, "inputType"),
		IsRequired:        boolAt(obj, "isRequired"),
		HasVisibilityRule: boolAt(obj, "hasVisibilityRule"),
	}
	if n, ok := asNumber(obj["status"]); ok {
		status := int(n)
		f.Status = &status
	}
	f.IsSelected = optBool(obj, "isSelected")
	f.CanDelete = optBool(obj, "canDelete")
	f.IsMasked = optBool(obj, "isMasked")
	f.IsInternal = optBool(obj, "isInternal")

	if vr, ok := asObject(obj["visibilityRules"]); ok {
		if rules, ok := asArray(vr["rules"]); ok {
			for _, el := range rules {
				if ruleObj, ok := asObject(el); ok && isVisibilityRuleShape(ruleObj) {
					f.VisibilityRules = append(f.VisibilityRules, decodeVisibilityRule(ruleObj))
				}
			}
		}
	}
	return f
}

func decodeVisibilityRule(obj map[string]any) VisibilityRule {
	rule := VisibilityRule{
		RuleName:        stringAt(obj, "ruleName"),
		LogicalOperator: stringAt(obj, "logicalOperatorForConditions"),
	}
	if conds, ok := asArray(obj["ruleConditions"]); ok {
		for _, el := range conds {
			condObj, ok := asObject(el)
			if !ok {
				continue
			}
			rule.Conditions = append(rule.Conditions, RuleCondition{
				Field:    firstString(condObj, "field", "fieldName", "fieldKey", "attributeName"),
				Operator: firstString(condObj, "operator", "conditionOperator", "comparison"),
				Value:    firstValue(condObj, "value", "values", "conditionValue"),
			})
		}
	}
	if actions, ok := asArray(obj["actions"]); ok {
		rule.Actions = actions
	}
	return rule
}

func decodeUIField(obj map[string]any) UIFieldDefinition {
	f := UIFieldDefinition{
		FieldKey:          stringAt(obj, "fieldKey"),
		HasVisibilityRule: boolAt(obj, "hasVisibilityRule"),
	}
	if tr, ok := asObject(obj["translations"]); ok {
		f.Translations = stringMap(tr)
	}
	return f
}

func decodeWorkflowRule(obj map[string]any) WorkflowRule {
	return WorkflowRule{
		RuleName:       stringAt(obj, "ruleName"),
		RuleSequence:   intAt(obj, "ruleSequence"),
		RuleEventType:  stringAt(obj, "ruleEventType"),
		RuleActionType: stringAt(obj, "ruleActionType"),
		Criteria:       obj["criteriaInformation"],
	}
}

func decodeTranslations(obj map[string]any) TranslationSet {
	set := make(TranslationSet, len(obj))
	for lang, val := range obj {
		if table, ok := asObject(val); ok {
			set[lang] = stringMap(table)
		}
	}
	return set
}

func decodeMetadata(obj map[string]any) Metadata {
	return Metadata{
		TemplateName:    stringAt(obj, "templateName"),
		DefaultLanguage: stringAt(obj, "defaultLanguage"),
		LanguageList:    stringList(obj["languageList"]),
		RequestTypes:    stringList(obj["requestTypes"]),
		SubjectTypes:    stringList(obj["subjectTypes"]),
	}
}

func optBool(obj map[string]any, key string) *bool {
	if b, ok := asBool(obj[key]); ok {
		return &b
	}
	return nil
}

// stringMap keeps only the string-valued entries of an object.
func stringMap(obj map[string]any) map[string]string {
	out := make(map[string]string, len(obj))
	for k, v := range obj {
		if s, ok := asString(v); ok {
			out[k] = s
		}
	}
	return out
}

// stringList flattens an array of declared values. Exports carry these either
// as plain strings or as objects with a name/value/label property.
func stringList(v any) []string {
	arr, ok := asArray(v)
	if !ok {
		return nil
	}
	var out []string
	for _, el := range arr {
		switch item := el.(type) {
		case string:
			out = append(out, item)
		case map[string]any:
			if s := firstString(item, "name", "value", "label", "displayName"); s != "" {
				out = append(out, s)
			}
		}
	}
	return out
}

// firstString returns the first of the given keys holding a string value.
func firstString(obj map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := asString(obj[k]); ok {
			return s
		}
	}
	return ""
}

// firstValue returns the first of the given keys present at all.
func firstValue(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok {
			return v
		}
	}
	return nil
}
