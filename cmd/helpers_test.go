package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/privacykit/webform-cli/internal/webform"
)

const sampleExport = `{
	"header": {
		"templateName": "EU Privacy Intake",
		"defaultLanguage": "en",
		"subjectTypes": ["Individual", "Business"],
		"requestTypes": ["Access", "Deletion"]
	},
	"form": {
		"fields": [
			{"fieldKey": "subjectType", "inputType": "Dropdown", "isRequired": true, "status": 1, "isSelected": true},
			{"fieldKey": "requestType", "inputType": "Dropdown", "isRequired": true, "status": 1, "canDelete": false}
		]
	},
	"workflow": {
		"rules": [
			{
				"ruleName": "route individual access",
				"ruleSequence": 1,
				"ruleEventType": "FormSubmit",
				"criteriaInformation": {
					"logicalOperator": "AND",
					"conditions": [
						{"field": "subjectType", "operator": "equals", "value": "Individual"},
						{"field": "requestType", "operator": "equals", "value": "Access"}
					]
				}
			}
		]
	}
}`

func writeSample(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "webform.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDocument(t *testing.T) {
	path := writeSample(t, sampleExport)

	doc, err := loadDocument(path, webform.DefaultConfig())
	if err != nil {
		t.Fatal(err)
	}
	if doc.FieldsFinding.Count != 2 {
		t.Errorf("fields: got %d, want 2", doc.FieldsFinding.Count)
	}
	if doc.WorkflowRulesFinding.Count != 1 {
		t.Errorf("rules: got %d, want 1", doc.WorkflowRulesFinding.Count)
	}
	if doc.Metadata == nil || doc.Metadata.TemplateName != "EU Privacy Intake" {
		t.Errorf("metadata: got %+v", doc.Metadata)
	}
}

func TestLoadDocument_MissingFile(t *testing.T) {
	if _, err := loadDocument(filepath.Join(t.TempDir(), "nope.json"), webform.DefaultConfig()); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoadDocument_MalformedJSON(t *testing.T) {
	path := writeSample(t, "{broken")
	if _, err := loadDocument(path, webform.DefaultConfig()); err == nil {
		t.Fatal("expected error for malformed JSON")
	}
}

func TestBackupPathFor(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"translations.json", "translations.backup.json"},
		{filepath.Join("dir", "field_translations.json"), filepath.Join("dir", "field_translations.backup.json")},
		{"noext", "noext.backup"},
	}
	for _, tt := range tests {
		if got := backupPathFor(tt.in); got != tt.want {
			t.Errorf("backupPathFor(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
