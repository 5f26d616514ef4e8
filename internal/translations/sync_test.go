package translations

import (
	"testing"

	"github.com/privacykit/webform-cli/internal/webform"
)

func TestSyncFields(t *testing.T) {
	labels := map[string]string{
		"firstName": "First Name",
		"lastName":  "Last Name",
		"email":     "Email Address",
		"untracked": "Not In The File",
	}
	fields := map[string]string{
		"firstName": "First Name",     // already in sync
		"lastName":  "Family Name",    // stale
		"email":     "E-mail address", // stale
		"legacy":    "Old Field",      // only in the file, must survive
	}

	updates := SyncFields(labels, fields)

	if len(updates) != 2 {
		t.Fatalf("updates: got %d, want 2", len(updates))
	}
	// Sorted field order.
	if updates[0].Field != "email" || updates[0].Old != "E-mail address" || updates[0].New != "Email Address" {
		t.Errorf("unexpected first update: %+v", updates[0])
	}
	if updates[1].Field != "lastName" || updates[1].New != "Last Name" {
		t.Errorf("unexpected second update: %+v", updates[1])
	}

	if fields["lastName"] != "Last Name" || fields["email"] != "Email Address" {
		t.Errorf("fields not updated in place: %+v", fields)
	}
	if fields["legacy"] != "Old Field" {
		t.Errorf("untracked file entry was touched: %+v", fields)
	}
	if _, ok := fields["untracked"]; ok {
		t.Error("label without a file entry must not be added")
	}
}

func TestSyncFields_NothingToDo(t *testing.T) {
	labels := map[string]string{"a": "A"}
	fields := map[string]string{"a": "A"}
	if updates := SyncFields(labels, fields); len(updates) != 0 {
		t.Errorf("expected no updates, got %+v", updates)
	}
}

func TestSourceLabels(t *testing.T) {
	t.Run("prefers_en_us", func(t *testing.T) {
		doc := &webform.ParsedDocument{
			Translations: webform.TranslationSet{
				"en":    {"k": "en value"},
				"en-us": {"k": "en-us value"},
			},
		}
		if got := SourceLabels(doc)["k"]; got != "en-us value" {
			t.Errorf("got %q, want the en-us bundle", got)
		}
	})

	t.Run("falls_back_to_default_language", func(t *testing.T) {
		doc := &webform.ParsedDocument{
			Translations: webform.TranslationSet{
				"de": {"k": "de value"},
			},
			Metadata: &webform.Metadata{DefaultLanguage: "de"},
		}
		if got := SourceLabels(doc)["k"]; got != "de value" {
			t.Errorf("got %q, want the default-language bundle", got)
		}
	})

	t.Run("no_bundle", func(t *testing.T) {
		if got := SourceLabels(&webform.ParsedDocument{}); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})
}
