// Package translations keeps a hand-maintained field-translations file in
// line with the labels a webform export declares. Labels from the webform's
// translation bundle always supersede manual edits.
package translations

import (
	"sort"

	"github.com/privacykit/webform-cli/internal/webform"
)

// SourceLanguage is the bundle used as the source of truth for labels.
const SourceLanguage = "en-us"

// Update records one field whose translation was brought in line.
type Update struct {
	Field string `yaml:"field" json:"field"`
	Old   string `yaml:"old"   json:"old"`
	New   string `yaml:"new"   json:"new"`
}

// SourceLabels picks the label table to sync from: the source language,
// falling back to the document's default language, then to bare "en".
func SourceLabels(doc *webform.ParsedDocument) map[string]string {
	if doc.Translations == nil {
		return nil
	}
	if labels, ok := doc.Translations[SourceLanguage]; ok {
		return labels
	}
	if doc.Metadata != nil && doc.Metadata.DefaultLanguage != "" {
		if labels, ok := doc.Translations[doc.Metadata.DefaultLanguage]; ok {
			return labels
		}
	}
	return doc.Translations["en"]
}

// SyncFields updates fields in place so every key it shares with labels
// carries the label's value, and returns the changes made in sorted field
// order. Keys present only in the translations file are left untouched: the
// sync only refreshes fields the webform still declares.
func SyncFields(labels, fields map[string]string) []Update {
	keys := make([]string, 0, len(labels))
	for key := range labels {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var updates []Update
	for _, key := range keys {
		current, tracked := fields[key]
		if !tracked {
			continue
		}
		if current == labels[key] {
			continue
		}
		updates = append(updates, Update{Field: key, Old: current, New: labels[key]})
		fields[key] = labels[key]
	}
	return updates
}
