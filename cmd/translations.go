package cmd

import (
	"fmt"
	"sort"

	"github.com/privacykit/webform-cli/internal/output"
	"github.com/privacykit/webform-cli/internal/webform"
	"github.com/spf13/cobra"
)

var translationsCmd = &cobra.Command{
	Use:   "translations <webform.json>",
	Short: "Inspect the form's translation bundle",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranslations,
}

func init() {
	rootCmd.AddCommand(translationsCmd)
	registerExtractorFlags(translationsCmd)
	translationsCmd.Flags().String("lang", "", "Dump one language's full translation table")
	translationsCmd.Flags().String("missing", "", "List keys present in the default language but absent in this one")
}

// languageSummary is one language's key count.
type languageSummary struct {
	Language string `yaml:"language" json:"language"`
	Keys     int    `yaml:"keys"     json:"keys"`
}

// translationsResult is the top-level output of the translations command.
type translationsResult struct {
	OK          bool              `yaml:"ok"                    json:"ok"`
	Action      string            `yaml:"action"                json:"action"`
	Finding     webform.Finding   `yaml:"finding"               json:"finding"`
	Languages   []languageSummary `yaml:"languages,omitempty"   json:"languages,omitempty"`
	Table       map[string]string `yaml:"table,omitempty"       json:"table,omitempty"`
	MissingKeys []string          `yaml:"missingKeys,omitempty" json:"missingKeys,omitempty"`
}

func runTranslations(cmd *cobra.Command, args []string) error {
	cfg, err := extractorConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	lang, _ := cmd.Flags().GetString("lang")
	missingLang, _ := cmd.Flags().GetString("missing")

	doc, err := loadDocument(args[0], cfg)
	if err != nil {
		return err
	}

	result := translationsResult{
		OK:      true,
		Action:  "translations",
		Finding: doc.TranslationsFinding,
	}

	if lang != "" {
		table, ok := doc.Translations[lang]
		if !ok {
			return fmt.Errorf("language %q not present in the translation bundle", lang)
		}
		result.Table = table
		return output.Print(result)
	}

	if missingLang != "" {
		target, ok := doc.Translations[missingLang]
		if !ok {
			return fmt.Errorf("language %q not present in the translation bundle", missingLang)
		}
		baseline := baselineLanguage(doc)
		for key := range doc.Translations[baseline] {
			if _, ok := target[key]; !ok {
				result.MissingKeys = append(result.MissingKeys, key)
			}
		}
		sort.Strings(result.MissingKeys)
		return output.Print(result)
	}

	for _, language := range doc.Translations.Languages() {
		result.Languages = append(result.Languages, languageSummary{
			Language: language,
			Keys:     len(doc.Translations[language]),
		})
	}
	return output.Print(result)
}

// baselineLanguage picks the language the rest of the bundle is compared
// against: the declared default when present, else en-us, else en.
func baselineLanguage(doc *webform.ParsedDocument) string {
	if doc.Metadata != nil && doc.Metadata.DefaultLanguage != "" {
		if _, ok := doc.Translations[doc.Metadata.DefaultLanguage]; ok {
			return doc.Metadata.DefaultLanguage
		}
	}
	if _, ok := doc.Translations["en-us"]; ok {
		return "en-us"
	}
	return "en"
}
