package cmd

import (
	"sort"

	"github.com/privacykit/webform-cli/internal/output"
	"github.com/privacykit/webform-cli/internal/webform"
	"github.com/spf13/cobra"
)

var visibilityCmd = &cobra.Command{
	Use:   "visibility <webform.json>",
	Short: "List per-field visibility rules",
	Args:  cobra.ExactArgs(1),
	RunE:  runVisibility,
}

func init() {
	rootCmd.AddCommand(visibilityCmd)
	registerExtractorFlags(visibilityCmd)
	visibilityCmd.Flags().String("field", "", "Only rules belonging to this field key")
}

// fieldVisibility groups one field's visibility rules.
type fieldVisibility struct {
	FieldKey string                   `yaml:"fieldKey" json:"fieldKey"`
	Count    int                      `yaml:"count"    json:"count"`
	Rules    []webform.VisibilityRule `yaml:"rules"    json:"rules"`
}

// visibilityResult is the top-level output of the visibility command.
type visibilityResult struct {
	OK         bool              `yaml:"ok"               json:"ok"`
	Action     string            `yaml:"action"           json:"action"`
	Fields     []fieldVisibility `yaml:"fields,omitempty" json:"fields,omitempty"`
	TotalRules int               `yaml:"totalRules"       json:"totalRules"`
}

func runVisibility(cmd *cobra.Command, args []string) error {
	cfg, err := extractorConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	fieldFilter, _ := cmd.Flags().GetString("field")

	doc, err := loadDocument(args[0], cfg)
	if err != nil {
		return err
	}

	keys := make([]string, 0, len(doc.VisibilityRules))
	for key := range doc.VisibilityRules {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	result := visibilityResult{OK: true, Action: "visibility"}
	for _, key := range keys {
		if fieldFilter != "" && key != fieldFilter {
			continue
		}
		rules := doc.VisibilityRules[key]
		result.Fields = append(result.Fields, fieldVisibility{
			FieldKey: key,
			Count:    len(rules),
			Rules:    rules,
		})
		result.TotalRules += len(rules)
	}
	return output.Print(result)
}
