package cmd

import (
	"strings"

	"github.com/privacykit/webform-cli/internal/output"
	"github.com/privacykit/webform-cli/internal/webform"
	"github.com/spf13/cobra"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields <webform.json>",
	Short: "List the form's field definitions",
	Args:  cobra.ExactArgs(1),
	RunE:  runFields,
}

func init() {
	rootCmd.AddCommand(fieldsCmd)
	registerExtractorFlags(fieldsCmd)
	fieldsCmd.Flags().Bool("ui", false, "List presentation-layer UI fields instead")
	fieldsCmd.Flags().Bool("required", false, "Only required fields")
	fieldsCmd.Flags().Bool("masked", false, "Only masked fields")
	fieldsCmd.Flags().Bool("internal", false, "Only internal fields")
	fieldsCmd.Flags().String("type", "", "Filter by input type (case-insensitive substring, e.g. \"multiselect\")")
}

// fieldsResult is the top-level output of the fields command.
type fieldsResult struct {
	OK       bool                        `yaml:"ok"                 json:"ok"`
	Action   string                      `yaml:"action"             json:"action"`
	Finding  webform.Finding             `yaml:"finding"            json:"finding"`
	Fields   []webform.FieldDefinition   `yaml:"fields,omitempty"   json:"fields,omitempty"`
	UIFields []webform.UIFieldDefinition `yaml:"uiFields,omitempty" json:"uiFields,omitempty"`
	Total    int                         `yaml:"total"              json:"total"`
}

func runFields(cmd *cobra.Command, args []string) error {
	cfg, err := extractorConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	ui, _ := cmd.Flags().GetBool("ui")
	requiredOnly, _ := cmd.Flags().GetBool("required")
	maskedOnly, _ := cmd.Flags().GetBool("masked")
	internalOnly, _ := cmd.Flags().GetBool("internal")
	typeFilter, _ := cmd.Flags().GetString("type")

	doc, err := loadDocument(args[0], cfg)
	if err != nil {
		return err
	}

	if ui {
		result := fieldsResult{
			OK:       true,
			Action:   "fields",
			Finding:  doc.UIFieldsFinding,
			UIFields: doc.UIFields,
			Total:    len(doc.UIFields),
		}
		return output.Print(result)
	}

	var fields []webform.FieldDefinition
	for _, f := range doc.Fields {
		if requiredOnly && !f.IsRequired {
			continue
		}
		if maskedOnly && (f.IsMasked == nil || !*f.IsMasked) {
			continue
		}
		if internalOnly && (f.IsInternal == nil || !*f.IsInternal) {
			continue
		}
		if typeFilter != "" && !strings.Contains(strings.ToLower(f.InputType), strings.ToLower(typeFilter)) {
			continue
		}
		fields = append(fields, f)
	}

	result := fieldsResult{
		OK:      true,
		Action:  "fields",
		Finding: doc.FieldsFinding,
		Fields:  fields,
		Total:   len(fields),
	}
	return output.Print(result)
}
