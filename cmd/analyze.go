package cmd

import (
	"github.com/privacykit/webform-cli/internal/output"
	"github.com/privacykit/webform-cli/internal/webform"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <webform.json>",
	Short: "Locate and summarize the semantic structures in a webform export",
	Long: "Walk the export's JSON tree and locate fields, UI fields, translations, " +
		"workflow rules, per-field visibility rules, and form metadata by structural " +
		"fingerprint. Reports a count and location path for each kind.",
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	registerExtractorFlags(analyzeCmd)
	analyzeCmd.Flags().Bool("full", false, "Include the normalized collections, not just counts and paths")
}

// analyzeSummary is one extraction result row.
type analyzeSummary struct {
	Kind  string `yaml:"kind"           json:"kind"`
	Count int    `yaml:"count"          json:"count"`
	Path  string `yaml:"path,omitempty" json:"path,omitempty"`
}

// analyzeResult is the top-level output of the analyze command.
type analyzeResult struct {
	OK       bool                    `yaml:"ok"                 json:"ok"`
	Action   string                  `yaml:"action"             json:"action"`
	File     string                  `yaml:"file"               json:"file"`
	Findings []analyzeSummary        `yaml:"findings"           json:"findings"`
	Document *webform.ParsedDocument `yaml:"document,omitempty" json:"document,omitempty"`
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := extractorConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	full, _ := cmd.Flags().GetBool("full")

	doc, err := loadDocument(args[0], cfg)
	if err != nil {
		return err
	}

	result := analyzeResult{
		OK:     true,
		Action: "analyze",
		File:   args[0],
		Findings: []analyzeSummary{
			findingRow("fields", doc.FieldsFinding),
			findingRow("uiFields", doc.UIFieldsFinding),
			findingRow("translations", doc.TranslationsFinding),
			findingRow("workflowRules", doc.WorkflowRulesFinding),
			findingRow("visibilityRules", doc.VisibilityFinding),
			findingRow("metadata", doc.MetadataFinding),
		},
	}
	if full {
		result.Document = doc
	}
	return output.Print(result)
}

func findingRow(kind string, f webform.Finding) analyzeSummary {
	row := analyzeSummary{Kind: kind, Count: f.Count, Path: f.Path}
	if !f.Found() {
		row.Path = ""
	}
	return row
}
