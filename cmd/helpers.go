package cmd

import (
	"fmt"
	"os"
	"regexp"

	"github.com/privacykit/webform-cli/internal/coverage"
	"github.com/privacykit/webform-cli/internal/webform"
	"github.com/spf13/cobra"
)

// registerExtractorFlags adds the shared extraction policy flags to a command.
func registerExtractorFlags(cmd *cobra.Command) {
	cmd.Flags().Int("max-depth", webform.DefaultMaxDepth, "Traversal depth ceiling")
	cmd.Flags().Float64("match-ratio", webform.DefaultCollectionRatio, "Array/bundle match ratio threshold")
	cmd.Flags().String("language-pattern", "", "Override the language-code regex for translation bundle detection")
}

// extractorConfigFromFlags builds the extraction policy from a command's flags.
func extractorConfigFromFlags(cmd *cobra.Command) (webform.Config, error) {
	cfg := webform.DefaultConfig()
	if depth, err := cmd.Flags().GetInt("max-depth"); err == nil && depth > 0 {
		cfg.MaxDepth = depth
	}
	if ratio, err := cmd.Flags().GetFloat64("match-ratio"); err == nil && ratio > 0 {
		cfg.CollectionRatio = ratio
	}
	if pattern, _ := cmd.Flags().GetString("language-pattern"); pattern != "" {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return cfg, fmt.Errorf("invalid --language-pattern: %w", err)
		}
		cfg.LanguagePattern = re
	}
	return cfg, nil
}

// loadDocument reads, decodes, and extracts a webform export file.
func loadDocument(path string, cfg webform.Config) (*webform.ParsedDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read webform file: %w", err)
	}
	root, err := webform.ParseDocument(data)
	if err != nil {
		return nil, err
	}
	doc, err := webform.Extract(root, cfg)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// registerCoverageFlags adds the dimension-identification flags shared by the
// coverage and watch commands.
func registerCoverageFlags(cmd *cobra.Command) {
	cmd.Flags().String("subject-field", "", "Field identifier for the subject-type dimension (overrides heuristics)")
	cmd.Flags().String("request-field", "", "Field identifier for the request-type dimension (overrides heuristics)")
	cmd.Flags().Bool("lenient", false, "Treat rule conditions on non-dimension fields as satisfied")
}

// coverageConfigFromFlags builds the analyzer config from a command's flags.
func coverageConfigFromFlags(cmd *cobra.Command) coverage.Config {
	cfg := coverage.DefaultConfig()
	if subject, _ := cmd.Flags().GetString("subject-field"); subject != "" {
		cfg.SubjectField = subject
	}
	if request, _ := cmd.Flags().GetString("request-field"); request != "" {
		cfg.RequestField = request
	}
	if lenient, _ := cmd.Flags().GetBool("lenient"); lenient {
		cfg.Lenient = true
	}
	return cfg
}
