package cmd

import (
	"fmt"

	"github.com/privacykit/webform-cli/internal/coverage"
	"github.com/privacykit/webform-cli/internal/output"
	"github.com/spf13/cobra"
)

var coverageCmd = &cobra.Command{
	Use:   "coverage <webform.json>",
	Short: "Report workflow rule coverage across subject and request types",
	Long: "Enumerate every subject-type × request-type combination the form declares " +
		"and test each workflow rule's conditions against it. Combinations no rule " +
		"matches are reported as gaps.",
	Args: cobra.ExactArgs(1),
	RunE: runCoverage,
}

func init() {
	rootCmd.AddCommand(coverageCmd)
	registerExtractorFlags(coverageCmd)
	registerCoverageFlags(coverageCmd)
	coverageCmd.Flags().Bool("show-rules", false, "Include matching rules on covered combinations")
	coverageCmd.Flags().Bool("gaps-only", false, "Only list uncovered combinations")
	coverageCmd.Flags().Bool("fail-on-gaps", false, "Exit non-zero when any gap exists (for CI)")
}

// coverageResult is the top-level output of the coverage command.
type coverageResult struct {
	OK     bool             `yaml:"ok"     json:"ok"`
	Action string           `yaml:"action" json:"action"`
	Report *coverage.Report `yaml:"report" json:"report"`
}

func runCoverage(cmd *cobra.Command, args []string) error {
	extractCfg, err := extractorConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	analyzeCfg := coverageConfigFromFlags(cmd)
	showRules, _ := cmd.Flags().GetBool("show-rules")
	gapsOnly, _ := cmd.Flags().GetBool("gaps-only")
	failOnGaps, _ := cmd.Flags().GetBool("fail-on-gaps")

	doc, err := loadDocument(args[0], extractCfg)
	if err != nil {
		return err
	}

	report := coverage.Analyze(doc, analyzeCfg)
	if gapsOnly {
		report.Combinations = report.GapList()
	}
	if !showRules {
		for i := range report.Combinations {
			report.Combinations[i].MatchingRules = nil
		}
	}

	if err := output.Print(coverageResult{OK: true, Action: "coverage", Report: report}); err != nil {
		return err
	}
	if failOnGaps && (report.Gaps > 0 || report.Outcome != coverage.OutcomeOK) {
		return fmt.Errorf("coverage check failed: %d gaps, outcome %s", report.Gaps, report.Outcome)
	}
	return nil
}
