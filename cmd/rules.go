package cmd

import (
	"sort"

	"github.com/privacykit/webform-cli/internal/coverage"
	"github.com/privacykit/webform-cli/internal/output"
	"github.com/privacykit/webform-cli/internal/webform"
	"github.com/spf13/cobra"
)

var rulesCmd = &cobra.Command{
	Use:   "rules <webform.json>",
	Short: "List workflow rules in evaluation order",
	Args:  cobra.ExactArgs(1),
	RunE:  runRules,
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	registerExtractorFlags(rulesCmd)
	rulesCmd.Flags().Bool("conditions", false, "Include each rule's decoded condition set")
	rulesCmd.Flags().String("event", "", "Filter by rule event type")
}

// ruleInfo is one workflow rule with its optionally-decoded conditions.
type ruleInfo struct {
	RuleName       string                 `yaml:"ruleName"                 json:"ruleName"`
	RuleSequence   int                    `yaml:"ruleSequence"             json:"ruleSequence"`
	RuleEventType  string                 `yaml:"ruleEventType,omitempty"  json:"ruleEventType,omitempty"`
	RuleActionType string                 `yaml:"ruleActionType,omitempty" json:"ruleActionType,omitempty"`
	Conditions     *coverage.ConditionSet `yaml:"conditions,omitempty"     json:"conditions,omitempty"`
	ConditionError string                 `yaml:"conditionError,omitempty" json:"conditionError,omitempty"`
}

// rulesResult is the top-level output of the rules command.
type rulesResult struct {
	OK      bool            `yaml:"ok"      json:"ok"`
	Action  string          `yaml:"action"  json:"action"`
	Finding webform.Finding `yaml:"finding" json:"finding"`
	Rules   []ruleInfo      `yaml:"rules"   json:"rules"`
	Total   int             `yaml:"total"   json:"total"`
}

func runRules(cmd *cobra.Command, args []string) error {
	cfg, err := extractorConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	withConditions, _ := cmd.Flags().GetBool("conditions")
	eventFilter, _ := cmd.Flags().GetString("event")

	doc, err := loadDocument(args[0], cfg)
	if err != nil {
		return err
	}

	ordered := make([]webform.WorkflowRule, len(doc.WorkflowRules))
	copy(ordered, doc.WorkflowRules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RuleSequence < ordered[j].RuleSequence
	})

	rules := make([]ruleInfo, 0, len(ordered))
	for _, rule := range ordered {
		if eventFilter != "" && rule.RuleEventType != eventFilter {
			continue
		}
		info := ruleInfo{
			RuleName:       rule.RuleName,
			RuleSequence:   rule.RuleSequence,
			RuleEventType:  rule.RuleEventType,
			RuleActionType: rule.RuleActionType,
		}
		if withConditions {
			set, err := coverage.ParseCriteria(rule.Criteria)
			if err != nil {
				info.ConditionError = err.Error()
			} else {
				info.Conditions = set
			}
		}
		rules = append(rules, info)
	}

	result := rulesResult{
		OK:      true,
		Action:  "rules",
		Finding: doc.WorkflowRulesFinding,
		Rules:   rules,
		Total:   len(rules),
	}
	return output.Print(result)
}
