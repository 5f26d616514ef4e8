package coverage

import (
	"sort"
	"strings"

	"github.com/privacykit/webform-cli/internal/webform"
)

// Report outcomes. Anything other than OutcomeOK means the analysis could
// not run; it is reported as data, never as an error.
const (
	OutcomeOK                     = "ok"
	OutcomeDimensionFieldNotFound = "dimension-fields-not-found"
	OutcomeDimensionValuesMissing = "dimension-values-not-found"
)

// Config controls how the analyzer maps the two logical dimensions onto the
// document's inconsistently-named field identifiers, and how it treats rule
// conditions on fields outside those dimensions.
type Config struct {
	// SubjectField / RequestField override heuristic identification.
	SubjectField string
	RequestField string

	// Hints are candidate substrings (normalized) tried against rule
	// condition field identifiers first, then against field keys.
	SubjectFieldHints []string
	RequestFieldHints []string

	// Lenient treats conditions on non-dimension fields as satisfied, so a
	// rule that additionally constrains, say, country still counts toward
	// covering a subject×request combination. Default is strict: such
	// conditions evaluate against the empty value and usually fail.
	Lenient bool
}

// DefaultConfig returns the standard dimension-identification heuristics.
func DefaultConfig() Config {
	return Config{
		SubjectFieldHints: []string{"subjecttype", "datasubjecttype", "subject", "whoareyou"},
		RequestFieldHints: []string{"requesttype", "requestsubtype", "request", "whatdoyouwant"},
	}
}

// Combination is one (subject type, request type) pair from the cross
// product, with the rules that matched it. An empty MatchingRules list with
// Covered false is a coverage gap.
type Combination struct {
	SubjectType   string                 `yaml:"subjectType"             json:"subjectType"`
	RequestType   string                 `yaml:"requestType"             json:"requestType"`
	Covered       bool                   `yaml:"covered"                 json:"covered"`
	MatchingRules []webform.WorkflowRule `yaml:"matchingRules,omitempty" json:"matchingRules,omitempty"`
}

// RuleDiagnostic records a rule that was skipped rather than evaluated.
type RuleDiagnostic struct {
	RuleName string `yaml:"ruleName" json:"ruleName"`
	Reason   string `yaml:"reason"   json:"reason"`
}

// Report is the full coverage result. Combinations are enumerated subject
// types outer, request types inner, in declared order, so identical input
// yields identical output.
type Report struct {
	Outcome      string `yaml:"outcome"                json:"outcome"`
	SubjectField string `yaml:"subjectField,omitempty" json:"subjectField,omitempty"`
	RequestField string `yaml:"requestField,omitempty" json:"requestField,omitempty"`

	Total   int `yaml:"total"   json:"total"`
	Covered int `yaml:"covered" json:"covered"`
	Gaps    int `yaml:"gaps"    json:"gaps"`

	Combinations []Combination    `yaml:"combinations,omitempty" json:"combinations,omitempty"`
	Diagnostics  []RuleDiagnostic `yaml:"diagnostics,omitempty"  json:"diagnostics,omitempty"`
}

// GapList returns only the uncovered combinations.
func (r *Report) GapList() []Combination {
	var gaps []Combination
	for _, c := range r.Combinations {
		if !c.Covered {
			gaps = append(gaps, c)
		}
	}
	return gaps
}

// parsedRule pairs a rule with its decoded criteria, in evaluation order.
type parsedRule struct {
	rule webform.WorkflowRule
	set  *ConditionSet
}

// Analyze enumerates the subject×request cross product and tests every
// workflow rule against each synthetic combination. A single malformed rule
// is skipped and diagnosed, never fatal.
func Analyze(doc *webform.ParsedDocument, cfg Config) *Report {
	report := &Report{Outcome: OutcomeOK}

	var subjects, requests []string
	if doc.Metadata != nil {
		subjects = doc.Metadata.SubjectTypes
		requests = doc.Metadata.RequestTypes
	}
	if len(subjects) == 0 || len(requests) == 0 {
		report.Outcome = OutcomeDimensionValuesMissing
		return report
	}

	rules, diagnostics := parseRules(doc.WorkflowRules)
	report.Diagnostics = diagnostics

	subjectField, requestField := resolveDimensionFields(doc, rules, cfg)
	if subjectField == "" || requestField == "" {
		// Identification only matters when some rule actually references a
		// field: the synthetic bag is keyed by the dimension identifiers, so
		// a wrong guess would silently turn covered pairs into gaps. Rules
		// without any field reference (and the no-rule case) evaluate the
		// same under any naming.
		var condFields []string
		for _, pr := range rules {
			collectConditionFields(pr.set, &condFields)
		}
		if len(condFields) > 0 {
			report.Outcome = OutcomeDimensionFieldNotFound
			return report
		}
		if subjectField == "" {
			subjectField = "subjectType"
		}
		if requestField == "" {
			requestField = "requestType"
		}
	}
	report.SubjectField = subjectField
	report.RequestField = requestField

	var override func(Condition) (bool, bool)
	if cfg.Lenient {
		dims := map[string]bool{
			normalizeKey(subjectField): true,
			normalizeKey(requestField): true,
		}
		override = func(c Condition) (bool, bool) {
			if !dims[normalizeKey(c.Field)] {
				return true, true
			}
			return false, false
		}
	}

	for _, subject := range subjects {
		for _, request := range requests {
			bag := Bag{}
			bag.Set(subjectField, subject)
			bag.Set(requestField, request)

			combo := Combination{SubjectType: subject, RequestType: request}
			for _, pr := range rules {
				if evaluate(bag, pr.set, override) {
					combo.MatchingRules = append(combo.MatchingRules, pr.rule)
				}
			}
			combo.Covered = len(combo.MatchingRules) > 0
			if combo.Covered {
				report.Covered++
			} else {
				report.Gaps++
			}
			report.Combinations = append(report.Combinations, combo)
		}
	}
	report.Total = len(report.Combinations)
	return report
}

// parseRules decodes every rule's criteria once, in ruleSequence order
// (ascending, input order on ties). Malformed rules become diagnostics.
func parseRules(rules []webform.WorkflowRule) ([]parsedRule, []RuleDiagnostic) {
	ordered := make([]webform.WorkflowRule, len(rules))
	copy(ordered, rules)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].RuleSequence < ordered[j].RuleSequence
	})

	var parsed []parsedRule
	var diagnostics []RuleDiagnostic
	for _, rule := range ordered {
		set, err := ParseCriteria(rule.Criteria)
		if err != nil {
			diagnostics = append(diagnostics, RuleDiagnostic{
				RuleName: rule.RuleName,
				Reason:   err.Error(),
			})
			continue
		}
		parsed = append(parsed, parsedRule{rule: rule, set: set})
	}
	return parsed, diagnostics
}

// resolveDimensionFields maps the two logical dimensions onto concrete field
// identifiers: explicit overrides first, then hint-substring matching against
// the identifiers the rules actually reference, then against field keys.
func resolveDimensionFields(doc *webform.ParsedDocument, rules []parsedRule, cfg Config) (string, string) {
	subjectHints := cfg.SubjectFieldHints
	requestHints := cfg.RequestFieldHints
	if len(subjectHints) == 0 {
		subjectHints = DefaultConfig().SubjectFieldHints
	}
	if len(requestHints) == 0 {
		requestHints = DefaultConfig().RequestFieldHints
	}

	var candidates []string
	for _, pr := range rules {
		collectConditionFields(pr.set, &candidates)
	}
	for _, f := range doc.Fields {
		candidates = append(candidates, f.FieldKey)
	}

	subjectField := cfg.SubjectField
	if subjectField == "" {
		subjectField = matchHint(candidates, subjectHints)
	}
	requestField := cfg.RequestField
	if requestField == "" {
		requestField = matchHint(candidates, requestHints)
	}
	return subjectField, requestField
}

func collectConditionFields(set *ConditionSet, out *[]string) {
	for _, c := range set.Conditions {
		*out = append(*out, c.Field)
	}
	for i := range set.Groups {
		collectConditionFields(&set.Groups[i], out)
	}
}

// matchHint returns the first candidate containing any hint substring, hints
// tried in order so more specific hints win.
func matchHint(candidates, hints []string) string {
	for _, hint := range hints {
		normHint := normalizeKey(hint)
		for _, cand := range candidates {
			if strings.Contains(normalizeKey(cand), normHint) {
				return cand
			}
		}
	}
	return ""
}
