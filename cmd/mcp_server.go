package cmd

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/privacykit/webform-cli/internal/coverage"
	"github.com/privacykit/webform-cli/internal/version"
	"github.com/privacykit/webform-cli/internal/webform"
	"gopkg.in/yaml.v3"
)

// mcpServer wraps the MCP server. All tools load the export file fresh on
// every call: extraction is cheap relative to agent round-trips and a stale
// document is worse than a re-parse.
type mcpServer struct {
	mcp *mcpserver.MCPServer
}

// newMCPServer creates and configures an MCP server with all analysis tools.
func newMCPServer() *mcpServer {
	s := &mcpServer{}
	s.mcp = mcpserver.NewMCPServer(
		"webform-cli",
		version.Version,
	)
	s.registerTools()
	return s
}

// serve starts the MCP server with the configured transport.
func (s *mcpServer) serve(cfg MCPConfig) error {
	switch cfg.Transport {
	case "stdio":
		return mcpserver.ServeStdio(s.mcp)
	case "streamable-http":
		httpServer := mcpserver.NewStreamableHTTPServer(s.mcp)
		return httpServer.Start(fmt.Sprintf(":%d", cfg.Port))
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", cfg.Transport)
	}
}

func (s *mcpServer) registerTools() {
	// analyze
	s.mcp.AddTool(
		mcp.NewTool("analyze",
			mcp.WithDescription("Locate fields, UI fields, translations, workflow rules, visibility rules, and metadata in a webform export by structural fingerprint. Returns counts and location paths."),
			mcp.WithString("file", mcp.Required(), mcp.Description("Path to the webform export JSON file")),
			mcp.WithBoolean("full", mcp.Description("Include the normalized collections, not just counts")),
		),
		s.handleAnalyze,
	)

	// coverage
	s.mcp.AddTool(
		mcp.NewTool("coverage",
			mcp.WithDescription("Report workflow rule coverage across every subject-type × request-type combination. Uncovered combinations are gaps."),
			mcp.WithString("file", mcp.Required(), mcp.Description("Path to the webform export JSON file")),
			mcp.WithString("subject-field", mcp.Description("Field identifier for the subject-type dimension")),
			mcp.WithString("request-field", mcp.Description("Field identifier for the request-type dimension")),
			mcp.WithBoolean("lenient", mcp.Description("Treat conditions on non-dimension fields as satisfied")),
			mcp.WithBoolean("gaps-only", mcp.Description("Only return uncovered combinations")),
		),
		s.handleCoverage,
	)

	// fields
	s.mcp.AddTool(
		mcp.NewTool("fields",
			mcp.WithDescription("List the form's field definitions, or its presentation-layer UI fields"),
			mcp.WithString("file", mcp.Required(), mcp.Description("Path to the webform export JSON file")),
			mcp.WithBoolean("ui", mcp.Description("List UI fields instead of field definitions")),
			mcp.WithBoolean("required", mcp.Description("Only required fields")),
		),
		s.handleFields,
	)

	// rules
	s.mcp.AddTool(
		mcp.NewTool("rules",
			mcp.WithDescription("List workflow rules in evaluation order, optionally with decoded condition sets"),
			mcp.WithString("file", mcp.Required(), mcp.Description("Path to the webform export JSON file")),
			mcp.WithBoolean("conditions", mcp.Description("Include decoded condition sets")),
		),
		s.handleRules,
	)

	// translations
	s.mcp.AddTool(
		mcp.NewTool("translations",
			mcp.WithDescription("Summarize the form's translation bundle: languages and key counts"),
			mcp.WithString("file", mcp.Required(), mcp.Description("Path to the webform export JSON file")),
			mcp.WithString("lang", mcp.Description("Dump one language's full translation table")),
		),
		s.handleTranslations,
	)
}

// toolText serializes a result to YAML for the MCP response.
func toolText(v any) string {
	b, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Sprintf("error: %v", err)
	}
	return string(b)
}

func (s *mcpServer) loadFromRequest(request mcp.CallToolRequest) (*webform.ParsedDocument, error) {
	params := request.GetArguments()
	file, _ := params["file"].(string)
	if file == "" {
		return nil, fmt.Errorf("file parameter is required")
	}
	return loadDocument(file, webform.DefaultConfig())
}

func (s *mcpServer) handleAnalyze(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := s.loadFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	full, _ := request.GetArguments()["full"].(bool)

	result := analyzeResult{
		OK:     true,
		Action: "analyze",
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
	return mcp.NewToolResultText(toolText(result)), nil
}

func (s *mcpServer) handleCoverage(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := s.loadFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	params := request.GetArguments()

	cfg := coverage.DefaultConfig()
	if subject, _ := params["subject-field"].(string); subject != "" {
		cfg.SubjectField = subject
	}
	if requestField, _ := params["request-field"].(string); requestField != "" {
		cfg.RequestField = requestField
	}
	if lenient, _ := params["lenient"].(bool); lenient {
		cfg.Lenient = true
	}

	report := coverage.Analyze(doc, cfg)
	if gapsOnly, _ := params["gaps-only"].(bool); gapsOnly {
		report.Combinations = report.GapList()
	}
	return mcp.NewToolResultText(toolText(coverageResult{OK: true, Action: "coverage", Report: report})), nil
}

func (s *mcpServer) handleFields(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := s.loadFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	params := request.GetArguments()

	if ui, _ := params["ui"].(bool); ui {
		result := fieldsResult{
			OK:       true,
			Action:   "fields",
			Finding:  doc.UIFieldsFinding,
			UIFields: doc.UIFields,
			Total:    len(doc.UIFields),
		}
		return mcp.NewToolResultText(toolText(result)), nil
	}

	requiredOnly, _ := params["required"].(bool)
	var fields []webform.FieldDefinition
	for _, f := range doc.Fields {
		if requiredOnly && !f.IsRequired {
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
	return mcp.NewToolResultText(toolText(result)), nil
}

func (s *mcpServer) handleRules(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := s.loadFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	withConditions, _ := request.GetArguments()["conditions"].(bool)

	rules := make([]ruleInfo, 0, len(doc.WorkflowRules))
	for _, rule := range doc.WorkflowRules {
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
	return mcp.NewToolResultText(toolText(result)), nil
}

func (s *mcpServer) handleTranslations(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc, err := s.loadFromRequest(request)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	lang, _ := request.GetArguments()["lang"].(string)

	result := translationsResult{
		OK:      true,
		Action:  "translations",
		Finding: doc.TranslationsFinding,
	}
	if lang != "" {
		table, ok := doc.Translations[lang]
		if !ok {
			return mcp.NewToolResultError(fmt.Sprintf("language %q not present in the translation bundle", lang)), nil
		}
		result.Table = table
		return mcp.NewToolResultText(toolText(result)), nil
	}
	for _, language := range doc.Translations.Languages() {
		result.Languages = append(result.Languages, languageSummary{
			Language: language,
			Keys:     len(doc.Translations[language]),
		})
	}
	return mcp.NewToolResultText(toolText(result)), nil
}
