package cmd

import (
	"fmt"
	"os"

	"github.com/privacykit/webform-cli/internal/output"
	"github.com/privacykit/webform-cli/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "webform-cli",
	Short: "Analyze privacy-request webform exports",
	Long: "A CLI tool that parses privacy-request webform JSON exports by structural " +
		"fingerprint (no fixed schema), and reports fields, rules, translations, and " +
		"workflow coverage gaps.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("format", "yaml", "Output format: yaml, json")
	rootCmd.PersistentFlags().Bool("pretty", false, "Pretty-print JSON output")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		format, _ := rootCmd.PersistentFlags().GetString("format")
		switch format {
		case "yaml":
			output.OutputFormat = output.FormatYAML
		case "json":
			output.OutputFormat = output.FormatJSON
		default:
			return fmt.Errorf("unsupported format: %s (use yaml or json)", format)
		}
		if pretty, err := rootCmd.PersistentFlags().GetBool("pretty"); err == nil && pretty {
			output.PrettyOutput = true
		}
		return nil
	}
}
