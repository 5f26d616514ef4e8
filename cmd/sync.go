package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/privacykit/webform-cli/internal/output"
	"github.com/privacykit/webform-cli/internal/translations"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync <webform.json> <translations.json>",
	Short: "Sync a field-translations file with the webform's labels",
	Long: "Update the translations file's \"fields\" section from the webform's en-us " +
		"translation bundle. Labels from the webform always supersede manual edits. " +
		"A backup of the translations file is written unless --no-backup is set.",
	Args: cobra.ExactArgs(2),
	RunE: runSync,
}

func init() {
	rootCmd.AddCommand(syncCmd)
	registerExtractorFlags(syncCmd)
	syncCmd.Flags().Bool("dry-run", false, "Report changes without writing anything")
	syncCmd.Flags().Bool("no-backup", false, "Skip writing a .backup copy before updating")
}

// syncResult is the top-level output of the sync command.
type syncResult struct {
	OK      bool                  `yaml:"ok"                json:"ok"`
	Action  string                `yaml:"action"            json:"action"`
	DryRun  bool                  `yaml:"dryRun,omitempty"  json:"dryRun,omitempty"`
	Updates []translations.Update `yaml:"updates,omitempty" json:"updates,omitempty"`
	Total   int                   `yaml:"total"             json:"total"`
	Backup  string                `yaml:"backup,omitempty"  json:"backup,omitempty"`
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, err := extractorConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noBackup, _ := cmd.Flags().GetBool("no-backup")

	doc, err := loadDocument(args[0], cfg)
	if err != nil {
		return err
	}
	labels := translations.SourceLabels(doc)
	if len(labels) == 0 {
		return fmt.Errorf("no %s translations found in webform", translations.SourceLanguage)
	}

	translationsPath := args[1]
	raw, err := os.ReadFile(translationsPath)
	if err != nil {
		return fmt.Errorf("failed to read translations file: %w", err)
	}
	var file map[string]any
	if err := json.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("translations file is not valid JSON: %w", err)
	}

	fieldsAny, _ := file["fields"].(map[string]any)
	fields := make(map[string]string, len(fieldsAny))
	for key, val := range fieldsAny {
		if s, ok := val.(string); ok {
			fields[key] = s
		}
	}

	updates := translations.SyncFields(labels, fields)

	result := syncResult{
		OK:      true,
		Action:  "sync",
		DryRun:  dryRun,
		Updates: updates,
		Total:   len(updates),
	}

	if len(updates) == 0 || dryRun {
		return output.Print(result)
	}

	// Fold the synced values back into the raw structure so unrelated
	// sections (options, requestTypes, ...) survive untouched.
	for key, val := range fields {
		fieldsAny[key] = val
	}
	file["fields"] = fieldsAny

	if !noBackup {
		backupPath := backupPathFor(translationsPath)
		if err := os.WriteFile(backupPath, raw, 0o644); err != nil {
			return fmt.Errorf("failed to write backup: %w", err)
		}
		result.Backup = backupPath
	}

	updated, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode translations: %w", err)
	}
	updated = append(updated, '\n')
	if err := os.WriteFile(translationsPath, updated, 0o644); err != nil {
		return fmt.Errorf("failed to write translations file: %w", err)
	}
	return output.Print(result)
}

// backupPathFor turns dir/name.json into dir/name.backup.json.
func backupPathFor(path string) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, stem+".backup"+ext)
}
