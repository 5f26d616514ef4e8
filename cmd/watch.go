package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/privacykit/webform-cli/internal/coverage"
	"github.com/privacykit/webform-cli/internal/output"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch <webform.json>",
	Short: "Re-run coverage analysis whenever the export file changes",
	Long: "Watch the webform export with fsnotify and re-run the coverage analysis " +
		"after each change, with a short debounce so editors that write in several " +
		"steps trigger a single run.",
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	registerExtractorFlags(watchCmd)
	registerCoverageFlags(watchCmd)
	watchCmd.Flags().Int("debounce", 300, "Debounce interval in milliseconds")
}

func runWatch(cmd *cobra.Command, args []string) error {
	extractCfg, err := extractorConfigFromFlags(cmd)
	if err != nil {
		return err
	}
	analyzeCfg := coverageConfigFromFlags(cmd)
	debounceMs, _ := cmd.Flags().GetInt("debounce")
	debounce := time.Duration(debounceMs) * time.Millisecond

	path := args[0]
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch init failed: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors replace files on save and
	// the inode-level watch would be lost after the first write.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}

	run := func() {
		doc, err := loadDocument(path, extractCfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			return
		}
		report := coverage.Analyze(doc, analyzeCfg)
		if err := output.Print(coverageResult{OK: true, Action: "coverage", Report: report}); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
	}

	run()

	target := filepath.Clean(path)
	var timer *time.Timer
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, run)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "ERROR: watch error: %v\n", err)
		}
	}
}
