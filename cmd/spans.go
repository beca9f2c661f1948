// Package cmd provides command-line interface for span text processing.
// This file contains commands for extracting span texts of dialogue JSON
// files for translation and injecting the translated texts back.
package cmd

import (
	"fmt"

	"github.com/hansbonini/dialoguetools/pkg"
	"github.com/hansbonini/dialoguetools/pkg/common"
	"github.com/spf13/cobra"
)

// spansCmd represents the parent command for all span text operations.
// It provides access to both extract and inject subcommands.
var spansCmd = &cobra.Command{
	Use:   "spans",
	Short: "Extract and inject dialogue span texts",
	Long: `Extract and inject the text of dialogue spans for translation.

Commands:
  extract   Write span texts to plain-text files, one line per span
  inject    Write edited span texts back into the JSON files

Examples:
  dialoguetools spans extract ./dialogues/ ./texts/
  dialoguetools spans inject ./dialogues/ ./texts/ ./translated/`,
}

// spansExtractCmd writes span texts to plain-text files.
var spansExtractCmd = &cobra.Command{
	Use:   "extract [input_directory] [output_directory]",
	Short: "Extract span texts from dialogue JSON files",
	Long: `Extract the text of every span from dialogue JSON files.

For each JSON file of the input directory a text file with the same base name
and a .txt extension is written to the output directory (created if needed).
Each span with a text field becomes one line; newlines, carriage returns and
tabs inside a text are written as \n, \r and \t.

Entries of numbered documents are visited in numeric key order ("1", "2",
"10"), spans in list order. Files of any other layout produce an empty
text file.

Example:
  dialoguetools spans extract ./dialogues/ ./texts/`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputDir := args[0]
		outputDir := args[1]

		if err := common.RequireDir("Input", inputDir); err != nil {
			return err
		}

		// Create extractor for handling span text export
		extractor := pkg.NewSpanExtractor()
		extractor.Pattern = config.Files.Pattern
		extractor.Output = cmd.OutOrStdout()

		summary, err := extractor.ExtractDirectory(inputDir, outputDir)
		if err != nil {
			if summary != nil {
				return fmt.Errorf("failed to extract %d of %d files: %w",
					len(summary.Failed), len(summary.Failed)+len(summary.Processed), err)
			}
			return fmt.Errorf("failed to extract span texts: %w", err)
		}

		common.LogDebug("Extracted %d spans from %d files", summary.Spans, len(summary.Processed))
		return nil
	},
}

// spansInjectCmd writes edited span texts back into dialogue JSON files.
var spansInjectCmd = &cobra.Command{
	Use:   "inject [original_json_dir] [text_dir] [output_dir]",
	Short: "Inject span texts back into dialogue JSON files",
	Long: `Inject edited span texts back into the original dialogue JSON files.

Each JSON file of the original directory is paired with the text file of the
same base name in the text directory. Lines replace the span texts in the
order used by extract; \n, \r and \t are turned back into control characters.
When there are fewer lines than spans the remaining spans keep their text,
extra lines are ignored. JSON files without a text file are skipped with a
warning.

Requirements:
  - Text files must come from extract over the same JSON files

Example:
  dialoguetools spans inject ./dialogues/ ./texts/ ./translated/`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		originalDir := args[0]
		textDir := args[1]
		outputDir := args[2]

		if err := common.RequireDir("Original JSON", originalDir); err != nil {
			return err
		}
		if err := common.RequireDir("Text", textDir); err != nil {
			return err
		}

		// Create injector for handling span text import
		injector := pkg.NewSpanInjector()
		injector.Pattern = config.Files.Pattern
		injector.Indent = config.Files.Indent
		injector.Output = cmd.OutOrStdout()

		summary, err := injector.InjectDirectory(originalDir, textDir, outputDir)
		if err != nil {
			if summary != nil {
				return fmt.Errorf("failed to inject %d of %d files: %w",
					len(summary.Failed), len(summary.Failed)+len(summary.Processed), err)
			}
			return fmt.Errorf("failed to inject span texts: %w", err)
		}

		common.LogDebug("Replaced %d spans in %d files, %d files skipped",
			summary.Spans, len(summary.Processed), len(summary.Skipped))
		return nil
	},
}

// init initializes the spans command and its subcommands.
func init() {
	// Register the spans command with the root command
	rootCmd.AddCommand(spansCmd)

	// Add subcommands to the spans command
	spansCmd.AddCommand(spansExtractCmd)
	spansCmd.AddCommand(spansInjectCmd)
}
