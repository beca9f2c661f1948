// Package cmd provides command-line interface for dialogue patch processing.
// This file contains the command that migrates dialogue patches written for
// the old data schema onto the current one.
package cmd

import (
	"fmt"

	"github.com/hansbonini/dialoguetools/pkg"
	"github.com/hansbonini/dialoguetools/pkg/common"
	"github.com/spf13/cobra"
)

// dialoguesCmd represents the parent command for dialogue patch operations.
var dialoguesCmd = &cobra.Command{
	Use:   "dialogues",
	Short: "Process dialogue patch files",
	Long: `Process dialogue patch files of a custom patch directory.

Commands:
  migrate   Move old-schema dialogue patches onto the new schema

Examples:
  dialoguetools dialogues migrate ./patch/`,
}

// dialoguesMigrateCmd rewrites patch dialogues in place using migration data.
var dialoguesMigrateCmd = &cobra.Command{
	Use:   "migrate [directory]",
	Short: "Migrate dialogue patches onto the new schema",
	Long: `Migrate dialogue patches made for the old schema, where each entry holds
one newline-delimited dialogue string, onto the new schema, where each line is
an object carrying its html formatting.

Layout (relative to the given directory, configurable with --config):
  dialogues/               patch files, rewritten in place
  migration/dialogues/     migration files extracted from the unmodified game

Replace the migration folder with data extracted from the current game before
running this command.

For every key found in both the patch and the migration "list", patch line i
is paired with the html of migration line i; migration lines past the end of
the patch are kept as they are. Keys without migration data are dropped.
Files that are missing or cannot be decoded are reported and skipped.

Flags:
  --dry-run   Report what would be migrated without writing
  --strict    Exit with an error when any file failed

Example:
  dialoguetools dialogues migrate ./patch/
  dialoguetools dialogues migrate --dry-run -v ./patch/`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root := args[0]

		dryRun, err := cmd.Flags().GetBool("dry-run")
		if err != nil {
			return fmt.Errorf("error getting dry-run flag: %w", err)
		}
		strict, err := cmd.Flags().GetBool("strict")
		if err != nil {
			return fmt.Errorf("error getting strict flag: %w", err)
		}

		patchDir, migrationDir := config.PatchDirs(root)

		// Create migrator for handling the schema migration
		migrator := pkg.NewDialogueMigrator()
		migrator.Pattern = config.Files.Pattern
		migrator.Indent = config.Files.Indent
		migrator.DryRun = dryRun

		summary, err := migrator.MigrateDirectory(patchDir, migrationDir)
		if summary == nil {
			return fmt.Errorf("failed to migrate dialogues: %w", err)
		}
		if err != nil && strict {
			return fmt.Errorf("failed migration for %d files: %w", len(summary.Failed), err)
		}
		if err != nil {
			common.LogDebug("Per-file failures: %v", err)
		}

		return nil
	},
}

// init initializes the dialogues command and its subcommands with appropriate flags.
func init() {
	// Register the dialogues command with the root command
	rootCmd.AddCommand(dialoguesCmd)

	// Add subcommands to the dialogues command
	dialoguesCmd.AddCommand(dialoguesMigrateCmd)

	dialoguesMigrateCmd.Flags().Bool("dry-run", false, "Report what would be migrated without rewriting any file")
	dialoguesMigrateCmd.Flags().Bool("strict", false, "Exit with an error when any file failed to migrate")
}
