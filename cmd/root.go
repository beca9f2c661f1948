// Package cmd provides command-line interface functionality for DialogueTools.
// DialogueTools is a collection of utilities for translating and migrating
// the dialogue JSON data of game text patches.
package cmd

import (
	"fmt"
	"os"

	"github.com/hansbonini/dialoguetools/pkg/common"
	"github.com/spf13/cobra"
)

// config holds the configuration loaded before any subcommand runs
var config = common.DefaultConfig()

// rootCmd represents the base command when called without any subcommands.
// It provides the main entry point for the DialogueTools application.
var rootCmd = &cobra.Command{
	Use:   "dialoguetools",
	Short: "Tools for translating and migrating game dialogue JSON files",
	Long: `DialogueTools - A collection of utilities for the text-modding workflow
of game dialogue data stored as JSON.

Currently supports:
  - Span texts (extract to plain text for translation / inject back)
  - Dialogue patches (migrate old-schema patches onto the new schema)

Examples:
  dialoguetools spans extract ./dialogues/ ./texts/
  dialoguetools spans inject ./dialogues/ ./texts/ ./translated/
  dialoguetools dialogues migrate ./patch/
  dialoguetools --config dialoguetools.yaml dialogues migrate -v ./patch/

Use 'dialoguetools [command] --help' for more information about a command.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Arguments are validated by now; later failures are not usage errors
		cmd.SilenceUsage = true

		configFile, err := cmd.Flags().GetString("config")
		if err != nil {
			return fmt.Errorf("error getting config flag: %w", err)
		}

		loaded, err := common.LoadConfig(configFile)
		if err != nil {
			return err
		}
		config = loaded

		if err := common.SetLogLevel(config.Logging.Level); err != nil {
			return err
		}

		// Enable verbose mode if requested
		verbose, err := cmd.Flags().GetBool("verbose")
		if err != nil {
			return fmt.Errorf("error getting verbose flag: %w", err)
		}
		if verbose {
			common.SetVerboseMode(true)
		}

		if configFile != "" {
			common.LogDebug(common.InfoConfigLoaded, configFile)
			common.LogDebug("Configuration:\n%s", config)
		}
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main() and serves as the entry point for command execution.
func Execute() {
	err := rootCmd.Execute()
	common.SyncLog()
	if err != nil {
		os.Exit(1)
	}
}

// init initializes the root command with flags shared by every subcommand.
func init() {
	rootCmd.PersistentFlags().String("config", "", "YAML configuration file")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output (show debug messages)")
}
