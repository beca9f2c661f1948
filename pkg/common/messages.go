package common

import (
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// VerboseMode mirrors whether debug output is currently enabled
var VerboseMode bool = false

var (
	logLevel  = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	baseLevel = zapcore.InfoLevel
	logger    = newLogger(os.Stderr)
)

// newLogger builds a console logger writing to w and gated by logLevel
func newLogger(w io.Writer) *zap.SugaredLogger {
	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if isTerminal(w) {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	ec.NameKey = zapcore.OmitKey

	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(zapcore.AddSync(w)), logLevel)
	return zap.New(core).Sugar()
}

// isTerminal reports whether w is a console that can show colored levels
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SetLogOutput redirects all log output to w
func SetLogOutput(w io.Writer) {
	_ = logger.Sync()
	logger = newLogger(w)
}

// SetVerboseMode enables or disables verbose/debug output
func SetVerboseMode(verbose bool) {
	VerboseMode = verbose
	if verbose {
		logLevel.SetLevel(zapcore.DebugLevel)
		return
	}
	logLevel.SetLevel(baseLevel)
}

// SetLogLevel sets the minimum level by name (debug, info, warn, error)
func SetLogLevel(level string) error {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return FormatError(ErrInvalidLogLevel, level)
	}
	baseLevel = lvl
	VerboseMode = lvl == zapcore.DebugLevel
	logLevel.SetLevel(lvl)
	return nil
}

// SyncLog flushes buffered log entries
func SyncLog() {
	_ = logger.Sync()
}

// Error messages
const (
	ErrFailedToReadFile          = "failed to read file"
	ErrFailedToDecodeJSON        = "failed to decode JSON"
	ErrFailedToEncodeJSON        = "failed to encode JSON"
	ErrFailedToWriteFile         = "failed to write file"
	ErrFailedToCreateDirectory   = "failed to create directory"
	ErrFailedToListDirectory     = "failed to list directory"
	ErrFailedToReadTextFile      = "failed to read text file"
	ErrFailedToReadConfig        = "failed to read config file"
	ErrFailedToParseConfig       = "failed to parse config file"
	ErrInvalidConfig             = "invalid configuration"
	ErrInvalidLogLevel           = "invalid log level"
	ErrInvalidPattern            = "invalid file pattern"
	ErrDirectoryDoesNotExist     = "directory does not exist"
	ErrMissingListField          = "migration document has no 'list' object"
	ErrPatchNotObject            = "patch document is not an object"
	ErrPatchEntryNotObject       = "patch entry is not an object"
	ErrPatchEntryMissingSpeaker  = "patch entry has no 'speaker'"
	ErrPatchEntryMissingDialogue = "patch entry has no string 'dialogue'"
	ErrReferenceEntryInvalid     = "migration entry has no 'dialogue' list"
	ErrReferenceLineInvalid      = "migration dialogue line has no 'html'"
)

// Info messages
const (
	InfoMigratedFile       = "Successfully migrated file %s with %d dialogues."
	InfoMigrationCompleted = "Completed migration for %d files."
	InfoMigrationFailed    = "Failed migration for %d files."
	InfoMigratedDialogues  = "Total migrated dialogues: %d"
	InfoDryRun             = "Dry run: %s would be rewritten with %d dialogues."
	InfoConfigLoaded       = "Loaded configuration from %s"

	// Console messages for the span tools
	InfoSpansExtracted = "Extracted text from %s to %s"
	InfoSpansInjected  = "Updated JSON saved to %s"
	InfoNoJSONFiles    = "No JSON files found in %s"
)

// Debug messages
const (
	DebugDocumentShape   = "%s: %s document, %d text spans"
	DebugLinesRead       = "%s: read %d lines"
	DebugSpansReplaced   = "%s: replaced %d of %d text spans"
	DebugKeyDropped      = "%s: key %q has no migration entry, dropped"
	DebugDialogueMerged  = "%s: key %q merged %d patch lines with %d migration lines"
	DebugFilesMatched    = "Matched %d files in %s with pattern %q"
	DebugExcessTextLines = "%s: %d text lines left unused"
)

// Warning messages
const (
	WarnMissingTextFile      = "Warning: No corresponding text file found for %s"
	WarnMissingMigrationFile = "Migration file %s is missing."
	WarnPatchLongerThanRef   = "%s: key %q has %d patch lines but only %d migration lines"
)

// Per-file error log lines
const (
	LogErrDecodePatch     = "Error decoding JSON from patch file %s: %v"
	LogErrDecodeMigration = "Error decoding JSON from migration file %s: %v"
	LogErrMigrate         = "Error migrating dialogues of patch file %s: %v"
	LogErrWritePatch      = "Error writing JSON to patch file %s: %v"
	LogErrExtract         = "Error extracting text from %s: %v"
	LogErrInject          = "Error injecting text into %s: %v"
)

// LogInfo logs an informational message
func LogInfo(message string, args ...interface{}) {
	if len(args) > 0 {
		logger.Infof(message, args...)
	} else {
		logger.Info(message)
	}
}

// LogWarn logs a warning message
func LogWarn(message string, args ...interface{}) {
	if len(args) > 0 {
		logger.Warnf(message, args...)
	} else {
		logger.Warn(message)
	}
}

// LogError logs an error message
func LogError(message string, args ...interface{}) {
	if len(args) > 0 {
		logger.Errorf(message, args...)
	} else {
		logger.Error(message)
	}
}

// LogDebug logs a debug message (only if VerboseMode is enabled)
func LogDebug(message string, args ...interface{}) {
	if len(args) > 0 {
		logger.Debugf(message, args...)
	} else {
		logger.Debug(message)
	}
}

// FormatError creates a formatted error with additional context
func FormatError(baseMessage string, details interface{}) error {
	if err, ok := details.(error); ok {
		return fmt.Errorf("%s: %w", baseMessage, err)
	}
	return fmt.Errorf("%s: %v", baseMessage, details)
}

// FormatErrorString creates a formatted error with string details
func FormatErrorString(baseMessage, details string, args ...interface{}) error {
	if len(args) > 0 {
		return fmt.Errorf("%s: "+details, append([]interface{}{baseMessage}, args...)...)
	}
	return fmt.Errorf("%s: %s", baseMessage, details)
}
