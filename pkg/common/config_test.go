package common

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "dialoguetools.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig(\"\") failed: %v", err)
	}

	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", cfg.Logging.Level)
	}
	if cfg.Files.Pattern != "*.json" {
		t.Errorf("Files.Pattern = %q, want *.json", cfg.Files.Pattern)
	}
	if cfg.Files.Indent != 4 {
		t.Errorf("Files.Indent = %d, want 4", cfg.Files.Indent)
	}

	patchDir, migrationDir := cfg.PatchDirs("root")
	if patchDir != filepath.Join("root", "dialogues") {
		t.Errorf("patch dir = %q", patchDir)
	}
	if migrationDir != filepath.Join("root", "migration", "dialogues") {
		t.Errorf("migration dir = %q", migrationDir)
	}
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
layout:
  dialogues: patch/dialogues
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() failed: %v", err)
	}

	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want debug", cfg.Logging.Level)
	}
	if cfg.Layout.Dialogues != "patch/dialogues" {
		t.Errorf("Layout.Dialogues = %q, want patch/dialogues", cfg.Layout.Dialogues)
	}
	// Untouched values keep their defaults
	if cfg.Layout.Migration != filepath.Join("migration", "dialogues") {
		t.Errorf("Layout.Migration = %q, want default", cfg.Layout.Migration)
	}
	if cfg.Files.Indent != 4 {
		t.Errorf("Files.Indent = %d, want 4", cfg.Files.Indent)
	}
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("LoadConfig() failed for empty file: %v", err)
	}
	if cfg.Files.Pattern != DefaultFilePattern {
		t.Errorf("Files.Pattern = %q, want default", cfg.Files.Pattern)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		content string
		errPart string
	}{
		{"unknown field", "logging:\n  colour: red\n", ErrFailedToParseConfig},
		{"bad level", "logging:\n  level: loud\n", "logging.level"},
		{"bad pattern", "files:\n  pattern: \"[x\"\n", "files.pattern"},
		{"negative indent", "files:\n  indent: -1\n", "files.indent"},
		{"absolute layout", "layout:\n  dialogues: /abs\n", "relative"},
		{"malformed yaml", "logging: [\n", ErrFailedToParseConfig},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.content))
			if err == nil {
				t.Fatal("LoadConfig() should fail")
			}
			if !strings.Contains(err.Error(), tc.errPart) {
				t.Errorf("error %q should contain %q", err.Error(), tc.errPart)
			}
		})
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("LoadConfig() should fail for a missing file")
	}
	if !strings.Contains(err.Error(), ErrFailedToReadConfig) {
		t.Errorf("error %q should contain %q", err.Error(), ErrFailedToReadConfig)
	}
}

func TestConfig_String(t *testing.T) {
	out := DefaultConfig().String()
	if !strings.Contains(out, "pattern: '*.json'") && !strings.Contains(out, `pattern: "*.json"`) {
		t.Errorf("String() should render the pattern, got:\n%s", out)
	}
}
