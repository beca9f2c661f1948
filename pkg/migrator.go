// Package pkg provides functionality for processing dialogue JSON documents.
// This file contains the dialogue migrator that moves patch dialogues written
// for the old schema (one newline-delimited string per entry) onto the new
// schema (one object per line carrying its html formatting).
package pkg

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/hansbonini/dialoguetools/pkg/common"
	"github.com/hansbonini/dialoguetools/pkg/jsonx"
	"go.uber.org/multierr"
)

// DialogueMigrator implements the DialogueMigratorProcessor interface
type DialogueMigrator struct {
	// Pattern selects the patch documents of a directory
	Pattern string
	// Indent is the JSON indentation width of rewritten patches
	Indent int
	// DryRun reports what would be migrated without rewriting any file
	DryRun bool
}

// NewDialogueMigrator creates a new migrator with default settings
func NewDialogueMigrator() *DialogueMigrator {
	return &DialogueMigrator{
		Pattern: common.DefaultFilePattern,
		Indent:  4,
	}
}

// TransformDialogue merges the lines of a patch dialogue string with the
// per-line objects of the migration dialogue. Line i becomes
// {"html": reference[i].html, "text": line}; lines past the end of the
// reference get an empty html. Reference objects past the last patch line are
// appended unchanged.
func TransformDialogue(patchDialogue string, reference []any) ([]any, error) {
	parts := strings.Split(patchDialogue, "\n")
	transformed := make([]any, 0, max(len(parts), len(reference)))

	for index, part := range parts {
		html := any("")
		if index < len(reference) {
			line, ok := reference[index].(*jsonx.Object)
			if !ok {
				return nil, common.FormatErrorString(common.ErrReferenceLineInvalid, "line %d is not an object", index)
			}
			if html, ok = line.Get(FieldHTML); !ok {
				return nil, common.FormatErrorString(common.ErrReferenceLineInvalid, "line %d", index)
			}
		}

		item := jsonx.NewObject()
		item.Set(FieldHTML, html)
		item.Set(FieldText, part)
		transformed = append(transformed, item)
	}

	if len(parts) < len(reference) {
		transformed = append(transformed, reference[len(parts):]...)
	}

	return transformed, nil
}

// MigrateDocument builds the migrated patch document. Only keys present in
// both the patch and the migration "list" survive, in patch order. It returns
// the new document and the number of migrated entries.
func (m *DialogueMigrator) MigrateDocument(name string, patch, reference any) (*jsonx.Object, int, error) {
	patchObj, ok := patch.(*jsonx.Object)
	if !ok {
		return nil, 0, errors.New(common.ErrPatchNotObject)
	}
	referenceObj, ok := reference.(*jsonx.Object)
	if !ok {
		return nil, 0, errors.New(common.ErrMissingListField)
	}
	list, ok := referenceObj.GetObject(FieldList)
	if !ok {
		return nil, 0, errors.New(common.ErrMissingListField)
	}

	transformed := jsonx.NewObject()
	count := 0

	for _, key := range patchObj.Keys() {
		if !list.Has(key) {
			common.LogDebug(common.DebugKeyDropped, name, key)
			continue
		}

		entry, err := m.migrateEntry(name, key, patchObj, list)
		if err != nil {
			return nil, 0, fmt.Errorf("key %q: %w", key, err)
		}
		transformed.Set(key, entry)
		count++
	}

	return transformed, count, nil
}

// migrateEntry builds {"speaker": ..., "dialogue": [...]} for one key
func (m *DialogueMigrator) migrateEntry(name, key string, patch, list *jsonx.Object) (*jsonx.Object, error) {
	patchEntry, ok := patch.GetObject(key)
	if !ok {
		return nil, errors.New(common.ErrPatchEntryNotObject)
	}
	speaker, ok := patchEntry.Get(FieldSpeaker)
	if !ok {
		return nil, errors.New(common.ErrPatchEntryMissingSpeaker)
	}
	dialogue, ok := patchEntry.GetString(FieldDialogue)
	if !ok {
		return nil, errors.New(common.ErrPatchEntryMissingDialogue)
	}

	referenceEntry, ok := list.GetObject(key)
	if !ok {
		return nil, errors.New(common.ErrReferenceEntryInvalid)
	}
	referenceLines, ok := referenceEntry.GetArray(FieldDialogue)
	if !ok {
		return nil, errors.New(common.ErrReferenceEntryInvalid)
	}

	lines, err := TransformDialogue(dialogue, referenceLines)
	if err != nil {
		return nil, err
	}

	patchLines := strings.Count(dialogue, "\n") + 1
	if patchLines > len(referenceLines) {
		common.LogWarn(common.WarnPatchLongerThanRef, name, key, patchLines, len(referenceLines))
	}
	common.LogDebug(common.DebugDialogueMerged, name, key, patchLines, len(referenceLines))

	entry := jsonx.NewObject()
	entry.Set(FieldSpeaker, speaker)
	entry.Set(FieldDialogue, lines)
	return entry, nil
}

// MigrateFile migrates the patch at patchPath with the migration document at
// referencePath and rewrites patchPath in place. It returns the number of
// migrated entries.
func (m *DialogueMigrator) MigrateFile(patchPath, referencePath string) (int, error) {
	name := filepath.Base(patchPath)

	patch, err := readJSONFile(patchPath)
	if err != nil {
		common.LogError(common.LogErrDecodePatch, name, err)
		return 0, err
	}
	reference, err := readJSONFile(referencePath)
	if err != nil {
		common.LogError(common.LogErrDecodeMigration, name, err)
		return 0, err
	}

	transformed, count, err := m.MigrateDocument(name, patch, reference)
	if err != nil {
		common.LogError(common.LogErrMigrate, name, err)
		return 0, err
	}

	if m.DryRun {
		common.LogInfo(common.InfoDryRun, name, count)
		return count, nil
	}

	data, err := encodeJSON(transformed, m.Indent)
	if err == nil {
		err = common.WriteFileAtomic(patchPath, data)
	}
	if err != nil {
		common.LogError(common.LogErrWritePatch, name, err)
		return 0, err
	}

	return count, nil
}

// MigrateDirectory migrates every patch document of patchDir with the
// migration document of the same name in referenceDir. A missing or
// unreadable file is logged and counted as failed without stopping the run.
// The summary is always returned; the error combines all per-file failures.
func (m *DialogueMigrator) MigrateDirectory(patchDir, referenceDir string) (*MigrationSummary, error) {
	files, err := common.ListFiles(patchDir, m.Pattern)
	if err != nil {
		return nil, err
	}

	summary := &MigrationSummary{}
	var errs error

	for _, patchPath := range files {
		name := filepath.Base(patchPath)
		referencePath := filepath.Join(referenceDir, name)

		if !common.FileExists(referencePath) {
			common.LogWarn(common.WarnMissingMigrationFile, name)
			summary.Failed = append(summary.Failed, name)
			errs = multierr.Append(errs, fmt.Errorf("%s: migration file is missing", name))
			continue
		}

		count, err := m.MigrateFile(patchPath, referencePath)
		if err != nil {
			summary.Failed = append(summary.Failed, name)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}

		summary.Completed = append(summary.Completed, name)
		summary.Dialogues += count
		if !m.DryRun {
			common.LogInfo(common.InfoMigratedFile, name, count)
		}
	}

	common.LogInfo(common.InfoMigrationCompleted, len(summary.Completed))
	common.LogInfo(common.InfoMigrationFailed, len(summary.Failed))
	common.LogInfo(common.InfoMigratedDialogues, summary.Dialogues)

	return summary, errs
}
