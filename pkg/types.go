package pkg

import (
	"io"

	"github.com/hansbonini/dialoguetools/pkg/jsonx"
)

// DocumentShape tells how a dialogue document stores its spans
type DocumentShape int

const (
	// ShapeUnknown documents carry no spans that the span tools understand
	ShapeUnknown DocumentShape = iota
	// ShapeKeyed documents map digit-string entry indices to entries
	ShapeKeyed
	// ShapeDirect documents carry a single "spans" list at the top level
	ShapeDirect
)

// String returns the shape name used in log messages
func (s DocumentShape) String() string {
	switch s {
	case ShapeKeyed:
		return "keyed"
	case ShapeDirect:
		return "direct"
	default:
		return "unknown"
	}
}

// JSON field names of the dialogue schemas
const (
	FieldSpans    = "spans"
	FieldText     = "text"
	FieldList     = "list"
	FieldSpeaker  = "speaker"
	FieldDialogue = "dialogue"
	FieldHTML     = "html"
)

// TextExtension is the extension of the per-document text files
const TextExtension = ".txt"

// SpanExtractorProcessor writes span texts of dialogue documents to text files
type SpanExtractorProcessor interface {
	ExtractDocument(root any, writer io.Writer) (int, error)
	ExtractFile(jsonPath, outputDir string) (string, error)
	ExtractDirectory(inputDir, outputDir string) (*BatchSummary, error)
}

// SpanInjectorProcessor writes edited text lines back into dialogue documents
type SpanInjectorProcessor interface {
	InjectDocument(root any, lines []string) int
	InjectFile(jsonPath, textPath, outputPath string) error
	InjectDirectory(originalDir, textDir, outputDir string) (*BatchSummary, error)
}

// DialogueMigratorProcessor moves old-schema patch dialogues onto the new schema
type DialogueMigratorProcessor interface {
	MigrateDocument(name string, patch, reference any) (*jsonx.Object, int, error)
	MigrateFile(patchPath, referencePath string) (int, error)
	MigrateDirectory(patchDir, referenceDir string) (*MigrationSummary, error)
}

// BatchSummary reports the outcome of a span tool run over a directory
type BatchSummary struct {
	Processed []string // files written successfully
	Skipped   []string // files without a matching text file
	Failed    []string // files that could not be processed
	Spans     int      // text spans extracted or replaced
}

// MigrationSummary reports the outcome of a migrator run over a directory
type MigrationSummary struct {
	Completed []string
	Failed    []string
	Dialogues int // migrated dialogue entries across all files
}
