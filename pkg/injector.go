// Package pkg provides functionality for processing dialogue JSON documents.
// This file contains the span injector that puts translated text lines back
// into the original JSON structure.
package pkg

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hansbonini/dialoguetools/pkg/common"
	"go.uber.org/multierr"
)

// LineCursor walks the text lines of one document. Each text-bearing span
// consumes at most one line.
type LineCursor struct {
	lines []string
	pos   int
}

// NewLineCursor creates a cursor positioned at the first line
func NewLineCursor(lines []string) *LineCursor {
	return &LineCursor{lines: lines}
}

// Next returns the current line and advances; ok is false once exhausted
func (c *LineCursor) Next() (line string, ok bool) {
	if c.pos >= len(c.lines) {
		return "", false
	}
	line = c.lines[c.pos]
	c.pos++
	return line, true
}

// Consumed returns the number of lines handed out
func (c *LineCursor) Consumed() int {
	return c.pos
}

// Remaining returns the number of lines not handed out yet
func (c *LineCursor) Remaining() int {
	return len(c.lines) - c.pos
}

// SpanInjector implements the SpanInjectorProcessor interface
type SpanInjector struct {
	// Pattern selects the documents of a directory
	Pattern string
	// Indent is the JSON indentation width of written documents
	Indent int
	// Output receives the per-file console messages and warnings
	Output io.Writer
}

// NewSpanInjector creates a new injector writing its messages to stdout
func NewSpanInjector() *SpanInjector {
	return &SpanInjector{
		Pattern: common.DefaultFilePattern,
		Indent:  4,
		Output:  os.Stdout,
	}
}

// ReadTextLines reads a text file produced by the extractor (and edited since)
// and returns its lines with the \n, \r and \t sequences turned back into
// control characters.
func ReadTextLines(path string) ([]string, error) {
	data, err := common.ReadFileUTF8(path)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadTextFile, err)
	}

	lines := common.SplitLines(string(data))
	for i, line := range lines {
		lines[i] = common.UnescapeText(line)
	}
	return lines, nil
}

// InjectDocument replaces the text of the text-bearing spans of root with
// lines, in canonical order, and returns the number of spans replaced.
// Spans left over when lines run out keep their text; extra lines are ignored.
func (s *SpanInjector) InjectDocument(root any, lines []string) int {
	doc := NewSpanDocument(root)
	return s.injectSpans(doc, NewLineCursor(lines))
}

func (s *SpanInjector) injectSpans(doc *SpanDocument, cursor *LineCursor) int {
	for _, span := range doc.TextSpans() {
		line, ok := cursor.Next()
		if !ok {
			break
		}
		span.Set(FieldText, line)
	}
	return cursor.Consumed()
}

// InjectFile injects the lines of textPath into the document at jsonPath and
// writes the result to outputPath, creating its parent directories.
func (s *SpanInjector) InjectFile(jsonPath, textPath, outputPath string) error {
	_, err := s.injectFile(jsonPath, textPath, outputPath)
	return err
}

// injectFile does the work of InjectFile and also returns the replaced count
func (s *SpanInjector) injectFile(jsonPath, textPath, outputPath string) (int, error) {
	doc, err := LoadSpanDocument(jsonPath)
	if err != nil {
		return 0, err
	}

	lines, err := ReadTextLines(textPath)
	if err != nil {
		return 0, err
	}
	common.LogDebug(common.DebugLinesRead, filepath.Base(textPath), len(lines))

	cursor := NewLineCursor(lines)
	replaced := s.injectSpans(doc, cursor)
	common.LogDebug(common.DebugSpansReplaced, filepath.Base(jsonPath), replaced, len(doc.TextSpans()))
	if cursor.Remaining() > 0 {
		common.LogDebug(common.DebugExcessTextLines, filepath.Base(textPath), cursor.Remaining())
	}

	data, err := encodeJSON(doc.Root, s.Indent)
	if err != nil {
		return 0, err
	}

	if err := common.EnsureDir(filepath.Dir(outputPath)); err != nil {
		return 0, err
	}
	if err := os.WriteFile(outputPath, data, 0o644); err != nil {
		return 0, common.FormatError(common.ErrFailedToWriteFile, err)
	}

	fmt.Fprintf(s.Output, common.InfoSpansInjected+"\n", outputPath)
	return replaced, nil
}

// InjectDirectory pairs every document of originalDir with the text file of
// the same stem in textDir and writes the results to outputDir. Documents
// without a text file are skipped with a warning. A file that fails is logged
// and the remaining files are still processed; the returned error combines
// all per-file failures.
func (s *SpanInjector) InjectDirectory(originalDir, textDir, outputDir string) (*BatchSummary, error) {
	if err := common.EnsureDir(outputDir); err != nil {
		return nil, err
	}

	files, err := common.ListFiles(originalDir, s.Pattern)
	if err != nil {
		return nil, err
	}

	summary := &BatchSummary{}
	if len(files) == 0 {
		fmt.Fprintf(s.Output, common.InfoNoJSONFiles+"\n", originalDir)
		return summary, nil
	}

	var errs error
	for _, jsonPath := range files {
		name := filepath.Base(jsonPath)
		textPath := filepath.Join(textDir, common.FileStem(jsonPath)+TextExtension)

		if !common.FileExists(textPath) {
			fmt.Fprintf(s.Output, common.WarnMissingTextFile+"\n", name)
			summary.Skipped = append(summary.Skipped, name)
			continue
		}

		replaced, err := s.injectFile(jsonPath, textPath, filepath.Join(outputDir, name))
		if err != nil {
			common.LogError(common.LogErrInject, jsonPath, err)
			summary.Failed = append(summary.Failed, name)
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", name, err))
			continue
		}
		summary.Processed = append(summary.Processed, name)
		summary.Spans += replaced
	}

	return summary, errs
}
