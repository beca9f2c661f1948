// Package pkg provides functionality for processing dialogue JSON documents.
// This file contains the span extractor that writes span texts to plain-text
// files, one line per span, for translation.
package pkg

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hansbonini/dialoguetools/pkg/common"
	"go.uber.org/multierr"
)

// SpanExtractor implements the SpanExtractorProcessor interface
type SpanExtractor struct {
	// Pattern selects the documents of a directory
	Pattern string
	// Output receives the per-file console messages
	Output io.Writer
}

// NewSpanExtractor creates a new extractor writing its messages to stdout
func NewSpanExtractor() *SpanExtractor {
	return &SpanExtractor{
		Pattern: common.DefaultFilePattern,
		Output:  os.Stdout,
	}
}

// ExtractDocument writes one escaped line per text-bearing span of root to
// writer and returns the number of lines written. Documents of unknown shape
// produce no lines.
func (e *SpanExtractor) ExtractDocument(root any, writer io.Writer) (int, error) {
	doc := NewSpanDocument(root)
	return e.writeSpans(doc, writer)
}

func (e *SpanExtractor) writeSpans(doc *SpanDocument, writer io.Writer) (int, error) {
	bw := bufio.NewWriter(writer)
	count := 0
	for _, span := range doc.TextSpans() {
		text, _ := span.GetString(FieldText)
		if _, err := bw.WriteString(common.EscapeText(text) + "\n"); err != nil {
			return count, err
		}
		count++
	}
	return count, bw.Flush()
}

// ExtractFile extracts the spans of jsonPath into <outputDir>/<stem>.txt and
// returns the path of the text file.
func (e *SpanExtractor) ExtractFile(jsonPath, outputDir string) (string, error) {
	outputPath, _, err := e.extractFile(jsonPath, outputDir)
	return outputPath, err
}

// extractFile does the work of ExtractFile and also returns the line count
func (e *SpanExtractor) extractFile(jsonPath, outputDir string) (string, int, error) {
	doc, err := LoadSpanDocument(jsonPath)
	if err != nil {
		return "", 0, err
	}

	outputPath := filepath.Join(outputDir, common.FileStem(jsonPath)+TextExtension)
	file, err := os.Create(outputPath)
	if err != nil {
		return "", 0, common.FormatError(common.ErrFailedToWriteFile, err)
	}
	defer file.Close()

	count, err := e.writeSpans(doc, file)
	if err != nil {
		return "", 0, common.FormatError(common.ErrFailedToWriteFile, err)
	}
	if err := file.Close(); err != nil {
		return "", 0, common.FormatError(common.ErrFailedToWriteFile, err)
	}

	common.LogDebug(common.DebugDocumentShape, filepath.Base(jsonPath), doc.Shape, count)
	fmt.Fprintf(e.Output, common.InfoSpansExtracted+"\n", jsonPath, outputPath)
	return outputPath, count, nil
}

// ExtractDirectory extracts every document of inputDir into outputDir.
// A file that fails is logged and the remaining files are still processed;
// the returned error combines all per-file failures.
func (e *SpanExtractor) ExtractDirectory(inputDir, outputDir string) (*BatchSummary, error) {
	if err := common.EnsureDir(outputDir); err != nil {
		return nil, err
	}

	files, err := common.ListFiles(inputDir, e.Pattern)
	if err != nil {
		return nil, err
	}

	summary := &BatchSummary{}
	if len(files) == 0 {
		fmt.Fprintf(e.Output, common.InfoNoJSONFiles+"\n", inputDir)
		return summary, nil
	}

	var errs error
	for _, jsonPath := range files {
		outputPath, count, err := e.extractFile(jsonPath, outputDir)
		if err != nil {
			common.LogError(common.LogErrExtract, jsonPath, err)
			summary.Failed = append(summary.Failed, filepath.Base(jsonPath))
			errs = multierr.Append(errs, fmt.Errorf("%s: %w", filepath.Base(jsonPath), err))
			continue
		}
		summary.Processed = append(summary.Processed, filepath.Base(outputPath))
		summary.Spans += count
	}

	return summary, errs
}
