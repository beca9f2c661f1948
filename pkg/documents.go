// Package pkg provides the dialogue JSON processors used in text-modding:
// span extraction and injection for translation, and migration of old-schema
// dialogue patches onto the current schema.
// This file contains document shape detection and the canonical span order
// shared by the extractor and the injector.
package pkg

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/hansbonini/dialoguetools/pkg/common"
	"github.com/hansbonini/dialoguetools/pkg/jsonx"
)

// SpanDocument is a dialogue document with its shape detected once.
// The spans it returns are the live objects of the decoded tree, so changes
// made through them show up when Root is encoded.
type SpanDocument struct {
	Shape   DocumentShape
	Root    any
	entries []any
}

// NewSpanDocument detects the shape of a decoded document
func NewSpanDocument(root any) *SpanDocument {
	doc := &SpanDocument{Shape: ShapeUnknown, Root: root}

	obj, ok := root.(*jsonx.Object)
	if !ok {
		return doc
	}

	switch {
	case isKeyedObject(obj):
		doc.Shape = ShapeKeyed
		for _, key := range sortedEntryKeys(obj.Keys()) {
			entry, _ := obj.Get(key)
			doc.entries = append(doc.entries, entry)
		}
	case obj.Has(FieldSpans):
		doc.Shape = ShapeDirect
		doc.entries = []any{obj}
	}

	return doc
}

// TextSpans returns the text-bearing spans in canonical order: entries by
// ascending numeric key, then spans in list order. A span is text-bearing
// when it is an object whose "text" field holds a string.
func (d *SpanDocument) TextSpans() []*jsonx.Object {
	spans := make([]*jsonx.Object, 0)
	for _, entry := range d.entries {
		obj, ok := entry.(*jsonx.Object)
		if !ok {
			continue
		}
		list, ok := obj.GetArray(FieldSpans)
		if !ok {
			continue
		}
		for _, item := range list {
			span, ok := item.(*jsonx.Object)
			if !ok {
				continue
			}
			if _, ok := span.GetString(FieldText); ok {
				spans = append(spans, span)
			}
		}
	}
	return spans
}

// LoadSpanDocument reads and decodes a dialogue document from disk
func LoadSpanDocument(path string) (*SpanDocument, error) {
	root, err := readJSONFile(path)
	if err != nil {
		return nil, err
	}
	return NewSpanDocument(root), nil
}

// isKeyedObject reports whether every non-empty key is an ASCII digit string.
// An empty object counts as keyed.
func isKeyedObject(obj *jsonx.Object) bool {
	for _, key := range obj.Keys() {
		if key == "" {
			continue
		}
		if !isDigits(key) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// sortedEntryKeys orders digit keys by numeric value; keys that are not
// numbers (the empty key) go last. Equal values keep document order.
func sortedEntryKeys(keys []string) []string {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.SliceStable(sorted, func(i, j int) bool {
		return compareEntryKeys(sorted[i], sorted[j]) < 0
	})
	return sorted
}

// compareEntryKeys compares digit strings of any length by numeric value
func compareEntryKeys(a, b string) int {
	aNum, bNum := isDigits(a), isDigits(b)
	switch {
	case !aNum && !bNum:
		return 0
	case !aNum:
		return 1
	case !bNum:
		return -1
	}

	a = trimLeadingZeros(a)
	b = trimLeadingZeros(b)
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

func trimLeadingZeros(s string) string {
	trimmed := strings.TrimLeft(s, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

// readJSONFile decodes a UTF-8 JSON file into an ordered value tree
func readJSONFile(path string) (any, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToReadFile, err)
	}
	defer file.Close()

	root, err := jsonx.Decode(common.NewUTF8Reader(file))
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToDecodeJSON, fmt.Errorf("%s: %w", path, err))
	}
	return root, nil
}

// encodeJSON renders a document the way all tools write JSON
func encodeJSON(root any, indent int) ([]byte, error) {
	data, err := jsonx.MarshalIndent(root, indent)
	if err != nil {
		return nil, common.FormatError(common.ErrFailedToEncodeJSON, err)
	}
	return data, nil
}
