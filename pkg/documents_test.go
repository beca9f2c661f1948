// Package pkg provides tests for document shape detection and span order
package pkg

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/hansbonini/dialoguetools/pkg/jsonx"
)

// mustDecode decodes a JSON literal for tests
func mustDecode(t *testing.T, input string) any {
	t.Helper()
	value, err := jsonx.Unmarshal([]byte(input))
	if err != nil {
		t.Fatalf("Failed to decode test JSON: %v", err)
	}
	return value
}

// spanTexts returns the texts of the text-bearing spans in canonical order
func spanTexts(doc *SpanDocument) []string {
	texts := []string{}
	for _, span := range doc.TextSpans() {
		text, _ := span.GetString(FieldText)
		texts = append(texts, text)
	}
	return texts
}

func TestNewSpanDocument_Shapes(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		shape    DocumentShape
		expected []string
	}{
		{
			name:     "keyed",
			input:    `{"0": {"spans": [{"text": "a"}]}, "1": {"spans": [{"text": "b"}]}}`,
			shape:    ShapeKeyed,
			expected: []string{"a", "b"},
		},
		{
			name:     "direct",
			input:    `{"id": "x", "spans": [{"text": "a"}, {"text": "b"}]}`,
			shape:    ShapeDirect,
			expected: []string{"a", "b"},
		},
		{
			name:     "empty object is keyed",
			input:    `{}`,
			shape:    ShapeKeyed,
			expected: []string{},
		},
		{
			name:     "object without spans",
			input:    `{"title": "x"}`,
			shape:    ShapeUnknown,
			expected: []string{},
		},
		{
			name:     "top-level array",
			input:    `[{"spans": [{"text": "a"}]}]`,
			shape:    ShapeUnknown,
			expected: []string{},
		},
		{
			name:     "top-level string",
			input:    `"spans"`,
			shape:    ShapeUnknown,
			expected: []string{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			doc := NewSpanDocument(mustDecode(t, tc.input))
			if doc.Shape != tc.shape {
				t.Errorf("Shape = %v, want %v", doc.Shape, tc.shape)
			}
			if texts := spanTexts(doc); !reflect.DeepEqual(texts, tc.expected) {
				t.Errorf("TextSpans() = %q, want %q", texts, tc.expected)
			}
		})
	}
}

func TestTextSpans_NumericKeyOrder(t *testing.T) {
	doc := NewSpanDocument(mustDecode(t, `{
		"10": {"spans": [{"text": "ten"}]},
		"2": {"spans": [{"text": "two"}]},
		"1": {"spans": [{"text": "one"}]}
	}`))

	expected := []string{"one", "two", "ten"}
	if texts := spanTexts(doc); !reflect.DeepEqual(texts, expected) {
		t.Errorf("TextSpans() = %q, want %q", texts, expected)
	}
}

func TestTextSpans_EmptyKeySortsLast(t *testing.T) {
	doc := NewSpanDocument(mustDecode(t, `{
		"": {"spans": [{"text": "empty"}]},
		"3": {"spans": [{"text": "three"}]},
		"003": {"spans": [{"text": "three again"}]},
		"12345678901234567890123": {"spans": [{"text": "huge"}]}
	}`))

	if doc.Shape != ShapeKeyed {
		t.Fatalf("Shape = %v, want keyed", doc.Shape)
	}
	expected := []string{"three", "three again", "huge", "empty"}
	if texts := spanTexts(doc); !reflect.DeepEqual(texts, expected) {
		t.Errorf("TextSpans() = %q, want %q", texts, expected)
	}
}

func TestTextSpans_SkipsSpansWithoutText(t *testing.T) {
	doc := NewSpanDocument(mustDecode(t, `{
		"1": {"spans": [{"text": "a"}, {"style": "bold"}, {"text": 5}, "loose", {"text": "b"}]},
		"2": {"other": []},
		"3": "not an entry",
		"4": {"spans": "not a list"}
	}`))

	expected := []string{"a", "b"}
	if texts := spanTexts(doc); !reflect.DeepEqual(texts, expected) {
		t.Errorf("TextSpans() = %q, want %q", texts, expected)
	}
}

func TestNonDigitKeysSelectDirectShape(t *testing.T) {
	doc := NewSpanDocument(mustDecode(t, `{"1": {"spans": [{"text": "entry"}]}, "spans": [{"text": "direct"}]}`))

	if doc.Shape != ShapeDirect {
		t.Fatalf("Shape = %v, want direct", doc.Shape)
	}
	expected := []string{"direct"}
	if texts := spanTexts(doc); !reflect.DeepEqual(texts, expected) {
		t.Errorf("TextSpans() = %q, want %q", texts, expected)
	}
}

func TestDocumentShape_String(t *testing.T) {
	testCases := map[DocumentShape]string{
		ShapeKeyed:        "keyed",
		ShapeDirect:       "direct",
		ShapeUnknown:      "unknown",
		DocumentShape(42): "unknown",
	}
	for shape, expected := range testCases {
		if shape.String() != expected {
			t.Errorf("DocumentShape(%d).String() = %q, want %q", int(shape), shape.String(), expected)
		}
	}
}

func TestCompareEntryKeys(t *testing.T) {
	testCases := []struct {
		a, b     string
		expected int
	}{
		{"1", "2", -1},
		{"10", "2", 1},
		{"007", "7", 0},
		{"0", "000", 0},
		{"", "1", 1},
		{"1", "", -1},
		{"", "", 0},
		{"99999999999999999999", "100000000000000000000", -1},
	}

	for _, tc := range testCases {
		if result := compareEntryKeys(tc.a, tc.b); result != tc.expected {
			t.Errorf("compareEntryKeys(%q, %q) = %d, want %d", tc.a, tc.b, result, tc.expected)
		}
	}
}

func TestLoadSpanDocument(t *testing.T) {
	dir := t.TempDir()

	valid := filepath.Join(dir, "valid.json")
	if err := os.WriteFile(valid, []byte("\xEF\xBB\xBF{\"spans\": [{\"text\": \"bom\"}]}"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	doc, err := LoadSpanDocument(valid)
	if err != nil {
		t.Fatalf("LoadSpanDocument() failed: %v", err)
	}
	if texts := spanTexts(doc); !reflect.DeepEqual(texts, []string{"bom"}) {
		t.Errorf("TextSpans() = %q, want [bom]", texts)
	}

	invalid := filepath.Join(dir, "invalid.json")
	if err := os.WriteFile(invalid, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := LoadSpanDocument(invalid); err == nil {
		t.Error("LoadSpanDocument() should fail for invalid JSON")
	}

	if _, err := LoadSpanDocument(filepath.Join(dir, "missing.json")); err == nil {
		t.Error("LoadSpanDocument() should fail for a missing file")
	}
}
