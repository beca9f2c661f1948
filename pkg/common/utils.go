package common

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/maruel/natural"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultFilePattern selects dialogue documents inside a directory
const DefaultFilePattern = "*.json"

var (
	escaper   = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)
	unescaper = strings.NewReplacer(`\n`, "\n", `\r`, "\r", `\t`, "\t")
)

// EscapeText turns newline, carriage return and tab into the two-character
// sequences \n, \r and \t so a span fits on one line.
func EscapeText(text string) string {
	return escaper.Replace(text)
}

// UnescapeText reverses EscapeText. Every \n, \r and \t sequence is converted,
// including ones that were typed literally.
func UnescapeText(text string) string {
	return unescaper.Replace(text)
}

// SplitLines splits text into lines. "\r\n" and a lone "\r" both end a line,
// terminators are stripped and a final terminator does not add an empty line.
func SplitLines(text string) []string {
	if text == "" {
		return []string{}
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// NewUTF8Reader wraps r so that a leading UTF-8 byte order mark is dropped
func NewUTF8Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// ReadFileUTF8 reads a whole UTF-8 file without its byte order mark
func ReadFileUTF8(path string) ([]byte, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, FormatError(ErrFailedToReadFile, err)
	}
	defer file.Close()

	data, err := io.ReadAll(NewUTF8Reader(file))
	if err != nil {
		return nil, FormatError(ErrFailedToReadFile, err)
	}
	return data, nil
}

// DirExists reports whether path exists and is a directory
func DirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// FileExists reports whether path exists and is not a directory
func FileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// RequireDir returns an error naming the directory when it does not exist
func RequireDir(kind, path string) error {
	if !DirExists(path) {
		return fmt.Errorf("%s directory %s does not exist", kind, path)
	}
	return nil
}

// EnsureDir creates dir and any missing parents
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return FormatError(ErrFailedToCreateDirectory, err)
	}
	return nil
}

// ListFiles returns the regular files in dir whose base name matches pattern,
// in natural order (file2.json before file10.json).
func ListFiles(dir, pattern string) ([]string, error) {
	if pattern == "" {
		pattern = DefaultFilePattern
	}
	if !doublestar.ValidatePattern(pattern) {
		return nil, FormatError(ErrInvalidPattern, pattern)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, FormatError(ErrFailedToListDirectory, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := doublestar.Match(pattern, entry.Name())
		if err != nil {
			return nil, FormatError(ErrInvalidPattern, err)
		}
		if matched {
			names = append(names, entry.Name())
		}
	}
	sort.Sort(natural.StringSlice(names))

	files := make([]string, len(names))
	for i, name := range names {
		files[i] = filepath.Join(dir, name)
	}

	LogDebug(DebugFilesMatched, len(files), dir, pattern)
	return files, nil
}

// FileStem returns the base name of path without its extension
func FileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// WriteFileAtomic replaces path with data through a temporary file in the
// same directory, so readers never observe a half-written file.
func WriteFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return FormatError(ErrFailedToWriteFile, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return FormatError(ErrFailedToWriteFile, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return FormatError(ErrFailedToWriteFile, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return FormatError(ErrFailedToWriteFile, err)
	}

	// Keep the permissions of the file being replaced
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	_ = os.Chmod(tmpPath, mode)

	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return FormatError(ErrFailedToWriteFile, err)
	}
	return nil
}
