// Package validation checks user-supplied file names and input content
// before they reach the converter.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"unicode"
)

// Limits applied to uploads and names.
const (
	// MaxFileSize is the largest accepted input (256 MB).
	MaxFileSize = 256 << 20
	// MaxFilenameLength is the longest accepted file name.
	MaxFilenameLength = 255
)

// Validation errors.
var (
	ErrInvalidFilename = errors.New("invalid filename")
	ErrFilenameTooLong = errors.New("filename too long")
	ErrInputMismatch   = errors.New("input content does not match its kind")
)

// ValidateFilename rejects names with path separators, control
// characters or a leading hyphen.
func ValidateFilename(filename string) error {
	if filename == "" {
		return ErrInvalidFilename
	}
	if len(filename) > MaxFilenameLength {
		return ErrFilenameTooLong
	}
	if filename == "." || filename == ".." {
		return fmt.Errorf("%w: reserved name", ErrInvalidFilename)
	}
	if strings.ContainsAny(filename, "/\\") {
		return fmt.Errorf("%w: path separator not allowed", ErrInvalidFilename)
	}
	for _, r := range filename {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidFilename)
		}
	}
	if strings.HasPrefix(filename, "-") {
		return fmt.Errorf("%w: filename cannot start with hyphen", ErrInvalidFilename)
	}
	return nil
}

// SanitizeFilename turns a client-supplied name into a safe base name.
func SanitizeFilename(filename string) (string, error) {
	filename = strings.TrimSpace(filename)
	filename = strings.NewReplacer("/", "_", "\\", "_").Replace(filename)

	var cleaned strings.Builder
	for _, r := range filename {
		if !unicode.IsControl(r) {
			cleaned.WriteRune(r)
		}
	}
	filename = strings.TrimLeft(cleaned.String(), "-")

	if err := ValidateFilename(filename); err != nil {
		return "", err
	}
	return filename, nil
}

// InputKind is the kind of document given to the converter.
type InputKind string

const (
	KindIDML    InputKind = "idml"
	KindHubXML  InputKind = "hubxml"
	KindUnknown InputKind = "unknown"
)

// zipMagic opens every IDML package.
var zipMagic = []byte{0x50, 0x4b, 0x03, 0x04}

// DetectInput sniffs the first bytes of an input.
func DetectInput(head []byte) InputKind {
	if bytes.HasPrefix(head, zipMagic) {
		return KindIDML
	}
	trimmed := bytes.TrimLeft(bytes.TrimPrefix(head, []byte("\xef\xbb\xbf")), " \t\r\n")
	if bytes.HasPrefix(trimmed, []byte("<")) && isLikelyText(trimmed) {
		return KindHubXML
	}
	return KindUnknown
}

// KindOf returns the kind suggested by a file extension.
func KindOf(filename string) InputKind {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".idml":
		return KindIDML
	case ".xml", ".hub":
		return KindHubXML
	}
	return KindUnknown
}

// ValidateInput reads the head of r and checks it is of kind want.
func ValidateInput(r io.Reader, want InputKind) error {
	buf := make([]byte, 512)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return fmt.Errorf("read input header: %w", err)
	}
	if got := DetectInput(buf[:n]); got != want {
		return fmt.Errorf("%w: expected %s, content is %s", ErrInputMismatch, want, got)
	}
	return nil
}

// isLikelyText reports whether buf looks like text: no NUL bytes and
// over 95% printable ASCII among the non-UTF-8 bytes.
func isLikelyText(buf []byte) bool {
	if len(buf) == 0 || bytes.IndexByte(buf, 0) != -1 {
		return false
	}
	printable, control := 0, 0
	for _, b := range buf {
		switch {
		case b >= 0x20 && b <= 0x7e, b == '\t', b == '\n', b == '\r':
			printable++
		case b < 0x20:
			control++
		}
	}
	return printable > 0 && float64(printable)/float64(printable+control) > 0.95
}
