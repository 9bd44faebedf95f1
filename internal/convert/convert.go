// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns book files into plain text with pluggable backends.
// Implements: prd001-corpus (R3);
//
//	docs/ARCHITECTURE § Conversion.
package convert

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// TextExtractor produces the plain text of a book file. Different backends
// (pdftotext, direct read) implement this interface.
type TextExtractor interface {
	// Extract reads the file at path and returns its plain text and the
	// page count when the backend can determine one (0 = unknown).
	Extract(path string) (text string, pages int, err error)
}

// PlainText reads text-based files (.txt, .md) directly. It cannot
// determine a page count.
type PlainText struct{}

// Extract returns the file content verbatim.
func (PlainText) Extract(path string) (string, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", 0, fmt.Errorf("reading %s: %w", path, err)
	}
	return string(data), 0, nil
}

// ForFile selects a backend by file extension. Unsupported extensions are
// input errors surfaced to the caller.
func ForFile(path string) (TextExtractor, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return NewPDFToText()
	case ".txt", ".md":
		return PlainText{}, nil
	default:
		return nil, fmt.Errorf("unsupported file type %q: use .pdf, .txt, or .md", filepath.Ext(path))
	}
}
