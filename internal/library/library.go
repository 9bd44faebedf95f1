// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library registers source books into the corpus and keeps their
// metadata records.
// Implements: prd001-corpus (R1, R2);
//
//	docs/ARCHITECTURE § Corpus Library.
package library

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/Veg-briyani/vediq/pkg/types"
)

const (
	booksDir    = "books"
	metadataDir = "metadata"
)

// Library manages the corpus directory: registered book copies under books/
// and one YAML metadata record per book under metadata/.
type Library struct {
	baseDir string
}

// New returns a Library rooted at baseDir.
func New(baseDir string) *Library {
	return &Library{baseDir: baseDir}
}

// Add registers the file at srcPath: it copies the file into the corpus,
// fills in the book record, and writes the metadata YAML. Registration is
// idempotent per filename; an already-registered book is skipped with its
// existing record returned (R1.3).
func (l *Library) Add(srcPath string, book types.Book, w io.Writer) (*types.Book, error) {
	base := filepath.Base(srcPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	id := slugify(stem)
	destPath := filepath.Join(l.baseDir, booksDir, base)

	if _, err := os.Stat(destPath); err == nil {
		fmt.Fprintf(w, "skipped: %s (already registered)\n", id)
		existing, readErr := l.Get(id)
		if readErr == nil && existing != nil {
			return existing, nil
		}
		// Registered copy without a readable record; fall through and
		// rewrite the metadata.
	}

	for _, dir := range []string{
		filepath.Join(l.baseDir, booksDir),
		filepath.Join(l.baseDir, metadataDir),
	} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if _, err := os.Stat(destPath); os.IsNotExist(err) {
		if err := copyFile(srcPath, destPath); err != nil {
			return nil, fmt.Errorf("registering %s: %w", base, err)
		}
		fmt.Fprintf(w, "registered: %s\n", id)
	}

	book.ID = id
	book.Path = destPath
	if book.Title == "" {
		book.Title = stem
	}
	if book.AddedAt.IsZero() {
		book.AddedAt = time.Now().UTC()
	}

	if err := l.writeMetadata(&book); err != nil {
		return nil, fmt.Errorf("writing metadata for %s: %w", id, err)
	}
	return &book, nil
}

// Books returns all metadata records sorted by ID. Unreadable records are
// skipped with a warning line on w.
func (l *Library) Books(w io.Writer) ([]types.Book, error) {
	metaDir := filepath.Join(l.baseDir, metadataDir)
	entries, err := os.ReadDir(metaDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading metadata directory %s: %w", metaDir, err)
	}

	var books []types.Book
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		book, err := readMetadata(filepath.Join(metaDir, entry.Name()))
		if err != nil {
			fmt.Fprintf(w, "warning: unreadable metadata %s: %v\n", entry.Name(), err)
			continue
		}
		books = append(books, *book)
	}

	sort.Slice(books, func(i, j int) bool { return books[i].ID < books[j].ID })
	return books, nil
}

// Get returns the metadata record for id, or (nil, nil) when absent.
func (l *Library) Get(id string) (*types.Book, error) {
	path := filepath.Join(l.baseDir, metadataDir, id+".yaml")
	book, err := readMetadata(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading metadata for %s: %w", id, err)
	}
	return book, nil
}

func (l *Library) writeMetadata(book *types.Book) error {
	data, err := yaml.Marshal(book)
	if err != nil {
		return fmt.Errorf("marshaling metadata: %w", err)
	}
	path := filepath.Join(l.baseDir, metadataDir, book.ID+".yaml")
	return os.WriteFile(path, data, 0o644)
}

func readMetadata(path string) (*types.Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var book types.Book
	if err := yaml.Unmarshal(data, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

// copyFile copies src to dest through a temporary file so a failed copy
// never leaves a partial book in the corpus.
func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening source: %w", err)
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(dest), ".library-*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()

	_, copyErr := io.Copy(tmp, in)
	closeErr := tmp.Close()
	if copyErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("copying: %w", copyErr)
	}
	if closeErr != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", closeErr)
	}

	if err := os.Rename(tmpPath, dest); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file: %w", err)
	}
	return nil
}

// slugify lowercases the stem and collapses runs of non-alphanumeric
// characters to single hyphens.
func slugify(s string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
