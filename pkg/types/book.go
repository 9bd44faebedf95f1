// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// Book is the corpus metadata record for a registered source text.
// Serialized as YAML under the corpus metadata directory, one file per book.
// Per prd001-corpus R2.
type Book struct {
	// ID is the slug derived from the registered filename.
	ID string `json:"id" yaml:"id"`

	// Title of the book. Defaults to the filename stem when not supplied.
	Title string `json:"title" yaml:"title"`

	// Author of the book, if known.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// Authority ranks the book's trustworthiness for search ordering.
	Authority AuthorityLevel `json:"authority_level" yaml:"authority_level"`

	// Path is the registered copy under the corpus books directory.
	Path string `json:"path" yaml:"path"`

	// Pages counted during text conversion. 0 = not yet processed or unknown.
	Pages int `json:"pages,omitempty" yaml:"pages,omitempty"`

	// AddedAt records when the book entered the corpus.
	AddedAt time.Time `json:"added_at,omitzero" yaml:"added_at,omitempty"`
}

// Source builds the SourceInfo stamped onto rules extracted from this book.
func (b Book) Source() SourceInfo {
	return SourceInfo{
		Title:     b.Title,
		Author:    b.Author,
		Authority: b.Authority,
	}
}
