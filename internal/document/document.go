// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package document cleans converted book text and selects the sentences
// worth feeding to rule extraction.
// Implements: prd002-processing (R1-R3);
//
//	docs/ARCHITECTURE § Document Processing.
package document

import (
	"regexp"
	"strings"
)

const (
	// minSentenceLen and maxSentenceLen bound the fragments kept after
	// segmentation. Shorter fragments are OCR debris; longer ones are
	// run-together paragraphs no heuristic can parse.
	minSentenceLen = 10
	maxSentenceLen = 500
)

var (
	pageNumberLine = regexp.MustCompile(`(?m)^\s*\d+\s*$`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
	sentenceEnd    = regexp.MustCompile(`[.!?]+`)
)

// Processor prepares raw book text for extraction. The keyword tables and
// length bounds are fixed at construction.
type Processor struct {
	planetTerms []string
	houseTerms  []string
	signTerms   []string
	effectTerms []string
}

// NewProcessor returns a Processor with the default keyword tables.
func NewProcessor() *Processor {
	return &Processor{
		planetTerms: []string{
			"sun", "moon", "mars", "mercury", "jupiter", "venus", "saturn",
			"rahu", "ketu", "lagna", "ascendant",
		},
		houseTerms: []string{"house", "bhava"},
		signTerms: []string{
			"aries", "taurus", "gemini", "cancer", "leo", "virgo",
			"libra", "scorpio", "sagittarius", "capricorn", "aquarius", "pisces",
		},
		effectTerms: []string{
			"gives", "causes", "indicates", "produces", "results", "brings",
		},
	}
}

// Document is the processed form of one book file: cleaned text plus the
// segmented and filtered sentences.
type Document struct {
	Filename     string
	Pages        int
	Text         string
	Sentences    []string
	Astrological []string
}

// Process runs the full pipeline over one file's raw text.
func (p *Processor) Process(filename, text string, pages int) *Document {
	cleaned := p.CleanText(text)
	sentences := p.SplitSentences(cleaned)
	return &Document{
		Filename:     filename,
		Pages:        pages,
		Text:         cleaned,
		Sentences:    sentences,
		Astrological: p.FilterAstrological(sentences),
	}
}

// CleanText strips conversion artifacts: form feeds, Unicode replacement
// characters, standalone page-number lines, and runs of whitespace.
func (p *Processor) CleanText(text string) string {
	text = strings.ReplaceAll(text, "\f", "\n")
	text = strings.ReplaceAll(text, "�", "")
	text = pageNumberLine.ReplaceAllString(text, "")
	text = whitespaceRun.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// SplitSentences segments text on sentence-ending punctuation and keeps
// trimmed fragments within the length bounds.
func (p *Processor) SplitSentences(text string) []string {
	var sentences []string
	for _, part := range sentenceEnd.Split(text, -1) {
		s := strings.TrimSpace(part)
		if len(s) >= minSentenceLen && len(s) <= maxSentenceLen {
			sentences = append(sentences, s)
		}
	}
	return sentences
}

// IsAstrological reports whether a sentence looks like astrological content:
// a planet term together with a house term, a sign term, or an effect term.
func (p *Processor) IsAstrological(sentence string) bool {
	lower := strings.ToLower(sentence)
	if !containsAny(lower, p.planetTerms) {
		return false
	}
	return containsAny(lower, p.houseTerms) ||
		containsAny(lower, p.signTerms) ||
		containsAny(lower, p.effectTerms)
}

// FilterAstrological keeps the astrological-looking sentences, preserving
// input order.
func (p *Processor) FilterAstrological(sentences []string) []string {
	var kept []string
	for _, s := range sentences {
		if p.IsAstrological(s) {
			kept = append(kept, s)
		}
	}
	return kept
}

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}
