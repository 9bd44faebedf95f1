// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/Veg-briyani/vediq/pkg/types"
)

// ExportDocument is the flattened, human-readable export shape (R6.2). It is
// a serialization view only and is never re-imported.
type ExportDocument struct {
	ExportDate string       `json:"export_date" yaml:"export_date"`
	TotalRules int          `json:"total_rules" yaml:"total_rules"`
	Rules      []ExportRule `json:"rules" yaml:"rules"`
}

// ExportRule holds one rule in the export shape.
type ExportRule struct {
	ID           string           `json:"id" yaml:"id"`
	OriginalText string           `json:"original_text" yaml:"original_text"`
	Conditions   ExportConditions `json:"conditions" yaml:"conditions"`
	Effects      []ExportEffect   `json:"effects" yaml:"effects"`
	Source       ExportSource     `json:"source" yaml:"source"`
	Confidence   float64          `json:"confidence_score" yaml:"confidence_score"`
	Tags         []string         `json:"tags" yaml:"tags"`
}

// ExportConditions flattens the condition to its search-relevant fields.
type ExportConditions struct {
	Planet     string                `json:"planet,omitempty" yaml:"planet,omitempty"`
	House      int                   `json:"house,omitempty" yaml:"house,omitempty"`
	Sign       string                `json:"sign,omitempty" yaml:"sign,omitempty"`
	Additional *types.ConditionFlags `json:"additional,omitempty" yaml:"additional,omitempty"`
}

// ExportEffect holds the category, description, and polarity of one effect.
type ExportEffect struct {
	Category    string `json:"category" yaml:"category"`
	Description string `json:"description" yaml:"description"`
	Positive    bool   `json:"positive" yaml:"positive"`
}

// ExportSource names the provenance with the authority level as its
// lowercase name rather than its numeric rank.
type ExportSource struct {
	Title     string `json:"title" yaml:"title"`
	Author    string `json:"author,omitempty" yaml:"author,omitempty"`
	Authority string `json:"authority_level" yaml:"authority_level"`
}

// ExportJSON writes all stored rules to path as indented JSON (R6.3).
func (s *Store) ExportJSON(ctx context.Context, path string) error {
	doc, err := s.exportDocument(ctx)
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}
	return writeExport(path, data)
}

// ExportYAML writes all stored rules to path as YAML (R6.4).
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	doc, err := s.exportDocument(ctx)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshaling YAML: %w", err)
	}
	return writeExport(path, data)
}

func (s *Store) exportDocument(ctx context.Context) (*ExportDocument, error) {
	rules, err := s.Search(ctx, SearchOptions{})
	if err != nil {
		return nil, fmt.Errorf("querying for export: %w", err)
	}

	doc := &ExportDocument{
		ExportDate: time.Now().UTC().Format(time.RFC3339),
		TotalRules: len(rules),
		Rules:      make([]ExportRule, len(rules)),
	}

	for i, r := range rules {
		entry := ExportRule{
			ID:           r.ID,
			OriginalText: r.OriginalText,
			Conditions: ExportConditions{
				Planet: r.Conditions.Planet,
				House:  r.Conditions.House,
				Sign:   r.Conditions.Sign,
			},
			Source: ExportSource{
				Title:     r.Source.Title,
				Author:    r.Source.Author,
				Authority: r.Source.Authority.String(),
			},
			Confidence: r.Confidence,
			Tags:       r.Tags,
		}
		if !r.Conditions.Flags.None() {
			flags := r.Conditions.Flags
			entry.Conditions.Additional = &flags
		}
		for _, e := range r.Effects {
			entry.Effects = append(entry.Effects, ExportEffect{
				Category:    e.Category,
				Description: e.Description,
				Positive:    e.Positive,
			})
		}
		doc.Rules[i] = entry
	}

	return doc, nil
}

func writeExport(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating export directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
