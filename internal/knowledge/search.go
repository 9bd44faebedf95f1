// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"fmt"
	"strings"

	"github.com/Veg-briyani/vediq/pkg/types"
)

// SearchOptions holds the optional, AND-combined rule filters (R3).
// Zero values mean "no filter".
type SearchOptions struct {
	// Planet filters by exact match on the canonical planet name (R3.1).
	Planet string

	// House filters by house number 1-12 (R3.2).
	House int

	// Sign filters by exact match on the canonical sign name (R3.3).
	Sign string

	// Source filters by case-sensitive substring of the source title (R3.4).
	Source string

	// MinConfidence keeps rules scoring at least this value (R3.5).
	MinConfidence float64

	// Limit caps the result count after ordering. Zero = unlimited (R3.6).
	Limit int
}

// IsEmpty reports whether the options carry no filter.
func (o SearchOptions) IsEmpty() bool {
	return o.Planet == "" && o.House == 0 && o.Sign == "" &&
		o.Source == "" && o.MinConfidence == 0
}

// Search returns rules matching all given filters, ordered by confidence
// descending and then authority ascending, so higher-confidence and
// higher-authority rules surface first (R3.7).
func (s *Store) Search(ctx context.Context, opts SearchOptions) ([]types.Rule, error) {
	var (
		qb   strings.Builder
		args []any
	)

	qb.WriteString(selectRules)
	qb.WriteString(` WHERE 1=1`)

	if opts.Planet != "" {
		qb.WriteString(` AND planet = ?`)
		args = append(args, opts.Planet)
	}
	if opts.House != 0 {
		qb.WriteString(` AND house = ?`)
		args = append(args, opts.House)
	}
	if opts.Sign != "" {
		qb.WriteString(` AND sign = ?`)
		args = append(args, opts.Sign)
	}
	if opts.Source != "" {
		// LIKE is case-insensitive for ASCII in SQLite; instr keeps the
		// substring match case-sensitive.
		qb.WriteString(` AND instr(source_title, ?) > 0`)
		args = append(args, opts.Source)
	}
	if opts.MinConfidence > 0 {
		qb.WriteString(` AND confidence_score >= ?`)
		args = append(args, opts.MinConfidence)
	}

	qb.WriteString(` ORDER BY confidence_score DESC, authority_level ASC`)

	if opts.Limit > 0 {
		qb.WriteString(` LIMIT ?`)
		args = append(args, opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("searching rules: %w", err)
	}
	defer rows.Close()

	var rules []types.Rule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		rules = append(rules, *rule)
	}
	return rules, rows.Err()
}

// RulesByTag returns rules carrying the exact tag (R3.8). The tag list is an
// opaque JSON blob to SQL, so the membership test runs over a full scan in
// application code; there is no tag index.
func (s *Store) RulesByTag(ctx context.Context, tag string) ([]types.Rule, error) {
	all, err := s.Search(ctx, SearchOptions{})
	if err != nil {
		return nil, err
	}

	var matched []types.Rule
	for _, rule := range all {
		if rule.HasTag(tag) {
			matched = append(matched, rule)
		}
	}
	return matched, nil
}
