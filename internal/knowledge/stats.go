// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"database/sql"
	"fmt"
	"math"
)

// Stats aggregates knowledge base statistics (R6.1). Distributions ignore
// rules whose condition lacks the respective field.
type Stats struct {
	TotalRules         int            `json:"total_rules" yaml:"total_rules"`
	UniqueSources      int            `json:"unique_sources" yaml:"unique_sources"`
	PlanetDistribution map[string]int `json:"planet_distribution" yaml:"planet_distribution"`
	HouseDistribution  map[int]int    `json:"house_distribution" yaml:"house_distribution"`
	AverageConfidence  float64        `json:"average_confidence" yaml:"average_confidence"`
}

// Stats computes aggregate statistics over all stored rules. The average
// confidence is rounded to three decimals and zero for an empty base.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	stats := &Stats{
		PlanetDistribution: make(map[string]int),
		HouseDistribution:  make(map[int]int),
	}

	err := s.db.QueryRowContext(ctx,
		`SELECT count(*), count(DISTINCT source_title) FROM rules`,
	).Scan(&stats.TotalRules, &stats.UniqueSources)
	if err != nil {
		return nil, fmt.Errorf("counting rules: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT planet, count(*) FROM rules WHERE planet IS NOT NULL GROUP BY planet`)
	if err != nil {
		return nil, fmt.Errorf("computing planet distribution: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var planet string
		var count int
		if err := rows.Scan(&planet, &count); err != nil {
			return nil, fmt.Errorf("scanning planet distribution: %w", err)
		}
		stats.PlanetDistribution[planet] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	houseRows, err := s.db.QueryContext(ctx,
		`SELECT house, count(*) FROM rules WHERE house IS NOT NULL GROUP BY house`)
	if err != nil {
		return nil, fmt.Errorf("computing house distribution: %w", err)
	}
	defer houseRows.Close()
	for houseRows.Next() {
		var house, count int
		if err := houseRows.Scan(&house, &count); err != nil {
			return nil, fmt.Errorf("scanning house distribution: %w", err)
		}
		stats.HouseDistribution[house] = count
	}
	if err := houseRows.Err(); err != nil {
		return nil, err
	}

	var avg sql.NullFloat64
	err = s.db.QueryRowContext(ctx,
		`SELECT avg(confidence_score) FROM rules`,
	).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("computing average confidence: %w", err)
	}
	if avg.Valid {
		stats.AverageConfidence = math.Round(avg.Float64*1000) / 1000
	}

	return stats, nil
}
