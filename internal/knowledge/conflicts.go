// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package knowledge

import (
	"context"
	"fmt"
	"io"

	gocache "github.com/patrickmn/go-cache"

	"github.com/Veg-briyani/vediq/pkg/types"
)

// Conflicts returns the stored rules contradicting the given rule (R5): same
// (planet, house, sign) condition triple, sharing at least one effect
// category but disagreeing on that category's polarity. The rule itself is
// excluded; each conflicting candidate appears once. Detection only —
// authority-based resolution is a future capability.
func (s *Store) Conflicts(ctx context.Context, rule types.Rule) ([]types.Rule, error) {
	candidates, err := s.Search(ctx, SearchOptions{
		Planet: rule.Conditions.Planet,
		House:  rule.Conditions.House,
		Sign:   rule.Conditions.Sign,
	})
	if err != nil {
		return nil, fmt.Errorf("finding conflict candidates: %w", err)
	}

	var conflicts []types.Rule
	for _, cand := range candidates {
		if cand.ID == rule.ID {
			continue
		}
		if _, ok := disagreement(rule.Effects, cand.Effects); ok {
			conflicts = append(conflicts, cand)
		}
	}
	return conflicts, nil
}

// disagreement returns the first effect category on which the two effect
// lists carry opposite polarity.
func disagreement(a, b []types.Effect) (string, bool) {
	for _, ea := range a {
		for _, eb := range b {
			if ea.Category == eb.Category && ea.Positive != eb.Positive {
				return ea.Category, true
			}
		}
	}
	return "", false
}

// ConflictPair records one contradicting rule pair found by a sweep, with
// the lexicographically smaller rule ID first.
type ConflictPair struct {
	RuleA    string `json:"rule_a" yaml:"rule_a"`
	RuleB    string `json:"rule_b" yaml:"rule_b"`
	Category string `json:"category" yaml:"category"`
}

// ScanConflicts sweeps the whole knowledge base and reports each conflicting
// pair exactly once, printing one line per pair to w. Many rules share a
// condition triple, so candidate sets are memoized per triple; cleanup
// interval 0 keeps the cache janitor goroutine out of this single-threaded
// tool.
func (s *Store) ScanConflicts(ctx context.Context, w io.Writer) ([]ConflictPair, error) {
	all, err := s.Search(ctx, SearchOptions{})
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}

	candidates := gocache.New(gocache.NoExpiration, 0)
	seen := make(map[string]struct{})
	var pairs []ConflictPair

	for _, rule := range all {
		key := fmt.Sprintf("%s|%d|%s",
			rule.Conditions.Planet, rule.Conditions.House, rule.Conditions.Sign)

		var set []types.Rule
		if cached, ok := candidates.Get(key); ok {
			set = cached.([]types.Rule)
		} else {
			set, err = s.Search(ctx, SearchOptions{
				Planet: rule.Conditions.Planet,
				House:  rule.Conditions.House,
				Sign:   rule.Conditions.Sign,
			})
			if err != nil {
				return nil, fmt.Errorf("finding conflict candidates: %w", err)
			}
			candidates.Set(key, set, gocache.DefaultExpiration)
		}

		for _, cand := range set {
			if cand.ID == rule.ID {
				continue
			}
			category, ok := disagreement(rule.Effects, cand.Effects)
			if !ok {
				continue
			}

			a, b := rule.ID, cand.ID
			if a > b {
				a, b = b, a
			}
			pairKey := a + "|" + b
			if _, dup := seen[pairKey]; dup {
				continue
			}
			seen[pairKey] = struct{}{}

			pairs = append(pairs, ConflictPair{RuleA: a, RuleB: b, Category: category})
			fmt.Fprintf(w, "conflict: %s vs %s (%s)\n", a, b, category)
		}
	}

	fmt.Fprintf(w, "\nScanned %d rules, found %d conflicting pairs\n", len(all), len(pairs))
	return pairs, nil
}
