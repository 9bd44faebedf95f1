// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show knowledge base statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	stats, err := store.Stats(context.Background())
	if err != nil {
		return err
	}

	fmt.Println("Knowledge base statistics")
	fmt.Println("-------------------------")
	fmt.Printf("Total rules:        %d\n", stats.TotalRules)
	fmt.Printf("Unique sources:     %d\n", stats.UniqueSources)
	fmt.Printf("Average confidence: %.3f\n", stats.AverageConfidence)

	if len(stats.PlanetDistribution) > 0 {
		fmt.Println("\nRules per planet:")
		planets := make([]string, 0, len(stats.PlanetDistribution))
		for p := range stats.PlanetDistribution {
			planets = append(planets, p)
		}
		// Highest count first, name as tiebreak.
		sort.Slice(planets, func(i, j int) bool {
			ci, cj := stats.PlanetDistribution[planets[i]], stats.PlanetDistribution[planets[j]]
			if ci != cj {
				return ci > cj
			}
			return planets[i] < planets[j]
		})
		for _, p := range planets {
			fmt.Printf("  %-10s %d\n", p, stats.PlanetDistribution[p])
		}
	}

	if len(stats.HouseDistribution) > 0 {
		fmt.Println("\nRules per house:")
		for h := 1; h <= 12; h++ {
			if n, ok := stats.HouseDistribution[h]; ok {
				fmt.Printf("  house %-2d   %d\n", h, n)
			}
		}
	}

	return nil
}

func init() {
	rootCmd.AddCommand(statsCmd)
}
