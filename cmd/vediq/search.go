// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veg-briyani/vediq/internal/knowledge"
	"github.com/Veg-briyani/vediq/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search stored rules by planet, house, sign, source, or tag",
	Long: `Search queries the knowledge base with AND-combined filters. Results
are ordered by confidence descending, then source authority. --tag performs
an exact tag lookup instead; the other filters are ignored with it.`,
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	var rules []types.Rule
	if tag, _ := cmd.Flags().GetString("tag"); tag != "" {
		rules, err = store.RulesByTag(ctx, tag)
	} else {
		opts := searchOptsFromFlags(cmd)
		if opts.IsEmpty() {
			if all, _ := cmd.Flags().GetBool("all"); !all {
				return fmt.Errorf("filter required: provide --planet, --house, --sign, --source, --min-confidence, or --tag (or --all to list everything)")
			}
		}
		rules, err = store.Search(ctx, opts)
	}
	if err != nil {
		return err
	}

	if exportPath, _ := cmd.Flags().GetString("export"); exportPath != "" {
		data, err := json.MarshalIndent(rules, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling results: %w", err)
		}
		if err := os.WriteFile(exportPath, data, 0o644); err != nil {
			return err
		}
		fmt.Printf("Wrote %d rules to %s\n", len(rules), exportPath)
		return nil
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatSearchOutput(rules, jsonOutput)
}

func searchOptsFromFlags(cmd *cobra.Command) knowledge.SearchOptions {
	planet, _ := cmd.Flags().GetString("planet")
	house, _ := cmd.Flags().GetInt("house")
	sign, _ := cmd.Flags().GetString("sign")
	source, _ := cmd.Flags().GetString("source")
	minConfidence, _ := cmd.Flags().GetFloat64("min-confidence")
	limit, _ := cmd.Flags().GetInt("limit")
	if limit == 0 {
		limit = loadConfig().Knowledge.MaxResults
	}

	return knowledge.SearchOptions{
		Planet:        planet,
		House:         house,
		Sign:          sign,
		Source:        source,
		MinConfidence: minConfidence,
		Limit:         limit,
	}
}

func formatSearchOutput(rules []types.Rule, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rules)
	}

	if len(rules) == 0 {
		fmt.Println("No rules found.")
		return nil
	}

	fmt.Fprintf(os.Stdout, "%-12s  %-8s  %-5s  %-11s  %-5s  %-40s  %s\n",
		"ID", "Planet", "House", "Sign", "Conf", "Effect", "Source")
	fmt.Fprintln(os.Stdout, strings.Repeat("-", 110))

	for _, r := range rules {
		effect := ""
		if len(r.Effects) > 0 {
			effect = r.Effects[0].Description
			if !r.Effects[0].Positive {
				effect = "[-] " + effect
			}
		}
		house := ""
		if r.Conditions.House != 0 {
			house = fmt.Sprintf("%d", r.Conditions.House)
		}
		fmt.Fprintf(os.Stdout, "%-12s  %-8s  %-5s  %-11s  %.2f  %-40s  %s\n",
			r.ID,
			clip(r.Conditions.Planet, 8),
			house,
			clip(r.Conditions.Sign, 11),
			r.Confidence,
			clip(effect, 40),
			clip(r.Source.Title, 30),
		)
	}

	fmt.Fprintf(os.Stdout, "\n%d rules\n", len(rules))
	return nil
}

// clip truncates s to max characters with an ellipsis.
func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}

func init() {
	searchCmd.Flags().String("planet", "", "filter by canonical planet name (e.g. Mars)")
	searchCmd.Flags().Int("house", 0, "filter by house number 1-12")
	searchCmd.Flags().String("sign", "", "filter by canonical sign name (e.g. Pisces)")
	searchCmd.Flags().String("source", "", "filter by substring of the source title")
	searchCmd.Flags().Float64("min-confidence", 0, "minimum confidence score")
	searchCmd.Flags().Int("limit", 0, "maximum results (0 = config default, unlimited when unset)")
	searchCmd.Flags().String("tag", "", "exact tag lookup (e.g. planet:mars, negative)")
	searchCmd.Flags().Bool("all", false, "list every stored rule")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().String("export", "", "write matching rules to a JSON file instead of printing")

	rootCmd.AddCommand(searchCmd)
}
