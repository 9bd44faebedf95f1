// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var conflictsCmd = &cobra.Command{
	Use:   "conflicts [rule-id]",
	Short: "Find rules whose effects disagree",
	Long: `Conflicts reports pairs of rules that match the same placement but
assert effects of opposite polarity in the same category. With a rule ID it
lists the rules conflicting with that one; without, it scans the whole base.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConflicts,
}

func runConflicts(cmd *cobra.Command, args []string) error {
	store, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := context.Background()

	if len(args) == 1 {
		rule, err := store.GetRule(ctx, args[0])
		if err != nil {
			return err
		}
		if rule == nil {
			return fmt.Errorf("rule %q not found", args[0])
		}

		conflicting, err := store.Conflicts(ctx, *rule)
		if err != nil {
			return err
		}
		if len(conflicting) == 0 {
			fmt.Printf("No conflicts for rule %s.\n", rule.ID)
			return nil
		}

		fmt.Printf("Rules conflicting with %s (%s):\n\n", rule.ID, clip(rule.OriginalText, 60))
		for _, c := range conflicting {
			fmt.Printf("  %s  %-30s  %s\n", c.ID, clip(c.Source.Title, 30), clip(c.OriginalText, 60))
		}
		return nil
	}

	_, err = store.ScanConflicts(ctx, os.Stdout)
	return err
}

func init() {
	rootCmd.AddCommand(conflictsCmd)
}
