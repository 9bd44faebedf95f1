// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veg-briyani/vediq/internal/extract"
	"github.com/Veg-briyani/vediq/pkg/types"
)

// demoSentences exercises the extractor's main code paths: placements,
// flags, polarity, and the validity gate (the last sentence is rejected).
var demoSentences = []string{
	"Mars in the 7th house causes conflicts in marriage",
	"Jupiter in the 5th house gives intelligence and good children",
	"Saturn in the 10th house indicates success in career after delays",
	"Venus in Pisces is exalted and brings artistic talent and wealth",
	"The Moon in the 4th house gives happiness from mother and property",
	"This chapter discusses the houses of the horoscope",
}

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the rule extractor on built-in sample sentences",
	Long: `Demo feeds a handful of sample sentences through the extraction
pipeline and prints the structured rules, without touching the knowledge
base. Useful for a quick look at what the extractor produces.`,
	RunE: runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	source := types.SourceInfo{
		Title:     "Demo Sentences",
		Authority: types.AuthorityModern,
	}

	extractor := extract.NewExtractor()
	extracted := 0
	for _, sentence := range demoSentences {
		fmt.Printf("sentence: %s\n", sentence)
		rule, err := extractor.ExtractSentence(sentence, source)
		if err != nil {
			fmt.Printf("  failed: %v\n\n", err)
			continue
		}
		if rule == nil {
			fmt.Printf("  no rule: not an astrological statement\n\n")
			continue
		}
		extracted++
		printRule(os.Stdout, *rule)
		fmt.Println()
	}

	fmt.Printf("Extracted %d rules from %d sentences\n", extracted, len(demoSentences))
	return nil
}

// printRule writes one rule in the indented key: value form shared by the
// demo and process --samples output.
func printRule(w io.Writer, rule types.Rule) {
	if rule.ID != "" {
		fmt.Fprintf(w, "  id:         %s\n", rule.ID)
	}
	if rule.Conditions.Planet != "" {
		fmt.Fprintf(w, "  planet:     %s\n", rule.Conditions.Planet)
	}
	if rule.Conditions.House != 0 {
		fmt.Fprintf(w, "  house:      %d\n", rule.Conditions.House)
	}
	if rule.Conditions.Sign != "" {
		fmt.Fprintf(w, "  sign:       %s\n", rule.Conditions.Sign)
	}
	if !rule.Conditions.Flags.None() {
		fmt.Fprintf(w, "  flags:      %s\n", flagNames(rule.Conditions.Flags))
	}
	for _, effect := range rule.Effects {
		polarity := "positive"
		if !effect.Positive {
			polarity = "negative"
		}
		fmt.Fprintf(w, "  effect:     [%s, %s] %s\n", effect.Category, polarity, effect.Description)
	}
	fmt.Fprintf(w, "  confidence: %.2f\n", rule.Confidence)
	if len(rule.Tags) > 0 {
		fmt.Fprintf(w, "  tags:       %s\n", strings.Join(rule.Tags, ", "))
	}
}

func flagNames(f types.ConditionFlags) string {
	var names []string
	if f.Exalted {
		names = append(names, "exalted")
	}
	if f.Debilitated {
		names = append(names, "debilitated")
	}
	if f.OwnSign {
		names = append(names, "own sign")
	}
	if f.HasAspect {
		names = append(names, "aspected")
	}
	return strings.Join(names, ", ")
}

func init() {
	rootCmd.AddCommand(demoCmd)
}
