// Package extract turns candidate sentences into structured astrological
// rules through ordered keyword and regex heuristics.
// Implements: prd003-extraction (R1-R6);
//
//	docs/ARCHITECTURE § Extraction.
package extract

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/Veg-briyani/vediq/pkg/types"
)

// Extractor applies fixed vocabularies to candidate sentences. Extraction is
// a cascade of independent heuristics, each cheap and separately testable,
// because source sentences are noisy OCR'd classical text. The tables are
// captured at construction and never mutated afterwards.
type Extractor struct {
	planets    []planetToken
	signs      []string
	houses     []*regexp.Regexp
	indicators []string
	positive   []string
	negative   []string
	categories []categoryGroup
}

// NewExtractor returns an Extractor backed by the default vocabularies.
func NewExtractor() *Extractor {
	return &Extractor{
		planets:    defaultPlanets,
		signs:      defaultSigns,
		houses:     defaultHousePatterns,
		indicators: defaultIndicators,
		positive:   defaultPositive,
		negative:   defaultNegative,
		categories: defaultCategories,
	}
}

// SentenceGroup pairs one document's candidate sentences with their source.
type SentenceGroup struct {
	Sentences []string
	Source    types.SourceInfo
}

// BatchSummary holds counts from a batch extraction run (R6.4). Skipped
// counts sentences that failed the validity gate — the expected outcome for
// most corpus text, never reported as failures.
type BatchSummary struct {
	Extracted int
	Skipped   int
	Failed    int
}

// Total returns the total number of sentences processed.
func (s BatchSummary) Total() int {
	return s.Extracted + s.Skipped + s.Failed
}

// HasFailures reports whether any sentence failed extraction.
func (s BatchSummary) HasFailures() bool {
	return s.Failed > 0
}

// ExtractSentence extracts one rule from one sentence. It returns (nil, nil)
// when the sentence fails the validity gate, and a non-nil error only when
// extraction itself fails. A corpus batch must never be aborted by one
// malformed sentence, so internal panics surface as the error return.
//
// The rule comes back with an empty ID; the knowledge store assigns one on
// first store.
func (e *Extractor) ExtractSentence(sentence string, source types.SourceInfo) (rule *types.Rule, err error) {
	if !e.validSentence(sentence) {
		return nil, nil
	}

	defer func() {
		if r := recover(); r != nil {
			rule = nil
			err = fmt.Errorf("extracting rule from %q: %v", snippet(sentence), r)
		}
	}()

	conditions := e.conditions(sentence)
	effects := e.effects(sentence)

	return &types.Rule{
		OriginalText: strings.TrimSpace(sentence),
		Conditions:   conditions,
		Effects:      effects,
		Source:       source,
		Tags:         e.tags(conditions, effects),
		Confidence:   e.confidence(sentence, conditions, effects),
	}, nil
}

// ExtractSentences extracts rules from sentences in input order, dropping
// non-matches and errored sentences.
func (e *Extractor) ExtractSentences(sentences []string, source types.SourceInfo) []types.Rule {
	var rules []types.Rule
	for _, s := range sentences {
		rule, err := e.ExtractSentence(s, source)
		if err != nil || rule == nil {
			continue
		}
		rules = append(rules, *rule)
	}
	return rules
}

// ExtractBatch runs extraction over multiple documents, printing per-group
// progress and per-sentence failures to w, and returns all extracted rules
// with a summary (R6).
func (e *Extractor) ExtractBatch(groups []SentenceGroup, w io.Writer) ([]types.Rule, BatchSummary) {
	var all []types.Rule
	var summary BatchSummary

	for _, g := range groups {
		extracted := 0
		for _, s := range g.Sentences {
			rule, err := e.ExtractSentence(s, g.Source)
			if err != nil {
				fmt.Fprintf(w, "failed:  %s (%v)\n", snippet(s), err)
				summary.Failed++
				continue
			}
			if rule == nil {
				summary.Skipped++
				continue
			}
			all = append(all, *rule)
			summary.Extracted++
			extracted++
		}
		fmt.Fprintf(w, "extracted %d rules from %s\n", extracted, g.Source.Title)
	}

	fmt.Fprintf(w, "\nBatch summary: %d extracted, %d skipped, %d failed (total: %d)\n",
		summary.Extracted, summary.Skipped, summary.Failed, summary.Total())
	return all, summary
}

// --- validity gate ---

// validSentence requires a planet, a placement, and an effect indicator.
// A placement is a house number, a zodiac sign, or the own-sign phrase;
// sentences like "Jupiter in its own sign gives wisdom" carry a placement
// the house and sign scans cannot see.
func (e *Extractor) validSentence(sentence string) bool {
	if e.planet(sentence) == "" {
		return false
	}
	if e.house(sentence) == 0 && e.sign(sentence) == "" && !hasOwnSign(sentence) {
		return false
	}

	lower := strings.ToLower(sentence)
	for _, indicator := range e.indicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// --- condition extraction ---

// planet returns the canonical name of the first vocabulary token found in
// the text, or "" when none matches.
func (e *Extractor) planet(text string) string {
	lower := strings.ToLower(text)
	for _, p := range e.planets {
		if strings.Contains(lower, p.token) {
			return p.name
		}
	}
	return ""
}

// house returns the house number in [1, 12], or 0 when none is found.
func (e *Extractor) house(text string) int {
	lower := strings.ToLower(text)

	// Lagna and ascendant are first-house equivalents.
	if strings.Contains(lower, "lagna") || strings.Contains(lower, "ascendant") {
		return 1
	}

	for _, pattern := range e.houses {
		m := pattern.FindStringSubmatch(lower)
		if m == nil {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if n >= 1 && n <= 12 {
			return n
		}
	}
	return 0
}

// sign returns the canonical name of the first zodiac sign found in the
// text, or "" when none matches.
func (e *Extractor) sign(text string) string {
	lower := strings.ToLower(text)
	for _, s := range e.signs {
		if strings.Contains(lower, strings.ToLower(s)) {
			return s
		}
	}
	return ""
}

func hasOwnSign(text string) bool {
	lower := strings.ToLower(text)
	return strings.Contains(lower, "own sign") || strings.Contains(lower, "own house")
}

// conditions extracts the full condition clause (R2).
func (e *Extractor) conditions(sentence string) types.Condition {
	lower := strings.ToLower(sentence)

	var flags types.ConditionFlags
	// Exalted wins when a sentence mentions both states.
	if strings.Contains(lower, "exalted") || strings.Contains(lower, "exaltation") {
		flags.Exalted = true
	} else if strings.Contains(lower, "debilitated") || strings.Contains(lower, "debilitation") {
		flags.Debilitated = true
	}
	if hasOwnSign(sentence) {
		flags.OwnSign = true
	}
	if strings.Contains(lower, "aspect") {
		flags.HasAspect = true
	}

	return types.Condition{
		Planet: e.planet(sentence),
		House:  e.house(sentence),
		Sign:   e.sign(sentence),
		Flags:  flags,
	}
}

// --- effect extraction ---

// effects emits one effect per indicator phrase present in the sentence, in
// vocabulary order. Matching runs on the lowercased sentence, so
// descriptions come out lowercase; each description is the remainder after
// the first occurrence of its indicator, trimmed and capped at 100
// characters (R3).
func (e *Extractor) effects(sentence string) []types.Effect {
	lower := strings.ToLower(sentence)

	var effects []types.Effect
	for _, indicator := range e.indicators {
		if !strings.Contains(lower, indicator) {
			continue
		}
		parts := strings.SplitN(lower, indicator, 2)
		text := strings.TrimSpace(parts[1])

		effects = append(effects, types.Effect{
			Category:    e.categorize(text),
			Description: truncate(text, 100),
			Positive:    e.polarity(text),
			Strength:    types.DefaultStrength,
		})
	}

	// Unreachable past the validity gate; kept for direct callers.
	if len(effects) == 0 {
		effects = append(effects, types.Effect{
			Category:    types.EffectGeneral,
			Description: "General astrological effect",
			Positive:    true,
			Strength:    types.DefaultStrength,
		})
	}
	return effects
}

// polarity classifies effect text: positive unless the only evidence is a
// negative keyword.
func (e *Extractor) polarity(text string) bool {
	hasPositive := containsAny(text, e.positive)
	hasNegative := containsAny(text, e.negative)
	return hasPositive || !hasNegative
}

// categorize names the first category group with a keyword in the effect
// text, or general when none matches.
func (e *Extractor) categorize(text string) string {
	lower := strings.ToLower(text)
	for _, group := range e.categories {
		if containsAny(lower, group.keywords) {
			return group.name
		}
	}
	return types.EffectGeneral
}

// --- scoring and tags ---

// confidence computes the linear ranking score: base 0.5, bonuses for each
// extracted condition and for a non-empty first effect description, a
// penalty for sentences under 5 or over 50 words, clamped to [0.1, 1.0].
// A relative ranking signal, not a calibrated probability (R4).
func (e *Extractor) confidence(sentence string, conditions types.Condition, effects []types.Effect) float64 {
	score := 0.5

	if conditions.Planet != "" {
		score += 0.2
	}
	if conditions.House != 0 {
		score += 0.15
	}
	if conditions.Sign != "" {
		score += 0.1
	}
	if len(effects) > 0 && effects[0].Description != "" {
		score += 0.1
	}

	words := len(strings.Fields(sentence))
	if words < 5 || words > 50 {
		score -= 0.1
	}

	return min(1.0, max(0.1, score))
}

// tags derives the retrieval labels for a rule (R5): planet/house/sign
// labels from the condition, a category label per effect, and the literal
// "negative" per negative effect.
func (e *Extractor) tags(conditions types.Condition, effects []types.Effect) []string {
	var tags []string
	if conditions.Planet != "" {
		tags = append(tags, "planet:"+strings.ToLower(conditions.Planet))
	}
	if conditions.House != 0 {
		tags = append(tags, fmt.Sprintf("house:%d", conditions.House))
	}
	if conditions.Sign != "" {
		tags = append(tags, "sign:"+strings.ToLower(conditions.Sign))
	}
	for _, effect := range effects {
		tags = append(tags, "category:"+effect.Category)
		if !effect.Positive {
			tags = append(tags, "negative")
		}
	}
	return tags
}

// --- helpers ---

func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, k) {
			return true
		}
	}
	return false
}

// truncate caps s at n characters without splitting a multi-byte rune.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// snippet shortens a sentence for log lines.
func snippet(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > 40 {
		return s[:37] + "..."
	}
	return s
}
