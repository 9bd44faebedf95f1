package extract

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/Veg-briyani/vediq/pkg/types"
)

func testSource() types.SourceInfo {
	return types.SourceInfo{
		Title:     "Brihat Parashara Hora Shastra",
		Author:    "Parashara",
		Authority: types.AuthorityClassical,
	}
}

// --- validity gate ---

func TestExtractSentence_Gate(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name     string
		sentence string
		want     bool
	}{
		{
			name:     "no planet",
			sentence: "The 7th lord causes problems in partnerships",
			want:     false,
		},
		{
			name:     "planet without placement",
			sentence: "Mars gives courage and energy",
			want:     false,
		},
		{
			name:     "planet and house without indicator",
			sentence: "Mars occupies the 7th position of the chart",
			want:     false,
		},
		{
			name:     "planet house and indicator",
			sentence: "Mars in the 7th house causes conflicts in marriage",
			want:     true,
		},
		{
			name:     "planet sign and indicator",
			sentence: "Moon in Cancer indicates emotional nature",
			want:     true,
		},
		{
			name:     "own sign counts as placement",
			sentence: "Jupiter in its own sign gives wisdom and prosperity",
			want:     true,
		},
		{
			name:     "empty sentence",
			sentence: "",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, err := e.ExtractSentence(tt.sentence, testSource())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := rule != nil; got != tt.want {
				t.Errorf("extracted = %v, want %v", got, tt.want)
			}
		})
	}
}

// --- canonical sentences ---

func TestExtractSentence_MarsSeventhHouse(t *testing.T) {
	e := NewExtractor()

	rule, err := e.ExtractSentence("Mars in the 7th house causes conflicts in marriage", testSource())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule == nil {
		t.Fatal("expected a rule")
	}

	if rule.Conditions.Planet != "Mars" {
		t.Errorf("planet = %q, want Mars", rule.Conditions.Planet)
	}
	if rule.Conditions.House != 7 {
		t.Errorf("house = %d, want 7", rule.Conditions.House)
	}
	if rule.Conditions.Sign != "" {
		t.Errorf("sign = %q, want empty", rule.Conditions.Sign)
	}

	if len(rule.Effects) != 1 {
		t.Fatalf("effects = %d, want 1", len(rule.Effects))
	}
	effect := rule.Effects[0]
	if effect.Category != types.EffectMarriage {
		t.Errorf("category = %q, want marriage", effect.Category)
	}
	// "conflicts" is in the negative vocabulary.
	if effect.Positive {
		t.Error("effect should be negative")
	}
	if effect.Description != "conflicts in marriage" {
		t.Errorf("description = %q", effect.Description)
	}
	if effect.Strength != types.DefaultStrength {
		t.Errorf("strength = %q, want %q", effect.Strength, types.DefaultStrength)
	}

	if rule.Confidence < 0.85 {
		t.Errorf("confidence = %.3f, want >= 0.85", rule.Confidence)
	}
	if math.Abs(rule.Confidence-0.95) > 1e-9 {
		t.Errorf("confidence = %.3f, want 0.95", rule.Confidence)
	}

	for _, tag := range []string{"planet:mars", "house:7", "category:marriage", "negative"} {
		if !rule.HasTag(tag) {
			t.Errorf("missing tag %q in %v", tag, rule.Tags)
		}
	}
	if rule.ID != "" {
		t.Errorf("id = %q, want empty until stored", rule.ID)
	}
}

func TestExtractSentence_JupiterOwnSign(t *testing.T) {
	e := NewExtractor()

	rule, err := e.ExtractSentence("Jupiter in its own sign gives wisdom and prosperity", testSource())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule == nil {
		t.Fatal("expected a rule")
	}

	if rule.Conditions.Planet != "Jupiter" {
		t.Errorf("planet = %q, want Jupiter", rule.Conditions.Planet)
	}
	if !rule.Conditions.Flags.OwnSign {
		t.Error("own_sign flag not set")
	}
	if rule.Conditions.House != 0 || rule.Conditions.Sign != "" {
		t.Errorf("house/sign = %d/%q, want absent", rule.Conditions.House, rule.Conditions.Sign)
	}

	if len(rule.Effects) == 0 {
		t.Fatal("expected at least one effect")
	}
	effect := rule.Effects[0]
	if effect.Category != types.EffectWealth {
		t.Errorf("category = %q, want wealth", effect.Category)
	}
	if !effect.Positive {
		t.Error("effect should be positive")
	}
	if effect.Description != "wisdom and prosperity" {
		t.Errorf("description = %q", effect.Description)
	}
}

// --- condition heuristics ---

func TestHouseExtraction(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		text string
		want int
	}{
		{"placed in the 7th house", 7},
		{"the 2nd house shows wealth", 2},
		{"the 1st house rules the body", 1},
		{"house 4 is occupied", 4},
		{"mars in 10h brings authority", 10},
		{"the lagna lord is strong", 1},
		{"the ascendant becomes powerful", 1},
		{"the 13th house does not exist", 0},
		{"no placement mentioned at all", 0},
		// Pattern priority beats sentence position: the ordinal form wins
		// over "house N" even when "house N" appears first.
		{"house 2 matters less than the 5th house", 5},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := e.house(tt.text); got != tt.want {
				t.Errorf("house(%q) = %d, want %d", tt.text, got, tt.want)
			}
		})
	}
}

func TestPlanetExtraction(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		text string
		want string
	}{
		{"Mars in the 7th house", "Mars"},
		{"the Sun rises", "Sun"},
		{"SATURN transits", "Saturn"},
		{"nothing celestial here", ""},
		// Sanskrit synonyms resolve to canonical names.
		{"Shani in the 8th house", "Saturn"},
		{"Guru blesses the native", "Jupiter"},
		{"Surya in the 10th", "Sun"},
		{"Mangal dosha", "Mars"},
		{"Shukra dasha begins", "Venus"},
		// First vocabulary match wins.
		{"Venus conjunct Saturn", "Venus"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := e.planet(tt.text); got != tt.want {
				t.Errorf("planet(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

func TestSignExtraction(t *testing.T) {
	e := NewExtractor()

	if got := e.sign("Moon in Cancer indicates emotional nature"); got != "Cancer" {
		t.Errorf("sign = %q, want Cancer", got)
	}
	if got := e.sign("venus exalted in pisces"); got != "Pisces" {
		t.Errorf("sign = %q, want Pisces", got)
	}
	if got := e.sign("no zodiac mention"); got != "" {
		t.Errorf("sign = %q, want empty", got)
	}
}

func TestConditionFlags(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		name     string
		sentence string
		want     types.ConditionFlags
	}{
		{
			name:     "exalted",
			sentence: "Venus exalted in Pisces gives artistic talents",
			want:     types.ConditionFlags{Exalted: true},
		},
		{
			name:     "debilitated",
			sentence: "Saturn debilitated in Aries causes problems",
			want:     types.ConditionFlags{Debilitated: true},
		},
		{
			name:     "exalted wins over debilitated",
			sentence: "Mars exalted but nearly debilitated in Capricorn gives mixed results",
			want:     types.ConditionFlags{Exalted: true},
		},
		{
			name:     "own sign",
			sentence: "Jupiter in its own sign gives wisdom",
			want:     types.ConditionFlags{OwnSign: true},
		},
		{
			name:     "aspect",
			sentence: "Mars aspects the 7th house and causes conflicts",
			want:     types.ConditionFlags{HasAspect: true},
		},
		{
			name:     "none",
			sentence: "Sun in the 10th house brings success",
			want:     types.ConditionFlags{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.conditions(tt.sentence).Flags
			if got != tt.want {
				t.Errorf("flags = %+v, want %+v", got, tt.want)
			}
		})
	}
}

// --- effect heuristics ---

func TestEffects_MultipleIndicators(t *testing.T) {
	e := NewExtractor()

	rule, err := e.ExtractSentence(
		"Saturn in the 12th house leads to spiritual growth but causes delays", testSource())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule == nil {
		t.Fatal("expected a rule")
	}

	// Effects follow indicator vocabulary order ("causes" before "leads to"),
	// not sentence order.
	if len(rule.Effects) != 2 {
		t.Fatalf("effects = %d, want 2", len(rule.Effects))
	}
	if rule.Effects[0].Description != "delays" {
		t.Errorf("first effect = %q, want %q", rule.Effects[0].Description, "delays")
	}
	if rule.Effects[1].Category != types.EffectSpiritual {
		t.Errorf("second effect category = %q, want spiritual", rule.Effects[1].Category)
	}
	if rule.Effects[1].Description != "spiritual growth but causes delays" {
		t.Errorf("second effect = %q", rule.Effects[1].Description)
	}
}

func TestEffects_NoIndicatorFallback(t *testing.T) {
	e := NewExtractor()

	effects := e.effects("mars in aries with no indicator phrase")
	if len(effects) != 1 {
		t.Fatalf("effects = %d, want 1 synthetic", len(effects))
	}
	if effects[0].Category != types.EffectGeneral {
		t.Errorf("category = %q, want general", effects[0].Category)
	}
	if effects[0].Description != "General astrological effect" {
		t.Errorf("description = %q", effects[0].Description)
	}
	if !effects[0].Positive {
		t.Error("synthetic effect should be positive")
	}
}

func TestEffects_EmptyRemainder(t *testing.T) {
	e := NewExtractor()

	rule, err := e.ExtractSentence("Venus in Libra gives", testSource())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule == nil {
		t.Fatal("expected a rule")
	}
	if rule.Effects[0].Description != "" {
		t.Errorf("description = %q, want empty", rule.Effects[0].Description)
	}
	// No description bonus: 0.5 + 0.2 planet + 0.1 sign - 0.1 short sentence.
	if math.Abs(rule.Confidence-0.7) > 1e-9 {
		t.Errorf("confidence = %.3f, want 0.7", rule.Confidence)
	}
}

func TestEffects_DescriptionTruncated(t *testing.T) {
	e := NewExtractor()

	sentence := "Mars in the 2nd house gives " + strings.Repeat("wealth and riches beyond ", 8) + "measure"
	rule, err := e.ExtractSentence(sentence, testSource())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule == nil {
		t.Fatal("expected a rule")
	}
	if got := len([]rune(rule.Effects[0].Description)); got != 100 {
		t.Errorf("description length = %d, want 100", got)
	}
}

func TestPolarity(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		text string
		want bool
	}{
		{"wealth and fortune", true},
		{"conflicts in marriage", false},
		{"loss of property", false},
		{"obstacles at every step", false},
		{"a neutral outcome", true},
		// Positive evidence wins over negative.
		{"wealth despite early loss", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := e.polarity(tt.text); got != tt.want {
				t.Errorf("polarity(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestCategorize(t *testing.T) {
	e := NewExtractor()

	tests := []struct {
		text string
		want string
	}{
		{"money flows easily", types.EffectWealth},
		{"chronic disease of the body", types.EffectHealth},
		{"a caring spouse", types.EffectMarriage},
		{"rise in profession", types.EffectCareer},
		{"deep study of scriptures", types.EffectEducation},
		{"devotion and meditation", types.EffectSpiritual},
		{"happiness from children", types.EffectFamily},
		{"journey to foreign lands", types.EffectTravel},
		{"something unclassifiable", types.EffectGeneral},
		// First matching group wins.
		{"wealth through marriage", types.EffectWealth},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := e.categorize(tt.text); got != tt.want {
				t.Errorf("categorize(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// --- confidence ---

func TestConfidence_UpperClamp(t *testing.T) {
	e := NewExtractor()

	// planet + house + sign + description = 1.05 before the clamp.
	rule, err := e.ExtractSentence("Sun in the 5th house in Leo gives fame and success", testSource())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule == nil {
		t.Fatal("expected a rule")
	}
	if rule.Confidence != 1.0 {
		t.Errorf("confidence = %.3f, want clamped 1.0", rule.Confidence)
	}
}

func TestConfidence_LengthPenalty(t *testing.T) {
	e := NewExtractor()

	long := "Mars in the 7th house causes conflicts " + strings.Repeat("and endless disputes arising again ", 10)
	rule, err := e.ExtractSentence(long, testSource())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rule == nil {
		t.Fatal("expected a rule")
	}
	// 0.5 + 0.2 + 0.15 + 0.1 - 0.1 for the over-long sentence.
	if math.Abs(rule.Confidence-0.85) > 1e-9 {
		t.Errorf("confidence = %.3f, want 0.85", rule.Confidence)
	}
}

func TestConfidence_AlwaysInRange(t *testing.T) {
	e := NewExtractor()

	sentences := []string{
		"Mars in the 7th house causes conflicts in marriage",
		"Jupiter in its own sign gives wisdom and prosperity",
		"Sun in the 10th house brings success in career",
		"Moon in Cancer indicates emotional nature",
		"Saturn in the 12th house leads to spiritual growth but causes delays",
		"Venus exalted in Pisces gives artistic talents",
		"Venus in Libra gives",
		"Shani in 8h denotes obstacles and loss",
	}

	for _, s := range sentences {
		rule, err := e.ExtractSentence(s, testSource())
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", s, err)
		}
		if rule == nil {
			continue
		}
		if rule.Confidence < 0.1 || rule.Confidence > 1.0 {
			t.Errorf("confidence %.3f outside [0.1, 1.0] for %q", rule.Confidence, s)
		}
	}
}

// --- batch drivers ---

func TestExtractSentences_OrderPreserved(t *testing.T) {
	e := NewExtractor()

	sentences := []string{
		"Sun in the 10th house brings success in career",
		"this sentence has nothing to extract",
		"Moon in Cancer indicates emotional nature",
		"Mars gives courage",
		"Venus exalted in Pisces gives artistic talents",
	}

	rules := e.ExtractSentences(sentences, testSource())
	if len(rules) != 3 {
		t.Fatalf("rules = %d, want 3", len(rules))
	}

	want := []string{"Sun", "Moon", "Venus"}
	for i, rule := range rules {
		if rule.Conditions.Planet != want[i] {
			t.Errorf("rule %d planet = %q, want %q", i, rule.Conditions.Planet, want[i])
		}
	}
}

func TestExtractBatch(t *testing.T) {
	e := NewExtractor()

	groups := []SentenceGroup{
		{
			Sentences: []string{
				"Mars in the 7th house causes conflicts in marriage",
				"no rule in this sentence",
			},
			Source: types.SourceInfo{Title: "Saravali", Authority: types.AuthorityClassical},
		},
		{
			Sentences: []string{
				"Sun in the 10th house brings success in career",
				"Moon in Cancer indicates emotional nature",
			},
			Source: types.SourceInfo{Title: "Modern Notes", Authority: types.AuthorityModern},
		},
	}

	var log bytes.Buffer
	rules, summary := e.ExtractBatch(groups, &log)

	if summary.Extracted != 3 {
		t.Errorf("extracted = %d, want 3", summary.Extracted)
	}
	if summary.Skipped != 1 {
		t.Errorf("skipped = %d, want 1", summary.Skipped)
	}
	if summary.Failed != 0 {
		t.Errorf("failed = %d, want 0", summary.Failed)
	}
	if summary.Total() != 4 {
		t.Errorf("total = %d, want 4", summary.Total())
	}
	if summary.HasFailures() {
		t.Error("HasFailures should be false")
	}
	if len(rules) != 3 {
		t.Errorf("rules = %d, want 3", len(rules))
	}

	// Rules carry their group's source.
	if rules[0].Source.Title != "Saravali" {
		t.Errorf("rule 0 source = %q", rules[0].Source.Title)
	}
	if rules[1].Source.Title != "Modern Notes" {
		t.Errorf("rule 1 source = %q", rules[1].Source.Title)
	}

	output := log.String()
	if !strings.Contains(output, "extracted 1 rules from Saravali") {
		t.Errorf("missing per-group line in %q", output)
	}
	if !strings.Contains(output, "Batch summary: 3 extracted, 1 skipped, 0 failed (total: 4)") {
		t.Errorf("missing summary line in %q", output)
	}
}

// --- helpers ---

func TestTruncate(t *testing.T) {
	if got := truncate("short", 100); got != "short" {
		t.Errorf("truncate = %q", got)
	}
	long := strings.Repeat("x", 150)
	if got := truncate(long, 100); len(got) != 100 {
		t.Errorf("truncated length = %d, want 100", len(got))
	}
}
