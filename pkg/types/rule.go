// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import (
	"fmt"
	"strings"
	"time"
)

// AuthorityLevel ranks how much trust a source text carries. Lower values
// outrank higher ones. Per prd004-knowledge-base R4.2 it breaks ties in
// search ordering; authority-based conflict resolution is a future concern.
type AuthorityLevel int

const (
	// AuthorityClassical covers foundational texts (BPHS, Saravali, Phaladeepika).
	AuthorityClassical AuthorityLevel = 1
	// AuthorityTraditional covers established commentaries on the classics.
	AuthorityTraditional AuthorityLevel = 2
	// AuthorityModern covers contemporary authors.
	AuthorityModern AuthorityLevel = 3
	// AuthorityCommentary covers blogs, lecture notes, and other informal writing.
	AuthorityCommentary AuthorityLevel = 4
)

// String returns the lowercase name used in CLI flags and export files.
func (a AuthorityLevel) String() string {
	switch a {
	case AuthorityClassical:
		return "classical"
	case AuthorityTraditional:
		return "traditional"
	case AuthorityModern:
		return "modern"
	case AuthorityCommentary:
		return "commentary"
	default:
		return fmt.Sprintf("authority(%d)", int(a))
	}
}

// ParseAuthorityLevel converts a lowercase level name to its AuthorityLevel.
func ParseAuthorityLevel(s string) (AuthorityLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "classical":
		return AuthorityClassical, nil
	case "traditional":
		return AuthorityTraditional, nil
	case "modern":
		return AuthorityModern, nil
	case "commentary":
		return AuthorityCommentary, nil
	default:
		return 0, fmt.Errorf("unknown authority level %q: use classical, traditional, modern, or commentary", s)
	}
}

// SourceInfo identifies the provenance of a rule. Immutable once attached;
// every rule extracted from the same document shares an equal value.
type SourceInfo struct {
	// Title of the source text. Required.
	Title string `json:"title" yaml:"title"`

	// Author of the source text, if known.
	Author string `json:"author,omitempty" yaml:"author,omitempty"`

	// PageNumber the sentence was found on. 0 = unknown.
	PageNumber int `json:"page_number,omitempty" yaml:"page_number,omitempty"`

	// Authority ranks the trustworthiness of the source.
	Authority AuthorityLevel `json:"authority_level" yaml:"authority_level"`
}

// ConditionFlags holds the closed set of boolean qualifiers a condition can
// carry. Exalted and Debilitated are mutually exclusive at extraction time;
// exalted wins when a sentence mentions both.
type ConditionFlags struct {
	Exalted     bool `json:"exalted,omitempty" yaml:"exalted,omitempty"`
	Debilitated bool `json:"debilitated,omitempty" yaml:"debilitated,omitempty"`
	OwnSign     bool `json:"own_sign,omitempty" yaml:"own_sign,omitempty"`
	HasAspect   bool `json:"has_aspect,omitempty" yaml:"has_aspect,omitempty"`
}

// None reports whether no flag is set.
func (f ConditionFlags) None() bool {
	return f == ConditionFlags{}
}

// Condition is the "if" clause of a rule: the placement that triggers it.
// Zero values mean absent. At least one field must be populated for the
// condition to be meaningful; the extractor's validity gate enforces that.
type Condition struct {
	// Planet is the canonical planet name ("Mars"), "" when absent.
	Planet string `json:"planet,omitempty" yaml:"planet,omitempty"`

	// House is the house number 1-12, 0 when absent.
	House int `json:"house,omitempty" yaml:"house,omitempty"`

	// Sign is the canonical zodiac sign name ("Pisces"), "" when absent.
	Sign string `json:"sign,omitempty" yaml:"sign,omitempty"`

	// Nakshatra is the lunar mansion name. Reserved; the extractor does not
	// populate it yet.
	Nakshatra string `json:"nakshatra,omitempty" yaml:"nakshatra,omitempty"`

	// Aspect describes an aspecting relationship, "" when absent.
	Aspect string `json:"aspect,omitempty" yaml:"aspect,omitempty"`

	// Conjunction names a conjoined planet, "" when absent.
	Conjunction string `json:"conjunction,omitempty" yaml:"conjunction,omitempty"`

	// DegreeRange bounds the placement in degrees: nil or [low, high].
	DegreeRange []float64 `json:"degree_range,omitempty" yaml:"degree_range,omitempty"`

	// Flags holds the boolean qualifiers (exalted, own sign, ...).
	Flags ConditionFlags `json:"additional_conditions,omitzero" yaml:"additional_conditions,omitempty"`
}

// Effect categories produced by the extractor. EffectGeneral is the
// fallback when no category keyword matches.
const (
	EffectWealth    = "wealth"
	EffectHealth    = "health"
	EffectMarriage  = "marriage"
	EffectCareer    = "career"
	EffectEducation = "education"
	EffectSpiritual = "spiritual"
	EffectFamily    = "family"
	EffectTravel    = "travel"
	EffectGeneral   = "general"
)

// DefaultStrength is the strength assigned to every extracted effect;
// heuristic extraction cannot grade intensity.
const DefaultStrength = "medium"

// Effect is the "then" clause of a rule: one predicted outcome.
type Effect struct {
	// Category is one of the Effect* constants.
	Category string `json:"category" yaml:"category"`

	// Description is the effect phrase as matched, lowercase, at most 100
	// characters. May be empty when the sentence ends at the indicator.
	Description string `json:"description" yaml:"description"`

	// Positive is the effect polarity. Defaults to true when the phrase
	// carries no negative keyword.
	Positive bool `json:"positive" yaml:"positive"`

	// Strength grades intensity; always DefaultStrength today.
	Strength string `json:"strength,omitempty" yaml:"strength,omitempty"`

	// Timing scopes the effect to a period (dasha etc.), "" when absent.
	Timing string `json:"timing,omitempty" yaml:"timing,omitempty"`
}

// Rule is a structured condition → effect statement extracted from a source
// sentence, with provenance and a heuristic confidence score.
//
// Lifecycle: the extractor creates a Rule with an empty ID; the knowledge
// store assigns a deterministic ID on first store, so re-extracting the same
// sentence overwrites the same row. Rules are never deleted.
type Rule struct {
	// ID uniquely identifies the rule. Empty until first stored.
	ID string `json:"id" yaml:"id"`

	// OriginalText is the verbatim source sentence.
	OriginalText string `json:"original_text" yaml:"original_text"`

	// Conditions is the placement that triggers the rule. Owned by the rule.
	Conditions Condition `json:"conditions" yaml:"conditions"`

	// Effects lists predicted outcomes in extraction order. Never empty.
	Effects []Effect `json:"effects" yaml:"effects"`

	// Source records where the rule came from.
	Source SourceInfo `json:"source" yaml:"source"`

	// Tags are derived retrieval labels (planet:mars, house:7, negative, ...).
	Tags []string `json:"tags,omitempty" yaml:"tags,omitempty"`

	// Confidence is a relative ranking signal in [0.1, 1.0], not a
	// calibrated probability.
	Confidence float64 `json:"confidence_score" yaml:"confidence_score"`

	// CreatedAt is stamped by the store on first write.
	CreatedAt time.Time `json:"created_at,omitzero" yaml:"created_at,omitempty"`

	// UpdatedAt is stamped by the store when an existing row is overwritten.
	// Zero = never updated.
	UpdatedAt time.Time `json:"updated_at,omitzero" yaml:"updated_at,omitempty"`
}

// Validate reports whether the rule is storable. The ID may be empty; the
// store assigns one. Everything else the schema marks NOT NULL or the data
// model constrains must already hold.
func (r *Rule) Validate() error {
	if strings.TrimSpace(r.OriginalText) == "" {
		return fmt.Errorf("rule has no original text")
	}
	if strings.TrimSpace(r.Source.Title) == "" {
		return fmt.Errorf("rule has no source title")
	}
	if len(r.Effects) == 0 {
		return fmt.Errorf("rule has no effects")
	}
	if r.Confidence < 0.1 || r.Confidence > 1.0 {
		return fmt.Errorf("confidence %.3f outside [0.1, 1.0]", r.Confidence)
	}
	return nil
}

// HasTag reports whether the rule carries the exact tag.
func (r *Rule) HasTag(tag string) bool {
	for _, t := range r.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
