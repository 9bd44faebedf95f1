// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"regexp"

	"github.com/Veg-briyani/vediq/pkg/types"
)

// planetToken maps a vocabulary token to the canonical name recorded on
// extracted conditions. Scanning order matters: the first token found in the
// lowercased sentence wins.
type planetToken struct {
	token string
	name  string
}

// defaultPlanets lists the recognized planet tokens, English names first and
// Sanskrit synonyms after so a synonym never shadows the primary vocabulary.
// Lagna and ascendant count as planets here because classical texts treat
// the rising point as a graha for rule purposes.
var defaultPlanets = []planetToken{
	{"sun", "Sun"},
	{"moon", "Moon"},
	{"mars", "Mars"},
	{"mercury", "Mercury"},
	{"jupiter", "Jupiter"},
	{"venus", "Venus"},
	{"saturn", "Saturn"},
	{"rahu", "Rahu"},
	{"ketu", "Ketu"},
	{"lagna", "Lagna"},
	{"ascendant", "Ascendant"},
	{"surya", "Sun"},
	{"chandra", "Moon"},
	{"mangal", "Mars"},
	{"budh", "Mercury"},
	{"brihaspati", "Jupiter"},
	{"guru", "Jupiter"},
	{"shukra", "Venus"},
	{"shani", "Saturn"},
}

// defaultSigns lists the zodiac signs with canonical casing.
var defaultSigns = []string{
	"Aries", "Taurus", "Gemini", "Cancer", "Leo", "Virgo",
	"Libra", "Scorpio", "Sagittarius", "Capricorn", "Aquarius", "Pisces",
}

// defaultHousePatterns match house references in fixed priority order. The
// first pattern whose first capture parses into [1, 12] wins; an
// out-of-range capture falls through to the next pattern, not to the next
// capture. Lagna/ascendant mentions short-circuit to house 1 before any of
// these run.
var defaultHousePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+)(?:st|nd|rd|th)?\s+house`),
	regexp.MustCompile(`house\s+(\d+)`),
	regexp.MustCompile(`(\d+)h`),
}

// defaultIndicators are the effect-indicator phrases. Effects are emitted in
// this order, not in sentence order.
var defaultIndicators = []string{
	"gives", "brings", "causes", "results in", "leads to", "produces",
	"indicates", "shows", "denotes", "signifies", "makes", "creates",
}

// defaultPositive and defaultNegative classify effect polarity by substring
// presence. A phrase matching neither list defaults to positive.
var defaultPositive = []string{
	"wealth", "prosperity", "success", "happiness", "wisdom", "fortune",
	"good", "beneficial", "auspicious", "favorable", "excellent",
}

var defaultNegative = []string{
	"problems", "difficulties", "obstacles", "conflicts", "trouble",
	"bad", "harmful", "inauspicious", "unfavorable", "loss",
}

// categoryGroup binds an effect category to its trigger keywords.
type categoryGroup struct {
	name     string
	keywords []string
}

// defaultCategories are checked in order; the first group with a keyword in
// the effect text names the category, otherwise the effect is general.
var defaultCategories = []categoryGroup{
	{types.EffectWealth, []string{"money", "wealth", "riches", "prosperity", "financial"}},
	{types.EffectHealth, []string{"health", "disease", "illness", "medical", "body"}},
	{types.EffectMarriage, []string{"marriage", "spouse", "partner", "relationship"}},
	{types.EffectCareer, []string{"career", "job", "profession", "work", "business"}},
	{types.EffectEducation, []string{"education", "learning", "knowledge", "study"}},
	{types.EffectSpiritual, []string{"spiritual", "religious", "devotion", "meditation"}},
	{types.EffectFamily, []string{"family", "children", "parents", "siblings"}},
	{types.EffectTravel, []string{"travel", "journey", "foreign", "abroad"}},
}
