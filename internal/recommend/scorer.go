// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package recommend

import (
	"strings"

	"github.com/attune-app/attune/internal/models"
)

// Scoring weights and bonuses. These constants are the audited business
// rules of the engine; changing any of them changes every user's results
// and requires a new AlgorithmVersion.
const (
	intentionWeight  = 0.6
	experienceWeight = 0.4

	// Neutral intention score when the user recorded no intentions:
	// absence of signal is not absence of fit.
	neutralIntentionScore = 0.5

	shortTimeBonus  = 0.1
	mediumTimeBonus = 0.05

	maxScore = 1.0

	// MinScore is the floor below which candidates are dropped.
	MinScore = 0.1
)

// intentionDisciplines maps each normalized intention token to the
// disciplines relevant to it. Immutable after process start.
var intentionDisciplines = map[string][]string{
	"reduce_stress":      {"meditation", "breathing", "massage"},
	"sleep_better":       {"meditation", "breathing", "yoga_nidra"},
	"improve_focus":      {"meditation", "breathing"},
	"build_flexibility":  {"yoga", "stretching"},
	"build_strength":     {"yoga", "pilates"},
	"recover_from_pain":  {"stretching", "massage", "yoga"},
	"boost_energy":       {"breathing", "yoga", "pilates"},
	"emotional_balance":  {"meditation", "journaling"},
	"new_parent":         {"meditation", "breathing", "stretching"},
	"busy_professional":  {"meditation", "breathing"},
	"student":            {"meditation", "breathing"},
	"recovering_athlete": {"stretching", "massage", "pilates"},
}

// levelOrdinals maps level tokens to the fixed ordinal ladder. English
// and Spanish tokens are accepted; unknown tokens resolve to 0.
var levelOrdinals = map[string]int{
	"beginner":     0,
	"intermediate": 1,
	"advanced":     2,
	"expert":       3,
	"principiante": 0,
	"intermedio":   1,
	"avanzado":     2,
	"experto":      3,
}

// Score computes the deterministic relevance score for one candidate
// against a preference profile. Result is in [0, 1].
func Score(item *models.ContentItem, profile *PreferenceProfile) float64 {
	score := intentionWeight*intentionScore(item, profile) +
		experienceWeight*experienceScore(item, profile) +
		timeBonus(item, profile)

	if score > maxScore {
		return maxScore
	}
	return score
}

// intentionScore is the fraction of the user's intentions whose relevant
// disciplines match the item's discipline.
func intentionScore(item *models.ContentItem, profile *PreferenceProfile) float64 {
	if len(profile.Intentions) == 0 {
		return neutralIntentionScore
	}

	itemDiscipline := strings.ToLower(item.Discipline)
	matches := 0
	for _, intention := range profile.Intentions {
		for _, discipline := range intentionDisciplines[intention] {
			if strings.Contains(itemDiscipline, discipline) || strings.Contains(discipline, itemDiscipline) {
				matches++
				break
			}
		}
	}

	return float64(matches) / float64(len(profile.Intentions))
}

// experienceScore maps the gap between item difficulty and the user's
// level for the item's discipline onto the fixed multiplier table.
func experienceScore(item *models.ContentItem, profile *PreferenceProfile) float64 {
	userLevel := resolveUserLevel(item, profile)
	itemLevel := levelOrdinals[normalizeToken(item.Difficulty)]

	switch diff := itemLevel - userLevel; {
	case diff == 0:
		return 1.0 // exact match
	case diff == -1:
		return 0.8 // slightly easier
	case diff == 1:
		return 0.5 // slightly harder
	case diff > 1:
		return 0.0 // too advanced
	default:
		return 0.3 // much easier
	}
}

// resolveUserLevel finds the user's level for the item's discipline,
// falling back to the first recorded level, then to beginner.
func resolveUserLevel(item *models.ContentItem, profile *PreferenceProfile) int {
	discipline := normalizeToken(item.Discipline)
	if level, ok := profile.ExperienceByDiscipline[discipline]; ok {
		return levelOrdinals[level]
	}
	if profile.FirstLevel != "" {
		return levelOrdinals[profile.FirstLevel]
	}
	return 0
}

// timeBonus rewards items fitting the user's time-commitment bucket.
func timeBonus(item *models.ContentItem, profile *PreferenceProfile) float64 {
	switch profile.TimeCommitment {
	case TimeUnder10:
		if item.DurationSeconds <= shortItemSeconds {
			return shortTimeBonus
		}
	case Time10To20:
		if item.DurationSeconds <= mediumItemSeconds {
			return mediumTimeBonus
		}
	}
	return 0
}
