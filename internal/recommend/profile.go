// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package recommend

import (
	"strings"

	"github.com/attune-app/attune/internal/models"
)

// Onboarding question identifiers the extractor reads.
const (
	QuestionIntentions     = "intentions"
	QuestionLifeSituation  = "life_situation"
	QuestionPracticeLevels = "practice_levels"
	QuestionTimeCommitment = "time_commitment"
)

// Time-commitment buckets, shortest first.
const (
	TimeUnder10 = "under_10_minutes"
	Time10To20  = "10_20_minutes"
	TimeOver20  = "over_20_minutes"
	timeDefault = Time10To20

	shortItemSeconds  = 600  // 10 minutes
	mediumItemSeconds = 1200 // 20 minutes
)

// BuildProfile derives a PreferenceProfile from a user's ordered
// onboarding answers. Pure function: no I/O, deterministic.
func BuildProfile(answers []models.OnboardingAnswer) PreferenceProfile {
	profile := PreferenceProfile{
		ExperienceByDiscipline: make(map[string]string),
		TimeCommitment:         timeDefault,
	}

	seen := make(map[string]struct{})
	for _, answer := range answers {
		switch answer.QuestionID {
		case QuestionIntentions, QuestionLifeSituation:
			for _, opt := range answer.SelectedOptions {
				token := normalizeToken(opt)
				if token == "" {
					continue
				}
				if _, dup := seen[token]; dup {
					continue
				}
				seen[token] = struct{}{}
				profile.Intentions = append(profile.Intentions, token)
			}

		case QuestionPracticeLevels:
			for _, opt := range answer.SelectedOptions {
				discipline, level, ok := parseExperienceOption(opt)
				if !ok {
					continue // malformed options are skipped, never an error
				}
				// Last-wins on duplicate disciplines.
				profile.ExperienceByDiscipline[discipline] = level
				if profile.FirstLevel == "" {
					profile.FirstLevel = level
				}
			}

		case QuestionTimeCommitment:
			if len(answer.SelectedOptions) > 0 {
				if bucket := normalizeToken(answer.SelectedOptions[0]); bucket != "" {
					profile.TimeCommitment = bucket
				}
			}
		}
	}

	return profile
}

// parseExperienceOption parses a "discipline:level" option. Options that
// do not split into exactly two non-empty parts report ok=false.
func parseExperienceOption(opt string) (discipline, level string, ok bool) {
	parts := strings.Split(opt, ":")
	if len(parts) != 2 {
		return "", "", false
	}
	discipline = normalizeToken(parts[0])
	level = normalizeToken(parts[1])
	if discipline == "" || level == "" {
		return "", "", false
	}
	return discipline, level, true
}

// normalizeToken lowercases a token and collapses whitespace runs into
// single underscores.
func normalizeToken(s string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	return strings.Join(fields, "_")
}
