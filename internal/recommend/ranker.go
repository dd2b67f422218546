// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package recommend

import (
	"sort"

	"github.com/attune-app/attune/internal/models"
)

// MaxRecommendations caps the ranked output size.
const MaxRecommendations = 5

// ScoreAll scores every non-excluded candidate against the profile.
// Excluded items are skipped before scoring; scoring them and filtering
// afterwards would produce an identical result.
func ScoreAll(candidates []models.ContentItem, profile *PreferenceProfile, exclusions ExclusionSet) []ScoredCandidate {
	scored := make([]ScoredCandidate, 0, len(candidates))
	for i := range candidates {
		item := &candidates[i]
		if exclusions.Contains(item.ID) {
			continue
		}
		scored = append(scored, ScoredCandidate{
			ContentID: item.ID,
			Score:     Score(item, profile),
		})
	}
	return scored
}

// Rank drops candidates below the score floor, orders the rest highest
// first, and truncates to the output cap. Equal scores keep the original
// candidate order (stable sort).
func Rank(scored []ScoredCandidate, limit int) []ScoredCandidate {
	if limit <= 0 {
		limit = MaxRecommendations
	}

	ranked := make([]ScoredCandidate, 0, len(scored))
	for _, sc := range scored {
		if sc.Score >= MinScore {
			ranked = append(ranked, sc)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	if len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}
