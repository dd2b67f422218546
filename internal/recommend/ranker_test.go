// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package recommend

import (
	"testing"

	"github.com/attune-app/attune/internal/models"
)

func TestScoreAllSkipsExcluded(t *testing.T) {
	candidates := []models.ContentItem{
		{ID: "c1", Discipline: "meditation", Difficulty: "beginner"},
		{ID: "c2", Discipline: "yoga", Difficulty: "beginner"},
		{ID: "c3", Discipline: "breathing", Difficulty: "beginner"},
	}
	exclusions := make(ExclusionSet)
	exclusions.Add("c2")

	scored := ScoreAll(candidates, beginnerProfile(), exclusions)

	if len(scored) != 2 {
		t.Fatalf("got %d scored candidates, want 2", len(scored))
	}
	for _, sc := range scored {
		if exclusions.Contains(sc.ContentID) {
			t.Errorf("excluded item %s was scored", sc.ContentID)
		}
	}
}

func TestRankDropsBelowFloor(t *testing.T) {
	scored := []ScoredCandidate{
		{ContentID: "keep", Score: 0.1},
		{ContentID: "drop", Score: 0.0999},
		{ContentID: "high", Score: 0.9},
	}

	ranked := Rank(scored, MaxRecommendations)

	if len(ranked) != 2 {
		t.Fatalf("got %d ranked, want 2", len(ranked))
	}
	for _, sc := range ranked {
		if sc.Score < MinScore {
			t.Errorf("item %s below floor: %v", sc.ContentID, sc.Score)
		}
	}
}

func TestRankSortsDescendingAndTruncates(t *testing.T) {
	scored := []ScoredCandidate{
		{ContentID: "a", Score: 0.3},
		{ContentID: "b", Score: 0.9},
		{ContentID: "c", Score: 0.5},
		{ContentID: "d", Score: 0.7},
		{ContentID: "e", Score: 0.4},
		{ContentID: "f", Score: 0.8},
		{ContentID: "g", Score: 0.6},
	}

	ranked := Rank(scored, MaxRecommendations)

	if len(ranked) != MaxRecommendations {
		t.Fatalf("got %d ranked, want %d", len(ranked), MaxRecommendations)
	}
	for i := 1; i < len(ranked); i++ {
		if ranked[i].Score > ranked[i-1].Score {
			t.Errorf("out of order at %d: %v after %v", i, ranked[i].Score, ranked[i-1].Score)
		}
	}
	if ranked[0].ContentID != "b" {
		t.Errorf("top item = %s, want b", ranked[0].ContentID)
	}
}

func TestRankTieBreakKeepsCandidateOrder(t *testing.T) {
	scored := []ScoredCandidate{
		{ContentID: "first", Score: 0.5},
		{ContentID: "second", Score: 0.5},
		{ContentID: "third", Score: 0.5},
	}

	ranked := Rank(scored, MaxRecommendations)

	want := []string{"first", "second", "third"}
	for i, id := range want {
		if ranked[i].ContentID != id {
			t.Errorf("position %d = %s, want %s (stable order)", i, ranked[i].ContentID, id)
		}
	}
}

func TestRankDefaultLimit(t *testing.T) {
	scored := make([]ScoredCandidate, 10)
	for i := range scored {
		scored[i] = ScoredCandidate{ContentID: string(rune('a' + i)), Score: 0.5}
	}

	ranked := Rank(scored, 0)

	if len(ranked) != MaxRecommendations {
		t.Errorf("got %d ranked with zero limit, want default %d", len(ranked), MaxRecommendations)
	}
}
