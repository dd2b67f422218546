// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package store

import (
	"context"
	"fmt"
	"sort"

	"github.com/goccy/go-json"

	"github.com/attune-app/attune/internal/models"
)

// GetUser retrieves a user by ID. Returns ErrNotFound if absent.
func (s *Store) GetUser(ctx context.Context, uid string) (*models.User, error) {
	var user models.User
	err := s.get(userKeyPrefix+uid, func(val []byte) error {
		return json.Unmarshal(val, &user)
	})
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// PutUser stores a user document.
func (s *Store) PutUser(ctx context.Context, user *models.User) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}
	return s.put(userKeyPrefix+user.ID, data)
}

// ListOnboardedUserIDs returns the IDs of all users who completed
// onboarding, sorted for deterministic batch order.
func (s *Store) ListOnboardedUserIDs(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.scanPrefix(userKeyPrefix, func(val []byte) error {
		var user models.User
		if err := json.Unmarshal(val, &user); err != nil {
			return fmt.Errorf("unmarshal user: %w", err)
		}
		if user.OnboardingCompleted {
			ids = append(ids, user.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

// PutOnboardingResponse stores an onboarding submission under the user's
// response prefix.
func (s *Store) PutOnboardingResponse(ctx context.Context, resp *models.OnboardingResponse) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}
	return s.put(responseKeyPrefix+resp.UserID+":"+resp.ID, data)
}

// GetLatestCompletedResponse returns the user's most recently completed
// onboarding submission, by CompletedAt. Returns ErrNotFound when the user
// has no completed submission.
func (s *Store) GetLatestCompletedResponse(ctx context.Context, uid string) (*models.OnboardingResponse, error) {
	var latest *models.OnboardingResponse

	err := s.scanPrefix(responseKeyPrefix+uid+":", func(val []byte) error {
		var resp models.OnboardingResponse
		if err := json.Unmarshal(val, &resp); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
		if resp.Status != models.ResponseCompleted || resp.CompletedAt == nil {
			return nil
		}
		if latest == nil || resp.CompletedAt.After(*latest.CompletedAt) {
			r := resp
			latest = &r
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if latest == nil {
		return nil, ErrNotFound
	}
	return latest, nil
}
