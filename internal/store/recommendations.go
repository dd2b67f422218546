// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package store

import (
	"context"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/attune-app/attune/internal/models"
)

// latestRunKey is the alias key under which the most recent record for a
// user is always readable.
const latestRunKey = "latest"

// PutRecommendationRecord stores a run's record under its run key and
// updates the user's latest alias in the same transaction, so readers
// never observe the run-keyed document without the alias (or vice versa).
func (s *Store) PutRecommendationRecord(ctx context.Context, runKey string, rec *models.RecommendationRecord) error {
	if runKey == latestRunKey {
		return fmt.Errorf("run key %q is reserved", latestRunKey)
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal recommendation record: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set([]byte(recKeyPrefix+rec.UID+":"+runKey), data); err != nil {
			return fmt.Errorf("set run record: %w", err)
		}
		if err := txn.Set([]byte(recKeyPrefix+rec.UID+":"+latestRunKey), data); err != nil {
			return fmt.Errorf("set latest alias: %w", err)
		}
		return nil
	})
}

// GetRecommendationRecord retrieves one run's record for a user.
// Returns ErrNotFound if no record exists under that run key.
func (s *Store) GetRecommendationRecord(ctx context.Context, uid, runKey string) (*models.RecommendationRecord, error) {
	var rec models.RecommendationRecord
	err := s.get(recKeyPrefix+uid+":"+runKey, func(val []byte) error {
		return json.Unmarshal(val, &rec)
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetLatestRecommendationRecord retrieves the user's most recent record.
func (s *Store) GetLatestRecommendationRecord(ctx context.Context, uid string) (*models.RecommendationRecord, error) {
	return s.GetRecommendationRecord(ctx, uid, latestRunKey)
}
