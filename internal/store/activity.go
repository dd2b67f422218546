// Attune - Personalized Wellness Content Recommendations
// Copyright 2026 Attune Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/attune-app/attune

package store

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"

	"github.com/attune-app/attune/internal/models"
)

// PutActivityRecord stores a per-user activity record keyed by content ID,
// so repeated plays of the same item overwrite rather than accumulate.
func (s *Store) PutActivityRecord(ctx context.Context, rec *models.ActivityRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal activity record: %w", err)
	}
	return s.put(activityKeyPrefix+rec.UserID+":"+rec.ContentID, data)
}

// GetUserActivity returns all activity records for a user.
func (s *Store) GetUserActivity(ctx context.Context, uid string) ([]models.ActivityRecord, error) {
	var records []models.ActivityRecord
	err := s.scanPrefix(activityKeyPrefix+uid+":", func(val []byte) error {
		var rec models.ActivityRecord
		if err := json.Unmarshal(val, &rec); err != nil {
			return fmt.Errorf("unmarshal activity record: %w", err)
		}
		records = append(records, rec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return records, nil
}

// PutEnrollment stores a per-user program enrollment.
func (s *Store) PutEnrollment(ctx context.Context, enr *models.Enrollment) error {
	data, err := json.Marshal(enr)
	if err != nil {
		return fmt.Errorf("marshal enrollment: %w", err)
	}
	return s.put(enrollmentKeyPrefix+enr.UserID+":"+enr.ProgramID, data)
}

// GetActiveEnrollments returns the user's active enrollments. Completed
// and abandoned enrollments are filtered here.
func (s *Store) GetActiveEnrollments(ctx context.Context, uid string) ([]models.Enrollment, error) {
	var enrollments []models.Enrollment
	err := s.scanPrefix(enrollmentKeyPrefix+uid+":", func(val []byte) error {
		var enr models.Enrollment
		if err := json.Unmarshal(val, &enr); err != nil {
			return fmt.Errorf("unmarshal enrollment: %w", err)
		}
		if enr.Status == models.EnrollmentActive {
			enrollments = append(enrollments, enr)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return enrollments, nil
}
